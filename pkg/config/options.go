package config

import (
	"strings"
	"time"

	"github.com/gnames/gn"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseDriver sets the persistence backend.
// Valid values: "postgres", "sqlite".
func OptDatabaseDriver(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Database.Driver", s) {
			c.Database.Driver = s
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseSQLitePath sets the file of the sqlite database.
func OptDatabaseSQLitePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database SQLite Path", s) {
			c.Database.SQLitePath = s
		}
	}
}

// OptDatabaseBatchSize sets the maximum number of rows per INSERT.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptArchiveBaseURL sets the URL of the yearly archive directory.
func OptArchiveBaseURL(s string) Option {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	return func(c *Config) {
		if isValidString("Archive Base URL", s) {
			c.Archive.BaseURL = s
		}
	}
}

// OptArchivePrefix sets the file name prefix of yearly archives.
func OptArchivePrefix(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Archive Prefix", s) {
			c.Archive.Prefix = s
		}
	}
}

// OptArchiveYears sets the closed range of available archive years.
func OptArchiveYears(minYear, maxYear int) Option {
	return func(c *Config) {
		if !isValidInt("Archive Min Year", minYear) ||
			!isValidInt("Archive Max Year", maxYear) {
			return
		}
		if minYear > maxYear {
			gn.Warn(
				"<em>Archive years</em> range %d..%d is empty, ignoring",
				minYear, maxYear,
			)
			return
		}
		c.Archive.MinYear = minYear
		c.Archive.MaxYear = maxYear
	}
}

// OptDailyHost sets the SFTP host of daily burned area files.
func OptDailyHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Daily Host", s) {
			c.Daily.Host = s
		}
	}
}

// OptDailyPort sets the SFTP port.
func OptDailyPort(i int) Option {
	return func(c *Config) {
		if isValidInt("Daily Port", i) {
			c.Daily.Port = i
		}
	}
}

// OptDailyUser sets the SFTP user.
func OptDailyUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Daily User", s) {
			c.Daily.User = s
		}
	}
}

// OptDailyPassword sets the SFTP password.
func OptDailyPassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Daily Password", s) {
			c.Daily.Password = s
		}
	}
}

// OptDailyDir sets the remote directory that contains per-year folders.
func OptDailyDir(s string) Option {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	return func(c *Config) {
		if isValidString("Daily Dir", s) {
			c.Daily.Dir = s
		}
	}
}

// OptDailyPrefix sets the file name prefix of daily files.
func OptDailyPrefix(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Daily Prefix", s) {
			c.Daily.Prefix = s
		}
	}
}

// OptDailySuffix sets the file name suffix of daily files.
func OptDailySuffix(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Daily Suffix", s) {
			c.Daily.Suffix = s
		}
	}
}

// OptDailyLayer sets the burned area dataset name inside daily files.
func OptDailyLayer(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Daily Layer", s) {
			c.Daily.Layer = s
		}
	}
}

// OptDailyKnownHosts sets the known_hosts file for SFTP host key checks.
func OptDailyKnownHosts(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Daily Known Hosts", s) {
			c.Daily.KnownHosts = s
		}
	}
}

// OptDailyH4ToH5 sets the path of the HDF4 to HDF5 converter.
func OptDailyH4ToH5(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Daily h4toh5", s) {
			c.Daily.H4ToH5 = s
		}
	}
}

// OptMeteoBaseURL sets the endpoint of the daily point meteo API.
func OptMeteoBaseURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Meteo Base URL", s) {
			c.Meteo.BaseURL = s
		}
	}
}

// OptMeteoCommunity sets the POWER user community (AG, RE, SB).
func OptMeteoCommunity(s string) Option {
	s = strings.ToUpper(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Meteo.Community", s) {
			c.Meteo.Community = s
		}
	}
}

// OptRemoteTimeout sets the timeout of a single remote call.
func OptRemoteTimeout(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Remote Timeout", d) {
			c.Remote.Timeout = d
		}
	}
}

// OptRemoteArchiveTimeout sets the timeout of a yearly archive download.
func OptRemoteArchiveTimeout(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Remote Archive Timeout", d) {
			c.Remote.ArchiveTimeout = d
		}
	}
}

// OptRemoteMaxRetries sets the number of retries of a transient failure.
// Zero disables retries.
func OptRemoteMaxRetries(i int) Option {
	return func(c *Config) {
		if isValidNonNegative("Remote Max Retries", i) {
			c.Remote.MaxRetries = i
		}
	}
}

// OptRemoteInitialBackoff sets the delay before the first retry.
func OptRemoteInitialBackoff(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Remote Initial Backoff", d) {
			c.Remote.InitialBackoff = d
		}
	}
}

// OptPopulateBoundingBox sets the geographic extent of the run.
// Values are kept as given, the box is validated before population
// starts so that an inverted box fails the run.
// Runtime-only field - not in ToOptions().
func OptPopulateBoundingBox(latMin, latMax, lngMin, lngMax float64) Option {
	return func(c *Config) {
		c.Populate.LatMin = latMin
		c.Populate.LatMax = latMax
		c.Populate.LngMin = lngMin
		c.Populate.LngMax = lngMax
	}
}

// OptPopulateDates sets the inclusive date range, format YYYY-MM-DD.
// Runtime-only field - not in ToOptions().
func OptPopulateDates(start, end string) Option {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	return func(c *Config) {
		if isValidDate("Start Date", start) && isValidDate("End Date", end) {
			c.Populate.StartDate = start
			c.Populate.EndDate = end
		}
	}
}

// OptPopulateSteps sets the checkpoint grid.
// Runtime-only field - not in ToOptions().
func OptPopulateSteps(latSteps, lngSteps int) Option {
	return func(c *Config) {
		if isValidInt("Latitude Steps", latSteps) &&
			isValidInt("Longitude Steps", lngSteps) {
			c.Populate.LatSteps = latSteps
			c.Populate.LngSteps = lngSteps
		}
	}
}

// OptPopulateParallel enables the worker pool.
// Runtime-only field - not in ToOptions().
func OptPopulateParallel(b bool) Option {
	return func(c *Config) {
		c.Populate.Parallel = b
	}
}

// OptPopulateIntervalSize sets the length of independent fire index
// intervals in days. Zero means a single interval.
// Runtime-only field - not in ToOptions().
func OptPopulateIntervalSize(i int) Option {
	return func(c *Config) {
		if isValidNonNegative("Interval Size", i) {
			c.Populate.IntervalSize = i
		}
	}
}

// OptPopulateBacktrackDays sets the warm-up period of fire indices.
// Runtime-only field - not in ToOptions().
func OptPopulateBacktrackDays(i int) Option {
	return func(c *Config) {
		if isValidNonNegative("Backtrack Days", i) {
			c.Populate.BacktrackDays = i
		}
	}
}

// OptPopulateDatasetName sets the name of the dataset.
// Runtime-only field - not in ToOptions().
func OptPopulateDatasetName(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Dataset Name", s) {
			c.Populate.DatasetName = s
		}
	}
}

// OptPopulateCheckpointRetries sets how many times a failed checkpoint
// is attempted again.
// Runtime-only field - not in ToOptions().
func OptPopulateCheckpointRetries(i int) Option {
	return func(c *Config) {
		if isValidNonNegative("Checkpoint Retries", i) {
			c.Populate.CheckpointRetries = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent checkpoint workers.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
