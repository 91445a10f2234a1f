// Package config provides configuration management for wfdb.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: driver, host, port, user, password, database, ssl_mode,
//     sqlite_path, batch_size
//   - Archive: base_url, prefix, min_year, max_year
//   - Daily: host, port, user, password, dir, prefix, suffix, layer,
//     known_hosts, h4toh5
//   - Meteo: base_url, community
//   - Remote: timeout, archive_timeout, max_retries, initial_backoff
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Populate.* (bounding box, dates, steps, parallel, interval size,
//     backtrack days, dataset name, checkpoint retries)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use WFDB_ prefix with underscores for nesting:
//
//	WFDB_DATABASE_HOST=localhost
//	WFDB_DATABASE_DRIVER=sqlite
//	WFDB_DAILY_PASSWORD=secret
//	WFDB_JOBS_NUMBER=8
package config

import (
	"runtime"
	"time"
)

// Config represents the complete wfdb configuration.
type Config struct {
	// Database contains persistence settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Archive describes the yearly GFED emissions archive.
	Archive ArchiveConfig `mapstructure:"archive" yaml:"archive"`

	// Daily describes the SFTP archive of daily burned area files.
	Daily DailyConfig `mapstructure:"daily" yaml:"daily"`

	// Meteo describes the point meteorology API.
	Meteo MeteoConfig `mapstructure:"meteo" yaml:"meteo"`

	// Remote contains timeouts and retry policy shared by remote calls.
	Remote RemoteConfig `mapstructure:"remote" yaml:"remote"`

	// Populate contains settings of a single populate run.
	Populate PopulateConfig `mapstructure:"populate" yaml:"-"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent checkpoint workers
	// when the run is parallel.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string `mapstructure:"-" yaml:"-"`
}

// DatabaseConfig contains database connection parameters.
type DatabaseConfig struct {
	// Driver is either "postgres" or "sqlite".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// SQLitePath is the database file used by the sqlite driver.
	// Empty value means <cache dir>/wfdb.sqlite.
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`

	// BatchSize is the maximum number of observation rows per INSERT.
	// It is capped by the driver's limit of bound parameters.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// ArchiveConfig locates yearly GFED4.1s HDF5 files.
// A file URL is <BaseURL>/<Prefix>_<year>.hdf5.
type ArchiveConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	Prefix  string `mapstructure:"prefix"   yaml:"prefix"`
	// MinYear and MaxYear close the range of published years.
	MinYear int `mapstructure:"min_year" yaml:"min_year"`
	MaxYear int `mapstructure:"max_year" yaml:"max_year"`
}

// DailyConfig locates daily burned area files on an SFTP server.
// A remote path is <Dir>/<year>/<Prefix>_<year><doy>_<Suffix>.hdf.
type DailyConfig struct {
	Host     string `mapstructure:"host"     yaml:"host"`
	Port     int    `mapstructure:"port"     yaml:"port"`
	User     string `mapstructure:"user"     yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
	Dir      string `mapstructure:"dir"      yaml:"dir"`
	Prefix   string `mapstructure:"prefix"   yaml:"prefix"`
	Suffix   string `mapstructure:"suffix"   yaml:"suffix"`

	// Layer is the name of the burned area dataset inside a daily file.
	Layer string `mapstructure:"layer" yaml:"layer"`

	// KnownHosts is a path to a known_hosts file. When empty, the host key
	// is not verified and a warning is logged.
	KnownHosts string `mapstructure:"known_hosts" yaml:"known_hosts"`

	// H4ToH5 is a path to the h4toh5 converter. When set, downloaded
	// HDF4 files are converted to HDF5 before they are cached.
	H4ToH5 string `mapstructure:"h4toh5" yaml:"h4toh5"`
}

// MeteoConfig describes the NASA POWER daily point API.
type MeteoConfig struct {
	BaseURL   string `mapstructure:"base_url"  yaml:"base_url"`
	Community string `mapstructure:"community" yaml:"community"`
}

// RemoteConfig is the policy for every remote call.
type RemoteConfig struct {
	// Timeout bounds a single meteo request or SFTP transfer.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// ArchiveTimeout bounds download of a yearly archive (hundreds of MB).
	ArchiveTimeout time.Duration `mapstructure:"archive_timeout" yaml:"archive_timeout"`

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`

	// InitialBackoff is doubled after every failed attempt.
	InitialBackoff time.Duration `mapstructure:"initial_backoff" yaml:"initial_backoff"`
}

// PopulateConfig contains settings of the populate command.
type PopulateConfig struct {
	LatMin float64 `mapstructure:"lat_min"`
	LatMax float64 `mapstructure:"lat_max"`
	LngMin float64 `mapstructure:"lng_min"`
	LngMax float64 `mapstructure:"lng_max"`

	// StartDate and EndDate are inclusive, format YYYY-MM-DD.
	StartDate string `mapstructure:"start_date"`
	EndDate   string `mapstructure:"end_date"`

	// LatSteps and LngSteps split the bounding box into checkpoints.
	LatSteps int `mapstructure:"lat_steps"`
	LngSteps int `mapstructure:"lng_steps"`

	// Parallel runs checkpoints on JobsNumber workers instead of one.
	Parallel bool `mapstructure:"parallel"`

	// IntervalSize restarts fire index computation every N days.
	// Zero means one interval for the whole series.
	IntervalSize int `mapstructure:"interval_size"`

	// BacktrackDays extends meteorology before the start date so that
	// fire indices are warmed up when the first stored day comes.
	BacktrackDays int `mapstructure:"backtrack_days"`

	// DatasetName is a human readable name of the run.
	DatasetName string `mapstructure:"dataset_name"`

	// CheckpointRetries is the number of extra attempts for a failed
	// checkpoint.
	CheckpointRetries int `mapstructure:"checkpoint_retries"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Driver:    "postgres",
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "wildfires",
			SSLMode:   "disable",
			BatchSize: 2_000,
		},
		Archive: ArchiveConfig{
			BaseURL: "https://www.geo.vu.nl/~gwerf/GFED/GFED4",
			Prefix:  "GFED4.1s",
			MinYear: 1997,
			MaxYear: 2016,
		},
		Daily: DailyConfig{
			Host:     "fuoco.geog.umd.edu",
			Port:     22,
			User:     "fire",
			Password: "burnt",
			Dir:      "data/GFED/GFED4/daily",
			Prefix:   "GFED4.0_DQ",
			Suffix:   "BA",
			Layer:    "BurnedArea",
		},
		Meteo: MeteoConfig{
			BaseURL:   "https://power.larc.nasa.gov/api/temporal/daily/point",
			Community: "AG",
		},
		Remote: RemoteConfig{
			Timeout:        time.Minute,
			ArchiveTimeout: 30 * time.Minute,
			MaxRetries:     3,
			InitialBackoff: 2 * time.Second,
		},
		Populate: PopulateConfig{
			LatSteps:          1,
			LngSteps:          1,
			DatasetName:       "wildfires",
			CheckpointRetries: 1,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}

// Workers returns the size of the checkpoint worker pool.
func (c *Config) Workers() int {
	if c.Populate.Parallel {
		return c.JobsNumber
	}
	return 1
}
