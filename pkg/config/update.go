package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/gnames/gn"
)

// DateFormat is the layout of dates in flags and config.
const DateFormat = "2006-01-02"

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, Populate).
func (c *Config) ToOptions() []Option {
	var res []Option

	addStr := func(s string, fn func(string) Option) {
		if s != "" {
			res = append(res, fn(s))
		}
	}
	addInt := func(i int, fn func(int) Option) {
		if i > 0 {
			res = append(res, fn(i))
		}
	}
	addDur := func(d time.Duration, fn func(time.Duration) Option) {
		if d > 0 {
			res = append(res, fn(d))
		}
	}

	db := c.Database
	addStr(db.Driver, OptDatabaseDriver)
	addStr(db.Host, OptDatabaseHost)
	addInt(db.Port, OptDatabasePort)
	addStr(db.User, OptDatabaseUser)
	addStr(db.Password, OptDatabasePassword)
	addStr(db.Database, OptDatabaseDatabase)
	addStr(db.SSLMode, OptDatabaseSSLMode)
	addStr(db.SQLitePath, OptDatabaseSQLitePath)
	addInt(db.BatchSize, OptDatabaseBatchSize)

	addStr(c.Archive.BaseURL, OptArchiveBaseURL)
	addStr(c.Archive.Prefix, OptArchivePrefix)
	if c.Archive.MinYear > 0 && c.Archive.MaxYear > 0 {
		res = append(res, OptArchiveYears(c.Archive.MinYear, c.Archive.MaxYear))
	}

	d := c.Daily
	addStr(d.Host, OptDailyHost)
	addInt(d.Port, OptDailyPort)
	addStr(d.User, OptDailyUser)
	addStr(d.Password, OptDailyPassword)
	addStr(d.Dir, OptDailyDir)
	addStr(d.Prefix, OptDailyPrefix)
	addStr(d.Suffix, OptDailySuffix)
	addStr(d.Layer, OptDailyLayer)
	addStr(d.KnownHosts, OptDailyKnownHosts)
	addStr(d.H4ToH5, OptDailyH4ToH5)

	addStr(c.Meteo.BaseURL, OptMeteoBaseURL)
	addStr(c.Meteo.Community, OptMeteoCommunity)

	addDur(c.Remote.Timeout, OptRemoteTimeout)
	addDur(c.Remote.ArchiveTimeout, OptRemoteArchiveTimeout)
	// zero retries is a valid persistent choice
	if c.Remote.MaxRetries >= 0 {
		res = append(res, OptRemoteMaxRetries(c.Remote.MaxRetries))
	}
	addDur(c.Remote.InitialBackoff, OptRemoteInitialBackoff)

	addStr(c.Log.Format, OptLogFormat)
	addStr(c.Log.Level, OptLogLevel)
	addStr(c.Log.Destination, OptLogDestination)

	addInt(c.JobsNumber, OptJobsNumber)
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidNonNegative(name string, i int) bool {
	res := i >= 0
	if !res {
		gn.Warn("<em>%s</em> cannot be negative, ignoring %d", name, i)
	}
	return res
}

func isValidDuration(name string, d time.Duration) bool {
	res := d > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive duration, ignoring %s", name, d)
	}
	return res
}

func isValidDate(name, s string) bool {
	if _, err := time.Parse(DateFormat, s); err != nil {
		gn.Warn("<em>%s</em> '%s' is not a YYYY-MM-DD date, ignoring", name, s)
		return false
	}
	return true
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.Driver": {"postgres": s, "sqlite": s},
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Meteo.Community": {"AG": s, "RE": s, "SB": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
