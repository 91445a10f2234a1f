package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "wfdb"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/wfdb by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/wfdb by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// RasterDir keeps downloaded yearly and daily raster files.
func RasterDir(homeDir string) string {
	return filepath.Join(CacheDir(homeDir), "rasters")
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/wfdb/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/wfdb/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// SQLitePath returns the sqlite database file, either configured or
// the default one in the cache directory.
func (c *Config) SQLitePath() string {
	if c.Database.SQLitePath != "" {
		return c.Database.SQLitePath
	}
	return filepath.Join(CacheDir(c.HomeDir), "wfdb.sqlite")
}
