// Package iofs manages wfdb directories and files on the local file
// system.
package iofs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gnames/wfdb/pkg/config"
	"gopkg.in/yaml.v3"
)

const configHeader = `wfdb configuration.

Precedence (highest to lowest): CLI flags > WFDB_* environment
variables > this file > built-in defaults.
Bounding box, dates and other populate settings are CLI flags only.`

// EnsureDirs creates config, cache, raster cache and log directories.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.RasterDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes config.yaml with default values, unless the
// file already exists.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	data, err := ConfigYAML(config.New())
	if err != nil {
		return CopyFileError(configPath, err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// ConfigYAML renders persistent fields of a config as YAML.
// Durations are written in their human readable form, like "1m0s".
func ConfigYAML(cfg *config.Config) ([]byte, error) {
	var doc yaml.Node
	if err := doc.Encode(cfg); err != nil {
		return nil, err
	}
	doc.HeadComment = configHeader

	durations := map[string]string{
		"timeout":         cfg.Remote.Timeout.String(),
		"archive_timeout": cfg.Remote.ArchiveTimeout.String(),
		"initial_backoff": cfg.Remote.InitialBackoff.String(),
	}
	if remote := mappingValue(&doc, "remote"); remote != nil {
		for i := 0; i+1 < len(remote.Content); i += 2 {
			if d, ok := durations[remote.Content[i].Value]; ok {
				remote.Content[i+1].Tag = "!!str"
				remote.Content[i+1].Value = d
			}
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// mappingValue finds a value of a key in a mapping node.
func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// AtomicWrite copies r into path through a temporary file in the same
// directory. A reader never sees a partially written file under path.
func AtomicWrite(path string, r io.Reader) (int64, error) {
	dir := filepath.Dir(path)
	if err := touchDir(dir); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.part")
	if err != nil {
		return 0, WriteFileError(path, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	n, err := io.Copy(tmp, r)
	if err != nil {
		cleanup()
		return 0, WriteFileError(path, err)
	}
	if err = tmp.Sync(); err != nil {
		cleanup()
		return 0, WriteFileError(path, err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, WriteFileError(path, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return 0, WriteFileError(path,
			fmt.Errorf("rename %s: %w", tmpPath, err))
	}
	return n, nil
}

// Exists reports if path is an existing regular file of non-zero size.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}
