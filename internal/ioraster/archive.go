// Package ioraster keeps a local cache of GFED raster files. Yearly
// emission archives come over HTTP, daily burned area files over SFTP.
// Files are written atomically and are never expired.
package ioraster

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/gnames/wfdb/internal/iofs"
	"github.com/gnames/wfdb/internal/iohttp"
	"github.com/gnames/wfdb/internal/iometrics"
	"github.com/gnames/wfdb/pkg/config"
	"github.com/gnames/wfdb/pkg/geo"
	"golang.org/x/sync/singleflight"
)

// Archive is a cache of yearly GFED4.1s files.
type Archive struct {
	cfg     config.ArchiveConfig
	dir     string
	client  *iohttp.Client
	metrics *iometrics.Metrics
	group   singleflight.Group
}

// NewArchive creates a yearly archive cache in the raster directory.
func NewArchive(
	cfg *config.Config,
	client *iohttp.Client,
	m *iometrics.Metrics,
) *Archive {
	return &Archive{
		cfg:     cfg.Archive,
		dir:     config.RasterDir(cfg.HomeDir),
		client:  client,
		metrics: m,
	}
}

// CheckYear returns TemporalDomainError for years without an archive.
func (a *Archive) CheckYear(year int) error {
	if year < a.cfg.MinYear || year > a.cfg.MaxYear {
		return TemporalDomainError(year, a.cfg.MinYear, a.cfg.MaxYear)
	}
	return nil
}

// CheckDates checks every year of the date range.
func (a *Archive) CheckDates(dr geo.DateRange) error {
	first, last := dr.Years()
	for year := first; year <= last; year++ {
		if err := a.CheckYear(year); err != nil {
			return err
		}
	}
	return nil
}

// URL returns the remote location of a yearly file.
func (a *Archive) URL(year int) string {
	return fmt.Sprintf("%s/%s_%d.hdf5", a.cfg.BaseURL, a.cfg.Prefix, year)
}

// Path returns the local location of a yearly file.
func (a *Archive) Path(year int) string {
	name := fmt.Sprintf("gfed_%s_%d.hdf5", a.cfg.Prefix, year)
	return filepath.Join(a.dir, name)
}

// YearFile returns a local path to the archive of the year, downloading
// it on the first request. Concurrent requests of the same year share
// one download.
func (a *Archive) YearFile(ctx context.Context, year int) (string, error) {
	if err := a.CheckYear(year); err != nil {
		return "", err
	}

	path := a.Path(year)
	if iofs.Exists(path) {
		a.metrics.Cache("archive", "hit")
		return path, nil
	}

	_, err, _ := a.group.Do(strconv.Itoa(year), func() (any, error) {
		// another call could finish the download meanwhile
		if iofs.Exists(path) {
			return nil, nil
		}
		a.metrics.Cache("archive", "miss")
		return nil, a.download(ctx, year, path)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

func (a *Archive) download(ctx context.Context, year int, path string) error {
	url := a.URL(year)
	slog.Info("Downloading yearly archive", "year", year, "url", url)

	resp, err := a.client.Get(ctx, url)
	a.metrics.Remote("archive", err)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	n, err := iofs.AtomicWrite(path, resp.Body)
	if err != nil {
		return DownloadError(url, err)
	}
	slog.Info("Yearly archive cached", "year", year, "path", path, "bytes", n)
	return nil
}
