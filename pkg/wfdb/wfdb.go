// Package wfdb defines the contracts between the commands and the
// impure components that fetch, fuse and persist wildfire data.
package wfdb

import (
	"context"
	"time"

	"github.com/gnames/wfdb/pkg/geo"
	"github.com/gnames/wfdb/pkg/meteo"
	"github.com/gnames/wfdb/pkg/raster"
)

// SchemaManager creates the database schema. Creation is idempotent.
type SchemaManager interface {
	Create(ctx context.Context) error
}

// Populator runs one population of a dataset.
type Populator interface {
	// Populate creates a dataset, loads all checkpoints and completes the
	// dataset. A report is returned even when some checkpoints failed.
	Populate(ctx context.Context) (*Report, error)
}

// MeteoFetcher returns daily weather for every cell of a range and
// every day of a date range. Failure of any cell fails the call.
type MeteoFetcher interface {
	Fetch(ctx context.Context, r geo.IndexRange, dr geo.DateRange) ([]meteo.Record, error)
}

// RasterFuser builds per-day samples from cached raster archives.
type RasterFuser interface {
	// CheckDates returns TemporalDomainError when the archives do not
	// cover the date range.
	CheckDates(dr geo.DateRange) error

	// BurnedArea returns daily burned area samples. Days without an
	// archive file are skipped.
	BurnedArea(ctx context.Context, r geo.IndexRange, dr geo.DateRange) ([]raster.Sample, error)

	// Emissions returns daily fire carbon emission samples.
	Emissions(ctx context.Context, r geo.IndexRange, dr geo.DateRange) ([]raster.Sample, error)
}

// Report summarizes a population run.
type Report struct {
	DatasetID string
	// Rows is the number of inserted observations.
	Rows int64
	// Checkpoints is the total number of checkpoints.
	Checkpoints int
	// Failed lists IDs of checkpoints that stored nothing.
	Failed   []string
	Duration time.Duration
}

// Partial reports if some, but not all, checkpoints failed.
func (r *Report) Partial() bool {
	return len(r.Failed) > 0 && len(r.Failed) < r.Checkpoints
}
