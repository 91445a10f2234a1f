package iopopulate

import (
	"context"
	"log/slog"

	"github.com/gnames/wfdb/pkg/errcode"
	"github.com/gnames/wfdb/pkg/fwi"
	"github.com/gnames/wfdb/pkg/geo"
	"github.com/gnames/wfdb/pkg/merge"
	"github.com/gnames/wfdb/pkg/meteo"
)

// withRetries runs a checkpoint up to 1+CheckpointRetries times.
// Repeating a checkpoint is safe because inserts ignore existing rows.
func (p *populator) withRetries(
	ctx context.Context,
	datasetID string,
	cp geo.Checkpoint,
	dates geo.DateRange,
) (int64, error) {
	var err error
	attempts := 1 + p.cfg.Populate.CheckpointRetries
	for attempt := 1; attempt <= attempts; attempt++ {
		start := p.clock.Now()
		var rows int64
		rows, err = p.checkpoint(ctx, datasetID, cp, dates)
		if err == nil {
			p.metrics.Checkpoint("ok", p.since(start))
			p.metrics.Rows(rows)
			slog.Info("Checkpoint stored",
				"checkpoint", cp.ID, "rows", rows, "attempt", attempt)
			return rows, nil
		}
		if ctx.Err() != nil || !retryable(err) || attempt == attempts {
			break
		}
		p.metrics.Checkpoint("retry", p.since(start))
		slog.Warn("Checkpoint failed, retrying",
			"checkpoint", cp.ID, "attempt", attempt, "error", err)
	}

	p.metrics.Checkpoint("failed", 0)
	slog.Error("Checkpoint failed",
		"checkpoint", cp.ID,
		"lat_min", cp.Box.LatMin, "lat_max", cp.Box.LatMax,
		"lng_min", cp.Box.LngMin, "lng_max", cp.Box.LngMax,
		"error", err,
	)
	return 0, CheckpointError(cp.ID, err)
}

// retryable excludes errors that repeat on every attempt.
func retryable(err error) bool {
	switch errcode.Of(err) {
	case errcode.TemporalDomainError, errcode.OutOfDomainError,
		errcode.RasterShapeError, errcode.RasterDecodeError:
		return false
	}
	return true
}

// checkpoint fetches meteo, computes fire indices, joins rasters and
// stores the rows. It returns the number of inserted rows.
func (p *populator) checkpoint(
	ctx context.Context,
	datasetID string,
	cp geo.Checkpoint,
	dates geo.DateRange,
) (int64, error) {
	pc := p.cfg.Populate

	recs, err := p.meteo.Fetch(ctx, cp.Range, dates.Extend(pc.BacktrackDays))
	if err != nil {
		return 0, err
	}
	indexed := withinDates(fwi.Enrich(recs, pc.IntervalSize), dates)

	burned, err := p.rasters.BurnedArea(ctx, cp.Range, dates)
	if err != nil {
		return 0, err
	}
	emissions, err := p.rasters.Emissions(ctx, cp.Range, dates)
	if err != nil {
		return 0, err
	}

	rows := merge.Merge(datasetID, indexed, burned, emissions)
	return p.operator.InsertObservations(ctx, rows)
}

// withinDates drops warm-up days that precede the date range.
func withinDates(recs []meteo.Indexed, dates geo.DateRange) []meteo.Indexed {
	res := recs[:0]
	for _, r := range recs {
		if dates.Contains(r.Date) {
			res = append(res, r)
		}
	}
	return res
}
