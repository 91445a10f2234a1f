// Package iopopulate implements Populator interface. A run creates a
// dataset, splits its bounding box into checkpoints, loads every
// checkpoint on a bounded pool of workers and completes the dataset
// once all checkpoints were attempted.
package iopopulate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/wfdb/internal/iometrics"
	"github.com/gnames/wfdb/pkg/config"
	"github.com/gnames/wfdb/pkg/db"
	"github.com/gnames/wfdb/pkg/geo"
	"github.com/gnames/wfdb/pkg/schema"
	"github.com/gnames/wfdb/pkg/wfdb"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// populator implements the Populator interface.
type populator struct {
	cfg      *config.Config
	operator db.Operator
	meteo    wfdb.MeteoFetcher
	rasters  wfdb.RasterFuser
	clock    clockwork.Clock
	metrics  *iometrics.Metrics
	newID    func() string
	progress bool
}

// Option changes optional dependencies of a populator.
type Option func(*populator)

// OptClock sets the clock used for dataset timestamps.
func OptClock(c clockwork.Clock) Option {
	return func(p *populator) { p.clock = c }
}

// OptMetrics sets Prometheus metrics of the run.
func OptMetrics(m *iometrics.Metrics) Option {
	return func(p *populator) { p.metrics = m }
}

// OptProgress shows a progress bar of checkpoints on the terminal.
func OptProgress(b bool) Option {
	return func(p *populator) { p.progress = b }
}

// OptIDGenerator replaces random dataset IDs.
func OptIDGenerator(f func() string) Option {
	return func(p *populator) { p.newID = f }
}

// New creates a new Populator.
func New(
	cfg *config.Config,
	op db.Operator,
	mf wfdb.MeteoFetcher,
	rf wfdb.RasterFuser,
	opts ...Option,
) wfdb.Populator {
	res := &populator{
		cfg:      cfg,
		operator: op,
		meteo:    mf,
		rasters:  rf,
		clock:    clockwork.NewRealClock(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// result of a checkpoint, sent to the coordinator.
type result struct {
	id   string
	rows int64
	err  error
}

// run is a validated request of a population.
type run struct {
	box   geo.BoundingBox
	grid  geo.IndexRange
	dates geo.DateRange
}

// Populate creates a dataset, loads all checkpoints and completes the
// dataset with the number of inserted rows. A report is returned when
// the dataset was completed, even if some checkpoints failed.
func (p *populator) Populate(ctx context.Context) (*wfdb.Report, error) {
	startTime := p.clock.Now()

	r, err := p.preflight()
	if err != nil {
		return nil, err
	}

	if err = ctx.Err(); err != nil {
		return nil, CancelledError(err)
	}

	pc := p.cfg.Populate
	cps := geo.Partition(r.grid, pc.LatSteps, pc.LngSteps)

	ds := &schema.Dataset{
		ID:            p.newID(),
		Name:          pc.DatasetName,
		BacktrackDays: pc.BacktrackDays,
		IntervalSize:  pc.IntervalSize,
		LatMin:        r.box.LatMin,
		LatMax:        r.box.LatMax,
		LngMin:        r.box.LngMin,
		LngMax:        r.box.LngMax,
		StartDate:     r.dates.Start,
		EndDate:       r.dates.End,
		Checkpoints:   len(cps),
		CreatedAt:     startTime.UTC(),
	}
	if err = p.operator.CreateDataset(ctx, ds); err != nil {
		return nil, err
	}

	workers := min(p.cfg.Workers(), len(cps))
	slog.Info("Starting population",
		"dataset_id", ds.ID,
		"cells", r.grid.Len(),
		"days", r.dates.Len(),
		"checkpoints", len(cps),
		"workers", workers,
	)
	gn.Info("Populating dataset <em>%s</em> (%s cells, %d days, %d checkpoints)",
		ds.ID, humanize.Comma(int64(r.grid.Len())), r.dates.Len(), len(cps))

	results := p.load(ctx, ds.ID, cps, r.dates, workers)

	if err = ctx.Err(); err != nil {
		slog.Warn("Population cancelled, dataset is left incomplete",
			"dataset_id", ds.ID)
		return nil, CancelledError(err)
	}

	report := &wfdb.Report{DatasetID: ds.ID, Checkpoints: len(cps)}
	var errs *multierror.Error
	for _, res := range results {
		if res.err != nil {
			report.Failed = append(report.Failed, res.id)
			errs = multierror.Append(errs,
				fmt.Errorf("checkpoint %s: %w", res.id, res.err))
			continue
		}
		report.Rows += res.rows
	}
	sort.Strings(report.Failed)

	completed := p.clock.Now().UTC()
	ds.RowCount = report.Rows
	ds.FailedCheckpoints = len(report.Failed)
	ds.CompletedAt = &completed
	if err = p.operator.CompleteDataset(ctx, ds); err != nil {
		return nil, err
	}
	report.Duration = p.clock.Since(startTime)

	p.summary(report)

	if len(report.Failed) == len(cps) {
		return report, AllCheckpointsFailedError(len(cps), errs.ErrorOrNil())
	}
	return report, nil
}

// preflight validates the request before anything is written.
func (p *populator) preflight() (run, error) {
	var res run
	var err error
	pc := p.cfg.Populate

	res.box, err = geo.NewBoundingBox(pc.LatMin, pc.LatMax, pc.LngMin, pc.LngMax)
	if err != nil {
		return res, err
	}
	if res.grid, err = geo.Index(res.box); err != nil {
		return res, err
	}
	if res.dates, err = geo.ParseDateRange(pc.StartDate, pc.EndDate); err != nil {
		return res, err
	}
	if err = p.rasters.CheckDates(res.dates); err != nil {
		return res, err
	}
	return res, nil
}

// load runs checkpoints on the worker pool. A failed checkpoint does
// not cancel the others. Results are collected after every worker has
// finished.
func (p *populator) load(
	ctx context.Context,
	datasetID string,
	cps []geo.Checkpoint,
	dates geo.DateRange,
	workers int,
) []result {
	var bar *pb.ProgressBar
	if p.progress {
		bar = pb.Full.Start(len(cps))
		bar.Set("prefix", "Checkpoints ")
		defer bar.Finish()
	}

	ch := make(chan result, len(cps))
	var g errgroup.Group
	g.SetLimit(max(workers, 1))

	for _, cp := range cps {
		g.Go(func() error {
			rows, err := p.withRetries(ctx, datasetID, cp, dates)
			ch <- result{id: cp.ID, rows: rows, err: err}
			if bar != nil {
				bar.Increment()
			}
			return nil
		})
	}
	g.Wait()
	close(ch)

	res := make([]result, 0, len(cps))
	for r := range ch {
		res = append(res, r)
	}
	return res
}

func (p *populator) summary(report *wfdb.Report) {
	dur := gnfmt.TimeString(report.Duration.Seconds())
	slog.Info("Population complete",
		"dataset_id", report.DatasetID,
		"rows", report.Rows,
		"checkpoints", report.Checkpoints,
		"failed", len(report.Failed),
		"duration", dur,
	)
	gn.Info(`Population complete
Dataset: <em>%s</em>
Rows inserted: %s, checkpoints: %d, failed: %d.
Elapsed time: <em>%s</em>`,
		report.DatasetID,
		humanize.Comma(report.Rows),
		report.Checkpoints,
		len(report.Failed),
		dur,
	)
	if report.Partial() {
		slog.Warn("Dataset is partial", "failed_checkpoints", report.Failed)
		gn.Warn("Dataset is partial, failed checkpoints: %v", report.Failed)
	}
}

// since is used by checkpoint timing.
func (p *populator) since(t time.Time) time.Duration {
	return p.clock.Since(t)
}
