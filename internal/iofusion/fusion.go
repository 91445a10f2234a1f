// Package iofusion turns cached GFED rasters into daily samples of
// burned area and fire carbon emissions for a grid range.
package iofusion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gnames/wfdb/pkg/errcode"
	"github.com/gnames/wfdb/pkg/geo"
	"github.com/gnames/wfdb/pkg/raster"
	"github.com/gnames/wfdb/pkg/wfdb"
	"gonum.org/v1/gonum/floats"
)

// YearSource provides yearly emission archives.
type YearSource interface {
	CheckDates(dr geo.DateRange) error
	YearFile(ctx context.Context, year int) (string, error)
}

// DaySource provides daily burned area files.
type DaySource interface {
	DayFile(ctx context.Context, date time.Time) (string, bool, error)
	Layer() string
}

type fuser struct {
	years YearSource
	days  DaySource
	dec   raster.Decoder
}

// New creates a RasterFuser.
func New(years YearSource, days DaySource, dec raster.Decoder) wfdb.RasterFuser {
	return &fuser{years: years, days: days, dec: dec}
}

func (f *fuser) CheckDates(dr geo.DateRange) error {
	return f.years.CheckDates(dr)
}

// BurnedArea reads the burned area layer of every day file. Days
// without a file on the server are skipped.
func (f *fuser) BurnedArea(
	ctx context.Context,
	r geo.IndexRange,
	dr geo.DateRange,
) ([]raster.Sample, error) {
	res := make([]raster.Sample, 0, r.Len()*dr.Len())
	for _, day := range dr.Days() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path, found, err := f.days.DayFile(ctx, day)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}

		g, err := f.dec.Layer(path, f.days.Layer())
		if errcode.Is(err, errcode.RasterLayerMissingError) {
			slog.Warn("Daily file has no burned area", "date", day, "path", path)
			continue
		}
		if err != nil {
			return nil, err
		}

		cells, err := raster.Extract(g, r)
		if err != nil {
			return nil, err
		}
		res = appendSamples(res, cells, day)
	}
	return res, nil
}

// Emissions multiplies daily fraction of every day by the monthly total
// of fire carbon emissions. Days or months with missing layers are
// skipped.
func (f *fuser) Emissions(
	ctx context.Context,
	r geo.IndexRange,
	dr geo.DateRange,
) ([]raster.Sample, error) {
	res := make([]raster.Sample, 0, r.Len()*dr.Len())

	var (
		month  time.Time
		path   string
		totals []float64
	)
	buf := make([]float64, r.Len())

	for _, day := range dr.Days() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if m := monthOf(day); !m.Equal(month) {
			month = m
			totals = nil
			var err error
			if path, err = f.years.YearFile(ctx, day.Year()); err != nil {
				return nil, err
			}
			cells, err := f.extract(path, totalLayer(day), r)
			if err != nil {
				return nil, err
			}
			if cells == nil {
				slog.Warn("No monthly emissions", "month", month.Format("2006-01"))
			} else {
				totals = values(cells)
			}
		}
		if totals == nil {
			continue
		}

		cells, err := f.extract(path, fractionLayer(day), r)
		if err != nil {
			return nil, err
		}
		if cells == nil {
			continue
		}

		floats.MulTo(buf, values(cells), totals)
		for i := range cells {
			cells[i].Value = buf[i]
		}
		res = appendSamples(res, cells, day)
	}
	return res, nil
}

// extract returns nil cells for a missing layer.
func (f *fuser) extract(
	path, layer string,
	r geo.IndexRange,
) ([]raster.Cell, error) {
	g, err := f.dec.Layer(path, layer)
	if errcode.Is(err, errcode.RasterLayerMissingError) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return raster.Extract(g, r)
}

func totalLayer(day time.Time) string {
	return fmt.Sprintf("emissions/%02d/C", int(day.Month()))
}

func fractionLayer(day time.Time) string {
	return fmt.Sprintf("emissions/%02d/daily_fraction/day_%d",
		int(day.Month()), day.Day())
}

func monthOf(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func values(cells []raster.Cell) []float64 {
	res := make([]float64, len(cells))
	for i := range cells {
		res[i] = cells[i].Value
	}
	return res
}

func appendSamples(
	res []raster.Sample,
	cells []raster.Cell,
	day time.Time,
) []raster.Sample {
	for _, c := range cells {
		res = append(res, raster.Sample{
			Lat:   c.Lat,
			Lon:   c.Lon,
			Date:  day,
			Value: c.Value,
		})
	}
	return res
}
