package iofusion_test

import (
	"context"
	"testing"
	"time"

	"github.com/gnames/wfdb/internal/iofusion"
	"github.com/gnames/wfdb/internal/iotesting"
	"github.com/gnames/wfdb/pkg/errcode"
	"github.com/gnames/wfdb/pkg/geo"
	"github.com/gnames/wfdb/pkg/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type years struct {
	calls int
}

func (y *years) CheckDates(dr geo.DateRange) error {
	first, last := dr.Years()
	if first < 1997 || last > 2016 {
		return &geoErr{}
	}
	return nil
}

func (y *years) YearFile(_ context.Context, year int) (string, error) {
	y.calls++
	return "gfed_2015.hdf5", nil
}

type geoErr struct{}

func (*geoErr) Error() string { return "out of archive" }

type days struct {
	files map[string]string
}

func (d *days) DayFile(_ context.Context, date time.Time) (string, bool, error) {
	p, ok := d.files[date.Format("2006-01-02")]
	return p, ok, nil
}

func (d *days) Layer() string { return "BurnedArea" }

// -7.25, 12.875 is the cell at row 331, col 771.
var golden = struct {
	row, col int
	dates    []string
	burned   []float64
}{
	row:    331,
	col:    771,
	dates:  []string{"2015-07-10", "2015-07-11", "2015-07-12", "2015-07-13"},
	burned: []float64{19292, 160770, 6431, 45016},
}

func goldenRange(t *testing.T) (geo.IndexRange, geo.DateRange) {
	bb, err := geo.NewBoundingBox(-7.25, -7.25, 12.875, 12.875)
	require.NoError(t, err)
	r, err := geo.Index(bb)
	require.NoError(t, err)
	require.Equal(t, golden.row, r.RowMin)
	require.Equal(t, golden.col, r.ColMin)

	dr, err := geo.ParseDateRange("2015-07-10", "2015-07-13")
	require.NoError(t, err)
	return r, dr
}

func TestBurnedAreaGolden(t *testing.T) {
	r, dr := goldenRange(t)
	dec := iotesting.NewDecoder()
	ds := &days{files: make(map[string]string)}
	for i, date := range golden.dates {
		g := iotesting.GlobalGrid()
		iotesting.SetCell(g, golden.row, golden.col, golden.burned[i])
		path := "ba_" + date + ".h5"
		dec.Add(path, "BurnedArea", g)
		ds.files[date] = path
	}

	f := iofusion.New(&years{}, ds, dec)
	res, err := f.BurnedArea(context.Background(), r, dr)
	require.NoError(t, err)
	require.Len(t, res, 4)

	for i, s := range res {
		assert.Equal(t, -7.125, s.Lat)
		assert.Equal(t, 12.875, s.Lon)
		assert.Equal(t, golden.dates[i], s.Date.Format("2006-01-02"))
		assert.Equal(t, golden.burned[i], s.Value)
	}
}

func TestBurnedAreaSkipsMissingDays(t *testing.T) {
	r, dr := goldenRange(t)
	dec := iotesting.NewDecoder()
	dec.Add("a.h5", "BurnedArea", iotesting.GlobalGrid())
	// the second file has no burned area layer
	ds := &days{files: map[string]string{
		"2015-07-10": "a.h5",
		"2015-07-12": "b.h5",
	}}

	res, err := iofusion.New(&years{}, ds, dec).
		BurnedArea(context.Background(), r, dr)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, 10, res[0].Date.Day())
}

func TestBurnedAreaShape(t *testing.T) {
	r, dr := goldenRange(t)
	dec := iotesting.NewDecoder()
	dec.Add("a.h5", "BurnedArea", &raster.Grid{Rows: 2, Cols: 2, Data: make([]float64, 4)})
	ds := &days{files: map[string]string{"2015-07-10": "a.h5"}}

	_, err := iofusion.New(&years{}, ds, dec).
		BurnedArea(context.Background(), r, dr)
	assert.True(t, errcode.Is(err, errcode.RasterShapeError))
}

func TestEmissions(t *testing.T) {
	r, dr := goldenRange(t)
	dec := iotesting.NewDecoder()

	total := iotesting.GlobalGrid()
	iotesting.SetCell(total, golden.row, golden.col, 100)
	dec.Add("gfed_2015.hdf5", "emissions/07/C", total)

	fractions := map[string]float64{
		"emissions/07/daily_fraction/day_10": 0.02,
		"emissions/07/daily_fraction/day_11": 0.5,
		// day_12 is missing
		"emissions/07/daily_fraction/day_13": 0.25,
	}
	for layer, v := range fractions {
		g := iotesting.GlobalGrid()
		iotesting.SetCell(g, golden.row, golden.col, v)
		dec.Add("gfed_2015.hdf5", layer, g)
	}

	ys := &years{}
	res, err := iofusion.New(ys, &days{}, dec).
		Emissions(context.Background(), r, dr)
	require.NoError(t, err)
	require.Len(t, res, 3)

	assert.Equal(t, 1, ys.calls, "one year file per month")
	assert.InDelta(t, 2.0, res[0].Value, 1e-9)
	assert.InDelta(t, 50.0, res[1].Value, 1e-9)
	assert.Equal(t, 13, res[2].Date.Day())
	assert.InDelta(t, 25.0, res[2].Value, 1e-9)
}

func TestEmissionsMissingMonth(t *testing.T) {
	r, dr := goldenRange(t)
	dec := iotesting.NewDecoder()
	dec.Add("gfed_2015.hdf5", "emissions/07/daily_fraction/day_10",
		iotesting.GlobalGrid())

	res, err := iofusion.New(&years{}, &days{}, dec).
		Emissions(context.Background(), r, dr)
	require.NoError(t, err)
	assert.Empty(t, res)
}
