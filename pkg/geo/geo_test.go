package geo_test

import (
	"testing"
	"time"

	"github.com/gnames/wfdb/pkg/errcode"
	"github.com/gnames/wfdb/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	tests := []struct {
		msg string
		bb  geo.BoundingBox
		res geo.IndexRange
	}{
		{
			msg: "single point",
			bb:  geo.BoundingBox{LatMin: -7.25, LatMax: -7.25, LngMin: 12.875, LngMax: 12.875},
			res: geo.IndexRange{RowMin: 331, RowMax: 331, ColMin: 771, ColMax: 771},
		},
		{
			msg: "whole globe",
			bb:  geo.BoundingBox{LatMin: -90, LatMax: 90, LngMin: -180, LngMax: 180},
			res: geo.Global(),
		},
		{
			msg: "clamped to the globe",
			bb:  geo.BoundingBox{LatMin: -100, LatMax: 0.1, LngMin: 170, LngMax: 200},
			res: geo.IndexRange{RowMin: 0, RowMax: 360, ColMin: 1400, ColMax: 1439},
		},
		{
			msg: "cell edges",
			bb:  geo.BoundingBox{LatMin: 0, LatMax: 0.24, LngMin: 0, LngMax: 0.5},
			res: geo.IndexRange{RowMin: 360, RowMax: 360, ColMin: 720, ColMax: 722},
		},
	}

	for _, v := range tests {
		res, err := geo.Index(v.bb)
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.res, res, v.msg)
		assert.LessOrEqual(t, res.RowMin, res.RowMax, v.msg)
		assert.LessOrEqual(t, res.ColMin, res.ColMax, v.msg)
	}
}

func TestIndexOutOfDomain(t *testing.T) {
	boxes := []geo.BoundingBox{
		{LatMin: 91, LatMax: 95, LngMin: 0, LngMax: 1},
		{LatMin: -99, LatMax: -91, LngMin: 0, LngMax: 1},
		{LatMin: 0, LatMax: 1, LngMin: 181, LngMax: 190},
		{LatMin: 0, LatMax: 1, LngMin: -200, LngMax: -181},
	}
	for _, bb := range boxes {
		_, err := geo.Index(bb)
		require.Error(t, err)
		assert.True(t, errcode.Is(err, errcode.OutOfDomainError))
	}
}

func TestRangeSize(t *testing.T) {
	bbs := []geo.BoundingBox{
		{LatMin: 36, LatMax: 37, LngMin: -120, LngMax: -118.5},
		{LatMin: -7.25, LatMax: -7.25, LngMin: 12.875, LngMax: 12.875},
		{LatMin: -90, LatMax: 90, LngMin: -180, LngMax: 180},
	}
	for _, bb := range bbs {
		r, err := geo.Index(bb)
		require.NoError(t, err)
		cells := r.Cells()
		assert.Equal(t, r.Len(), len(cells))
		assert.Equal(t, r.Rows()*r.Cols(), len(cells))
	}
}

func TestCells(t *testing.T) {
	r := geo.IndexRange{RowMin: 10, RowMax: 11, ColMin: 0, ColMax: 1}
	cells := r.Cells()
	require.Len(t, cells, 4)
	assert.Equal(t, -87.375, cells[0].Lat)
	assert.Equal(t, -179.875, cells[0].Lon)
	assert.Equal(t, -87.375, cells[1].Lat)
	assert.Equal(t, -179.625, cells[1].Lon)
	assert.Equal(t, -87.125, cells[2].Lat)

	c := geo.CellCenter(331, 771)
	assert.Equal(t, -7.125, c.Lat)
	assert.Equal(t, 12.875, c.Lon)
}

func TestNewBoundingBox(t *testing.T) {
	_, err := geo.NewBoundingBox(1, 0, 0, 1)
	assert.True(t, errcode.Is(err, errcode.InvalidBoundingBoxError))

	bb, err := geo.NewBoundingBox(0, 1, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, bb.LatMax)
}

func TestDateRange(t *testing.T) {
	dr, err := geo.ParseDateRange("2015-07-10", "2015-07-13")
	require.NoError(t, err)
	assert.Equal(t, 4, dr.Len())

	days := dr.Days()
	require.Len(t, days, 4)
	assert.Equal(t, time.Date(2015, 7, 10, 0, 0, 0, 0, time.UTC), days[0])
	assert.Equal(t, time.Date(2015, 7, 13, 0, 0, 0, 0, time.UTC), days[3])
	assert.True(t, dr.Contains(time.Date(2015, 7, 13, 18, 0, 0, 0, time.UTC)))
	assert.False(t, dr.Contains(time.Date(2015, 7, 14, 0, 0, 0, 0, time.UTC)))

	ext := dr.Extend(10)
	assert.Equal(t, time.Date(2015, 6, 30, 0, 0, 0, 0, time.UTC), ext.Start)
	assert.Equal(t, 14, ext.Len())

	_, err = geo.ParseDateRange("2015-07-13", "2015-07-10")
	assert.True(t, errcode.Is(err, errcode.InvalidDateRangeError))

	_, err = geo.ParseDateRange("13/07/2015", "2015-07-10")
	assert.True(t, errcode.Is(err, errcode.InvalidDateRangeError))
}
