// Package geo maps geographic extents onto the global 0.25 degree grid
// shared by all raster sources and splits runs into checkpoints.
package geo

import (
	"math"
	"time"

	"github.com/gnames/wfdb/pkg/config"
)

const (
	// Resolution is the size of a grid cell in degrees.
	Resolution = 0.25
	// Rows is the number of latitude rows of the global grid.
	Rows = 720
	// Cols is the number of longitude columns of the global grid.
	Cols = 1440
)

// BoundingBox is a closed geographic extent in degrees.
type BoundingBox struct {
	LatMin, LatMax float64
	LngMin, LngMax float64
}

// NewBoundingBox validates ordering of the box edges.
func NewBoundingBox(latMin, latMax, lngMin, lngMax float64) (BoundingBox, error) {
	res := BoundingBox{
		LatMin: latMin, LatMax: latMax,
		LngMin: lngMin, LngMax: lngMax,
	}
	for _, v := range []float64{latMin, latMax, lngMin, lngMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return res, InvalidBoundingBoxError(res)
		}
	}
	if latMin > latMax || lngMin > lngMax {
		return res, InvalidBoundingBoxError(res)
	}
	return res, nil
}

// Intersects reports if the box overlaps the globe.
func (bb BoundingBox) Intersects() bool {
	return bb.LatMax >= -90 && bb.LatMin <= 90 &&
		bb.LngMax >= -180 && bb.LngMin <= 180
}

// GridCell is a cell of the global grid with coordinates of its center.
type GridCell struct {
	Row, Col int
	Lat, Lon float64
}

// CellCenter returns the grid cell for row and column indices.
func CellCenter(row, col int) GridCell {
	return GridCell{
		Row: row,
		Col: col,
		Lat: -90 + float64(row)*Resolution + Resolution/2,
		Lon: -180 + float64(col)*Resolution + Resolution/2,
	}
}

// IndexRange is an inclusive range of grid rows and columns.
// Row 0 is the southernmost row, column 0 is the westernmost column.
type IndexRange struct {
	RowMin, RowMax int
	ColMin, ColMax int
}

// Rows returns the number of rows of the range.
func (r IndexRange) Rows() int {
	return r.RowMax - r.RowMin + 1
}

// Cols returns the number of columns of the range.
func (r IndexRange) Cols() int {
	return r.ColMax - r.ColMin + 1
}

// Len is the number of cells in the range.
func (r IndexRange) Len() int {
	return r.Rows() * r.Cols()
}

// Contains reports if the cell belongs to the range.
func (r IndexRange) Contains(row, col int) bool {
	return row >= r.RowMin && row <= r.RowMax &&
		col >= r.ColMin && col <= r.ColMax
}

// Cells lists cells ordered by ascending latitude, then longitude.
func (r IndexRange) Cells() []GridCell {
	res := make([]GridCell, 0, r.Len())
	for row := r.RowMin; row <= r.RowMax; row++ {
		for col := r.ColMin; col <= r.ColMax; col++ {
			res = append(res, CellCenter(row, col))
		}
	}
	return res
}

// Box returns the extent covered by the cells of the range.
// The northern and eastern edges belong to the neighbouring cells.
func (r IndexRange) Box() BoundingBox {
	return BoundingBox{
		LatMin: -90 + float64(r.RowMin)*Resolution,
		LatMax: -90 + float64(r.RowMax+1)*Resolution,
		LngMin: -180 + float64(r.ColMin)*Resolution,
		LngMax: -180 + float64(r.ColMax+1)*Resolution,
	}
}

// Global is the range of the whole grid.
func Global() IndexRange {
	return IndexRange{RowMin: 0, RowMax: Rows - 1, ColMin: 0, ColMax: Cols - 1}
}

// Index converts a bounding box to the range of grid cells that contain
// its edges. Indices are clamped to the grid. A box that does not
// intersect the globe returns OutOfDomainError.
func Index(bb BoundingBox) (IndexRange, error) {
	var res IndexRange
	if !bb.Intersects() {
		return res, OutOfDomainError(bb)
	}
	res = IndexRange{
		RowMin: rowOf(bb.LatMin),
		RowMax: rowOf(bb.LatMax),
		ColMin: colOf(bb.LngMin),
		ColMax: colOf(bb.LngMax),
	}
	return res, nil
}

func rowOf(lat float64) int {
	return clamp(int(math.Floor((lat+90)/Resolution)), Rows-1)
}

func colOf(lon float64) int {
	return clamp(int(math.Floor((lon+180)/Resolution)), Cols-1)
}

func clamp(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

// DateRange is an inclusive range of calendar days in UTC.
type DateRange struct {
	Start, End time.Time
}

// NewDateRange truncates both ends to UTC midnight and checks ordering.
func NewDateRange(start, end time.Time) (DateRange, error) {
	res := DateRange{Start: Day(start), End: Day(end)}
	if res.End.Before(res.Start) {
		return res, InvalidDateRangeError(res)
	}
	return res, nil
}

// ParseDateRange reads YYYY-MM-DD dates.
func ParseDateRange(start, end string) (DateRange, error) {
	var res DateRange
	s, err := time.Parse(config.DateFormat, start)
	if err != nil {
		return res, DateParseError(start, err)
	}
	e, err := time.Parse(config.DateFormat, end)
	if err != nil {
		return res, DateParseError(end, err)
	}
	return NewDateRange(s, e)
}

// Day returns the UTC midnight of the calendar day of t.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Len is the number of days in the range.
func (dr DateRange) Len() int {
	return int(dr.End.Sub(dr.Start).Hours()/24) + 1
}

// Days lists every day of the range in ascending order.
func (dr DateRange) Days() []time.Time {
	res := make([]time.Time, 0, dr.Len())
	for d := dr.Start; !d.After(dr.End); d = d.AddDate(0, 0, 1) {
		res = append(res, d)
	}
	return res
}

// Contains reports if the day of t falls into the range.
func (dr DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(dr.Start) && !d.After(dr.End)
}

// Extend moves the start of the range back by the given number of days.
func (dr DateRange) Extend(days int) DateRange {
	return DateRange{Start: dr.Start.AddDate(0, 0, -days), End: dr.End}
}

// Years returns the first and the last year of the range.
func (dr DateRange) Years() (int, int) {
	return dr.Start.Year(), dr.End.Year()
}
