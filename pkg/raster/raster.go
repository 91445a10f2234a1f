// Package raster contains global gridded layers and extraction of
// sub-regions from them.
package raster

import (
	"time"
)

// Grid is a global layer in row-major order. Row 0 is the northernmost
// row, the way layers are stored in GFED files.
type Grid struct {
	Rows, Cols int
	Data       []float64
}

// At returns the value at storage row and column.
func (g *Grid) At(row, col int) float64 {
	return g.Data[row*g.Cols+col]
}

// Cell is a value at the center of a grid cell.
type Cell struct {
	Lat, Lon float64
	Value    float64
}

// Sample is a cell value that belongs to a specific day.
type Sample struct {
	Lat, Lon float64
	Date     time.Time
	Value    float64
}

// Key identifies a location and a day. It is used to join data from
// different sources.
type Key struct {
	Lat, Lon float64
	Date     time.Time
}

// Key returns the join key of the sample.
func (s Sample) Key() Key {
	return Key{Lat: s.Lat, Lon: s.Lon, Date: s.Date}
}

// Decoder reads a named layer from a local raster file.
// Missing or empty layers return RasterLayerMissingError.
type Decoder interface {
	Layer(path, name string) (*Grid, error)
}
