// Package meteo holds daily point meteorology and the fire weather
// indices computed from it.
package meteo

import (
	"time"

	"github.com/gnames/wfdb/pkg/raster"
)

// Record is the daily weather at a grid cell center.
type Record struct {
	Lat, Lon float64
	Date     time.Time

	// Temperature at 2 m, Celsius.
	Temperature float64
	// Precipitation, mm/day.
	Precipitation float64
	// Humidity is relative humidity at 2 m, percent.
	Humidity float64
	// WindSpeed at 10 m, m/s.
	WindSpeed float64
}

// Key returns the join key of the record.
func (r Record) Key() raster.Key {
	return raster.Key{Lat: r.Lat, Lon: r.Lon, Date: r.Date}
}

// Indices are the six components of the Canadian Fire Weather Index
// System for one day.
type Indices struct {
	FFMC, DMC, DC float64
	ISI, BUI, FWI float64
}

// Indexed is a weather record enriched with fire weather indices.
type Indexed struct {
	Record
	Indices
}
