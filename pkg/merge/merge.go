// Package merge joins meteorology with burned area and emissions into
// observation rows.
package merge

import (
	"github.com/gnames/wfdb/pkg/meteo"
	"github.com/gnames/wfdb/pkg/raster"
	"github.com/gnames/wfdb/pkg/schema"
)

// Merge left-joins burned area and then emissions onto meteorology by
// latitude, longitude and date. Every meteo record produces exactly one
// row, in the order of meteo. Missing raster values stay nil and such
// rows are not burnt.
//
// When a source has several samples with the same key, the last one
// wins.
func Merge(
	datasetID string,
	met []meteo.Indexed,
	burned []raster.Sample,
	emissions []raster.Sample,
) []schema.Observation {
	ba := index(burned)
	em := index(emissions)

	res := make([]schema.Observation, 0, len(met))
	for _, m := range met {
		k := m.Key()
		row := schema.Observation{
			Latitude:      m.Lat,
			Longitude:     m.Lon,
			Date:          m.Date,
			DatasetID:     datasetID,
			Temperature:   m.Temperature,
			Precipitation: m.Precipitation,
			Humidity:      m.Humidity,
			WindSpeed:     m.WindSpeed,
			FFMC:          m.FFMC,
			DMC:           m.DMC,
			DC:            m.DC,
			ISI:           m.ISI,
			BUI:           m.BUI,
			FWI:           m.FWI,
		}
		if v, ok := ba[k]; ok {
			row.BurnedArea = &v
			row.Burnt = v > 0
		}
		if v, ok := em[k]; ok {
			row.FireCarbonEmission = &v
		}
		res = append(res, row)
	}
	return res
}

func index(samples []raster.Sample) map[raster.Key]float64 {
	res := make(map[raster.Key]float64, len(samples))
	for _, s := range samples {
		res[s.Key()] = s.Value
	}
	return res
}
