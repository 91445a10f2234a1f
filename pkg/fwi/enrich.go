package fwi

import (
	"slices"
	"time"

	"github.com/gnames/wfdb/pkg/meteo"
)

// kmh converts m/s to km/h.
const kmh = 3.6

// Series computes indices for consecutive days of one location,
// starting from the given codes. Records must be sorted by date.
func Series(start Codes, recs []meteo.Record) []meteo.Indexed {
	res := make([]meteo.Indexed, 0, len(recs))
	codes := start
	for _, r := range recs {
		hum := min(r.Humidity, 100)
		wind := r.WindSpeed * kmh
		month := int(r.Date.Month())

		codes = Codes{
			FFMC: FFMC(codes.FFMC, r.Temperature, hum, wind, r.Precipitation),
			DMC:  DMC(codes.DMC, r.Temperature, hum, r.Precipitation, month, r.Lat),
			DC:   DC(codes.DC, r.Temperature, r.Precipitation, month, r.Lat),
		}
		isi := ISI(codes.FFMC, wind)
		bui := BUI(codes.DMC, codes.DC)
		res = append(res, meteo.Indexed{
			Record: r,
			Indices: meteo.Indices{
				FFMC: codes.FFMC,
				DMC:  codes.DMC,
				DC:   codes.DC,
				ISI:  isi,
				BUI:  bui,
				FWI:  FWI(isi, bui),
			},
		})
	}
	return res
}

// Enrich groups records by location and computes fire weather indices
// for each location. When intervalSize is positive, every location's
// series is cut into intervals of intervalSize days counted from its
// first day, and each interval starts again from StartCodes.
//
// A missing day breaks the series: indices after the gap start again
// from StartCodes.
//
// Locations keep the order of their first appearance, records of a
// location are sorted by date.
func Enrich(recs []meteo.Record, intervalSize int) []meteo.Indexed {
	type loc struct{ lat, lon float64 }
	var order []loc
	groups := make(map[loc][]meteo.Record)
	for _, r := range recs {
		k := loc{r.Lat, r.Lon}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}

	res := make([]meteo.Indexed, 0, len(recs))
	for _, k := range order {
		series := groups[k]
		slices.SortStableFunc(series, func(a, b meteo.Record) int {
			return a.Date.Compare(b.Date)
		})
		if len(series) == 0 {
			continue
		}
		first := series[0].Date
		for _, run := range consecutive(series) {
			for _, chunk := range intervals(run, first, intervalSize) {
				res = append(res, Series(StartCodes, chunk)...)
			}
		}
	}
	return res
}

// consecutive cuts a sorted series where days are missing.
func consecutive(series []meteo.Record) [][]meteo.Record {
	var res [][]meteo.Record
	start := 0
	for i := 1; i < len(series); i++ {
		if series[i].Date.Sub(series[i-1].Date) > 24*time.Hour {
			res = append(res, series[start:i])
			start = i
		}
	}
	return append(res, series[start:])
}

// intervals cuts a sorted series by calendar distance from first, the
// first day of the location.
func intervals(
	series []meteo.Record,
	first time.Time,
	size int,
) [][]meteo.Record {
	if size <= 0 || len(series) == 0 {
		return [][]meteo.Record{series}
	}
	var res [][]meteo.Record
	var cur []meteo.Record
	curIdx := -1
	for _, r := range series {
		days := int(r.Date.Sub(first).Hours() / 24)
		idx := days / size
		if idx != curIdx && len(cur) > 0 {
			res = append(res, cur)
			cur = nil
		}
		curIdx = idx
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		res = append(res, cur)
	}
	return res
}
