package fwi_test

import (
	"slices"
	"testing"
	"time"

	"github.com/gnames/wfdb/pkg/fwi"
	"github.com/gnames/wfdb/pkg/meteo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// weather observed at 36.125, -120.125 in early October 2020
func octoberSeries(lat, lon float64) []meteo.Record {
	temp := []float64{21.48, 20.30, 16.98, 16.39, 18.90}
	rain := []float64{0, 0.64, 0.55, 0.22, 0.18}
	hum := []float64{63.44, 57.00, 62.00, 57.81, 62.06}
	wind := []float64{4.44, 9.07, 5.80, 4.73, 3.88}

	res := make([]meteo.Record, len(temp))
	for i := range temp {
		res[i] = meteo.Record{
			Lat:           lat,
			Lon:           lon,
			Date:          time.Date(2020, 10, 1+i, 0, 0, 0, 0, time.UTC),
			Temperature:   temp[i],
			Precipitation: rain[i],
			Humidity:      hum[i],
			WindSpeed:     wind[i],
		}
	}
	return res
}

type expected struct {
	ffmc, dmc, dc, isi, bui, fwi []float64
}

func assertIndices(t *testing.T, exp expected, res []meteo.Indexed, delta float64) {
	t.Helper()
	require.Len(t, res, len(exp.ffmc))
	for i, v := range res {
		assert.InDelta(t, exp.ffmc[i], v.FFMC, delta, "ffmc %d", i)
		assert.InDelta(t, exp.dmc[i], v.DMC, delta, "dmc %d", i)
		assert.InDelta(t, exp.dc[i], v.DC, delta, "dc %d", i)
		assert.InDelta(t, exp.isi[i], v.ISI, delta, "isi %d", i)
		assert.InDelta(t, exp.bui[i], v.BUI, delta, "bui %d", i)
		assert.InDelta(t, exp.fwi[i], v.FWI, delta, "fwi %d", i)
	}
}

func TestEnrich(t *testing.T) {
	exp := expected{
		ffmc: []float64{85.260025, 85.536819, 84.728874, 85.287865, 85.335670},
		dmc:  []float64{7.250835, 8.645123, 9.686125, 10.804196, 11.953930},
		dc:   []float64{19.5704, 23.9284, 27.688801, 31.343, 35.449001},
		isi:  []float64{4.8875294, 11.763453, 5.814761, 5.1714153, 4.4618955},
		bui:  []float64{7.5284457, 9.084693, 10.334332, 11.606363, 12.97199},
		fwi:  []float64{4.5548725, 11.108752, 6.377234, 6.064647, 5.5898585},
	}
	res := fwi.Enrich(octoberSeries(36.125, -120.125), 0)
	assertIndices(t, exp, res, 1e-3)
}

func TestEnrichIntervals(t *testing.T) {
	exp := expected{
		ffmc: []float64{85.26, 85.5368, 84.5923, 85.2509, 85.1242},
		dmc:  []float64{7.2508, 8.6451, 7.0410, 8.1591, 7.1497},
		dc:   []float64{19.5704, 23.9284, 18.7604, 22.4146, 19.1060},
		isi:  []float64{4.8875, 11.7635, 5.7076, 5.1450, 4.3333},
		bui:  []float64{7.5284, 9.0847, 7.2652, 8.5435, 7.3879},
		fwi:  []float64{4.5549, 11.1088, 5.2442, 5.1300, 3.9604},
	}
	res := fwi.Enrich(octoberSeries(36.125, -120.125), 2)
	assertIndices(t, exp, res, 1e-3)
}

func TestEnrichGroupsLocations(t *testing.T) {
	a := octoberSeries(36.125, -120.125)
	b := octoberSeries(36.375, -120.125)

	// interleaved and reversed input
	var recs []meteo.Record
	for i := len(a) - 1; i >= 0; i-- {
		recs = append(recs, b[i], a[i])
	}

	res := fwi.Enrich(recs, 0)
	require.Len(t, res, 10)
	assert.Equal(t, 36.375, res[0].Lat)
	assert.Equal(t, 36.125, res[5].Lat)
	for i := 1; i < 5; i++ {
		assert.True(t, res[i-1].Date.Before(res[i].Date))
	}
	// same weather, same latitude band
	assert.InDelta(t, res[4].FWI, res[9].FWI, 1e-9)
	assert.InDelta(t, 5.5898585, res[9].FWI, 1e-3)
}

func TestEnrichRestartsAfterGap(t *testing.T) {
	recs := octoberSeries(36.125, -120.125)
	// October 3 has no weather
	gapped := append(slices.Clone(recs[:2]), recs[3:]...)

	res := fwi.Enrich(gapped, 0)
	require.Len(t, res, 4)

	full := fwi.Enrich(recs, 0)
	assert.InDelta(t, full[1].FWI, res[1].FWI, 1e-9)

	after := fwi.Series(fwi.StartCodes, recs[3:])
	for i, v := range after {
		assert.InDelta(t, v.FFMC, res[2+i].FFMC, 1e-9)
		assert.InDelta(t, v.DC, res[2+i].DC, 1e-9)
		assert.InDelta(t, v.FWI, res[2+i].FWI, 1e-9)
	}
	assert.NotEqual(t, full[3].DC, res[2].DC)
}

func TestEnrichEmpty(t *testing.T) {
	assert.Empty(t, fwi.Enrich(nil, 0))
	assert.Empty(t, fwi.Enrich(nil, 3))
}

func TestComponentBounds(t *testing.T) {
	// heavy rain saturates fine fuels
	ffmc := fwi.FFMC(90, 15, 95, 10, 60)
	assert.GreaterOrEqual(t, ffmc, 0.0)
	assert.Less(t, ffmc, 30.0)

	assert.Zero(t, fwi.BUI(0, 0))
	assert.GreaterOrEqual(t, fwi.DMC(0, -20, 100, 0, 1, 50), 0.0)
	assert.GreaterOrEqual(t, fwi.DC(0, -20, 0, 1, 50), 0.0)

	// no spread and no buildup give low danger
	assert.Less(t, fwi.FWI(0.5, 1), 1.0)
}

func TestLatitudeBands(t *testing.T) {
	// January drying is stronger in the southern hemisphere summer
	north := fwi.DC(15, 20, 0, 1, 45)
	south := fwi.DC(15, 20, 0, 1, -45)
	equator := fwi.DC(15, 20, 0, 1, 0)
	assert.Greater(t, south, equator)
	assert.Greater(t, equator, north)

	northDMC := fwi.DMC(6, 20, 50, 0, 1, 45)
	southDMC := fwi.DMC(6, 20, 50, 0, 1, -45)
	assert.Greater(t, southDMC, northDMC)
}
