package merge_test

import (
	"testing"
	"time"

	"github.com/gnames/wfdb/pkg/merge"
	"github.com/gnames/wfdb/pkg/meteo"
	"github.com/gnames/wfdb/pkg/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2015, 7, 10, 0, 0, 0, 0, time.UTC)

func indexed(lat, lon float64, fwi float64) meteo.Indexed {
	return meteo.Indexed{
		Record:  meteo.Record{Lat: lat, Lon: lon, Date: day, Temperature: 25},
		Indices: meteo.Indices{FWI: fwi},
	}
}

func sample(lat, lon, v float64) raster.Sample {
	return raster.Sample{Lat: lat, Lon: lon, Date: day, Value: v}
}

func TestMergeLeftJoin(t *testing.T) {
	met := []meteo.Indexed{
		indexed(-7.125, 12.875, 1), // A
		indexed(-7.125, 13.125, 2), // B
		indexed(-6.875, 12.875, 3), // C
	}
	burned := []raster.Sample{
		sample(-7.125, 12.875, 19292),
		sample(-6.875, 12.875, 0),
		// no meteo for this cell
		sample(10.125, 10.125, 5),
	}
	emissions := []raster.Sample{
		sample(-7.125, 12.875, 2.34),
	}

	res := merge.Merge("ds", met, burned, emissions)
	require.Len(t, res, 3)

	a, b, c := res[0], res[1], res[2]

	require.NotNil(t, a.BurnedArea)
	assert.Equal(t, 19292.0, *a.BurnedArea)
	require.NotNil(t, a.FireCarbonEmission)
	assert.Equal(t, 2.34, *a.FireCarbonEmission)
	assert.True(t, a.Burnt)
	assert.Equal(t, 1.0, a.FWI)
	assert.Equal(t, "ds", a.DatasetID)

	assert.Nil(t, b.BurnedArea)
	assert.Nil(t, b.FireCarbonEmission)
	assert.False(t, b.Burnt)
	assert.Equal(t, 25.0, b.Temperature)

	require.NotNil(t, c.BurnedArea)
	assert.Zero(t, *c.BurnedArea)
	assert.False(t, c.Burnt)
	assert.Nil(t, c.FireCarbonEmission)
}

func TestMergeDatesDiffer(t *testing.T) {
	met := []meteo.Indexed{indexed(0.125, 0.125, 1)}
	next := sample(0.125, 0.125, 100)
	next.Date = day.AddDate(0, 0, 1)

	res := merge.Merge("ds", met, []raster.Sample{next}, nil)
	require.Len(t, res, 1)
	assert.Nil(t, res[0].BurnedArea)
}

func TestMergeEmpty(t *testing.T) {
	assert.Empty(t, merge.Merge("ds", nil, []raster.Sample{sample(0, 0, 1)}, nil))
}
