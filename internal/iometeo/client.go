// Package iometeo fetches daily point meteorology from NASA POWER.
package iometeo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/gnames/gnfmt"
	"github.com/gnames/wfdb/internal/iohttp"
	"github.com/gnames/wfdb/internal/iometrics"
	"github.com/gnames/wfdb/pkg/config"
	"github.com/gnames/wfdb/pkg/geo"
	"github.com/gnames/wfdb/pkg/meteo"
	"github.com/gnames/wfdb/pkg/wfdb"
)

// Parameters of the daily point API.
const (
	paramTemperature   = "T2M"
	paramWindSpeed     = "WS10M"
	paramHumidity      = "RH2M"
	paramPrecipitation = "PRECTOTCORR"

	// fillValue marks days without data.
	fillValue = -999
)

const dayFormat = "20060102"

type client struct {
	cfg     config.MeteoConfig
	http    *iohttp.Client
	metrics *iometrics.Metrics
}

// New creates a MeteoFetcher for the POWER API described by cfg.Meteo.
func New(
	cfg *config.Config,
	hc *iohttp.Client,
	m *iometrics.Metrics,
) wfdb.MeteoFetcher {
	return &client{cfg: cfg.Meteo, http: hc, metrics: m}
}

// response is the part of GeoJSON answer used by wfdb.
type response struct {
	Properties struct {
		Parameter map[string]map[string]float64 `json:"parameter"`
	} `json:"properties"`
	Messages []string `json:"messages"`
}

// Fetch makes one request per grid cell for the whole date range.
// Records are ordered by cell, then by date. Days where any parameter
// has the fill value are left out.
func (c *client) Fetch(
	ctx context.Context,
	r geo.IndexRange,
	dr geo.DateRange,
) ([]meteo.Record, error) {
	res := make([]meteo.Record, 0, r.Len()*dr.Len())
	for _, cell := range r.Cells() {
		recs, err := c.point(ctx, cell, dr)
		c.metrics.Remote("meteo", err)
		if err != nil {
			return nil, err
		}
		res = append(res, recs...)
	}
	return res, nil
}

func (c *client) point(
	ctx context.Context,
	cell geo.GridCell,
	dr geo.DateRange,
) ([]meteo.Record, error) {
	u := c.url(cell, dr)
	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ResponseError(u, err)
	}

	var data response
	if err = (gnfmt.GNjson{}).Decode(body, &data); err != nil {
		return nil, ResponseError(u, err)
	}

	params := data.Properties.Parameter
	names := []string{
		paramTemperature, paramPrecipitation, paramHumidity, paramWindSpeed,
	}
	for _, name := range names {
		if _, ok := params[name]; !ok {
			return nil, ResponseError(u,
				fmt.Errorf("parameter %s is missing %v", name, data.Messages))
		}
	}

	res := make([]meteo.Record, 0, dr.Len())
	for _, day := range dr.Days() {
		key := day.Format(dayFormat)
		vals := make([]float64, len(names))
		ok := true
		for i, name := range names {
			v, found := params[name][key]
			if !found || v == fillValue {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			slog.Debug("No meteo data for the day",
				"lat", cell.Lat, "lon", cell.Lon, "date", key)
			continue
		}

		res = append(res, meteo.Record{
			Lat:           cell.Lat,
			Lon:           cell.Lon,
			Date:          day,
			Temperature:   vals[0],
			Precipitation: vals[1],
			Humidity:      vals[2],
			WindSpeed:     vals[3],
		})
	}
	return res, nil
}

func (c *client) url(cell geo.GridCell, dr geo.DateRange) string {
	q := url.Values{}
	q.Set("time-standard", "UTC")
	q.Set("latitude", strconv.FormatFloat(cell.Lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(cell.Lon, 'f', -1, 64))
	q.Set("start", dr.Start.Format(dayFormat))
	q.Set("end", dr.End.Format(dayFormat))
	q.Set("community", c.cfg.Community)
	q.Set("parameters", paramTemperature+","+paramWindSpeed+","+
		paramHumidity+","+paramPrecipitation)
	q.Set("format", "JSON")
	return c.cfg.BaseURL + "?" + q.Encode()
}
