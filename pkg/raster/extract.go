package raster

import (
	"github.com/gnames/wfdb/pkg/geo"
)

// Extract returns cells of the grid that fall into the index range,
// ordered by ascending latitude, then ascending longitude.
//
// Index rows count from the south while storage rows count from the
// north, so storage rows (Rows-1-RowMax)..(Rows-1-RowMin) are read in
// reverse order.
func Extract(g *Grid, r geo.IndexRange) ([]Cell, error) {
	if g == nil || g.Rows != geo.Rows || g.Cols != geo.Cols ||
		len(g.Data) != g.Rows*g.Cols {
		return nil, ShapeError(g)
	}
	if r.RowMin < 0 || r.RowMax >= g.Rows || r.ColMin < 0 ||
		r.ColMax >= g.Cols || r.RowMin > r.RowMax || r.ColMin > r.ColMax {
		return nil, RangeError(r)
	}

	res := make([]Cell, 0, r.Len())
	for row := r.RowMin; row <= r.RowMax; row++ {
		storageRow := g.Rows - 1 - row
		offset := storageRow * g.Cols
		for col := r.ColMin; col <= r.ColMax; col++ {
			c := geo.CellCenter(row, col)
			res = append(res, Cell{
				Lat:   c.Lat,
				Lon:   c.Lon,
				Value: g.Data[offset+col],
			})
		}
	}
	return res, nil
}
