package raster

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/wfdb/pkg/errcode"
	"github.com/gnames/wfdb/pkg/geo"
)

// ShapeError is returned when a layer is not a global 720x1440 grid.
func ShapeError(g *Grid) error {
	var rows, cols, n int
	if g != nil {
		rows, cols, n = g.Rows, g.Cols, len(g.Data)
	}
	msg := "Raster layer has shape <em>%dx%d</em> (%d values), expected %dx%d"
	vars := []any{rows, cols, n, geo.Rows, geo.Cols}
	return &gn.Error{
		Code: errcode.RasterShapeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unexpected raster shape %dx%d (%d values)", rows, cols, n),
	}
}

// RangeError is returned when an index range is outside of the grid.
func RangeError(r geo.IndexRange) error {
	msg := "Index range <em>%+v</em> is outside of the grid"
	vars := []any{r}
	return &gn.Error{
		Code: errcode.OutOfDomainError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("index range %+v is outside of the grid", r),
	}
}

// LayerMissingError is returned when a file has no layer with the name,
// or the layer is empty.
func LayerMissingError(path, name string, err error) error {
	msg := "Layer <em>%s</em> is missing in <em>%s</em>"
	vars := []any{name, path}
	return &gn.Error{
		Code: errcode.RasterLayerMissingError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("layer %s in %s: %w", name, path, err),
	}
}
