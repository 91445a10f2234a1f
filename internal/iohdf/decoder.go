// Package iohdf reads 2D layers of HDF5 files as raster grids.
package iohdf

import (
	"fmt"
	"sync"

	"github.com/gnames/gn"
	"github.com/gnames/wfdb/pkg/errcode"
	"github.com/gnames/wfdb/pkg/raster"
	"gonum.org/v1/hdf5"
)

// libhdf5 is usually built without thread safety.
var mu sync.Mutex

type decoder struct{}

// New returns a raster.Decoder for HDF5 files.
func New() raster.Decoder {
	return decoder{}
}

// Layer reads a dataset of the file into a grid. Values of any numeric
// type are converted to float64 by the library.
func (decoder) Layer(path, name string) (*raster.Grid, error) {
	mu.Lock()
	defer mu.Unlock()

	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, DecodeError(path, err)
	}
	defer f.Close()

	ds, err := f.OpenDataset(name)
	if err != nil {
		return nil, raster.LayerMissingError(path, name, err)
	}
	defer ds.Close()

	space := ds.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, DecodeError(path, err)
	}
	if len(dims) != 2 {
		return nil, DecodeError(path,
			fmt.Errorf("layer %s has %d dimensions", name, len(dims)))
	}
	rows, cols := int(dims[0]), int(dims[1])
	if rows*cols == 0 {
		return nil, raster.LayerMissingError(path, name,
			fmt.Errorf("layer %s is empty", name))
	}

	data := make([]float64, rows*cols)
	if err = ds.Read(&data); err != nil {
		return nil, DecodeError(path, err)
	}
	return &raster.Grid{Rows: rows, Cols: cols, Data: data}, nil
}

// DecodeError is returned when a file cannot be read as HDF5.
func DecodeError(path string, err error) error {
	msg := "Cannot read HDF5 file <em>%s</em>"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.RasterDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("hdf5 %s: %w", path, err),
	}
}
