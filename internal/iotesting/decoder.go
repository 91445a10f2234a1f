package iotesting

import (
	"fmt"
	"io/fs"
	"sync"

	"github.com/gnames/wfdb/pkg/raster"
)

// Decoder is an in-memory raster.Decoder. Layers are keyed by file path
// and layer name. Missing layers return raster.LayerMissingError.
type Decoder struct {
	mu     sync.Mutex
	layers map[string]*raster.Grid
	calls  int
}

// NewDecoder creates an empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{layers: make(map[string]*raster.Grid)}
}

// Add registers a layer of a file.
func (d *Decoder) Add(path, name string, g *raster.Grid) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.layers[path+"#"+name] = g
}

// Layer implements raster.Decoder.
func (d *Decoder) Layer(path, name string) (*raster.Grid, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	g, ok := d.layers[path+"#"+name]
	if !ok {
		return nil, raster.LayerMissingError(path, name,
			fmt.Errorf("layer %s: %w", name, fs.ErrNotExist))
	}
	return g, nil
}

// Calls returns the number of Layer calls.
func (d *Decoder) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// GlobalGrid creates a zero filled grid of the whole Earth.
func GlobalGrid() *raster.Grid {
	return &raster.Grid{
		Rows: 720,
		Cols: 1440,
		Data: make([]float64, 720*1440),
	}
}

// SetCell stores a value for the storage cell that covers a given
// grid row and column (storage rows run north to south).
func SetCell(g *raster.Grid, row, col int, val float64) {
	g.Data[(g.Rows-1-row)*g.Cols+col] = val
}
