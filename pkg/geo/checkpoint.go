package geo

import "fmt"

// Checkpoint is a sub-range of a run processed as one unit of work.
type Checkpoint struct {
	// ID is a stable label, "r<lat step>c<lng step>".
	ID    string
	Range IndexRange
	Box   BoundingBox
}

// Partition splits the range into latSteps x lngSteps checkpoints.
// Split happens in index space, so every cell belongs to exactly one
// checkpoint. Steps are capped by the number of rows and columns, so
// no checkpoint is empty. Checkpoints are ordered south to north, then
// west to east.
func Partition(r IndexRange, latSteps, lngSteps int) []Checkpoint {
	rows := split(r.RowMin, r.Rows(), latSteps)
	cols := split(r.ColMin, r.Cols(), lngSteps)

	res := make([]Checkpoint, 0, len(rows)*len(cols))
	for i, rr := range rows {
		for j, cc := range cols {
			ir := IndexRange{
				RowMin: rr[0], RowMax: rr[1],
				ColMin: cc[0], ColMax: cc[1],
			}
			res = append(res, Checkpoint{
				ID:    fmt.Sprintf("r%dc%d", i, j),
				Range: ir,
				Box:   ir.Box(),
			})
		}
	}
	return res
}

// split divides n indices starting at start into steps inclusive spans
// of nearly equal size.
func split(start, n, steps int) [][2]int {
	steps = max(1, min(steps, n))
	res := make([][2]int, 0, steps)
	for i := range steps {
		lo := start + i*n/steps
		hi := start + (i+1)*n/steps - 1
		res = append(res, [2]int{lo, hi})
	}
	return res
}
