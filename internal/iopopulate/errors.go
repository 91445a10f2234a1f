package iopopulate

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/wfdb/pkg/errcode"
)

// CheckpointError wraps the last error of a failed checkpoint.
func CheckpointError(id string, err error) error {
	msg := "Checkpoint <em>%s</em> failed"
	vars := []any{id}
	return &gn.Error{
		Code: errcode.CheckpointError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("checkpoint %s: %w", id, err),
	}
}

// AllCheckpointsFailedError is returned when no checkpoint stored its
// rows.
func AllCheckpointsFailedError(n int, err error) error {
	msg := `All <em>%d</em> checkpoints failed

<em>Possible causes:</em>
  - Remote services are unavailable
  - Database is not writable

<em>How to fix:</em>
  1. Check the log file for errors of checkpoints
  2. Run populate again later`
	vars := []any{n}
	return &gn.Error{
		Code: errcode.PopulateAllCheckpointsFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("all %d checkpoints failed: %w", n, err),
	}
}

// CancelledError is returned when a run is interrupted.
func CancelledError(err error) error {
	msg := "Population was cancelled"
	return &gn.Error{
		Code: errcode.PopulateCancelledError,
		Msg:  msg,
		Err:  fmt.Errorf("population cancelled: %w", err),
	}
}
