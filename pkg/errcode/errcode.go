package errcode

import (
	"errors"

	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBTableCheckError
	DBEmptyDatabaseError
	DBNotConnectedError
	DBTableExistsCheckError
	DBDropTableError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError

	// Domain errors
	OutOfDomainError
	TemporalDomainError
	InvalidBoundingBoxError
	InvalidDateRangeError

	// Remote source errors
	RemoteUnavailableError
	RasterLayerMissingError
	RasterShapeError
	RasterDecodeError

	// Populate errors
	PersistenceError
	DatasetCreateError
	DatasetCompleteError
	CheckpointError
	PopulateAllCheckpointsFailedError
	PopulateCancelledError
)

// Of returns the code of the first gn.Error found in the chain of err.
// Returns UnknownError if there is none.
func Of(err error) gn.ErrorCode {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return gnErr.Code
	}
	return UnknownError
}

// Is reports whether err, or any gn.Error wrapped inside of it,
// carries the given code.
func Is(err error, code gn.ErrorCode) bool {
	for err != nil {
		var gnErr *gn.Error
		if !errors.As(err, &gnErr) {
			return false
		}
		if gnErr.Code == code {
			return true
		}
		err = gnErr.Err
	}
	return false
}
