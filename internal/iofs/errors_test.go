package iofs

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/wfdb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	originalErr := errors.New("permission denied")

	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
		path string
		text string
	}{
		{"create dir", CreateDirError("/test/dir", originalErr),
			errcode.CreateDirError, "/test/dir", "cannot create"},
		{"copy", CopyFileError("/test/config.yaml", originalErr),
			errcode.CopyFileError, "/test/config.yaml", "cannot copy"},
		{"read", ReadFileError("/data", originalErr),
			errcode.ReadFileError, "/data", "cannot read"},
		{"write", WriteFileError("/cache/a.hdf5", originalErr),
			errcode.WriteFileError, "/cache/a.hdf5", "cannot write"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gnErr, ok := tt.err.(*gn.Error)
			require.True(t, ok, "Error should be of type *gn.Error")

			assert.Equal(t, tt.code, gnErr.Code)
			assert.Contains(t, gnErr.Msg, "%s")
			require.Len(t, gnErr.Vars, 1)
			assert.Equal(t, tt.path, gnErr.Vars[0])

			// caller context from runtime.Caller
			assert.Contains(t, gnErr.Err.Error(), "from")
			assert.Contains(t, gnErr.Err.Error(), tt.text)
			assert.ErrorIs(t, gnErr.Err, originalErr)
		})
	}
}
