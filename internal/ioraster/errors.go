package ioraster

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/wfdb/pkg/errcode"
)

// TemporalDomainError is returned for a year without a published
// archive.
func TemporalDomainError(year, minYear, maxYear int) error {
	msg := `Year <em>%d</em> is outside of the archive

Available years are <em>%d..%d</em>. Change the date range of the run
or archive.min_year/archive.max_year in config.yaml.`
	vars := []any{year, minYear, maxYear}
	return &gn.Error{
		Code: errcode.TemporalDomainError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("year %d is outside of %d..%d",
			year, minYear, maxYear),
	}
}

// DownloadError is returned when a remote file cannot be cached.
func DownloadError(remote string, err error) error {
	msg := "Cannot download <em>%s</em>"
	vars := []any{remote}
	return &gn.Error{
		Code: errcode.RemoteUnavailableError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("download %s: %w", remote, err),
	}
}

// SFTPError is returned when the daily archive server is unreachable.
func SFTPError(host string, port int, err error) error {
	msg := `Cannot reach SFTP server <em>%s:%d</em>

<em>How to fix:</em>
  1. Check network connectivity to the server
  2. Verify daily.user and daily.password in config.yaml
  3. If daily.known_hosts is set, make sure it has the server key`
	vars := []any{host, port}
	return &gn.Error{
		Code: errcode.RemoteUnavailableError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("sftp %s:%d: %w", host, port, err),
	}
}

// ConvertError is returned when h4toh5 fails on a daily file.
func ConvertError(path string, out []byte, err error) error {
	msg := "Cannot convert <em>%s</em> to HDF5"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.RasterDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("h4toh5 %s: %w: %s", path, err, out),
	}
}
