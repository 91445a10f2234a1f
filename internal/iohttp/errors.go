package iohttp

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/wfdb/pkg/errcode"
)

// RemoteError is returned when a remote resource cannot be retrieved.
func RemoteError(url string, attempts int, err error) error {
	msg := "Cannot get <em>%s</em> after %d attempt(s)"
	vars := []any{url, attempts}
	return &gn.Error{
		Code: errcode.RemoteUnavailableError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("GET %s failed after %d attempt(s): %w", url, attempts, err),
	}
}
