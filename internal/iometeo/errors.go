package iometeo

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/wfdb/pkg/errcode"
)

// ResponseError is returned when an answer of the meteo API cannot be
// used.
func ResponseError(url string, err error) error {
	msg := "Unexpected answer from meteo service for <em>%s</em>"
	vars := []any{url}
	return &gn.Error{
		Code: errcode.RemoteUnavailableError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("meteo response %s: %w", url, err),
	}
}
