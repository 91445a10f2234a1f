package geo

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/wfdb/pkg/errcode"
)

// OutOfDomainError is returned when a bounding box lies outside of
// the globe.
func OutOfDomainError(bb BoundingBox) error {
	msg := `Bounding box is outside of the globe

<em>Latitude:</em> %v..%v
<em>Longitude:</em> %v..%v

Latitude must overlap -90..90, longitude must overlap -180..180.`
	vars := []any{bb.LatMin, bb.LatMax, bb.LngMin, bb.LngMax}
	return &gn.Error{
		Code: errcode.OutOfDomainError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("bounding box %+v does not intersect the grid",
			bb),
	}
}

// InvalidBoundingBoxError is returned for inverted or non-numeric edges.
func InvalidBoundingBoxError(bb BoundingBox) error {
	msg := "Invalid bounding box: lat <em>%v..%v</em>, lng <em>%v..%v</em>"
	vars := []any{bb.LatMin, bb.LatMax, bb.LngMin, bb.LngMax}
	return &gn.Error{
		Code: errcode.InvalidBoundingBoxError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("invalid bounding box %+v", bb),
	}
}

// InvalidDateRangeError is returned when end date precedes start date.
func InvalidDateRangeError(dr DateRange) error {
	msg := "End date <em>%s</em> is before start date <em>%s</em>"
	vars := []any{dr.End.Format("2006-01-02"), dr.Start.Format("2006-01-02")}
	return &gn.Error{
		Code: errcode.InvalidDateRangeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("invalid date range %s..%s", dr.Start, dr.End),
	}
}

// DateParseError is returned when a date is not in YYYY-MM-DD format.
func DateParseError(s string, err error) error {
	msg := "Cannot parse date <em>%s</em>, use YYYY-MM-DD format"
	vars := []any{s}
	return &gn.Error{
		Code: errcode.InvalidDateRangeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot parse date %q: %w", s, err),
	}
}
