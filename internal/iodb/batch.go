package iodb

import (
	"fmt"
	"strings"

	"github.com/gnames/wfdb/pkg/schema"
)

var obsColumns = schema.Observation{}.Columns()

// batchRows returns the number of observation rows per INSERT that
// stays under the bound parameters limit of a driver.
func batchRows(configured, maxParams int) int {
	limit := maxParams / len(obsColumns)
	if configured <= 0 || configured > limit {
		return limit
	}
	return configured
}

// insertSQL builds a multi-row INSERT that skips duplicate keys.
// placeholder renders n-th (1-based) parameter.
func insertSQL(
	rows int,
	verb, suffix string,
	placeholder func(int) string,
) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s INTO observations (%s) VALUES ",
		verb, strings.Join(obsColumns, ", "))

	n := 1
	for i := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j := range obsColumns {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(placeholder(n))
			n++
		}
		sb.WriteByte(')')
	}
	sb.WriteString(suffix)
	return sb.String()
}

func pgPlaceholder(i int) string {
	return fmt.Sprintf("$%d", i)
}

func sqlitePlaceholder(_ int) string {
	return "?"
}

// chunks splits rows into consecutive slices of at most size rows.
func chunks(rows []schema.Observation, size int) [][]schema.Observation {
	var res [][]schema.Observation
	for i := 0; i < len(rows); i += size {
		end := min(i+size, len(rows))
		res = append(res, rows[i:end])
	}
	return res
}
