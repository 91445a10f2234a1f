package iodb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/wfdb/pkg/errcode"
)

// ConnectionError is returned when PostgreSQL connection fails.
func ConnectionError(host string, port int, database, user string, err error) error {
	msg := `Could not connect to PostgreSQL database

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Database configuration is incorrect
  - Network connectivity issues

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>
  2. Verify database exists:
     <em>psql -h %s -U %s -l</em>
  3. Check connection settings in <em>~/.config/wfdb/config.yaml</em>
     or use <em>database.driver: sqlite</em> for local runs`
	vars := []any{host, port, host, user, database}
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

// SQLiteOpenError is returned when a SQLite file cannot be opened.
func SQLiteOpenError(path string, err error) error {
	msg := "Cannot open SQLite database <em>%s</em>"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot open sqlite %s: %w", path, err),
	}
}

// NotConnectedError is returned when an operation runs before Connect.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database operation attempted without connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableExistsCheckError is returned when a table existence query fails.
func TableExistsCheckError(table string, err error) error {
	msg := "Cannot check if table <em>%s</em> exists"
	vars := []any{table}
	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("table %s existence check: %w", table, err),
	}
}

// TableCheckError is returned when checking for tables fails.
func TableCheckError(err error) error {
	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  "Could not verify database state",
		Err:  fmt.Errorf("failed to check database tables: %w", err),
	}
}

// DropTableError is returned when a table cannot be dropped.
func DropTableError(table string, err error) error {
	msg := "Cannot drop table <em>%s</em>"
	vars := []any{table}
	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("drop table %s: %w", table, err),
	}
}

// InsertError is returned when observations cannot be stored.
// None of the rows of the call are kept.
func InsertError(rows int, err error) error {
	msg := "Cannot store <em>%d</em> observations"
	vars := []any{rows}
	return &gn.Error{
		Code: errcode.PersistenceError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("insert of %d observations: %w", rows, err),
	}
}

// DatasetCreateError is returned when a dataset row cannot be inserted.
func DatasetCreateError(id string, err error) error {
	msg := "Cannot create dataset <em>%s</em>"
	vars := []any{id}
	return &gn.Error{
		Code: errcode.DatasetCreateError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("create dataset %s: %w", id, err),
	}
}

// DatasetCompleteError is returned when a dataset cannot be completed.
func DatasetCompleteError(id string, err error) error {
	msg := "Cannot complete dataset <em>%s</em>"
	vars := []any{id}
	return &gn.Error{
		Code: errcode.DatasetCompleteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("complete dataset %s: %w", id, err),
	}
}

// QueryError is returned when a read query fails.
func QueryError(what string, err error) error {
	msg := "Cannot read <em>%s</em> from database"
	vars := []any{what}
	return &gn.Error{
		Code: errcode.PersistenceError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("query %s: %w", what, err),
	}
}
