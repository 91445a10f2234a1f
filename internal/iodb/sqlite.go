package iodb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gnames/wfdb/pkg/config"
	"github.com/gnames/wfdb/pkg/db"
	"github.com/gnames/wfdb/pkg/schema"
	_ "modernc.org/sqlite"
)

// sqliteMaxParams is the default SQLITE_MAX_VARIABLE_NUMBER.
const sqliteMaxParams = 32766

const dateLayout = "2006-01-02"

// sqliteOperator implements db.Operator for a local SQLite file.
// Dates are stored as YYYY-MM-DD text, timestamps as RFC 3339 text.
type sqliteOperator struct {
	db        *sql.DB
	path      string
	batchRows int
}

// NewSQLiteOperator creates a new SQLite operator (without connecting).
// The path is used when DatabaseConfig does not set one.
func NewSQLiteOperator(path string, batchSize int) db.Operator {
	return &sqliteOperator{
		path:      path,
		batchRows: batchRows(batchSize, sqliteMaxParams),
	}
}

// Connect opens the database file, creating it if needed.
func (s *sqliteOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	path := s.path
	if cfg != nil && cfg.SQLitePath != "" {
		path = cfg.SQLitePath
	}
	dsn := "file:" + path +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)" +
		"&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return SQLiteOpenError(path, err)
	}
	// SQLite has a single writer, workers queue for the connection.
	sqlDB.SetMaxOpenConns(1)

	if err = sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return SQLiteOpenError(path, err)
	}
	s.db = sqlDB
	return nil
}

func (s *sqliteOperator) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *sqliteOperator) Driver() string {
	return "sqlite"
}

func (s *sqliteOperator) SQLDB() (*sql.DB, error) {
	if s.db == nil {
		return nil, NotConnectedError()
	}
	return s.db, nil
}

func (s *sqliteOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if s.db == nil {
		return false, NotConnectedError()
	}
	var n int
	q := "SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?"
	if err := s.db.QueryRowContext(ctx, q, tableName).Scan(&n); err != nil {
		return false, TableExistsCheckError(tableName, err)
	}
	return n > 0, nil
}

func (s *sqliteOperator) HasTables(ctx context.Context) (bool, error) {
	if s.db == nil {
		return false, NotConnectedError()
	}
	tables, err := s.tables(ctx)
	if err != nil {
		return false, err
	}
	return len(tables) > 0, nil
}

func (s *sqliteOperator) tables(ctx context.Context) ([]string, error) {
	q := `SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, TableCheckError(err)
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, TableCheckError(err)
		}
		res = append(res, name)
	}
	if err = rows.Err(); err != nil {
		return nil, TableCheckError(err)
	}
	return res, nil
}

func (s *sqliteOperator) DropAllTables(ctx context.Context) error {
	if s.db == nil {
		return NotConnectedError()
	}
	tables, err := s.tables(ctx)
	if err != nil {
		return err
	}

	if _, err = s.db.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return DropTableError("*", err)
	}
	defer s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON")

	for _, table := range tables {
		q := fmt.Sprintf("DROP TABLE IF EXISTS %q", table)
		if _, err = s.db.ExecContext(ctx, q); err != nil {
			return DropTableError(table, err)
		}
	}
	return nil
}

func (s *sqliteOperator) CreateDataset(
	ctx context.Context,
	ds *schema.Dataset,
) error {
	if s.db == nil {
		return NotConnectedError()
	}
	q := `INSERT INTO datasets
		(id, name, row_count, backtrack_days, interval_size,
		 lat_min, lat_max, lng_min, lng_max, start_date, end_date,
		 checkpoints, failed_checkpoints, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		ds.ID, ds.Name, ds.RowCount, ds.BacktrackDays, ds.IntervalSize,
		ds.LatMin, ds.LatMax, ds.LngMin, ds.LngMax,
		ds.StartDate.Format(dateLayout), ds.EndDate.Format(dateLayout),
		ds.Checkpoints, ds.FailedCheckpoints,
		ds.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return DatasetCreateError(ds.ID, err)
	}
	return nil
}

// InsertObservations stores rows in one transaction with
// INSERT OR IGNORE.
func (s *sqliteOperator) InsertObservations(
	ctx context.Context,
	rows []schema.Observation,
) (int64, error) {
	if s.db == nil {
		return 0, NotConnectedError()
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, InsertError(len(rows), err)
	}
	defer tx.Rollback()

	var total int64
	for _, batch := range chunks(rows, s.batchRows) {
		q := insertSQL(len(batch), "INSERT OR IGNORE", "", sqlitePlaceholder)
		args := make([]any, 0, len(batch)*len(obsColumns))
		for _, r := range batch {
			args = append(args, sqliteValues(r)...)
		}
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return 0, InsertError(len(rows), err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, InsertError(len(rows), err)
		}
		total += n
	}

	if err = tx.Commit(); err != nil {
		return 0, InsertError(len(rows), err)
	}
	return total, nil
}

// sqliteValues replaces the date with its text form.
func sqliteValues(o schema.Observation) []any {
	res := o.Values()
	for i, c := range obsColumns {
		if c == "date" {
			res[i] = o.Date.Format(dateLayout)
		}
	}
	return res
}

func (s *sqliteOperator) CompleteDataset(
	ctx context.Context,
	ds *schema.Dataset,
) error {
	if s.db == nil {
		return NotConnectedError()
	}
	var completed any
	if ds.CompletedAt != nil {
		completed = ds.CompletedAt.UTC().Format(time.RFC3339Nano)
	}
	q := `UPDATE datasets
		SET row_count = ?, failed_checkpoints = ?, completed_at = ?
		WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q,
		ds.RowCount, ds.FailedCheckpoints, completed, ds.ID)
	if err != nil {
		return DatasetCompleteError(ds.ID, err)
	}
	if n, err := res.RowsAffected(); err != nil || n != 1 {
		if err == nil {
			err = sql.ErrNoRows
		}
		return DatasetCompleteError(ds.ID, err)
	}
	return nil
}

func (s *sqliteOperator) Dataset(
	ctx context.Context,
	id string,
) (*schema.Dataset, error) {
	if s.db == nil {
		return nil, NotConnectedError()
	}
	q := `SELECT id, name, row_count, backtrack_days, interval_size,
		lat_min, lat_max, lng_min, lng_max, start_date, end_date,
		checkpoints, failed_checkpoints, created_at, completed_at
		FROM datasets WHERE id = ?`

	var ds schema.Dataset
	var start, end, created string
	var completed sql.NullString
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&ds.ID, &ds.Name, &ds.RowCount, &ds.BacktrackDays, &ds.IntervalSize,
		&ds.LatMin, &ds.LatMax, &ds.LngMin, &ds.LngMax,
		&start, &end,
		&ds.Checkpoints, &ds.FailedCheckpoints, &created, &completed,
	)
	if err != nil {
		return nil, QueryError("dataset "+id, err)
	}

	if ds.StartDate, err = time.Parse(dateLayout, start); err != nil {
		return nil, QueryError("dataset "+id, err)
	}
	if ds.EndDate, err = time.Parse(dateLayout, end); err != nil {
		return nil, QueryError("dataset "+id, err)
	}
	if ds.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, QueryError("dataset "+id, err)
	}
	if completed.Valid {
		t, err := time.Parse(time.RFC3339Nano, completed.String)
		if err != nil {
			return nil, QueryError("dataset "+id, err)
		}
		ds.CompletedAt = &t
	}
	return &ds, nil
}

func (s *sqliteOperator) CountObservations(
	ctx context.Context,
	datasetID string,
) (int64, error) {
	if s.db == nil {
		return 0, NotConnectedError()
	}
	var res int64
	q := "SELECT count(*) FROM observations WHERE dataset_id = ?"
	if err := s.db.QueryRowContext(ctx, q, datasetID).Scan(&res); err != nil {
		return 0, QueryError("observations count", err)
	}
	return res, nil
}
