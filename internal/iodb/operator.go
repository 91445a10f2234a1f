// Package iodb implements database operations for PostgreSQL (pgxpool)
// and SQLite. This is an impure I/O package that implements contracts
// defined in pkg/.
package iodb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/gnames/wfdb/pkg/config"
	"github.com/gnames/wfdb/pkg/db"
	"github.com/gnames/wfdb/pkg/schema"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// pgMaxParams is the limit of bound parameters of a PostgreSQL query.
const pgMaxParams = 65535

// New creates an operator for the configured driver (without connecting).
func New(cfg *config.Config) db.Operator {
	if cfg.Database.Driver == "sqlite" {
		return NewSQLiteOperator(cfg.SQLitePath(), cfg.Database.BatchSize)
	}
	return NewPgxOperator(cfg.Database.BatchSize)
}

// pgxOperator implements db.Operator interface using
// pgxpool for connection pooling.
type pgxOperator struct {
	pool      *pgxpool.Pool
	batchRows int
}

// NewPgxOperator creates a new PostgreSQL operator (without connecting).
func NewPgxOperator(batchSize int) db.Operator {
	return &pgxOperator{batchRows: batchRows(batchSize, pgMaxParams)}
}

// Connect establishes a connection pool to PostgreSQL.
func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	// checkpoint workers acquire their own connections
	poolConfig.MaxConns = 16
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 0
	poolConfig.MaxConnIdleTime = 0

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	p.pool = pool
	return nil
}

// Close releases all database connections.
func (p *pgxOperator) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *pgxOperator) Driver() string {
	return "postgres"
}

// SQLDB wraps the pool into database/sql handle, used by GORM.
func (p *pgxOperator) SQLDB() (*sql.DB, error) {
	if p.pool == nil {
		return nil, NotConnectedError()
	}
	return stdlib.OpenDBFromPool(p.pool), nil
}

// TableExists checks if a table exists in the current
// database.
func (p *pgxOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`

	var exists bool
	err := p.pool.QueryRow(ctx, query, tableName).Scan(&exists)
	if err != nil {
		return false, TableExistsCheckError(tableName, err)
	}

	return exists, nil
}

// HasTables checks if the database has any tables in the
// public schema.
func (p *pgxOperator) HasTables(
	ctx context.Context,
) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
		)
	`

	var hasTables bool
	err := p.pool.QueryRow(ctx, query).Scan(&hasTables)
	if err != nil {
		return false, TableCheckError(err)
	}

	return hasTables, nil
}

// DropAllTables drops all tables in the public schema.
func (p *pgxOperator) DropAllTables(ctx context.Context) error {
	if p.pool == nil {
		return NotConnectedError()
	}

	query := `
		SELECT tablename
		FROM pg_tables
		WHERE schemaname = 'public'
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return TableCheckError(err)
	}
	tables, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return TableCheckError(err)
	}

	for _, table := range tables {
		dropSQL := fmt.Sprintf(
			"DROP TABLE IF EXISTS %s CASCADE", pgx.Identifier{table}.Sanitize())
		if _, err := p.pool.Exec(ctx, dropSQL); err != nil {
			return DropTableError(table, err)
		}
	}

	return nil
}

// CreateDataset inserts a dataset in the populating state.
func (p *pgxOperator) CreateDataset(
	ctx context.Context,
	ds *schema.Dataset,
) error {
	if p.pool == nil {
		return NotConnectedError()
	}

	q := `INSERT INTO datasets
		(id, name, row_count, backtrack_days, interval_size,
		 lat_min, lat_max, lng_min, lng_max, start_date, end_date,
		 checkpoints, failed_checkpoints, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := p.pool.Exec(ctx, q,
		ds.ID, ds.Name, ds.RowCount, ds.BacktrackDays, ds.IntervalSize,
		ds.LatMin, ds.LatMax, ds.LngMin, ds.LngMax, ds.StartDate, ds.EndDate,
		ds.Checkpoints, ds.FailedCheckpoints, ds.CreatedAt,
	)
	if err != nil {
		return DatasetCreateError(ds.ID, err)
	}
	return nil
}

// InsertObservations stores rows in one transaction on a dedicated
// connection. Either all new rows of the call are stored or none.
func (p *pgxOperator) InsertObservations(
	ctx context.Context,
	rows []schema.Observation,
) (int64, error) {
	if p.pool == nil {
		return 0, NotConnectedError()
	}
	if len(rows) == 0 {
		return 0, nil
	}

	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return 0, InsertError(len(rows), err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, InsertError(len(rows), err)
	}
	defer tx.Rollback(ctx)

	var total int64
	for _, batch := range chunks(rows, p.batchRows) {
		q := insertSQL(len(batch), "INSERT",
			" ON CONFLICT DO NOTHING", pgPlaceholder)
		args := make([]any, 0, len(batch)*len(obsColumns))
		for _, r := range batch {
			args = append(args, r.Values()...)
		}
		res, err := tx.Exec(ctx, q, args...)
		if err != nil {
			return 0, InsertError(len(rows), err)
		}
		total += res.RowsAffected()
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, InsertError(len(rows), err)
	}

	slog.Debug("Observations stored",
		"rows", len(rows), "inserted", total)
	return total, nil
}

// CompleteDataset stores the final state of a dataset.
func (p *pgxOperator) CompleteDataset(
	ctx context.Context,
	ds *schema.Dataset,
) error {
	if p.pool == nil {
		return NotConnectedError()
	}

	q := `UPDATE datasets
		SET row_count = $2, failed_checkpoints = $3, completed_at = $4
		WHERE id = $1`
	tag, err := p.pool.Exec(ctx, q,
		ds.ID, ds.RowCount, ds.FailedCheckpoints, ds.CompletedAt)
	if err != nil {
		return DatasetCompleteError(ds.ID, err)
	}
	if tag.RowsAffected() != 1 {
		return DatasetCompleteError(ds.ID, sql.ErrNoRows)
	}
	return nil
}

// Dataset returns a stored dataset.
func (p *pgxOperator) Dataset(
	ctx context.Context,
	id string,
) (*schema.Dataset, error) {
	if p.pool == nil {
		return nil, NotConnectedError()
	}

	q := `SELECT id, name, row_count, backtrack_days, interval_size,
		lat_min, lat_max, lng_min, lng_max, start_date, end_date,
		checkpoints, failed_checkpoints, created_at, completed_at
		FROM datasets WHERE id = $1`

	var ds schema.Dataset
	err := p.pool.QueryRow(ctx, q, id).Scan(
		&ds.ID, &ds.Name, &ds.RowCount, &ds.BacktrackDays, &ds.IntervalSize,
		&ds.LatMin, &ds.LatMax, &ds.LngMin, &ds.LngMax,
		&ds.StartDate, &ds.EndDate,
		&ds.Checkpoints, &ds.FailedCheckpoints, &ds.CreatedAt, &ds.CompletedAt,
	)
	if err != nil {
		return nil, QueryError("dataset "+id, err)
	}
	return &ds, nil
}

// CountObservations returns the number of rows of a dataset.
func (p *pgxOperator) CountObservations(
	ctx context.Context,
	datasetID string,
) (int64, error) {
	if p.pool == nil {
		return 0, NotConnectedError()
	}

	var res int64
	q := "SELECT count(*) FROM observations WHERE dataset_id = $1"
	if err := p.pool.QueryRow(ctx, q, datasetID).Scan(&res); err != nil {
		return 0, QueryError("observations count", err)
	}
	return res, nil
}
