package db

import (
	"context"
	"database/sql"

	"github.com/gnames/wfdb/pkg/config"
	"github.com/gnames/wfdb/pkg/schema"
)

// Operator defines database operations needed by wfdb.
// Implementations exist for PostgreSQL and SQLite.
type Operator interface {
	// Connect opens a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Driver returns "postgres" or "sqlite".
	Driver() string

	// SQLDB returns a database/sql handle for schema management.
	SQLDB() (*sql.DB, error)

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all tables of the database.
	DropAllTables(ctx context.Context) error

	// CreateDataset inserts a dataset in the populating state.
	CreateDataset(ctx context.Context, ds *schema.Dataset) error

	// InsertObservations stores rows, ignoring rows whose key already
	// exists. It returns the number of rows actually inserted.
	InsertObservations(ctx context.Context, rows []schema.Observation) (int64, error)

	// CompleteDataset stores row count, failed checkpoints and the
	// completion time of a dataset.
	CompleteDataset(ctx context.Context, ds *schema.Dataset) error

	// Dataset returns a stored dataset by its ID.
	Dataset(ctx context.Context, id string) (*schema.Dataset, error)

	// CountObservations returns the number of rows stored for a dataset.
	CountObservations(ctx context.Context, datasetID string) (int64, error)
}
