// Package ioschema implements SchemaManager interface for
// database schema management. PostgreSQL schema is created with GORM
// AutoMigrate, SQLite schema from DDL of the models.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/gnames/wfdb/pkg/db"
	"github.com/gnames/wfdb/pkg/schema"
	"github.com/gnames/wfdb/pkg/wfdb"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// manager implements the wfdb.SchemaManager interface.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) wfdb.SchemaManager {
	return &manager{operator: op}
}

// Create creates datasets and observations tables if they do not
// exist yet. Running it on an existing schema changes nothing.
func (m *manager) Create(ctx context.Context) error {
	sqlDB, err := m.operator.SQLDB()
	if err != nil {
		return NotConnectedError()
	}

	if m.operator.Driver() == "sqlite" {
		return m.createDDL(ctx)
	}

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return CreateSchemaError(err)
	}
	slog.Info("Schema is ready", "driver", m.operator.Driver())
	return nil
}

func (m *manager) createDDL(ctx context.Context) error {
	sqlDB, err := m.operator.SQLDB()
	if err != nil {
		return NotConnectedError()
	}

	for _, model := range schema.DDLModels() {
		if _, err = sqlDB.ExecContext(ctx, model.TableDDL()); err != nil {
			return CreateSchemaError(err)
		}
		for _, idx := range model.IndexDDL() {
			if _, err = sqlDB.ExecContext(ctx, idx); err != nil {
				return CreateSchemaError(err)
			}
		}
	}
	slog.Info("Schema is ready", "driver", m.operator.Driver())
	return nil
}
