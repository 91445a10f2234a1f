package iodb_test

import (
	"context"
	"testing"

	"github.com/gnames/wfdb/internal/iodb"
	"github.com/gnames/wfdb/internal/ioschema"
	"github.com/gnames/wfdb/internal/iotesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: These are integration tests that require PostgreSQL.
//
// Connection settings come from WFDB_DATABASE_* environment variables
// or defaults (postgres/postgres@localhost:5432). The database name is
// always "wfdb_test":
//
//	docker run -d --name wfdb-test -e POSTGRES_PASSWORD=postgres \
//	  -e POSTGRES_DB=wfdb_test -p 5432:5432 postgres:17
//
// Skip these tests with:
//   go test -short

func TestNewDriver(t *testing.T) {
	cfg := iotesting.GetTestConfig()
	assert.Equal(t, "postgres", iodb.New(cfg).Driver())

	cfg = iotesting.SQLiteConfig(t)
	assert.Equal(t, "sqlite", iodb.New(cfg).Driver())
}

func TestPgxOperator_Connect_InvalidHost(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := iodb.NewPgxOperator(0)
	cfg := iotesting.GetTestDatabaseConfig()
	cfg.Host = "invalid-host-that-does-not-exist"

	err := op.Connect(context.Background(), cfg)
	assert.Error(t, err, "Connect should fail with invalid host")
}

func TestPgxOperator_Observations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	op := iodb.NewPgxOperator(2)
	require.NoError(t, op.Connect(ctx, iotesting.GetTestDatabaseConfig()))
	defer op.Close()

	require.NoError(t, op.DropAllTables(ctx))
	require.NoError(t, ioschema.NewManager(op).Create(ctx))

	ds := testDataset()
	require.NoError(t, op.CreateDataset(ctx, ds))

	rows := testObservations(ds.ID, 3)
	n, err := op.InsertObservations(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = op.InsertObservations(ctx, rows)
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := op.CountObservations(ctx, ds.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	got, err := op.Dataset(ctx, ds.ID)
	require.NoError(t, err)
	assert.Equal(t, ds.Name, got.Name)
	assert.Nil(t, got.CompletedAt)
}
