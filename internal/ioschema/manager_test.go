package ioschema_test

import (
	"context"
	"testing"

	"github.com/gnames/wfdb/internal/iodb"
	"github.com/gnames/wfdb/internal/ioschema"
	"github.com/gnames/wfdb/internal/iotesting"
	"github.com/gnames/wfdb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNotConnected(t *testing.T) {
	op := iodb.NewPgxOperator(0)
	mgr := ioschema.NewManager(op)

	err := mgr.Create(context.Background())
	require.Error(t, err)
	assert.True(t, errcode.Is(err, errcode.DBNotConnectedError))
}

func TestCreateSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := iotesting.SQLiteConfig(t)
	op := iodb.New(cfg)
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	defer op.Close()

	mgr := ioschema.NewManager(op)
	require.NoError(t, mgr.Create(ctx))

	for _, table := range []string{"datasets", "observations"} {
		exists, err := op.TableExists(ctx, table)
		require.NoError(t, err)
		assert.True(t, exists, table)
	}

	// second run keeps the schema
	require.NoError(t, mgr.Create(ctx))
}

func TestCreatePostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()
	cfg := iotesting.GetTestConfig()
	op := iodb.New(cfg)
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	defer op.Close()
	require.NoError(t, op.DropAllTables(ctx))

	mgr := ioschema.NewManager(op)
	require.NoError(t, mgr.Create(ctx))
	require.NoError(t, mgr.Create(ctx))

	exists, err := op.TableExists(ctx, "observations")
	require.NoError(t, err)
	assert.True(t, exists)
}
