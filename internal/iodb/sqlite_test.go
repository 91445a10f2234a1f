package iodb_test

import (
	"context"
	"testing"
	"time"

	"github.com/gnames/wfdb/internal/iodb"
	"github.com/gnames/wfdb/internal/iotesting"
	"github.com/gnames/wfdb/pkg/db"
	"github.com/gnames/wfdb/pkg/errcode"
	"github.com/gnames/wfdb/pkg/schema"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteOperator(t *testing.T) db.Operator {
	t.Helper()
	ctx := context.Background()
	cfg := iotesting.SQLiteConfig(t)
	op := iodb.New(cfg)
	require.Equal(t, "sqlite", op.Driver())
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	t.Cleanup(func() { op.Close() })

	sqlDB, err := op.SQLDB()
	require.NoError(t, err)
	for _, m := range schema.DDLModels() {
		_, err = sqlDB.ExecContext(ctx, m.TableDDL())
		require.NoError(t, err)
	}
	return op
}

func testDataset() *schema.Dataset {
	return &schema.Dataset{
		ID:          uuid.NewString(),
		Name:        "test",
		LatMin:      -7.25,
		LatMax:      -7.0,
		LngMin:      12.75,
		LngMax:      13.0,
		StartDate:   time.Date(2015, 7, 10, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2015, 7, 13, 0, 0, 0, 0, time.UTC),
		Checkpoints: 1,
		CreatedAt:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func testObservations(datasetID string, n int) []schema.Observation {
	ba := 19292.0
	res := make([]schema.Observation, n)
	for i := range n {
		res[i] = schema.Observation{
			Latitude:  -7.125,
			Longitude: 12.875,
			Date:      time.Date(2015, 7, 10+i, 0, 0, 0, 0, time.UTC),
			DatasetID: datasetID,
			FWI:       4.555,
		}
		if i == 0 {
			res[i].BurnedArea = &ba
			res[i].Burnt = true
		}
	}
	return res
}

func TestSQLiteDatasetLifecycle(t *testing.T) {
	ctx := context.Background()
	op := sqliteOperator(t)
	ds := testDataset()

	require.NoError(t, op.CreateDataset(ctx, ds))

	got, err := op.Dataset(ctx, ds.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.RowCount)
	assert.Nil(t, got.CompletedAt)
	assert.True(t, ds.StartDate.Equal(got.StartDate))

	done := time.Date(2025, 1, 2, 4, 0, 0, 0, time.UTC)
	ds.RowCount = 4
	ds.CompletedAt = &done
	require.NoError(t, op.CompleteDataset(ctx, ds))

	got, err = op.Dataset(ctx, ds.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.RowCount)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, done.Equal(*got.CompletedAt))
}

func TestSQLiteCompleteUnknownDataset(t *testing.T) {
	op := sqliteOperator(t)
	err := op.CompleteDataset(context.Background(), testDataset())
	assert.True(t, errcode.Is(err, errcode.DatasetCompleteError))
}

func TestSQLiteInsertIdempotent(t *testing.T) {
	ctx := context.Background()
	op := sqliteOperator(t)
	ds := testDataset()
	require.NoError(t, op.CreateDataset(ctx, ds))

	rows := testObservations(ds.ID, 4)
	n, err := op.InsertObservations(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	// the same rows again insert nothing
	n, err = op.InsertObservations(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	count, err := op.CountObservations(ctx, ds.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	n, err = op.InsertObservations(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteTables(t *testing.T) {
	ctx := context.Background()
	op := sqliteOperator(t)

	has, err := op.HasTables(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, op.DropAllTables(ctx))
	has, err = op.HasTables(ctx)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestSQLiteNotConnected(t *testing.T) {
	op := iodb.NewSQLiteOperator("", 0)
	_, err := op.InsertObservations(context.Background(),
		testObservations("id", 1))
	assert.True(t, errcode.Is(err, errcode.DBNotConnectedError))
}
