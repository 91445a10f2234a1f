package iodb

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gnames/wfdb/pkg/errcode"
	"github.com/gnames/wfdb/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockObservations(n int) []schema.Observation {
	res := make([]schema.Observation, n)
	for i := range n {
		res[i] = schema.Observation{
			Latitude:  0.125,
			Longitude: 0.125 + float64(i)*0.25,
			Date:      time.Date(2015, 7, 10, 0, 0, 0, 0, time.UTC),
			DatasetID: "ds",
		}
	}
	return res
}

// A failed batch rolls back the whole call.
func TestInsertRollback(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	op := &sqliteOperator{db: sqlDB, batchRows: 2}
	insert := regexp.QuoteMeta("INSERT OR IGNORE INTO observations")

	mock.ExpectBegin()
	mock.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(insert).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	n, err := op.InsertObservations(context.Background(), mockObservations(3))
	require.Error(t, err)
	assert.Zero(t, n)
	assert.True(t, errcode.Is(err, errcode.PersistenceError))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertCommit(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	op := &sqliteOperator{db: sqlDB, batchRows: 2}
	insert := regexp.QuoteMeta("INSERT OR IGNORE INTO observations")

	mock.ExpectBegin()
	mock.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	n, err := op.InsertObservations(context.Background(), mockObservations(3))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDatasetFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	op := &sqliteOperator{db: sqlDB}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO datasets")).
		WillReturnError(errors.New("readonly"))

	err = op.CreateDataset(context.Background(), &schema.Dataset{ID: "ds"})
	assert.True(t, errcode.Is(err, errcode.DatasetCreateError))
	assert.NoError(t, mock.ExpectationsWereMet())
}
