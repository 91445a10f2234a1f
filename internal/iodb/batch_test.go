package iodb

import (
	"strings"
	"testing"
	"time"

	"github.com/gnames/wfdb/pkg/schema"
	"github.com/stretchr/testify/assert"
)

func TestBatchRows(t *testing.T) {
	assert := assert.New(t)
	// 65535 / 17
	assert.Equal(3855, batchRows(0, pgMaxParams))
	assert.Equal(3855, batchRows(100_000, pgMaxParams))
	assert.Equal(2000, batchRows(2000, pgMaxParams))
	// 32766 / 17
	assert.Equal(1927, batchRows(2000, sqliteMaxParams))
}

func TestInsertSQL(t *testing.T) {
	assert := assert.New(t)

	q := insertSQL(2, "INSERT", " ON CONFLICT DO NOTHING", pgPlaceholder)
	assert.True(strings.HasPrefix(q,
		"INSERT INTO observations (latitude, longitude, date, dataset_id,"))
	assert.Contains(q, "($1, $2, $3")
	assert.Contains(q, "$34)")
	assert.NotContains(q, "$35")
	assert.True(strings.HasSuffix(q, " ON CONFLICT DO NOTHING"))

	q = insertSQL(1, "INSERT OR IGNORE", "", sqlitePlaceholder)
	assert.Equal(17, strings.Count(q, "?"))
}

func TestChunks(t *testing.T) {
	rows := make([]schema.Observation, 7)
	res := chunks(rows, 3)
	assert.Len(t, res, 3)
	assert.Len(t, res[2], 1)
	assert.Empty(t, chunks(nil, 3))
}

func TestSQLiteValues(t *testing.T) {
	o := schema.Observation{
		Date: time.Date(2015, 7, 10, 0, 0, 0, 0, time.UTC),
	}
	vals := sqliteValues(o)
	assert.Equal(t, "2015-07-10", vals[2])
}
