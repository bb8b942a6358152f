package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapelworks/mediasync/internal/logger"
	"github.com/chapelworks/mediasync/models"
)

const (
	selectQuery = "SELECT payload FROM snapshots WHERE collection = ? ORDER BY position ASC"
	deleteQuery = "DELETE FROM snapshots WHERE collection = ?"
	insertQuery = "INSERT INTO snapshots (collection,record_id,position,payload) VALUES (?,?,?,?)"
)

func newTestCache(t *testing.T) (*sqliteCache, sqlmock.Sqlmock) {
	t.Helper()
	db, dbMock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return newCacheWithDB(db, logger.Nop()), dbMock
}

func payloadFor(t *testing.T, record models.Record) string {
	t.Helper()
	data, err := json.Marshal(record)
	require.NoError(t, err)
	return string(data)
}

func TestSQLiteCache_Load_ReturnsStoredOrder(t *testing.T) {
	cache, dbMock := newTestCache(t)

	first := models.Record{ID: "a", CollectionName: "sermons", Title: "Newest"}
	second := models.Record{ID: "b", CollectionName: "sermons", Title: "Older"}
	dbMock.ExpectQuery(selectQuery).
		WithArgs("sermons").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).
			AddRow(payloadFor(t, first)).
			AddRow(payloadFor(t, second)))

	records, err := cache.Load(context.Background(), "sermons")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].ID)
	assert.Equal(t, "b", records[1].ID)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestSQLiteCache_Load_SkipsCorruptRows(t *testing.T) {
	cache, dbMock := newTestCache(t)

	good := models.Record{ID: "a", CollectionName: "sermons"}
	dbMock.ExpectQuery(selectQuery).
		WithArgs("sermons").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).
			AddRow("{broken json").
			AddRow(payloadFor(t, good)))

	records, err := cache.Load(context.Background(), "sermons")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].ID)
}

func TestSQLiteCache_Load_NeverCachedCollection(t *testing.T) {
	cache, dbMock := newTestCache(t)

	dbMock.ExpectQuery(selectQuery).
		WithArgs("events").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))

	records, err := cache.Load(context.Background(), "events")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSQLiteCache_Save_ReplacesSnapshotInOneTx(t *testing.T) {
	cache, dbMock := newTestCache(t)

	records := []models.Record{
		{ID: "a", CollectionName: "sermons", Title: "Newest"},
		{ID: "b", CollectionName: "sermons", Title: "Older"},
	}

	dbMock.ExpectBegin()
	dbMock.ExpectExec(deleteQuery).
		WithArgs("sermons").
		WillReturnResult(sqlmock.NewResult(0, 2))
	dbMock.ExpectExec(insertQuery).
		WithArgs("sermons", "a", 0, payloadFor(t, records[0])).
		WillReturnResult(sqlmock.NewResult(1, 1))
	dbMock.ExpectExec(insertQuery).
		WithArgs("sermons", "b", 1, payloadFor(t, records[1])).
		WillReturnResult(sqlmock.NewResult(2, 1))
	dbMock.ExpectCommit()

	require.NoError(t, cache.Save(context.Background(), "sermons", records))
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestSQLiteCache_Save_RollsBackOnInsertFailure(t *testing.T) {
	cache, dbMock := newTestCache(t)

	dbMock.ExpectBegin()
	dbMock.ExpectExec(deleteQuery).
		WithArgs("sermons").
		WillReturnResult(sqlmock.NewResult(0, 0))
	dbMock.ExpectExec(insertQuery).
		WillReturnError(assert.AnError)
	dbMock.ExpectRollback()

	err := cache.Save(context.Background(), "sermons", []models.Record{{ID: "a", CollectionName: "sermons"}})
	require.Error(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
