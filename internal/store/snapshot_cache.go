// Package store implements the local snapshot cache: the last confirmed
// records of each collection, persisted in SQLite so a restarted client
// can render the previous view while the first fetch is in flight.
//
// The cache is an availability optimization only. Server data always
// replaces cached data, and a missing or broken cache degrades to an
// empty initial view, never to an error the user sees.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/chapelworks/mediasync/internal/logger"
	"github.com/chapelworks/mediasync/migrations"
	"github.com/chapelworks/mediasync/models"
)

//go:generate mockgen -source=snapshot_cache.go -destination=../mock/snapshot_cache_mock.go -package=mock

// SnapshotCache persists the last confirmed view of each collection.
type SnapshotCache interface {
	// Load returns the cached records for collection in stored order.
	// A collection never cached yields an empty slice, not an error.
	Load(ctx context.Context, collection string) ([]models.Record, error)

	// Save atomically replaces the cached snapshot for collection.
	Save(ctx context.Context, collection string, records []models.Record) error

	// Close releases the underlying database.
	Close() error
}

type sqliteCache struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewSQLiteCache opens (or creates) the cache database at path and
// applies pending migrations. Use ":memory:" for an ephemeral cache.
func NewSQLiteCache(path string, log *logger.Logger) (SnapshotCache, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot cache: %w", err)
	}

	if err = migrations.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate snapshot cache: %w", err)
	}

	return &sqliteCache{db: db, logger: log}, nil
}

// newCacheWithDB wires an existing database handle; used by tests to
// substitute a mock.
func newCacheWithDB(db *sql.DB, log *logger.Logger) *sqliteCache {
	return &sqliteCache{db: db, logger: log}
}

func (c *sqliteCache) Load(ctx context.Context, collection string) ([]models.Record, error) {
	query, args, err := sq.Select("payload").
		From("snapshots").
		Where(sq.Eq{"collection": collection}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build snapshot query: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load snapshot for %s: %w", collection, err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		var payload string
		if err = rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}

		var record models.Record
		if err = json.Unmarshal([]byte(payload), &record); err != nil {
			// one corrupt row should not void the whole snapshot
			c.logger.Warn().Err(err).Str("collection", collection).Msg("skipping corrupt snapshot row")
			continue
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return records, nil
}

func (c *sqliteCache) Save(ctx context.Context, collection string, records []models.Record) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	deleteQuery, deleteArgs, err := sq.Delete("snapshots").
		Where(sq.Eq{"collection": collection}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build snapshot delete: %w", err)
	}
	if _, err = tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("clear snapshot for %s: %w", collection, err)
	}

	for position, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encode snapshot record %s: %w", record.ID, err)
		}

		insertQuery, insertArgs, err := sq.Insert("snapshots").
			Columns("collection", "record_id", "position", "payload").
			Values(collection, record.ID, position, string(payload)).
			ToSql()
		if err != nil {
			return fmt.Errorf("build snapshot insert: %w", err)
		}
		if _, err = tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("store snapshot record %s: %w", record.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot for %s: %w", collection, err)
	}
	return nil
}

func (c *sqliteCache) Close() error {
	return c.db.Close()
}
