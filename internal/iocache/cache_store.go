package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/tephralab/plume/internal/contract"
	"github.com/tephralab/plume/schema"
)

// ensembleTable holds gob-encoded ensemble fields keyed by their load stamp.
const ensembleTable = "plume_ensemble_cache"

// EnsembleStoreImpl is the SQL-backed ensemble cache. Entries are written
// once per stamp and read many times, so the store is a plain key/blob table
// with a version and a write timestamp for staleness checks.
type EnsembleStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.CacheStore = &EnsembleStoreImpl{} // Compile-time check

// NewEnsembleStore opens the ensemble cache on the given backend and ensures
// its table exists. The none backend yields a store whose reads always miss
// and whose writes are discarded.
func NewEnsembleStore(backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	if backend == schema.NoneBackend {
		return &EnsembleStoreImpl{db: nil, backend: backend, connStr: connStr}, nil
	}

	db, err := openBackendDB(backend, connStr, contract.GetCacheDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("ensemble cache: %w", err)
	}

	if _, err := db.Exec(createEnsembleTableQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", ensembleTable, err)
	}

	return &EnsembleStoreImpl{db: db, backend: backend, connStr: connStr}, nil
}

// createEnsembleTableQuery returns the dialect-specific table definition.
// An encoded ensemble runs to tens of megabytes, which rules out the 64KB
// BLOB column type on MySQL.
func createEnsembleTableQuery(backend schema.DatabaseBackend) string {
	table := quoteTableName(ensembleTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key VARCHAR(255) PRIMARY KEY,
				cache_value LONGBLOB NOT NULL,
				cache_version INT NOT NULL,
				cache_timestamp BIGINT NOT NULL
			);
		`, table)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key TEXT PRIMARY KEY,
				cache_value BYTEA NOT NULL,
				cache_version INTEGER NOT NULL,
				cache_timestamp BIGINT NOT NULL
			);
		`, table)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key TEXT PRIMARY KEY,
				cache_value BLOB NOT NULL,
				cache_version INTEGER NOT NULL,
				cache_timestamp INTEGER NOT NULL
			);
		`, table)
	}
}

// Get returns the blob stored under key along with its schema version and
// write timestamp. A disabled store reports every key as missing.
func (es *EnsembleStoreImpl) Get(key string) ([]byte, int, int64, error) {
	if es.backend == schema.NoneBackend || es.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	table := quoteTableName(ensembleTable, es.backend)

	var query string
	switch es.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT cache_value, cache_version, cache_timestamp FROM %s WHERE cache_key = $1`, table)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT cache_value, cache_version, cache_timestamp FROM %s WHERE cache_key = ?`, table)
	}

	var value []byte
	var version int
	var ts int64
	if err := es.db.QueryRow(query, key).Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces the blob stored under key. Disabled stores discard
// the write silently so callers never need to special-case them.
func (es *EnsembleStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	if es.backend == schema.NoneBackend || es.db == nil {
		return nil
	}

	table := quoteTableName(ensembleTable, es.backend)

	var query string
	switch es.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE cache_value = new.cache_value, cache_version = new.cache_version, cache_timestamp = new.cache_timestamp`, table)
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES ($1, $2, $3, $4)
			ON CONFLICT (cache_key) DO UPDATE SET cache_value = EXCLUDED.cache_value, cache_version = EXCLUDED.cache_version, cache_timestamp = EXCLUDED.cache_timestamp`, table)
	default: // SQLite
		query = fmt.Sprintf(`INSERT OR REPLACE INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?)`, table)
	}

	_, err := es.db.Exec(query, key, value, version, timestamp)
	return err
}

// Close releases the database handle.
func (es *EnsembleStoreImpl) Close() error {
	if es.db != nil {
		return es.db.Close()
	}
	return nil
}

// GetStatus reports the entry count, the entry time range and the
// approximate on-disk size of the cache table.
func (es *EnsembleStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(es.backend),
		Connected: es.db != nil,
	}
	if es.backend == schema.NoneBackend || es.db == nil {
		return status, nil
	}

	table := quoteTableName(ensembleTable, es.backend)

	var oldest, newest sql.NullInt64
	query := fmt.Sprintf("SELECT COUNT(*), MIN(cache_timestamp), MAX(cache_timestamp) FROM %s", table)
	if err := es.db.QueryRow(query).Scan(&status.TotalEntries, &oldest, &newest); err != nil {
		return status, fmt.Errorf("failed to inspect cache table: %w", err)
	}
	if oldest.Valid {
		status.OldestEntryTime = time.Unix(oldest.Int64, 0)
	}
	if newest.Valid {
		status.LastEntryTime = time.Unix(newest.Int64, 0)
	}

	status.TableSizeBytes = es.tableSizeBytes()
	return status, nil
}

// tableSizeBytes asks the engine how much storage the cache table occupies.
// The size is informational, so lookup failures degrade to zero rather than
// failing the whole status call.
func (es *EnsembleStoreImpl) tableSizeBytes() int64 {
	var size int64

	switch es.backend {
	case schema.SQLiteBackend:
		row := es.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return 0
		}

	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(es.connStr)
		if err != nil || cfg.DBName == "" {
			return 0
		}
		row := es.db.QueryRow(
			"SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?",
			cfg.DBName, ensembleTable)
		if err := row.Scan(&size); err != nil {
			return 0
		}

	case schema.PostgreSQLBackend:
		row := es.db.QueryRow("SELECT pg_total_relation_size($1)", ensembleTable)
		if err := row.Scan(&size); err != nil {
			return 0
		}
	}

	return size
}
