package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/tephralab/plume/internal/contract"
	"github.com/tephralab/plume/schema"
)

// Manager is the process-wide store pair, set up once per invocation.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitCaching initializes the global manager with separate ensemble and run
// stores. Either backend may be empty to leave that store disabled; commands
// that only need one store pass an empty backend for the other.
func InitCaching(cacheBackend schema.DatabaseBackend, cacheConnStr string, runBackend schema.DatabaseBackend, runConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var ensembleStore contract.CacheStore
		var runStore contract.RunStore
		var err error

		if cacheBackend != "" {
			ensembleStore, err = NewEnsembleStore(cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize ensemble caching: %w", err)
				return
			}
		}

		if runBackend != "" {
			runStore, err = NewRunStore(runBackend, runConnStr)
			if err != nil {
				// Do not leave a half-initialized manager behind.
				if ensembleStore != nil {
					_ = ensembleStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize run store: %w", err)
				return
			}
		}

		Manager.ensemble = ensembleStore
		Manager.runs = runStore
	})

	// After once.Do, initErr carries any error from the initialization block.
	return initErr
}

// CloseCaching releases both stores. main defers it around Execute.
func CloseCaching() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.ensemble != nil {
			_ = Manager.ensemble.Close()
		}
		if Manager.runs != nil {
			_ = Manager.runs.Close()
		}
	})
}

// ClearCache wipes the ensemble cache: for SQLite the database file is
// removed, for MySQL and PostgreSQL the cache table is dropped, and the none
// backend is a no-op.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeSQLiteFile(dbFilePath)
	case schema.MySQLBackend:
		return clearSQLTable("mysql", connStr, ensembleTable)
	case schema.PostgreSQLBackend:
		return clearSQLTable("pgx", connStr, ensembleTable)
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// ClearRuns wipes the run tracking data: for SQLite the database file is
// removed, for MySQL and PostgreSQL both run tables are dropped, and the
// none backend is a no-op.
func ClearRuns(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeSQLiteFile(dbFilePath)
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		driverName := "mysql"
		if backend == schema.PostgreSQLBackend {
			driverName = "pgx"
		}
		for _, table := range []string{runsTable, runCompositesTable} {
			if err := clearSQLTable(driverName, connStr, table); err != nil {
				return err
			}
		}
		return nil
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("unsupported run backend for clearing: %s", backend)
	}
}

// removeSQLiteFile deletes a SQLite database file, treating a missing file
// as already cleared.
func removeSQLiteFile(dbFilePath string) error {
	if dbFilePath == "" {
		return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
	}
	if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
	}
	return nil
}

// clearSQLTable drops one table on a server backend, validating the
// name before it is interpolated into the DROP statement.
func clearSQLTable(driverName, connStr, tableName string) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
