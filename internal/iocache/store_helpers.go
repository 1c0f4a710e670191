package iocache

import (
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/tephralab/plume/schema"
)

// tableNamePattern matches identifiers that are safe to interpolate into SQL.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validateTableName rejects table names that cannot be safely interpolated
// into SQL statements.
func validateTableName(tableName string) error {
	if tableName == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if len(tableName) > 64 {
		return fmt.Errorf("table name %q exceeds 64 characters", tableName)
	}
	if !tableNamePattern.MatchString(tableName) {
		return fmt.Errorf("invalid table name %q: only letters, digits and underscores are allowed", tableName)
	}
	return nil
}

// quoteTableName quotes a table name with the identifier quoting style of the backend.
func quoteTableName(tableName string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", tableName)
	default: // SQLite and PostgreSQL use double quotes
		return fmt.Sprintf("%q", tableName)
	}
}

// openBackendDB opens and pings a connection for one of the SQL backends.
// Both stores funnel through here so connection handling and error text stay
// uniform. sqlitePath is the database file used when the backend is SQLite
// and no connection string was given.
func openBackendDB(backend schema.DatabaseBackend, connStr, sqlitePath string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = sqlitePath
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// A second connection on SQLite just produces "database is locked"
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database server is running and accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	return db, nil
}
