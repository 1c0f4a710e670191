package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tephralab/plume/internal/contract"
	"github.com/tephralab/plume/schema"
)

// Table names for run tracking.
const (
	runsTable          = "plume_runs"
	runCompositesTable = "plume_run_composites"
)

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore opens the run tracking store on the given backend and ensures
// its tables exist. The none backend yields a no-op store.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	if backend == schema.NoneBackend {
		return &RunStoreImpl{db: nil, backend: backend}, nil
	}

	db, err := openBackendDB(backend, connStr, contract.GetRunDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &RunStoreImpl{db: db, backend: backend}, nil
}

// createRunTables creates the run tracking tables.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{runCompositesTable, getCreateRunCompositesQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for plume_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_scenarios INT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_scenarios INT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_scenarios INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateRunCompositesQuery returns the CREATE TABLE query for plume_run_composites.
func getCreateRunCompositesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runCompositesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				scenario VARCHAR(255) NOT NULL,
				phase VARCHAR(50) NOT NULL,
				record_time DATETIME(6) NOT NULL,
				member_count INT NOT NULL,
				mean_anomaly DOUBLE NOT NULL,
				peak_anomaly DOUBLE NOT NULL,
				nino34_mean DOUBLE NOT NULL,
				PRIMARY KEY (run_id, scenario, phase)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				scenario TEXT NOT NULL,
				phase TEXT NOT NULL,
				record_time TIMESTAMPTZ NOT NULL,
				member_count INT NOT NULL,
				mean_anomaly DOUBLE PRECISION NOT NULL,
				peak_anomaly DOUBLE PRECISION NOT NULL,
				nino34_mean DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (run_id, scenario, phase)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				scenario TEXT NOT NULL,
				phase TEXT NOT NULL,
				record_time TEXT NOT NULL,
				member_count INTEGER NOT NULL,
				mean_anomaly REAL NOT NULL,
				peak_anomaly REAL NOT NULL,
				nino34_mean REAL NOT NULL,
				PRIMARY KEY (run_id, scenario, phase)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new analysis run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, formatTime(startTime, rs.backend), string(configJSON))
		if err != nil {
			return 0, err
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	return runID, nil
}

// EndRun updates the run with completion data.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, totalScenarios int) error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	// run_duration_ms derives from the stored start_time.
	quotedTableName := quoteTableName(runsTable, rs.backend)
	var startTime time.Time

	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = $1`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, quotedTableName)
	}

	row := rs.db.QueryRow(query, runID)

	// SQLite hands timestamps back as RFC3339 text.
	switch rs.backend {
	case schema.SQLiteBackend:
		var startTimeStr string
		if err := row.Scan(&startTimeStr); err != nil {
			return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
		var err error
		startTime, err = time.Parse(time.RFC3339Nano, startTimeStr)
		if err != nil {
			return fmt.Errorf("failed to parse start_time: %w", err)
		}
	default: // server backends scan straight into time.Time
		if err := row.Scan(&startTime); err != nil {
			return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	// Update the run with completion data
	var updateQuery string
	var args []any

	switch rs.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, total_scenarios = $3 WHERE run_id = $4`, quotedTableName)
		args = []any{endTime, durationMs, totalScenarios, runID}
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_scenarios = ? WHERE run_id = ?`, quotedTableName)
		args = []any{formatTime(endTime, rs.backend), durationMs, totalScenarios, runID}
	}

	_, err := rs.db.Exec(updateQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	return nil
}

// RecordComposite stores the summary statistics of one scenario and phase composite.
func (rs *RunStoreImpl) RecordComposite(runID int64, record schema.CompositeRecord) error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runCompositesTable, rs.backend)

	var query string
	var args []any

	recordTime := formatTime(record.RecordTime, rs.backend)
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`
			INSERT INTO %s (run_id, scenario, phase, record_time, member_count,
			                mean_anomaly, peak_anomaly, nino34_mean)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, quotedTableName)
		args = []any{
			runID, record.Scenario, record.Phase, recordTime, record.MemberCount,
			record.MeanAnomaly, record.PeakAnomaly, record.Nino34Mean,
		}
	default: // SQLite and MySQL
		query = fmt.Sprintf(`
			INSERT INTO %s (run_id, scenario, phase, record_time, member_count,
			                mean_anomaly, peak_anomaly, nino34_mean)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, quotedTableName)
		args = []any{
			runID, record.Scenario, record.Phase, recordTime, record.MemberCount,
			record.MeanAnomaly, record.PeakAnomaly, record.Nino34Mean,
		}
	}

	_, err := rs.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert composite record: %w", err)
	}

	return nil
}

// Close releases the database handle.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(runsTable, rs.backend))
	row := rs.db.QueryRow(runsQuery)
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quoteTableName(runsTable, rs.backend))
		row = rs.db.QueryRow(lastRunQuery)

		switch rs.backend {
		case schema.SQLiteBackend:
			var lastRunID int64
			var lastRunTimeStr string
			if err := row.Scan(&lastRunID, &lastRunTimeStr); err != nil {
				return status, fmt.Errorf("failed to get last run info: %w", err)
			}
			status.LastRunID = lastRunID
			lastRunTime, err := time.Parse(time.RFC3339Nano, lastRunTimeStr)
			if err != nil {
				return status, fmt.Errorf("failed to parse last run time: %w", err)
			}
			status.LastRunTime = lastRunTime
		default: // server backends scan straight into time.Time
			if err := row.Scan(&status.LastRunID, &status.LastRunTime); err != nil {
				return status, fmt.Errorf("failed to get last run info: %w", err)
			}
		}

		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quoteTableName(runsTable, rs.backend))
		row = rs.db.QueryRow(oldestRunQuery)

		switch rs.backend {
		case schema.SQLiteBackend:
			var oldestRunTimeStr string
			if err := row.Scan(&oldestRunTimeStr); err != nil {
				return status, fmt.Errorf("failed to get oldest run time: %w", err)
			}
			oldestRunTime, err := time.Parse(time.RFC3339Nano, oldestRunTimeStr)
			if err != nil {
				return status, fmt.Errorf("failed to parse oldest run time: %w", err)
			}
			status.OldestRunTime = oldestRunTime
		default: // server backends scan straight into time.Time
			if err := row.Scan(&status.OldestRunTime); err != nil {
				return status, fmt.Errorf("failed to get oldest run time: %w", err)
			}
		}

		compositesQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(runCompositesTable, rs.backend))
		row = rs.db.QueryRow(compositesQuery)
		if err := row.Scan(&status.TotalComposites); err != nil {
			return status, fmt.Errorf("failed to get total composites: %w", err)
		}
	}

	tables := []string{runsTable, runCompositesTable}
	for _, table := range tables {
		quotedTable := quoteTableName(table, rs.backend)
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTable)
		row = rs.db.QueryRow(countQuery)
		var count int64
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all runs from the store.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	query := fmt.Sprintf("SELECT run_id, start_time, end_time, run_duration_ms, total_scenarios, config_params FROM %s ORDER BY run_id", quotedTableName)

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord

	for rows.Next() {
		var record schema.RunRecord

		switch rs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &startTimeStr, &endTimeStr, &record.RunDurationMs, &record.TotalScenarios, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			// end_time stays NULL while a run is in flight.
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.StartTime, &record.EndTime, &record.RunDurationMs, &record.TotalScenarios, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return results, nil
}

// GetAllComposites retrieves all composite records from the store.
func (rs *RunStoreImpl) GetAllComposites() ([]schema.CompositeRecord, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(runCompositesTable, rs.backend)
	query := fmt.Sprintf(`SELECT run_id, scenario, phase, record_time, member_count,
    mean_anomaly, peak_anomaly, nino34_mean
    FROM %s ORDER BY run_id, scenario, phase`, quotedTableName)

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query composite records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.CompositeRecord

	for rows.Next() {
		var record schema.CompositeRecord

		switch rs.backend {
		case schema.SQLiteBackend:
			var recordTimeStr string
			if err := rows.Scan(&record.RunID, &record.Scenario, &record.Phase, &recordTimeStr,
				&record.MemberCount, &record.MeanAnomaly, &record.PeakAnomaly, &record.Nino34Mean); err != nil {
				return nil, fmt.Errorf("failed to scan composite record: %w", err)
			}
			recordTime, err := time.Parse(time.RFC3339Nano, recordTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse record_time: %w", err)
			}
			record.RecordTime = recordTime
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.Scenario, &record.Phase, &record.RecordTime,
				&record.MemberCount, &record.MeanAnomaly, &record.PeakAnomaly, &record.Nino34Mean); err != nil {
				return nil, fmt.Errorf("failed to scan composite record: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating composite records: %w", err)
	}

	return results, nil
}

// formatTime renders a timestamp the way the backend's column expects.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}
