package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tephralab/plume/internal/contract"
	"github.com/tephralab/plume/internal/iocache"
	"github.com/tephralab/plume/schema"
)

// runTrackingSettings reads the run store backend from Viper, folding an
// unset backend into NoneBackend, and validates the connection string.
func runTrackingSettings() (schema.DatabaseBackend, string, error) {
	backendStr := viper.GetString("run-backend")
	connStr := viper.GetString("run-db-connect")

	backend := schema.DatabaseBackend(backendStr)
	if backendStr == "" {
		backend = schema.NoneBackend
	}

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// runsSetup prepares just enough configuration for runs commands: the run
// store backend plus the output file for export. The ensemble cache stays
// disabled.
func runsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, connStr, err := runTrackingSettings()
	if err != nil {
		return err
	}

	if err := iocache.InitCaching(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run tracking: %w", err)
	}

	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// runsSetupWrapper adapts runsSetup to Cobra's PreRunE signature.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// runsMigrateSetup resolves the run store backend without opening it.
// Migrations manage their own connection so they can run against a fresh
// database before any tables exist.
func runsMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, connStr, err := runTrackingSettings()
	if err != nil {
		return err
	}

	// SQLite with no explicit connection string lands on the default path.
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetRunDBFilePath()
	}

	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr

	return nil
}

// runsMigrateSetupWrapper adapts runsMigrateSetup to Cobra's PreRunE signature.
func runsMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsMigrateSetup()
}

// runsCmd groups the run tracking subcommands.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage historical run tracking and exports",
	Long: `Manage the stored history of composite analysis runs.

With a run backend configured, every composite analysis records its
configuration, duration and the headline numbers of each phase
composite: member counts, mean and peak anomalies and the Nino 3.4
mean. That history supports threshold sweeps, comparisons across model
versions and export into analytics tools.

Backends: sqlite, mysql, postgresql, or none. Run tracking is off until
--run-backend (or PLUME_RUN_BACKEND) selects one.

Examples:
  plume runs status
  plume runs export --output-file run-data.parquet`,
}

// runsClearCmd clears the run tracking data.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all historical run tracking data",
	Long: `Delete all stored runs and composite summaries.

There is no undo; export first if the history still matters. On SQLite
this removes the database file, on MySQL and PostgreSQL it drops both
run tables.

Examples:
  plume runs export --output-file backup.parquet
  plume runs clear`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearRuns(cfg.RunBackend, contract.GetRunDBFilePath(), cfg.RunDBConnect); err != nil {
			contract.LogFatal("Failed to clear run data", err)
		}
		fmt.Println("Run data cleared successfully.")
	},
}

// runsStatusCmd shows run tracking status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run tracking statistics and connection details",
	Long: `Show the run store backend, run counts, first and last run
timestamps and per-table row counts.

Examples:
  plume runs status`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetRunStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run status", err)
		}
		iocache.PrintRunStatus(status)
	},
}

// runsExportCmd exports run tracking data to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export historical data to Parquet for BI tools and analytics",
	Long: `Write the stored run history to a pair of Parquet files:
<output-file>.runs.parquet with one row per analysis run, and
<output-file>.composites.parquet with one row per phase composite.

The files load directly into DuckDB, Spark, pandas and most BI tools.
--output-file is required.

Examples:
  plume runs export --output-file data.parquet
  duckdb -c "SELECT * FROM read_parquet('data.parquet.runs.parquet') LIMIT 10"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteRunExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run data", err)
		}
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Bring the run store schema to a target version.

Without flags this migrates to the latest version. --target-version N
migrates up or down to version N; 0 rolls every migration back.

Examples:
  plume runs migrate
  plume runs migrate --target-version 2
  plume runs migrate --target-version 0`,
	PreRunE: runsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateRuns(cfg.RunBackend, cfg.RunDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
