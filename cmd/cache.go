package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tephralab/plume/internal/contract"
	"github.com/tephralab/plume/internal/iocache"
	"github.com/tephralab/plume/schema"
)

// cacheSetup prepares just enough configuration for cache commands:
// the config file plus the cache backend settings. Ensemble path
// validation and the run store stay out of it.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	if err := iocache.InitCaching(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper adapts cacheSetup to Cobra's PreRunE signature.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd groups the cache maintenance subcommands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the ensemble cache (improves performance)",
	Long: `Manage the ensemble cache that speeds up repeated analyses.

Loading an ensemble means reading and stacking one NetCDF file per
member, which dominates runtime for large grids. Plume therefore caches
each loaded ensemble, keyed by scenario, member list, variable and file
timestamps, so later runs against unchanged model output skip the load
entirely.

Backends: sqlite (default), mysql, postgresql, or none to disable.

Examples:
  plume cache status
  plume cache clear`,
}

// cacheClearCmd wipes the configured cache backend.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached ensemble data",
	Long: `Delete every cached ensemble from the configured backend.

Stale entries are already evicted by file timestamp checks, so clearing
is mainly for reclaiming space or forcing a cold load when timing the
raw NetCDF path. On SQLite this removes the database file; on MySQL and
PostgreSQL it drops the cache table.

Examples:
  plume cache clear
  PLUME_CACHE_BACKEND=mysql PLUME_CACHE_DB_CONNECT="..." plume cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd reports entry counts and sizes for the cache backend.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the cache backend, entry count, newest and oldest entry
timestamps and on-disk size.

A growing entry count with recent timestamps means analyses are hitting
the cache; an empty report on a warm workflow usually points at a
misconfigured backend.

Examples:
  plume cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetEnsembleStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}
