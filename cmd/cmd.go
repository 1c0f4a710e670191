// Package cmd defines the command-line interface for plume.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tephralab/plume/internal/contract"
	"github.com/tephralab/plume/schema"
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(compositeCmd)
	rootCmd.AddCommand(phasesCmd)
	rootCmd.AddCommand(ttestCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(regionsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(runsCmd)

	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Persistent flags apply to every command and land in Viper by name
	rootCmd.PersistentFlags().StringP("variable", "v", schema.DefaultVariable, "NetCDF variable to analyze")
	rootCmd.PersistentFlags().StringP("members", "m", schema.DefaultMembers, "Ensemble member spec, a range like '1-10' or a list like '1,2,7'")
	rootCmd.PersistentFlags().String("onsets", "", "Comma-separated eruption onset scenarios (empty = all default onsets)")
	rootCmd.PersistentFlags().Int("pre-months", schema.DefaultPreMonths, "Months before the eruption used for baselines and classification")
	rootCmd.PersistentFlags().Int("post-months", schema.DefaultPostMonths, "Months after the eruption used for composites and tests")
	rootCmd.PersistentFlags().Float64("threshold", schema.DefaultThreshold, "Phase threshold in standard deviations of the Nino 3.4 index")
	rootCmd.PersistentFlags().Int("eruption-index", -1, "Time index of the eruption month (-1 = pre-months)")
	rootCmd.PersistentFlags().String("control", "", "Control-run NetCDF file for climatological anomalies")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("run-backend", "", "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("run-db-connect", "", "Database connection string for run tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	compositeCmd.Flags().String("save-dir", "", "Directory to write each phase composite as a NetCDF file")
	if err := viper.BindPFlags(compositeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding composite flags", err)
	}

	ttestCmd.Flags().String("season", "", "Keep only post-eruption months in this season: djf or jja")
	if err := viper.BindPFlags(ttestCmd.Flags()); err != nil {
		contract.LogFatal("Error binding ttest flags", err)
	}

	packCmd.Flags().String("suffix", "", "Filename suffix for the packed ensemble file (single scenario only)")
	if err := viper.BindPFlags(packCmd.Flags()); err != nil {
		contract.LogFatal("Error binding pack flags", err)
	}

	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
