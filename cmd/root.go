package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tephralab/plume/internal/contract"
	"github.com/tephralab/plume/internal/iocache"
	"github.com/tephralab/plume/schema"
)

// Populated by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the context threaded into every executor call.
var rootCtx = context.Background()

// cfg holds the validated configuration shared by all commands.
var cfg = &contract.Config{}

// input collects the raw values Viper resolves from file, env and flags
// before validation turns them into cfg.
var input = &contract.ConfigRawInput{}

// profile records whether profiling is on and where the dumps go.
var profile = &contract.ProfileConfig{}

// cacheManager owns the cache and run stores for the life of the process.
var cacheManager contract.CacheManager

// rootCmd anchors every subcommand and prints help when run bare.
var rootCmd = &cobra.Command{
	Use:                "plume",
	Short:              "Analyze how volcanic eruptions shift ENSO in climate model ensembles.",
	Long:               `Plume cuts through eruption ensemble output to show you how each eruption scenario shifts the El Nino-Southern Oscillation.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// Execute dispatches to the selected subcommand.
func Execute() error {
	return rootCmd.Execute()
}

// pointViperAtConfigFile selects an explicit --config file when given,
// otherwise searches for .plume.yaml in the working and home directories.
func pointViperAtConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".plume")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// initConfig wires Viper's config sources and defaults. Runs once via
// cobra.OnInitialize before any command body.
func initConfig() {
	pointViperAtConfigFile()

	viper.SetEnvPrefix("PLUME")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("variable", schema.DefaultVariable)
	viper.SetDefault("members", schema.DefaultMembers)
	viper.SetDefault("pre-months", schema.DefaultPreMonths)
	viper.SetDefault("post-months", schema.DefaultPostMonths)
	viper.SetDefault("threshold", schema.DefaultThreshold)
	viper.SetDefault("eruption-index", -1)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("run-backend", "")
	viper.SetDefault("run-db-connect", "")
	viper.SetDefault("emoji", "yes")
	viper.SetDefault("color", "yes")
}

// loadConfigFile reads the config file if one exists. Cache and runs
// commands call this instead of sharedSetup since they take no ensemble
// path and need no analysis validation.
func loadConfigFile() error {
	pointViperAtConfigFile()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// sharedSetup resolves and validates the full analysis configuration,
// then brings up the persistence layer. Every analysis command routes
// through here as its PreRunE.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	prefix := viper.GetString("profile")
	if err := contract.ProcessProfilingConfig(profile, prefix); err != nil {
		return fmt.Errorf("failed to process profiling config: %w", err)
	}
	if profile.Enabled {
		if err := startProfiling(); err != nil {
			return fmt.Errorf("failed to start profiling: %w", err)
		}
	}

	// A missing config file is fine; defaults, env and flags cover it.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// The ensemble base path arrives as a positional argument, which
	// Viper does not track.
	if len(args) == 1 {
		input.BasePathStr = args[0]
	} else {
		input.BasePathStr = "."
	}

	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	if err := iocache.InitCaching(cfg.CacheBackend, cfg.CacheDBConnect, cfg.RunBackend, cfg.RunDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	return nil
}

// sharedSetupWrapper adapts sharedSetup to Cobra's PreRunE signature.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// startProfiling begins a CPU profile at the configured prefix. The heap
// profile is captured later, in stopProfiling.
func startProfiling() error {
	if !profile.Enabled {
		return nil
	}

	cpuFile, err := os.Create(profile.Prefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}

	_, err = fmt.Fprintf(os.Stdout, "Profiling enabled. CPU profile: %s.cpu.prof, Memory profile: %s.mem.prof\n", profile.Prefix, profile.Prefix)
	return err
}

// stopProfiling ends the CPU profile and writes the heap profile.
func stopProfiling() error {
	if !profile.Enabled {
		return nil
	}

	pprof.StopCPUProfile()

	memFile, err := os.Create(profile.Prefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}

	_, err = fmt.Fprintf(os.Stdout, "Profiling complete. Use 'go tool pprof %s.cpu.prof' to analyze.\n", profile.Prefix)
	return err
}

// SetCacheManager hands the command layer the store pair main built.
func SetCacheManager(mgr contract.CacheManager) {
	cacheManager = mgr
}

// StopProfiling flushes any active profiles. main defers it around Execute.
func StopProfiling() error {
	return stopProfiling()
}
