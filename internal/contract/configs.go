package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tephralab/plume/schema"
)

// Bounds and defaults enforced during validation.
const (
	DefaultPrecision = 2
	MaxPrecision     = 6
	MaxWindowMonths  = 1200 // a century of monthly output
)

// DateTimeFormat renders run timestamps in tables and exports.
var DateTimeFormat = time.RFC3339

// ProfileConfig says whether profiling is active and where dumps land.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config is the validated runtime configuration every command works from.
type Config struct {
	BasePath      string
	Variable      string
	Members       []int
	Onsets        []string
	PreMonths     int
	PostMonths    int
	Threshold     float64
	EruptionIndex int
	ControlPath   string // ensemble-mean control run for climatological anomalies
	Season        string // optional djf/jja filter for pairwise tests
	SaveDir       string // when set, composite fields are written here as NetCDF
	Suffix        string // filename suffix for packed ensemble files

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // 0 means detect from the terminal

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // plaintext; prefer the PLUME_CACHE_DB_CONNECT env var

	RunBackend   schema.DatabaseBackend
	RunDBConnect string // plaintext; prefer the PLUME_RUN_DB_CONNECT env var

	UseEmojis bool // emoji prefixes on section headers
	UseColors bool // ANSI colors on phase and significance labels
}

// ConfigRawInput is the unvalidated bag Viper unmarshals into, merged from
// flags, environment and config file.
type ConfigRawInput struct {
	// Filled from the positional argument, so it carries no mapstructure tag.
	BasePathStr string

	// --- persistent flags ---
	Variable       string  `mapstructure:"variable"`
	Members        string  `mapstructure:"members"`
	Onsets         string  `mapstructure:"onsets"`
	PreMonths      int     `mapstructure:"pre-months"`
	PostMonths     int     `mapstructure:"post-months"`
	Threshold      float64 `mapstructure:"threshold"`
	EruptionIndex  int     `mapstructure:"eruption-index"`
	Control        string  `mapstructure:"control"`
	OutputFile     string  `mapstructure:"output-file"`
	Precision      int     `mapstructure:"precision"`
	Output         string  `mapstructure:"output"`
	Width          int     `mapstructure:"width"`
	CacheBackend   string  `mapstructure:"cache-backend"`
	CacheDBConnect string  `mapstructure:"cache-db-connect"`
	RunBackend     string  `mapstructure:"run-backend"`
	RunDBConnect   string  `mapstructure:"run-db-connect"`
	Emoji          string  `mapstructure:"emoji"`
	Color          string  `mapstructure:"color"`

	// --- composite flags ---
	SaveDir string `mapstructure:"save-dir"`

	// --- ttest flags ---
	Season string `mapstructure:"season"`

	// --- pack flags ---
	Suffix string `mapstructure:"suffix"`
}

// Clone returns a deep copy of the config, member and onset slices included.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Members != nil {
		clone.Members = make([]int, len(c.Members))
		copy(clone.Members, c.Members)
	}
	if c.Onsets != nil {
		clone.Onsets = make([]string, len(c.Onsets))
		copy(clone.Onsets, c.Onsets)
	}
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw
// inputs and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processMembers(cfg, input); err != nil {
		return err
	}
	if err := processOnsets(cfg, input); err != nil {
		return err
	}
	if err := processWindows(cfg, input); err != nil {
		return err
	}
	if err := processSeason(cfg, input); err != nil {
		return err
	}
	if err := resolvePaths(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and run backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- cache store ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- run store ---
	cfg.RunBackend = schema.DatabaseBackend(strings.ToLower(input.RunBackend))
	if cfg.RunBackend != "" {
		if _, ok := schema.ValidDatabaseBackends[cfg.RunBackend]; !ok {
			return fmt.Errorf("invalid run backend '%s'. must be sqlite, mysql, postgresql, none", input.RunBackend)
		}
		cfg.RunDBConnect = input.RunDBConnect
		if err := ValidateDatabaseConnectionString(cfg.RunBackend, cfg.RunDBConnect); err != nil {
			return err
		}

		// Validate that cache and run tracking use different databases
		if cfg.CacheBackend == cfg.RunBackend && cfg.CacheBackend != schema.NoneBackend {
			// Resolve SQLite defaults so two empty connection strings still collide
			if cfg.CacheBackend == schema.SQLiteBackend {
				cacheDBPath := cfg.CacheDBConnect
				if cacheDBPath == "" {
					cacheDBPath = GetCacheDBFilePath()
				}
				runDBPath := cfg.RunDBConnect
				if runDBPath == "" {
					runDBPath = GetRunDBFilePath()
				}
				if cacheDBPath == runDBPath {
					return fmt.Errorf("cache and run storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
				}
			}
		}
	}

	return nil
}

// validateSimpleInputs covers every field that needs no filesystem access.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Pass-through fields ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.SaveDir = input.SaveDir
	cfg.Suffix = input.Suffix

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Variable Validation ---
	cfg.Variable = strings.TrimSpace(input.Variable)
	if cfg.Variable == "" {
		return fmt.Errorf("variable name cannot be empty")
	}

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}

	// --- 3. Backend Validation ---
	return validateBackendConfigs(cfg, input)
}

// ParseMemberSpec parses an ensemble member spec like "1-10" or "1,2,7" into
// a sorted list of unique member IDs.
func ParseMemberSpec(spec string) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("member spec cannot be empty")
	}

	seen := make(map[int]struct{})
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if lo, hi, ok := strings.Cut(part, "-"); ok {
			first, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("invalid member range start '%s': %w", lo, err)
			}
			last, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("invalid member range end '%s': %w", hi, err)
			}
			if first > last {
				return nil, fmt.Errorf("member range '%s' runs backwards", part)
			}
			for m := first; m <= last; m++ {
				seen[m] = struct{}{}
			}
			continue
		}

		m, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid member '%s': %w", part, err)
		}
		seen[m] = struct{}{}
	}

	if len(seen) == 0 {
		return nil, fmt.Errorf("member spec '%s' selects no members", spec)
	}
	members := make([]int, 0, len(seen))
	for m := range seen {
		if m < 1 {
			return nil, fmt.Errorf("member IDs must be positive (received %d)", m)
		}
		members = append(members, m)
	}
	sort.Ints(members)
	return members, nil
}

// processMembers parses the ensemble member spec.
func processMembers(cfg *Config, input *ConfigRawInput) error {
	members, err := ParseMemberSpec(input.Members)
	if err != nil {
		return err
	}
	cfg.Members = members
	return nil
}

// processOnsets parses the comma-separated scenario list, falling back to the
// default eruption onsets when none are given.
func processOnsets(cfg *Config, input *ConfigRawInput) error {
	raw := strings.TrimSpace(input.Onsets)
	if raw == "" {
		cfg.Onsets = append([]string(nil), schema.DefaultOnsets...)
		return nil
	}

	var onsets []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			return fmt.Errorf("duplicate onset scenario '%s'", part)
		}
		seen[part] = struct{}{}
		onsets = append(onsets, part)
	}
	if len(onsets) == 0 {
		return fmt.Errorf("onset list '%s' selects no scenarios", input.Onsets)
	}
	cfg.Onsets = onsets
	return nil
}

// processWindows validates the analysis windows and the classification
// threshold. A negative eruption index means "defaulted" and resolves to the
// pre-eruption window length, so the pre window ends exactly at the eruption.
func processWindows(cfg *Config, input *ConfigRawInput) error {
	if input.PreMonths < 1 || input.PreMonths > MaxWindowMonths {
		return fmt.Errorf("pre-months must be between 1 and %d (received %d)", MaxWindowMonths, input.PreMonths)
	}
	cfg.PreMonths = input.PreMonths

	if input.PostMonths < 1 || input.PostMonths > MaxWindowMonths {
		return fmt.Errorf("post-months must be between 1 and %d (received %d)", MaxWindowMonths, input.PostMonths)
	}
	cfg.PostMonths = input.PostMonths

	if input.Threshold <= 0 {
		return fmt.Errorf("threshold must be greater than 0 (received %g)", input.Threshold)
	}
	cfg.Threshold = input.Threshold

	if input.EruptionIndex < 0 {
		cfg.EruptionIndex = cfg.PreMonths
	} else {
		cfg.EruptionIndex = input.EruptionIndex
	}
	return nil
}

// processSeason validates the optional season filter.
func processSeason(cfg *Config, input *ConfigRawInput) error {
	season := strings.ToLower(strings.TrimSpace(input.Season))
	if season == "" {
		cfg.Season = ""
		return nil
	}
	if _, ok := schema.ValidSeasons[season]; !ok {
		return fmt.Errorf("invalid season '%s'. must be djf or jja", input.Season)
	}
	cfg.Season = season
	return nil
}

// resolvePaths resolves the scenario base path and the optional control file.
func resolvePaths(cfg *Config, input *ConfigRawInput) error {
	searchPath := input.BasePathStr
	if searchPath == "" {
		searchPath = "."
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	info, err := os.Stat(absSearchPath)
	if err != nil {
		return fmt.Errorf("base path %s: %w", absSearchPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("base path %s is not a directory", absSearchPath)
	}
	cfg.BasePath = absSearchPath

	if input.Control != "" {
		absControl, err := filepath.Abs(input.Control)
		if err != nil {
			return err
		}
		info, err := os.Stat(absControl)
		if err != nil {
			return fmt.Errorf("control file %s: %w", absControl, err)
		}
		if info.IsDir() {
			return fmt.Errorf("control file %s is a directory", absControl)
		}
		cfg.ControlPath = absControl
	}

	return nil
}

// ProcessProfilingConfig enables profiling when a prefix was given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
