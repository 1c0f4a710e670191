package schema

// String types shared across the CLI surface.
type (
	// Phase represents the ENSO state of an ensemble member at eruption time.
	Phase string

	// OutputMode selects how results are rendered.
	OutputMode string

	// DatabaseBackend names a persistence engine for the cache and run stores.
	DatabaseBackend string
)

// The three ENSO phases members are classified into.
const (
	ElNinoPhase  Phase = "El Nino"
	NeutralPhase Phase = "Neutral"
	LaNinaPhase  Phase = "La Nina"
)

// Output modes accepted by --output.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// Backends accepted by --cache-backend and --run-backend.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Defaults applied when flags, environment and config files leave a value unset.
const (
	DefaultVariable   = "TS"   // surface temperature
	DefaultMembers    = "1-10" // ensemble member spec
	DefaultPreMonths  = 12
	DefaultPostMonths = 24
	DefaultThreshold  = 1.0
)

// AllPhases lists every ENSO phase in composite order.
var AllPhases = []Phase{ElNinoPhase, NeutralPhase, LaNinaPhase}

// DefaultOnsets lists the eruption scenarios analyzed when none are given.
var DefaultOnsets = []string{"January_1x", "April_1x", "July_1x", "October_1x"}

// ValidPhases lists all valid ENSO phases.
var ValidPhases = map[Phase]struct{}{
	ElNinoPhase:  {},
	NeutralPhase: {},
	LaNinaPhase:  {},
}

// ValidOutputModes is the membership set for --output validation.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSeasons lists all valid season filters for the pairwise tests.
var ValidSeasons = map[string]struct{}{
	"djf": {},
	"jja": {},
}
