// Package contract holds the configuration types, validation and interfaces
// shared between the command layer, the analysis core and the stores.
package contract

import (
	"context"
	"time"

	"github.com/tephralab/plume/grid"
	"github.com/tephralab/plume/schema"
)

// EnsembleLoader defines the necessary operations for reading and writing
// ensemble model output. This allows the core analysis logic to be tested
// without real NetCDF files on disk.
type EnsembleLoader interface {
	// LoadEnsemble reads one variable for the given members of a scenario
	// and stacks them along a new leading member dimension.
	LoadEnsemble(ctx context.Context, scenario string, members []int, variable string) (*grid.Field, error)

	// LoadMembers reads each member file of a scenario as a member-less field.
	LoadMembers(ctx context.Context, scenario string, members []int, variable string) ([]*grid.Field, error)

	// LoadControl reads the member-less control climate for a variable from
	// an explicit file path.
	LoadControl(ctx context.Context, path string, variable string) (*grid.Field, error)

	// SaveEnsemble stacks per-member fields and writes them as one ensemble
	// file, returning the stacked field and the written path.
	SaveEnsemble(fields []*grid.Field, members []int, variable, suffix string) (*grid.Field, string, error)

	// EnsembleStamp fingerprints the files behind one ensemble so caches
	// can detect when model output changes.
	EnsembleStamp(scenario string, members []int, variable string) string
}

// CacheManager hands out the two persistence stores. The core depends on
// this rather than on concrete stores so tests can substitute mocks.
type CacheManager interface {
	GetEnsembleStore() CacheStore
	GetRunStore() RunStore
}

// CacheStore is a versioned, timestamped byte cache keyed by ensemble
// fingerprint.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RunStore defines the interface for tracking analysis runs and storing
// composite summaries.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalScenarios int) error

	// RecordComposite stores summary statistics for one scenario and phase composite
	RecordComposite(runID int64, record schema.CompositeRecord) error

	// GetAllRuns retrieves every recorded run, oldest first
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllComposites retrieves every recorded composite summary
	GetAllComposites() ([]schema.CompositeRecord, error)

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// Close releases the underlying connection
	Close() error
}
