package schema

import "time"

// RunRecord represents a row from the plume_runs table.
type RunRecord struct {
	RunID          int64
	StartTime      time.Time
	EndTime        *time.Time
	RunDurationMs  *int32
	TotalScenarios int32
	ConfigParams   *string
}

// CompositeRecord represents a row from the plume_run_composites table.
// One row summarizes the composite field of a single scenario and phase.
type CompositeRecord struct {
	RunID       int64
	Scenario    string
	Phase       string
	RecordTime  time.Time
	MemberCount int32
	MeanAnomaly float64 // global mean anomaly averaged over the post-eruption window
	PeakAnomaly float64 // largest-magnitude global mean anomaly in the window
	Nino34Mean  float64 // Nino 3.4 anomaly averaged over the post-eruption window
}
