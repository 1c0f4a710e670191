package schema

// MemberPhase records the ENSO classification of one ensemble member.
type MemberPhase struct {
	Member int     `json:"member"` // ensemble member ID
	Mean   float64 `json:"mean"`   // Nino 3.4 mean over the pre-eruption window
	Std    float64 `json:"std"`    // population standard deviation over the same window
	Phase  Phase   `json:"phase"`
}

// PhaseSummary holds per-member classifications for one scenario.
type PhaseSummary struct {
	Scenario string        `json:"scenario"`
	Members  []MemberPhase `json:"members"`
	Counts   map[Phase]int `json:"counts"`
}

// PhaseResult holds phase summaries for every analyzed scenario.
type PhaseResult struct {
	Threshold float64                  `json:"threshold"`  // classification threshold in standard deviations
	PreMonths int                      `json:"pre_months"` // length of the pre-eruption window
	Scenarios []string                 `json:"scenarios"`
	Summaries map[string]*PhaseSummary `json:"summaries"`
}
