// Package schema has configs, models and global variables for all parts of plume.
package schema

import "github.com/tephralab/plume/grid"

// CompositeSet holds phase-conditioned composite anomaly fields for one
// eruption scenario. Phases that no ensemble member fell into are omitted.
type CompositeSet struct {
	Scenario string                `json:"scenario"`
	Phases   []Phase               `json:"phases"` // phases present, in AllPhases order
	Counts   map[Phase]int         `json:"counts"` // ensemble members per phase
	Fields   map[Phase]*grid.Field `json:"-"`      // member-less composite anomaly fields
}

// AnalysisResult holds the composite sets for every analyzed scenario.
type AnalysisResult struct {
	Variable  string                   `json:"variable"`
	Scenarios []string                 `json:"scenarios"` // scenario names in input order
	Sets      map[string]*CompositeSet `json:"sets"`
}
