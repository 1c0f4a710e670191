package core

import (
	"fmt"

	"github.com/tephralab/plume/grid"
	"github.com/tephralab/plume/schema"
)

// CompositeByPhase averages post-eruption anomalies [idx, idx+post) across
// the members of each ENSO phase. Phases with no members are omitted, so a
// composite set never carries empty fields.
func CompositeByPhase(anom *grid.Field, phases []schema.Phase, idx, post int, scenario string) (*schema.CompositeSet, error) {
	if !anom.HasMembers() {
		return nil, fmt.Errorf("compositing needs an ensemble with a member dimension")
	}
	if len(phases) != anom.NumMembers() {
		return nil, fmt.Errorf("got %d phase labels for %d members", len(phases), anom.NumMembers())
	}

	window, err := anom.TimeSlice(idx, idx+post)
	if err != nil {
		return nil, fmt.Errorf("post-eruption window: %w", err)
	}

	set := &schema.CompositeSet{
		Scenario: scenario,
		Counts:   make(map[schema.Phase]int, len(schema.AllPhases)),
		Fields:   make(map[schema.Phase]*grid.Field, len(schema.AllPhases)),
	}
	for _, phase := range schema.AllPhases {
		var rows []int
		for m, p := range phases {
			if p == phase {
				rows = append(rows, m)
			}
		}
		if len(rows) == 0 {
			continue
		}
		mean, err := window.MemberMean(rows)
		if err != nil {
			return nil, fmt.Errorf("%s composite: %w", phase, err)
		}
		set.Phases = append(set.Phases, phase)
		set.Counts[phase] = len(rows)
		set.Fields[phase] = mean
	}
	return set, nil
}
