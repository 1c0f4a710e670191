package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tephralab/plume/schema"
)

// TestCompositeByPhase composites three members with distinct anomaly
// levels, one per phase, and checks the fixed output order.
func TestCompositeByPhase(t *testing.T) {
	anom := newTestEnsemble(t, []int{1, 2, 3}, 48, func(mi, ti int) float64 {
		return 10 * float64(mi+1)
	})
	phases := []schema.Phase{schema.LaNinaPhase, schema.NeutralPhase, schema.ElNinoPhase}

	set, err := CompositeByPhase(anom, phases, 12, 24, "January_1x")
	require.NoError(t, err)

	assert.Equal(t, "January_1x", set.Scenario)

	// Output order is fixed regardless of member order
	assert.Equal(t, []schema.Phase{schema.ElNinoPhase, schema.NeutralPhase, schema.LaNinaPhase}, set.Phases)
	assert.Equal(t, 1, set.Counts[schema.ElNinoPhase])
	assert.Equal(t, 1, set.Counts[schema.NeutralPhase])
	assert.Equal(t, 1, set.Counts[schema.LaNinaPhase])

	// Member 3 is the El Nino member, member 1 the La Nina member
	elNino := set.Fields[schema.ElNinoPhase]
	assert.False(t, elNino.HasMembers())
	assert.Equal(t, 24, elNino.NumTimes())
	assert.InDelta(t, 30.0, elNino.Value(0, 0, 0, 0), 1e-12)
	assert.InDelta(t, 10.0, set.Fields[schema.LaNinaPhase].Value(0, 23, 6, 5), 1e-12)
}

// TestCompositeByPhaseAveragesMembers puts two members in one phase and
// checks the unweighted mean.
func TestCompositeByPhaseAveragesMembers(t *testing.T) {
	anom := newTestEnsemble(t, []int{1, 2, 3}, 48, func(mi, ti int) float64 {
		return 10 * float64(mi+1)
	})
	phases := []schema.Phase{schema.NeutralPhase, schema.NeutralPhase, schema.ElNinoPhase}

	set, err := CompositeByPhase(anom, phases, 12, 24, "April_1x")
	require.NoError(t, err)

	// La Nina has no members and is omitted entirely
	assert.Equal(t, []schema.Phase{schema.ElNinoPhase, schema.NeutralPhase}, set.Phases)
	assert.Equal(t, 2, set.Counts[schema.NeutralPhase])
	_, present := set.Fields[schema.LaNinaPhase]
	assert.False(t, present, "Empty phases should be omitted")

	// Neutral composite averages members 1 and 2
	assert.InDelta(t, 15.0, set.Fields[schema.NeutralPhase].Value(0, 0, 3, 4), 1e-12)
}

// TestCompositeByPhaseErrors covers label mismatches and bad windows.
func TestCompositeByPhaseErrors(t *testing.T) {
	control := newControlField(t, 48, func(ti int) float64 { return 0 })
	_, err := CompositeByPhase(control, nil, 12, 24, "January_1x")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "member dimension")

	anom := newTestEnsemble(t, []int{1, 2}, 48, func(mi, ti int) float64 { return 0 })

	_, err = CompositeByPhase(anom, []schema.Phase{schema.NeutralPhase}, 12, 24, "January_1x")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "phase labels")

	labels := []schema.Phase{schema.NeutralPhase, schema.NeutralPhase}
	_, err = CompositeByPhase(anom, labels, 40, 24, "January_1x")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "post-eruption window")
}
