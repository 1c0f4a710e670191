package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tephralab/plume/schema"
)

// TestClassifyMemberPhases classifies a three-member ensemble whose
// pre-eruption Nino 3.4 windows are warm, noisy-neutral and cold.
func TestClassifyMemberPhases(t *testing.T) {
	raw := newTestEnsemble(t, []int{1, 2, 3}, 24, func(mi, ti int) float64 {
		if ti >= 12 {
			return 0
		}
		base := []float64{1, 0, -1}[mi]
		amp := []float64{0.1, 1, 0.1}[mi]
		if ti%2 == 0 {
			return base + amp
		}
		return base - amp
	})

	members, err := ClassifyMemberPhases(raw, 12, 12, 1.0)
	require.NoError(t, err)
	require.Len(t, members, 3)

	assert.Equal(t, 1, members[0].Member)
	assert.Equal(t, schema.ElNinoPhase, members[0].Phase)
	assert.InDelta(t, 1.0, members[0].Mean, 1e-12)
	assert.InDelta(t, 0.1, members[0].Std, 1e-12)

	// Mean 0 with spread 1 sits inside the threshold band
	assert.Equal(t, 2, members[1].Member)
	assert.Equal(t, schema.NeutralPhase, members[1].Phase)
	assert.InDelta(t, 0.0, members[1].Mean, 1e-12)
	assert.InDelta(t, 1.0, members[1].Std, 1e-12)

	assert.Equal(t, 3, members[2].Member)
	assert.Equal(t, schema.LaNinaPhase, members[2].Phase)
	assert.InDelta(t, -1.0, members[2].Mean, 1e-12)
}

// TestClassifyMemberPhasesZeroVariance covers constant windows: zero
// spread means any nonzero mean crosses the threshold, so the sign of the
// mean decides the phase.
func TestClassifyMemberPhasesZeroVariance(t *testing.T) {
	raw := newTestEnsemble(t, []int{1, 2, 3}, 24, func(mi, ti int) float64 {
		return []float64{5, 0, -5}[mi]
	})

	members, err := ClassifyMemberPhases(raw, 12, 12, 1.0)
	require.NoError(t, err)

	assert.Equal(t, schema.ElNinoPhase, members[0].Phase)
	assert.Equal(t, schema.NeutralPhase, members[1].Phase)
	assert.Equal(t, schema.LaNinaPhase, members[2].Phase)
}

// TestClassifyMemberPhasesNaN verifies that a NaN anywhere in the window
// classifies the member as Neutral instead of failing the run.
func TestClassifyMemberPhasesNaN(t *testing.T) {
	raw := newTestEnsemble(t, []int{1}, 24, func(mi, ti int) float64 {
		if ti == 3 {
			return math.NaN()
		}
		return 2
	})

	members, err := ClassifyMemberPhases(raw, 12, 12, 1.0)
	require.NoError(t, err)
	require.Len(t, members, 1)

	assert.Equal(t, schema.NeutralPhase, members[0].Phase)
	assert.True(t, math.IsNaN(members[0].Mean))
}

// TestClassifyMemberPhasesErrors covers member-less fields and windows
// that fall off the record.
func TestClassifyMemberPhasesErrors(t *testing.T) {
	control := newControlField(t, 24, func(ti int) float64 { return 0 })
	_, err := ClassifyMemberPhases(control, 12, 12, 1.0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "member dimension")

	raw := newTestEnsemble(t, []int{1}, 24, func(mi, ti int) float64 { return 0 })
	_, err = ClassifyMemberPhases(raw, 6, 12, 1.0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pre-eruption window")
}

// TestPhaseHelpers covers the label and tally helpers.
func TestPhaseHelpers(t *testing.T) {
	members := []schema.MemberPhase{
		{Member: 1, Phase: schema.ElNinoPhase},
		{Member: 2, Phase: schema.NeutralPhase},
		{Member: 3, Phase: schema.NeutralPhase},
	}

	phases := PhasesOf(members)
	assert.Equal(t, []schema.Phase{schema.ElNinoPhase, schema.NeutralPhase, schema.NeutralPhase}, phases)

	counts := CountPhases(members)
	assert.Equal(t, 1, counts[schema.ElNinoPhase])
	assert.Equal(t, 2, counts[schema.NeutralPhase])
	_, present := counts[schema.LaNinaPhase]
	assert.False(t, present, "Absent phases should have no entry")
}
