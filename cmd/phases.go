package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tephralab/plume/core"
	"github.com/tephralab/plume/internal/contract"
)

// phasesCmd classifies ensemble members by ENSO phase.
var phasesCmd = &cobra.Command{
	Use:   "phases [base-path]",
	Short: "Classify each ensemble member by ENSO phase at eruption time.",
	Long: `Show the ENSO phase of every ensemble member in every onset scenario.

For each member the Nino 3.4 index is averaged over the pre-eruption window
and compared against the member's own variability. A member whose mean
exceeds the threshold in standard deviations is El Nino, one below the
negative threshold is La Nina, and everything in between is Neutral.

Use this to:
- Inspect the phase spread of an ensemble before compositing
- Verify that each phase has enough members for a robust composite
- Tune the classification threshold for your model's variability

Examples:
  # Classify members of all default onsets
  plume phases /data/ensembles

  # Use a stricter threshold
  plume phases --threshold 1.5

  # Classify a subset of members for one onset
  plume phases --onsets July_1x --members 1-5

  # Export the classification to JSON
  plume phases --output json --output-file phases.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePhases(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run phase classification", err)
		}
	},
}
