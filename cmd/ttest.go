package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tephralab/plume/core"
	"github.com/tephralab/plume/internal/contract"
)

// ttestCmd runs pairwise significance tests between onset scenarios.
var ttestCmd = &cobra.Command{
	Use:   "ttest [base-path]",
	Short: "Run pairwise Welch t-tests between onset scenarios.",
	Long: `Test whether two eruption onsets produce different climate responses.

For every pair of onset scenarios and every post-eruption month, the ensemble
members of one scenario are tested against the members of the other with a
two-sided Welch t-test. Two indices are tested per month: the global mean
anomaly and the Nino 3.4 anomaly.

Significance labels in the table:
  Strong      - p < 0.01
  Significant - p < 0.05
  Marginal    - p < 0.10

Examples:
  # Test all default onsets against each other
  plume ttest /data/ensembles

  # Compare two specific onsets
  plume ttest --onsets January_1x,July_1x

  # Restrict the test to boreal winter months
  plume ttest --season djf

  # Export per-month statistics to CSV
  plume ttest --output csv --output-file ttest.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTTest(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run pairwise tests", err)
		}
	},
}
