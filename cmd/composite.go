package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tephralab/plume/core"
	"github.com/tephralab/plume/internal/contract"
)

// compositeCmd builds phase composites of post-eruption anomalies.
var compositeCmd = &cobra.Command{
	Use:   "composite [base-path]",
	Short: "Build ENSO phase composites of post-eruption anomalies.",
	Long: `Group ensemble members by their ENSO phase at eruption time and average
the post-eruption anomaly field within each group.

Each member is classified as El Nino, Neutral or La Nina from its Nino 3.4
index over the pre-eruption window. Members in the same phase are averaged
over the post-eruption window, giving one composite per phase. This isolates
how the eruption response depends on the ocean state it lands on.

Anomalies are computed against each member's own pre-eruption baseline, or
against a monthly climatology when --control points at a control run.

Examples:
  # Composite all default onset scenarios
  plume composite /data/ensembles

  # Single onset with a control-run climatology
  plume composite /data/ensembles --onsets January_1x --control /data/control.nc

  # Use a stricter phase threshold and longer response window
  plume composite --threshold 1.5 --post-months 36

  # Save each composite as NetCDF for plotting
  plume composite --save-dir composites/

  # Export the composite series to CSV
  plume composite --output csv --output-file composites.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteComposite(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run composite analysis", err)
		}
	},
}
