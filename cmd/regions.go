package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tephralab/plume/core"
	"github.com/tephralab/plume/internal/contract"
)

// regionsCmd displays the fixed ENSO index regions.
var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Display the ENSO index regions used by the analysis",
	Long: `Show the latitude and longitude bounds of the Nino index regions.

No model output is read - this is purely informational.

Use this to:
- Check which box the classification and tests average over
- Cross-reference region bounds against your model grid
- Document the region definitions in reports

Examples:
  # Show all region definitions
  plume regions

  # Export regions as JSON
  plume regions --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRegions(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot display regions", err)
		}
	},
}
