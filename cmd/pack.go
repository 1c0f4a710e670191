package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tephralab/plume/core"
	"github.com/tephralab/plume/internal/contract"
)

// packCmd stacks per-member files into ensemble files.
var packCmd = &cobra.Command{
	Use:   "pack [base-path]",
	Short: "Stack per-member files into one ensemble NetCDF per scenario.",
	Long: `Concatenate the per-member output files of each onset scenario along a
new member dimension and write the result as a single ensemble file.

Model output usually arrives as one file per member. Packing them once up
front makes repeated analyses cheaper and gives downstream tools a single
file per scenario to read.

The packed file is written next to the member files, named after the
variable and scenario. Use --suffix to override the name for a single
scenario.

Examples:
  # Pack all default onsets
  plume pack /data/ensembles

  # Pack one onset with a custom filename suffix
  plume pack --onsets January_1x --suffix _jan_stack

  # Pack a subset of members
  plume pack --members 1-5 --variable TS`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePack(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot pack ensembles", err)
		}
	},
}
