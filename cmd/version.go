package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd prints the build identity baked in by goreleaser.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of plume.",
	Long: `Display the release version, git commit, build timestamp and Go
runtime of this binary.

Include this output when reporting bugs so results can be matched to
the exact build that produced them.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("plume CLI\n")
		cmd.Printf("  Version: %s\n", version)
		cmd.Printf("  Commit:  %s\n", commit)
		cmd.Printf("  Built:   %s\n", date)
		cmd.Printf("  Runtime: %s\n", runtime.Version())
	},
}
