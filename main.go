// main is the command-line entrypoint for the plume CLI.
package main

import (
	"github.com/tephralab/plume/cmd"
	"github.com/tephralab/plume/internal/contract"
	"github.com/tephralab/plume/internal/iocache"
)

func main() {
	// Wire the global persistence manager into the command layer before
	// any command runs.
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()

	// Flush profiles and close store connections even when the command
	// failed, since LogFatal below never returns.
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Could not stop profiling", perr)
	}
	iocache.CloseCaching()

	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
