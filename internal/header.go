// Package internal has helpers that are only useful within the plume runtime.
package internal

import (
	"fmt"
	"path/filepath"

	"github.com/tephralab/plume/internal/contract"
)

// LogAnalysisHeader prints a concise, 2-line header for each analysis mode.
func LogAnalysisHeader(cfg *contract.Config, mode string) {
	baseName := filepath.Base(cfg.BasePath)
	if baseName == "" || baseName == "." {
		baseName = "current"
	}

	if cfg.UseEmojis {
		// Line 1: The analysis summary (Base and Mode)
		fmt.Printf("🌋 Base: %s (Mode: %s, Variable: %s)\n", baseName, mode, cfg.Variable)
		// Line 2: The analysis window around the eruption index
		fmt.Printf("📅 Window: %d months pre, %d months post (eruption index %d)\n",
			cfg.PreMonths, cfg.PostMonths, cfg.EruptionIndex)
	} else {
		fmt.Printf("Base: %s (Mode: %s, Variable: %s)\n", baseName, mode, cfg.Variable)
		fmt.Printf("Window: %d months pre, %d months post (eruption index %d)\n",
			cfg.PreMonths, cfg.PostMonths, cfg.EruptionIndex)
	}
}
