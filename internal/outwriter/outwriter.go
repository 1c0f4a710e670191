// Package outwriter renders analysis results as text tables, JSON and CSV.
package outwriter

import (
	"os"

	"golang.org/x/term"

	"github.com/tephralab/plume/internal/contract"
	"github.com/tephralab/plume/schema"
)

// getMaxTableLabelWidth derives the room left for scenario labels, pair
// labels and file paths after the fixed table columns claim their share
// of the terminal.
func getMaxTableLabelWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		w, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || w <= 0 {
			w = 80 // CI pipes and dumb terminals report no size
		}
		termWidth = w
	}

	// The pairwise test table is the widest one: its numeric and
	// significance columns take 62 characters before the label starts.
	available := termWidth - 62
	switch {
	case available < 12:
		return 12
	case available > 48:
		return 48
	default:
		return available
	}
}

// formatPhase renders a phase name for table output, colored when enabled.
func formatPhase(phase schema.Phase, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorPhase(phase)
	}
	return string(phase)
}

// formatLabel renders a significance label for table output, colored when enabled.
func formatLabel(pValue float64, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(pValue)
	}
	return contract.GetPlainLabel(pValue)
}
