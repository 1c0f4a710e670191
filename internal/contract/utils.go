package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/tephralab/plume/schema"
)

// Significance label constants.
const (
	StrongValue      = "Strong"      // Strong significance
	SignificantValue = "Significant" // Standard significance
	MarginalValue    = "Marginal"    // Marginal significance
	NoneValue        = "None"        // No significance
)

// Table colors. Significance levels shade from bold red down to plain
// cyan; ENSO phases follow the warm-red cool-cyan convention.
var (
	StrongColor      = color.New(color.FgRed, color.Bold)
	SignificantColor = color.New(color.FgMagenta, color.Bold)
	MarginalColor    = color.New(color.FgYellow)
	NoSignalColor    = color.New(color.FgCyan)

	ElNinoColor  = color.New(color.FgRed, color.Bold)
	NeutralColor = color.New(color.FgYellow)
	LaNinaColor  = color.New(color.FgCyan, color.Bold)
)

// GetPlainLabel returns a plain text label indicating the significance level
// of a two-tailed p-value. This is the core logic used for CSV, JSON, and
// table printing.
func GetPlainLabel(pValue float64) string {
	switch {
	case pValue < 0.01:
		return StrongValue
	case pValue < 0.05:
		return SignificantValue
	case pValue < 0.10:
		return MarginalValue
	default:
		return NoneValue
	}
}

// GetColorLabel colors the plain significance label for table output.
func GetColorLabel(pValue float64) string {
	text := GetPlainLabel(pValue)

	switch text {
	case StrongValue:
		return StrongColor.Sprint(text)
	case SignificantValue:
		return SignificantColor.Sprint(text)
	case MarginalValue:
		return MarginalColor.Sprint(text)
	default: // "None"
		return NoSignalColor.Sprint(text)
	}
}

// GetColorPhase returns a colored phase name for console output (table).
func GetColorPhase(phase schema.Phase) string {
	switch phase {
	case schema.ElNinoPhase:
		return ElNinoColor.Sprint(string(phase))
	case schema.LaNinaPhase:
		return LaNinaColor.Sprint(string(phase))
	default:
		return NeutralColor.Sprint(string(phase))
	}
}

// SelectOutputFile opens the destination file, or hands back os.Stdout
// when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal prints the error to stderr and exits with status 1.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn prints a non-fatal error to stderr and carries on.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".plume_cache.db"
	}
	return filepath.Join(homeDir, ".plume_cache.db")
}

// GetRunDBFilePath returns the path to the SQLite DB file for run storage.
func GetRunDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".plume_runs.db"
	}
	return filepath.Join(homeDir, ".plume_runs.db")
}

// TruncatePath shortens a path to maxWidth runes, keeping the tail behind
// an ellipsis. Widths of 3 or less leave the path untouched.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString maps yes/no style flag values onto bool, taking
// yes, no, true, false, 1 and 0 in any case.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
