package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tephralab/plume/internal/contract"
)

// writeWithFile resolves the output destination, runs the writer against it
// and reports where the result went. Stdout is passed through unclosed.
func writeWithFile(cfg *contract.Config, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(cfg.OutputFile)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		if cfg.UseEmojis {
			fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, cfg.OutputFile)
		} else {
			fmt.Fprintf(os.Stderr, "%s to %s\n", successMsg, cfg.OutputFile)
		}
	}
	return nil
}

// writeJSON indents uniformly so piped and saved output look the same.
func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader emits the header row, hands the writer to the row
// callback and flushes on the way out.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	return writeRows(cw)
}

// floatFormatter returns a closure rendering floats at the configured
// precision, shared by every table and CSV writer.
func floatFormatter(precision int) func(float64) string {
	return func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
}
