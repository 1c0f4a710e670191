// Package main provides a comprehensive performance benchmarking tool for the
// Plume CLI. It measures the execution time of the analysis commands across
// ensembles of different sizes, with and without result caching.
//
// Prerequisites:
//   - plume binary installed and available in PATH
//   - write access to the chosen ensemble directory
//
// Usage: go run benchmark/main.go [data-base-dir]
package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/tephralab/plume/grid"
	"github.com/tephralab/plume/internal/ncdf"
)

// BenchmarkResult captures a single timed invocation of the plume binary.
type BenchmarkResult struct {
	Dataset   string
	Command   string
	Backend   string
	Phase     string // "cold" or "warm"
	Duration  time.Duration
	Success   bool
	RunNumber int
}

// EnsembleSpec describes a synthetic ensemble used for benchmarking.
type EnsembleSpec struct {
	Name    string
	Lats    int
	Lons    int
	Members int
	Months  int
}

// BenchmarkConfig drives the benchmark matrix.
type BenchmarkConfig struct {
	Ensembles   []EnsembleSpec
	Commands    []string
	Scenarios   []string
	NoCacheRuns int
	CacheRuns   int
	Timeout     time.Duration
}

func main() {
	baseDir := filepath.Join(os.TempDir(), "plume-bench")
	if len(os.Args) > 1 {
		baseDir = os.Args[1]
	}

	config := BenchmarkConfig{
		Ensembles: []EnsembleSpec{
			{Name: "coarse", Lats: 9, Lons: 16, Members: 10, Months: 48},
			{Name: "medium", Lats: 33, Lons: 64, Members: 10, Months: 48},
			{Name: "fine", Lats: 65, Lons: 128, Members: 20, Months: 48},
		},
		Commands:    []string{"composite", "phases", "ttest"},
		Scenarios:   []string{"January_1x", "July_1x"},
		NoCacheRuns: 3,
		CacheRuns:   4,
		Timeout:     5 * time.Minute,
	}

	fmt.Println("Plume CLI Benchmark Suite")
	fmt.Println("=========================")
	fmt.Printf("Data directory: %s\n", baseDir)
	fmt.Printf("Ensembles: %d, Commands: %v\n\n", len(config.Ensembles), config.Commands)

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	if err := setupEnsembles(baseDir, config); err != nil {
		fmt.Printf("Ensemble generation failed: %v\n", err)
		os.Exit(1)
	}

	// Start every backend phase from a cold cache.
	fmt.Println("Clearing existing cache...")
	if err := exec.Command("plume", "cache", "clear").Run(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\n", err)
	}

	results := runBenchmarks(baseDir, config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
	}

	printSummary(results, config)
}

// checkPrerequisites verifies the plume binary is reachable before any timing
// starts, so a missing install fails fast instead of polluting the results.
func checkPrerequisites() error {
	if _, err := exec.LookPath("plume"); err != nil {
		return fmt.Errorf("plume binary not found in PATH: %w", err)
	}
	return nil
}

// setupEnsembles generates the synthetic NetCDF ensembles that do not exist
// yet. Generation is deterministic, so repeated benchmark runs against the
// same base directory reuse identical data.
func setupEnsembles(baseDir string, config BenchmarkConfig) error {
	for _, spec := range config.Ensembles {
		ensembleDir := filepath.Join(baseDir, spec.Name)
		if _, err := os.Stat(ensembleDir); err == nil {
			fmt.Printf("Reusing existing ensemble: %s\n", spec.Name)
			continue
		}
		fmt.Printf("Generating ensemble %s (%dx%d grid, %d members, %d months)...\n",
			spec.Name, spec.Lats, spec.Lons, spec.Members, spec.Months)
		for _, scenario := range config.Scenarios {
			if err := writeScenario(ensembleDir, scenario, spec); err != nil {
				return fmt.Errorf("scenario %s: %w", scenario, err)
			}
		}
	}
	fmt.Println()
	return nil
}

// writeScenario writes one member file per ensemble member under the scenario
// directory, following the layout the loader expects.
func writeScenario(ensembleDir, scenario string, spec EnsembleSpec) error {
	dir := filepath.Join(ensembleDir, scenario)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	// Odd latitude counts keep a grid row on the equator so the Nino boxes
	// are never empty.
	lats := make([]float64, spec.Lats)
	for i := range lats {
		lats[i] = -90 + 180*float64(i)/float64(spec.Lats-1)
	}
	lons := make([]float64, spec.Lons)
	for i := range lons {
		lons[i] = 360 * float64(i) / float64(spec.Lons)
	}
	times := grid.MonthsFrom(1, time.January, spec.Months)

	for member := 1; member <= spec.Members; member++ {
		field, err := grid.NewField(nil, times, lats, lons)
		if err != nil {
			return err
		}
		for ti := range times {
			seasonal := math.Sin(2*math.Pi*float64(ti)/12 + float64(member))
			for yi, lat := range lats {
				banded := 0.5 * math.Cos(lat*math.Pi/180)
				for xi := range lons {
					field.SetValue(seasonal+banded, 0, ti, yi, xi)
				}
			}
		}
		path := filepath.Join(dir, fmt.Sprintf("TS_m%02d.nc", member))
		if err := ncdf.WriteField(field, "TS", path); err != nil {
			return fmt.Errorf("member %02d: %w", member, err)
		}
	}
	return nil
}

// runBenchmarks executes the full matrix of ensembles x commands x backends.
func runBenchmarks(baseDir string, config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	for _, spec := range config.Ensembles {
		ensembleDir := filepath.Join(baseDir, spec.Name)
		fmt.Printf("Benchmarking ensemble: %s\n", spec.Name)

		for _, command := range config.Commands {
			fmt.Printf("  Command: %s\n", command)
			results = append(results, runBenchmarkSuite(ensembleDir, spec, command, config)...)
		}
		fmt.Println()
	}

	return results
}

// runBenchmarkSuite runs one command against one ensemble, first without
// caching and then with the SQLite cache so cold and warm timings can be
// compared.
func runBenchmarkSuite(ensembleDir string, spec EnsembleSpec, command string, config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	runPhase := func(backend string, runs int) {
		for i := 1; i <= runs; i++ {
			phase := "warm"
			if i == 1 {
				phase = "cold"
			}

			duration, success := runBenchmark(ensembleDir, spec, command, backend, config.Timeout)
			results = append(results, BenchmarkResult{
				Dataset:   spec.Name,
				Command:   command,
				Backend:   backend,
				Phase:     phase,
				Duration:  duration,
				Success:   success,
				RunNumber: i,
			})

			status := "OK"
			if !success {
				status = "FAIL"
			}
			fmt.Printf("    %s/%s run %d: %v [%s]\n", backend, phase, i, duration.Round(time.Millisecond), status)
		}
	}

	runPhase("none", config.NoCacheRuns)
	runPhase("sqlite", config.CacheRuns)

	return results
}

// runBenchmark executes one timed plume invocation with a hard timeout.
func runBenchmark(ensembleDir string, spec EnsembleSpec, command, backend string, timeout time.Duration) (time.Duration, bool) {
	args := []string{
		command,
		ensembleDir,
		"--onsets", "January_1x,July_1x",
		"--members", fmt.Sprintf("1-%d", spec.Members),
		"--cache-backend", backend,
		"--emoji", "no",
		"--color", "no",
	}

	cmd := exec.Command("plume", args...)

	start := time.Now()
	done := make(chan error, 1)
	var output []byte

	go func() {
		var err error
		output, err = cmd.CombinedOutput()
		done <- err
	}()

	select {
	case err := <-done:
		duration := time.Since(start)
		success := err == nil && isSuccess(command, string(output))
		return duration, success
	case <-time.After(timeout):
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		return timeout, false
	}
}

// isSuccess sniffs the command output for the completion line each analysis
// prints, since a zero exit code alone does not prove the run finished.
func isSuccess(command, output string) bool {
	switch command {
	case "composite":
		return strings.Contains(output, "Analysis completed in")
	case "phases":
		return strings.Contains(output, "Phase classification completed in")
	case "ttest":
		return strings.Contains(output, "Pairwise testing completed in")
	default:
		return false
	}
}

// saveResults writes a timestamped CSV of every run to the temp directory.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("plume_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"dataset", "command", "backend", "phase", "run", "duration_ms", "success"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		record := []string{
			r.Dataset,
			r.Command,
			r.Backend,
			r.Phase,
			fmt.Sprintf("%d", r.RunNumber),
			fmt.Sprintf("%d", r.Duration.Milliseconds()),
			fmt.Sprintf("%t", r.Success),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	fmt.Printf("Results saved to: %s\n", filename)
	return nil
}

// printSummary aggregates the raw runs into per-command averages and reports
// the speedup of warm cached runs over the uncached baseline.
func printSummary(results []BenchmarkResult, config BenchmarkConfig) {
	fmt.Println("\nBenchmark Summary")
	fmt.Println("=================")

	for _, command := range config.Commands {
		fmt.Printf("\n%s:\n", command)

		for _, spec := range config.Ensembles {
			var noCacheTotal, coldTotal, warmTotal time.Duration
			var noCacheCount, coldCount, warmCount int

			for _, r := range results {
				if r.Command != command || r.Dataset != spec.Name || !r.Success {
					continue
				}
				switch {
				case r.Backend == "none":
					noCacheTotal += r.Duration
					noCacheCount++
				case r.Phase == "cold":
					coldTotal += r.Duration
					coldCount++
				default:
					warmTotal += r.Duration
					warmCount++
				}
			}

			if noCacheCount == 0 && coldCount == 0 && warmCount == 0 {
				fmt.Printf("  %-8s no successful runs\n", spec.Name)
				continue
			}

			line := fmt.Sprintf("  %-8s", spec.Name)
			if noCacheCount > 0 {
				line += fmt.Sprintf(" no-cache=%v", (noCacheTotal / time.Duration(noCacheCount)).Round(time.Millisecond))
			}
			if coldCount > 0 {
				line += fmt.Sprintf(" cold=%v", (coldTotal / time.Duration(coldCount)).Round(time.Millisecond))
			}
			if warmCount > 0 {
				warmAvg := warmTotal / time.Duration(warmCount)
				line += fmt.Sprintf(" warm=%v", warmAvg.Round(time.Millisecond))
				if noCacheCount > 0 && warmAvg > 0 {
					noCacheAvg := noCacheTotal / time.Duration(noCacheCount)
					line += fmt.Sprintf(" speedup=%.1fx", float64(noCacheAvg)/float64(warmAvg))
				}
			}
			fmt.Println(line)
		}
	}
}
