package iocache

import (
	"errors"
	"fmt"

	"github.com/tephralab/plume/internal/parquet"
)

// ExecuteRunExport dumps the run history and composite records into a pair
// of Parquet files named <outputFile>.runs.parquet and
// <outputFile>.composites.parquet.
func ExecuteRunExport(outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetRunStore()

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total composite records: %d\n", status.TableSizes[runCompositesTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	composites, err := store.GetAllComposites()
	if err != nil {
		return fmt.Errorf("failed to retrieve composite records: %w", err)
	}

	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetComposites := parquet.ConvertCompositeRecords(composites)

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	compositesFile := outputFile + ".composites.parquet"
	if err := parquet.WriteCompositesParquet(parquetComposites, compositesFile); err != nil {
		return fmt.Errorf("failed to write composite records: %w", err)
	}
	fmt.Printf("Exported %d composite records to: %s\n", len(parquetComposites), compositesFile)

	fmt.Println("\nExport complete. The files load directly into Spark, Pandas, DuckDB or any other Parquet reader.")

	return nil
}
