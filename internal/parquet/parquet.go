// Package parquet exports plume run tracking data to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/tephralab/plume/schema"
)

// Run mirrors one row of the plume_runs table. Column names and types come
// from the parquet struct tags; all columns are snappy-compressed.
type Run struct {
	RunID int64 `parquet:"run_id,snappy"`

	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime stays nil while a run is in flight.
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalScenarios counts the onset scenarios analyzed in this run.
	TotalScenarios int32 `parquet:"total_scenarios,snappy"`

	// ConfigParams holds the JSON-encoded analysis configuration.
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RunComposite mirrors one row of the plume_run_composites table: the
// headline numbers of a single phase composite within a run.
type RunComposite struct {
	RunID int64 `parquet:"run_id,snappy"`

	// Scenario is the eruption onset scenario, e.g. January_1x.
	Scenario string `parquet:"scenario,snappy"`

	// Phase is the ENSO phase this composite conditions on.
	Phase string `parquet:"phase,snappy"`

	RecordTime time.Time `parquet:"record_time,snappy"`

	MemberCount int32 `parquet:"member_count,snappy"`

	// MeanAnomaly is the global mean anomaly averaged over the
	// post-eruption window.
	MeanAnomaly float64 `parquet:"mean_anomaly,snappy"`

	// PeakAnomaly is the largest-magnitude global mean anomaly, sign
	// preserved.
	PeakAnomaly float64 `parquet:"peak_anomaly,snappy"`

	// Nino34Mean is the Nino 3.4 anomaly averaged over the post-eruption
	// window.
	Nino34Mean float64 `parquet:"nino34_mean,snappy"`
}

// WriteRunsParquet writes run rows to a Parquet file at outputPath, with
// the schema inferred from the Run struct tags.
func WriteRunsParquet(data []Run, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[Run](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteCompositesParquet writes composite rows to a Parquet file at
// outputPath, with the schema inferred from the RunComposite struct tags.
func WriteCompositesParquet(data []RunComposite, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[RunComposite](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// MockFetchRuns generates sample Run data for demonstration.
func MockFetchRuns() []Run {
	now := time.Now()
	startTime1 := now.Add(-2 * time.Hour)
	endTime1 := now.Add(-1*time.Hour - 30*time.Minute)
	durationMs1 := int32(endTime1.Sub(startTime1).Milliseconds())
	configParams1 := `{"variable":"TS","members":10,"pre_months":12,"post_months":24}`

	startTime2 := now.Add(-24 * time.Hour)
	endTime2 := now.Add(-23 * time.Hour)
	durationMs2 := int32(endTime2.Sub(startTime2).Milliseconds())
	configParams2 := `{"variable":"PRECT","members":5,"pre_months":12,"post_months":36}`

	// The third run is still in flight, so its nullable columns stay nil.
	startTime3 := now.Add(-10 * time.Minute)

	return []Run{
		{
			RunID:          1,
			StartTime:      startTime1,
			EndTime:        &endTime1,
			RunDurationMs:  &durationMs1,
			TotalScenarios: 4,
			ConfigParams:   &configParams1,
		},
		{
			RunID:          2,
			StartTime:      startTime2,
			EndTime:        &endTime2,
			RunDurationMs:  &durationMs2,
			TotalScenarios: 2,
			ConfigParams:   &configParams2,
		},
		{
			RunID:          3,
			StartTime:      startTime3,
			TotalScenarios: 0,
		},
	}
}

// MockFetchRunComposites generates sample RunComposite data for demonstration.
func MockFetchRunComposites() []RunComposite {
	now := time.Now()

	return []RunComposite{
		{
			RunID:       1,
			Scenario:    "January_1x",
			Phase:       string(schema.ElNinoPhase),
			RecordTime:  now.Add(-1 * time.Hour),
			MemberCount: 3,
			MeanAnomaly: -0.42,
			PeakAnomaly: -1.18,
			Nino34Mean:  0.65,
		},
		{
			RunID:       1,
			Scenario:    "January_1x",
			Phase:       string(schema.NeutralPhase),
			RecordTime:  now.Add(-1 * time.Hour),
			MemberCount: 5,
			MeanAnomaly: -0.37,
			PeakAnomaly: -0.95,
			Nino34Mean:  0.08,
		},
		{
			RunID:       2,
			Scenario:    "July_1x",
			Phase:       string(schema.LaNinaPhase),
			RecordTime:  now.Add(-23 * time.Hour),
			MemberCount: 2,
			MeanAnomaly: -0.29,
			PeakAnomaly: -0.71,
			Nino34Mean:  -0.83,
		},
	}
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:          record.RunID,
			StartTime:      record.StartTime,
			EndTime:        record.EndTime,
			RunDurationMs:  record.RunDurationMs,
			TotalScenarios: record.TotalScenarios,
			ConfigParams:   record.ConfigParams,
		}
	}
	return result
}

// ConvertCompositeRecords converts schema.CompositeRecord to RunComposite for Parquet export.
func ConvertCompositeRecords(records []schema.CompositeRecord) []RunComposite {
	result := make([]RunComposite, len(records))
	for i, record := range records {
		result[i] = RunComposite{
			RunID:       record.RunID,
			Scenario:    record.Scenario,
			Phase:       record.Phase,
			RecordTime:  record.RecordTime,
			MemberCount: record.MemberCount,
			MeanAnomaly: record.MeanAnomaly,
			PeakAnomaly: record.PeakAnomaly,
			Nino34Mean:  record.Nino34Mean,
		}
	}
	return result
}
