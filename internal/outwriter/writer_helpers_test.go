package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tephralab/plume/internal/contract"
)

func TestFloatFormatter(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{
			name:      "default precision",
			precision: 2,
			value:     0.73251,
			expected:  "0.73",
		},
		{
			name:      "zero precision",
			precision: 0,
			value:     1.6,
			expected:  "2",
		},
		{
			name:      "high precision",
			precision: 4,
			value:     -0.00125,
			expected:  "-0.0013",
		},
		{
			name:      "negative anomaly",
			precision: 2,
			value:     -1.847,
			expected:  "-1.85",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat := floatFormatter(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
		})
	}
}

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		expected string
	}{
		{
			name: "simple object",
			data: map[string]any{
				"scenario": "January_1x",
				"members":  10,
			},
			expected: `{
  "members": 10,
  "scenario": "January_1x"
}
`,
		},
		{
			name: "array",
			data: []string{"El Nino", "Neutral", "La Nina"},
			expected: `[
  "El Nino",
  "Neutral",
  "La Nina"
]
`,
		},
		{
			name:     "bare string",
			data:     "TS",
			expected: `"TS"` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := writeJSON(&buf, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestWriteJSONError(t *testing.T) {
	// Channels cannot be marshaled, forcing the encoder error path
	var buf bytes.Buffer
	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		rows     [][]string
		expected string
	}{
		{
			name:   "phase rows",
			header: []string{"scenario", "member", "phase"},
			rows: [][]string{
				{"January_1x", "1", "El Nino"},
				{"January_1x", "2", "Neutral"},
			},
			expected: "scenario,member,phase\nJanuary_1x,1,El Nino\nJanuary_1x,2,Neutral\n",
		},
		{
			name:     "header only",
			header:   []string{"first", "second"},
			rows:     [][]string{},
			expected: "first,second\n",
		},
		{
			name:   "values with commas get quoted",
			header: []string{"name", "description"},
			rows: [][]string{
				{"Nino 3.4", "central Pacific, the classification box"},
			},
			expected: "name,description\nNino 3.4,\"central Pacific, the classification box\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := writeCSVWithHeader(&buf, tt.header, func(w *csv.Writer) error {
				for _, row := range tt.rows {
					if err := w.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestWriteCSVWithHeaderError(t *testing.T) {
	// Row writer errors must reach the caller untouched
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"col"}, func(w *csv.Writer) error {
		return assert.AnError
	})
	require.Error(t, err)
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFileStdout(t *testing.T) {
	// An empty OutputFile routes to stdout
	cfg := &contract.Config{}
	called := false
	err := writeWithFile(cfg, func(w io.Writer) error {
		called = true
		_, err := w.Write([]byte("table"))
		return err
	}, "Wrote table")

	require.NoError(t, err)
	assert.True(t, called, "Writer function should have been called")
}

func TestWriteWithFileActualFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "out.txt")
	cfg := &contract.Config{OutputFile: tmpFile}

	err := writeWithFile(cfg, func(w io.Writer) error {
		_, err := w.Write([]byte("analysis output"))
		return err
	}, "Wrote table")
	require.NoError(t, err)

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "analysis output", string(content))
}

func TestWriteWithFileError(t *testing.T) {
	cfg := &contract.Config{OutputFile: filepath.Join(t.TempDir(), "out.txt")}

	err := writeWithFile(cfg, func(w io.Writer) error {
		return assert.AnError
	}, "Wrote table")

	require.Error(t, err)
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFileInvalidPath(t *testing.T) {
	// A path in a missing directory fails at open, before the writer runs
	cfg := &contract.Config{OutputFile: "/nonexistent/path/file.txt"}
	err := writeWithFile(cfg, func(w io.Writer) error {
		return nil
	}, "Wrote table")

	require.Error(t, err)
}

func TestWriteJSONToFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "result.json")
	cfg := &contract.Config{OutputFile: tmpFile}

	payload := map[string]any{
		"variable": "TS",
		"members":  10,
	}

	err := writeWithFile(cfg, func(w io.Writer) error {
		return writeJSON(w, payload)
	}, "Wrote JSON")
	require.NoError(t, err)

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal(content, &result))
	assert.Equal(t, "TS", result["variable"])
	assert.Equal(t, float64(10), result["members"]) // JSON numbers are float64
}

func TestWriteCSVToFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "result.csv")
	cfg := &contract.Config{OutputFile: tmpFile}

	header := []string{"scenario", "members"}
	rows := [][]string{
		{"January_1x", "10"},
		{"July_1x", "8"},
	}

	err := writeWithFile(cfg, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, row := range rows {
				if err := csvWriter.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
	require.NoError(t, err)

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "scenario,members", lines[0])
	assert.Equal(t, "January_1x,10", lines[1])
	assert.Equal(t, "July_1x,8", lines[2])
}
