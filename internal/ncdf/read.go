package ncdf

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"

	"github.com/tephralab/plume/grid"
)

// ReadField reads one member-less field from a NetCDF file. The variable
// must be laid out as [time, lat, lon] alongside matching coordinate
// variables.
func ReadField(path, variable string) (*grid.Field, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ff, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	steps, _, err := readVariable(ff, "time")
	if err != nil {
		return nil, err
	}
	times := make([]grid.Month, len(steps))
	for i, v := range steps {
		times[i] = grid.MonthFromIndex(int(v))
	}
	lats, _, err := readVariable(ff, "lat")
	if err != nil {
		return nil, err
	}
	lons, _, err := readVariable(ff, "lon")
	if err != nil {
		return nil, err
	}

	values, shape, err := readVariable(ff, variable)
	if err != nil {
		return nil, err
	}
	if len(shape) != 3 || shape[0] != len(times) || shape[1] != len(lats) || shape[2] != len(lons) {
		return nil, fmt.Errorf("variable %s has shape %v, want [%d %d %d]",
			variable, shape, len(times), len(lats), len(lons))
	}

	field, err := grid.NewField(nil, times, lats, lons)
	if err != nil {
		return nil, err
	}
	copy(field.Data.Elements, values)
	return field, nil
}

// readVariable reads an entire variable into a flat float64 slice plus its
// shape. Model output mixes float32, float64 and int32 variables.
func readVariable(ff *cdf.File, name string) ([]float64, []int, error) {
	dims := ff.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, nil, fmt.Errorf("variable %s not in file", name)
	}
	n := 1
	for _, d := range dims {
		n *= d
	}

	r := ff.Reader(name, nil, nil)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, nil, fmt.Errorf("read variable %s: %w", name, err)
	}

	out := make([]float64, n)
	switch vals := buf.(type) {
	case []float32:
		for i, v := range vals {
			out[i] = float64(v)
		}
	case []float64:
		copy(out, vals)
	case []int32:
		for i, v := range vals {
			out[i] = float64(v)
		}
	default:
		return nil, nil, fmt.Errorf("variable %s has unsupported type %T", name, buf)
	}
	return out, dims, nil
}
