package ncdf

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"

	"github.com/tephralab/plume/grid"
)

// WriteField writes one field to a fresh NetCDF file. Member-less fields
// come out as [time, lat, lon], ensembles gain a leading member dimension.
// Time steps are stored as months since year 0 on the noleap calendar.
func WriteField(field *grid.Field, variable, path string) error {
	dims := []string{"time", "lat", "lon"}
	lengths := []int{field.NumTimes(), field.NumLats(), field.NumLons()}
	if field.HasMembers() {
		dims = append([]string{"member"}, dims...)
		lengths = append([]int{field.NumMembers()}, lengths...)
	}

	h := cdf.NewHeader(dims, lengths)
	h.AddAttribute("", "comment", "plume ensemble climate data file")

	if field.HasMembers() {
		h.AddVariable("member", []string{"member"}, []int32{0})
	}
	h.AddVariable("time", []string{"time"}, []int32{0})
	h.AddAttribute("time", "units", "months since 0000-01")
	h.AddAttribute("time", "calendar", "noleap")
	h.AddVariable("lat", []string{"lat"}, []float64{0})
	h.AddAttribute("lat", "units", "degrees_north")
	h.AddVariable("lon", []string{"lon"}, []float64{0})
	h.AddAttribute("lon", "units", "degrees_east")
	h.AddVariable(variable, dims, []float64{0})
	h.Define()

	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()

	ff, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if field.HasMembers() {
		ids := make([]int32, len(field.Members))
		for i, id := range field.Members {
			ids[i] = int32(id)
		}
		if err := writeAll(ff, "member", ids); err != nil {
			return err
		}
	}
	steps := make([]int32, field.NumTimes())
	for i, m := range field.Times {
		steps[i] = int32(m.Index())
	}
	if err := writeAll(ff, "time", steps); err != nil {
		return err
	}
	if err := writeAll(ff, "lat", field.Lats); err != nil {
		return err
	}
	if err := writeAll(ff, "lon", field.Lons); err != nil {
		return err
	}
	if err := writeAll(ff, variable, field.Data.Elements); err != nil {
		return err
	}
	return cdf.UpdateNumRecs(w)
}

// writeAll writes a complete variable in one call.
func writeAll(ff *cdf.File, name string, data any) error {
	end := ff.Header.Lengths(name)
	start := make([]int, len(end))
	w := ff.Writer(name, start, end)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write variable %s: %w", name, err)
	}
	return nil
}
