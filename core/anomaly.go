package core

import (
	"fmt"
	"time"

	"github.com/tephralab/plume/grid"
)

// MonthlyClimatology averages a control run into a per-calendar-month
// climatology. The control must be member-less and must cover every
// calendar month at least once.
func MonthlyClimatology(control *grid.Field) (*grid.Climatology, error) {
	if control.HasMembers() {
		return nil, fmt.Errorf("control run must not have a member dimension")
	}

	counts := make(map[time.Month]int, 12)
	for _, m := range control.Times {
		counts[m.Mon]++
	}
	for mon := time.January; mon <= time.December; mon++ {
		if counts[mon] == 0 {
			return nil, fmt.Errorf("control run has no %s time steps", mon)
		}
	}

	clim := grid.NewClimatology(control.Lats, control.Lons)
	for y := range control.Lats {
		for x := range control.Lons {
			var sums [12]float64
			for t, m := range control.Times {
				sums[int(m.Mon)-1] += control.Value(0, t, y, x)
			}
			for mon := time.January; mon <= time.December; mon++ {
				clim.SetValue(sums[int(mon)-1]/float64(counts[mon]), mon, y, x)
			}
		}
	}
	return clim, nil
}

// SubtractClimatology removes the matching calendar-month climatology
// from every time step of a field.
func SubtractClimatology(f *grid.Field, clim *grid.Climatology) (*grid.Field, error) {
	if len(f.Lats) != len(clim.Lats) || len(f.Lons) != len(clim.Lons) {
		return nil, fmt.Errorf("climatology grid %dx%d does not match field grid %dx%d",
			len(clim.Lats), len(clim.Lons), len(f.Lats), len(f.Lons))
	}
	for i, lat := range f.Lats {
		if clim.Lats[i] != lat {
			return nil, fmt.Errorf("climatology latitude %d differs from field", i)
		}
	}
	for i, lon := range f.Lons {
		if clim.Lons[i] != lon {
			return nil, fmt.Errorf("climatology longitude %d differs from field", i)
		}
	}

	out := f.Copy()
	for m := 0; m < f.NumMembers(); m++ {
		for t, mon := range f.Times {
			for y := range f.Lats {
				for x := range f.Lons {
					v := f.Value(m, t, y, x) - clim.Value(mon.Mon, y, x)
					out.SetValue(v, m, t, y, x)
				}
			}
		}
	}
	return out, nil
}

// BaselineAnomaly subtracts each member's own pre-eruption mean from
// every time step. The baseline window is [idx-pre, idx), so the
// eruption month itself never contaminates the reference state.
func BaselineAnomaly(f *grid.Field, idx, pre int) (*grid.Field, error) {
	lo := idx - pre
	if pre < 1 {
		return nil, fmt.Errorf("baseline window must cover at least one month, got %d", pre)
	}
	if lo < 0 || idx > f.NumTimes() {
		return nil, fmt.Errorf("baseline window [%d, %d) outside %d time steps", lo, idx, f.NumTimes())
	}

	out := f.Copy()
	for m := 0; m < f.NumMembers(); m++ {
		for y := range f.Lats {
			for x := range f.Lons {
				sum := 0.0
				for t := lo; t < idx; t++ {
					sum += f.Value(m, t, y, x)
				}
				base := sum / float64(pre)
				for t := 0; t < f.NumTimes(); t++ {
					out.SetValue(f.Value(m, t, y, x)-base, m, t, y, x)
				}
			}
		}
	}
	return out, nil
}
