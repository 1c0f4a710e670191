package grid

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// Field is a gridded variable with shape [member, time, lat, lon], or
// [time, lat, lon] when Members is nil.
type Field struct {
	Members []int     // ensemble member IDs, nil for member-less fields
	Times   []Month   // time coordinate, one entry per month
	Lats    []float64 // latitude coordinate in degrees north
	Lons    []float64 // longitude coordinate in degrees east
	Data    *sparse.DenseArray
}

// NewField allocates a zero-filled field with the given coordinates.
// Pass nil members for a member-less field.
func NewField(members []int, times []Month, lats, lons []float64) (*Field, error) {
	if len(times) == 0 || len(lats) == 0 || len(lons) == 0 {
		return nil, fmt.Errorf("field coordinates must be non-empty: %d times, %d lats, %d lons",
			len(times), len(lats), len(lons))
	}
	f := &Field{Members: members, Times: times, Lats: lats, Lons: lons}
	if members != nil {
		f.Data = sparse.ZerosDense(len(members), len(times), len(lats), len(lons))
	} else {
		f.Data = sparse.ZerosDense(len(times), len(lats), len(lons))
	}
	return f, nil
}

// HasMembers reports whether the field carries a member dimension.
func (f *Field) HasMembers() bool { return f.Members != nil }

// NumMembers returns the member count, or 1 for member-less fields.
func (f *Field) NumMembers() int {
	if f.Members == nil {
		return 1
	}
	return len(f.Members)
}

// NumTimes returns the length of the time axis.
func (f *Field) NumTimes() int { return len(f.Times) }

// NumLats returns the length of the latitude axis.
func (f *Field) NumLats() int { return len(f.Lats) }

// NumLons returns the length of the longitude axis.
func (f *Field) NumLons() int { return len(f.Lons) }

// Value reads one grid cell. The member index is ignored for member-less
// fields, so loops can treat both layouts uniformly.
func (f *Field) Value(m, t, y, x int) float64 {
	if f.Members == nil {
		return f.Data.Get(t, y, x)
	}
	return f.Data.Get(m, t, y, x)
}

// SetValue writes one grid cell, mirroring Value.
func (f *Field) SetValue(v float64, m, t, y, x int) {
	if f.Members == nil {
		f.Data.Set(v, t, y, x)
		return
	}
	f.Data.Set(v, m, t, y, x)
}

// Copy returns a deep copy of the field.
func (f *Field) Copy() *Field {
	out := &Field{
		Times: append([]Month(nil), f.Times...),
		Lats:  append([]float64(nil), f.Lats...),
		Lons:  append([]float64(nil), f.Lons...),
	}
	if f.Members != nil {
		out.Members = append([]int(nil), f.Members...)
	}
	out.Data = sparse.ZerosDense(f.Data.Shape...)
	copy(out.Data.Elements, f.Data.Elements)
	return out
}

// SelectBox returns the sub-field covering all grid cells whose coordinates
// fall inside the box. Both bounds are inclusive. Selecting an empty region
// is an error.
func (f *Field) SelectBox(box Box) (*Field, error) {
	var latIdx, lonIdx []int
	for i, lat := range f.Lats {
		if lat >= box.LatMin && lat <= box.LatMax {
			latIdx = append(latIdx, i)
		}
	}
	for i, lon := range f.Lons {
		if lon >= box.LonMin && lon <= box.LonMax {
			lonIdx = append(lonIdx, i)
		}
	}
	if len(latIdx) == 0 || len(lonIdx) == 0 {
		return nil, fmt.Errorf("no grid cells inside %s", box)
	}
	lats := make([]float64, len(latIdx))
	for i, y := range latIdx {
		lats[i] = f.Lats[y]
	}
	lons := make([]float64, len(lonIdx))
	for i, x := range lonIdx {
		lons[i] = f.Lons[x]
	}
	out, err := NewField(f.Members, f.Times, lats, lons)
	if err != nil {
		return nil, err
	}
	for m := 0; m < f.NumMembers(); m++ {
		for t := range f.Times {
			for i, y := range latIdx {
				for j, x := range lonIdx {
					out.SetValue(f.Value(m, t, y, x), m, t, i, j)
				}
			}
		}
	}
	return out, nil
}

// TimeSlice returns the field restricted to time steps [lo, hi).
func (f *Field) TimeSlice(lo, hi int) (*Field, error) {
	if lo < 0 || hi > len(f.Times) || lo >= hi {
		return nil, fmt.Errorf("time slice [%d, %d) out of range for %d time steps", lo, hi, len(f.Times))
	}
	out, err := NewField(f.Members, f.Times[lo:hi], f.Lats, f.Lons)
	if err != nil {
		return nil, err
	}
	for m := 0; m < f.NumMembers(); m++ {
		for t := lo; t < hi; t++ {
			for y := range f.Lats {
				for x := range f.Lons {
					out.SetValue(f.Value(m, t, y, x), m, t-lo, y, x)
				}
			}
		}
	}
	return out, nil
}

// MemberMean averages the given member rows into a member-less field.
// The mean is unweighted. Passing no rows is an error.
func (f *Field) MemberMean(rows []int) (*Field, error) {
	if !f.HasMembers() {
		return nil, fmt.Errorf("field has no member dimension")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("member mean over zero members")
	}
	for _, m := range rows {
		if m < 0 || m >= len(f.Members) {
			return nil, fmt.Errorf("member row %d out of range for %d members", m, len(f.Members))
		}
	}
	out, err := NewField(nil, f.Times, f.Lats, f.Lons)
	if err != nil {
		return nil, err
	}
	n := float64(len(rows))
	for t := range f.Times {
		for y := range f.Lats {
			for x := range f.Lons {
				sum := 0.0
				for _, m := range rows {
					sum += f.Value(m, t, y, x)
				}
				out.SetValue(sum/n, 0, t, y, x)
			}
		}
	}
	return out, nil
}

// ConcatMembers stacks member-less fields along a new leading member
// dimension. All fields must share identical time, latitude and longitude
// coordinates, and memberIDs must name one ID per field.
func ConcatMembers(fields []*Field, memberIDs []int) (*Field, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("concat over zero fields")
	}
	if len(memberIDs) != len(fields) {
		return nil, fmt.Errorf("got %d member IDs for %d fields", len(memberIDs), len(fields))
	}
	first := fields[0]
	for i, f := range fields {
		if f.HasMembers() {
			return nil, fmt.Errorf("field %d already has a member dimension", i)
		}
		if err := coordsEqual(first, f); err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
	}
	out, err := NewField(memberIDs, first.Times, first.Lats, first.Lons)
	if err != nil {
		return nil, err
	}
	for m, f := range fields {
		for t := range f.Times {
			for y := range f.Lats {
				for x := range f.Lons {
					out.SetValue(f.Value(0, t, y, x), m, t, y, x)
				}
			}
		}
	}
	return out, nil
}

func coordsEqual(a, b *Field) error {
	if len(a.Times) != len(b.Times) || len(a.Lats) != len(b.Lats) || len(a.Lons) != len(b.Lons) {
		return fmt.Errorf("coordinate lengths differ: [%d %d %d] vs [%d %d %d]",
			len(a.Times), len(a.Lats), len(a.Lons), len(b.Times), len(b.Lats), len(b.Lons))
	}
	for i := range a.Times {
		if a.Times[i] != b.Times[i] {
			return fmt.Errorf("time coordinates differ at step %d: %s vs %s", i, a.Times[i], b.Times[i])
		}
	}
	for i := range a.Lats {
		if a.Lats[i] != b.Lats[i] {
			return fmt.Errorf("latitude coordinates differ at index %d", i)
		}
	}
	for i := range a.Lons {
		if a.Lons[i] != b.Lons[i] {
			return fmt.Errorf("longitude coordinates differ at index %d", i)
		}
	}
	return nil
}
