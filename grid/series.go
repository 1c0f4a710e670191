package grid

import (
	"fmt"
	"time"

	"github.com/ctessum/sparse"
)

// Series is a time series with shape [member, time], or [time] when
// Members is nil. It is what spatial reductions of a Field produce.
type Series struct {
	Members []int
	Times   []Month
	Data    *sparse.DenseArray
}

// NewSeries allocates a zero-filled series with the given coordinates.
func NewSeries(members []int, times []Month) (*Series, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("series time coordinate must be non-empty")
	}
	s := &Series{Members: members, Times: times}
	if members != nil {
		s.Data = sparse.ZerosDense(len(members), len(times))
	} else {
		s.Data = sparse.ZerosDense(len(times))
	}
	return s, nil
}

// HasMembers reports whether the series carries a member dimension.
func (s *Series) HasMembers() bool { return s.Members != nil }

// NumMembers returns the member count, or 1 for member-less series.
func (s *Series) NumMembers() int {
	if s.Members == nil {
		return 1
	}
	return len(s.Members)
}

// NumTimes returns the length of the time axis.
func (s *Series) NumTimes() int { return len(s.Times) }

// Value reads one sample. The member index is ignored for member-less series.
func (s *Series) Value(m, t int) float64 {
	if s.Members == nil {
		return s.Data.Get(t)
	}
	return s.Data.Get(m, t)
}

// SetValue writes one sample, mirroring Value.
func (s *Series) SetValue(v float64, m, t int) {
	if s.Members == nil {
		s.Data.Set(v, t)
		return
	}
	s.Data.Set(v, m, t)
}

// TimeSlice returns the series restricted to time steps [lo, hi).
func (s *Series) TimeSlice(lo, hi int) (*Series, error) {
	if lo < 0 || hi > len(s.Times) || lo >= hi {
		return nil, fmt.Errorf("time slice [%d, %d) out of range for %d time steps", lo, hi, len(s.Times))
	}
	out, err := NewSeries(s.Members, s.Times[lo:hi])
	if err != nil {
		return nil, err
	}
	for m := 0; m < s.NumMembers(); m++ {
		for t := lo; t < hi; t++ {
			out.SetValue(s.Value(m, t), m, t-lo)
		}
	}
	return out, nil
}

// MemberValues copies one member row into a plain slice.
func (s *Series) MemberValues(m int) []float64 {
	vals := make([]float64, len(s.Times))
	for t := range s.Times {
		vals[t] = s.Value(m, t)
	}
	return vals
}

// SelectMonths keeps only time steps whose calendar month is in months.
// An empty result is an error.
func (s *Series) SelectMonths(months ...time.Month) (*Series, error) {
	keep := make(map[time.Month]struct{}, len(months))
	for _, mon := range months {
		keep[mon] = struct{}{}
	}
	var idx []int
	for t, mt := range s.Times {
		if _, ok := keep[mt.Mon]; ok {
			idx = append(idx, t)
		}
	}
	if len(idx) == 0 {
		return nil, fmt.Errorf("no time steps match the requested months")
	}
	times := make([]Month, len(idx))
	for i, t := range idx {
		times[i] = s.Times[t]
	}
	out, err := NewSeries(s.Members, times)
	if err != nil {
		return nil, err
	}
	for m := 0; m < s.NumMembers(); m++ {
		for i, t := range idx {
			out.SetValue(s.Value(m, t), m, i)
		}
	}
	return out, nil
}
