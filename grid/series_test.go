package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSeries(t *testing.T, members []int, numTimes int) *Series {
	t.Helper()
	s, err := NewSeries(members, MonthsFrom(1, time.November, numTimes))
	require.NoError(t, err)
	for m := 0; m < s.NumMembers(); m++ {
		for tt := 0; tt < s.NumTimes(); tt++ {
			s.SetValue(float64(100*m+tt), m, tt)
		}
	}
	return s
}

func TestNewSeriesValidation(t *testing.T) {
	_, err := NewSeries(nil, nil)
	assert.Error(t, err)
}

func TestSeriesValueLayouts(t *testing.T) {
	withMembers := newTestSeries(t, []int{1, 2}, 3)
	assert.True(t, withMembers.HasMembers())
	assert.Equal(t, 102.0, withMembers.Value(1, 2))

	memberless := newTestSeries(t, nil, 3)
	assert.False(t, memberless.HasMembers())
	assert.Equal(t, memberless.Value(0, 1), memberless.Value(5, 1))
}

func TestSeriesTimeSlice(t *testing.T) {
	s := newTestSeries(t, []int{1, 2}, 5)

	sub, err := s.TimeSlice(2, 4)
	require.NoError(t, err)
	require.Equal(t, 2, sub.NumTimes())
	assert.Equal(t, s.Times[2], sub.Times[0])
	assert.Equal(t, s.Value(1, 3), sub.Value(1, 1))

	_, err = s.TimeSlice(4, 2)
	assert.Error(t, err)
	_, err = s.TimeSlice(0, 6)
	assert.Error(t, err)
}

func TestSeriesMemberValues(t *testing.T) {
	s := newTestSeries(t, []int{1, 2}, 3)
	assert.Equal(t, []float64{100, 101, 102}, s.MemberValues(1))
}

func TestSeriesSelectMonths(t *testing.T) {
	// Times run Nov year 1 through Apr year 2.
	s := newTestSeries(t, nil, 6)

	djf, err := s.SelectMonths(time.December, time.January, time.February)
	require.NoError(t, err)
	require.Equal(t, 3, djf.NumTimes())
	assert.Equal(t, time.December, djf.Times[0].Mon)
	assert.Equal(t, time.January, djf.Times[1].Mon)
	assert.Equal(t, time.February, djf.Times[2].Mon)
	assert.Equal(t, []float64{1, 2, 3}, []float64{djf.Value(0, 0), djf.Value(0, 1), djf.Value(0, 2)})

	_, err = s.SelectMonths(time.August)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no time steps")
}
