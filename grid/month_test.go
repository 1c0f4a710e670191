package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthIndexRoundTrip(t *testing.T) {
	tests := []struct {
		month Month
		index int
	}{
		{Month{Year: 0, Mon: time.January}, 0},
		{Month{Year: 0, Mon: time.December}, 11},
		{Month{Year: 1, Mon: time.January}, 12},
		{Month{Year: 1850, Mon: time.June}, 1850*12 + 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.index, tt.month.Index())
		assert.Equal(t, tt.month, MonthFromIndex(tt.index))
	}
}

func TestMonthNext(t *testing.T) {
	assert.Equal(t, Month{Year: 5, Mon: time.March}, Month{Year: 5, Mon: time.February}.Next())
	assert.Equal(t, Month{Year: 6, Mon: time.January}, Month{Year: 5, Mon: time.December}.Next())
}

func TestMonthString(t *testing.T) {
	assert.Equal(t, "0001-01", Month{Year: 1, Mon: time.January}.String())
	assert.Equal(t, "1991-06", Month{Year: 1991, Mon: time.June}.String())
}

func TestMonthsFrom(t *testing.T) {
	months := MonthsFrom(1, time.November, 4)
	require.Len(t, months, 4)
	assert.Equal(t, Month{Year: 1, Mon: time.November}, months[0])
	assert.Equal(t, Month{Year: 1, Mon: time.December}, months[1])
	assert.Equal(t, Month{Year: 2, Mon: time.January}, months[2])
	assert.Equal(t, Month{Year: 2, Mon: time.February}, months[3])
}

func TestSeasonMonths(t *testing.T) {
	djf, err := SeasonMonths("djf")
	require.NoError(t, err)
	assert.Equal(t, []time.Month{time.December, time.January, time.February}, djf)

	jja, err := SeasonMonths("jja")
	require.NoError(t, err)
	assert.Equal(t, []time.Month{time.June, time.July, time.August}, jja)

	_, err = SeasonMonths("mam")
	assert.Error(t, err)
}
