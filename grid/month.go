package grid

import (
	"fmt"
	"time"
)

// Month is one calendar month on a noleap calendar.
type Month struct {
	Year int
	Mon  time.Month
}

// Index returns the number of months since January of year 0.
func (m Month) Index() int {
	return m.Year*12 + int(m.Mon) - 1
}

// String formats the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Mon))
}

// Next returns the month that follows m.
func (m Month) Next() Month {
	if m.Mon == time.December {
		return Month{Year: m.Year + 1, Mon: time.January}
	}
	return Month{Year: m.Year, Mon: m.Mon + 1}
}

// MonthFromIndex is the inverse of Index.
func MonthFromIndex(idx int) Month {
	year := idx / 12
	mon := idx % 12
	if mon < 0 {
		year--
		mon += 12
	}
	return Month{Year: year, Mon: time.Month(mon + 1)}
}

// MonthsFrom builds n consecutive months starting at the given year and month.
func MonthsFrom(year int, mon time.Month, n int) []Month {
	months := make([]Month, n)
	cur := Month{Year: year, Mon: mon}
	for i := 0; i < n; i++ {
		months[i] = cur
		cur = cur.Next()
	}
	return months
}

// SeasonMonths maps a season name to its calendar months. Recognized names
// are djf (December, January, February) and jja (June, July, August).
func SeasonMonths(season string) ([]time.Month, error) {
	switch season {
	case "djf":
		return []time.Month{time.December, time.January, time.February}, nil
	case "jja":
		return []time.Month{time.June, time.July, time.August}, nil
	default:
		return nil, fmt.Errorf("unknown season %q (want djf or jja)", season)
	}
}
