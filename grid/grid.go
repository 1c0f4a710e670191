// Package grid has labeled array types for monthly climate model output.
//
// A Field wraps a sparse.DenseArray with member, time, latitude and longitude
// coordinates. Latitudes run -90..90 and longitudes 0..360 degrees east.
// The time axis is a sequence of calendar months on a noleap calendar.
package grid

import "fmt"

// Box is a rectangular lat/lon region. Bounds are inclusive on both ends.
type Box struct {
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
	LonMin float64 `json:"lon_min"`
	LonMax float64 `json:"lon_max"`
}

// Contains reports whether the given point falls inside the box.
func (b Box) Contains(lat, lon float64) bool {
	return lat >= b.LatMin && lat <= b.LatMax && lon >= b.LonMin && lon <= b.LonMax
}

// String formats the box bounds for error messages and logs.
func (b Box) String() string {
	return fmt.Sprintf("lat [%g, %g] lon [%g, %g]", b.LatMin, b.LatMax, b.LonMin, b.LonMax)
}
