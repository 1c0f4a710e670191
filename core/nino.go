package core

import (
	"github.com/tephralab/plume/grid"
	"github.com/tephralab/plume/schema"
)

// Standard ENSO index regions in degrees north / degrees east.
// Bounds are fixed scientific conventions, not tunables.
var (
	Nino3Box  = grid.Box{LatMin: -5, LatMax: 5, LonMin: 210, LonMax: 270}
	Nino34Box = grid.Box{LatMin: -5, LatMax: 5, LonMin: 190, LonMax: 240}
	Nino4Box  = grid.Box{LatMin: -5, LatMax: 5, LonMin: 160, LonMax: 210}
)

// RegionIndex computes the area-weighted mean of a field over a box,
// collapsing the spatial dimensions and preserving member and time.
func RegionIndex(f *grid.Field, box grid.Box) (*grid.Series, error) {
	sub, err := f.SelectBox(box)
	if err != nil {
		return nil, err
	}
	return sub.AreaMean()
}

// Nino3 computes the Nino 3 index (5S-5N, 210-270E).
func Nino3(f *grid.Field) (*grid.Series, error) {
	return RegionIndex(f, Nino3Box)
}

// Nino34 computes the Nino 3.4 index (5S-5N, 190-240E).
func Nino34(f *grid.Field) (*grid.Series, error) {
	return RegionIndex(f, Nino34Box)
}

// Nino4 computes the Nino 4 index (5S-5N, 160-210E).
func Nino4(f *grid.Field) (*grid.Series, error) {
	return RegionIndex(f, Nino4Box)
}

// GlobalMean computes the area-weighted mean over the full grid.
func GlobalMean(f *grid.Field) (*grid.Series, error) {
	return f.AreaMean()
}

// Regions lists every named index region plume knows about.
func Regions() *schema.RegionResult {
	return &schema.RegionResult{
		Regions: []schema.RegionInfo{
			{Name: "Nino 3", Bounds: Nino3Box, Description: "Eastern equatorial Pacific"},
			{Name: "Nino 3.4", Bounds: Nino34Box, Description: "Central equatorial Pacific, primary ENSO index"},
			{Name: "Nino 4", Bounds: Nino4Box, Description: "Western-central equatorial Pacific"},
		},
	}
}
