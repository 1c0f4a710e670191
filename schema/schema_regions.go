package schema

import "github.com/tephralab/plume/grid"

// RegionInfo describes one named index region.
type RegionInfo struct {
	Name        string   `json:"name"`
	Bounds      grid.Box `json:"bounds"`
	Description string   `json:"description"`
}

// RegionResult holds every index region plume knows about.
type RegionResult struct {
	Regions []RegionInfo `json:"regions"`
}
