package schema

// PackResult reports the outcome of packing per-member files into one
// ensemble file.
type PackResult struct {
	Scenario   string `json:"scenario"`
	Variable   string `json:"variable"`
	Members    int    `json:"members"`
	OutputPath string `json:"output_path"`
	TimeSteps  int    `json:"time_steps"`
	LatPoints  int    `json:"lat_points"`
	LonPoints  int    `json:"lon_points"`
}
