package schema

// PairSample is one post-eruption time step compared between two scenarios.
type PairSample struct {
	Step    int     `json:"step"`     // months after eruption, starting at 0
	Month   string  `json:"month"`    // model calendar month, e.g. 1257-01
	GlobalT float64 `json:"global_t"` // Welch t statistic for the global mean anomaly
	GlobalP float64 `json:"global_p"` // two-tailed p-value for the global mean anomaly
	Nino34T float64 `json:"nino34_t"` // Welch t statistic for the Nino 3.4 anomaly
	Nino34P float64 `json:"nino34_p"` // two-tailed p-value for the Nino 3.4 anomaly
}

// PairStats holds the Welch test series for one scenario pair.
type PairStats struct {
	First   string       `json:"first"`
	Second  string       `json:"second"`
	Samples []PairSample `json:"samples"`
}

// Label formats the pair for tables and logs.
func (p PairStats) Label() string {
	return p.First + " vs " + p.Second
}

// TTestResult holds pairwise test series for all scenario combinations.
type TTestResult struct {
	Season    string      `json:"season,omitempty"` // optional djf or jja filter
	Scenarios []string    `json:"scenarios"`
	Pairs     []PairStats `json:"pairs"` // combinations of scenarios in input order
}
