package model

// CrawlStats summarizes one harvest run. It is derived from the final
// collections and recomputed every run; counts can be smaller than the
// upstream population when single items were lost to transport errors.
type CrawlStats struct {
	Years          []int   `json:"years"`
	Competitions   int     `json:"competitions"`
	Results        int     `json:"results"`
	Details        int     `json:"details"`
	Teams          int     `json:"teams"`
	UniqueTeams    int     `json:"uniqueTeams"`
	Players        int     `json:"players"`
	ElapsedSeconds float64 `json:"elapsedSeconds"`
}
