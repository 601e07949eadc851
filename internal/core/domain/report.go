package domain

import "time"

type ReportInput struct {
	SourceID string
	Snapshot time.Time
	Variant  Variant
	Strict   bool
	// Refresh drops any cached copy of the register before fetching.
	Refresh bool
}

// Report bundles every table computed for one snapshot.
type Report struct {
	RunID       string           `json:"run_id"`
	SourceID    string           `json:"source"`
	Variant     Variant          `json:"variant"`
	Snapshot    time.Time        `json:"snapshot"`
	GeneratedAt time.Time        `json:"generated_at"`
	Categories  []Category       `json:"categories"`
	Table       *NormalizedTable `json:"table"`
	Frequency   *FrequencySeries `json:"frequency"`
	Groups      *GroupTable      `json:"groups"`
	Score       *WeightedScore   `json:"score,omitempty"`
}
