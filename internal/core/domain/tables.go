package domain

import (
	"encoding/json"
	"time"
)

// NormalizedRow holds one task's numeric day values.
type NormalizedRow struct {
	Task     string    `json:"task"`
	Group    string    `json:"group"`
	Question string    `json:"question,omitempty"`
	Values   []float64 `json:"values"`
}

// NormalizedTable is the register coerced to numbers and truncated to the
// snapshot date. UnknownTokens counts cells that degraded to 0.
type NormalizedTable struct {
	Days          []time.Time     `json:"days"`
	Rows          []NormalizedRow `json:"rows"`
	UnknownTokens int             `json:"unknown_tokens"`
}

func (t *NormalizedTable) DayLabels() []string {
	labels := make([]string, len(t.Days))
	for i, d := range t.Days {
		labels[i] = FormatDayLabel(d)
	}
	return labels
}

type TaskFrequency struct {
	Task          string  `json:"task"`
	Group         string  `json:"group"`
	Completed     float64 `json:"completed"`
	Percent       float64 `json:"percent"`
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
}

// FrequencySeries maps each task to its completion percentage over Days tracked days.
type FrequencySeries struct {
	Days  int             `json:"days"`
	Tasks []TaskFrequency `json:"tasks"`
}

func (f *FrequencySeries) Get(task string) (TaskFrequency, bool) {
	for _, t := range f.Tasks {
		if t.Task == task {
			return t, true
		}
	}
	return TaskFrequency{}, false
}

// Ratio is a per-category value that may be missing. Missing is not zero.
type Ratio struct {
	Value float64
	Valid bool
}

func Some(v float64) Ratio {
	return Ratio{Value: v, Valid: true}
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ratio{}
		return nil
	}
	if err := json.Unmarshal(data, &r.Value); err != nil {
		return err
	}
	r.Valid = true
	return nil
}

// GroupTable is the per-category, per-day normalised completion in canonical
// order. Values[i][d] belongs to Categories[i] on Days[d].
//
// Members maps every category seen in the register to its tasks, including
// categories outside the canonical order whose rows were dropped from Values.
// Size axes and legends from Categories, never from Members.
type GroupTable struct {
	Categories []string            `json:"categories"`
	Days       []time.Time         `json:"days"`
	Values     [][]Ratio           `json:"values"`
	Members    map[string][]string `json:"members"`
}

func (g *GroupTable) Row(category string) ([]Ratio, bool) {
	for i, c := range g.Categories {
		if c == category {
			return g.Values[i], true
		}
	}
	return nil, false
}

// WeightedScore is the composite daily score. Scores may be negative.
type WeightedScore struct {
	Days              []time.Time        `json:"days"`
	Scores            []float64          `json:"scores"`
	NormalizedWeights map[string]float64 `json:"normalized_weights"`
}
