package render_test

import (
	"time"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

func day(d int) time.Time {
	return time.Date(2024, 7, d, 0, 0, 0, 0, time.UTC)
}

func sampleReport(withScore bool) *domain.Report {
	days := []time.Time{day(1), day(2), day(3)}

	report := &domain.Report{
		RunID:    "run-1",
		SourceID: "mem:demo",
		Variant:  domain.VariantClassic,
		Snapshot: day(3),
		Table: &domain.NormalizedTable{
			Days: days,
			Rows: []domain.NormalizedRow{
				{Task: "Dormir 8h", Group: "Sueño", Values: []float64{1, 0, 1}},
				{Task: "Fumar", Group: "Vicios", Values: []float64{0, 0, 1}},
			},
		},
		Frequency: &domain.FrequencySeries{
			Days: 3,
			Tasks: []domain.TaskFrequency{
				{Task: "Dormir 8h", Group: "Sueño", Completed: 2, Percent: 200.0 / 3, CurrentStreak: 1, LongestStreak: 1},
				{Task: "Fumar", Group: "Vicios", Completed: 1, Percent: 100.0 / 3, CurrentStreak: 1, LongestStreak: 1},
			},
		},
		Groups: &domain.GroupTable{
			Categories: []string{"Sueño", "Comida", "Vicios"},
			Days:       days,
			Values: [][]domain.Ratio{
				{domain.Some(1), domain.Some(0), domain.Some(1)},
				{{}, {}, {}},
				{domain.Some(0), domain.Some(0), domain.Some(1.0 / 3)},
			},
			Members: map[string][]string{"Sueño": {"Dormir 8h"}, "Vicios": {"Fumar"}},
		},
	}

	if withScore {
		report.Variant = domain.VariantScored
		report.Score = &domain.WeightedScore{
			Days:              days,
			Scores:            []float64{18.867924, -0.5, 12.345678},
			NormalizedWeights: map[string]float64{"Sueño": 18.867924, "Vicios": -18.867924},
		}
	}
	return report
}
