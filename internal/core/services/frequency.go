package services

import (
	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

// TaskFrequency computes each task's completion percentage over the tracked
// window. Values keep full precision; rounding is a presentation concern.
func TaskFrequency(table *domain.NormalizedTable) (*domain.FrequencySeries, error) {
	days := len(table.Days)
	if days == 0 {
		return nil, domain.ErrEmptyWindow
	}

	series := &domain.FrequencySeries{
		Days:  days,
		Tasks: make([]domain.TaskFrequency, 0, len(table.Rows)),
	}

	for _, row := range table.Rows {
		total := 0.0
		for _, v := range row.Values {
			total += v
		}
		current, longest := calculateStreaks(row.Values)

		series.Tasks = append(series.Tasks, domain.TaskFrequency{
			Task:          row.Task,
			Group:         row.Group,
			Completed:     total,
			Percent:       total / float64(days) * 100,
			CurrentStreak: current,
			LongestStreak: longest,
		})
	}

	return series, nil
}

// calculateStreaks returns the run of completed days ending on the last
// tracked day and the longest run anywhere in the window.
func calculateStreaks(values []float64) (int, int) {
	currentStreak := 0
	for i := len(values) - 1; i >= 0 && values[i] > 0; i-- {
		currentStreak++
	}

	longestStreak := 0
	tempStreak := 0
	for _, v := range values {
		if v > 0 {
			tempStreak++
			if tempStreak > longestStreak {
				longestStreak = tempStreak
			}
			continue
		}
		tempStreak = 0
	}

	return currentStreak, longestStreak
}
