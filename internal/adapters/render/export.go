package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

type Table string

const (
	TableFrequency Table = "frequency"
	TableGroups    Table = "groups"
	TableScore     Table = "score"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

func ParseTable(s string) (Table, error) {
	switch t := Table(strings.ToLower(strings.TrimSpace(s))); t {
	case TableFrequency, TableGroups, TableScore:
		return t, nil
	case "":
		return TableFrequency, nil
	default:
		return "", fmt.Errorf("unknown table %q (frequency, groups or score)", s)
	}
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (json or csv)", s)
	}
}

// Round2 is the only place numbers lose precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(Round2(v), 'f', 2, 64)
}

// Rounded returns a copy of report with percentages, ratios and scores
// rounded to two decimals.
func Rounded(report *domain.Report) *domain.Report {
	out := *report

	if report.Frequency != nil {
		freq := *report.Frequency
		freq.Tasks = make([]domain.TaskFrequency, len(report.Frequency.Tasks))
		for i, t := range report.Frequency.Tasks {
			t.Percent = Round2(t.Percent)
			freq.Tasks[i] = t
		}
		out.Frequency = &freq
	}

	if report.Groups != nil {
		groups := *report.Groups
		groups.Values = make([][]domain.Ratio, len(report.Groups.Values))
		for i, row := range report.Groups.Values {
			groups.Values[i] = make([]domain.Ratio, len(row))
			for d, r := range row {
				if r.Valid {
					r.Value = Round2(r.Value)
				}
				groups.Values[i][d] = r
			}
		}
		out.Groups = &groups
	}

	if report.Score != nil {
		score := *report.Score
		score.Scores = make([]float64, len(report.Score.Scores))
		for i, v := range report.Score.Scores {
			score.Scores[i] = Round2(v)
		}
		score.NormalizedWeights = make(map[string]float64, len(report.Score.NormalizedWeights))
		for k, v := range report.Score.NormalizedWeights {
			score.NormalizedWeights[k] = Round2(v)
		}
		out.Score = &score
	}

	return &out
}

func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// TableValue picks one table out of a rounded report.
func TableValue(report *domain.Report, table Table) (interface{}, error) {
	r := Rounded(report)
	switch table {
	case TableFrequency:
		return r.Frequency, nil
	case TableGroups:
		return r.Groups, nil
	case TableScore:
		if r.Score == nil {
			return nil, domain.ErrScoreUnavailable
		}
		return r.Score, nil
	}
	return nil, fmt.Errorf("unknown table %q", table)
}

func WriteCSV(w io.Writer, report *domain.Report, table Table) error {
	var records [][]string

	switch table {
	case TableFrequency:
		records = frequencyRecords(report.Frequency)
	case TableGroups:
		records = groupRecords(report.Groups)
	case TableScore:
		if report.Score == nil {
			return domain.ErrScoreUnavailable
		}
		records = scoreRecords(report.Score)
	default:
		return fmt.Errorf("unknown table %q", table)
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func frequencyRecords(freq *domain.FrequencySeries) [][]string {
	records := [][]string{{"task", "group", "completed", "percent", "current_streak", "longest_streak"}}
	for _, t := range freq.Tasks {
		records = append(records, []string{
			t.Task,
			t.Group,
			strconv.FormatFloat(t.Completed, 'f', -1, 64),
			formatNumber(t.Percent),
			strconv.Itoa(t.CurrentStreak),
			strconv.Itoa(t.LongestStreak),
		})
	}
	return records
}

func groupRecords(groups *domain.GroupTable) [][]string {
	header := []string{"category"}
	for _, d := range groups.Days {
		header = append(header, domain.FormatDayLabel(d))
	}

	records := [][]string{header}
	for i, c := range groups.Categories {
		row := []string{c}
		for _, r := range groups.Values[i] {
			if r.Valid {
				row = append(row, formatNumber(r.Value))
			} else {
				row = append(row, "")
			}
		}
		records = append(records, row)
	}
	return records
}

func scoreRecords(score *domain.WeightedScore) [][]string {
	records := [][]string{{"day", "score"}}
	for i, d := range score.Days {
		records = append(records, []string{domain.FormatDayLabel(d), formatNumber(score.Scores[i])})
	}
	return records
}
