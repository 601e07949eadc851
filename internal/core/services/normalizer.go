package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

// Normalizer turns a raw register into a numeric table truncated to a snapshot day.
//
// Unrecognised tokens degrade to 0 and are counted, unless Strict is set, in
// which case the first one aborts normalisation with domain.ErrUnknownToken.
type Normalizer struct {
	Strict bool
	log    logrus.FieldLogger
}

func NewNormalizer(log logrus.FieldLogger, strict bool) *Normalizer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Normalizer{Strict: strict, log: log}
}

func (n *Normalizer) Normalize(reg *domain.Register, order domain.CategoryOrder, snapshot time.Time) (*domain.NormalizedTable, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	inverted := InvertPolarity(reg, order)

	columns, days, err := selectColumns(inverted.DayLabels, snapshot)
	if err != nil {
		return nil, err
	}

	table := &domain.NormalizedTable{
		Days: days,
		Rows: make([]domain.NormalizedRow, 0, len(inverted.Entries)),
	}

	for _, e := range inverted.Entries {
		row := domain.NormalizedRow{
			Task:     strings.TrimSpace(e.Task),
			Group:    strings.TrimSpace(e.Group),
			Question: e.Question,
			Values:   make([]float64, len(columns)),
		}
		for j, col := range columns {
			v, ok := cellValue(e.Cells[col])
			if !ok {
				if n.Strict {
					return nil, fmt.Errorf("%w: %q for task %q on %s", domain.ErrUnknownToken, e.Cells[col], row.Task, inverted.DayLabels[col])
				}
				table.UnknownTokens++
			}
			row.Values[j] = v
		}
		table.Rows = append(table.Rows, row)
	}

	if table.UnknownTokens > 0 {
		n.log.WithField("cells", table.UnknownTokens).Warn("unrecognized tokens treated as not completed")
	}

	return table, nil
}

// selectColumns keeps the day columns dated on or before the snapshot day.
func selectColumns(labels []string, snapshot time.Time) ([]int, []time.Time, error) {
	limit := domain.DateOnly(snapshot)
	seen := make(map[time.Time]bool, len(labels))

	var columns []int
	var days []time.Time
	for i, label := range labels {
		day, err := domain.ParseDayLabel(label)
		if err != nil {
			return nil, nil, err
		}
		if seen[day] {
			return nil, nil, fmt.Errorf("%w: day %s appears twice", domain.ErrFormatMismatch, label)
		}
		seen[day] = true

		if day.After(limit) {
			continue
		}
		columns = append(columns, i)
		days = append(days, day)
	}
	return columns, days, nil
}

// cellValue maps a raw cell to a number. The boolean result is false only for
// tokens that are neither yes/no, blank nor numeric.
func cellValue(token string) (float64, bool) {
	t := strings.TrimSpace(token)
	switch {
	case t == "":
		return 0, true
	case domain.IsYes(t):
		return 1, true
	case domain.IsNo(t):
		return 0, true
	case strings.EqualFold(t, "nan"):
		return 0, true
	}

	v, err := strconv.ParseFloat(strings.Replace(t, ",", ".", 1), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
