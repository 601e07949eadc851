package services

import (
	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

// GroupAggregate averages task values per category and day, aligned to the
// canonical order. A category with no tasks is missing on every day rather
// than zero. Rows in categories outside the order are dropped from the values
// but still listed in Members.
func GroupAggregate(table *domain.NormalizedTable, order domain.CategoryOrder) (*domain.GroupTable, error) {
	days := len(table.Days)
	if days == 0 {
		return nil, domain.ErrEmptyWindow
	}

	n := order.Len()
	sums := make([][]float64, n)
	for i := range sums {
		sums[i] = make([]float64, days)
	}
	counts := make([]int, n)
	members := make(map[string][]string)

	for _, row := range table.Rows {
		members[row.Group] = append(members[row.Group], row.Task)

		idx := order.Index(row.Group)
		if idx < 0 {
			continue
		}
		counts[idx]++
		for d, v := range row.Values {
			sums[idx][d] += v
		}
	}

	groups := &domain.GroupTable{
		Categories: order.Names(),
		Days:       append(table.Days[:0:0], table.Days...),
		Values:     make([][]domain.Ratio, n),
		Members:    members,
	}

	for i := 0; i < n; i++ {
		groups.Values[i] = make([]domain.Ratio, days)
		if counts[i] == 0 {
			continue
		}
		for d := 0; d < days; d++ {
			groups.Values[i][d] = domain.Some(sums[i][d] / float64(counts[i]))
		}
	}

	return groups, nil
}
