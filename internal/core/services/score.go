package services

import (
	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

// NormalizedWeights rescales each weight by the total weight mass plus the
// order's adjustment constant: w * 100 / (sum(w) + adjustment).
func NormalizedWeights(order domain.CategoryOrder) (map[string]float64, error) {
	if err := order.ValidateForScore(); err != nil {
		return nil, err
	}
	denominator := order.TotalWeight() + order.Adjustment

	out := make(map[string]float64, order.Len())
	for _, c := range order.Categories() {
		out[c.Name] = c.Weight * 100 / denominator
	}
	return out, nil
}

// ComposeScore sums the weighted category values for each day. Unlike the
// group table, a missing category contributes 0 here. Results are not clamped.
func ComposeScore(groups *domain.GroupTable, order domain.CategoryOrder) (*domain.WeightedScore, error) {
	weights, err := NormalizedWeights(order)
	if err != nil {
		return nil, err
	}
	if len(groups.Days) == 0 {
		return nil, domain.ErrEmptyWindow
	}

	score := &domain.WeightedScore{
		Days:              append(groups.Days[:0:0], groups.Days...),
		Scores:            make([]float64, len(groups.Days)),
		NormalizedWeights: weights,
	}

	for i, category := range groups.Categories {
		w, ok := weights[category]
		if !ok {
			continue
		}
		for d, r := range groups.Values[i] {
			if !r.Valid {
				continue
			}
			score.Scores[d] += r.Value * w
		}
	}

	return score, nil
}
