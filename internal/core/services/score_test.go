package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
	"github.com/comitanigiacomo/kanso-report/internal/core/services"
)

func TestNormalizedWeights(t *testing.T) {
	t.Run("Success: Rescales by weight mass plus adjustment", func(t *testing.T) {
		weights, err := services.NormalizedWeights(scoredOrder(t))
		require.NoError(t, err)

		assert.InDelta(t, -18.868, weights["Vicios"], 0.001)
		assert.InDelta(t, 18.868, weights["Sueño"], 0.001)
		assert.InDelta(t, 9.434, weights["Hobbies"], 0.001)
	})

	t.Run("Fail: No penalty weight", func(t *testing.T) {
		order, err := domain.NewCategoryOrder([]domain.Category{{Name: "A", Weight: 1}, {Name: "B", Weight: 2}}, 2)
		require.NoError(t, err)

		_, err = services.NormalizedWeights(order)
		assert.ErrorIs(t, err, domain.ErrInvalidWeights)
	})

	t.Run("Fail: Zero denominator", func(t *testing.T) {
		order, err := domain.NewCategoryOrder([]domain.Category{{Name: "A", Weight: 1}, {Name: "B", Weight: -3}}, 2)
		require.NoError(t, err)

		_, err = services.NormalizedWeights(order)
		assert.ErrorIs(t, err, domain.ErrInvalidWeights)
	})
}

func TestComposeScore(t *testing.T) {
	order := scoredOrder(t)

	t.Run("Property: Full penalty with nothing else done goes negative", func(t *testing.T) {
		rows := []domain.NormalizedRow{}
		for _, name := range order.Names() {
			v := 0.0
			if name == "Vicios" {
				v = 1
			}
			rows = append(rows, domain.NormalizedRow{Task: "t-" + name, Group: name, Values: []float64{v}})
		}
		groups, err := services.GroupAggregate(tableOf(1, rows...), order)
		require.NoError(t, err)

		score, err := services.ComposeScore(groups, order)
		require.NoError(t, err)

		require.Len(t, score.Scores, 1)
		assert.InDelta(t, -18.87, score.Scores[0], 0.01)
	})

	t.Run("Success: Perfect day without the penalty reaches the full positive mass", func(t *testing.T) {
		rows := []domain.NormalizedRow{}
		for _, name := range order.Names() {
			v := 1.0
			if name == "Vicios" {
				v = 0
			}
			rows = append(rows, domain.NormalizedRow{Task: "t-" + name, Group: name, Values: []float64{v}})
		}
		groups, err := services.GroupAggregate(tableOf(1, rows...), order)
		require.NoError(t, err)

		score, err := services.ComposeScore(groups, order)
		require.NoError(t, err)

		assert.InDelta(t, 100.0, score.Scores[0], 0.01)
	})

	t.Run("Property: Missing category contributes zero while staying missing in the group table", func(t *testing.T) {
		table, err := services.NewNormalizer(quietLogger(), false).Normalize(scenarioRegister(), order, julyThird)
		require.NoError(t, err)
		groups, err := services.GroupAggregate(table, order)
		require.NoError(t, err)

		score, err := services.ComposeScore(groups, order)
		require.NoError(t, err)

		food, _ := groups.Row("Comida")
		assert.False(t, food[0].Valid)

		sleepWeight := 2 * 100 / 10.6
		vicesWeight := -2 * 100 / 10.6
		assert.InDelta(t, sleepWeight, score.Scores[0], 1e-9)
		assert.InDelta(t, 0, score.Scores[1], 1e-9)
		assert.InDelta(t, sleepWeight+vicesWeight, score.Scores[2], 1e-9)
	})

	t.Run("Fail: Weights without a penalty category", func(t *testing.T) {
		classic, err := domain.DefaultOrder(domain.VariantClassic)
		require.NoError(t, err)
		groups, err := services.GroupAggregate(tableOf(1), classic)
		require.NoError(t, err)

		_, err = services.ComposeScore(groups, classic)
		assert.ErrorIs(t, err, domain.ErrInvalidWeights)
	})
}
