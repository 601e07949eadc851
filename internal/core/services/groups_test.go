package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
	"github.com/comitanigiacomo/kanso-report/internal/core/services"
)

func values(row []domain.Ratio) []float64 {
	out := make([]float64, len(row))
	for i, r := range row {
		out[i] = r.Value
	}
	return out
}

func TestGroupAggregate(t *testing.T) {
	order := scoredOrder(t)

	t.Run("Success: Scenario register group values", func(t *testing.T) {
		table, err := services.NewNormalizer(quietLogger(), false).Normalize(scenarioRegister(), order, julyThird)
		require.NoError(t, err)

		groups, err := services.GroupAggregate(table, order)
		require.NoError(t, err)

		sleep, ok := groups.Row("Sueño")
		require.True(t, ok)
		assert.Equal(t, []float64{1, 0, 1}, values(sleep))

		vices, ok := groups.Row("Vicios")
		require.True(t, ok)
		assert.Equal(t, []float64{0, 0, 1}, values(vices))

		assert.Equal(t, []string{"task1"}, groups.Members["Sueño"])
		assert.Equal(t, []string{"task2"}, groups.Members["Vicios"])
	})

	t.Run("Property: Category axis follows the canonical order", func(t *testing.T) {
		table := tableOf(1,
			domain.NormalizedRow{Task: "b", Group: "Vicios", Values: []float64{1}},
			domain.NormalizedRow{Task: "a", Group: "Hobbies", Values: []float64{1}},
		)

		groups, err := services.GroupAggregate(table, order)
		require.NoError(t, err)

		assert.Equal(t, order.Names(), groups.Categories)
		assert.Len(t, groups.Values, order.Len())
	})

	t.Run("Property: Absent category is missing on every day, not zero", func(t *testing.T) {
		table := tableOf(3, domain.NormalizedRow{Task: "sleep", Group: "Sueño", Values: []float64{0, 0, 0}})

		groups, err := services.GroupAggregate(table, order)
		require.NoError(t, err)

		chores, ok := groups.Row("Hogar")
		require.True(t, ok)
		for _, r := range chores {
			assert.False(t, r.Valid)
		}

		sleep, _ := groups.Row("Sueño")
		for _, r := range sleep {
			assert.True(t, r.Valid)
			assert.Equal(t, 0.0, r.Value)
		}
	})

	t.Run("Property: Identical task values average to the shared value", func(t *testing.T) {
		table := tableOf(3,
			domain.NormalizedRow{Task: "t1", Group: "Comida", Values: []float64{1, 0, 1}},
			domain.NormalizedRow{Task: "t2", Group: "Comida", Values: []float64{1, 0, 1}},
			domain.NormalizedRow{Task: "t3", Group: "Comida", Values: []float64{1, 0, 1}},
		)

		groups, err := services.GroupAggregate(table, order)
		require.NoError(t, err)

		food, _ := groups.Row("Comida")
		assert.Equal(t, []float64{1, 0, 1}, values(food))
	})

	t.Run("Success: Averages mixed tasks within a category", func(t *testing.T) {
		table := tableOf(2,
			domain.NormalizedRow{Task: "t1", Group: "Higiene", Values: []float64{1, 0}},
			domain.NormalizedRow{Task: "t2", Group: "Higiene", Values: []float64{1, 1}},
			domain.NormalizedRow{Task: "t3", Group: "Higiene", Values: []float64{0, 0}},
			domain.NormalizedRow{Task: "t4", Group: "Higiene", Values: []float64{1, 0}},
		)

		groups, err := services.GroupAggregate(table, order)
		require.NoError(t, err)

		hygiene, _ := groups.Row("Higiene")
		assert.Equal(t, []float64{0.75, 0.25}, values(hygiene))
	})

	t.Run("Edge Case: Categories outside the order are dropped", func(t *testing.T) {
		table := tableOf(1, domain.NormalizedRow{Task: "cake", Group: "Recompensas", Values: []float64{1}})

		groups, err := services.GroupAggregate(table, order)
		require.NoError(t, err)

		_, ok := groups.Row("Recompensas")
		assert.False(t, ok)
		assert.Equal(t, []string{"cake"}, groups.Members["Recompensas"])
		assert.NotContains(t, groups.Categories, "Recompensas")
		assert.Len(t, groups.Values, order.Len())
	})

	t.Run("Fail: Empty window", func(t *testing.T) {
		_, err := services.GroupAggregate(tableOf(0), order)
		assert.ErrorIs(t, err, domain.ErrEmptyWindow)
	})
}
