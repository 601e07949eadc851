package services_test

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

var julyThird = time.Date(2022, 7, 3, 0, 0, 0, 0, time.UTC)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func scoredOrder(t *testing.T) domain.CategoryOrder {
	t.Helper()
	order, err := domain.DefaultOrder(domain.VariantScored)
	require.NoError(t, err)
	return order
}

// scenarioRegister is the two-task, three-day register used across the pipeline tests.
func scenarioRegister() *domain.Register {
	return &domain.Register{
		DayLabels: []string{"1/7/22", "2/7/22", "3/7/22"},
		Entries: []domain.RawEntry{
			{Task: "task1", Group: "Sueño", Question: "¿Dormiste 8h?", Cells: []string{"Sí", "No", "Sí"}},
			{Task: "task2", Group: "Vicios", Question: "¿Fumaste?", Cells: []string{"Sí", "Sí", "No"}},
		},
	}
}
