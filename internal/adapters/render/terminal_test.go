package render_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-report/internal/adapters/render"
)

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", render.Sparkline(nil))
	assert.Equal(t, "▁█", render.Sparkline([]float64{-10, 10}))
	assert.Equal(t, "▅▅▅", render.Sparkline([]float64{4, 4, 4}))
}

func TestBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░", render.Bar(0.5, 10))
	assert.Equal(t, "░░░░", render.Bar(-1, 4))
	assert.Equal(t, "████", render.Bar(2, 4))
}

func TestTerminal_Render(t *testing.T) {
	t.Run("Success: Scored summary", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render.NewTerminal(&buf).Print(sampleReport(true)))

		out := buf.String()
		assert.Contains(t, out, "Dormir 8h")
		assert.Contains(t, out, "66.7%")
		assert.Contains(t, out, "n/a", "missing category is not shown as zero")
		assert.Contains(t, out, "DAILY SCORE")
		assert.Contains(t, out, "latest 12.3")
	})

	t.Run("Success: Classic summary has no score card", func(t *testing.T) {
		out := render.NewTerminal(&bytes.Buffer{}).Render(sampleReport(false))

		assert.Contains(t, out, "Vicios")
		assert.NotContains(t, out, "DAILY SCORE")
	})
}
