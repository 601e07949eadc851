package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

var (
	purple  = lipgloss.Color("#A855F7")
	white   = lipgloss.Color("#FFFFFF")
	gray    = lipgloss.Color("#9CA3AF")
	dimGray = lipgloss.Color("#6B7280")
	green   = lipgloss.Color("#22C55E")
	amber   = lipgloss.Color("#F59E0B")
	red     = lipgloss.Color("#EF4444")
)

const barWidth = 20

type styles struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	header   lipgloss.Style
	body     lipgloss.Style
	muted    lipgloss.Style
	card     lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(white),
		subtitle: lipgloss.NewStyle().Bold(true).Foreground(purple).MarginTop(1),
		header:   lipgloss.NewStyle().Bold(true).Foreground(dimGray),
		body:     lipgloss.NewStyle().Foreground(gray),
		muted:    lipgloss.NewStyle().Foreground(dimGray),
		card:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(dimGray).Padding(0, 1),
	}
}

// Terminal prints a styled summary of a report.
type Terminal struct {
	out    io.Writer
	styles styles
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out, styles: newStyles()}
}

func (t *Terminal) Print(report *domain.Report) error {
	_, err := fmt.Fprintln(t.out, t.Render(report))
	return err
}

func (t *Terminal) Render(report *domain.Report) string {
	s := t.styles

	title := s.title.Render(fmt.Sprintf("Habit report %s", report.Snapshot.Format("2006-01-02")))
	info := s.muted.Render(fmt.Sprintf("%s · %s · %d days · run %s",
		report.SourceID, report.Variant, report.Frequency.Days, report.RunID))

	sections := []string{title, info}
	if report.Table != nil && report.Table.UnknownTokens > 0 {
		sections = append(sections, lipgloss.NewStyle().Foreground(amber).
			Render(fmt.Sprintf("%d unrecognized cells counted as not done", report.Table.UnknownTokens)))
	}

	sections = append(sections, s.subtitle.Render("Tasks"), t.frequencyTable(report.Frequency))
	sections = append(sections, s.subtitle.Render("Categories"), t.categoryTable(report.Groups))

	if report.Score != nil && len(report.Score.Scores) > 0 {
		last := report.Score.Scores[len(report.Score.Scores)-1]
		spark := lipgloss.NewStyle().Foreground(purple).Render(Sparkline(report.Score.Scores))
		card := s.card.Render(lipgloss.JoinVertical(lipgloss.Left,
			s.header.Render("DAILY SCORE"),
			spark,
			s.body.Render(fmt.Sprintf("latest %.1f", last)),
		))
		sections = append(sections, "", card)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (t *Terminal) frequencyTable(freq *domain.FrequencySeries) string {
	s := t.styles
	width := columnWidth(freq)

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		s.header.Width(width).Render("TASK"),
		s.header.Width(14).Render("GROUP"),
		s.header.Width(barWidth+2).Render(""),
		s.header.Width(9).Render("DONE"),
		s.header.Width(8).Render("STREAK"),
	)

	rows := []string{header}
	for _, task := range freq.Tasks {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			s.body.Width(width).Render(task.Task),
			s.muted.Width(14).Render(task.Group),
			lipgloss.NewStyle().Foreground(levelColor(task.Percent/100)).Width(barWidth+2).Render(Bar(task.Percent/100, barWidth)),
			s.body.Width(9).Render(fmt.Sprintf("%5.1f%%", task.Percent)),
			s.body.Width(8).Render(fmt.Sprintf("%d/%d", task.CurrentStreak, task.LongestStreak)),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (t *Terminal) categoryTable(groups *domain.GroupTable) string {
	s := t.styles

	rows := make([]string, 0, len(groups.Categories))
	for i, c := range groups.Categories {
		avg, ok := MeanRatio(groups.Values[i])
		value := s.muted.Render("n/a")
		bar := strings.Repeat(" ", barWidth)
		if ok {
			value = s.body.Render(fmt.Sprintf("%5.1f%%", avg*100))
			bar = lipgloss.NewStyle().Foreground(levelColor(avg)).Render(Bar(avg, barWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			s.body.Width(14).Render(c),
			lipgloss.NewStyle().Width(barWidth+2).Render(bar),
			value,
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func columnWidth(freq *domain.FrequencySeries) int {
	width := 8
	for _, t := range freq.Tasks {
		if w := lipgloss.Width(t.Task) + 2; w > width {
			width = w
		}
	}
	if width > 32 {
		width = 32
	}
	return width
}

func levelColor(v float64) lipgloss.Color {
	switch {
	case v >= 0.75:
		return green
	case v >= 0.4:
		return amber
	default:
		return red
	}
}

// Bar draws a horizontal bar for a 0..1 fraction.
func Bar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Sparkline maps values to unicode block characters between their min and max.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	result := make([]rune, len(values))
	if hi == lo {
		for i := range result {
			result[i] = blocks[len(blocks)/2]
		}
		return string(result)
	}

	for i, v := range values {
		idx := int((v - lo) / (hi - lo) * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		result[i] = blocks[idx]
	}
	return string(result)
}
