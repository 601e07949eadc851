package render

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

const (
	pageMargin  = 12.0
	labelWidth  = 48.0
	headerSpace = 22.0
	heatmapName = "heatmap"
)

// PDFWriter lays a report out as a landscape A4 document: completion grid,
// task histogram, category histogram, category heat map and, for the scored
// variant, the daily score chart.
type PDFWriter struct {
	CellPx int
}

func NewPDFWriter() *PDFWriter {
	return &PDFWriter{CellPx: DefaultCellPx}
}

// Write renders into a temporary file next to path and renames it into
// place, so path is either the complete document or untouched.
func (w *PDFWriter) Write(report *domain.Report, path string) (err error) {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".kanso-report-*.pdf")
	if err != nil {
		return fmt.Errorf("failed to create temporary pdf: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	doc, err := w.Document(report)
	if err != nil {
		return err
	}
	if err = doc.Output(tmp); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close pdf: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move pdf into place: %w", err)
	}
	return nil
}

// Document builds the in-memory PDF. The caller decides where it goes.
func (w *PDFWriter) Document(report *domain.Report) (*fpdf.Fpdf, error) {
	if report == nil || report.Table == nil || report.Frequency == nil || report.Groups == nil {
		return nil, errors.New("incomplete report")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)

	p := &page{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), report: report}

	p.completionGrid()
	p.taskHistogram()
	p.categoryHistogram()
	if err := p.heatmap(w.CellPx); err != nil {
		return nil, err
	}
	if report.Score != nil {
		p.scoreChart()
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return pdf, nil
}

type page struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	report *domain.Report
}

func (p *page) start(title string) (x, y, w, h float64) {
	p.pdf.AddPage()
	pw, ph := p.pdf.GetPageSize()

	p.pdf.SetTextColor(17, 24, 39)
	p.pdf.SetFont("Helvetica", "B", 15)
	p.pdf.CellFormat(0, 8, p.tr(title), "", 1, "L", false, 0, "")

	p.pdf.SetFont("Helvetica", "", 8)
	p.pdf.SetTextColor(107, 114, 128)
	sub := fmt.Sprintf("%s  |  %s  |  snapshot %s  |  %d days",
		p.report.SourceID, p.report.Variant, p.report.Snapshot.Format("2006-01-02"), len(p.report.Table.Days))
	p.pdf.CellFormat(0, 5, p.tr(sub), "", 1, "L", false, 0, "")
	p.pdf.SetTextColor(17, 24, 39)

	return pageMargin, pageMargin + headerSpace, pw - 2*pageMargin, ph - 2*pageMargin - headerSpace
}

func (p *page) label(x, y, w float64, text, align string) {
	p.pdf.SetXY(x, y)
	p.pdf.CellFormat(w, 4, p.tr(text), "", 0, align, false, 0, "")
}

func (p *page) dayAxis(x0, y, cellW float64, days int) {
	labels := p.report.Table.DayLabels()
	step := int(math.Ceil(12 / cellW))
	if step < 1 {
		step = 1
	}

	p.pdf.SetFont("Helvetica", "", 6)
	for d := 0; d < days; d += step {
		p.label(x0+float64(d)*cellW, y, math.Max(cellW*float64(step), 12), labels[d], "L")
	}
}

func (p *page) completionGrid() {
	x, y, w, h := p.start("Completion register")
	table := p.report.Table

	rows, days := len(table.Rows), len(table.Days)
	if rows == 0 {
		p.label(x, y, w, "No tasks recorded", "L")
		return
	}

	cellW := (w - labelWidth) / float64(days)
	cellH := math.Min(6, (h-8)/float64(rows))

	p.pdf.SetDrawColor(255, 255, 255)
	p.pdf.SetLineWidth(0.2)
	for i, row := range table.Rows {
		ry := y + float64(i)*cellH
		p.pdf.SetFont("Helvetica", "", math.Min(7, cellH*2.2))
		p.label(x, ry+cellH/2-2, labelWidth-2, row.Task, "R")

		for d, v := range row.Values {
			if v > 0 {
				p.pdf.SetFillColor(26, 152, 80)
			} else {
				p.pdf.SetFillColor(229, 231, 235)
			}
			p.pdf.Rect(x+labelWidth+float64(d)*cellW, ry, cellW, cellH, "FD")
		}
	}

	p.dayAxis(x+labelWidth, y+float64(rows)*cellH+1, cellW, days)
}

func (p *page) bars(x, y, w, h float64, labels []string, values []float64, valid []bool, max float64, unit string) {
	if len(labels) == 0 {
		p.label(x, y, w, "Nothing to plot", "L")
		return
	}

	barH := math.Min(8, h/float64(len(labels)))
	plotW := w - labelWidth - 18

	p.pdf.SetDrawColor(156, 163, 175)
	for i, l := range labels {
		by := y + float64(i)*barH
		p.pdf.SetFont("Helvetica", "", math.Min(8, barH*2))
		p.label(x, by+barH/2-2, labelWidth-2, l, "R")

		if !valid[i] {
			p.pdf.SetTextColor(156, 163, 175)
			p.label(x+labelWidth+1, by+barH/2-2, 20, "n/a", "L")
			p.pdf.SetTextColor(17, 24, 39)
			continue
		}

		bw := 0.0
		if max > 0 {
			bw = plotW * math.Max(values[i], 0) / max
		}
		p.pdf.SetFillColor(124, 58, 237)
		p.pdf.Rect(x+labelWidth, by+barH*0.15, bw, barH*0.7, "F")
		p.label(x+labelWidth+bw+1, by+barH/2-2, 18, fmt.Sprintf("%.1f%s", values[i], unit), "L")
	}
	p.pdf.Line(x+labelWidth, y, x+labelWidth, y+float64(len(labels))*barH)
}

func (p *page) taskHistogram() {
	x, y, w, h := p.start("Task frequency")

	freq := p.report.Frequency
	labels := make([]string, len(freq.Tasks))
	values := make([]float64, len(freq.Tasks))
	valid := make([]bool, len(freq.Tasks))
	for i, t := range freq.Tasks {
		labels[i], values[i], valid[i] = t.Task, t.Percent, true
	}

	p.bars(x, y, w, h, labels, values, valid, 100, "%")
}

func (p *page) categoryHistogram() {
	x, y, w, h := p.start("Category completion")

	groups := p.report.Groups
	values := make([]float64, len(groups.Categories))
	valid := make([]bool, len(groups.Categories))
	for i := range groups.Categories {
		avg, ok := MeanRatio(groups.Values[i])
		values[i], valid[i] = avg*100, ok
	}

	p.bars(x, y, w, h, groups.Categories, values, valid, 100, "%")
}

func (p *page) heatmap(cellPx int) error {
	x, y, w, h := p.start("Category heat map")
	groups := p.report.Groups

	rows, days := len(groups.Categories), len(groups.Days)
	if rows == 0 || days == 0 {
		p.label(x, y, w, "Nothing to plot", "L")
		return nil
	}

	var buf bytes.Buffer
	if err := WriteHeatmapPNG(&buf, groups, cellPx); err != nil {
		return fmt.Errorf("failed to encode heat map: %w", err)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	p.pdf.RegisterImageOptionsReader(heatmapName, opts, &buf)

	imgW := w - labelWidth
	imgH := math.Min(h-10, imgW*float64(rows)/float64(days))
	p.pdf.ImageOptions(heatmapName, x+labelWidth, y, imgW, imgH, false, opts, 0, "")

	cellH := imgH / float64(rows)
	p.pdf.SetFont("Helvetica", "", math.Min(8, cellH*2))
	for i, c := range groups.Categories {
		p.label(x, y+float64(i)*cellH+cellH/2-2, labelWidth-2, c, "R")
	}
	p.dayAxis(x+labelWidth, y+imgH+1, imgW/float64(days), days)
	return nil
}

func (p *page) scoreChart() {
	x, y, w, h := p.start("Daily weighted score")
	score := p.report.Score
	if len(score.Scores) == 0 {
		p.label(x, y, w, "Nothing to plot", "L")
		return
	}

	lo, hi := 0.0, 0.0
	for _, s := range score.Scores {
		lo, hi = math.Min(lo, s), math.Max(hi, s)
	}
	if hi == lo {
		hi = lo + 1
	}

	plotX, plotW, plotH := x+labelWidth/2, w-labelWidth/2, h-10
	days := len(score.Scores)
	stepX := plotW / math.Max(float64(days-1), 1)
	yOf := func(v float64) float64 { return y + plotH*(hi-v)/(hi-lo) }

	p.pdf.SetFont("Helvetica", "", 7)
	p.pdf.SetDrawColor(156, 163, 175)
	p.pdf.SetLineWidth(0.2)
	p.pdf.Line(plotX, yOf(0), plotX+plotW, yOf(0))
	p.label(x, yOf(hi)-2, labelWidth/2-2, fmt.Sprintf("%.0f", hi), "R")
	p.label(x, yOf(0)-2, labelWidth/2-2, "0", "R")
	if lo < 0 {
		p.label(x, yOf(lo)-2, labelWidth/2-2, fmt.Sprintf("%.0f", lo), "R")
	}

	p.pdf.SetDrawColor(124, 58, 237)
	p.pdf.SetFillColor(124, 58, 237)
	p.pdf.SetLineWidth(0.6)
	for d := 0; d < days; d++ {
		px, py := plotX+float64(d)*stepX, yOf(score.Scores[d])
		if d > 0 {
			p.pdf.Line(plotX+float64(d-1)*stepX, yOf(score.Scores[d-1]), px, py)
		}
		p.pdf.Circle(px, py, 0.7, "F")
	}

	p.dayAxis(plotX, y+plotH+2, stepX, days)
}

// MeanRatio averages the valid values of a category row.
func MeanRatio(row []domain.Ratio) (float64, bool) {
	sum, n := 0.0, 0
	for _, r := range row {
		if r.Valid {
			sum += r.Value
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
