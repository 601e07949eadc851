package render

import (
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

const DefaultCellPx = 24

var missingColor = color.NRGBA{R: 200, G: 200, B: 200, A: 255}

// HeatmapImage draws one pixel per category and day, then scales each pixel
// to a cellPx square without smoothing.
func HeatmapImage(groups *domain.GroupTable, cellPx int) *image.NRGBA {
	if cellPx <= 0 {
		cellPx = DefaultCellPx
	}

	rows, cols := len(groups.Categories), len(groups.Days)
	if rows == 0 || cols == 0 {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}

	src := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	for i := range groups.Categories {
		for d := 0; d < cols; d++ {
			src.SetNRGBA(d, i, RatioColor(groups.Values[i][d]))
		}
	}

	return imaging.Resize(src, cols*cellPx, rows*cellPx, imaging.NearestNeighbor)
}

// RatioColor maps 0 to red and 1 (or more) to green through yellow.
// Missing values are grey.
func RatioColor(r domain.Ratio) color.NRGBA {
	if !r.Valid {
		return missingColor
	}

	v := r.Value
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	if v < 0.5 {
		return color.NRGBA{R: 215, G: uint8(48 + v*2*(200-48)), B: 39, A: 255}
	}
	return color.NRGBA{R: uint8(215 - (v-0.5)*2*(215-26)), G: 200, B: uint8(39 + (v-0.5)*2*(80-39)), A: 255}
}

func WriteHeatmapPNG(w io.Writer, groups *domain.GroupTable, cellPx int) error {
	return imaging.Encode(w, HeatmapImage(groups, cellPx), imaging.PNG)
}
