package services

import (
	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

// InvertPolarity returns a copy of reg where every row of an inverted category
// has its yes/no answers swapped. Blank and numeric cells are left as they are.
func InvertPolarity(reg *domain.Register, order domain.CategoryOrder) *domain.Register {
	out := reg.Clone()
	if out == nil {
		return nil
	}
	for i := range out.Entries {
		if !order.Inverted(out.Entries[i].Group) {
			continue
		}
		out.Entries[i].Cells = swapTokens(out.Entries[i].Cells)
	}
	return out
}

func swapTokens(cells []string) []string {
	swapped := make([]string, len(cells))
	for i, c := range cells {
		switch {
		case domain.IsYes(c):
			swapped[i] = domain.TokenNo
		case domain.IsNo(c):
			swapped[i] = domain.TokenYes
		default:
			swapped[i] = c
		}
	}
	return swapped
}
