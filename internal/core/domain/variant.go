package domain

import (
	"fmt"
	"strings"
)

type Variant string

const (
	VariantClassic Variant = "classic"
	VariantScored  Variant = "scored"

	PenaltyCategory   = "Vicios"
	DefaultAdjustment = 2.0
)

func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case "", VariantScored:
		return VariantScored, nil
	case VariantClassic:
		return VariantClassic, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}

// HasScore reports whether the variant produces the weighted daily score chart.
func (v Variant) HasScore() bool {
	return v == VariantScored
}

func ClassicCategories() []Category {
	return []Category{
		{Name: "Sueño"},
		{Name: "Comida"},
		{Name: "Higiene"},
		{Name: "Deporte"},
		{Name: "Hogar"},
		{Name: "Tareas"},
		{Name: "Hobbies"},
		{Name: "Recompensas"},
		{Name: PenaltyCategory, Invert: true},
	}
}

func ScoredCategories() []Category {
	return []Category{
		{Name: "Sueño", Weight: 2},
		{Name: "Comida", Weight: 2},
		{Name: "Higiene", Weight: 1.5},
		{Name: "Deporte", Weight: 1.5},
		{Name: "Hogar", Weight: 1.3},
		{Name: "Tareas", Weight: 1.3},
		{Name: "Hobbies", Weight: 1},
		{Name: PenaltyCategory, Weight: -2, Invert: true},
	}
}

// DefaultOrder returns the preset category order for the variant.
func DefaultOrder(v Variant) (CategoryOrder, error) {
	switch v {
	case VariantClassic:
		return NewCategoryOrder(ClassicCategories(), DefaultAdjustment)
	case VariantScored:
		return NewCategoryOrder(ScoredCategories(), DefaultAdjustment)
	default:
		return CategoryOrder{}, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
}
