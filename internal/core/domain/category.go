package domain

import (
	"fmt"
	"strings"
)

// Category is one entry of the canonical category axis.
// Invert marks a penalty category whose answers are recorded as "did it happen"
// and must be flipped so that 1 always means the desired outcome.
type Category struct {
	Name   string  `json:"name" mapstructure:"name"`
	Weight float64 `json:"weight" mapstructure:"weight"`
	Invert bool    `json:"invert" mapstructure:"invert"`
}

// CategoryOrder is the fixed, ordered set of categories every group-level
// output is aligned to, plus the adjustment constant used by the score
// normalisation denominator. It is treated as immutable once built.
type CategoryOrder struct {
	categories []Category
	index      map[string]int
	Adjustment float64
}

func NewCategoryOrder(categories []Category, adjustment float64) (CategoryOrder, error) {
	if len(categories) == 0 {
		return CategoryOrder{}, fmt.Errorf("%w: no categories", ErrInvalidCategoryOrder)
	}

	cats := make([]Category, 0, len(categories))
	index := make(map[string]int, len(categories))
	for _, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return CategoryOrder{}, fmt.Errorf("%w: blank category name", ErrInvalidCategoryOrder)
		}
		if _, dup := index[name]; dup {
			return CategoryOrder{}, fmt.Errorf("%w: duplicate category %q", ErrInvalidCategoryOrder, name)
		}
		c.Name = name
		index[name] = len(cats)
		cats = append(cats, c)
	}

	return CategoryOrder{categories: cats, index: index, Adjustment: adjustment}, nil
}

func (o CategoryOrder) Len() int {
	return len(o.categories)
}

// Categories returns a copy of the ordered categories.
func (o CategoryOrder) Categories() []Category {
	out := make([]Category, len(o.categories))
	copy(out, o.categories)
	return out
}

func (o CategoryOrder) Names() []string {
	names := make([]string, len(o.categories))
	for i, c := range o.categories {
		names[i] = c.Name
	}
	return names
}

// Index returns the axis position of name, or -1 when it is not part of the order.
func (o CategoryOrder) Index(name string) int {
	i, ok := o.index[strings.TrimSpace(name)]
	if !ok {
		return -1
	}
	return i
}

func (o CategoryOrder) Lookup(name string) (Category, bool) {
	i := o.Index(name)
	if i < 0 {
		return Category{}, false
	}
	return o.categories[i], true
}

func (o CategoryOrder) Inverted(name string) bool {
	c, ok := o.Lookup(name)
	return ok && c.Invert
}

func (o CategoryOrder) TotalWeight() float64 {
	total := 0.0
	for _, c := range o.categories {
		total += c.Weight
	}
	return total
}

// ValidateForScore checks the weight vector can feed the score composer:
// exactly one penalty (negative) weight and a non-zero denominator.
func (o CategoryOrder) ValidateForScore() error {
	negatives := 0
	for _, c := range o.categories {
		if c.Weight < 0 {
			negatives++
		}
	}
	if negatives != 1 {
		return fmt.Errorf("%w: expected exactly one negative weight, got %d", ErrInvalidWeights, negatives)
	}
	if o.TotalWeight()+o.Adjustment == 0 {
		return fmt.Errorf("%w: weight mass plus adjustment is zero", ErrInvalidWeights)
	}
	return nil
}
