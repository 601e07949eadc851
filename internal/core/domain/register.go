package domain

import (
	"fmt"
	"strings"
)

const (
	TokenYes = "Sí"
	TokenNo  = "No"

	ColumnTask     = "Tarea"
	ColumnGroup    = "Grupo"
	ColumnQuestion = "Pregunta"
)

// RawEntry is one habit row exactly as recorded: one cell per day label.
type RawEntry struct {
	Task     string   `json:"task"`
	Group    string   `json:"group"`
	Question string   `json:"question,omitempty"`
	Cells    []string `json:"cells"`
}

// Register is the raw habit log of a single source.
type Register struct {
	DayLabels []string   `json:"day_labels"`
	Entries   []RawEntry `json:"entries"`
}

func (r *Register) Clone() *Register {
	if r == nil {
		return nil
	}
	out := &Register{
		DayLabels: append([]string(nil), r.DayLabels...),
		Entries:   make([]RawEntry, len(r.Entries)),
	}
	for i, e := range r.Entries {
		e.Cells = append([]string(nil), e.Cells...)
		out.Entries[i] = e
	}
	return out
}

// Validate checks the structural invariants: every row has one cell per day
// and each task appears once (so it belongs to exactly one group).
func (r *Register) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil register", ErrFormatMismatch)
	}
	seen := make(map[string]bool, len(r.Entries))
	for _, e := range r.Entries {
		task := strings.TrimSpace(e.Task)
		if task == "" {
			return fmt.Errorf("%w: entry without task name", ErrFormatMismatch)
		}
		if seen[task] {
			return fmt.Errorf("%w: duplicate task %q", ErrFormatMismatch, task)
		}
		seen[task] = true
		if len(e.Cells) != len(r.DayLabels) {
			return fmt.Errorf("%w: task %q has %d cells for %d days", ErrFormatMismatch, task, len(e.Cells), len(r.DayLabels))
		}
	}
	return nil
}

// IsYes matches the affirmative token, tolerating a missing accent and case.
func IsYes(token string) bool {
	t := strings.ToLower(strings.TrimSpace(token))
	return t == "sí" || t == "si"
}

func IsNo(token string) bool {
	return strings.ToLower(strings.TrimSpace(token)) == "no"
}
