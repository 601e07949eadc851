package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

// DecodeRegisterCSV reads a register export: Tarea, Grupo and optionally
// Pregunta metadata columns, every other non-blank header being a day label.
func DecodeRegisterCSV(r io.Reader) (*domain.Register, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty register", domain.ErrFormatMismatch)
		}
		return nil, fmt.Errorf("%w: unable to read header: %v", domain.ErrFormatMismatch, err)
	}

	taskIdx, groupIdx, questionIdx := -1, -1, -1
	var dayCols []int
	var labels []string

	for i, h := range headers {
		name := normalizeHeader(h)
		switch name {
		case "":
			continue
		case normalizeHeader(domain.ColumnTask):
			taskIdx = i
		case normalizeHeader(domain.ColumnGroup):
			groupIdx = i
		case normalizeHeader(domain.ColumnQuestion):
			questionIdx = i
		default:
			dayCols = append(dayCols, i)
			labels = append(labels, strings.TrimSpace(h))
		}
	}

	if taskIdx < 0 {
		return nil, fmt.Errorf("%w: missing %s column", domain.ErrFormatMismatch, domain.ColumnTask)
	}
	if groupIdx < 0 {
		return nil, fmt.Errorf("%w: missing %s column", domain.ErrFormatMismatch, domain.ColumnGroup)
	}

	reg := &domain.Register{DayLabels: labels}

	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: unable to read CSV: %v", domain.ErrFormatMismatch, err)
		}

		task := getValue(record, taskIdx)
		if task == "" {
			continue
		}

		entry := domain.RawEntry{
			Task:     task,
			Group:    getValue(record, groupIdx),
			Question: getValue(record, questionIdx),
			Cells:    make([]string, len(dayCols)),
		}
		for j, col := range dayCols {
			entry.Cells[j] = getValue(record, col)
		}
		reg.Entries = append(reg.Entries, entry)
	}

	return reg, nil
}

func normalizeHeader(value string) string {
	value = strings.TrimPrefix(value, "\ufeff")
	return strings.ToLower(strings.TrimSpace(value))
}

func getValue(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
