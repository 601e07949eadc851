package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

const PostgresPrefix = "db:"

// PostgresSource builds a register from the kanso sync engine tables: one row
// per active habit of the user, one column per day between the first and the
// last recorded entry. The habit icon slug names its group and the
// description is carried as the question. A day reaching the habit target reads "Sí", a day with
// a lower value reads "No" and a day without entries is left blank.
type PostgresSource struct {
	db         *sqlx.DB
	categories []string
}

// NewPostgresSource restricts the habits read to the given groups when it is not empty.
func NewPostgresSource(db *sqlx.DB, categories []string) *PostgresSource {
	return &PostgresSource{db: db, categories: categories}
}

func ConnectPostgres(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

type registerRow struct {
	HabitID        string         `db:"habit_id"`
	Title          string         `db:"title"`
	Icon           string         `db:"icon"`
	Description    sql.NullString `db:"description"`
	TargetValue    int            `db:"target_value"`
	CompletionDate sql.NullTime   `db:"completion_date"`
	Value          sql.NullInt64  `db:"value"`
}

func (s *PostgresSource) Fetch(ctx context.Context, id string) (*domain.Register, error) {
	userID := strings.TrimSpace(strings.TrimPrefix(id, PostgresPrefix))
	if userID == "" {
		return nil, fmt.Errorf("%w: %q has no user id", domain.ErrSourceUnavailable, id)
	}

	query := `
		SELECT h.id AS habit_id, h.title, h.icon, h.description, h.target_value,
		       e.completion_date, e.value
		FROM habits h
		LEFT JOIN habit_entries e
		       ON e.habit_id = h.id
		      AND e.deleted_at IS NULL
		WHERE h.user_id = $1
		  AND h.deleted_at IS NULL
		  AND h.archived_at IS NULL`
	args := []interface{}{userID}

	if len(s.categories) > 0 {
		query += ` AND h.icon = ANY($2)`
		args = append(args, pq.Array(s.categories))
	}
	query += ` ORDER BY h.sort_order, h.title, e.completion_date`

	rows := []registerRow{}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	return pivotRows(rows), nil
}

func pivotRows(rows []registerRow) *domain.Register {
	type habit struct {
		entry  domain.RawEntry
		target int
		values map[time.Time]int64
	}

	var order []string
	habits := make(map[string]*habit)
	var first, last time.Time

	for _, r := range rows {
		h, ok := habits[r.HabitID]
		if !ok {
			h = &habit{
				entry:  domain.RawEntry{Task: r.Title, Group: r.Icon, Question: r.Description.String},
				target: r.TargetValue,
				values: make(map[time.Time]int64),
			}
			if h.target < 1 {
				h.target = 1
			}
			habits[r.HabitID] = h
			order = append(order, r.HabitID)
		}
		if !r.CompletionDate.Valid {
			continue
		}

		day := domain.DateOnly(r.CompletionDate.Time.UTC())
		h.values[day] += r.Value.Int64
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if day.After(last) {
			last = day
		}
	}

	reg := &domain.Register{}
	var days []time.Time
	if !first.IsZero() {
		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			days = append(days, d)
			reg.DayLabels = append(reg.DayLabels, domain.FormatDayLabel(d))
		}
	}

	for _, id := range order {
		h := habits[id]
		h.entry.Cells = make([]string, len(days))
		for i, d := range days {
			v, ok := h.values[d]
			switch {
			case !ok:
				h.entry.Cells[i] = ""
			case v >= int64(h.target):
				h.entry.Cells[i] = domain.TokenYes
			default:
				h.entry.Cells[i] = domain.TokenNo
			}
		}
		reg.Entries = append(reg.Entries, h.entry)
	}

	return reg
}
