package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

func TestPivotRows(t *testing.T) {
	day := func(d int) sql.NullTime {
		return sql.NullTime{Time: time.Date(2024, 7, d, 18, 30, 0, 0, time.UTC), Valid: true}
	}
	val := func(v int64) sql.NullInt64 { return sql.NullInt64{Int64: v, Valid: true} }

	rows := []registerRow{
		{HabitID: "h1", Title: "Correr", Icon: "Salud", TargetValue: 5, CompletionDate: day(1), Value: val(5)},
		{HabitID: "h1", Title: "Correr", Icon: "Salud", TargetValue: 5, CompletionDate: day(3), Value: val(2)},
		{HabitID: "h1", Title: "Correr", Icon: "Salud", TargetValue: 5, CompletionDate: day(3), Value: val(2)},
		{HabitID: "h2", Title: "Fumar", Icon: "Vicios", Description: sql.NullString{String: "¿Fumaste?", Valid: true}, CompletionDate: day(2), Value: val(1)},
		{HabitID: "h3", Title: "Leer", Icon: "Aprendizaje"},
	}

	reg := pivotRows(rows)

	assert.Equal(t, []string{"1/7/24", "2/7/24", "3/7/24"}, reg.DayLabels)
	require.Len(t, reg.Entries, 3)

	assert.Equal(t, "Correr", reg.Entries[0].Task)
	assert.Equal(t, []string{domain.TokenYes, "", domain.TokenNo}, reg.Entries[0].Cells, "4 < target 5 on day 3")

	assert.Equal(t, "¿Fumaste?", reg.Entries[1].Question)
	assert.Equal(t, []string{"", domain.TokenYes, ""}, reg.Entries[1].Cells, "zero target counts as one")

	assert.Equal(t, []string{"", "", ""}, reg.Entries[2].Cells)
	assert.NoError(t, reg.Validate())
}

func TestPivotRows_NoEntries(t *testing.T) {
	reg := pivotRows([]registerRow{{HabitID: "h1", Title: "Correr", Icon: "Salud"}})

	assert.Empty(t, reg.DayLabels)
	require.Len(t, reg.Entries, 1)
	assert.Empty(t, reg.Entries[0].Cells)
}

func setupTestDB(t *testing.T) *sqlx.DB {
	_ = godotenv.Load("../../../.env")

	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("KANSO_DB_USER", "kanso_user"),
		getEnv("KANSO_DB_PASSWORD", "secret"),
		getEnv("KANSO_DB_HOST", "localhost"),
		getEnv("KANSO_DB_PORT", "5432"),
		getEnv("KANSO_DB_NAME", "kanso_db"),
	)

	db, err := ConnectPostgres(dsn)
	if err != nil {
		t.Skipf("Skipping integration tests: database connection failed: %v", err)
	}
	return db
}

func TestPostgresSource_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	userID := uuid.NewString()
	now := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

	_, err := db.Exec(`INSERT INTO users (id, email, password_hash, created_at, updated_at)
        VALUES ($1, $2, 'report', $3, $3)`, userID, userID+"@report.test", now)
	if err != nil {
		t.Skipf("Skipping integration tests: kanso schema not available: %v", err)
	}
	defer db.Exec("DELETE FROM users WHERE id = $1", userID)

	run, smoke := uuid.NewString(), uuid.NewString()
	db.MustExec(`INSERT INTO habits (id, user_id, title, icon, type, frequency_type, target_value, start_date, created_at, updated_at)
        VALUES ($1, $2, 'Correr', 'Salud', 'boolean', 'daily', 1, $3, $3, $3)`, run, userID, now)
	db.MustExec(`INSERT INTO habits (id, user_id, title, icon, type, frequency_type, target_value, start_date, created_at, updated_at)
        VALUES ($1, $2, 'Fumar', 'Vicios', 'boolean', 'daily', 1, $3, $3, $3)`, smoke, userID, now)

	for i, hid := range []string{run, run, smoke} {
		db.MustExec(`INSERT INTO habit_entries (id, habit_id, user_id, completion_date, value, version, created_at, updated_at)
            VALUES ($1, $2, $3, $4, 1, 1, $4, $4)`, uuid.NewString(), hid, userID, now.AddDate(0, 0, i))
	}

	t.Run("Success: Pivots every habit of the user", func(t *testing.T) {
		reg, err := NewPostgresSource(db, nil).Fetch(ctx, PostgresPrefix+userID)

		require.NoError(t, err)
		assert.Equal(t, []string{"1/7/24", "2/7/24", "3/7/24"}, reg.DayLabels)
		assert.Len(t, reg.Entries, 2)
	})

	t.Run("Success: Group filter", func(t *testing.T) {
		reg, err := NewPostgresSource(db, []string{"Vicios"}).Fetch(ctx, PostgresPrefix+userID)

		require.NoError(t, err)
		require.Len(t, reg.Entries, 1)
		assert.Equal(t, "Fumar", reg.Entries[0].Task)
	})

	t.Run("Fail: Missing user id", func(t *testing.T) {
		_, err := NewPostgresSource(db, nil).Fetch(ctx, PostgresPrefix)
		assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	})
}
