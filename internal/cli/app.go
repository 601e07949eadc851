package cli

import (
	"context"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-report/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-report/internal/adapters/source"
	"github.com/comitanigiacomo/kanso-report/internal/config"
	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
	"github.com/comitanigiacomo/kanso-report/internal/core/services"
)

// app holds the collaborators shared by every command.
type app struct {
	Reports *services.ReportService
	Source  domain.RegisterSource
	Redis   *redis.Client

	db *sqlx.DB
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}

// newApp wires the sources. Database and Redis are optional: a failed
// connection is only fatal when the requested source needs it.
func newApp(ctx context.Context, cfg *config.Config, recorder services.Recorder) (*app, error) {
	a := &app{}

	client := cleanhttp.DefaultClient()
	client.Timeout = cfg.Timeout

	memory := source.NewMemorySource()
	memory.Put(config.DefaultSource, demoRegister())

	resolver := &source.Resolver{
		Sheets: source.NewSheetSource(client, logger),
		Files:  source.NewFileSource(),
		Memory: memory,
	}

	if cfg.DB.Enabled() {
		db, err := source.ConnectPostgres(cfg.DB.DSN())
		if err != nil {
			if strings.HasPrefix(cfg.Source, source.PostgresPrefix) {
				return nil, err
			}
			logger.WithError(err).Warn("database source disabled")
		} else {
			a.db = db
			resolver.Postgres = source.NewPostgresSource(db, cfg.Groups)
		}
	}

	a.Source = resolver

	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.WithError(err).Warn("redis disabled")
		} else {
			a.Redis = rdb
			if cfg.CacheTTL > 0 {
				a.Source = source.NewCachedSource(resolver, rdb, cfg.CacheTTL, logger)
			}
		}
	}

	a.Reports = services.NewReportService(a.Source, cfg.OrderProvider(), recorder, logger)

	return a, nil
}

// demoRegister backs the mem:demo source so the tool runs without any setup.
func demoRegister() *domain.Register {
	yes, no := domain.TokenYes, domain.TokenNo
	return &domain.Register{
		DayLabels: []string{"4/7/22", "5/7/22", "6/7/22", "7/7/22", "8/7/22", "9/7/22", "10/7/22", "11/7/22"},
		Entries: []domain.RawEntry{
			{Task: "Dormir 8 horas", Group: "Sueño", Question: "¿Dormiste 8 horas?", Cells: []string{yes, yes, no, yes, yes, no, yes, yes}},
			{Task: "Acostarse antes de las 12", Group: "Sueño", Cells: []string{no, yes, no, yes, yes, no, no, yes}},
			{Task: "Fruta", Group: "Comida", Cells: []string{yes, yes, yes, no, yes, yes, yes, no}},
			{Task: "Cocinar", Group: "Comida", Cells: []string{no, yes, no, no, yes, no, yes, yes}},
			{Task: "Ducha", Group: "Higiene", Cells: []string{yes, yes, yes, yes, no, yes, yes, yes}},
			{Task: "Correr", Group: "Deporte", Cells: []string{yes, no, yes, no, yes, no, no, yes}},
			{Task: "Limpiar", Group: "Hogar", Cells: []string{no, no, yes, no, no, yes, no, no}},
			{Task: "Estudiar", Group: "Tareas", Cells: []string{yes, yes, no, yes, yes, no, no, yes}},
			{Task: "Leer", Group: "Hobbies", Cells: []string{yes, no, no, yes, "", no, yes, yes}},
			{Task: "Serie", Group: "Recompensas", Cells: []string{no, yes, yes, no, yes, yes, no, no}},
			{Task: "Fumar", Group: domain.PenaltyCategory, Question: "¿Fumaste?", Cells: []string{no, no, yes, no, no, yes, yes, no}},
			{Task: "Comida basura", Group: domain.PenaltyCategory, Cells: []string{no, yes, no, no, no, yes, no, no}},
		},
	}
}
