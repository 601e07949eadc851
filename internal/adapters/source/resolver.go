package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

const MemoryPrefix = "mem:"

// Resolver dispatches an identifier to the single source able to serve it:
// http(s) links go to Sheets, "db:" to Postgres, "mem:" to Memory and
// anything else is read as a local file.
type Resolver struct {
	Sheets   domain.RegisterSource
	Files    domain.RegisterSource
	Memory   domain.RegisterSource
	Postgres domain.RegisterSource
}

func (r *Resolver) Fetch(ctx context.Context, id string) (*domain.Register, error) {
	src, err := r.pick(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	return src.Fetch(ctx, strings.TrimSpace(id))
}

func (r *Resolver) pick(id string) (domain.RegisterSource, error) {
	var src domain.RegisterSource
	kind := "file"

	switch {
	case id == "":
		return nil, fmt.Errorf("%w: no source configured", domain.ErrSourceUnavailable)
	case strings.HasPrefix(id, "http://"), strings.HasPrefix(id, "https://"):
		src, kind = r.Sheets, "sheet"
	case strings.HasPrefix(id, PostgresPrefix):
		src, kind = r.Postgres, "database"
	case strings.HasPrefix(id, MemoryPrefix):
		src, kind = r.Memory, "memory"
	default:
		src = r.Files
	}

	if src == nil {
		return nil, fmt.Errorf("%w: %s source not configured", domain.ErrSourceUnavailable, kind)
	}
	return src, nil
}
