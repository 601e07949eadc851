package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

// MemorySource serves registers kept in process, keyed by identifier.
type MemorySource struct {
	store map[string]*domain.Register

	mu sync.RWMutex
}

func NewMemorySource() *MemorySource {
	return &MemorySource{
		store: make(map[string]*domain.Register),
	}
}

func (s *MemorySource) Put(id string, reg *domain.Register) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store[id] = reg.Clone()
}

func (s *MemorySource) Fetch(ctx context.Context, id string) (*domain.Register, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reg, ok := s.store[id]
	if !ok {
		return nil, fmt.Errorf("%w: no register named %q", domain.ErrSourceUnavailable, id)
	}
	return reg.Clone(), nil
}
