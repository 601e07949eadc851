package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

var _ domain.RegisterSource = (*CachedSource)(nil)

// CachedSource keeps the raw register of recent fetches in Redis for ttl.
// Cache failures never fail a fetch; they fall through to next.
type CachedSource struct {
	next  domain.RegisterSource
	cache *redis.Client
	ttl   time.Duration
	log   logrus.FieldLogger
}

func NewCachedSource(next domain.RegisterSource, cache *redis.Client, ttl time.Duration, log logrus.FieldLogger) *CachedSource {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CachedSource{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

func (s *CachedSource) cacheKey(id string) string {
	return fmt.Sprintf("register:%s", id)
}

func (s *CachedSource) Fetch(ctx context.Context, id string) (*domain.Register, error) {
	key := s.cacheKey(id)
	log := s.log.WithField("source", id)

	val, err := s.cache.Get(ctx, key).Result()
	if err == nil {
		var reg domain.Register
		if err := json.Unmarshal([]byte(val), &reg); err == nil {
			log.Debug("register served from cache")
			return &reg, nil
		}

		log.Warn("corrupted cached register, cleaning up key")
		s.cache.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		log.WithError(err).Warn("redis read error")
	}

	reg, err := s.next.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(reg); err == nil {
		if setErr := s.cache.Set(ctx, key, data, s.ttl).Err(); setErr != nil {
			log.WithError(setErr).Warn("redis set error")
		}
	}

	return reg, nil
}

var _ domain.Invalidator = (*CachedSource)(nil)

// Invalidate drops the cached copy of id.
func (s *CachedSource) Invalidate(ctx context.Context, id string) error {
	return s.cache.Del(ctx, s.cacheKey(id)).Err()
}
