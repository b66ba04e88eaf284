package repository

import (
	"context"
	"time"

	"github.com/platefull/weekplan/internal/cache"
	"github.com/platefull/weekplan/internal/reference/domain"
)

const defaultDirectoriesTTL = 5 * time.Minute

const directoriesKey = "reference.directories"

type cachedRepository struct {
	inner domain.Repository
	cache cache.Cache[string, *domain.Directories]
	ttl   time.Duration
}

// NewCachedRepository wraps a reference loader with a TTL cache so repeated
// lock-state and reconciliation calls within a few minutes share one
// snapshot. Invalidate is exposed for admin writes to the reference tables.
func NewCachedRepository(inner domain.Repository, ttl time.Duration) domain.Repository {
	if ttl <= 0 {
		ttl = defaultDirectoriesTTL
	}
	return &cachedRepository{
		inner: inner,
		cache: cache.NewTTLCache[string, *domain.Directories](),
		ttl:   ttl,
	}
}

func (r *cachedRepository) LoadDirectories(ctx context.Context) (*domain.Directories, error) {
	if dirs, ok := r.cache.Get(directoriesKey); ok {
		return dirs, nil
	}
	dirs, err := r.inner.LoadDirectories(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.Set(directoriesKey, dirs, r.ttl)
	return dirs, nil
}

// Invalidate drops the cached snapshot.
func (r *cachedRepository) Invalidate() {
	r.cache.Invalidate(directoriesKey)
}
