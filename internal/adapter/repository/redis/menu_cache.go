package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/restoledger/internal/domain"
	"github.com/iho/restoledger/internal/usecase"
)

// CacheObserver is told about cache hits and misses.
type CacheObserver interface {
	ObserveCache(name string, hit bool)
}

type nopCacheObserver struct{}

func (nopCacheObserver) ObserveCache(string, bool) {}

// CachingMenuRepository serves the menu list from the cache and drops the
// cached list whenever the menu changes.
//
// Cache failures never fail a request: reads fall through to the backend and
// write errors are only logged.
type CachingMenuRepository struct {
	next     usecase.MenuRepository
	cache    usecase.Cache
	ttl      time.Duration
	observer CacheObserver
	logger   zerolog.Logger
}

// NewCachingMenuRepository wraps next with a cache.
func NewCachingMenuRepository(next usecase.MenuRepository, cache usecase.Cache, ttl time.Duration, observer CacheObserver, logger zerolog.Logger) *CachingMenuRepository {
	if observer == nil {
		observer = nopCacheObserver{}
	}
	return &CachingMenuRepository{
		next:     next,
		cache:    cache,
		ttl:      ttl,
		observer: observer,
		logger:   logger,
	}
}

type cachedMenuItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category,omitempty"`
}

func (row cachedMenuItem) toDomain() (*domain.MenuItem, error) {
	price, err := decimal.NewFromString(row.Price)
	if err != nil {
		return nil, err
	}
	return &domain.MenuItem{ID: row.ID, Name: row.Name, Price: price, Category: row.Category}, nil
}

func (r *CachingMenuRepository) List(ctx context.Context) ([]*domain.MenuItem, error) {
	if items, ok := r.cached(ctx); ok {
		r.observer.ObserveCache("menu", true)
		return items, nil
	}
	r.observer.ObserveCache("menu", false)

	items, err := r.next.List(ctx)
	if err != nil {
		return nil, err
	}
	r.store(ctx, items)
	return items, nil
}

func (r *CachingMenuRepository) cached(ctx context.Context) ([]*domain.MenuItem, bool) {
	raw, err := r.cache.Get(ctx, usecase.MenuCacheKey)
	if err != nil {
		if !errors.Is(err, usecase.ErrCacheMiss) {
			r.logger.Warn().Err(err).Msg("menu cache read failed")
		}
		return nil, false
	}

	var rows []cachedMenuItem
	if err := json.Unmarshal(raw, &rows); err != nil {
		r.logger.Warn().Err(err).Msg("discarding corrupt menu cache entry")
		return nil, false
	}

	items := make([]*domain.MenuItem, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, false
		}
		items = append(items, item)
	}
	return items, true
}

func (r *CachingMenuRepository) store(ctx context.Context, items []*domain.MenuItem) {
	rows := make([]cachedMenuItem, 0, len(items))
	for _, it := range items {
		rows = append(rows, cachedMenuItem{ID: it.ID, Name: it.Name, Price: it.Price.String(), Category: it.Category})
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, usecase.MenuCacheKey, raw, r.ttl); err != nil {
		r.logger.Warn().Err(err).Msg("menu cache write failed")
	}
}

func (r *CachingMenuRepository) invalidate(ctx context.Context) {
	if err := r.cache.Delete(ctx, usecase.MenuCacheKey); err != nil {
		r.logger.Warn().Err(err).Msg("menu cache invalidation failed")
	}
}

func (r *CachingMenuRepository) Create(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error) {
	created, err := r.next.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return created, nil
}

func (r *CachingMenuRepository) Update(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error) {
	updated, err := r.next.Update(ctx, item)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return updated, nil
}

func (r *CachingMenuRepository) Delete(ctx context.Context, id int64) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

var _ usecase.MenuRepository = (*CachingMenuRepository)(nil)
