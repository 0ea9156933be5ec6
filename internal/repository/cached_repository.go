package repository

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/Kosench/go-shortlink/internal/cache"
	"github.com/Kosench/go-shortlink/internal/model"
	"github.com/rs/zerolog"
)

// CachedLinkRepository wraps another repository with a read-through cache.
// Cache failures are logged and never fail the call.
//
// invalidations counts visit invalidations in this process. A read-through
// fill that overlaps one is dropped again. Other processes sharing a Redis
// cache are not covered; their stale entries live until the next visit or TTL.
type CachedLinkRepository struct {
	next          LinkRepository
	cache         cache.Cache
	keys          *cache.KeyBuilder
	log           zerolog.Logger
	invalidations atomic.Uint64
}

func NewCachedLinkRepository(next LinkRepository, c cache.Cache, keys *cache.KeyBuilder, log zerolog.Logger) *CachedLinkRepository {
	if keys == nil {
		keys = cache.NewKeyBuilder("")
	}
	return &CachedLinkRepository{
		next:  next,
		cache: c,
		keys:  keys,
		log:   log.With().Str("component", "cached_repository").Logger(),
	}
}

func (r *CachedLinkRepository) Create(ctx context.Context, link *model.Link) error {
	if err := r.next.Create(ctx, link); err != nil {
		return err
	}

	r.store(ctx, link)
	return nil
}

func (r *CachedLinkRepository) GetByShortCode(ctx context.Context, shortCode string) (*model.Link, error) {
	key := r.keys.Link(shortCode)

	var cached model.Link
	err := r.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		r.log.Warn().Err(err).Str("short", shortCode).Msg("cache read failed")
	}

	seen := r.invalidations.Load()

	link, err := r.next.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}

	r.store(ctx, link)
	if r.invalidations.Load() != seen {
		r.invalidate(ctx, shortCode)
	}
	return link, nil
}

// ExistsByShortCode trusts a cache hit; a miss always goes to storage.
func (r *CachedLinkRepository) ExistsByShortCode(ctx context.Context, shortCode string) (bool, error) {
	exists, err := r.cache.Exists(ctx, r.keys.Link(shortCode))
	if err == nil && exists {
		return true, nil
	}
	if err != nil {
		r.log.Warn().Err(err).Str("short", shortCode).Msg("cache exists check failed")
	}

	return r.next.ExistsByShortCode(ctx, shortCode)
}

func (r *CachedLinkRepository) IncrementVisits(ctx context.Context, shortCode string) (*model.Link, error) {
	link, err := r.next.IncrementVisits(ctx, shortCode)
	if err != nil {
		return nil, err
	}

	// Drop the entry instead of rewriting it: concurrent increments could
	// otherwise land out of order and leave a lower count behind.
	r.invalidations.Add(1)
	r.invalidate(ctx, shortCode)
	return link, nil
}

func (r *CachedLinkRepository) invalidate(ctx context.Context, shortCode string) {
	if err := r.cache.Delete(ctx, r.keys.Link(shortCode)); err != nil {
		r.log.Warn().Err(err).Str("short", shortCode).Msg("cache invalidation failed")
	}
}

func (r *CachedLinkRepository) store(ctx context.Context, link *model.Link) {
	key := r.keys.Link(link.Short)
	if err := r.cache.Set(ctx, key, link); err != nil {
		r.log.Warn().Err(err).Str("short", link.Short).Msg("cache write failed")
		// a stale entry is worse than none
		if delErr := r.cache.Delete(ctx, key); delErr != nil {
			r.log.Warn().Err(delErr).Str("short", link.Short).Msg("cache invalidation failed")
		}
	}
}
