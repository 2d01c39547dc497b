package pool

import (
	"context"
	"fmt"
	"time"

	"lendpool/core"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/store/db"
	"golang.org/x/sync/singleflight"
)

// Cache wraps a pool store with a read-through cache for the query surface.
// Every read hands out a private copy, so callers mutating a pool in flight
// never leak that state to other readers. Writes invalidate whether or not
// they succeed; an aborted update must not leave the old entry behind.
func Cache(store core.IPoolStore, exp time.Duration) core.IPoolStore {
	return &cachePoolStore{
		IPoolStore: store,
		cache:      gcache.New(256).LRU().Expiration(exp).Build(),
		sf:         &singleflight.Group{},
	}
}

type cachePoolStore struct {
	core.IPoolStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cachePoolStore) Create(ctx context.Context, tx *db.DB, pool *core.Pool) error {
	defer s.invalidate(pool)
	return s.IPoolStore.Create(ctx, tx, pool)
}

func (s *cachePoolStore) Find(ctx context.Context, assetID string) (*core.Pool, error) {
	if v, err := s.cache.Get(s.assetKey(assetID)); err == nil {
		if pool, ok := v.(*core.Pool); ok {
			cp := *pool
			return &cp, nil
		}
	}

	v, err, _ := s.sf.Do(s.assetKey(assetID), func() (interface{}, error) {
		pool, err := s.IPoolStore.Find(ctx, assetID)
		if err != nil {
			return nil, err
		}
		if pool.ID > 0 {
			s.cachePool(pool)
		}
		return pool, nil
	})
	if err != nil {
		return nil, err
	}

	// singleflight shares one result across callers; each gets its own copy
	cp := *v.(*core.Pool)
	return &cp, nil
}

func (s *cachePoolStore) FindBySymbol(ctx context.Context, symbol string) (*core.Pool, error) {
	if v, err := s.cache.Get(s.symbolKey(symbol)); err == nil {
		if pool, ok := v.(*core.Pool); ok {
			cp := *pool
			return &cp, nil
		}
	}

	pool, err := s.IPoolStore.FindBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if pool.ID > 0 {
		s.cachePool(pool)
	}

	cp := *pool
	return &cp, nil
}

func (s *cachePoolStore) Update(ctx context.Context, tx *db.DB, pool *core.Pool) error {
	defer s.invalidate(pool)
	return s.IPoolStore.Update(ctx, tx, pool)
}

func (s *cachePoolStore) cachePool(pool *core.Pool) {
	cp := *pool
	s.cache.Set(s.assetKey(cp.AssetID), &cp)
	s.cache.Set(s.symbolKey(cp.Symbol), &cp)
}

func (s *cachePoolStore) invalidate(pool *core.Pool) {
	s.cache.Remove(s.assetKey(pool.AssetID))
	s.cache.Remove(s.symbolKey(pool.Symbol))
}

func (s *cachePoolStore) assetKey(assetID string) string {
	return fmt.Sprintf("pool:asset:%s", assetID)
}

func (s *cachePoolStore) symbolKey(symbol string) string {
	return fmt.Sprintf("pool:symbol:%s", symbol)
}
