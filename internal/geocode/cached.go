package geocode

import (
	"context"
	"strings"
	"time"

	"devcamper/internal/cache"
	"devcamper/internal/model"
)

// CacheTTL 地址座標快取時間
const CacheTTL = 24 * time.Hour

// Cached 先查 Redis，未命中才呼叫下層 Geocoder；快取錯誤只記錄不中斷
type Cached struct {
	next  Geocoder
	cache cache.Cache
	onErr func(error)
}

func NewCached(next Geocoder, c cache.Cache, onErr func(error)) *Cached {
	if onErr == nil {
		onErr = func(error) {}
	}
	return &Cached{next: next, cache: c, onErr: onErr}
}

func cacheKey(address string) string {
	return "geocode:" + strings.ToLower(strings.Join(strings.Fields(address), " "))
}

func (c *Cached) Geocode(ctx context.Context, address string) (*model.Location, error) {
	key := cacheKey(address)
	var loc model.Location
	ok, err := cache.GetJSON(ctx, c.cache, key, &loc)
	if err != nil {
		c.onErr(err)
	}
	if ok {
		return &loc, nil
	}

	found, err := c.next.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, c.cache, key, found, CacheTTL); err != nil {
		c.onErr(err)
	}
	return found, nil
}
