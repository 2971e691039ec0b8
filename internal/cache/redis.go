package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"planet-beauty/internal/model"

	"github.com/redis/go-redis/v9"
)

// maxJitterMinutes spreads expiries so carts written together do not expire together.
const maxJitterMinutes = 5

// versionTTL outlives any in-flight fill, so an expired generation cannot be mistaken for a current one.
const versionTTL = 24 * time.Hour

// fillScript sets KEYS[1] only if the generation in KEYS[2] equals ARGV[1].
var fillScript = redis.NewScript(`
local v = redis.call('GET', KEYS[2]) or '0'
if v ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// RedisCache is a CartCache backed by Redis string keys.
type RedisCache struct {
	client  redis.UniversalClient
	baseTTL time.Duration
}

// NewRedisCache creates a cache whose entries live baseTTL plus up to a few minutes of jitter.
func NewRedisCache(client redis.UniversalClient, baseTTL time.Duration) *RedisCache {
	if baseTTL <= 0 {
		baseTTL = 15 * time.Minute
	}
	return &RedisCache{
		client:  client,
		baseTTL: baseTTL,
	}
}

func (r *RedisCache) Get(ctx context.Context, userID string) (*model.Cart, error) {
	data, err := r.client.Get(ctx, cacheKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart model.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}

	return &cart, nil
}

func (r *RedisCache) Version(ctx context.Context, userID string) (int64, error) {
	v, err := r.client.Get(ctx, versionKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get version failed: %w", err)
	}
	return v, nil
}

func (r *RedisCache) SetIfVersion(ctx context.Context, userID string, cart *model.Cart, version int64) (bool, error) {
	stripped := *cart
	stripped.Items = make([]model.CartItem, len(cart.Items))
	for i, item := range cart.Items {
		stripped.Items[i] = model.CartItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	data, err := json.Marshal(stripped)
	if err != nil {
		return false, fmt.Errorf("marshal cart failed: %w", err)
	}

	ttl := r.baseTTL + time.Duration(rand.Intn(maxJitterMinutes))*time.Minute
	stored, err := fillScript.Run(ctx, r.client,
		[]string{cacheKey(userID), versionKey(userID)},
		strconv.FormatInt(version, 10), data, ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("redis set failed: %w", err)
	}
	return stored == 1, nil
}

func (r *RedisCache) Invalidate(ctx context.Context, userID string) error {
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, versionKey(userID))
	pipe.Expire(ctx, versionKey(userID), versionTTL)
	pipe.Del(ctx, cacheKey(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis invalidate failed: %w", err)
	}
	return nil
}

func cacheKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

func versionKey(userID string) string {
	return fmt.Sprintf("cart:%s:ver", userID)
}
