/*
Copyright 2024 Venn Labs Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/vennhq/venn/config"
	redis_db "github.com/vennhq/venn/internal/redis-db"
)

// Cache is the interface the engine uses in front of the rule store. A nil
// Cache is valid; callers fall straight through to the datasource.
type Cache interface {
	// Set stores a value under key for ttl.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Get loads the value stored under key into data. A cache miss is not
	// an error; data is simply left untouched.
	Get(ctx context.Context, key string, data interface{}) error

	// Delete removes key from the cache.
	Delete(ctx context.Context, key string) error
}

// RedisCache backs the Cache interface with Redis plus a local TinyLFU
// tier for hot keys.
type RedisCache struct {
	cache *cache.Cache
}

// NewCache connects to the configured Redis and returns a ready Cache.
func NewCache() (Cache, error) {
	cfg, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	return NewCacheFromAddresses([]string{cfg.Redis.Dns})
}

// cacheSize is the entry capacity of the local TinyLFU tier.
const cacheSize = 128000

// NewCacheFromAddresses builds a RedisCache against explicit addresses.
// Tests point this at a miniredis instance.
func NewCacheFromAddresses(addresses []string) (Cache, error) {
	client, err := redis_db.NewRedisClient(addresses)
	if err != nil {
		return nil, err
	}

	// Values roundtrip through JSON so decimal amounts keep their own
	// encodings instead of relying on reflection over unexported fields.
	c := cache.New(&cache.Options{
		Redis:      client.Client(),
		LocalCache: cache.NewTinyLFU(cacheSize, 1*time.Minute),
		Marshal:    json.Marshal,
		Unmarshal:  json.Unmarshal,
	})

	return &RedisCache{cache: c}, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	return r.cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: data,
		TTL:   ttl,
	})
}

func (r *RedisCache) Get(ctx context.Context, key string, data interface{}) error {
	err := r.cache.Get(ctx, key, data)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil
	}

	return err
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.cache.Delete(ctx, key)
}
