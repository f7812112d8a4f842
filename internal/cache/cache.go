package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/edustack/analogia/config"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

const defaultTTL = 15 * time.Minute

// Cache is a thin cache-aside layer over Redis used on hot student read
// paths (published quizzes, approved analogy sets). All methods are no-ops
// when Redis is not configured, so callers never need a nil check.
type Cache struct {
	client *redis.Client
	ctx    context.Context
}

func NewCache(cfg *config.Config) *Cache {
	if cfg.Redis.Addr == "" {
		log.Warn().Msg("REDIS_ADDR is not set, caching disabled")
		return &Cache{}
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	return &Cache{client: client, ctx: context.Background()}
}

func (c *Cache) enabled() bool { return c != nil && c.client != nil }

func (c *Cache) Set(key string, value interface{}) error {
	if !c.enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, key, data, defaultTTL).Err()
}

// Get unmarshals the cached value for key into dest and reports whether the
// key was present.
func (c *Cache) Get(key string, dest interface{}) (bool, error) {
	if !c.enabled() {
		return false, nil
	}
	data, err := c.client.Get(c.ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, dest)
}

func (c *Cache) Delete(keys ...string) error {
	if !c.enabled() || len(keys) == 0 {
		return nil
	}
	return c.client.Del(c.ctx, keys...).Err()
}

func QuizKey(quizID uint) string      { return fmt.Sprintf("quiz:%d", quizID) }
func AnalogySetKey(setID uint) string { return fmt.Sprintf("analogy_set:%d", setID) }
