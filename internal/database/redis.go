package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/config"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client
var Ctx = context.Background()

func InitRedis() {
	Redis = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       0,
	})

	rlog := logger.With("redis")
	if _, err := Redis.Ping(Ctx).Result(); err != nil {
		rlog.Warn().Err(err).Msg("Redis unreachable; post rate limiting and feed caching disabled")
		Redis = nil
	} else {
		rlog.Info().Msg("Connected to Redis")
	}
}

// CheckPostRateLimit applies a fixed-window limit on board posts per user.
// When Redis is unavailable the limit is not enforced.
func CheckPostRateLimit(userID string, limit int, window time.Duration) (bool, error) {
	if Redis == nil {
		return true, nil
	}

	key := fmt.Sprintf("post_limit:%s", userID)
	count, err := Redis.Incr(Ctx, key).Result()
	if err != nil {
		return false, err
	}

	if count == 1 {
		Redis.Expire(Ctx, key, window)
	}

	if count > int64(limit) {
		return false, nil
	}
	return true, nil
}

// Caching (nil-safe: misses when Redis is down)

func CacheSet(key string, value interface{}, expiration time.Duration) error {
	if Redis == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return Redis.Set(Ctx, key, data, expiration).Err()
}

func CacheGet(key string, dest interface{}) error {
	if Redis == nil {
		return redis.Nil
	}
	val, err := Redis.Get(Ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func CacheInvalidate(pattern string) error {
	if Redis == nil {
		return nil
	}
	keys, err := Redis.Keys(Ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return Redis.Del(Ctx, keys...).Err()
	}
	return nil
}
