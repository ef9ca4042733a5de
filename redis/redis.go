package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

func InitRedis() {
	Client = redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_ADDR"),
		DB:   0,
	})

	// Test connection
	_, err := Client.Ping(Ctx).Result()
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}
	fmt.Println("✅ Connected to Redis")
}

// SetJSON marshals v and stores it under key with the given TTL
// (0 means no expiry).
func SetJSON(key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return Client.Set(Ctx, key, data, ttl).Err()
}

// GetJSON loads key into v. The second return reports whether the key existed.
func GetJSON(key string, v interface{}) (bool, error) {
	data, err := Client.Get(Ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, v)
}

// Delete removes a key; missing keys are not an error.
func Delete(key string) error {
	return Client.Del(Ctx, key).Err()
}
