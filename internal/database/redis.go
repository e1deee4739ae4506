package database

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis builds the client used by the recommendation store.
func ConnectRedis() (*redis.Client, error) {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	password := getEnv("REDIS_PASSWORD", "")

	db := 0
	if v := getEnv("REDIS_DB", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
