package db

import (
	"context"
	"log"
	"time"

	redis_v9 "github.com/redis/go-redis/v9"
)

var RedisClient *redis_v9.Client

// InitRedis connects the package-level Redis client. Redis is optional; on
// failure the client stays nil and callers fall back to running without it.
func InitRedis(addr, password string, database int) {
	if addr == "" {
		log.Println("Redis not configured, continuing without it")
		return
	}
	client := redis_v9.NewClient(&redis_v9.Options{
		Addr:     addr,
		Password: password,
		DB:       database,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis not reachable at %s, continuing without it: %v", addr, err)
		return
	}

	RedisClient = client
}

func CloseRedis() {
	if RedisClient != nil {
		_ = RedisClient.Close()
	}
}
