package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect opens a redis client from a redis:// URL or a plain host:port
// address. It returns nil when redis is not configured or unreachable, and
// every consumer treats a nil client as "no cache".
func Connect(addr string) *redis.Client {
	if addr == "" {
		log.Println("[cache] REDIS_URL not set, continuing without cache")
		return nil
	}

	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{Addr: addr}
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[cache] redis connection warning: %v (continuing without cache)", err)
		_ = client.Close()
		return nil
	}

	log.Println("[cache] redis connected")
	return client
}
