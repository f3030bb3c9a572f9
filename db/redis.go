package db

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client
var Ctx = context.Background()

const proposalRunKeyPrefix = "proposals:ran:"

// ConnectRedis is optional: the proposal scheduler runs without the daily
// guard when REDIS_URL is not configured.
func ConnectRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	Redis = redis.NewClient(opt)

	_, err = Redis.Ping(Ctx).Result()
	return err
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}

// ClaimProposalRun marks today's proposal batch as started. Returns false if
// another run already claimed the current date. Always true when Redis is not
// configured.
func ClaimProposalRun(day time.Time) (bool, error) {
	if Redis == nil {
		return true, nil
	}
	key := proposalRunKeyPrefix + day.Format("2006-01-02")
	return Redis.SetNX(Ctx, key, "1", 48*time.Hour).Result()
}
