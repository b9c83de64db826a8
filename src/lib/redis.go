package lib

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

// MarkCallbackSeen records a processed gateway callback. Returns false when
// the same (txnid, status) pair was already seen, so duplicate deliveries
// can be short-circuited before touching the database.
func MarkCallbackSeen(ctx context.Context, txnid string, status string) bool {
	rd := GetRedisClient()
	if rd == nil {
		return true
	}
	key := fmt.Sprintf("callback:%s:%s", txnid, status)
	ok, err := rd.SetNX(ctx, key, time.Now().Unix(), 24*time.Hour).Result()
	if err != nil {
		log.Printf("[redis] Error marking callback [%s]: %s\n", key, err.Error())
		return true
	}
	return ok
}
