package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "todolist"

// DB wraps the go-redis client together with the namespace every key is
// written under.
type DB struct {
	*redis.Client
	KeyPrefix string
}

func NewDB(ctx context.Context, url string, keyPrefix string) (*DB, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}

	return &DB{Client: client, KeyPrefix: keyPrefix}, nil
}

// DocumentKey is the key holding the JSON document of one todo.
func (db *DB) DocumentKey(id string) string {
	return fmt.Sprintf("%s:todo:%s", db.KeyPrefix, id)
}

// OrderIndexKey is the sorted set mapping todo ids to their order.
func (db *DB) OrderIndexKey() string {
	return db.KeyPrefix + ":todos:by_order"
}
