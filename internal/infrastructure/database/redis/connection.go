// internal/infrastructure/database/redis/connection.go
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/config"
)

const (
	connectAttempts = 3
	connectBackoff  = 500 * time.Millisecond
)

// Client holds the shared Redis client used for carts, settings and rate limits
type Client struct {
	rdb *redis.Client
	log logrus.FieldLogger
}

// NewConnection dials Redis, retrying a few times while it starts up
func NewConnection(cfg *config.Config, log logrus.FieldLogger) (*Client, error) {
	rdb := redis.NewClient(options(cfg))

	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = rdb.Ping(ctx).Err()
		cancel()
		if err == nil {
			break
		}
		log.WithError(err).WithField("attempt", attempt).Warn("Redis not reachable yet")
		if attempt < connectAttempts {
			time.Sleep(time.Duration(attempt) * connectBackoff)
		}
	}
	if err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.GetRedisAddr(), err)
	}

	log.WithFields(logrus.Fields{
		"addr": cfg.GetRedisAddr(),
		"db":   cfg.Redis.DB,
	}).Info("✅ Redis connection established successfully")

	return &Client{rdb: rdb, log: log}, nil
}

func options(cfg *config.Config) *redis.Options {
	return &redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolTimeout:  2 * time.Second,
	}
}

// GetClient returns the underlying client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Health pings Redis
func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close drains the pool
func (c *Client) Close() error {
	stats := c.rdb.PoolStats()
	c.log.WithFields(logrus.Fields{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
	}).Info("closing Redis connection")
	return c.rdb.Close()
}
