// Package cache is a best-effort Redis layer. A nil *Client is valid and
// behaves as an always-empty cache, so callers never branch on whether
// caching is configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client wraps redis.Client and degrades every failure to a cache miss.
type Client struct {
	client *redis.Client
	log    *zap.Logger
}

// New returns a client for addr, or nil when addr is empty.
func New(addr, password string, db int, log *zap.Logger) *Client {
	if addr == "" {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		log: log.Named("cache"),
	}
}

// GetJSON decodes the value at key into dst. It reports false on a miss,
// an unreachable server or an undecodable payload.
func (c *Client) GetJSON(ctx context.Context, key string, dst any) bool {
	if c == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.log.Warn("discarding undecodable entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SetJSON stores value at key for ttl.
func (c *Client) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		c.log.Warn("set failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes key.
func (c *Client) Delete(ctx context.Context, key string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Warn("delete failed", zap.String("key", key), zap.Error(err))
	}
}

// Close releases the connection pool.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
