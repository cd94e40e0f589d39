// Package prefs provides the save.PrefStore backends: redis, sqlite, and
// an in-memory store for tests and throwaway sessions.
package prefs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/stagehand-games/stagehand/pkg/save"
)

// Redis implements save.PrefStore on a Redis server.
type Redis struct {
	client *redis.Client
	logger *slog.Logger
}

var _ save.PrefStore = (*Redis)(nil)

// NewRedis creates a Redis-backed store. addr is host:port.
func NewRedis(addr string, logger *slog.Logger) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &Redis{
		client: rdb,
		logger: logger,
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	r.logger.Debug("redis ping successful", "result", cmd.Val())
	return nil
}

func (r *Redis) Get(ctx context.Context, name string) (string, error) {
	cmd := r.client.Get(ctx, name)
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Debug("redis key not found", "key", name)
			return "", nil
		}
		r.logger.Error("redis GET failed", "key", name, "error", err)
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return cmd.Val(), nil
}

func (r *Redis) Set(ctx context.Context, name, value string) error {
	cmd := r.client.Set(ctx, name, value, 0)
	if err := cmd.Err(); err != nil {
		r.logger.Error("redis SET failed", "key", name, "error", err)
		return fmt.Errorf("redis set failed: %w", err)
	}
	r.logger.Debug("redis SET successful", "key", name, "value_length", len(value))
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
