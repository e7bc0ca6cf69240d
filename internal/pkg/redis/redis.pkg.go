package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront-checkout/internal/pkg/logger"

	_redis "github.com/redis/go-redis/v9"
)

const watchInterval = 5 * time.Second

// Setup dials redis and fails fast when the first ping does not answer. Dropped
// connections are redialled by the go-redis pool; watch only reports the outage.
func Setup(ctx context.Context, config *Config) (*Client, error) {
	clientCtx, cancel := context.WithCancel(ctx)

	r := &Client{
		Client: _redis.NewClient(&_redis.Options{
			Addr:            fmt.Sprintf("%s:%d", config.Host, config.Port),
			Username:        config.Username,
			Password:        config.Password,
			PoolSize:        config.PoolSize,
			MaxRetries:      3,
			MinRetryBackoff: 50 * time.Millisecond,
			MaxRetryBackoff: time.Second,
		}),
		cancel: cancel,
		ctx:    clientCtx,
		config: config,
	}

	if err := r.Ping(); err != nil {
		cancel()
		_ = r.Client.Close()
		logger.Error.Println(err)
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	r.healthy.Store(true)

	go r.watch()

	return r, nil
}

func (r *Client) watch() {
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			err := r.Ping()
			switch was := r.healthy.Swap(err == nil); {
			case was && err != nil:
				logger.Warning.Printf("Redis connection lost: %v", err)
			case !was && err == nil:
				logger.Info.Println("Redis connection restored")
			}
		}
	}
}

// Close stops the watcher and releases the pool.
func (r *Client) Close() error {
	r.cancel()
	return r.Client.Close()
}

func (r *Client) Ping() error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.ctx), 2*time.Second)
	defer cancel()
	return r.Client.Ping(ctx).Err()
}

// Set stores the JSON encoding of value with an expiration time.
func (r *Client) Set(key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode key %s: %w", key, err)
	}
	if err := r.Client.Set(r.ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Get returns the raw value of key. A missing key yields "" and no error.
func (r *Client) Get(key string) (string, error) {
	result, err := r.Client.Get(r.ctx, key).Result()
	if errors.Is(err, NilType) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return result, nil
}

func (r *Client) Del(key string) error {
	if err := r.Client.Del(r.ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Expire refreshes the TTL of key. Carts use it to slide their expiry on read.
func (r *Client) Expire(key string, expiration time.Duration) error {
	if err := r.Client.Expire(r.ctx, key, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set expiration on key %s: %w", key, err)
	}
	return nil
}
