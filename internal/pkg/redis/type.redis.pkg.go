package redis

import (
	"context"
	"sync/atomic"
	"time"

	_redis "github.com/redis/go-redis/v9"
)

// NilType is returned by go-redis when a key does not exist.
var NilType = _redis.Nil

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	PoolSize int
}

type Client struct {
	Client  *_redis.Client
	ctx     context.Context
	cancel  context.CancelFunc
	config  *Config
	healthy atomic.Bool
}

type IRedis interface {
	Set(key string, value any, expiration time.Duration) error
	Get(key string) (string, error)
	Del(key string) error
	Expire(key string, expiration time.Duration) error
	Ping() error
	Close() error
}
