package config

import (
	"context"
	"sync"
	"time"

	"storefront-checkout/internal/common/enum"
	database "storefront-checkout/internal/pkg/db"
	midtransPkg "storefront-checkout/internal/pkg/midtrans"
	"storefront-checkout/internal/pkg/rabbitmq"
	"storefront-checkout/internal/pkg/redis"
	s3aws "storefront-checkout/internal/pkg/storage/s3"
)

// Config holds all application configuration loaded from environment variables
type Config struct {
	AppEnv     enum.EnvEnum `env:"APP_ENV" envDefault:"development" validate:"enum"`
	AppPort    int          `env:"APP_PORT" envDefault:"8080" validate:"min=1,max=65535"`
	AppBaseURL string       `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	LogLevel   string       `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn warning error"`
	LogFormat  string       `env:"LOG_FORMAT" envDefault:"console" validate:"oneof=json console"`

	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisUser     string `env:"REDIS_USER" envDefault:"default"`
	RedisPass     string `env:"REDIS_PASS" envDefault:""`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	RabbitHost string `env:"RABBIT_HOST" envDefault:"localhost"`
	RabbitPort int    `env:"RABBIT_PORT" envDefault:"5672"`
	RabbitUser string `env:"RABBIT_USER" envDefault:"guest"`
	RabbitPass string `env:"RABBIT_PASS" envDefault:"guest"`

	DBDriver    string        `env:"DB_DRIVER" envDefault:"postgres" validate:"oneof=postgres mysql"`
	DBHost      string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort      int           `env:"DB_PORT" envDefault:"5432"`
	DBUser      string        `env:"DB_USER" envDefault:"postgres"`
	DBPass      string        `env:"DB_PASS" envDefault:""`
	DBName      string        `env:"DB_NAME" envDefault:"postgres"`
	DBSSLMode   string        `env:"DB_SSL_MODE" envDefault:"disable"`
	DBCache     bool          `env:"DB_CACHE" envDefault:"true"`
	DBCacheTime time.Duration `env:"DB_CACHE_TIME" envDefault:"5m"`

	MidtransServerKey   string `env:"MIDTRANS_SERVER_KEY" validate:"required"`
	MidtransClientKey   string `env:"MIDTRANS_CLIENT_KEY" envDefault:""`
	MidtransEnvironment string `env:"MIDTRANS_ENVIRONMENT" envDefault:"sandbox" validate:"oneof=sandbox production"`
	Midtrans3DS         bool   `env:"MIDTRANS_3DS" envDefault:"true"`

	JWTSecret string `env:"JWT_SECRET" validate:"required,min=16"`

	Currency        string        `env:"STORE_CURRENCY" envDefault:"IDR" validate:"len=3"`
	Locale          string        `env:"STORE_LOCALE" envDefault:"id-ID"`
	CartTTL         time.Duration `env:"CART_TTL" envDefault:"720h"`
	TokenTTL        time.Duration `env:"CONFIRMATION_TOKEN_TTL" envDefault:"15m"`
	SessionIdleTTL  time.Duration `env:"CHECKOUT_SESSION_IDLE_TTL" envDefault:"30m"`
	FinalizeTimeout time.Duration `env:"CHECKOUT_FINALIZE_TIMEOUT" envDefault:"1m"`

	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" envDefault:""`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" envDefault:""`
	AWSRegion          string `env:"AWS_REGION" envDefault:"ap-southeast-1"`
	AWSEndpoint        string `env:"AWS_ENDPOINT" envDefault:""`
	ReceiptBucket      string `env:"RECEIPT_BUCKET" envDefault:""`
}

// SetupServerDto contains dependencies for server setup
type SetupServerDto struct {
	Ctx    *context.Context
	Cancel context.CancelFunc
	Wg     *sync.WaitGroup
	Env    *Config
	Db     *database.Database
	Rds    *redis.Client
	Rb     *rabbitmq.ConnectionManager
	S3     s3aws.Is3
	Mt     *midtransPkg.MidtransClient
}
