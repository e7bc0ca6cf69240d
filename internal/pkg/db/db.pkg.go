package database

import (
	"context"
	"fmt"
	"time"

	"storefront-checkout/internal/pkg/redis"

	"github.com/go-gorm/caches/v4"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	_logger "gorm.io/gorm/logger"
)

type Config struct {
	Host      string
	Port      int
	User      string
	Password  string
	Database  string
	SSLMode   string
	Driver    DriverEnum
	Cache     bool
	Rds       *redis.Client
	CacheTime time.Duration
}

type Database struct {
	*gorm.DB
	Config *Config
}

// Dialector picks the gorm driver for cfg.Driver.
func (cfg *Config) Dialector() (gorm.Dialector, error) {
	switch cfg.Driver {
	case POSTGRES:
		return postgres.Open(fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
		)), nil
	case MYSQL:
		return mysql.Open(fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
		)), nil
	}
	return nil, fmt.Errorf("unsupported database driver: %s (supported: postgres, mysql)", cfg.Driver)
}

func Setup(cfg *Config) (*Database, error) {
	dialector, err := cfg.Dialector()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  _logger.Default.LogMode(_logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Product and delivery-method reads go through the query cache.
	if cfg.Cache {
		if err := db.Use(newCachesPlugin(cfg)); err != nil {
			return nil, fmt.Errorf("failed to register query cache: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	return &Database{DB: db, Config: cfg}, nil
}

// Wrap adapts an already opened gorm handle, mostly for tests.
func Wrap(db *gorm.DB) *Database {
	return &Database{DB: db, Config: &Config{}}
}

func newCachesPlugin(cfg *Config) *caches.Caches {
	if cfg.Rds != nil && cfg.CacheTime > 0 {
		return &caches.Caches{Conf: &caches.Config{
			Easer: true,
			Cacher: &redisCacher{
				rdb:       cfg.Rds.Client,
				cacheTime: cfg.CacheTime,
			},
		}}
	}
	return &caches.Caches{Conf: &caches.Config{
		Easer:  true,
		Cacher: &memoryCacher{},
	}}
}

func (db *Database) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// IsCloseConnection reports whether the pool fails a ping within two seconds.
func (db *Database) IsCloseConnection() bool {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx) != nil
}
