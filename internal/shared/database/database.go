package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"antesala/internal/shared/config"
	"antesala/pkg/logger"
)

// DB holds database connections. Either may be nil when the storage backend does not need it.
type DB struct {
	PostgreSQL *gorm.DB
	Redis      *redis.Client

	// RemoteErr is set when the remote backend was requested but Postgres could not be reached
	RemoteErr error
}

// InitDB opens the connections the configured storage backend needs
func InitDB(cfg *config.Config, log *logger.Logger) (*DB, error) {
	db := &DB{}

	if cfg.Storage.Backend == config.StorageRemote {
		pg, err := connectRemote(cfg)
		if err != nil {
			// Not fatal: the local store carries every operation instead
			db.RemoteErr = err
			log.LogPersistenceFallback(context.Background(), "postgres", err)
		} else {
			db.PostgreSQL = pg
			log.Info("PostgreSQL connected", "host", cfg.Database.Host, "database", cfg.Database.Name)
		}
	}

	if cfg.Storage.Backend != config.StorageMemory {
		rdb, err := initRedis(cfg)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		db.Redis = rdb
		log.Info("Redis connected", "addr", cfg.Redis.Addr())
	}

	return db, nil
}

// connectRemote opens Postgres and migrates the document table
func connectRemote(cfg *config.Config) (*gorm.DB, error) {
	pg, err := initPostgreSQL(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	if err := Migrate(pg); err != nil {
		if sqlDB, dbErr := pg.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return pg, nil
}

// initPostgreSQL initializes PostgreSQL connection with GORM
func initPostgreSQL(cfg *config.Config) (*gorm.DB, error) {
	var gormLogger gormlogger.Interface
	if cfg.IsDevelopment() {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Warn)
	} else {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	gormConfig := &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt: true,
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// initRedis initializes Redis connection
func initRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,

		PoolSize:     10,
		MinIdleConns: 2,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// Close closes all database connections
func (db *DB) Close() error {
	var firstErr error

	if db.PostgreSQL != nil {
		if sqlDB, err := db.PostgreSQL.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				firstErr = fmt.Errorf("failed to close PostgreSQL: %w", err)
			}
		}
	}

	if db.Redis != nil {
		if err := db.Redis.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return firstErr
}

// HealthCheck performs health checks on all open connections
func (db *DB) HealthCheck(ctx context.Context) error {
	if db.PostgreSQL != nil {
		sqlDB, err := db.PostgreSQL.DB()
		if err != nil {
			return fmt.Errorf("PostgreSQL health check failed: %w", err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("PostgreSQL ping failed: %w", err)
		}
	}

	if db.Redis != nil {
		if err := db.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
	}

	return nil
}
