package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"vista/internal/config"
	"vista/internal/model"
	mysqlClient "vista/internal/platform/mysql"
	redisClient "vista/internal/platform/redis"
)

type App struct {
	Config *config.Config
	Log    zerolog.Logger
	MySQL  *gorm.DB
	Redis  *redis.Client

	StartedAt time.Time
}

func New(ctx context.Context, log zerolog.Logger) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.User{}, &model.Dataset{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.Open(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:    cfg,
		Log:       log,
		MySQL:     mysqlDB,
		Redis:     redisCli,
		StartedAt: time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
