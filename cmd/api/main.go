package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"leftover-chef/internal/api"
	"leftover-chef/internal/app"
	"leftover-chef/internal/infrastructure/config"
	"leftover-chef/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（.env 可選）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogFile, cfg.LogMode); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("mealdb_base_url", cfg.MealDB.BaseURL),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("redis_password", config.MaskSecret(cfg.Cache.Redis.Password)),
	)

	// 等待中斷信號
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		common.LogFatal("Failed to initialize application", zap.Error(err))
	}
	defer a.Close()

	if err := api.Run(ctx, a); err != nil {
		common.LogError("Server error", zap.Error(err))
		os.Exit(1)
	}
}
