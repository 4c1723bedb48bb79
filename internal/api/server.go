package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"leftover-chef/internal/app"
	"leftover-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// 關閉超時
const shutdownTimeout = 5 * time.Second

// Run 啟動 HTTP 服務器，ctx 取消時優雅關閉
func Run(ctx context.Context, a *app.App) error {
	cfg := a.Config
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      SetupRouter(cfg, a),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.String("addr", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			common.LogError("Failed to start server", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	common.LogInfo("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return err
	}
	common.LogInfo("Server exited")
	return nil
}
