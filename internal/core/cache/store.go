package cache

import (
	"context"
	"fmt"

	"leftover-chef/internal/infrastructure/config"
	"leftover-chef/internal/pkg/common"
)

// 快取後端
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Store 字串鍵值快取。未命中時 Get 返回 common.ErrCacheMiss
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Stats() map[string]interface{}
	Close() error
}

// NewStore 依設定建立快取；停用時返回 nil, nil
func NewStore(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}

	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(cfg), nil
	case BackendRedis:
		s, err := NewRedisStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

func hitRatio(hits, misses int64) float64 {
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}
