package app

import (
	"context"
	"fmt"
	"os"

	"leftover-chef/internal/core/cache"
	"leftover-chef/internal/core/corpus"
	"leftover-chef/internal/core/favorites"
	"leftover-chef/internal/core/matching"
	"leftover-chef/internal/core/mealdb"
	"leftover-chef/internal/core/recipe"
	"leftover-chef/internal/infrastructure/config"
	"leftover-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// App 組合好的應用程式元件，HTTP 與 CLI 共用
type App struct {
	Config    *config.Config
	Client    *mealdb.Client // 使用本地食譜庫時為 nil
	Corpus    *corpus.Store  // 使用 TheMealDB 時為 nil
	Cache     cache.Store   // 停用時為 nil
	Source    recipe.Source // 帶快取的食譜來源
	Search    *recipe.Service
	Favorites *favorites.Store
}

// Open 建立食譜來源、快取與收藏，不載入詞彙表
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := cache.NewStore(ctx, cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	a := &App{
		Config:    cfg,
		Cache:     store,
		Favorites: favorites.NewStore(cfg.Favorites.File),
	}

	switch cfg.Source {
	case config.SourceCorpus:
		// 本地檔案不經過快取
		a.Corpus = corpus.NewStore(cfg.Corpus.File)
		a.Source = corpus.NewSource(a.Corpus)
	default:
		a.Client = mealdb.NewClient(cfg.MealDB)
		a.Source = recipe.NewCachedSource(a.Client, store)
	}
	return a, nil
}

// New 初始化所有元件，包含詞彙表與搜尋服務。詞彙表為空時返回 ErrEmptyVocabulary
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := a.initSearch(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// initSearch 從食譜來源建立詞彙表、匹配引擎與搜尋服務
func (a *App) initSearch(ctx context.Context) error {
	cfg := a.Config

	vocab, err := recipe.LoadVocabulary(ctx, cfg.Vocabulary.File, a.Source)
	if err != nil {
		return err
	}

	tables, err := loadTables(cfg.Search.TablesFile)
	if err != nil {
		return err
	}

	engine, err := matching.NewEngine(vocab, tables, matching.Options{
		Lemmatizer:    cfg.Search.Lemmatizer,
		AcceptCutoff:  cfg.Search.AcceptCutoff,
		SuggestCutoff: cfg.Search.SuggestCutoff,
	})
	if err != nil {
		return fmt.Errorf("failed to build matching engine: %w", err)
	}

	a.Search = recipe.NewService(a.Source, engine, recipe.Options{
		Workers:       cfg.Search.Workers,
		MaxCandidates: cfg.Search.MaxCandidates,
		ResultLimit:   cfg.Search.ResultLimit,
		MissingLimit:  cfg.Search.MissingLimit,
		RejectInvalid: cfg.Search.RejectInvalid,
	})

	common.LogInfo("應用元件初始化完成",
		zap.String("source", cfg.Source),
		zap.Int("vocabulary", vocab.Len()),
		zap.String("lemmatizer", engine.Normalizer.Lemmatizer().Name()),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("favorites", cfg.Favorites.File),
	)
	return nil
}

// loadTables 讀取自訂表格檔；未設定時使用內嵌預設值
func loadTables(path string) (*matching.Tables, error) {
	if path == "" {
		return matching.DefaultTables()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables %s: %w", path, err)
	}
	return matching.ParseTables(data)
}

// BreakerState 返回食譜來源斷路器狀態
func (a *App) BreakerState() string {
	if a.Client == nil {
		return "unknown"
	}
	return a.Client.BreakerState()
}

// CacheStats 返回快取統計；停用時只有 enabled=false
func (a *App) CacheStats() map[string]interface{} {
	if a.Cache == nil {
		return map[string]interface{}{"enabled": false}
	}
	stats := a.Cache.Stats()
	stats["enabled"] = true
	return stats
}

// Close 釋放快取連線
func (a *App) Close() error {
	if a.Cache == nil {
		return nil
	}
	return a.Cache.Close()
}
