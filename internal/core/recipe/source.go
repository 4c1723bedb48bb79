package recipe

import (
	"context"
	"errors"
	"fmt"

	"leftover-chef/internal/core/cache"
	"leftover-chef/internal/metrics"
	"leftover-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// Source 食譜資料來源
type Source interface {
	// FilterByIngredient 返回包含該食材的食譜 ID
	FilterByIngredient(ctx context.Context, ingredient string) ([]string, error)
	// LookupRecipe 取得完整食譜；不存在時返回 nil, nil
	LookupRecipe(ctx context.Context, id string) (*common.Recipe, error)
	// ListIngredients 返回來源已知的所有食材名稱
	ListIngredients(ctx context.Context) ([]string, error)
}

// 快取鍵前綴
const (
	keyFilter      = "filter:"
	keyLookup      = "lookup:"
	keyIngredients = "ingredients"
)

// CachedSource 以快取包裝 Source，只快取成功的回應
type CachedSource struct {
	next  Source
	store cache.Store
}

// NewCachedSource 創建帶快取的來源；store 為 nil 時直接返回 next
func NewCachedSource(next Source, store cache.Store) Source {
	if store == nil {
		return next
	}
	return &CachedSource{next: next, store: store}
}

// FilterByIngredient 帶快取的食材篩選
func (s *CachedSource) FilterByIngredient(ctx context.Context, ingredient string) ([]string, error) {
	key := keyFilter + ingredient
	var ids []string
	if s.load(ctx, "filter", key, &ids) {
		return ids, nil
	}

	ids, err := s.next.FilterByIngredient(ctx, ingredient)
	if err != nil {
		return nil, err
	}
	s.save(ctx, key, ids)
	return ids, nil
}

// LookupRecipe 帶快取的食譜查詢；不存在的 ID 也會被快取
func (s *CachedSource) LookupRecipe(ctx context.Context, id string) (*common.Recipe, error) {
	key := keyLookup + id
	var r *common.Recipe
	if s.load(ctx, "lookup", key, &r) {
		return r, nil
	}

	r, err := s.next.LookupRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	s.save(ctx, key, r)
	return r, nil
}

// ListIngredients 帶快取的食材清單
func (s *CachedSource) ListIngredients(ctx context.Context) ([]string, error) {
	var names []string
	if s.load(ctx, "ingredients", keyIngredients, &names) {
		return names, nil
	}

	names, err := s.next.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	s.save(ctx, keyIngredients, names)
	return names, nil
}

// load 從快取讀取並解碼；任何失敗都視為未命中
func (s *CachedSource) load(ctx context.Context, kind, key string, out interface{}) bool {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("讀取快取失敗", zap.String("key", key), zap.Error(err))
		}
		metrics.RecordCache(kind, false)
		return false
	}
	if err := common.ParseJSON(raw, out); err != nil {
		common.LogWarn("快取內容無法解析", zap.String("key", key), zap.Error(err))
		metrics.RecordCache(kind, false)
		return false
	}
	metrics.RecordCache(kind, true)
	return true
}

// save 寫入快取；失敗只記錄不中斷
func (s *CachedSource) save(ctx context.Context, key string, v interface{}) {
	raw, err := common.ToJSON(v)
	if err != nil {
		common.LogWarn("快取內容無法序列化", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, key, raw); err != nil {
		common.LogWarn("寫入快取失敗", zap.String("key", key), zap.Error(fmt.Errorf("set %s: %w", key, err)))
	}
}
