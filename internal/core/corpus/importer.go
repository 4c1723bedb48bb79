package corpus

import (
	"context"
	"fmt"

	"leftover-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// PageFetcher 下載並解析單一食譜頁面
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*common.Recipe, error)
}

// ImportResult 匯入結果
type ImportResult struct {
	Fetched []common.Recipe  // 成功解析的食譜，依網址順序
	Failed  map[string]error // 網址 -> 失敗原因
	Added   int              // 實際寫入食譜庫的數量（去重後）
}

// Import 依序下載網址並把解析到的食譜合併進食譜庫。
// 單一網址失敗只會記錄在 Failed，不會中斷其他網址。
func Import(ctx context.Context, fetcher PageFetcher, store *Store, urls []string) (*ImportResult, error) {
	res := &ImportResult{Failed: make(map[string]error)}
	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		r, err := fetcher.Fetch(ctx, u)
		if err != nil {
			common.LogWarn("食譜頁面匯入失敗", zap.String("url", u), zap.Error(err))
			res.Failed[u] = err
			continue
		}
		res.Fetched = append(res.Fetched, *r)
	}

	if len(res.Fetched) == 0 {
		return res, nil
	}
	added, err := store.Merge(res.Fetched)
	if err != nil {
		return res, fmt.Errorf("failed to merge imported recipes: %w", err)
	}
	res.Added = added
	return res, nil
}

// MergeRecipes 將外部的食譜清單整理食材行後併入食譜庫
func MergeRecipes(store *Store, items []common.Recipe) (int, error) {
	cleaned := make([]common.Recipe, 0, len(items))
	for _, r := range items {
		r.Ingredients = CleanIngredientLines(r.Ingredients)
		if len(r.Ingredients) == 0 {
			continue
		}
		r.ID = ""
		cleaned = append(cleaned, r)
	}
	return store.Merge(cleaned)
}
