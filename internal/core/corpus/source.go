package corpus

import (
	"context"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"leftover-chef/internal/core/matching"
	"leftover-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// Source 以本地食譜庫作為食譜來源，檔案變更時重新載入；沒有網址的食譜不會提供
type Source struct {
	store *Store
	norm  *matching.Normalizer

	mu      sync.Mutex
	modTime time.Time
	size    int64
	recipes []common.Recipe
	byID    map[string]int
	byToken map[string][]string // 正規化食材 -> 食譜 ID
}

// NewSource 創建本地食譜來源
func NewSource(store *Store) *Source {
	return &Source{store: store, norm: matching.NewNormalizer(nil)}
}

// FilterByIngredient 返回含有該食材的食譜 ID；先以原字查詢，找不到再正規化後查詢
func (s *Source) FilterByIngredient(ctx context.Context, ingredient string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refresh(); err != nil {
		return nil, err
	}

	key := strings.Join(strings.Fields(strings.ToLower(ingredient)), " ")
	ids, ok := s.byToken[key]
	if !ok {
		if tok, valid := s.norm.Token(ingredient); valid {
			ids = s.byToken[tok]
		}
	}
	return append([]string{}, ids...), nil
}

// LookupRecipe 依 ID 取得食譜；不存在時返回 nil, nil
func (s *Source) LookupRecipe(ctx context.Context, id string) (*common.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refresh(); err != nil {
		return nil, err
	}
	i, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	r := s.recipes[i]
	r.Ingredients = append([]string{}, r.Ingredients...)
	return &r, nil
}

// ListIngredients 返回食譜庫中出現過的所有食材（正規化後），排序去重
func (s *Source) ListIngredients(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refresh(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(s.byToken))
	for tok := range s.byToken {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out, nil
}

// refresh 檔案修改時間改變時重建索引；呼叫者需持有 mu
func (s *Source) refresh() error {
	var modTime time.Time
	var size int64
	if info, err := os.Stat(s.store.Path()); err == nil {
		modTime, size = info.ModTime(), info.Size()
	}
	if s.byID != nil && modTime.Equal(s.modTime) && size == s.size {
		return nil
	}

	recipes, err := s.store.Load()
	if err != nil {
		return err
	}

	kept := recipes[:0]
	for _, r := range recipes {
		if r.URL == "" {
			continue
		}
		kept = append(kept, r)
	}
	recipes = kept

	byID := make(map[string]int, len(recipes))
	byToken := make(map[string][]string)
	for i, r := range recipes {
		byID[r.ID] = i
		for _, tok := range s.norm.Normalize(r.Ingredients) {
			byToken[tok] = append(byToken[tok], r.ID)
		}
	}

	s.recipes, s.byID, s.byToken = recipes, byID, byToken
	s.modTime, s.size = modTime, size
	common.LogDebug("食譜庫已載入", zap.String("path", s.store.Path()), zap.Int("recipes", len(recipes)))
	return nil
}
