package recipe

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"leftover-chef/internal/core/matching"
	"leftover-chef/internal/metrics"
	"leftover-chef/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options 搜尋服務設定
type Options struct {
	Workers       int  // 並行查詢上限
	MaxCandidates int  // 聚合後最多查詢的食譜數
	ResultLimit   int  // 預設返回筆數
	MissingLimit  int  // 預設缺少食材提示數，0 使用 5
	RejectInvalid bool // 有無法辨識的食材時拒絕請求
}

// InputError 輸入驗證失敗，附帶驗證結果供呼叫者顯示
type InputError struct {
	Err        *common.CustomError
	Validation matching.Validation
}

func (e *InputError) Error() string { return e.Err.Error() }

// Unwrap 返回對應的 CustomError
func (e *InputError) Unwrap() error { return e.Err }

// Service 依食材搜尋並排名食譜
type Service struct {
	source Source
	engine *matching.Engine
	opts   Options
}

// NewService 創建搜尋服務
func NewService(source Source, engine *matching.Engine, opts Options) *Service {
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = matching.DefaultMaxCandidates
	}
	if opts.ResultLimit <= 0 {
		opts.ResultLimit = 10
	}
	if opts.MissingLimit <= 0 {
		opts.MissingLimit = 5
	}
	return &Service{source: source, engine: engine, opts: opts}
}

// Engine 返回使用中的匹配引擎
func (s *Service) Engine() *matching.Engine {
	return s.engine
}

// Validate 只做食材驗證
func (s *Service) Validate(raw []string) matching.Validation {
	return s.engine.Validator.Validate(raw)
}

// Search 驗證食材、聚合候選、過濾並評分，結果依分數遞減排序
func (s *Service) Search(ctx context.Context, req common.SearchRequest) (*common.SearchResult, error) {
	start := time.Now()

	v := s.engine.Validator.Validate(req.Ingredients)
	if len(v.Valid) == 0 {
		return nil, &InputError{Err: common.ErrNoValidIngredients, Validation: v}
	}
	if s.opts.RejectInvalid && len(v.Invalid) > 0 {
		return nil, &InputError{Err: common.ErrInvalidIngredients, Validation: v}
	}

	weights, err := s.engine.Weights(req.Weights)
	if err != nil {
		return nil, common.ErrInvalidRequest.Wrap(err)
	}

	sets, err := s.collectCandidates(ctx, v.Valid)
	if err != nil {
		return nil, err
	}
	ids, strict := matching.Aggregate(sets, s.opts.MaxCandidates)

	recipes, err := s.lookupRecipes(ctx, ids)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.opts.ResultLimit
	}
	missingLimit := req.MissingLimit
	if missingLimit <= 0 {
		missingLimit = s.opts.MissingLimit
	}

	user := s.engine.Canonical(v.Valid)
	scored := make([]common.ScoredRecipe, 0, len(recipes))
	for _, r := range recipes {
		if !s.engine.Diet.Matches(r.Ingredients, req.Diet) {
			continue
		}
		matched, missing := s.engine.Hints(v.Valid, r.Ingredients, missingLimit)
		scored = append(scored, common.ScoredRecipe{
			Recipe:  r,
			Score:   matching.Score(user, s.engine.Canonical(r.Ingredients), weights),
			Matched: matched,
			Missing: missing,
		})
	}
	sortScored(scored)
	if len(scored) > limit {
		scored = scored[:limit]
	}

	mode := "fallback"
	if strict {
		mode = "strict"
	}
	if len(ids) == 0 {
		mode = "empty"
	}
	metrics.RecordSearch(mode, time.Since(start))
	common.LogInfo("搜尋完成",
		zap.Strings("ingredients", v.Valid),
		zap.String("mode", mode),
		zap.Int("candidates", len(ids)),
		zap.Int("results", len(scored)),
		zap.String("diet", req.Diet.String()),
		zap.Duration("耗時", time.Since(start)),
	)

	return &common.SearchResult{
		Recipes:     scored,
		Valid:       v.Valid,
		Invalid:     v.Invalid,
		Suggestions: v.Suggestions,
		Strict:      strict,
		Candidates:  len(ids),
	}, nil
}

// collectCandidates 並行查詢每個食材的候選 ID。
// 單一食材失敗視為空集合；全部失敗時返回 ErrUpstream。
func (s *Service) collectCandidates(ctx context.Context, tokens []string) ([]matching.IDSet, error) {
	sets := make([]matching.IDSet, len(tokens))
	var (
		mu       sync.Mutex
		failures int
		lastErr  error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, tok := range tokens {
		i, tok := i, tok
		g.Go(func() error {
			ids, err := s.source.FilterByIngredient(gctx, tok)
			if err != nil {
				common.LogWarn("食材查詢失敗", zap.String("ingredient", tok), zap.Error(err))
				mu.Lock()
				failures++
				lastErr = err
				mu.Unlock()
				sets[i] = matching.NewIDSet()
				return nil
			}
			sets[i] = matching.NewIDSet(ids...)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, contextError(err)
	}
	if failures == len(tokens) {
		return nil, common.ErrUpstream.Wrap(lastErr)
	}
	return sets, nil
}

// lookupRecipes 並行取得食譜詳情，保留 ids 的順序；找不到的 ID 略過
func (s *Service) lookupRecipes(ctx context.Context, ids []string) ([]common.Recipe, error) {
	if len(ids) == 0 {
		return []common.Recipe{}, nil
	}

	found := make([]*common.Recipe, len(ids))
	var (
		mu       sync.Mutex
		failures int
		lastErr  error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			r, err := s.source.LookupRecipe(gctx, id)
			if err != nil {
				common.LogWarn("食譜查詢失敗", zap.String("id", id), zap.Error(err))
				mu.Lock()
				failures++
				lastErr = err
				mu.Unlock()
				return nil
			}
			found[i] = r
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, contextError(err)
	}
	if failures == len(ids) {
		return nil, common.ErrUpstream.Wrap(lastErr)
	}

	out := make([]common.Recipe, 0, len(ids))
	for _, r := range found {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

// sortScored 依分數遞減，再依標題、ID 遞增排序
func sortScored(rs []common.ScoredRecipe) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Score != rs[j].Score {
			return rs[i].Score > rs[j].Score
		}
		if rs[i].Recipe.Title != rs[j].Recipe.Title {
			return rs[i].Recipe.Title < rs[j].Recipe.Title
		}
		return rs[i].Recipe.ID < rs[j].Recipe.ID
	})
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return common.ErrRequestTimeout.Wrap(err)
	}
	return err
}
