package mealdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"leftover-chef/internal/infrastructure/config"
	"leftover-chef/internal/metrics"
	"leftover-chef/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TheMealDB 端點
const (
	endpointFilter = "/filter.php"
	endpointLookup = "/lookup.php"
	endpointList   = "/list.php"
)

// Client TheMealDB API 客戶端，所有呼叫都經過限流與斷路器
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewClient 創建 TheMealDB 客戶端
func NewClient(cfg config.MealDBConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	settings := gobreaker.Settings{
		Name:        "mealdb",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			common.LogWarn("斷路器狀態變更",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
	}

	return &Client{
		http:    client,
		limiter: rate.NewLimiter(limit, burst),
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// BreakerState 返回斷路器目前狀態（用於健康檢查）
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// get 發送 GET 請求並返回原始回應內容
func (c *Client) get(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(params).
			Get(endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to send request to %s: %w", endpoint, err)
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("%s returned status %d", endpoint, resp.StatusCode())
		}
		return resp.Body(), nil
	})
	elapsed := time.Since(start)

	metrics.RecordUpstream(endpoint, elapsed, err)
	common.LogUpstreamCall(endpoint, elapsed, err)

	if err != nil {
		return nil, common.ErrUpstream.Wrap(err)
	}
	return body, nil
}

// FilterByIngredient 返回包含指定食材的食譜 ID
func (c *Client) FilterByIngredient(ctx context.Context, ingredient string) ([]string, error) {
	body, err := c.get(ctx, endpointFilter, map[string]string{"i": queryIngredient(ingredient)})
	if err != nil {
		return nil, err
	}
	meals, err := decodeMeals(body)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(meals))
	for _, m := range meals {
		if id := field(m, "idMeal"); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// LookupRecipe 依 ID 取得完整食譜；不存在時返回 nil, nil
func (c *Client) LookupRecipe(ctx context.Context, id string) (*common.Recipe, error) {
	body, err := c.get(ctx, endpointLookup, map[string]string{"i": id})
	if err != nil {
		return nil, err
	}
	meals, err := decodeMeals(body)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, nil
	}
	r := toRecipe(meals[0])
	if r.URL == "" {
		common.LogDebug("略過沒有來源連結的食譜", zap.String("id", id), zap.String("title", r.Title))
		return nil, nil
	}
	return &r, nil
}

// ListIngredients 返回 API 已知的所有食材名稱
func (c *Client) ListIngredients(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, endpointList, map[string]string{"i": "list"})
	if err != nil {
		return nil, err
	}
	meals, err := decodeMeals(body)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(meals))
	for _, m := range meals {
		if name := field(m, "strIngredient"); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
