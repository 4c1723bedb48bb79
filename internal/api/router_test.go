package api

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"leftover-chef/internal/app"
	"leftover-chef/internal/core/mealdb/mealdbtest"
	"leftover-chef/internal/infrastructure/config"
	"leftover-chef/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

func setupTestRouter(t *testing.T, mutate func(*config.Config)) *gin.Engine {
	t.Helper()

	srv := mealdbtest.NewServer(t, mealdbtest.Pantry())
	cfg := &config.Config{
		App: config.AppConfig{Version: "test"},
		MealDB: config.MealDBConfig{
			BaseURL:         srv.URL,
			UserAgent:       "LeftoverChef/test",
			Timeout:         5 * time.Second,
			BreakerFailures: 5,
			BreakerTimeout:  time.Second,
		},
		Cache: config.CacheConfig{Enabled: true, Backend: "memory", MaxSize: 100, TTL: time.Minute},
		Search: config.SearchConfig{
			Workers:       4,
			ResultLimit:   10,
			MissingLimit:  5,
			Lemmatizer:    "suffix",
			AcceptCutoff:  0.86,
			SuggestCutoff: 0.6,
		},
		Favorites:   config.FavoritesConfig{File: filepath.Join(t.TempDir(), "favorites.json")},
		DedupWindow: time.Nanosecond,
	}
	if mutate != nil {
		mutate(cfg)
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return SetupRouter(cfg, a)
}

func request(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSearchEndpoint(t *testing.T) {
	r := setupTestRouter(t, nil)

	w := request(r, http.MethodPost, "/api/v1/recipes/search", map[string]interface{}{
		"ingredients": []string{"pasta", "tomatoes"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}

	var res common.SearchResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Strict || len(res.Recipes) != 2 || res.Recipes[0].Recipe.Title != "Tomato Pasta" {
		t.Errorf("result = %+v", res)
	}
	if res.Recipes[0].Recipe.URL != "https://example.com/2" {
		t.Errorf("url = %q", res.Recipes[0].Recipe.URL)
	}
}

func TestSearchEndpointErrors(t *testing.T) {
	r := setupTestRouter(t, nil)

	tests := []struct {
		name     string
		body     interface{}
		wantCode int
		wantErr  string
	}{
		{"missing ingredients", map[string]interface{}{}, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"empty list", map[string]interface{}{"ingredients": []string{}}, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"nothing recognised", map[string]interface{}{"ingredients": []string{"xyzzy"}}, http.StatusUnprocessableEntity, common.ErrCodeNoValidInput},
		{"bad weight", map[string]interface{}{"ingredients": []string{"pasta"}, "weights": map[string]float64{"pasta": -1}}, http.StatusBadRequest, common.ErrCodeInvalidRequest},
	}
	for _, tt := range tests {
		w := request(r, http.MethodPost, "/api/v1/recipes/search", tt.body)
		if w.Code != tt.wantCode {
			t.Errorf("%s: status = %d, want %d (%s)", tt.name, w.Code, tt.wantCode, w.Body.String())
			continue
		}
		var body common.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Errorf("%s: decode: %v", tt.name, err)
			continue
		}
		if body.Code != tt.wantErr {
			t.Errorf("%s: code = %q, want %q", tt.name, body.Code, tt.wantErr)
		}
	}
}

func TestSearchRejectInvalid(t *testing.T) {
	r := setupTestRouter(t, func(cfg *config.Config) { cfg.Search.RejectInvalid = true })

	w := request(r, http.MethodPost, "/api/v1/recipes/search", map[string]interface{}{
		"ingredients": []string{"pasta", "garlik"},
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var body struct {
		Code    string `json:"code"`
		Details struct {
			Valid       []string          `json:"valid"`
			Invalid     []string          `json:"invalid"`
			Suggestions map[string]string `json:"suggestions"`
		} `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Code != common.ErrCodeInvalidInput || body.Details.Suggestions["garlik"] != "garlic" {
		t.Errorf("body = %+v", body)
	}
}

func TestExportEndpoint(t *testing.T) {
	r := setupTestRouter(t, nil)

	w := request(r, http.MethodPost, "/api/v1/recipes/export", map[string]interface{}{
		"ingredients": []string{"pasta", "tomato"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	rows, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[1][0] != "Tomato Pasta" || rows[1][2] != "2.800" {
		t.Errorf("rows = %q", rows)
	}
}

func TestValidateEndpoint(t *testing.T) {
	r := setupTestRouter(t, nil)

	w := request(r, http.MethodPost, "/api/v1/ingredients/validate", map[string]interface{}{
		"ingredients": []string{"Tomatoes", "garlik", "xyzzy"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var v struct {
		Valid       []string          `json:"valid"`
		Invalid     []string          `json:"invalid"`
		Suggestions map[string]string `json:"suggestions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatal(err)
	}
	if len(v.Valid) != 1 || v.Valid[0] != "tomato" {
		t.Errorf("valid = %q", v.Valid)
	}
	if len(v.Invalid) != 2 || v.Suggestions["garlik"] != "garlic" {
		t.Errorf("invalid = %q suggestions = %v", v.Invalid, v.Suggestions)
	}
}

func TestFavoritesEndpoints(t *testing.T) {
	r := setupTestRouter(t, nil)

	// 內容以食譜來源為準，用戶端送來的其他欄位不會被保存
	body := map[string]interface{}{"id": "2", "title": "Something Else", "url": ""}
	if w := request(r, http.MethodPost, "/api/v1/favorites", body); w.Code != http.StatusCreated {
		t.Fatalf("add status = %d body = %s", w.Code, w.Body.String())
	}
	if w := request(r, http.MethodPost, "/api/v1/favorites", body); w.Code != http.StatusOK {
		t.Errorf("duplicate add status = %d", w.Code)
	}

	tests := []struct {
		name     string
		body     interface{}
		wantCode int
	}{
		{"missing id", map[string]interface{}{"title": "no id", "url": "https://example.com/x"}, http.StatusBadRequest},
		{"unknown id", map[string]interface{}{"id": "404"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		if w := request(r, http.MethodPost, "/api/v1/favorites", tt.body); w.Code != tt.wantCode {
			t.Errorf("%s: status = %d, want %d (%s)", tt.name, w.Code, tt.wantCode, w.Body.String())
		}
	}

	w := request(r, http.MethodGet, "/api/v1/favorites", nil)
	var list struct {
		Favorites []common.Recipe `json:"favorites"`
		Count     int             `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if list.Count != 1 || list.Favorites[0].ID != "2" ||
		list.Favorites[0].Title != "Tomato Pasta" || list.Favorites[0].URL != "https://example.com/2" {
		t.Errorf("list = %+v", list)
	}

	if w := request(r, http.MethodDelete, "/api/v1/favorites/2", nil); w.Code != http.StatusNoContent {
		t.Errorf("remove status = %d", w.Code)
	}
	if w := request(r, http.MethodDelete, "/api/v1/favorites/2", nil); w.Code != http.StatusNotFound {
		t.Errorf("second remove status = %d", w.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	r := setupTestRouter(t, nil)

	w := request(r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
	var h struct {
		Status     string                 `json:"status"`
		Vocabulary int                    `json:"vocabulary"`
		Breaker    string                 `json:"breaker"`
		Cache      map[string]interface{} `json:"cache"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &h); err != nil {
		t.Fatal(err)
	}
	if h.Status != "ok" || h.Vocabulary != 9 || h.Breaker != "closed" || h.Cache["enabled"] != true {
		t.Errorf("health = %+v", h)
	}

	for _, path := range []string{"/ready", "/live"} {
		if w := request(r, http.MethodGet, path, nil); w.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, w.Code)
		}
	}

	w = request(r, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "leftover_chef_http_requests_total") {
		t.Errorf("metrics status = %d", w.Code)
	}
}

func TestDeduplicationOnAPI(t *testing.T) {
	r := setupTestRouter(t, func(cfg *config.Config) { cfg.DedupWindow = time.Minute })

	body := map[string]interface{}{"ingredients": []string{"xyzzy"}}
	if w := request(r, http.MethodPost, "/api/v1/ingredients/validate", body); w.Code != http.StatusOK {
		t.Fatalf("first status = %d", w.Code)
	}
	if w := request(r, http.MethodPost, "/api/v1/ingredients/validate", body); w.Code != http.StatusTooManyRequests {
		t.Errorf("repeat status = %d, want 429", w.Code)
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	srv := mealdbtest.NewServer(t, mealdbtest.Pantry())
	cfg := &config.Config{
		MealDB: config.MealDBConfig{BaseURL: srv.URL, Timeout: time.Second},
		Search: config.SearchConfig{Lemmatizer: "suffix"},
	}
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := Run(ctx, a); err != nil {
		t.Errorf("Run = %v, want nil after cancel", err)
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	r := setupTestRouter(t, nil)

	tests := []struct {
		method   string
		path     string
		wantCode int
		wantErr  string
	}{
		{http.MethodGet, "/api/v1/nowhere", http.StatusNotFound, common.ErrCodeNotFound},
		{http.MethodGet, "/api/v1/recipes/search", http.StatusMethodNotAllowed, common.ErrCodeMethodNotAllowed},
	}
	for _, tt := range tests {
		w := request(r, tt.method, tt.path, nil)
		if w.Code != tt.wantCode {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, w.Code, tt.wantCode)
			continue
		}
		var body common.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Code != tt.wantErr {
			t.Errorf("%s %s: body = %s (%v)", tt.method, tt.path, w.Body.String(), err)
		}
	}
}
