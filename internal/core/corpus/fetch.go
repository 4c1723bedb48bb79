package corpus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"leftover-chef/internal/infrastructure/config"
	"leftover-chef/internal/metrics"
	"leftover-chef/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const endpointPage = "recipe_page"

var (
	// ErrUnsupportedURL 網址不符合匯入過濾條件
	ErrUnsupportedURL = errors.New("unsupported recipe url")
	// ErrNoRecipe 頁面中沒有可用的 schema.org Recipe 資料
	ErrNoRecipe = errors.New("no recipe found on page")
)

// Fetcher 下載食譜頁面並從 JSON-LD 擷取標題與食材
type Fetcher struct {
	http   *resty.Client
	filter string
}

// NewFetcher 創建食譜頁面下載器
func NewFetcher(cfg config.CorpusConfig) *Fetcher {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html")

	return &Fetcher{http: client, filter: cfg.URLFilter}
}

// Fetch 下載一個食譜頁面；食材行已整理為食材名稱
func (f *Fetcher) Fetch(ctx context.Context, url string) (*common.Recipe, error) {
	if f.filter != "" && !strings.Contains(url, f.filter) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, url)
	}

	start := time.Now()
	resp, err := f.http.R().SetContext(ctx).Get(url)
	if err == nil && resp.IsError() {
		err = fmt.Errorf("%s returned status %d", url, resp.StatusCode())
	}
	elapsed := time.Since(start)
	metrics.RecordUpstream(endpointPage, elapsed, err)
	common.LogUpstreamCall(endpointPage, elapsed, err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	found, err := ExtractRecipes(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, err
	}
	for _, r := range found {
		ings := CleanIngredientLines(r.Ingredients)
		if len(ings) == 0 {
			continue
		}
		return &common.Recipe{
			Title:       strings.TrimSpace(r.Title),
			Ingredients: ings,
			URL:         url,
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoRecipe, url)
}

// PageRecipe 頁面 JSON-LD 中的食譜，食材為原始食材行
type PageRecipe struct {
	Title       string
	Ingredients []string
}

// ExtractRecipes 解析 HTML 中所有 application/ld+json 區塊，返回其中的 Recipe 節點。
// 支援單一物件、陣列與 @graph 形式；無法解析的區塊會被略過。
func ExtractRecipes(r io.Reader) ([]PageRecipe, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	var blocks []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" && isJSONLD(n) {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					blocks = append(blocks, c.Data)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var out []PageRecipe
	for _, block := range blocks {
		var data interface{}
		if err := common.ParseJSON(block, &data); err != nil {
			common.LogDebug("略過無法解析的 JSON-LD", zap.Error(err))
			continue
		}
		for _, node := range recipeNodes(data) {
			title := stringField(node, "name")
			if title == "" {
				title = stringField(node, "headline")
			}
			ings := stringList(node["recipeIngredient"])
			if len(ings) == 0 {
				ings = stringList(node["ingredients"])
			}
			if title != "" && len(ings) > 0 {
				out = append(out, PageRecipe{Title: title, Ingredients: ings})
			}
		}
	}
	return out, nil
}

func isJSONLD(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key == "type" && strings.EqualFold(strings.TrimSpace(a.Val), "application/ld+json") {
			return true
		}
	}
	return false
}

// recipeNodes 找出 @type 為 Recipe 的節點；頂層不是 Recipe 時查 @graph
func recipeNodes(data interface{}) []map[string]interface{} {
	var items []interface{}
	switch v := data.(type) {
	case []interface{}:
		items = v
	default:
		items = []interface{}{v}
	}

	var out []map[string]interface{}
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if isRecipe(obj) {
			out = append(out, obj)
			continue
		}
		graph, _ := obj["@graph"].([]interface{})
		for _, g := range graph {
			if node, ok := g.(map[string]interface{}); ok && isRecipe(node) {
				out = append(out, node)
				break
			}
		}
	}
	return out
}

func isRecipe(obj map[string]interface{}) bool {
	switch t := obj["@type"].(type) {
	case string:
		return t == "Recipe"
	case []interface{}:
		for _, v := range t {
			if s, ok := v.(string); ok && s == "Recipe" {
				return true
			}
		}
	}
	return false
}

func stringField(obj map[string]interface{}, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

func stringList(v interface{}) []string {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return []string{t}
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
