package common

import (
	"fmt"
	"strings"
)

// Recipe 食譜，由食譜來源建立後不再修改
type Recipe struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"` // 保留食譜宣告順序
	URL         string   `json:"url"`
	Area        string   `json:"area,omitempty"`
	Category    string   `json:"category,omitempty"`
}

// ScoredRecipe 單次查詢的評分結果
type ScoredRecipe struct {
	Recipe  Recipe   `json:"recipe"`
	Score   float64  `json:"score"`
	Matched []string `json:"matched,omitempty"`
	Missing []string `json:"missing"`
}

// DietaryPreferences 飲食限制
type DietaryPreferences struct {
	Vegetarian bool `json:"vegetarian"`
	Vegan      bool `json:"vegan"`
	GlutenFree bool `json:"gluten_free"`
}

// String 以逗號連接已啟用的限制
func (p DietaryPreferences) String() string {
	var parts []string
	if p.Vegan {
		parts = append(parts, "vegan")
	}
	if p.Vegetarian {
		parts = append(parts, "vegetarian")
	}
	if p.GlutenFree {
		parts = append(parts, "gluten-free")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// SearchRequest 依食材搜尋食譜的請求
type SearchRequest struct {
	Ingredients  []string           `json:"ingredients" binding:"required,min=1"`
	Diet         DietaryPreferences `json:"diet"`
	Limit        int                `json:"limit,omitempty"`
	MissingLimit int                `json:"missing_limit,omitempty"`
	Weights      map[string]float64 `json:"weights,omitempty"`
}

// SearchResult 搜尋結果
type SearchResult struct {
	Recipes     []ScoredRecipe    `json:"recipes"`
	Valid       []string          `json:"valid"`
	Invalid     []string          `json:"invalid,omitempty"`
	Suggestions map[string]string `json:"suggestions,omitempty"`
	Strict      bool              `json:"strict"`     // true 表示所有食材皆符合的交集結果
	Candidates  int               `json:"candidates"` // 聚合後候選食譜數量
}

// FormatScoredRecipe 以單行文字格式化評分結果
func FormatScoredRecipe(rank int, r ScoredRecipe) string {
	line := fmt.Sprintf("%d) %s (%.3f)", rank, r.Recipe.Title, r.Score)
	if len(r.Matched) > 0 {
		line += " – matches: " + StringSliceToString(r.Matched)
	}
	if len(r.Missing) > 0 {
		line += " – missing: " + StringSliceToString(r.Missing)
	}
	return line
}
