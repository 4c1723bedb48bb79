package mealdb

import (
	"bytes"
	"fmt"
	"strings"

	"leftover-chef/internal/pkg/common"

	"github.com/goccy/go-json"
)

// maxIngredientSlots TheMealDB 每道菜最多 20 個食材欄位
const maxIngredientSlots = 20

type envelope struct {
	Meals json.RawMessage `json:"meals"`
}

// decodeMeals 解析 {"meals": [...]}；meals 為 null 或非陣列時視為沒有結果
func decodeMeals(body []byte) ([]map[string]any, error) {
	var env envelope
	if err := common.ParseJSONBytes(body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse mealdb response: %w", err)
	}

	raw := bytes.TrimSpace(env.Meals)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, nil
	}

	var meals []map[string]any
	if err := common.ParseJSONBytes(raw, &meals); err != nil {
		return nil, fmt.Errorf("failed to parse mealdb meals: %w", err)
	}
	return meals, nil
}

// field 取字串欄位並去除前後空白；缺少或 null 時返回空字串
func field(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}

// toRecipe 將 API 的 meal 物件轉為 Recipe
func toRecipe(m map[string]any) common.Recipe {
	ingredients := make([]string, 0, maxIngredientSlots)
	for i := 1; i <= maxIngredientSlots; i++ {
		name := field(m, fmt.Sprintf("strIngredient%d", i))
		if name != "" {
			ingredients = append(ingredients, strings.ToLower(name))
		}
	}

	url := field(m, "strSource")
	if url == "" {
		url = field(m, "strYoutube")
	}

	return common.Recipe{
		ID:          field(m, "idMeal"),
		Title:       field(m, "strMeal"),
		Ingredients: ingredients,
		URL:         url,
		Area:        field(m, "strArea"),
		Category:    field(m, "strCategory"),
	}
}

// queryIngredient TheMealDB 以底線代替食材名稱中的空白
func queryIngredient(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}
