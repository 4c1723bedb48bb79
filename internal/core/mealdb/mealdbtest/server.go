// Package mealdbtest 提供測試用的 TheMealDB 假伺服器
package mealdbtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

// Meal 假伺服器上的一道食譜
type Meal struct {
	ID          string
	Title       string
	Ingredients []string
	Source      string
	Area        string
	Category    string
}

// Fixture 假伺服器資料
type Fixture struct {
	Ingredients []string // list.php 返回的食材
	Meals       []Meal
}

// NewServer 啟動假伺服器，測試結束時自動關閉
func NewServer(t testing.TB, f Fixture) *httptest.Server {
	t.Helper()

	byID := make(map[string]Meal, len(f.Meals))
	for _, m := range f.Meals {
		byID[m.ID] = m
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/list.php", func(w http.ResponseWriter, r *http.Request) {
		items := make([]map[string]string, 0, len(f.Ingredients))
		for i, name := range f.Ingredients {
			items = append(items, map[string]string{
				"idIngredient":  fmt.Sprint(i + 1),
				"strIngredient": name,
			})
		}
		writeMeals(w, items)
	})
	mux.HandleFunc("/filter.php", func(w http.ResponseWriter, r *http.Request) {
		want := strings.ToLower(strings.ReplaceAll(r.URL.Query().Get("i"), "_", " "))
		var items []map[string]string
		for _, m := range f.Meals {
			for _, ing := range m.Ingredients {
				// 前綴比對，讓 tomato 也能找到 Tomatoes
				if want != "" && strings.HasPrefix(strings.ToLower(ing), want) {
					items = append(items, map[string]string{"idMeal": m.ID, "strMeal": m.Title})
					break
				}
			}
		}
		writeMeals(w, items)
	})
	mux.HandleFunc("/lookup.php", func(w http.ResponseWriter, r *http.Request) {
		m, ok := byID[r.URL.Query().Get("i")]
		if !ok {
			writeMeals(w, nil)
			return
		}
		item := map[string]string{
			"idMeal":      m.ID,
			"strMeal":     m.Title,
			"strSource":   m.Source,
			"strArea":     m.Area,
			"strCategory": m.Category,
		}
		for i, ing := range m.Ingredients {
			item[fmt.Sprintf("strIngredient%d", i+1)] = ing
		}
		writeMeals(w, []map[string]string{item})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// writeMeals 空結果與 TheMealDB 一樣輸出 {"meals":null}
func writeMeals(w http.ResponseWriter, items []map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	var payload struct {
		Meals []map[string]string `json:"meals"`
	}
	if len(items) > 0 {
		payload.Meals = items
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// Pantry 常用的測試資料
func Pantry() Fixture {
	return Fixture{
		Ingredients: []string{"Pasta", "Tomato", "Garlic", "Chicken", "Rice", "Cheese", "Basil", "Onion", "Spring Onion"},
		Meals: []Meal{
			{ID: "1", Title: "Plain Pasta", Ingredients: []string{"Pasta", "Salt", "Olive Oil"}, Source: "https://example.com/1", Area: "Italian", Category: "Pasta"},
			{ID: "2", Title: "Tomato Pasta", Ingredients: []string{"Pasta", "Tomatoes", "Garlic"}, Source: "https://example.com/2", Area: "Italian", Category: "Pasta"},
			{ID: "3", Title: "Cheesy Tomato Pasta", Ingredients: []string{"Pasta", "Tomatoes", "Cheese", "Basil"}, Source: "https://example.com/3", Area: "Italian", Category: "Pasta"},
			{ID: "4", Title: "Tomato Soup", Ingredients: []string{"Tomatoes", "Onion"}, Source: "https://example.com/4", Area: "British", Category: "Starter"},
			{ID: "5", Title: "Chicken Rice", Ingredients: []string{"Chicken", "Rice"}, Source: "https://example.com/5", Area: "Chinese", Category: "Chicken"},
		},
	}
}
