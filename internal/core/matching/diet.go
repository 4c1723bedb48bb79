package matching

import (
	"leftover-chef/internal/pkg/common"
)

// DietFilter 依素食、純素、無麩質限制過濾食譜
type DietFilter struct {
	norm   *Normalizer
	exp    *Expander
	meat   map[string]struct{}
	dairy  map[string]struct{}
	egg    map[string]struct{}
	gluten map[string]struct{}
}

// NewDietFilter 建立飲食過濾器；分類集合以相同的正規化器處理，
// 讓 "noodles" 這類複數表格項目與正規化後的食材一致
func NewDietFilter(t *Tables, n *Normalizer, e *Expander) *DietFilter {
	if n == nil {
		n = NewNormalizer(nil)
	}
	if e == nil {
		e = NewExpander(nil, n)
	}
	return &DietFilter{
		norm:   n,
		exp:    e,
		meat:   toSet(n.Normalize(t.Meat)),
		dairy:  toSet(n.Normalize(t.Dairy)),
		egg:    toSet(n.Normalize(t.Egg)),
		gluten: toSet(n.Normalize(t.Gluten)),
	}
}

// Matches 食譜食材是否符合所有啟用的限制
func (f *DietFilter) Matches(ingredients []string, prefs common.DietaryPreferences) bool {
	tokens := f.exp.Expand(f.norm.Normalize(ingredients))

	if prefs.Vegan {
		if intersects(tokens, f.meat) || intersects(tokens, f.dairy) || intersects(tokens, f.egg) {
			return false
		}
	} else if prefs.Vegetarian {
		if intersects(tokens, f.meat) {
			return false
		}
	}

	if prefs.GlutenFree && intersects(tokens, f.gluten) {
		return false
	}
	return true
}

func toSet(tokens []string) map[string]struct{} {
	s := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		s[t] = struct{}{}
	}
	return s
}

func intersects(tokens []string, set map[string]struct{}) bool {
	for _, t := range tokens {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}
