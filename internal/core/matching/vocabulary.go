package matching

import (
	"sort"
	"strings"

	"leftover-chef/internal/pkg/common"
)

// Vocabulary 已知食材名稱集合，建立後唯讀，可安全並行查詢
type Vocabulary struct {
	terms  map[string]struct{}
	sorted []string
}

// NewVocabulary 建立詞彙表；清理後為空時返回 ErrEmptyVocabulary
func NewVocabulary(terms []string) (*Vocabulary, error) {
	v := &Vocabulary{terms: make(map[string]struct{}, len(terms))}
	for _, t := range terms {
		t = cleanTerm(t)
		if t == "" {
			continue
		}
		if _, dup := v.terms[t]; dup {
			continue
		}
		v.terms[t] = struct{}{}
		v.sorted = append(v.sorted, t)
	}
	if len(v.sorted) == 0 {
		return nil, common.ErrEmptyVocabulary
	}
	sort.Strings(v.sorted)
	return v, nil
}

// cleanTerm 小寫、去除前後空白並合併連續空白
func cleanTerm(t string) string {
	return strings.Join(strings.Fields(strings.ToLower(t)), " ")
}

// Contains 是否為已知食材
func (v *Vocabulary) Contains(term string) bool {
	_, ok := v.terms[term]
	return ok
}

// Len 詞彙數量
func (v *Vocabulary) Len() int {
	return len(v.sorted)
}

// Terms 返回排序後的詞彙副本
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.sorted))
	copy(out, v.sorted)
	return out
}

// ClosestMatch 返回相似度不低於 cutoff 的最佳候選；同分時取字典序最小者
func (v *Vocabulary) ClosestMatch(word string, cutoff float64) (string, float64, bool) {
	return closestMatch(word, v.sorted, cutoff)
}
