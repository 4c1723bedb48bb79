package matching

import (
	"github.com/pmezard/go-difflib/difflib"
)

// 預設相似度門檻（Ratcliff/Obershelp ratio）
const (
	DefaultAcceptCutoff  = 0.86
	DefaultSuggestCutoff = 0.60
)

// chars 將字串拆成以 rune 為單位的序列
func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// Similarity 返回 2*M/T 形式的相似度，範圍 [0, 1]
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	return difflib.NewMatcher(chars(a), chars(b)).Ratio()
}

// closestMatch 在已排序的候選中找出最佳匹配。
// word 作為第二序列只建立一次索引，候選依序替換第一序列。
func closestMatch(word string, sortedCandidates []string, cutoff float64) (string, float64, bool) {
	if word == "" || len(sortedCandidates) == 0 {
		return "", 0, false
	}

	m := difflib.NewMatcher(nil, chars(word))
	best, bestScore, found := "", 0.0, false
	for _, cand := range sortedCandidates {
		m.SetSeq1(chars(cand))
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}
		score := m.Ratio()
		if score < cutoff {
			continue
		}
		// 候選已排序，嚴格大於才替換即為字典序最小者勝出
		if !found || score > bestScore {
			best, bestScore, found = cand, score, true
		}
	}
	return best, bestScore, found
}
