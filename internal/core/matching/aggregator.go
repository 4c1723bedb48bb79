package matching

import (
	"sort"
	"strings"
)

// DefaultMaxCandidates 聚合結果上限
const DefaultMaxCandidates = 50

// IDSet 食譜 ID 集合
type IDSet map[string]struct{}

// NewIDSet 由 ID 清單建立集合，空字串會被略過
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		if id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

// Aggregate 聚合每個食材的候選 ID。
// 所有集合的交集非空時返回交集（strict=true）；
// 否則依出現次數遞減、ID 遞增排序返回前 limit 個（strict=false）。
func Aggregate(sets []IDSet, limit int) ([]string, bool) {
	if limit <= 0 {
		limit = DefaultMaxCandidates
	}
	if len(sets) == 0 {
		return []string{}, false
	}

	if common := intersect(sets); len(common) > 0 {
		ids := make([]string, 0, len(common))
		for id := range common {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return lessID(ids[i], ids[j]) })
		if len(ids) > limit {
			ids = ids[:limit]
		}
		return ids, true
	}

	counts := make(map[string]int)
	for _, s := range sets {
		for id := range s {
			counts[id]++
		}
	}
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return lessID(ids[i], ids[j])
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, false
}

// intersect 從最小的集合開始求交集
func intersect(sets []IDSet) IDSet {
	smallest := 0
	for i, s := range sets {
		if len(s) < len(sets[smallest]) {
			smallest = i
		}
	}
	out := make(IDSet, len(sets[smallest]))
	for id := range sets[smallest] {
		inAll := true
		for i, s := range sets {
			if i == smallest {
				continue
			}
			if _, ok := s[id]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			out[id] = struct{}{}
		}
	}
	return out
}

// lessID 全數字 ID 以數值比較，數值相同時（"012" 與 "12"）再比原字串；其餘以字串比較
func lessID(a, b string) bool {
	if isDigits(a) && isDigits(b) {
		ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
		if len(ta) != len(tb) {
			return len(ta) < len(tb)
		}
		if ta != tb {
			return ta < tb
		}
	}
	return a < b
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
