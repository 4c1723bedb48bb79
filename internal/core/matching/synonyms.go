package matching

import "sort"

// Expander 在固定同義詞關係下封閉 token 集合
type Expander struct {
	groups map[string][]string // token -> 所屬（已合併）群組，已排序
}

// NewExpander 建立同義詞展開器。表格會先經過正規化，
// 重疊的群組在建立時合併，因此單次查詢即為遞移封閉。
func NewExpander(synonyms map[string][]string, n *Normalizer) *Expander {
	if n == nil {
		n = NewNormalizer(nil)
	}

	parent := make(map[string]string)
	var find func(string) string
	find = func(x string) string {
		p, ok := parent[x]
		if !ok {
			parent[x] = x
			return x
		}
		if p == x {
			return x
		}
		root := find(p)
		parent[x] = root
		return root
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		// 以字典序較小者為根，確保結果與 map 迭代順序無關
		if rb < ra {
			ra, rb = rb, ra
		}
		parent[rb] = ra
	}

	for canonical, equivalents := range synonyms {
		key, ok := n.Token(canonical)
		if !ok {
			continue
		}
		find(key)
		for _, eq := range equivalents {
			if tok, ok := n.Token(eq); ok {
				union(key, tok)
			}
		}
	}

	members := make(map[string][]string)
	for tok := range parent {
		root := find(tok)
		members[root] = append(members[root], tok)
	}

	groups := make(map[string][]string, len(parent))
	for _, group := range members {
		if len(group) < 2 {
			continue
		}
		sort.Strings(group)
		for _, tok := range group {
			groups[tok] = group
		}
	}
	return &Expander{groups: groups}
}

// Group 返回 token 所屬的同義詞群組（不含時返回 nil）
func (e *Expander) Group(token string) []string {
	g, ok := e.groups[token]
	if !ok {
		return nil
	}
	out := make([]string, len(g))
	copy(out, g)
	return out
}

// Canonical 返回 token 所屬群組的代表（字典序最小者）；不屬於任何群組時原樣返回
func (e *Expander) Canonical(token string) string {
	if g, ok := e.groups[token]; ok {
		return g[0]
	}
	return token
}

// Expand 加入每個 token 的整個同義詞群組，結果排序
func (e *Expander) Expand(tokens []string) []string {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if t == "" {
			continue
		}
		set[t] = struct{}{}
		for _, eq := range e.groups[t] {
			set[eq] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
