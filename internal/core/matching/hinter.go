package matching

// Missing 返回食譜中使用者沒有的前 k 項食材，保留食譜順序。只用於顯示，不影響排名。
func Missing(user []string, recipe []string, k int) []string {
	if k <= 0 {
		return []string{}
	}
	have := toSet(user)
	out := make([]string, 0, k)
	for _, tok := range recipe {
		if _, ok := have[tok]; ok {
			continue
		}
		out = append(out, tok)
		if len(out) == k {
			break
		}
	}
	return out
}

// Matched 返回食譜中使用者已有的食材，保留食譜順序
func Matched(user []string, recipe []string) []string {
	have := toSet(user)
	out := make([]string, 0, len(recipe))
	for _, tok := range recipe {
		if _, ok := have[tok]; ok {
			out = append(out, tok)
		}
	}
	return out
}
