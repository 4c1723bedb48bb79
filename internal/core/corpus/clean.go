package corpus

import (
	"regexp"
	"sort"
	"strings"
)

var (
	quantityPattern = regexp.MustCompile(`\b\d+(?:[.,]\d+)?\b`)
	unitPattern     = regexp.MustCompile(`\b(?:teaspoons?|tsp|tablespoons?|tbsp|cups?|gramm?s?|g|kg|ml|l|ounces?|oz)\b`)
	symbolPattern   = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
)

// CleanIngredientLines 將食譜頁面的食材行整理成食材名稱：
// 去除數量與單位、標點，取每行最後一個字，結果去重排序，少於 2 個字元的丟棄。
//
//	"2 cups all-purpose flour" -> "flour"
//	"3 large Eggs." -> "eggs"
func CleanIngredientLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		t := strings.ToLower(strings.Join(strings.Fields(line), " "))
		t = quantityPattern.ReplaceAllString(t, "")
		t = unitPattern.ReplaceAllString(t, "")
		t = symbolPattern.ReplaceAllString(t, " ")

		words := strings.Fields(t)
		if len(words) == 0 {
			continue
		}
		head := words[len(words)-1]
		if len([]rune(head)) < 2 {
			continue
		}
		if _, dup := seen[head]; dup {
			continue
		}
		seen[head] = struct{}{}
		out = append(out, head)
	}
	sort.Strings(out)
	return out
}
