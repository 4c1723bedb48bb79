package cli

import (
	"errors"
	"fmt"
	"io"

	"leftover-chef/internal/core/recipe"
	"leftover-chef/internal/pkg/common"
)

// printResult 輸出排名結果、匹配食材、缺少的食材與連結
func printResult(w io.Writer, res *common.SearchResult) {
	printUnknown(w, res.Invalid, res.Suggestions)

	if len(res.Recipes) == 0 {
		fmt.Fprintln(w, "No recipes found for these ingredients.")
		return
	}
	if !res.Strict {
		fmt.Fprintln(w, "No recipe uses all of them, showing the closest matches.")
	}

	fmt.Fprintln(w, "\nTop hits:")
	for i, r := range res.Recipes {
		fmt.Fprintln(w, common.FormatScoredRecipe(i+1, r))
		if r.Recipe.URL != "" {
			fmt.Fprintf(w, "   %s\n", r.Recipe.URL)
		}
	}
}

// printUnknown 輸出無法辨識的食材與建議
func printUnknown(w io.Writer, invalid []string, suggestions map[string]string) {
	for _, tok := range invalid {
		if hint, ok := suggestions[tok]; ok {
			fmt.Fprintf(w, "Unknown ingredient %q, did you mean %q?\n", tok, hint)
			continue
		}
		fmt.Fprintf(w, "Unknown ingredient %q.\n", tok)
	}
}

// printInputError 輸入錯誤時輸出驗證細節；其他錯誤返回 false
func printInputError(w io.Writer, err error) bool {
	var inputErr *recipe.InputError
	if !errors.As(err, &inputErr) {
		return false
	}
	v := inputErr.Validation
	printUnknown(w, v.Invalid, v.Suggestions)
	if inputErr.Err.Code == common.ErrCodeNoValidInput {
		fmt.Fprintln(w, "None of the ingredients were recognised.")
	} else {
		fmt.Fprintln(w, "Some ingredients were not recognised, fix them or drop them.")
	}
	return true
}
