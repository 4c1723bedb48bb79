package matching

import (
	"strings"
)

// Validation 驗證結果
type Validation struct {
	Valid       []string          `json:"valid"`
	Invalid     []string          `json:"invalid"`
	Suggestions map[string]string `json:"suggestions"`
}

// Validator 以詞彙表檢查並修正使用者輸入
type Validator struct {
	vocab         *Vocabulary
	acceptCutoff  float64
	suggestCutoff float64
}

// ValidatorOption 驗證器選項
type ValidatorOption func(*Validator)

// WithCutoffs 設定接受與建議的相似度門檻，非正值保留預設
func WithCutoffs(accept, suggest float64) ValidatorOption {
	return func(v *Validator) {
		if accept > 0 {
			v.acceptCutoff = accept
		}
		if suggest > 0 {
			v.suggestCutoff = suggest
		}
	}
}

// NewValidator 創建驗證器
func NewValidator(vocab *Vocabulary, opts ...ValidatorOption) *Validator {
	v := &Validator{
		vocab:         vocab,
		acceptCutoff:  DefaultAcceptCutoff,
		suggestCutoff: DefaultSuggestCutoff,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate 將輸入分成有效、無效與建議三部分，不會失敗。
// 有效 token 一律是詞彙表中的詞；重複命中同一詞彙時靜默去重。
func (v *Validator) Validate(raw []string) Validation {
	res := Validation{
		Valid:       []string{},
		Invalid:     []string{},
		Suggestions: map[string]string{},
	}
	collected := make(map[string]struct{})

	for _, original := range raw {
		original = strings.TrimSpace(original)
		tok := cleanTerm(original)
		if tok == "" {
			continue
		}

		if v.vocab.Contains(tok) {
			v.collect(&res, collected, tok)
			continue
		}

		singular := Singularize(tok)
		if v.vocab.Contains(singular) {
			v.collect(&res, collected, singular)
			continue
		}

		if match, _, ok := v.vocab.ClosestMatch(singular, v.acceptCutoff); ok {
			v.collect(&res, collected, match)
			continue
		}

		res.Invalid = append(res.Invalid, original)
		if hint, _, ok := v.vocab.ClosestMatch(singular, v.suggestCutoff); ok {
			res.Suggestions[original] = hint
		}
	}
	return res
}

func (v *Validator) collect(res *Validation, collected map[string]struct{}, term string) {
	if _, dup := collected[term]; dup {
		return
	}
	collected[term] = struct{}{}
	res.Valid = append(res.Valid, term)
}
