package matching

import (
	"sort"
	"strings"
)

// Normalizer 將原始食材字串正規化為小寫單數的 token
type Normalizer struct {
	lem Lemmatizer
}

// NewNormalizer 以指定的詞形還原器建立正規化器，nil 時使用後綴規則
func NewNormalizer(lem Lemmatizer) *Normalizer {
	if lem == nil {
		lem = NewSuffixLemmatizer()
	}
	return &Normalizer{lem: lem}
}

// Lemmatizer 返回使用中的詞形還原器
func (n *Normalizer) Lemmatizer() Lemmatizer {
	return n.lem
}

// Token 正規化單一食材名稱；空白或無法斷詞時返回 false
func (n *Normalizer) Token(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	words := n.lem.Tokenize(raw)
	if len(words) == 0 {
		return "", false
	}
	for i, w := range words {
		words[i] = n.lem.Lemmatize(w)
	}
	token := strings.Join(words, " ")
	if token == "" {
		return "", false
	}
	return token, true
}

// Normalize 正規化並去重，結果排序以確保可重現
func (n *Normalizer) Normalize(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		tok, ok := n.Token(r)
		if !ok {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// Ordered 正規化並去重，保留輸入順序（食譜宣告順序）
func (n *Normalizer) Ordered(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		tok, ok := n.Token(r)
		if !ok {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
