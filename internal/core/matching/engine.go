package matching

import (
	"fmt"
	"sort"
)

// Options 匹配引擎設定
type Options struct {
	Lemmatizer    string  // auto | linguistic | suffix
	AcceptCutoff  float64 // 自動修正門檻
	SuggestCutoff float64 // 建議門檻
}

// Engine 將正規化、同義詞、驗證與飲食過濾組合在一起，建立後唯讀
type Engine struct {
	Vocabulary *Vocabulary
	Normalizer *Normalizer
	Expander   *Expander
	Validator  *Validator
	Diet       *DietFilter
}

// NewEngine 建立匹配引擎；詞形還原器在此選定一次
func NewEngine(vocab *Vocabulary, tables *Tables, opts Options) (*Engine, error) {
	if vocab == nil {
		return nil, fmt.Errorf("matching engine requires a vocabulary")
	}
	if tables == nil {
		t, err := DefaultTables()
		if err != nil {
			return nil, err
		}
		tables = t
	}

	lem, err := SelectLemmatizer(opts.Lemmatizer, vocab, tables)
	if err != nil {
		return nil, err
	}

	n := NewNormalizer(lem)
	e := NewExpander(tables.Synonyms, n)
	return &Engine{
		Vocabulary: vocab,
		Normalizer: n,
		Expander:   e,
		Validator:  NewValidator(vocab, WithCutoffs(opts.AcceptCutoff, opts.SuggestCutoff)),
		Diet:       NewDietFilter(tables, n, e),
	}, nil
}

// Prepare 正規化並展開同義詞
func (e *Engine) Prepare(tokens []string) []string {
	return e.Expander.Expand(e.Normalizer.Normalize(tokens))
}

// Canonical 正規化後將每個 token 換成同義詞群組代表，去重並排序。
// 評分使用這個集合，讓一個同義詞群組只計一次。
func (e *Engine) Canonical(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range e.Normalizer.Normalize(tokens) {
		c := e.Expander.Canonical(tok)
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Hints 返回食譜中已有與缺少的食材（食譜原本的寫法與順序），缺少的最多 k 項
func (e *Engine) Hints(user []string, recipe []string, k int) (matched, missing []string) {
	have := e.Canonical(user)

	// 代表 -> 食譜中第一次出現的寫法
	wording := make(map[string]string)
	ordered := make([]string, 0, len(recipe))
	for _, tok := range e.Normalizer.Ordered(recipe) {
		c := e.Expander.Canonical(tok)
		if _, dup := wording[c]; dup {
			continue
		}
		wording[c] = tok
		ordered = append(ordered, c)
	}

	matched = Matched(have, ordered)
	missing = Missing(have, ordered, k)
	for i, c := range matched {
		matched[i] = wording[c]
	}
	for i, c := range missing {
		missing[i] = wording[c]
	}
	return matched, missing
}

// Weights 建立權重表，鍵換成同義詞群組代表以配合 Canonical
func (e *Engine) Weights(raw map[string]float64) (WeightTable, error) {
	w, err := NewWeightTable(raw, e.Normalizer)
	if err != nil || w == nil {
		return w, err
	}
	out := make(WeightTable, len(w))
	for tok, v := range w {
		out[e.Expander.Canonical(tok)] = v
	}
	return out, nil
}
