package matching

import (
	"fmt"
	"math"
)

// WeightTable 食材權重，未列出的食材權重為 1.0
type WeightTable map[string]float64

// NewWeightTable 由使用者輸入建立權重表，鍵會正規化，權重必須為正
func NewWeightTable(raw map[string]float64, n *Normalizer) (WeightTable, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if n == nil {
		n = NewNormalizer(nil)
	}
	w := make(WeightTable, len(raw))
	for k, v := range raw {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("weight for %q must be a positive number", k)
		}
		if tok, ok := n.Token(k); ok {
			w[tok] = v
		}
	}
	return w, nil
}

func (w WeightTable) weight(token string) float64 {
	if w == nil {
		return 1.0
	}
	if v, ok := w[token]; ok {
		return v
	}
	return 1.0
}

// Breakdown 評分的各個組成
type Breakdown struct {
	Overlap   float64 `json:"overlap"`
	Recall    float64 `json:"recall"`
	Precision float64 `json:"precision"`
	F1        float64 `json:"f1"`
	Score     float64 `json:"score"`
}

// ScoreBreakdown 計算 overlap、recall、precision 與 F1。
// user 與 recipe 皆視為集合。
func ScoreBreakdown(user, recipe []string, weights WeightTable) Breakdown {
	userSet := toSet(user)
	recipeSet := toSet(recipe)

	var b Breakdown
	for tok := range recipeSet {
		if _, ok := userSet[tok]; ok {
			b.Overlap += weights.weight(tok)
		}
	}

	b.Recall = b.Overlap / math.Max(float64(len(recipeSet)), 1)
	b.Precision = b.Overlap / math.Max(float64(len(userSet)), 1)
	if b.Precision+b.Recall > 0 {
		b.F1 = 2 * b.Precision * b.Recall / (b.Precision + b.Recall)
	}
	b.Score = round3(b.Overlap + b.F1)
	return b
}

// Score 返回 round(overlap + f1, 3)
func Score(user, recipe []string, weights WeightTable) float64 {
	return ScoreBreakdown(user, recipe, weights).Score
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
