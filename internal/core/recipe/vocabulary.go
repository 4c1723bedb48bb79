package recipe

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"leftover-chef/internal/core/matching"
	"leftover-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// LoadVocabulary 建立食材詞彙表：path 非空時讀取本地檔案（每行一個，# 開頭為註解），
// 否則從食譜來源下載
func LoadVocabulary(ctx context.Context, path string, src Source) (*matching.Vocabulary, error) {
	var (
		terms  []string
		err    error
		origin string
	)
	if path != "" {
		terms, err = readTerms(path)
		origin = path
	} else {
		terms, err = src.ListIngredients(ctx)
		origin = "source"
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary from %s: %w", origin, err)
	}

	vocab, err := matching.NewVocabulary(terms)
	if err != nil {
		return nil, err
	}
	common.LogInfo("食材詞彙表已載入", zap.String("from", origin), zap.Int("terms", vocab.Len()))
	return vocab, nil
}

func readTerms(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var terms []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		terms = append(terms, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return terms, nil
}
