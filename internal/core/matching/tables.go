package matching

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTablesYAML []byte

// Tables 同義詞與飲食分類的固定表格，載入後唯讀
type Tables struct {
	Synonyms map[string][]string `yaml:"synonyms"`
	Meat     []string            `yaml:"meat"`
	Dairy    []string            `yaml:"dairy"`
	Egg      []string            `yaml:"egg"`
	Gluten   []string            `yaml:"gluten"`
}

var (
	defaultTablesOnce sync.Once
	defaultTables     *Tables
	defaultTablesErr  error
)

// ParseTables 解析 YAML 格式的表格
func ParseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse matching tables: %w", err)
	}
	if len(t.Meat) == 0 || len(t.Dairy) == 0 || len(t.Egg) == 0 || len(t.Gluten) == 0 {
		return nil, fmt.Errorf("matching tables: diet categories must not be empty")
	}
	return &t, nil
}

// DefaultTables 返回內嵌的預設表格，整個程序只解析一次
func DefaultTables() (*Tables, error) {
	defaultTablesOnce.Do(func() {
		defaultTables, defaultTablesErr = ParseTables(defaultTablesYAML)
	})
	return defaultTables, defaultTablesErr
}
