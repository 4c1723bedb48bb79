package corpus

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"leftover-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 以 JSON 檔案保存的本地食譜庫，依加入順序排列
type Store struct {
	path string
	mu   sync.RWMutex
}

// NewStore 創建食譜庫；檔案在第一次合併時建立
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path 返回食譜庫檔案位置
func (s *Store) Path() string {
	return s.path
}

// Load 讀取所有食譜；沒有 ID 的舊資料依序補上數字 ID
func (s *Store) Load() ([]common.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

// Merge 將新食譜併入食譜庫，以 (網址, 小寫標題) 去重，保留先出現的一筆。
// 缺少標題或網址的食譜會被略過。返回實際新增的數量。
func (s *Store) Merge(items []common.Recipe) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(existing)+len(items))
	for _, r := range existing {
		seen[dedupeKey(r)] = struct{}{}
	}

	next := nextID(existing)
	merged := existing
	added := 0
	for _, r := range items {
		r.Title = strings.TrimSpace(r.Title)
		r.URL = strings.TrimSpace(r.URL)
		if r.Title == "" || r.URL == "" {
			common.LogDebug("略過缺少標題或網址的食譜", zap.String("title", r.Title), zap.String("url", r.URL))
			continue
		}
		key := dedupeKey(r)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		r.ID = strconv.Itoa(next)
		next++
		merged = append(merged, r)
		added++
	}

	if added == 0 {
		return 0, nil
	}
	if err := s.save(merged); err != nil {
		return 0, err
	}
	common.LogInfo("食譜庫已合併",
		zap.String("path", s.path),
		zap.Int("added", added),
		zap.Int("total", len(merged)),
	)
	return added, nil
}

func dedupeKey(r common.Recipe) string {
	return strings.TrimSpace(r.URL) + "\x00" + strings.ToLower(strings.TrimSpace(r.Title))
}

// nextID 返回大於現有數字 ID 的下一個值
func nextID(items []common.Recipe) int {
	highest := 0
	for _, r := range items {
		if n, err := strconv.Atoi(r.ID); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}

func (s *Store) load() ([]common.Recipe, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []common.Recipe{}, nil
		}
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []common.Recipe{}, nil
	}

	var items []common.Recipe
	if err := common.ParseJSONBytes(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse corpus %s: %w", s.path, err)
	}

	next := nextID(items)
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = strconv.Itoa(next)
			next++
		}
	}
	return items, nil
}

// save 先寫入暫存檔再改名，避免寫到一半的檔案
func (s *Store) save(items []common.Recipe) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create corpus directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".recipes-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := common.WriteJSONIndent(tmp, items); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write corpus: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close corpus: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace corpus: %w", err)
	}
	return nil
}
