package favorites

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"leftover-chef/internal/pkg/common"

	"go.uber.org/zap"
)

// Favorite 收藏的食譜
type Favorite struct {
	common.Recipe
	AddedAt time.Time `json:"added_at"`
}

// Store 以 JSON 檔案保存收藏清單，依加入順序排列，ID 不重複
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewStore 創建收藏儲存；檔案在第一次寫入時建立
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path 返回收藏檔案位置
func (s *Store) Path() string {
	return s.path
}

// List 返回所有收藏
func (s *Store) List() ([]Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add 加入收藏；ID 已存在時不變動並返回 false。ID、標題與網址皆為必填
func (s *Store) Add(r common.Recipe) (bool, error) {
	switch {
	case r.ID == "":
		return false, common.ErrInvalidRequest.Wrap(fmt.Errorf("recipe id is required"))
	case r.Title == "":
		return false, common.ErrInvalidRequest.Wrap(fmt.Errorf("recipe title is required"))
	case r.URL == "":
		return false, common.ErrInvalidRequest.Wrap(fmt.Errorf("recipe url is required"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return false, err
	}
	for _, f := range items {
		if f.ID == r.ID {
			return false, nil
		}
	}

	items = append(items, Favorite{Recipe: r, AddedAt: s.now().UTC()})
	if err := s.save(items); err != nil {
		return false, err
	}
	common.LogInfo("已加入收藏", zap.String("id", r.ID), zap.String("title", r.Title))
	return true, nil
}

// Remove 依 ID 移除收藏；不存在時返回 false
func (s *Store) Remove(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return false, err
	}

	out := items[:0]
	removed := false
	for _, f := range items {
		if f.ID == id {
			removed = true
			continue
		}
		out = append(out, f)
	}
	if !removed {
		return false, nil
	}
	if err := s.save(out); err != nil {
		return false, err
	}
	common.LogInfo("已移除收藏", zap.String("id", id))
	return true, nil
}

// load 讀取檔案；不存在時返回空清單
func (s *Store) load() ([]Favorite, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Favorite{}, nil
		}
		return nil, fmt.Errorf("failed to open favorites: %w", err)
	}
	defer f.Close()

	var items []Favorite
	if err := common.DecodeJSONStrict(f, &items); err != nil {
		if errors.Is(err, io.EOF) {
			return []Favorite{}, nil
		}
		return nil, fmt.Errorf("failed to parse favorites %s: %w", s.path, err)
	}
	if items == nil {
		items = []Favorite{}
	}
	return items, nil
}

// save 先寫入暫存檔再改名，避免寫到一半的檔案
func (s *Store) save(items []Favorite) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create favorites dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".favorites-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := common.WriteJSONIndent(tmp, items); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write favorites: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write favorites: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace favorites: %w", err)
	}
	return nil
}
