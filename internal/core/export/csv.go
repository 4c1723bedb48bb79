package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"leftover-chef/internal/pkg/common"
)

// Header CSV 欄位
var Header = []string{"title", "url", "score", "area", "category", "matched", "missing"}

// WriteCSV 將評分結果寫成 CSV，保留傳入順序
func WriteCSV(w io.Writer, recipes []common.ScoredRecipe) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range recipes {
		row := []string{
			r.Recipe.Title,
			r.Recipe.URL,
			strconv.FormatFloat(r.Score, 'f', 3, 64),
			r.Recipe.Area,
			r.Recipe.Category,
			strings.Join(r.Matched, "; "),
			strings.Join(r.Missing, "; "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile 將評分結果寫入檔案，必要時建立目錄
func WriteCSVFile(path string, recipes []common.ScoredRecipe) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteCSV(f, recipes); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
