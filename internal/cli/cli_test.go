package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"leftover-chef/internal/core/mealdb/mealdbtest"
	"leftover-chef/internal/infrastructure/config"
	"leftover-chef/internal/pkg/common"

	"github.com/goccy/go-json"
)

func testLoader(t *testing.T) func(string) (*config.Config, error) {
	t.Helper()

	srv := mealdbtest.NewServer(t, mealdbtest.Pantry())
	favorites := filepath.Join(t.TempDir(), "favorites.json")
	return func(string) (*config.Config, error) {
		return &config.Config{
			MealDB: config.MealDBConfig{
				BaseURL:         srv.URL,
				UserAgent:       "LeftoverChef/test",
				Timeout:         5 * time.Second,
				BreakerFailures: 5,
				BreakerTimeout:  time.Second,
			},
			Search: config.SearchConfig{
				Workers:       4,
				ResultLimit:   10,
				MissingLimit:  5,
				Lemmatizer:    "suffix",
				AcceptCutoff:  0.86,
				SuggestCutoff: 0.6,
			},
			Favorites: config.FavoritesConfig{File: favorites},
			LogLevel:  "error",
		}, nil
	}
}

// run 執行命令並返回標準輸出
func run(t *testing.T, load func(string) (*config.Config, error), stdin string, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd(load)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	load := testLoader(t)

	out, err := run(t, load, "", "search", "pasta,", "tomatoes")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, want := range []string{
		"1) Tomato Pasta (2.800)",
		"missing: garlic",
		"https://example.com/2",
		"2) Cheesy Tomato Pasta (2.667)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSearchCommandJSONAndCSV(t *testing.T) {
	load := testLoader(t)
	csvPath := filepath.Join(t.TempDir(), "hits.csv")

	out, err := run(t, load, "", "search", "chicken", "rice", "--json", "--csv", csvPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	var res common.SearchResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(res.Recipes) != 1 || res.Recipes[0].Recipe.Title != "Chicken Rice" {
		t.Errorf("recipes = %+v", res.Recipes)
	}

	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Chicken Rice") {
		t.Errorf("csv = %s", data)
	}
}

func TestSearchCommandDietFilter(t *testing.T) {
	load := testLoader(t)

	out, err := run(t, load, "", "search", "chicken", "--vegetarian")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "No recipes found") {
		t.Errorf("output = %s", out)
	}
}

func TestSearchCommandUnknownIngredient(t *testing.T) {
	load := testLoader(t)

	out, err := run(t, load, "", "search", "xyzzy")
	if !errors.Is(err, common.ErrNoValidIngredients) {
		t.Fatalf("err = %v, want ErrNoValidIngredients", err)
	}
	if !strings.Contains(out, `Unknown ingredient "xyzzy"`) {
		t.Errorf("output = %s", out)
	}
}

func TestInteractiveCommand(t *testing.T) {
	load := testLoader(t)

	out, err := run(t, load, "\npasta, tomato\ngarlik\nq\n", "interactive")
	if err != nil {
		t.Fatalf("interactive: %v", err)
	}
	for _, want := range []string{
		"No ingredients entered.",
		"1) Tomato Pasta (2.800)",
		`Unknown ingredient "garlik", did you mean "garlic"?`,
		"None of the ingredients were recognised.",
		"Bon appétit!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, prompt); n != 4 {
		t.Errorf("prompt shown %d times, want 4", n)
	}
}

func TestInteractiveEndsOnEOF(t *testing.T) {
	load := testLoader(t)

	out, err := run(t, load, "rice", "interactive")
	if err != nil {
		t.Fatalf("interactive: %v", err)
	}
	if !strings.Contains(out, "Chicken Rice") || !strings.HasSuffix(strings.TrimSpace(out), "Bon appétit!") {
		t.Errorf("output = %s", out)
	}
}

func TestFavoritesCommands(t *testing.T) {
	load := testLoader(t)

	out, err := run(t, load, "", "favorites", "list")
	if err != nil || !strings.Contains(out, "No favorites yet.") {
		t.Fatalf("empty list = %q, %v", out, err)
	}

	if out, err = run(t, load, "", "favorites", "add", "2"); err != nil || !strings.Contains(out, `Saved "Tomato Pasta"`) {
		t.Fatalf("add = %q, %v", out, err)
	}
	if out, err = run(t, load, "", "favorites", "add", "2"); err != nil || !strings.Contains(out, "already saved") {
		t.Errorf("second add = %q, %v", out, err)
	}
	if _, err = run(t, load, "", "favorites", "add", "404"); !errors.Is(err, common.ErrRecipeNotFound) {
		t.Errorf("add unknown err = %v", err)
	}

	out, err = run(t, load, "", "favorites", "list")
	if err != nil || !strings.Contains(out, "Tomato Pasta") || !strings.Contains(out, "https://example.com/2") {
		t.Errorf("list = %q, %v", out, err)
	}

	if out, err = run(t, load, "", "fav", "rm", "2"); err != nil || !strings.Contains(out, "Removed 2.") {
		t.Errorf("remove = %q, %v", out, err)
	}
	if _, err = run(t, load, "", "favorites", "remove", "2"); !errors.Is(err, common.ErrRecipeNotFound) {
		t.Errorf("second remove err = %v", err)
	}
}

func TestParseIngredients(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"pasta", "tomato"}, []string{"pasta", "tomato"}},
		{[]string{"pasta,", "tomato"}, []string{"pasta", "tomato"}},
		{[]string{"olive", "oil,", "garlic"}, []string{"olive oil", "garlic"}},
		{[]string{"olive oil", "garlic"}, []string{"olive oil", "garlic"}},
		{[]string{" , "}, []string{}},
	}
	for _, tt := range tests {
		if got := parseIngredients(tt.args); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseIngredients(%q) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestConfigLoadError(t *testing.T) {
	root := newRootCmd(func(string) (*config.Config, error) {
		return nil, errors.New("bad config")
	})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"favorites", "list"})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "bad config") {
		t.Errorf("err = %v", err)
	}
}

const recipePage = `<html><head><script type="application/ld+json">
{"@context":"https://schema.org","@type":"Recipe","name":"Tomato Pasta",
 "recipeIngredient":["200 g pasta","3 ripe tomatoes","2 cloves garlic"]}
</script></head><body></body></html>`

// corpusLoader 以本地食譜庫為來源的設定
func corpusLoader(t *testing.T) (func(string) (*config.Config, error), string) {
	t.Helper()

	base := testLoader(t)
	file := filepath.Join(t.TempDir(), "recipes.json")
	return func(envFile string) (*config.Config, error) {
		cfg, err := base(envFile)
		if err != nil {
			return nil, err
		}
		cfg.Source = config.SourceCorpus
		cfg.Corpus = config.CorpusConfig{
			File:      file,
			URLFilter: "/recipe/",
			UserAgent: "LeftoverChef/test",
			Timeout:   5 * time.Second,
		}
		return cfg, nil
	}, file
}

func TestCorpusImportAndSearch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/recipe/pasta", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(recipePage))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	load, _ := corpusLoader(t)
	seeds := filepath.Join(t.TempDir(), "seeds.txt")
	content := "# pages\n" + srv.URL + "/recipe/pasta\n\n" + srv.URL + "/about\n"
	if err := os.WriteFile(seeds, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, load, "", "corpus", "import", "--file", seeds)
	if err != nil {
		t.Fatalf("corpus import: %v", err)
	}
	for _, want := range []string{"skipped " + srv.URL + "/about", "Imported 1 new recipes", "(1 fetched, 1 failed)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, load, "", "corpus", "import", srv.URL+"/recipe/pasta")
	if err != nil || !strings.Contains(out, "Imported 0 new recipes") {
		t.Errorf("second import = %q, %v", out, err)
	}

	out, err = run(t, load, "", "search", "pasta", "tomatoes")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "Tomato Pasta") || !strings.Contains(out, "missing: garlic") {
		t.Errorf("search output = %s", out)
	}
}

func TestCorpusImportWithoutURLs(t *testing.T) {
	load, _ := corpusLoader(t)
	if _, err := run(t, load, "", "corpus", "import"); !errors.Is(err, common.ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestCorpusMerge(t *testing.T) {
	load, file := corpusLoader(t)

	input := filepath.Join(t.TempDir(), "scraped.json")
	data := `[
  {"title": "Pancakes", "ingredients": ["2 cups flour", "1 cup milk", "2 Eggs"], "url": "https://example.com/p"},
  {"title": "pancakes", "ingredients": ["flour"], "url": "https://example.com/p"},
  {"title": "No Link", "ingredients": ["bread"], "url": ""}
]`
	if err := os.WriteFile(input, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, load, "", "corpus", "merge", input)
	if err != nil {
		t.Fatalf("corpus merge: %v", err)
	}
	if !strings.Contains(out, "Merged 1 new recipes") {
		t.Errorf("output = %s", out)
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	var items []common.Recipe
	if err := json.Unmarshal(raw, &items); err != nil {
		t.Fatal(err)
	}
	want := []common.Recipe{{ID: "1", Title: "Pancakes", Ingredients: []string{"eggs", "flour", "milk"}, URL: "https://example.com/p"}}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("corpus = %+v", items)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, load, "", "corpus", "merge", bad); !errors.Is(err, common.ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
}
