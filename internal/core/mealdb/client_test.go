package mealdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"leftover-chef/internal/infrastructure/config"
	"leftover-chef/internal/pkg/common"

	gobreaker "github.com/sony/gobreaker/v2"
)

const lookupBody = `{"meals":[{
	"idMeal":"52772",
	"strMeal":"Teriyaki Chicken Casserole",
	"strArea":"Japanese",
	"strCategory":"Chicken",
	"strSource":"",
	"strYoutube":"https://www.youtube.com/watch?v=4aZr5hZXP_s",
	"strIngredient1":"Soy Sauce",
	"strIngredient2":" water ",
	"strIngredient3":"",
	"strIngredient4":null,
	"strIngredient5":"Chicken Breasts"
}]}`

func testConfig(url string) config.MealDBConfig {
	return config.MealDBConfig{
		BaseURL:         url,
		UserAgent:       "LeftoverChef/1.0",
		Timeout:         2 * time.Second,
		BreakerFailures: 2,
		BreakerTimeout:  time.Minute,
	}
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(testConfig(srv.URL))
}

func TestFilterByIngredient(t *testing.T) {
	t.Parallel()

	var gotQuery, gotAgent string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/filter.php" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query().Get("i")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"meals":[{"idMeal":"52772","strMeal":"a"},{"idMeal":"52940","strMeal":"b"}]}`))
	})

	ids, err := c.FilterByIngredient(context.Background(), "Chicken  Breast")
	if err != nil {
		t.Fatalf("FilterByIngredient: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"52772", "52940"}) {
		t.Errorf("ids = %q", ids)
	}
	if gotQuery != "chicken_breast" {
		t.Errorf("query = %q, want chicken_breast", gotQuery)
	}
	if gotAgent != "LeftoverChef/1.0" {
		t.Errorf("User-Agent = %q", gotAgent)
	}
}

func TestFilterByIngredientNoMeals(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{"meals":null}`, `{"meals":"no data found"}`, `{}`} {
		body := body
		c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
		ids, err := c.FilterByIngredient(context.Background(), "unobtainium")
		if err != nil {
			t.Fatalf("FilterByIngredient(%s): %v", body, err)
		}
		if len(ids) != 0 {
			t.Errorf("FilterByIngredient(%s) = %q, want empty", body, ids)
		}
	}
}

func TestLookupRecipe(t *testing.T) {
	t.Parallel()

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("i") != "52772" {
			w.Write([]byte(`{"meals":null}`))
			return
		}
		w.Write([]byte(lookupBody))
	})

	r, err := c.LookupRecipe(context.Background(), "52772")
	if err != nil {
		t.Fatalf("LookupRecipe: %v", err)
	}
	want := &common.Recipe{
		ID:          "52772",
		Title:       "Teriyaki Chicken Casserole",
		Ingredients: []string{"soy sauce", "water", "chicken breasts"},
		URL:         "https://www.youtube.com/watch?v=4aZr5hZXP_s",
		Area:        "Japanese",
		Category:    "Chicken",
	}
	if !reflect.DeepEqual(r, want) {
		t.Errorf("LookupRecipe = %+v, want %+v", r, want)
	}

	missing, err := c.LookupRecipe(context.Background(), "1")
	if err != nil || missing != nil {
		t.Errorf("LookupRecipe(unknown) = %v, %v; want nil, nil", missing, err)
	}
}

func TestLookupRecipeWithoutURL(t *testing.T) {
	t.Parallel()

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meals":[{"idMeal":"7","strMeal":"Toast","strIngredient1":"Bread","strSource":"","strYoutube":null}]}`))
	})

	r, err := c.LookupRecipe(context.Background(), "7")
	if err != nil || r != nil {
		t.Errorf("LookupRecipe = %v, %v; want nil, nil", r, err)
	}
}

func TestListIngredients(t *testing.T) {
	t.Parallel()

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/list.php" || r.URL.Query().Get("i") != "list" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"meals":[{"idIngredient":"1","strIngredient":"Chicken"},{"idIngredient":"2","strIngredient":"Salmon"},{"idIngredient":"3","strIngredient":null}]}`))
	})

	names, err := c.ListIngredients(context.Background())
	if err != nil {
		t.Fatalf("ListIngredients: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Chicken", "Salmon"}) {
		t.Errorf("names = %q", names)
	}
}

func TestUpstreamErrorsOpenBreaker(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < 2; i++ {
		_, err := c.FilterByIngredient(context.Background(), "egg")
		if !errors.Is(err, common.ErrUpstream) {
			t.Fatalf("call %d: got %v, want ErrUpstream", i, err)
		}
	}

	_, err := c.FilterByIngredient(context.Background(), "egg")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected open breaker, got %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hits = %d, want 2", got)
	}
	if c.BreakerState() != gobreaker.StateOpen.String() {
		t.Errorf("BreakerState = %s", c.BreakerState())
	}
}

func TestMalformedResponse(t *testing.T) {
	t.Parallel()

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	})
	if _, err := c.FilterByIngredient(context.Background(), "egg"); err == nil {
		t.Error("expected decode error")
	}
}

func TestQueryIngredient(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"chicken":          "chicken",
		" Chicken Breast ": "chicken_breast",
		"green   onion":    "green_onion",
		"":                 "",
	}
	for in, want := range tests {
		if got := queryIngredient(in); got != want {
			t.Errorf("queryIngredient(%q) = %q, want %q", in, got, want)
		}
	}
}
