package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mchmarny/navd/pkg/config"
	"github.com/mchmarny/navd/pkg/navigation"
)

const navigationContent = `
items:
  - key: home
    name: Home
    url: /
  - key: books
    name: Books
    url: /books
    items:
      - key: fiction
        name: Fiction
        url: /books/fiction
`

type counter struct{ calls [][]string }

func (c *counter) Increment(val ...string) { c.calls = append(c.calls, val) }

func newMux(t *testing.T, opts ...config.Option) (*http.ServeMux, *counter) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "navigation.yaml"), []byte(navigationContent), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken_navigation.yaml"), []byte("items: {"), 0o644))

	renders := &counter{}
	h := NewHandler(config.New(append([]config.Option{config.WithPath(dir)}, opts...)...), WithRenderCounter(renders))

	mux := http.NewServeMux()
	mux.Handle("GET /navigation", h)
	mux.Handle("GET /navigation/{context}", h)

	return mux, renders
}

func get(mux http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler_HTML(t *testing.T) {
	mux, renders := newMux(t)

	rec := get(mux, "/navigation?current=fiction&sub=true")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Equal(t,
		`<ul><li id="home"><a href="/">Home</a></li>`+
			`<li id="books" class="selected"><a href="/books" class="selected">Books</a>`+
			`<ul><li id="fiction" class="selected"><a href="/books/fiction" class="selected">Fiction</a></li></ul>`+
			`</li></ul>`, rec.Body.String())
	require.Equal(t, [][]string{{"default", "html"}}, renders.calls)
}

func TestHandler_NamedDefaultContext(t *testing.T) {
	mux, _ := newMux(t)

	rec := get(mux, "/navigation/default?level_1=home")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `<li id="home" class="selected">`)
}

func TestHandler_JSON(t *testing.T) {
	mux, renders := newMux(t)

	rec := get(mux, "/navigation?format=json&level_1=books&level_2=fiction&sub=1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc struct {
		Items []struct {
			Key      string `json:"key"`
			Selected bool   `json:"selected"`
			Items    []struct {
				Key      string `json:"key"`
				Selected bool   `json:"selected"`
			} `json:"items"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Len(t, doc.Items, 2)
	require.True(t, doc.Items[1].Selected)
	require.True(t, doc.Items[1].Items[0].Selected)
	require.Equal(t, [][]string{{"default", "json"}}, renders.calls)
}

func TestHandler_ActiveLevel(t *testing.T) {
	mux, _ := newMux(t)

	rec := get(mux, "/navigation?current=fiction&level=2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, `<ul><li id="fiction" class="selected"><a href="/books/fiction" class="selected">Fiction</a></li></ul>`, rec.Body.String())

	rec = get(mux, "/navigation?current=home&level=2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestHandler_ActiveLevelJSON(t *testing.T) {
	mux, _ := newMux(t)

	rec := get(mux, "/navigation?current=home&level=2&format=json")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"level":2,"items":[]}`, rec.Body.String())

	rec = get(mux, "/navigation?current=fiction&level=2&format=json")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"level":2,"items":[{"key":"fiction","name":"Fiction","url":"/books/fiction","selected":true}]}`, rec.Body.String())
}

func TestHandler_RenderCounterUsesContextKey(t *testing.T) {
	mux, renders := newMux(t)

	for _, target := range []string{"/navigation", "/navigation/default", "/navigation/Default"} {
		require.Equal(t, http.StatusOK, get(mux, target).Code, target)
	}
	require.Equal(t, [][]string{{"default", "html"}, {"default", "html"}, {"default", "html"}}, renders.calls)
}

func TestHandler_AutoHighlight(t *testing.T) {
	mux, _ := newMux(t, config.WithAutoHighlight(true))

	rec := get(mux, "/navigation?path=/books/fiction")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `<li id="books" class="selected">`)
}

func TestHandler_Errors(t *testing.T) {
	mux, renders := newMux(t)

	tests := map[string]int{
		"/navigation?current=missing":   http.StatusBadRequest,
		"/navigation?format=xml":        http.StatusBadRequest,
		"/navigation?sub=maybe":         http.StatusBadRequest,
		"/navigation?level=zero":        http.StatusBadRequest,
		"/navigation/admin":             http.StatusNotFound,
		"/navigation/broken":            http.StatusInternalServerError,
		"/navigation?current=home,nope": http.StatusOK,
	}

	for target, status := range tests {
		rec := get(mux, target)
		require.Equal(t, status, rec.Code, target)
		if status != http.StatusOK {
			require.Equal(t, "application/json", rec.Header().Get("Content-Type"), target)
			require.Contains(t, rec.Body.String(), `"error"`, target)
		}
	}
	require.Len(t, renders.calls, 1)
}

func TestExplicitFromQuery(t *testing.T) {
	require.True(t, ExplicitFromQuery(url.Values{}).IsZero())
	require.True(t, ExplicitFromQuery(url.Values{"other": {"x"}}).IsZero())

	root := navigation.NewItemContainer(nil)
	require.NoError(t, root.Item("books", "Books", "/books", nil, func(c *navigation.ItemContainer) error {
		return c.Item("fiction", "Fiction", "/books/fiction", nil, nil)
	}))

	level, key, err := navigation.ResolveExplicit(root, ExplicitFromQuery(url.Values{"current": {"books,fiction"}}))
	require.NoError(t, err)
	require.Equal(t, 2, level)
	require.Equal(t, "fiction", key)

	level, key, err = navigation.ResolveExplicit(root, ExplicitFromQuery(url.Values{
		"current": {"books"},
		"level_2": {"fiction"},
	}))
	require.NoError(t, err)
	require.Equal(t, 1, level)
	require.Equal(t, "books", key)
}
