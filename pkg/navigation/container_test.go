package navigation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	calls     int
	container *ItemContainer
	include   bool
	out       string
	err       error
}

func (r *recordingRenderer) Render(c *ItemContainer, _ CurrentNavigation, include bool) (string, error) {
	r.calls++
	r.container = c
	r.include = include
	return r.out, r.err
}

func newTree(t *testing.T) *ItemContainer {
	t.Helper()

	root := NewItemContainer(nil)
	require.NoError(t, root.Item("home", "Home", "/", nil, nil))
	require.NoError(t, root.Item("books", "Books", "/books", Options{"class": "shelf"}, func(c *ItemContainer) error {
		if err := c.Item("fiction", "Fiction", "/books/fiction", nil, nil); err != nil {
			return err
		}
		return c.Item("poetry", "Poetry", "/books/poetry", nil, func(c *ItemContainer) error {
			return c.Item("haiku", "Haiku", "/books/poetry/haiku", nil, nil)
		})
	}))
	require.NoError(t, root.Item("about", "About", "/about", nil, nil))

	return root
}

func TestNewItemContainer_Empty(t *testing.T) {
	c := NewItemContainer(nil)
	require.Equal(t, 1, c.Level)
	require.Empty(t, c.Items)
	require.Equal(t, DefaultSelectedClass, c.Settings().SelectedClass)
	require.False(t, c.Selected(NewRequest("")))
	require.Nil(t, c.SelectedItem(NewRequest("")))
}

func TestItem_SubNavigationLevels(t *testing.T) {
	root := newTree(t)

	books := root.Get("books")
	require.NotNil(t, books.SubNavigation)
	require.Equal(t, 2, books.SubNavigation.Level)
	require.Same(t, root, books.Container())

	poetry := books.SubNavigation.Get("poetry")
	require.Equal(t, 3, poetry.SubNavigation.Level)
	require.Nil(t, root.Get("home").SubNavigation)
}

func TestItem_SubNavigationError(t *testing.T) {
	boom := errors.New("boom")
	root := NewItemContainer(nil)

	err := root.Item("books", "Books", "/books", nil, func(*ItemContainer) error { return boom })
	require.ErrorIs(t, err, boom)
	require.Empty(t, root.Items)
}

func TestItem_Conditions(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		added bool
	}{
		{name: "no conditions", opts: Options{}, added: true},
		{name: "if true", opts: Options{OptionIf: Condition(func() bool { return true })}, added: true},
		{name: "if false", opts: Options{OptionIf: Condition(func() bool { return false })}, added: false},
		{name: "unless false", opts: Options{OptionUnless: func() bool { return false }}, added: true},
		{name: "unless true", opts: Options{OptionUnless: func() bool { return true }}, added: false},
		{name: "if true unless true", opts: Options{
			OptionIf:     func() bool { return true },
			OptionUnless: func() bool { return true },
		}, added: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewItemContainer(nil)
			subBuilt := false

			err := c.Item("key", "name", "url", tt.opts, func(*ItemContainer) error {
				subBuilt = true
				return nil
			})
			require.NoError(t, err)
			require.Equal(t, tt.added, len(c.Items) == 1)
			require.Equal(t, tt.added, subBuilt)

			if tt.added {
				require.NotContains(t, c.Items[0].Options, OptionIf)
				require.NotContains(t, c.Items[0].Options, OptionUnless)
			}
		})
	}
}

func TestItem_ConditionsEvaluatedOnce(t *testing.T) {
	ifCalls, unlessCalls := 0, 0
	c := NewItemContainer(nil)

	err := c.Item("key", "name", "url", Options{
		OptionIf:     func() bool { ifCalls++; return true },
		OptionUnless: func() bool { unlessCalls++; return false },
		"class":      "x",
	}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, ifCalls)
	require.Equal(t, 1, unlessCalls)
	require.Equal(t, Options{"class": "x"}, c.Items[0].Options)
}

func TestItem_CallerOptionsUntouched(t *testing.T) {
	opts := Options{OptionIf: func() bool { return true }, "class": "x"}
	c := NewItemContainer(nil)

	require.NoError(t, c.Item("key", "name", "url", opts, nil))
	require.Contains(t, opts, OptionIf)
}

func TestItem_InvalidCondition(t *testing.T) {
	c := NewItemContainer(nil)

	err := c.Item("key", "name", "url", Options{OptionIf: "signed_in"}, nil)
	require.ErrorIs(t, err, ErrInvalidCondition)
	require.Empty(t, c.Items)
}

func TestItem_ConditionPanicPropagates(t *testing.T) {
	c := NewItemContainer(nil)

	require.PanicsWithValue(t, "boom", func() {
		_ = c.Item("key", "name", "url", Options{OptionIf: func() bool { panic("boom") }}, nil)
	})
}

func TestGet(t *testing.T) {
	c := NewItemContainer(nil)
	require.NoError(t, c.Item("first", "first", "bla", nil, nil))
	require.NoError(t, c.Item("second", "second", "bla", nil, nil))
	require.NoError(t, c.Item("third", "third", "bla", nil, nil))

	require.Equal(t, "second", c.Get("second").Name)
	require.Nil(t, c.Get("invalid"))
}

func TestGet_DuplicateKeysReturnFirst(t *testing.T) {
	c := NewItemContainer(nil)
	require.NoError(t, c.Item("dup", "one", "/1", nil, nil))
	require.NoError(t, c.Item("dup", "two", "/2", nil, nil))

	require.Len(t, c.Items, 2)
	require.Equal(t, "one", c.Get("dup").Name)
}

func TestSelected_ByExplicitKey(t *testing.T) {
	root := newTree(t)
	req := NewRequest("")
	req.SetCurrentNavigation(1, "about")

	require.True(t, root.Selected(req))
	require.True(t, root.Get("about").Selected(req))
	require.False(t, root.Get("home").Selected(req))
	require.Same(t, root.Get("about"), root.SelectedItem(req))
}

func TestSelected_BySubNavigation(t *testing.T) {
	root := newTree(t)
	req := NewRequest("")
	req.SetCurrentNavigation(3, "haiku")

	books := root.Get("books")
	require.True(t, books.Selected(req))
	require.Same(t, books, root.SelectedItem(req))
	require.Same(t, books.SubNavigation.Get("poetry"), books.SubNavigation.SelectedItem(req))
}

func TestSelected_NothingSelected(t *testing.T) {
	root := newTree(t)
	req := NewRequest("/nowhere")

	require.False(t, root.Selected(req))
	require.Nil(t, root.SelectedItem(req))
	require.False(t, root.Selected(nil))
}

func TestSelectedItem_ExplicitKeyMissingFallsBack(t *testing.T) {
	root := newTree(t)
	req := NewRequest("")
	req.SetCurrentNavigation(1, "missing")
	req.SetCurrentNavigation(2, "fiction")

	require.Same(t, root.Get("books"), root.SelectedItem(req))
}

func TestSelected_AutoHighlight(t *testing.T) {
	root := NewItemContainer(&Settings{AutoHighlight: true})
	require.NoError(t, root.Item("home", "Home", "/", nil, nil))
	require.NoError(t, root.Item("books", "Books", "/books", nil, func(c *ItemContainer) error {
		return c.Item("fiction", "Fiction", "/books/fiction", nil, nil)
	}))

	req := NewRequest("/books/fiction")
	require.Same(t, root.Get("books"), root.SelectedItem(req))

	plain := newTree(t)
	require.False(t, plain.Selected(NewRequest("/books/fiction")))
}

func TestActiveItemContainerFor(t *testing.T) {
	root := newTree(t)
	req := NewRequest("")
	req.SetCurrentNavigation(3, "haiku")

	require.Same(t, root, root.ActiveItemContainerFor(1, req))

	books := root.Get("books")
	require.Same(t, books.SubNavigation, root.ActiveItemContainerFor(2, req))
	require.Same(t, books.SubNavigation.Get("poetry").SubNavigation, root.ActiveItemContainerFor(3, req))
	require.Nil(t, root.ActiveItemContainerFor(4, req))
	require.Nil(t, root.ActiveItemContainerFor(2, NewRequest("")))
	require.Nil(t, books.SubNavigation.ActiveItemContainerFor(1, req))
}

func TestLevelForItem(t *testing.T) {
	root := newTree(t)

	require.Equal(t, 1, root.LevelForItem("home"))
	require.Equal(t, 2, root.LevelForItem("fiction"))
	require.Equal(t, 3, root.LevelForItem("haiku"))
	require.Equal(t, 0, root.LevelForItem("missing"))
}

func TestLevelForItem_DeepestWins(t *testing.T) {
	root := NewItemContainer(nil)
	require.NoError(t, root.Item("news", "News", "/news", nil, func(c *ItemContainer) error {
		return c.Item("news", "Latest", "/news/latest", nil, nil)
	}))

	require.Equal(t, 2, root.LevelForItem("news"))
}

func TestHTMLOptions(t *testing.T) {
	root := newTree(t)
	req := NewRequest("")
	req.SetCurrentNavigation(2, "fiction")

	require.Equal(t, map[string]string{"id": "books", "class": "shelf selected"}, root.Get("books").HTMLOptions(req))
	require.Equal(t, map[string]string{"id": "home"}, root.Get("home").HTMLOptions(req))
	require.Equal(t, "selected", root.Get("books").SelectedClass(req))
	require.Empty(t, root.Get("home").SelectedClass(req))
}

func TestRender_DelegatesOnce(t *testing.T) {
	r := &recordingRenderer{out: "<ul></ul>"}
	c := NewItemContainer(&Settings{Renderer: func() Renderer { return r }})

	out, err := c.Render(NewRequest(""), true)
	require.NoError(t, err)
	require.Equal(t, "<ul></ul>", out)
	require.Equal(t, 1, r.calls)
	require.Same(t, c, r.container)
	require.True(t, r.include)
}

func TestRender_Override(t *testing.T) {
	configured := &recordingRenderer{}
	override := &recordingRenderer{out: "override"}
	c := NewItemContainer(&Settings{Renderer: func() Renderer { return configured }})

	out, err := c.Render(nil, false, WithRenderer(func() Renderer { return override }))
	require.NoError(t, err)
	require.Equal(t, "override", out)
	require.Zero(t, configured.calls)
	require.False(t, override.include)
}

func TestRender_ErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	c := NewItemContainer(&Settings{Renderer: func() Renderer { return &recordingRenderer{err: boom} }})

	_, err := c.Render(nil, false)
	require.ErrorIs(t, err, boom)
}

func TestRender_NoRenderer(t *testing.T) {
	_, err := NewItemContainer(nil).Render(nil, false)
	require.ErrorIs(t, err, ErrNoRenderer)
}
