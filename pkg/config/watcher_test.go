package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestContextForFile(t *testing.T) {
	tests := map[string]struct {
		context string
		ok      bool
	}{
		"/etc/navd/navigation.yaml":       {context: DefaultContext, ok: true},
		"/etc/navd/admin_navigation.yaml": {context: "admin", ok: true},
		"/etc/navd/_navigation.yaml":      {ok: false},
		"/etc/navd/other.yaml":            {ok: false},
		"/etc/navd/navigation.yaml.swp":   {ok: false},
	}

	for path, want := range tests {
		got, ok := ContextForFile(path)
		require.Equal(t, want.ok, ok, path)
		require.Equal(t, want.context, got, path)
	}
}

func TestWatch_PathNotSet(t *testing.T) {
	require.ErrorIs(t, New().Watch(t.Context()), ErrConfigPathNotSet)
}

func TestWatch_InvalidatesChangedContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "navigation.yaml", "items: [{key: home, name: Home, url: /}]")

	cfg := New(WithPath(dir))
	first, err := cfg.PrimaryNavigation()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- cfg.Watch(ctx) }()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	writeFile(t, dir, "navigation.yaml", "items: [{key: changed, name: Changed, url: /}]")

	require.Eventually(t, func() bool {
		root, err := cfg.PrimaryNavigation()
		return err == nil && root != first && root.Get("changed") != nil
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
