package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/mchmarny/navd/pkg/metric"
	"github.com/mchmarny/navd/pkg/navigation"
	"github.com/mchmarny/navd/pkg/render"
)

const (
	// DefaultContext is the navigation context used when none is named.
	DefaultContext = "default"

	// FileSuffix is the suffix of every navigation configuration file.
	FileSuffix = "navigation.yaml"
)

var (
	// ErrConfigPathNotSet is returned when loading without a configuration directory.
	ErrConfigPathNotSet = errors.New("config path is not set")

	// ErrConfigFileNotFound is returned when the file of a navigation context does not exist.
	ErrConfigFileNotFound = errors.New("config file does not exist")
)

// LoadMode controls how often configuration files are read.
type LoadMode string

const (
	// LoadModeOnce reads and builds every context once and caches it.
	LoadModeOnce LoadMode = "once"

	// LoadModeAlways re-reads and rebuilds a context on every access.
	LoadModeAlways LoadMode = "always"
)

// ParseLoadMode converts a string into a LoadMode.
func ParseLoadMode(s string) (LoadMode, error) {
	switch LoadMode(strings.ToLower(strings.TrimSpace(s))) {
	case LoadModeOnce, "":
		return LoadModeOnce, nil
	case LoadModeAlways:
		return LoadModeAlways, nil
	default:
		return "", fmt.Errorf("invalid load mode %q: must be %q or %q", s, LoadModeOnce, LoadModeAlways)
	}
}

// Configuration holds the navigation trees of every navigation context.
// It is safe for concurrent use. Published trees are never mutated.
type Configuration struct {
	path       string
	mode       LoadMode
	settings   navigation.Settings
	conditions map[string]navigation.Condition
	logger     *slog.Logger
	builds     metric.IncrementalCounter

	texts *gocache.Cache
	trees *gocache.Cache
	group singleflight.Group

	// mu guards epoch and gens. A cached entry is only published when the
	// generation of its context did not move while it was being produced.
	mu    sync.Mutex
	epoch uint64
	gens  map[string]uint64
}

// Option is a functional option for configuring the Configuration.
type Option func(*Configuration)

// WithPath sets the directory holding the navigation files.
func WithPath(path string) Option {
	return func(c *Configuration) { c.path = path }
}

// WithLoadMode sets how often navigation files are read. Defaults to LoadModeOnce.
func WithLoadMode(mode LoadMode) Option {
	return func(c *Configuration) { c.mode = mode }
}

// WithRenderer sets the renderer used by the built trees. Defaults to render.NewList.
func WithRenderer(f navigation.RendererFactory) Option {
	return func(c *Configuration) { c.settings.Renderer = f }
}

// WithSelectedClass sets the css class of selected items.
func WithSelectedClass(class string) Option {
	return func(c *Configuration) { c.settings.SelectedClass = class }
}

// WithAutoHighlight selects items whose URL matches the request path.
func WithAutoHighlight(enabled bool) Option {
	return func(c *Configuration) { c.settings.AutoHighlight = enabled }
}

// WithRenderAllLevels renders every sub navigation regardless of selection.
func WithRenderAllLevels(enabled bool) Option {
	return func(c *Configuration) { c.settings.RenderAllLevels = enabled }
}

// WithCondition registers a named condition usable from if/unless in navigation files.
func WithCondition(name string, cond navigation.Condition) Option {
	return func(c *Configuration) { c.conditions[name] = cond }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Configuration) { c.logger = logger }
}

// WithBuildCounter counts tree builds by context and load mode.
func WithBuildCounter(counter metric.IncrementalCounter) Option {
	return func(c *Configuration) { c.builds = counter }
}

// New creates a Configuration with the provided options.
func New(opts ...Option) *Configuration {
	c := &Configuration{
		mode:       LoadModeOnce,
		settings:   navigation.DefaultSettings(),
		conditions: map[string]navigation.Condition{},
		logger:     slog.Default(),
		builds:     metric.Nop(),
		texts:      gocache.New(gocache.NoExpiration, 0),
		trees:      gocache.New(gocache.NoExpiration, 0),
		gens:       map[string]uint64{},
	}
	c.settings.Renderer = render.NewList

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Path returns the directory holding the navigation files.
func (c *Configuration) Path() string {
	return c.path
}

// Mode returns the load mode.
func (c *Configuration) Mode() LoadMode {
	return c.mode
}

// ConfigFileName returns the path of the file for a navigation context:
// navigation.yaml for the default context, <context>_navigation.yaml otherwise.
func ConfigFileName(dir, navContext string) string {
	name := FileSuffix
	if key := ContextKey(navContext); key != DefaultContext {
		name = key + "_" + FileSuffix
	}

	return filepath.Join(dir, name)
}

// ConfigFileName returns the path of the file for a navigation context.
func (c *Configuration) ConfigFileName(navContext string) string {
	return ConfigFileName(c.path, navContext)
}

// LoadConfig returns the configuration text of a navigation context.
// In LoadModeOnce the text is read once and cached.
func (c *Configuration) LoadConfig(navContext string) ([]byte, error) {
	if c.path == "" {
		return nil, ErrConfigPathNotSet
	}

	key := ContextKey(navContext)
	gen := c.generation(key)
	if c.mode == LoadModeOnce {
		if v, ok := c.texts.Get(key); ok {
			return v.([]byte), nil
		}
	}

	name := c.ConfigFileName(key)
	data, err := os.ReadFile(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, name)
		}
		return nil, fmt.Errorf("failed to read navigation file %q: %w", name, err)
	}

	c.logger.Debug("navigation file loaded", "context", key, "file", name, "bytes", len(data))

	if c.mode == LoadModeOnce {
		c.publish(c.texts, key, gen, data)
	}

	return data, nil
}

// Navigation returns the root container of a navigation context, building it
// from its file on first access. In LoadModeAlways every call builds a new
// tree and publishes it only once complete.
func (c *Configuration) Navigation(navContext string) (*navigation.ItemContainer, error) {
	key := ContextKey(navContext)

	if c.mode == LoadModeAlways {
		gen := c.generation(key)
		root, err := c.build(key)
		if err != nil {
			return nil, err
		}
		c.publish(c.trees, key, gen, root)
		return root, nil
	}

	if v, ok := c.trees.Get(key); ok {
		return v.(*navigation.ItemContainer), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		gen := c.generation(key)
		if v, ok := c.trees.Get(key); ok {
			return v, nil
		}

		root, err := c.build(key)
		if err != nil {
			return nil, err
		}
		if !c.publish(c.trees, key, gen, root) {
			c.logger.Debug("navigation invalidated during build, not cached", "context", key)
		}

		return root, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*navigation.ItemContainer), nil
}

// PrimaryNavigation returns the root container of the default context.
func (c *Configuration) PrimaryNavigation() (*navigation.ItemContainer, error) {
	return c.Navigation(DefaultContext)
}

// Ready reports whether the primary navigation can be built.
func (c *Configuration) Ready(_ context.Context) error {
	_, err := c.PrimaryNavigation()
	return err
}

// ActiveItemContainerFor returns the container at level on the active path
// of a navigation context, or nil when the active path does not reach it.
func (c *Configuration) ActiveItemContainerFor(navContext string, level int, cur navigation.CurrentNavigation) (*navigation.ItemContainer, error) {
	root, err := c.Navigation(navContext)
	if err != nil {
		return nil, err
	}

	return root.ActiveItemContainerFor(level, cur), nil
}

// HandleExplicitNavigation resolves e against the tree of a navigation
// context and records the result on req.
func (c *Configuration) HandleExplicitNavigation(navContext string, req *navigation.Request, e navigation.Explicit) error {
	if e.IsZero() {
		return nil
	}

	root, err := c.Navigation(navContext)
	if err != nil {
		return err
	}

	return navigation.HandleExplicitNavigation(root, req, e)
}

// Invalidate drops the cached text and tree of the given contexts, or of all
// contexts when none is given. A build already in flight for an invalidated
// context still returns its tree to its callers but is not cached.
func (c *Configuration) Invalidate(contexts ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(contexts) == 0 {
		c.epoch++
		c.texts.Flush()
		c.trees.Flush()
		for key := range c.gens {
			c.group.Forget(key)
		}
		c.logger.Info("navigation cache flushed")
		return
	}

	for _, navContext := range contexts {
		key := ContextKey(navContext)
		c.gens[key]++
		c.texts.Delete(key)
		c.trees.Delete(key)
		c.group.Forget(key)
		c.logger.Info("navigation cache invalidated", "context", key)
	}
}

// generation returns the current cache generation of a context.
func (c *Configuration) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.gens[key]; !ok {
		c.gens[key] = 0
	}

	return c.epoch + c.gens[key]
}

// publish stores v under key unless the context was invalidated after gen was taken.
func (c *Configuration) publish(cache *gocache.Cache, key string, gen uint64, v any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch+c.gens[key] != gen {
		return false
	}
	cache.Set(key, v, gocache.NoExpiration)

	return true
}

func (c *Configuration) build(key string) (*navigation.ItemContainer, error) {
	data, err := c.LoadConfig(key)
	if err != nil {
		return nil, err
	}

	script, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse navigation file %q: %w", c.ConfigFileName(key), err)
	}

	settings := c.settings
	root := navigation.NewItemContainer(&settings)
	if err := script.Apply(root, c.conditions); err != nil {
		return nil, fmt.Errorf("failed to build navigation %q: %w", key, err)
	}

	c.builds.Increment(key, string(c.mode))
	c.logger.Info("navigation built", "context", key, "mode", c.mode, "items", len(root.Items))

	return root, nil
}

// ContextKey normalizes a context name to the snake case form used in file
// names, cache keys and metric labels. An empty name is DefaultContext.
func ContextKey(navContext string) string {
	if navContext == "" {
		return DefaultContext
	}

	var sb strings.Builder
	runes := []rune(navContext)
	for i, r := range runes {
		switch {
		case r == '-' || r == ' ':
			sb.WriteRune('_')
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
				sb.WriteRune('_')
			}
			sb.WriteRune(unicode.ToLower(r))
		default:
			sb.WriteRune(r)
		}
	}

	return sb.String()
}
