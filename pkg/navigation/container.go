package navigation

import (
	"errors"
	"fmt"
)

const (
	// OptionIf is the option key holding a Condition that must be true for an item to be added.
	OptionIf = "if"

	// OptionUnless is the option key holding a Condition that must be false for an item to be added.
	OptionUnless = "unless"
)

// ErrInvalidCondition is returned when an if/unless option does not hold a Condition.
var ErrInvalidCondition = errors.New("invalid condition")

// Options holds rendering hints for an item, plus the optional if/unless conditions
// consumed by ItemContainer.Item.
type Options map[string]any

// Condition decides at build time whether an item is part of the menu.
type Condition func() bool

// SubNavigation populates the sub-container of an item.
type SubNavigation func(c *ItemContainer) error

// ItemContainer holds the ordered items of one navigation level.
type ItemContainer struct {
	// Level is the nesting depth of the container, the root being 1.
	Level int

	// Items in render order.
	Items []*Item

	// DomID is the optional id of the rendered list.
	DomID string

	// DomClass is the optional class of the rendered list.
	DomClass string

	settings *Settings
}

// NewItemContainer creates an empty root container. Sub-containers created
// while building the tree share the given settings; nil means DefaultSettings.
func NewItemContainer(settings *Settings) *ItemContainer {
	if settings == nil {
		s := DefaultSettings()
		settings = &s
	}

	return newItemContainer(1, settings)
}

func newItemContainer(level int, settings *Settings) *ItemContainer {
	return &ItemContainer{
		Level:    level,
		Items:    []*Item{},
		settings: settings,
	}
}

// Settings returns a copy of the settings the container was built with.
func (c *ItemContainer) Settings() Settings {
	return *c.settings
}

// Item appends a new item unless its if/unless conditions exclude it.
// Both conditions are evaluated once, before the sub navigation is built,
// and are stripped from the options stored on the item.
func (c *ItemContainer) Item(key, name, url string, opts Options, sub SubNavigation) error {
	ok, err := shouldAddItem(opts)
	if err != nil {
		return fmt.Errorf("item %q: %w", key, err)
	}

	if !ok {
		return nil
	}

	item, err := newItem(c, key, name, url, stripConditions(opts), sub)
	if err != nil {
		return err
	}

	c.Items = append(c.Items, item)

	return nil
}

func shouldAddItem(opts Options) (bool, error) {
	ifCond, err := conditionFor(opts, OptionIf)
	if err != nil {
		return false, err
	}

	unlessCond, err := conditionFor(opts, OptionUnless)
	if err != nil {
		return false, err
	}

	include := true
	if ifCond != nil {
		include = ifCond()
	}

	if unlessCond != nil && unlessCond() {
		include = false
	}

	return include, nil
}

func conditionFor(opts Options, name string) (Condition, error) {
	v, ok := opts[name]
	if !ok || v == nil {
		return nil, nil
	}

	switch cond := v.(type) {
	case Condition:
		return cond, nil
	case func() bool:
		return cond, nil
	default:
		return nil, fmt.Errorf("%w: %s option is %T", ErrInvalidCondition, name, v)
	}
}

func stripConditions(opts Options) Options {
	out := make(Options, len(opts))
	for k, v := range opts {
		if k == OptionIf || k == OptionUnless {
			continue
		}
		out[k] = v
	}

	return out
}

// Get returns the first item with the given key, or nil.
func (c *ItemContainer) Get(key string) *Item {
	for _, item := range c.Items {
		if item.Key == key {
			return item
		}
	}

	return nil
}

// Selected reports whether any item of the container is selected.
func (c *ItemContainer) Selected(cur CurrentNavigation) bool {
	for _, item := range c.Items {
		if item.Selected(cur) {
			return true
		}
	}

	return false
}

// SelectedItem returns the item explicitly set as current for the container's
// level, falling back to the first selected item. It returns nil when nothing
// is selected.
func (c *ItemContainer) SelectedItem(cur CurrentNavigation) *Item {
	if key, ok := c.CurrentExplicitNavigation(cur); ok {
		if item := c.Get(key); item != nil {
			return item
		}
	}

	for _, item := range c.Items {
		if item.Selected(cur) {
			return item
		}
	}

	return nil
}

// CurrentExplicitNavigation returns the current navigation key for the container's level.
func (c *ItemContainer) CurrentExplicitNavigation(cur CurrentNavigation) (string, bool) {
	if cur == nil {
		return "", false
	}

	return cur.CurrentNavigationFor(c.Level)
}

// ActiveItemContainerFor returns the container at the given level on the
// active path, or nil when the active path does not reach that level.
func (c *ItemContainer) ActiveItemContainerFor(level int, cur CurrentNavigation) *ItemContainer {
	if c.Level == level {
		return c
	}

	if level < c.Level {
		return nil
	}

	item := c.SelectedItem(cur)
	if item == nil || item.SubNavigation == nil {
		return nil
	}

	return item.SubNavigation.ActiveItemContainerFor(level, cur)
}

// LevelForItem returns the deepest level holding an item with the given key,
// or 0 when no container in the tree has it.
func (c *ItemContainer) LevelForItem(key string) int {
	level := 0
	if c.Get(key) != nil {
		level = c.Level
	}

	for _, item := range c.Items {
		if item.SubNavigation == nil {
			continue
		}

		if l := item.SubNavigation.LevelForItem(key); l > level {
			level = l
		}
	}

	return level
}

// Render produces the markup of the container with a freshly created
// renderer. The settings' renderer is used unless overridden with WithRenderer.
func (c *ItemContainer) Render(cur CurrentNavigation, includeSubNavigation bool, opts ...RenderOption) (string, error) {
	o := renderOptions{factory: c.settings.Renderer}
	for _, opt := range opts {
		opt(&o)
	}

	if o.factory == nil {
		return "", ErrNoRenderer
	}

	return o.factory().Render(c, cur, includeSubNavigation)
}
