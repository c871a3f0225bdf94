package navigation

import (
	"fmt"
	"strings"
)

// Item represents a single entry in a navigation menu, which may own a sub-navigation.
type Item struct {
	// Key identifies the item within its container. Uniqueness is not enforced.
	Key string

	// Name is the display label of the item.
	Name string

	// URL is the link target of the item.
	URL string

	// Options holds rendering hints such as class or other html attributes.
	// Condition keys (if/unless) never appear here.
	Options Options

	// SubNavigation is the nested container one level below this item, if any.
	SubNavigation *ItemContainer

	container *ItemContainer
}

func newItem(c *ItemContainer, key, name, url string, opts Options, sub SubNavigation) (*Item, error) {
	item := &Item{
		Key:       key,
		Name:      name,
		URL:       url,
		Options:   opts,
		container: c,
	}

	if sub != nil {
		item.SubNavigation = newItemContainer(c.Level+1, c.settings)
		if err := sub(item.SubNavigation); err != nil {
			return nil, fmt.Errorf("building sub navigation of %q: %w", key, err)
		}
	}

	return item, nil
}

// Container returns the container holding this item.
func (i *Item) Container() *ItemContainer {
	return i.container
}

// Selected reports whether the item is the active one or contains it.
func (i *Item) Selected(cur CurrentNavigation) bool {
	if i.selectedByConfig(cur) || i.selectedByURL(cur) {
		return true
	}

	return i.SubNavigation != nil && i.SubNavigation.Selected(cur)
}

func (i *Item) selectedByConfig(cur CurrentNavigation) bool {
	key, ok := i.container.CurrentExplicitNavigation(cur)
	return ok && key == i.Key
}

func (i *Item) selectedByURL(cur CurrentNavigation) bool {
	if !i.container.settings.AutoHighlight || i.URL == "" {
		return false
	}

	p, ok := cur.(interface{ Path() string })
	return ok && p.Path() != "" && p.Path() == i.URL
}

// SelectedClass returns the css class marking a selected item, or an empty
// string when the item is not selected.
func (i *Item) SelectedClass(cur CurrentNavigation) string {
	if !i.Selected(cur) {
		return ""
	}

	return i.container.settings.selectedClass()
}

// HTMLOptions returns the html attributes for the item's list element.
// The id defaults to the key and the selected class is appended to any
// configured class.
func (i *Item) HTMLOptions(cur CurrentNavigation) map[string]string {
	attrs := make(map[string]string, len(i.Options)+2)
	for k, v := range i.Options {
		attrs[k] = fmt.Sprint(v)
	}

	if attrs["id"] == "" {
		attrs["id"] = i.Key
	}

	classes := strings.Fields(attrs["class"])
	if sc := i.SelectedClass(cur); sc != "" {
		classes = append(classes, sc)
	}

	if len(classes) > 0 {
		attrs["class"] = strings.Join(classes, " ")
	} else {
		delete(attrs, "class")
	}

	return attrs
}
