package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mchmarny/navd/pkg/navigation"
)

// ErrUnknownCondition is returned when a navigation file names a condition
// that was not registered.
var ErrUnknownCondition = errors.New("unknown condition")

// Script is the declarative description of a navigation tree.
type Script struct {
	// DomID is the id of the rendered root list.
	DomID string `yaml:"dom_id"`

	// DomClass is the class of the rendered root list.
	DomClass string `yaml:"dom_class"`

	// Items of the root container.
	Items []ScriptItem `yaml:"items"`
}

// ScriptItem describes one item and its sub navigation.
type ScriptItem struct {
	Key     string         `yaml:"key"`
	Name    string         `yaml:"name"`
	URL     string         `yaml:"url"`
	Options map[string]any `yaml:"options,omitempty"`

	// If names a condition that must be true for the item to be added.
	If string `yaml:"if,omitempty"`

	// Unless names a condition that must be false for the item to be added.
	Unless string `yaml:"unless,omitempty"`

	Items []ScriptItem `yaml:"items,omitempty"`
}

// ParseScript parses and validates a navigation file.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}

	if err := validateItems(s.Items, ""); err != nil {
		return nil, err
	}

	return &s, nil
}

func validateItems(items []ScriptItem, parent string) error {
	for i, item := range items {
		if item.Key == "" {
			return fmt.Errorf("item %s%d: key is required", parent, i)
		}

		if err := validateItems(item.Items, parent+item.Key+"."); err != nil {
			return err
		}
	}

	return nil
}

// Apply evaluates the script against root by calling Item for every entry.
// Named if/unless conditions are looked up in conditions.
func (s *Script) Apply(root *navigation.ItemContainer, conditions map[string]navigation.Condition) error {
	root.DomID = s.DomID
	root.DomClass = s.DomClass

	return applyItems(root, s.Items, conditions)
}

func applyItems(c *navigation.ItemContainer, items []ScriptItem, conditions map[string]navigation.Condition) error {
	for _, item := range items {
		opts := make(navigation.Options, len(item.Options)+2)
		for k, v := range item.Options {
			opts[k] = v
		}

		for name, key := range map[string]string{navigation.OptionIf: item.If, navigation.OptionUnless: item.Unless} {
			if key == "" {
				continue
			}

			cond, ok := conditions[key]
			if !ok {
				return fmt.Errorf("item %q: %w: %s", item.Key, ErrUnknownCondition, key)
			}
			opts[name] = cond
		}

		var sub navigation.SubNavigation
		if len(item.Items) > 0 {
			children := item.Items
			sub = func(sc *navigation.ItemContainer) error {
				return applyItems(sc, children, conditions)
			}
		}

		if err := c.Item(item.Key, item.Name, item.URL, opts, sub); err != nil {
			return err
		}
	}

	return nil
}
