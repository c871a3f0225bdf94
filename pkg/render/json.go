package render

import (
	"encoding/json"

	"github.com/mchmarny/navd/pkg/navigation"
)

type jsonItem struct {
	Key      string             `json:"key"`
	Name     string             `json:"name"`
	URL      string             `json:"url"`
	Selected bool               `json:"selected"`
	Options  navigation.Options `json:"options,omitempty"`
	Items    []jsonItem         `json:"items,omitempty"`
}

type jsonContainer struct {
	Level int        `json:"level"`
	Items []jsonItem `json:"items"`
}

// JSON renders a container as a JSON document for API consumers.
type JSON struct{}

// NewJSON returns a JSON renderer.
func NewJSON() navigation.Renderer {
	return &JSON{}
}

// Render returns the JSON encoding of c. Sub navigations are included for
// every item when includeSubNavigation is set.
func (j *JSON) Render(c *navigation.ItemContainer, cur navigation.CurrentNavigation, includeSubNavigation bool) (string, error) {
	b, err := json.Marshal(jsonContainer{
		Level: c.Level,
		Items: jsonItems(c, cur, includeSubNavigation),
	})
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func jsonItems(c *navigation.ItemContainer, cur navigation.CurrentNavigation, includeSubNavigation bool) []jsonItem {
	items := make([]jsonItem, 0, len(c.Items))
	for _, item := range c.Items {
		ji := jsonItem{
			Key:      item.Key,
			Name:     item.Name,
			URL:      item.URL,
			Selected: item.Selected(cur),
			Options:  item.Options,
		}

		if includeSubNavigation && item.SubNavigation != nil {
			ji.Items = jsonItems(item.SubNavigation, cur, includeSubNavigation)
		}

		items = append(items, ji)
	}

	return items
}
