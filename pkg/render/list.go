package render

import (
	"html"
	"html/template"
	"regexp"
	"sort"
	"strings"

	"github.com/mchmarny/navd/pkg/navigation"
)

var (
	listTemplate = template.Must(template.New("list").Parse(
		`<ul{{with .ID}} id="{{.}}"{{end}}{{with .Class}} class="{{.}}"{{end}}>` +
			`{{range .Items}}<li {{.Attrs}}><a href="{{.URL}}"{{with .LinkClass}} class="{{.}}"{{end}}>{{.Name}}</a>{{.Sub}}</li>{{end}}` +
			`</ul>`))

	attrNamePattern = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_.:-]*$`)
)

type listView struct {
	ID    string
	Class string
	Items []listItemView
}

type listItemView struct {
	Attrs     template.HTMLAttr
	URL       string
	LinkClass string
	Name      string
	Sub       template.HTML
}

// List renders a container as nested html lists.
type List struct{}

// NewList returns a List renderer.
func NewList() navigation.Renderer {
	return &List{}
}

// Render returns the <ul> markup of c. A sub navigation is rendered inside
// its item when includeSubNavigation is set and the item is selected, or
// for every item when the tree renders all levels.
func (l *List) Render(c *navigation.ItemContainer, cur navigation.CurrentNavigation, includeSubNavigation bool) (string, error) {
	settings := c.Settings()
	view := listView{
		ID:    c.DomID,
		Class: c.DomClass,
		Items: make([]listItemView, 0, len(c.Items)),
	}

	for _, item := range c.Items {
		iv := listItemView{
			Attrs:     htmlAttrs(item.HTMLOptions(cur)),
			URL:       item.URL,
			LinkClass: item.SelectedClass(cur),
			Name:      item.Name,
		}

		if item.SubNavigation != nil && (settings.RenderAllLevels || (includeSubNavigation && item.Selected(cur))) {
			sub, err := item.SubNavigation.Render(cur, includeSubNavigation, navigation.WithRenderer(func() navigation.Renderer { return l }))
			if err != nil {
				return "", err
			}
			iv.Sub = template.HTML(sub)
		}

		view.Items = append(view.Items, iv)
	}

	var sb strings.Builder
	if err := listTemplate.Execute(&sb, view); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// htmlAttrs writes id and class first and the remaining attributes sorted.
// Names that are not valid attribute names are dropped.
func htmlAttrs(attrs map[string]string) template.HTMLAttr {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		if name == "id" || name == "class" || !attrNamePattern.MatchString(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var parts []string
	for _, name := range append([]string{"id", "class"}, names...) {
		v, ok := attrs[name]
		if !ok {
			continue
		}
		parts = append(parts, name+`="`+html.EscapeString(v)+`"`)
	}

	return template.HTMLAttr(strings.Join(parts, " "))
}
