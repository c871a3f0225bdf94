package navigation

// DefaultSelectedClass is the css class added to selected items.
const DefaultSelectedClass = "selected"

// Settings are resolved once when a root container is created and shared by
// every container of the tree.
type Settings struct {
	// Renderer creates the renderer used by ItemContainer.Render.
	Renderer RendererFactory

	// SelectedClass is the css class marking selected items.
	SelectedClass string

	// AutoHighlight selects items whose URL equals the request path.
	AutoHighlight bool

	// RenderAllLevels renders every sub navigation, not only the selected one.
	RenderAllLevels bool
}

// DefaultSettings returns settings with the default selected class and no renderer.
func DefaultSettings() Settings {
	return Settings{SelectedClass: DefaultSelectedClass}
}

func (s *Settings) selectedClass() string {
	if s.SelectedClass == "" {
		return DefaultSelectedClass
	}

	return s.SelectedClass
}
