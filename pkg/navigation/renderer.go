package navigation

import "errors"

// ErrNoRenderer is returned by Render when no renderer is configured.
var ErrNoRenderer = errors.New("no renderer configured")

// Renderer produces markup for a container.
type Renderer interface {
	// Render returns the markup of c for the request described by cur.
	// Sub navigations are included when includeSubNavigation is true.
	Render(c *ItemContainer, cur CurrentNavigation, includeSubNavigation bool) (string, error)
}

// RendererFactory creates a new Renderer for each render call.
type RendererFactory func() Renderer

// RenderOption customizes a single ItemContainer.Render call.
type RenderOption func(*renderOptions)

type renderOptions struct {
	factory RendererFactory
}

// WithRenderer overrides the configured renderer for one render call.
func WithRenderer(f RendererFactory) RenderOption {
	return func(o *renderOptions) { o.factory = f }
}
