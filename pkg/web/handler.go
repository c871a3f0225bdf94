package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mchmarny/navd/pkg/config"
	"github.com/mchmarny/navd/pkg/metric"
	"github.com/mchmarny/navd/pkg/navigation"
	"github.com/mchmarny/navd/pkg/render"
)

const (
	// FormatHTML renders with the configured renderer.
	FormatHTML = "html"

	// FormatJSON renders with render.JSON.
	FormatJSON = "json"
)

// Handler renders navigation contexts over HTTP.
//
// Query parameters:
//   - path: request path used for auto highlighting
//   - current: explicit current navigation, a key or a comma separated path
//   - level_N: explicit current navigation by level, ignored when current is set
//   - sub: include sub navigations (bool)
//   - level: render only the active container at that level
//   - format: html (default) or json
type Handler struct {
	cfg     *config.Configuration
	renders metric.IncrementalCounter
	logger  *slog.Logger
}

// Option is a functional option for configuring the Handler.
type Option func(*Handler)

// WithRenderCounter counts rendered navigations by context and format.
func WithRenderCounter(counter metric.IncrementalCounter) Option {
	return func(h *Handler) { h.renders = counter }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// NewHandler creates a navigation handler backed by cfg. Register it with a
// {context} path wildcard to serve several navigation contexts.
func NewHandler(cfg *config.Configuration, opts ...Option) *Handler {
	h := &Handler{
		cfg:     cfg,
		renders: metric.Nop(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := config.ContextKey(r.PathValue("context"))

	q := r.URL.Query()
	format := strings.ToLower(q.Get("format"))
	if format == "" {
		format = FormatHTML
	}
	if format != FormatHTML && format != FormatJSON {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
		return
	}

	includeSub := false
	if v := q.Get("sub"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid sub value %q", v))
			return
		}
		includeSub = b
	}

	h.logger.Debug("handling navigation request",
		"method", r.Method,
		"url", r.URL.Path,
		"context", key,
	)

	root, err := h.cfg.Navigation(key)
	if err != nil {
		if errors.Is(err, config.ErrConfigFileNotFound) {
			h.writeError(w, http.StatusNotFound, fmt.Sprintf("navigation %q not found", key))
			return
		}
		h.logger.Error("failed to load navigation", "context", key, "error", err)
		h.writeError(w, http.StatusInternalServerError, "error, see logs for details")
		return
	}

	req := navigation.NewRequest(q.Get("path"))
	if err := navigation.HandleExplicitNavigation(root, req, ExplicitFromQuery(q)); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	container, level := root, 0
	if v := q.Get("level"); v != "" {
		level, err = strconv.Atoi(v)
		if err != nil || level < 1 {
			h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid level %q", v))
			return
		}
		container = root.ActiveItemContainerFor(level, req)
	}

	contentType := "text/html; charset=utf-8"
	if format == FormatJSON {
		contentType = "application/json"
	}

	out, err := h.render(container, level, req, includeSub, format)
	if err != nil {
		h.logger.Error("failed to render navigation", "context", key, "error", err)
		h.writeError(w, http.StatusInternalServerError, "error, see logs for details")
		return
	}

	h.renders.Increment(key, format)

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(out)); err != nil {
		h.logger.Error("failed to write navigation response", "error", err)
	}
}

// render renders container in format. A nil container, a level past the end
// of the active path, is an empty body in html and an empty item list in json.
func (h *Handler) render(container *navigation.ItemContainer, level int, req *navigation.Request, includeSub bool, format string) (string, error) {
	if format == FormatJSON {
		if container == nil {
			return render.NewJSON().Render(&navigation.ItemContainer{Level: level}, req, includeSub)
		}
		return container.Render(req, includeSub, navigation.WithRenderer(render.NewJSON))
	}

	if container == nil {
		return "", nil
	}

	return container.Render(req, includeSub)
}

// ExplicitFromQuery reads the explicit current navigation from query values.
// A current value takes precedence over level_N values.
func ExplicitFromQuery(q url.Values) navigation.Explicit {
	if current := q.Get("current"); current != "" {
		return navigation.ExplicitPath(strings.Split(current, ",")...)
	}

	levels := map[string]string{}
	for name := range q {
		if _, ok := navigation.ParseLevelName(name); ok {
			levels[name] = q.Get(name)
		}
	}

	if len(levels) == 0 {
		return navigation.Explicit{}
	}

	return navigation.ExplicitLevels(levels)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.logger.Warn("handling error response",
		"status", status,
		"message", message,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		h.logger.Error("failed to encode error response", "error", err)
	}
}
