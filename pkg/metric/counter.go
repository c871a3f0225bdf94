package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// BuildsName counts navigation trees built from configuration files.
	BuildsName = "navigation_builds_total"

	// RendersName counts rendered navigation responses.
	RendersName = "navigation_renders_total"
)

type IncrementalCounter interface {
	Increment(val ...string)
}

type Counter struct {
	Name string
	Help string

	vec *prometheus.CounterVec
}

func (c *Counter) Increment(val ...string) {
	c.vec.WithLabelValues(val...).Inc()
}

func NewCounterWithRegistry(reg prometheus.Registerer, name, help string, labels ...string) IncrementalCounter {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: help,
	}, labels)

	reg.MustRegister(counter)

	return &Counter{
		Name: name,
		Help: help,
		vec:  counter,
	}
}

// NewBuildCounter registers the counter of navigation builds, labeled by context and load mode.
func NewBuildCounter(reg prometheus.Registerer) IncrementalCounter {
	return NewCounterWithRegistry(reg, BuildsName, "Number of navigation trees built.", "context", "mode")
}

// NewRenderCounter registers the counter of rendered navigations, labeled by context and format.
func NewRenderCounter(reg prometheus.Registerer) IncrementalCounter {
	return NewCounterWithRegistry(reg, RendersName, "Number of navigations rendered.", "context", "format")
}

type nop struct{}

func (nop) Increment(...string) {}

// Nop returns a counter that records nothing.
func Nop() IncrementalCounter {
	return nop{}
}

// GetHandlerForRegistry returns an HTTP handler for serving Prometheus metrics from a custom registry.
func GetHandlerForRegistry(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
