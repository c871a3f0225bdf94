package config

import (
	"errors"
	"sync"

	"github.com/mchmarny/navd/pkg/navigation"
)

// ErrNotInitialized is returned by the package level helpers before Initialize.
var ErrNotInitialized = errors.New("configuration not initialized: call Initialize first")

var (
	// globalConfig holds the process wide configuration.
	globalConfig *Configuration

	// configMutex protects access to globalConfig.
	configMutex sync.RWMutex

	// initOnce ensures the configuration is initialized only once.
	initOnce sync.Once
)

// Initialize creates the process wide configuration. Subsequent calls are
// ignored and return the existing instance.
func Initialize(opts ...Option) *Configuration {
	initOnce.Do(func() {
		cfg := New(opts...)

		configMutex.Lock()
		globalConfig = cfg
		configMutex.Unlock()
	})

	return Get()
}

// Get returns the process wide configuration, or nil before Initialize.
//
// Prefer passing a *Configuration explicitly; Get exists for call sites
// that cannot receive one.
func Get() *Configuration {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// Set replaces the process wide configuration. Intended for tests.
func Set(cfg *Configuration) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = cfg
}

// MustGet returns the process wide configuration and panics before Initialize.
func MustGet() *Configuration {
	cfg := Get()
	if cfg == nil {
		panic(ErrNotInitialized.Error())
	}
	return cfg
}

// PrimaryNavigation returns the default navigation of the process wide configuration.
func PrimaryNavigation() (*navigation.ItemContainer, error) {
	cfg := Get()
	if cfg == nil {
		return nil, ErrNotInitialized
	}

	return cfg.PrimaryNavigation()
}
