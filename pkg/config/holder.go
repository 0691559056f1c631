package config

import (
	"errors"
	"sync"
)

// ErrNotInitialized is returned by Refresh before Init or after Dispose.
var ErrNotInitialized = errors.New("configuration not initialized")

// Holder publishes the active configuration. It replaces package-level
// state: callers create one, Init it at startup and Dispose it on exit.
type Holder struct {
	mu   sync.RWMutex
	path string
	cfg  *Config
}

// NewHolder returns an empty holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Init loads path and publishes it. An empty path publishes Default().
func (h *Holder) Init(path string) error {
	cfg := Default()
	if path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	h.mu.Lock()
	h.path = path
	h.cfg = cfg
	h.mu.Unlock()
	return nil
}

// Refresh reloads from the path given to Init. On failure the previously
// published configuration stays in place.
func (h *Holder) Refresh() (*Config, error) {
	h.mu.RLock()
	path, cfg := h.path, h.cfg
	h.mu.RUnlock()

	if cfg == nil {
		return nil, ErrNotInitialized
	}
	if path == "" {
		return cfg, nil
	}

	loaded, err := LoadFile(path)
	if err != nil {
		return cfg, err
	}

	h.mu.Lock()
	h.cfg = loaded
	h.mu.Unlock()
	return loaded, nil
}

// Current returns the published configuration, or Default() before Init.
func (h *Holder) Current() *Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.cfg == nil {
		return Default()
	}
	return h.cfg
}

// Path returns the file the configuration was loaded from.
func (h *Holder) Path() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.path
}

// Dispose drops the published configuration.
func (h *Holder) Dispose() {
	h.mu.Lock()
	h.cfg = nil
	h.path = ""
	h.mu.Unlock()
}
