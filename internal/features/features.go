package features

import (
	"sync"

	"github.com/wilbur182/grudge/internal/config"
)

// Feature is a named flag with its compiled-in default.
type Feature struct {
	Name        string
	Default     bool
	Description string
}

// KindControls swaps the evasive complete control for a plain
// single-click confirm with no dialog chain or dodging.
var KindControls = Feature{
	Name:        "kind_controls",
	Default:     false,
	Description: "Complete todos with a single ordinary click",
}

// IntroSplash plays the animated logo on startup.
var IntroSplash = Feature{
	Name:        "intro_splash",
	Default:     true,
	Description: "Play the animated intro on startup",
}

// known lists every registered flag, in display order.
var known = []Feature{KindControls, IntroSplash}

var (
	mu        sync.RWMutex
	cfg       *config.Config
	overrides = map[string]bool{}
)

// Init points the resolver at the loaded config. Before Init every flag
// reads as its default.
func Init(c *config.Config) {
	mu.Lock()
	defer mu.Unlock()
	cfg = c
	overrides = map[string]bool{}
}

// SetOverride pins a flag for this process, typically from a CLI flag.
// Overrides outrank config values.
func SetOverride(name string, enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	overrides[name] = enabled
}

// IsEnabled resolves a flag: override, then config, then default.
// Unknown names resolve to false.
func IsEnabled(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	return resolve(name)
}

// resolve needs mu held.
func resolve(name string) bool {
	if v, ok := overrides[name]; ok {
		return v
	}
	if cfg != nil {
		if v, ok := cfg.Features.Flags[name]; ok {
			return v
		}
	}
	for _, f := range known {
		if f.Name == name {
			return f.Default
		}
	}
	return false
}

// IsKnown reports whether a flag name is registered.
func IsKnown(name string) bool {
	for _, f := range known {
		if f.Name == name {
			return true
		}
	}
	return false
}

// List returns every known flag with its resolved state.
func List() map[string]bool {
	mu.RLock()
	defer mu.RUnlock()

	out := make(map[string]bool, len(known))
	for _, f := range known {
		out[f.Name] = resolve(f.Name)
	}
	return out
}

// All returns the registered flags with metadata, in display order.
func All() []Feature {
	return append([]Feature(nil), known...)
}
