package config

// Config is the root configuration structure.
type Config struct {
	Controls ControlsConfig `json:"controls"`
	Journal  JournalConfig  `json:"journal"`
	Keymap   KeymapConfig   `json:"keymap"`
	UI       UIConfig       `json:"ui"`
	Features FeaturesConfig `json:"features"`
}

// FeaturesConfig holds feature flag settings.
type FeaturesConfig struct {
	Flags map[string]bool `json:"flags"`
}

// ControlsConfig tunes the evasive completion control.
type ControlsConfig struct {
	// ClicksToConfirm is how many clicks the done button absorbs before the
	// confirmation sequence opens. Minimum 1.
	ClicksToConfirm int `json:"clicksToConfirm"`
	// EscapeMin/EscapeMax bound the hover escape distance in cells.
	EscapeMin int `json:"escapeMin"`
	EscapeMax int `json:"escapeMax"`
	// FatiguedEscapeMin/Max bound the escape distance once the button tires.
	FatiguedEscapeMin int `json:"fatiguedEscapeMin"`
	FatiguedEscapeMax int `json:"fatiguedEscapeMax"`
	// FatigueAfter is how many escapes the button manages at full strength.
	FatigueAfter int `json:"fatigueAfter"`
}

// JournalConfig configures the interaction journal.
type JournalConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"` // default ~/.local/state/grudge/journal.db
}

// KeymapConfig holds key binding overrides.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	ShowFooter bool        `json:"showFooter"`
	ShowClock  bool        `json:"showClock"`
	Theme      ThemeConfig `json:"theme"`
}

// ThemeConfig configures the color theme.
type ThemeConfig struct {
	Name      string            `json:"name"`
	Overrides map[string]string `json:"overrides"`
	Custom    []CustomTheme     `json:"custom,omitempty"`
}

// CustomTheme defines a user theme: a built-in base recolored by name.
// Custom themes register at startup and show up in the theme switcher
// like any other.
type CustomTheme struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name,omitempty"`
	Base        string            `json:"base,omitempty"`
	Colors      map[string]string `json:"colors,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Controls: ControlsConfig{
			ClicksToConfirm:   3,
			EscapeMin:         6,
			EscapeMax:         14,
			FatiguedEscapeMin: 2,
			FatiguedEscapeMax: 5,
			FatigueAfter:      5,
		},
		Journal: JournalConfig{
			Enabled: true,
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
		UI: UIConfig{
			ShowFooter: true,
			ShowClock:  true,
			Theme: ThemeConfig{
				Name:      "default",
				Overrides: make(map[string]string),
			},
		},
		Features: FeaturesConfig{
			Flags: make(map[string]bool),
		},
	}
}

// Validate checks the configuration for errors, clamping out-of-range
// values back to defaults rather than failing.
func (c *Config) Validate() error {
	if c.Controls.ClicksToConfirm < 1 {
		c.Controls.ClicksToConfirm = 3
	}
	if c.Controls.EscapeMin < 1 {
		c.Controls.EscapeMin = 6
	}
	if c.Controls.EscapeMax < c.Controls.EscapeMin {
		c.Controls.EscapeMax = c.Controls.EscapeMin
	}
	if c.Controls.FatiguedEscapeMin < 1 {
		c.Controls.FatiguedEscapeMin = 2
	}
	if c.Controls.FatiguedEscapeMax < c.Controls.FatiguedEscapeMin {
		c.Controls.FatiguedEscapeMax = c.Controls.FatiguedEscapeMin
	}
	if c.Controls.FatigueAfter < 0 {
		c.Controls.FatigueAfter = 5
	}
	return nil
}
