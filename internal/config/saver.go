package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// saveConfig is the JSON-marshaling intermediary. Pointer fields let us
// write explicit booleans while omitting untouched sections entirely.
type saveConfig struct {
	Controls saveControlsConfig `json:"controls"`
	Journal  saveJournalConfig  `json:"journal"`
	Keymap   KeymapConfig       `json:"keymap"`
	UI       UIConfig           `json:"ui"`
	Features FeaturesConfig     `json:"features,omitempty"`
}

type saveControlsConfig struct {
	ClicksToConfirm   int `json:"clicksToConfirm"`
	EscapeMin         int `json:"escapeMin"`
	EscapeMax         int `json:"escapeMax"`
	FatiguedEscapeMin int `json:"fatiguedEscapeMin"`
	FatiguedEscapeMax int `json:"fatiguedEscapeMax"`
	FatigueAfter      int `json:"fatigueAfter"`
}

type saveJournalConfig struct {
	Enabled *bool  `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

// toSaveConfig converts Config to the JSON-serializable format.
func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		Controls: saveControlsConfig{
			ClicksToConfirm:   cfg.Controls.ClicksToConfirm,
			EscapeMin:         cfg.Controls.EscapeMin,
			EscapeMax:         cfg.Controls.EscapeMax,
			FatiguedEscapeMin: cfg.Controls.FatiguedEscapeMin,
			FatiguedEscapeMax: cfg.Controls.FatiguedEscapeMax,
			FatigueAfter:      cfg.Controls.FatigueAfter,
		},
		Journal: saveJournalConfig{
			Enabled: &cfg.Journal.Enabled,
			Path:    cfg.Journal.Path,
		},
		Keymap:   cfg.Keymap,
		UI:       cfg.UI,
		Features: cfg.Features,
	}
}

// Save writes the config to ~/.config/grudge/config.json
func Save(cfg *Config) error {
	path := ConfigPath()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	sc := toSaveConfig(cfg)
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
