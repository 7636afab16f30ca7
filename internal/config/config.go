// Package config loads the lazystage configuration from YAML.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/chmouel/lazystage/internal/theme"
	"gopkg.in/yaml.v3"
)

// AppConfig defines the global lazystage configuration options.
type AppConfig struct {
	Theme         string // Theme name: see theme.AvailableThemes
	Pager         string // Pager used for diffs (default: "less -RSX -+F")
	Editor        string // Editor for the edit action (default: $EDITOR)
	DebugLog      string // Path to the debug log file
	AutoRefresh   bool   // Watch .git and reload the list on changes
	ShowIcons     bool   // Render Nerd Font file icons in the list
	ConfirmDelete bool   // Ask before deleting untracked files
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Theme:         theme.DraculaName,
		Pager:         "less -RSX -+F",
		AutoRefresh:   true,
		ShowIcons:     true,
		ConfirmDelete: true,
	}
}

// EditorCommand resolves the editor, falling back to $EDITOR then vi.
func (c *AppConfig) EditorCommand() string {
	if strings.TrimSpace(c.Editor) != "" {
		return c.Editor
	}
	if env := strings.TrimSpace(os.Getenv("EDITOR")); env != "" {
		return env
	}
	return "vi"
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}
	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()

	if name, ok := data["theme"].(string); ok {
		if normalized := theme.NormalizeThemeName(name); normalized != "" {
			cfg.Theme = normalized
		}
	}
	if pager, ok := data["pager"].(string); ok {
		if pager = strings.TrimSpace(pager); pager != "" {
			cfg.Pager = pager
		}
	}
	if editor, ok := data["editor"].(string); ok {
		cfg.Editor = strings.TrimSpace(editor)
	}
	if debugLog, ok := data["debug_log"].(string); ok {
		cfg.DebugLog = strings.TrimSpace(debugLog)
	}
	cfg.AutoRefresh = coerceBool(data["auto_refresh"], cfg.AutoRefresh)
	cfg.ShowIcons = coerceBool(data["show_icons"], cfg.ShowIcons)
	cfg.ConfirmDelete = coerceBool(data["confirm_delete"], cfg.ConfirmDelete)

	return cfg
}

func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config")
}

// LoadConfig reads the configuration from configPath, or from the first of
// ~/.config/lazystage/config.{yaml,yml} when configPath is empty. A missing
// file yields the defaults; a malformed file yields the defaults too, since
// a broken config should never keep the TUI from starting.
func LoadConfig(configPath string) (*AppConfig, error) {
	var paths []string
	if configPath != "" {
		paths = []string{configPath}
	} else {
		base := filepath.Join(getConfigDir(), "lazystage")
		paths = []string{
			filepath.Join(base, "config.yaml"),
			filepath.Join(base, "config.yml"),
		}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		// #nosec G304 -- path comes from the user's own flag or config dir
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return DefaultConfig(), nil
		}
		return parseConfig(yamlData), nil
	}

	return DefaultConfig(), nil
}
