package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"quill/internal/logging"
	"quill/pkg/fileops"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const AppName = "quill" // application name used for config directory

// Themes and editor layouts accepted by the UI shell.
var (
	ValidThemes  = []string{"dark", "light"}
	ValidLayouts = []string{"single", "split-horizontal", "split-vertical"}
)

// MCPConfig controls the Model Context Protocol server.
type MCPConfig struct {
	Enabled         bool `yaml:"enabled"`
	Port            int  `yaml:"port"`
	ExposeResources bool `yaml:"expose_resources"`
	ToolsEnabled    bool `yaml:"tools_enabled"`
}

// Config holds user configuration for quill.
type Config struct {
	// Appearance
	Theme string `yaml:"theme"`

	// Editor
	FontFamily       string `yaml:"font_family"`
	FontSize         int    `yaml:"font_size"`
	TabSize          int    `yaml:"tab_size"`
	UseSpaces        bool   `yaml:"use_spaces"`
	ShowLineNumbers  bool   `yaml:"show_line_numbers"`
	WordWrap         bool   `yaml:"word_wrap"`
	AutoSave         bool   `yaml:"auto_save"`
	AutoSaveInterval int    `yaml:"auto_save_interval"` // seconds

	// UI
	EditorLayout      string `yaml:"editor_layout"`
	ShowWelcomeScreen bool   `yaml:"show_welcome_screen"`
	WelcomeTabClosed  bool   `yaml:"welcome_tab_closed"`

	// MCP server
	MCP MCPConfig `yaml:"mcp"`

	Version  string `yaml:"version"`   // Track config version
	InitTime int64  `yaml:"init_time"` // Unix timestamp of first setup
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Theme:             "dark",
		FontFamily:        "Consolas",
		FontSize:          12,
		TabSize:           4,
		UseSpaces:         true,
		ShowLineNumbers:   true,
		WordWrap:          false,
		AutoSave:          false,
		AutoSaveInterval:  30,
		EditorLayout:      "single",
		ShowWelcomeScreen: true,
		WelcomeTabClosed:  false,
		MCP: MCPConfig{
			Enabled:         true,
			Port:            9000,
			ExposeResources: true,
			ToolsEnabled:    true,
		},
		Version:  "1.0",
		InitTime: 0, // set during first save
	}
}

// ConfigPath returns the standard config file path for the current platform.
func ConfigPath() (string, error) {
	configDir := filepath.Join(xdg.ConfigHome, AppName)
	configPath := filepath.Join(configDir, "config.yaml")

	logging.Debug("Determined config path", "path", configPath)
	return configPath, nil
}

// FindConfigFile returns the path to an existing config file, and whether it exists.
func FindConfigFile() (string, bool) {
	primary, err := ConfigPath()
	if err != nil {
		logging.Error("Failed to get config path", "error", err)
		return "", false
	}

	if _, err := os.Stat(primary); err == nil {
		return primary, true
	}

	// Return primary path for new config
	return primary, false
}

// IsFirstRun checks if this is the first time the application is run.
func IsFirstRun() bool {
	_, exists := FindConfigFile()
	return !exists
}

// Load loads the config from the standard location. A missing config file
// falls back to defaults so the editor starts without a setup step.
func Load() (*Config, error) {
	configPath, exists := FindConfigFile()
	logging.Debug("Loading config from", "path", configPath)
	if !exists {
		cfg := DefaultConfig()
		return &cfg, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads config from a specific path. Keys absent from the file
// keep their default values.
func LoadFrom(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate rejects values the UI shell cannot act on.
func (c *Config) Validate() error {
	if !slices.Contains(ValidThemes, c.Theme) {
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	if !slices.Contains(ValidLayouts, c.EditorLayout) {
		return fmt.Errorf("unknown editor layout %q", c.EditorLayout)
	}
	if c.FontSize < 6 || c.FontSize > 72 {
		return fmt.Errorf("font size %d out of range", c.FontSize)
	}
	if c.TabSize < 1 || c.TabSize > 16 {
		return fmt.Errorf("tab size %d out of range", c.TabSize)
	}
	if c.AutoSaveInterval < 1 {
		return fmt.Errorf("auto-save interval must be at least 1 second")
	}
	if c.MCP.Port < 1 || c.MCP.Port > 65535 {
		return fmt.Errorf("MCP port %d out of range", c.MCP.Port)
	}
	return nil
}

// Save writes the config to the standard location.
func (c *Config) Save() error {
	configPath, _ := FindConfigFile()
	return c.SaveTo(configPath)
}

// SaveTo writes the config to a specific path, atomically so an
// interrupted save never leaves a truncated file behind.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	// Set init time if this is the first save
	if c.InitTime == 0 {
		c.InitTime = time.Now().Unix()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	// Restrictive permissions (600): config is per-user state
	if err := fileops.AtomicWriteFileMode(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// SetTheme updates the theme after validating it.
func (c *Config) SetTheme(theme string) error {
	if !slices.Contains(ValidThemes, theme) {
		return fmt.Errorf("unknown theme %q", theme)
	}
	c.Theme = theme
	return nil
}

// SetEditorLayout updates the editor layout after validating it.
func (c *Config) SetEditorLayout(layout string) error {
	if !slices.Contains(ValidLayouts, layout) {
		return fmt.Errorf("unknown editor layout %q", layout)
	}
	c.EditorLayout = layout
	return nil
}

// AutoSaveDuration returns the auto-save interval as a duration.
func (c *Config) AutoSaveDuration() time.Duration {
	return time.Duration(c.AutoSaveInterval) * time.Second
}
