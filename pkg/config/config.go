// Package config handles loading and saving wdi configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/wdi/config.yaml (or $WDI_CONFIG)
//
// Command-line flags override anything set here.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/wdiview/pkg/dashboard"
	"github.com/vanderheijden86/wdiview/pkg/loader"
)

// ConfigPathEnvVar points at an alternative config file.
const ConfigPathEnvVar = "WDI_CONFIG"

// DataConfig locates the reference files. Dir is used for any file not
// named explicitly.
type DataConfig struct {
	Dir       string `yaml:"dir,omitempty"`
	Table     string `yaml:"table,omitempty"`
	Colors    string `yaml:"colors,omitempty"`
	Hierarchy string `yaml:"hierarchy,omitempty"`
}

// DefaultsConfig sets the initial control values.
type DefaultsConfig struct {
	Indicator   string `yaml:"indicator,omitempty"`
	XIndicator  string `yaml:"x_indicator,omitempty"`
	YIndicator  string `yaml:"y_indicator,omitempty"`
	Year        int    `yaml:"year,omitempty"`
	ScatterYear int    `yaml:"scatter_year,omitempty"`
	MinYear     int    `yaml:"min_year,omitempty"`
	MaxYear     int    `yaml:"max_year,omitempty"`
}

// ServerConfig holds web shell settings.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// UIConfig holds terminal shell preferences.
type UIConfig struct {
	Theme string `yaml:"theme,omitempty"` // dark, light, auto
	Tab   string `yaml:"tab,omitempty"`   // geo, scatter, taxonomy, trajectory
}

// ExportConfig holds static export defaults.
type ExportConfig struct {
	Format string `yaml:"format,omitempty"` // svg, png, json
}

// Config is the top-level configuration for wdi.
type Config struct {
	Data          DataConfig     `yaml:"data,omitempty"`
	Defaults      DefaultsConfig `yaml:"defaults,omitempty"`
	FallbackColor string         `yaml:"fallback_color,omitempty"`
	TopN          int            `yaml:"top_n,omitempty"`
	Server        ServerConfig   `yaml:"server,omitempty"`
	UI            UIConfig       `yaml:"ui,omitempty"`
	Export        ExportConfig   `yaml:"export,omitempty"`
}

// DefaultServerAddr is where the web shell listens unless told otherwise.
const DefaultServerAddr = "127.0.0.1:8050"

// Themes the terminal shell understands.
var Themes = []string{"auto", "dark", "light"}

// Tabs the terminal shell can open on.
var Tabs = []string{"geo", "scatter", "taxonomy", "trajectory"}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	d := dashboard.DefaultOptions()
	return Config{
		Defaults: DefaultsConfig{
			Indicator:   d.DefaultIndicator,
			XIndicator:  d.DefaultXIndicator,
			YIndicator:  d.DefaultYIndicator,
			Year:        d.DefaultYear,
			ScatterYear: d.DefaultScatterYear,
			MinYear:     d.MinYear,
			MaxYear:     d.MaxYear,
		},
		TopN:   d.TopN,
		Server: ServerConfig{Addr: DefaultServerAddr},
		UI:     UIConfig{Theme: "auto", Tab: "geo"},
		Export: ExportConfig{Format: "svg"},
	}
}

// ConfigDir returns the XDG config directory for wdi.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "wdi")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "wdi")
}

// ConfigPath returns the full path to config.yaml, honouring WDI_CONFIG.
func ConfigPath() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return expandHome(p)
	}
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the default location.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Data.Dir = expandHome(cfg.Data.Dir)
	cfg.Data.Table = expandHome(cfg.Data.Table)
	cfg.Data.Colors = expandHome(cfg.Data.Colors)
	cfg.Data.Hierarchy = expandHome(cfg.Data.Hierarchy)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the default location.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate rejects values no shell could act on.
func (c Config) Validate() error {
	if c.UI.Theme != "" && !containsFold(Themes, c.UI.Theme) {
		return fmt.Errorf("ui.theme %q (want one of %s)", c.UI.Theme, strings.Join(Themes, ", "))
	}
	if c.UI.Tab != "" && !containsFold(Tabs, c.UI.Tab) {
		return fmt.Errorf("ui.tab %q (want one of %s)", c.UI.Tab, strings.Join(Tabs, ", "))
	}
	if c.TopN < 0 {
		return fmt.Errorf("top_n must not be negative, got %d", c.TopN)
	}
	d := c.Defaults
	if d.MinYear != 0 && d.MaxYear != 0 && d.MinYear > d.MaxYear {
		return fmt.Errorf("defaults.min_year %d is after defaults.max_year %d", d.MinYear, d.MaxYear)
	}
	switch strings.ToLower(c.Export.Format) {
	case "", "svg", "png", "json":
	default:
		return fmt.Errorf("export.format %q (want svg, png or json)", c.Export.Format)
	}
	return nil
}

// Paths resolves the three reference file paths. dirOverride, when set,
// replaces the configured directory; explicitly named files always win.
func (c Config) Paths(dirOverride string) loader.Paths {
	dir := c.Data.Dir
	if dirOverride != "" {
		dir = dirOverride
	}
	p := loader.DefaultPaths(dir)
	if c.Data.Table != "" {
		p.Table = c.Data.Table
	}
	if c.Data.Colors != "" {
		p.Colors = c.Data.Colors
	}
	if c.Data.Hierarchy != "" {
		p.Hierarchy = c.Data.Hierarchy
	}
	return p
}

// DashboardOptions converts the config into dashboard options.
func (c Config) DashboardOptions() dashboard.Options {
	return dashboard.Options{
		DefaultIndicator:   c.Defaults.Indicator,
		DefaultXIndicator:  c.Defaults.XIndicator,
		DefaultYIndicator:  c.Defaults.YIndicator,
		DefaultYear:        c.Defaults.Year,
		DefaultScatterYear: c.Defaults.ScatterYear,
		MinYear:            c.Defaults.MinYear,
		MaxYear:            c.Defaults.MaxYear,
		TopN:               c.TopN,
		FallbackColor:      c.FallbackColor,
	}
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
