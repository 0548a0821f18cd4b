package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/wdiview/pkg/dashboard"
	"github.com/vanderheijden86/wdiview/pkg/loader"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Defaults.Indicator != dashboard.BirthRateIndicator {
		t.Errorf("expected default indicator %q, got %q", dashboard.BirthRateIndicator, cfg.Defaults.Indicator)
	}
	if cfg.Defaults.Year != 1960 || cfg.Defaults.ScatterYear != 2010 {
		t.Errorf("unexpected default years %+v", cfg.Defaults)
	}
	if cfg.TopN != 15 {
		t.Errorf("expected top_n 15, got %d", cfg.TopN)
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("expected addr %q, got %q", DefaultServerAddr, cfg.Server.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("expected default config, got theme %q", cfg.UI.Theme)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
data:
  dir: ~/wdi-data
  colors: /etc/wdi/colors.txt
defaults:
  indicator: GDP growth (annual %)
  year: 1990
fallback_color: "#000000"
top_n: 10
server:
  addr: 0.0.0.0:9000
ui:
  theme: light
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "wdi-data"); cfg.Data.Dir != want {
		t.Errorf("expected expanded dir %q, got %q", want, cfg.Data.Dir)
	}
	if cfg.Defaults.Indicator != "GDP growth (annual %)" || cfg.Defaults.Year != 1990 {
		t.Errorf("defaults not loaded: %+v", cfg.Defaults)
	}
	if cfg.Defaults.ScatterYear != 2010 {
		t.Errorf("unset fields should keep defaults, got scatter year %d", cfg.Defaults.ScatterYear)
	}
	if cfg.TopN != 10 || cfg.FallbackColor != "#000000" || cfg.Server.Addr != "0.0.0.0:9000" || cfg.UI.Theme != "light" {
		t.Errorf("unexpected config %+v", cfg)
	}

	opts := cfg.DashboardOptions()
	if opts.DefaultIndicator != "GDP growth (annual %)" || opts.TopN != 10 || opts.FallbackColor != "#000000" {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad yaml", "data: [unclosed", "parsing config"},
		{"bad theme", "ui:\n  theme: neon\n", "ui.theme"},
		{"bad tab", "ui:\n  tab: maps\n", "ui.tab"},
		{"negative top_n", "top_n: -1\n", "top_n"},
		{"inverted years", "defaults:\n  min_year: 2000\n  max_year: 1990\n", "min_year"},
		{"bad format", "export:\n  format: gif\n", "export.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFrom(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err=%v; want mention of %q", err, tt.want)
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Data.Table = "/srv/wdi/table.xlsx"
	cfg.UI.Tab = "trajectory"
	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded != cfg {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", cfg, loaded)
	}
}

func TestPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Data.Dir = "/srv/wdi"
	cfg.Data.Hierarchy = "/opt/sun.csv"

	p := cfg.Paths("")
	if p.Table != filepath.Join("/srv/wdi", loader.DefaultTableFile) {
		t.Errorf("Table=%s", p.Table)
	}
	if p.Hierarchy != "/opt/sun.csv" {
		t.Errorf("explicit hierarchy ignored: %s", p.Hierarchy)
	}
	if p := cfg.Paths("/tmp/x"); p.Colors != filepath.Join("/tmp/x", loader.DefaultColorFile) {
		t.Errorf("override ignored: %s", p.Colors)
	}
}

func TestConfigPath_EnvOverride(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "/etc/wdi.yaml")
	if got := ConfigPath(); got != "/etc/wdi.yaml" {
		t.Fatalf("ConfigPath=%s", got)
	}

	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := ConfigPath(); got != filepath.Join("/xdg", "wdi", "config.yaml") {
		t.Fatalf("ConfigPath=%s", got)
	}
}
