package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestLoad_FreshInstallCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "handnote.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Ratio != 3 {
		t.Errorf("Ratio = %d, want 3", cfg.Ratio)
	}
	if cfg.Width != 600 || cfg.Height != 400 {
		t.Errorf("dimensions = %dx%d, want 600x400", cfg.Width, cfg.Height)
	}
	if cfg.X != 999 || cfg.Y != 999 {
		t.Errorf("position = (%d,%d), want (999,999)", cfg.X, cfg.Y)
	}
	if want := (color.NRGBA{0xdd, 0xdd, 0x66, 0xff}); cfg.BGColor != want {
		t.Errorf("BGColor = %v, want %v", cfg.BGColor, want)
	}
	if want := (color.NRGBA{0x00, 0x00, 0x00, 0xff}); cfg.LineColor != want {
		t.Errorf("LineColor = %v, want %v", cfg.LineColor, want)
	}
	if cfg.LineWidth != 3 {
		t.Errorf("LineWidth = %d, want 3", cfg.LineWidth)
	}
	if cfg.Workspace != 1 {
		t.Errorf("Workspace = %d, want 1", cfg.Workspace)
	}
	if cfg.TimeRes != 50*time.Millisecond {
		t.Errorf("TimeRes = %v, want 50ms", cfg.TimeRes)
	}

	// The file was created and round-trips to the same values.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("settings file not created: %v", err)
	}
	var m map[string]string
	if err := yaml.Unmarshal(raw, &m); err != nil {
		t.Fatalf("created settings file is not valid YAML: %v", err)
	}
	if m["ratio"] != "3" || m["bg_color"] != "#dd6" {
		t.Errorf("written defaults = %v, want documented values", m)
	}
}

func TestLoad_ExistingFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handnote.yaml")
	write(t, path, map[string]string{
		"ratio":      "2",
		"width":      "300",
		"line_color": "#f00",
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Ratio != 2 {
		t.Errorf("Ratio = %d, want 2", cfg.Ratio)
	}
	if cfg.Width != 300 {
		t.Errorf("Width = %d, want 300", cfg.Width)
	}
	if want := (color.NRGBA{0xff, 0x00, 0x00, 0xff}); cfg.LineColor != want {
		t.Errorf("LineColor = %v, want %v", cfg.LineColor, want)
	}
	// Missing keys keep their defaults.
	if cfg.Height != 400 {
		t.Errorf("Height = %d, want default 400", cfg.Height)
	}
}

func TestLoad_MalformedValuesFallBackPerKey(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T, cfg *Config)
	}{
		{"non-numeric ratio", "ratio", "three", func(t *testing.T, cfg *Config) {
			if cfg.Ratio != 3 {
				t.Errorf("Ratio = %d, want default 3", cfg.Ratio)
			}
		}},
		{"ratio below one", "ratio", "0", func(t *testing.T, cfg *Config) {
			if cfg.Ratio != 3 {
				t.Errorf("Ratio = %d, want default 3", cfg.Ratio)
			}
		}},
		{"bad color", "bg_color", "#not-a-color", func(t *testing.T, cfg *Config) {
			if want := (color.NRGBA{0xdd, 0xdd, 0x66, 0xff}); cfg.BGColor != want {
				t.Errorf("BGColor = %v, want default %v", cfg.BGColor, want)
			}
		}},
		{"zero line width", "line_width", "0", func(t *testing.T, cfg *Config) {
			if cfg.LineWidth != 3 {
				t.Errorf("LineWidth = %d, want default 3", cfg.LineWidth)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "handnote.yaml")
			m := map[string]string{tt.key: tt.value, "width": "320"}
			write(t, path, m)

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			tt.check(t, cfg)

			// The valid keys in the same file still load.
			if cfg.Width != 320 {
				t.Errorf("Width = %d, want 320 (valid key beside bad one)", cfg.Width)
			}
		})
	}
}

func TestLoad_UnparseableFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handnote.yaml")
	if err := os.WriteFile(path, []byte(":\n\t::: not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Ratio != 3 || cfg.Width != 600 {
		t.Errorf("config = ratio %d width %d, want defaults 3/600", cfg.Ratio, cfg.Width)
	}
}

func TestClampPosition(t *testing.T) {
	tests := []struct {
		name         string
		x, y         int
		wantX, wantY int
	}{
		{"fits", 100, 100, 100, 100},
		{"bottom right overflow", 999, 999, 1920 - 600, 1080 - 420},
		{"negative", -50, -50, 0, 0},
		{"right edge exact", 1320, 0, 1320, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := ClampPosition(tt.x, tt.y, 600, 420, 1920, 1080)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("ClampPosition(%d,%d) = (%d,%d), want (%d,%d)",
					tt.x, tt.y, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func write(t *testing.T, path string, m map[string]string) {
	t.Helper()
	raw, err := yaml.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}
}
