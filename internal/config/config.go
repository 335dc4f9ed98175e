// Package config loads and creates the HandNote settings file: a flat
// key-value YAML document with string-typed values. Every key degrades
// independently: a missing or malformed value falls back to its documented
// default with a warning, never aborting the load.
package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/handnote/handnote"
)

// defaults documents the settings surface. A missing settings file is
// created with exactly these values.
var defaults = map[string]string{
	"ratio":      "3",
	"x":          "999",
	"y":          "999",
	"width":      "600",
	"height":     "400",
	"bg_color":   "#dd6",
	"control_bg": "#000",
	"button_bg":  "#000",
	"button_fg":  "#fff",
	"line_color": "black",
	"line_width": "3",
	"workspace":  "1",
	"time_res":   "50",
}

// Config holds the session settings, immutable once loaded.
type Config struct {
	Ratio     int // supersampling ratio, >= 1
	X, Y      int // requested window position, clamped to the screen later
	Width     int // note width in display pixels
	Height    int // note height in display pixels
	BGColor   color.NRGBA
	ControlBG color.NRGBA
	ButtonBG  color.NRGBA
	ButtonFG  color.NRGBA
	LineColor color.NRGBA
	LineWidth int // stroke width in display pixels, >= 1
	Workspace int // desktop workspace to move the window to
	TimeRes   time.Duration // sample/flush tick interval
}

// Default returns the configuration documented in defaults.
func Default() *Config {
	return fromMap(nil)
}

// Load reads the settings file at path. A missing file is created with the
// defaults. A file that cannot be parsed at all is left untouched and the
// defaults are used for the session.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if werr := writeDefaults(path); werr != nil {
			return nil, fmt.Errorf("create settings file: %w", werr)
		}
		handnote.Logger().Info("created default settings", "path", path)
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	var m map[string]string
	if err := yaml.Unmarshal(raw, &m); err != nil {
		handnote.Logger().Warn("settings file unreadable, using defaults",
			"path", path, "error", err)
		return Default(), nil
	}
	return fromMap(m), nil
}

// writeDefaults creates the settings file (and its directory) with the
// documented default values.
func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	raw, err := yaml.Marshal(defaults)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// fromMap builds a Config from the given key-value map, falling back to the
// default for every missing or malformed value.
func fromMap(m map[string]string) *Config {
	return &Config{
		Ratio:     intValue(m, "ratio", 1),
		X:         intValue(m, "x", 0),
		Y:         intValue(m, "y", 0),
		Width:     intValue(m, "width", 1),
		Height:    intValue(m, "height", 1),
		BGColor:   colorValue(m, "bg_color"),
		ControlBG: colorValue(m, "control_bg"),
		ButtonBG:  colorValue(m, "button_bg"),
		ButtonFG:  colorValue(m, "button_fg"),
		LineColor: colorValue(m, "line_color"),
		LineWidth: intValue(m, "line_width", 1),
		Workspace: intValue(m, "workspace", 0),
		TimeRes:   time.Duration(intValue(m, "time_res", 1)) * time.Millisecond,
	}
}

// intValue parses an integer setting, enforcing a lower bound.
// Malformed or out-of-range values fall back to the key's default.
func intValue(m map[string]string, key string, minVal int) int {
	s, ok := m[key]
	if !ok {
		s = defaults[key]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < minVal {
		if ok {
			handnote.Logger().Warn("bad settings value, using default",
				"key", key, "value", s, "default", defaults[key])
		}
		n, _ = strconv.Atoi(defaults[key])
	}
	return n
}

// colorValue parses a color setting, falling back to the key's default.
func colorValue(m map[string]string, key string) color.NRGBA {
	s, ok := m[key]
	if !ok {
		s = defaults[key]
	}
	c, err := handnote.ParseColor(s)
	if err != nil {
		if ok {
			handnote.Logger().Warn("bad settings color, using default",
				"key", key, "value", s, "default", defaults[key])
		}
		c = handnote.MustParseColor(defaults[key])
	}
	return c
}

// ClampPosition keeps a window of size (w, h) fully on a screen of size
// (screenW, screenH). Negative or oversized requests snap to the nearest
// edge; the original default of (999, 999) lands at the bottom-right.
func ClampPosition(x, y, w, h, screenW, screenH int) (int, int) {
	if x > screenW-w {
		x = screenW - w
	}
	if x < 0 {
		x = 0
	}
	if y > screenH-h {
		y = screenH - h
	}
	if y < 0 {
		y = 0
	}
	return x, y
}
