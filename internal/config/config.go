// Package config provides configuration loading for tasktimeline.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rcliao/tasktimeline/internal/calendar"
	"github.com/rcliao/tasktimeline/internal/domain"
	"github.com/rcliao/tasktimeline/internal/logging"
	"github.com/rcliao/tasktimeline/internal/pattern"
	"github.com/rcliao/tasktimeline/internal/tags"
)

type Config struct {
	Vault      VaultConfig      `koanf:"vault"`
	Extraction ExtractionConfig `koanf:"extraction"`
	View       ViewConfig       `koanf:"view"`
	Colors     ColorConfig      `koanf:"colors"`
	Refresh    RefreshConfig    `koanf:"refresh"`
	State      StateConfig      `koanf:"state"`
	Logging    logging.Config   `koanf:"logging"`
	Metrics    MetricsConfig    `koanf:"metrics"`
}

type VaultConfig struct {
	Root       string   `koanf:"root"`
	Extensions []string `koanf:"extensions"`
}

type ExtractionConfig struct {
	Pattern      string   `koanf:"pattern"`
	DateFormat   string   `koanf:"date_format"`
	Preset       string   `koanf:"preset"`
	MatchTimeout Duration `koanf:"match_timeout"`
}

type ViewConfig struct {
	SortOrder     string `koanf:"sort_order"`
	ShowCompleted bool   `koanf:"show_completed"`
	MaxPerDay     int    `koanf:"max_per_day"`
	Mode          string `koanf:"mode"`
	ShowFileNames bool   `koanf:"show_file_names"`
}

type ColorConfig struct {
	UseCustom bool   `koanf:"use_custom"`
	Default   string `koanf:"default"`
}

type RefreshConfig struct {
	Interval Duration `koanf:"interval"`
	Debounce Duration `koanf:"debounce"`
}

type StateConfig struct {
	Path string `koanf:"path"`
}

type MetricsConfig struct {
	Textfile string `koanf:"textfile"`
}

const (
	ModeTimeline = "timeline"
	ModeCalendar = "calendar"
)

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Vault: VaultConfig{
			Root:       ".",
			Extensions: []string{".md"},
		},
		Extraction: ExtractionConfig{
			Pattern:      pattern.DefaultPattern,
			DateFormat:   pattern.DefaultDateFormat,
			MatchTimeout: Duration(pattern.DefaultMatchTimeout),
		},
		View: ViewConfig{
			SortOrder:     string(domain.SortDateAsc),
			MaxPerDay:     calendar.DefaultMaxVisible,
			Mode:          ModeTimeline,
			ShowFileNames: true,
		},
		Colors: ColorConfig{
			Default: domain.DefaultTagColor,
		},
		Refresh: RefreshConfig{
			Interval: Duration(5 * time.Second),
			Debounce: Duration(250 * time.Millisecond),
		},
		State: StateConfig{
			Path: filepath.Join(".tasktimeline", "state.yaml"),
		},
		Logging: logging.NewDefaultConfig(),
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	var errs []error

	if !domain.SortPolicy(c.View.SortOrder).Valid() {
		errs = append(errs, fmt.Errorf("view.sort_order must be date-asc, date-desc or tag, got %q", c.View.SortOrder))
	}
	if c.View.Mode != ModeTimeline && c.View.Mode != ModeCalendar {
		errs = append(errs, fmt.Errorf("view.mode must be %q or %q, got %q", ModeTimeline, ModeCalendar, c.View.Mode))
	}
	if c.View.MaxPerDay < 0 {
		errs = append(errs, fmt.Errorf("view.max_per_day cannot be negative: %d", c.View.MaxPerDay))
	}
	if _, err := tags.NormalizeColor(c.Colors.Default); err != nil {
		errs = append(errs, fmt.Errorf("colors.default: %w", err))
	}
	if c.Extraction.Preset != "" {
		if _, ok := pattern.PresetByName(c.Extraction.Preset, c.Extraction.DateFormat); !ok {
			errs = append(errs, fmt.Errorf("extraction.preset: unknown preset %q", c.Extraction.Preset))
		}
	}
	if len(c.Vault.Extensions) == 0 {
		errs = append(errs, errors.New("vault.extensions cannot be empty"))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	return errors.Join(errs...)
}

// Pattern returns the extraction pattern source, expanding the preset if one
// is selected. It does not compile the pattern: a bad pattern is reported
// per pass, not at startup.
func (c *Config) Pattern() string {
	if c.Extraction.Preset != "" {
		if p, ok := pattern.PresetByName(c.Extraction.Preset, c.Extraction.DateFormat); ok {
			return p.Pattern
		}
	}
	return c.Extraction.Pattern
}

// Preferences seeds caller-owned preferences from config.
func (c *Config) Preferences() *domain.Preferences {
	prefs := domain.NewPreferences()
	prefs.UseCustomColors = c.Colors.UseCustom
	prefs.DefaultColor = c.Colors.Default
	return prefs
}

func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.Vault.Root == "" {
		cfg.Vault.Root = def.Vault.Root
	}
	if len(cfg.Vault.Extensions) == 0 {
		cfg.Vault.Extensions = def.Vault.Extensions
	}
	if cfg.Extraction.Pattern == "" {
		cfg.Extraction.Pattern = def.Extraction.Pattern
	}
	if cfg.Extraction.DateFormat == "" {
		cfg.Extraction.DateFormat = def.Extraction.DateFormat
	}
	if cfg.View.SortOrder == "" {
		cfg.View.SortOrder = def.View.SortOrder
	}
	if cfg.View.MaxPerDay == 0 {
		cfg.View.MaxPerDay = def.View.MaxPerDay
	}
	if cfg.View.Mode == "" {
		cfg.View.Mode = def.View.Mode
	}
	if cfg.Colors.Default == "" {
		cfg.Colors.Default = def.Colors.Default
	}
	if cfg.State.Path == "" {
		cfg.State.Path = def.State.Path
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = def.Logging.Format
	}
}
