package config

import (
	"slices"
	"strings"
	"time"

	"github.com/phyten/devdeck/internal/comments"
	"github.com/phyten/devdeck/internal/engine"
	"github.com/phyten/devdeck/internal/pomodoro"
	"github.com/phyten/devdeck/internal/theme"
)

// EngineConfig and the other *Config types hold one layer (file, env or
// flags). Nil means "not set in this layer".
type EngineConfig struct {
	Scope          *string   `yaml:"scope" toml:"scope" json:"scope"`
	Paths          *[]string `yaml:"path" toml:"path" json:"path"`
	Excludes       *[]string `yaml:"exclude" toml:"exclude" json:"exclude"`
	PathRegex      *[]string `yaml:"path_regex" toml:"path_regex" json:"path_regex"`
	ExcludeTypical *bool     `yaml:"exclude_typical" toml:"exclude_typical" json:"exclude_typical"`
	DetectLangs    *[]string `yaml:"detect_langs" toml:"detect_langs" json:"detect_langs"`
	Jobs           *int      `yaml:"jobs" toml:"jobs" json:"jobs"`
	MaxFileBytes   *int      `yaml:"max_file_bytes" toml:"max_file_bytes" json:"max_file_bytes"`
	Repo           *string   `yaml:"repo" toml:"repo" json:"repo"`
	Output         *string   `yaml:"output" toml:"output" json:"output"`
	Color          *string   `yaml:"color" toml:"color" json:"color"`
	Force          *bool     `yaml:"force" toml:"force" json:"force"`
}

type TimerConfig struct {
	WorkMinutes  *int `yaml:"work_minutes" toml:"work_minutes" json:"work_minutes"`
	BreakMinutes *int `yaml:"break_minutes" toml:"break_minutes" json:"break_minutes"`
}

type ThemeConfig struct {
	Day             *string `yaml:"day" toml:"day" json:"day"`
	Night           *string `yaml:"night" toml:"night" json:"night"`
	Late            *string `yaml:"late" toml:"late" json:"late"`
	Settings        *string `yaml:"settings" toml:"settings" json:"settings"`
	IntervalSeconds *int    `yaml:"interval_seconds" toml:"interval_seconds" json:"interval_seconds"`
}

type UIConfig struct {
	Fields           *string `yaml:"fields" toml:"fields" json:"fields"`
	HighlightDelayMS *int    `yaml:"highlight_delay_ms" toml:"highlight_delay_ms" json:"highlight_delay_ms"`
	Addr             *string `yaml:"addr" toml:"addr" json:"addr"`
}

type Config struct {
	Engine EngineConfig `yaml:"engine" toml:"engine" json:"engine"`
	Timer  TimerConfig  `yaml:"timer" toml:"timer" json:"timer"`
	Theme  ThemeConfig  `yaml:"theme" toml:"theme" json:"theme"`
	UI     UIConfig     `yaml:"ui" toml:"ui" json:"ui"`
}

// EngineSettings is the merged, concrete form of EngineConfig.
type EngineSettings struct {
	Scope          string   `yaml:"scope"`
	Paths          []string `yaml:"path"`
	Excludes       []string `yaml:"exclude"`
	PathRegex      []string `yaml:"path_regex"`
	ExcludeTypical bool     `yaml:"exclude_typical"`
	DetectLangs    []string `yaml:"detect_langs"`
	Jobs           int      `yaml:"jobs"`
	MaxFileBytes   int      `yaml:"max_file_bytes"`
	Repo           string   `yaml:"repo"`
	Output         string   `yaml:"output"`
	Color          string   `yaml:"color"`
	Force          bool     `yaml:"force"`
}

type TimerSettings struct {
	WorkMinutes  int `yaml:"work_minutes"`
	BreakMinutes int `yaml:"break_minutes"`
}

type ThemeSettings struct {
	Day             string `yaml:"day"`
	Night           string `yaml:"night"`
	Late            string `yaml:"late"`
	Settings        string `yaml:"settings"`
	IntervalSeconds int    `yaml:"interval_seconds"`
}

type UISettings struct {
	Fields           string `yaml:"fields"`
	HighlightDelayMS int    `yaml:"highlight_delay_ms"`
	Addr             string `yaml:"addr"`
}

// Settings is the fully merged configuration.
type Settings struct {
	Engine EngineSettings `yaml:"engine"`
	Timer  TimerSettings  `yaml:"timer"`
	Theme  ThemeSettings  `yaml:"theme"`
	UI     UISettings     `yaml:"ui"`
}

func EngineSettingsFromOptions(opts engine.Options) EngineSettings {
	return EngineSettings{
		Scope:          opts.Scope.String(),
		Paths:          copyList(opts.Paths),
		Excludes:       copyList(opts.Excludes),
		PathRegex:      copyList(opts.PathRegex),
		ExcludeTypical: opts.ExcludeTypical,
		DetectLangs:    copyList(opts.DetectLangs),
		Jobs:           opts.Jobs,
		MaxFileBytes:   opts.MaxFileBytes,
		Repo:           opts.RepoDir,
		Output:         "table",
		Color:          "auto",
		Force:          opts.Force,
	}
}

// ApplyToOptions copies the settings into opts. Scope must already be
// canonical (see NormalizeEngine).
func (s EngineSettings) ApplyToOptions(opts *engine.Options) error {
	if opts == nil {
		return nil
	}
	scope, err := comments.ParseScope(s.Scope)
	if err != nil {
		return err
	}
	opts.Scope = scope
	opts.Paths = copyList(s.Paths)
	opts.Excludes = copyList(s.Excludes)
	opts.PathRegex = copyList(s.PathRegex)
	opts.ExcludeTypical = s.ExcludeTypical
	opts.DetectLangs = copyList(s.DetectLangs)
	opts.Jobs = s.Jobs
	opts.MaxFileBytes = s.MaxFileBytes
	opts.Force = s.Force
	if trimmed := strings.TrimSpace(s.Repo); trimmed != "" {
		opts.RepoDir = trimmed
	}
	return nil
}

func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		WorkMinutes:  int(pomodoro.DefaultWork / time.Minute),
		BreakMinutes: int(pomodoro.DefaultBreak / time.Minute),
	}
}

// PomodoroConfig converts the settings for pomodoro.New.
func (s TimerSettings) PomodoroConfig() pomodoro.Config {
	return pomodoro.Config{
		Work:  time.Duration(s.WorkMinutes) * time.Minute,
		Break: time.Duration(s.BreakMinutes) * time.Minute,
	}
}

func DefaultThemeSettings() ThemeSettings {
	p := theme.DefaultPalette()
	return ThemeSettings{
		Day:             p.Day,
		Night:           p.Night,
		Late:            p.Late,
		IntervalSeconds: int(theme.DefaultInterval / time.Second),
	}
}

// SwitcherOptions converts the settings for theme.NewSwitcher.
func (s ThemeSettings) SwitcherOptions() theme.Options {
	return theme.Options{
		Palette:  theme.Palette{Day: s.Day, Night: s.Night, Late: s.Late},
		Interval: time.Duration(s.IntervalSeconds) * time.Second,
	}
}

func DefaultUISettings() UISettings {
	return UISettings{
		Fields:           "",
		HighlightDelayMS: 2000,
		Addr:             "127.0.0.1:7788",
	}
}

// HighlightDelay returns the configured mark timeout.
func (s UISettings) HighlightDelay() time.Duration {
	return time.Duration(s.HighlightDelayMS) * time.Millisecond
}

// copyList copies in, collapsing empty lists to nil.
func copyList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	return slices.Clone(in)
}
