package config

import (
	"slices"
	"strings"
)

// over returns *v when the layer sets it and cur otherwise.
func over[T any](cur T, v *T) T {
	if v == nil {
		return cur
	}
	return *v
}

func overText(cur string, v *string) string {
	return strings.TrimSpace(over(cur, v))
}

// overList treats a set-but-empty list as an explicit reset.
func overList(cur []string, v *[]string) []string {
	switch {
	case v == nil:
		return cur
	case len(*v) == 0:
		return []string{}
	}
	return slices.Clone(*v)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func (s EngineSettings) apply(c EngineConfig) EngineSettings {
	s.Scope = overText(s.Scope, c.Scope)
	s.Paths = overList(s.Paths, c.Paths)
	s.Excludes = overList(s.Excludes, c.Excludes)
	s.PathRegex = overList(s.PathRegex, c.PathRegex)
	s.ExcludeTypical = over(s.ExcludeTypical, c.ExcludeTypical)
	s.DetectLangs = overList(s.DetectLangs, c.DetectLangs)
	s.Jobs = over(s.Jobs, c.Jobs)
	s.MaxFileBytes = over(s.MaxFileBytes, c.MaxFileBytes)
	s.Repo = overText(s.Repo, c.Repo)
	s.Output = overText(s.Output, c.Output)
	s.Color = overText(s.Color, c.Color)
	s.Force = over(s.Force, c.Force)
	return s
}

func (s TimerSettings) apply(c TimerConfig) TimerSettings {
	s.WorkMinutes = over(s.WorkMinutes, c.WorkMinutes)
	s.BreakMinutes = over(s.BreakMinutes, c.BreakMinutes)
	return s
}

func (s ThemeSettings) apply(c ThemeConfig) ThemeSettings {
	s.Day = overText(s.Day, c.Day)
	s.Night = overText(s.Night, c.Night)
	s.Late = overText(s.Late, c.Late)
	s.Settings = overText(s.Settings, c.Settings)
	s.IntervalSeconds = over(s.IntervalSeconds, c.IntervalSeconds)
	return s
}

func (s UISettings) apply(c UIConfig) UISettings {
	s.Fields = overText(s.Fields, c.Fields)
	s.HighlightDelayMS = over(s.HighlightDelayMS, c.HighlightDelayMS)
	s.Addr = overText(s.Addr, c.Addr)
	return s
}

// MergeEngine layers engine configs over base and fills the scope, output
// and color defaults left blank by every layer.
func MergeEngine(base EngineSettings, layers ...EngineConfig) EngineSettings {
	out := base
	for _, l := range layers {
		out = out.apply(l)
	}
	out.Scope = orDefault(out.Scope, "both")
	out.Output = orDefault(out.Output, "table")
	out.Color = orDefault(out.Color, "auto")
	return out
}

// Merge layers every section in order; later layers win.
func Merge(base Settings, layers ...Config) Settings {
	out := base
	engine := make([]EngineConfig, 0, len(layers))
	for _, l := range layers {
		engine = append(engine, l.Engine)
		out.Timer = out.Timer.apply(l.Timer)
		out.Theme = out.Theme.apply(l.Theme)
		out.UI = out.UI.apply(l.UI)
	}
	out.Engine = MergeEngine(base.Engine, engine...)
	return out
}
