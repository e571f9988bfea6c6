package config

import (
	"fmt"
	"strings"

	"github.com/phyten/devdeck/internal/comments"
	engineopts "github.com/phyten/devdeck/internal/engine/opts"
)

const (
	maxTimerMinutes     = 600
	maxHighlightDelayMS = 60000
)

// NormalizeEngine canonicalises scope, output and color. Range checks on jobs
// and sizes stay in engine/opts.NormalizeAndValidate so every input path
// shares one error message.
func NormalizeEngine(values EngineSettings) (EngineSettings, error) {
	scope, err := comments.ParseScope(values.Scope)
	if err != nil {
		return values, err
	}
	values.Scope = scope.String()
	if values.Output, err = engineopts.NormalizeOutput(values.Output); err != nil {
		return values, err
	}
	if values.Color, err = engineopts.NormalizeColor(values.Color); err != nil {
		return values, err
	}
	return values, nil
}

func NormalizeTimer(values TimerSettings) (TimerSettings, error) {
	if values.WorkMinutes < 1 || values.WorkMinutes > maxTimerMinutes {
		return values, fmt.Errorf("work_minutes must be between 1 and %d", maxTimerMinutes)
	}
	if values.BreakMinutes < 1 || values.BreakMinutes > maxTimerMinutes {
		return values, fmt.Errorf("break_minutes must be between 1 and %d", maxTimerMinutes)
	}
	return values, nil
}

func NormalizeTheme(values ThemeSettings) (ThemeSettings, error) {
	def := DefaultThemeSettings()
	if values.Day == "" {
		values.Day = def.Day
	}
	if values.Night == "" {
		values.Night = def.Night
	}
	if values.Late == "" {
		values.Late = def.Late
	}
	if values.IntervalSeconds < 1 {
		return values, fmt.Errorf("interval_seconds must be >= 1")
	}
	return values, nil
}

func NormalizeUI(values UISettings) (UISettings, error) {
	values.Fields = strings.TrimSpace(values.Fields)
	values.Addr = strings.TrimSpace(values.Addr)
	if values.HighlightDelayMS < 0 || values.HighlightDelayMS > maxHighlightDelayMS {
		return values, fmt.Errorf("highlight_delay_ms must be between 0 and %d", maxHighlightDelayMS)
	}
	if values.Addr == "" {
		values.Addr = DefaultUISettings().Addr
	}
	return values, nil
}

// Normalize validates every section.
func Normalize(s Settings) (Settings, error) {
	var err error
	if s.Engine, err = NormalizeEngine(s.Engine); err != nil {
		return s, err
	}
	if s.Timer, err = NormalizeTimer(s.Timer); err != nil {
		return s, err
	}
	if s.Theme, err = NormalizeTheme(s.Theme); err != nil {
		return s, err
	}
	if s.UI, err = NormalizeUI(s.UI); err != nil {
		return s, err
	}
	return s, nil
}
