package config

import (
	"errors"
	"math"
	"strings"

	engineopts "github.com/phyten/devdeck/internal/engine/opts"
)

// FromEnv reads the DEVDECK_* variables into a config layer.
func FromEnv(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	var cfg Config
	var errs []error

	lookup := func(key string) (string, bool) {
		raw := strings.TrimSpace(getenv(key))
		return raw, raw != ""
	}
	setString := func(target **string, key string) {
		if raw, ok := lookup(key); ok {
			*target = &raw
		}
	}
	setList := func(target **[]string, key string) {
		if raw, ok := lookup(key); ok {
			list := engineopts.SplitMulti([]string{raw})
			if list == nil {
				list = []string{}
			}
			*target = &list
		}
	}
	setBool := func(target **bool, key string) {
		raw, ok := lookup(key)
		if !ok {
			return
		}
		v, err := engineopts.ParseBool(raw, key)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*target = &v
	}
	setInt := func(target **int, key string, min, max int) {
		raw, ok := lookup(key)
		if !ok {
			return
		}
		v, err := engineopts.ParseIntInRange(raw, key, min, max)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*target = &v
	}

	setString(&cfg.Engine.Scope, "DEVDECK_SCOPE")
	setList(&cfg.Engine.Paths, "DEVDECK_PATH")
	setList(&cfg.Engine.Excludes, "DEVDECK_EXCLUDE")
	setList(&cfg.Engine.PathRegex, "DEVDECK_PATH_REGEX")
	setBool(&cfg.Engine.ExcludeTypical, "DEVDECK_EXCLUDE_TYPICAL")
	setList(&cfg.Engine.DetectLangs, "DEVDECK_LANG")
	// Jobs is range-checked later by NormalizeAndValidate so every input
	// path reports the same message.
	setInt(&cfg.Engine.Jobs, "DEVDECK_JOBS", 0, math.MaxInt)
	setInt(&cfg.Engine.MaxFileBytes, "DEVDECK_MAX_FILE_BYTES", 0, math.MaxInt)
	setString(&cfg.Engine.Repo, "DEVDECK_REPO")
	setString(&cfg.Engine.Output, "DEVDECK_OUTPUT")
	setString(&cfg.Engine.Color, "DEVDECK_COLOR")
	setBool(&cfg.Engine.Force, "DEVDECK_FORCE")

	setInt(&cfg.Timer.WorkMinutes, "DEVDECK_WORK_MINUTES", 1, maxTimerMinutes)
	setInt(&cfg.Timer.BreakMinutes, "DEVDECK_BREAK_MINUTES", 1, maxTimerMinutes)

	setString(&cfg.Theme.Day, "DEVDECK_THEME_DAY")
	setString(&cfg.Theme.Night, "DEVDECK_THEME_NIGHT")
	setString(&cfg.Theme.Late, "DEVDECK_THEME_LATE")
	setString(&cfg.Theme.Settings, "DEVDECK_THEME_SETTINGS")
	setInt(&cfg.Theme.IntervalSeconds, "DEVDECK_THEME_INTERVAL", 1, math.MaxInt)

	setString(&cfg.UI.Fields, "DEVDECK_FIELDS")
	setInt(&cfg.UI.HighlightDelayMS, "DEVDECK_HIGHLIGHT_DELAY_MS", 0, maxHighlightDelayMS)
	setString(&cfg.UI.Addr, "DEVDECK_ADDR")

	if len(errs) > 0 {
		return cfg, errors.Join(errs...)
	}
	return cfg, nil
}
