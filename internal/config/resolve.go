package config

import (
	"os"
	"strings"
)

// Sources describes where each layer of a resolved configuration came from.
type Sources struct {
	File  string
	Where string
}

// ResolveAll applies the layers defaults < file < environment < flags and
// validates the result. explicit is the --config value; when empty the
// DEVDECK_CONFIG variable is consulted before the usual search.
func ResolveAll(defaults Settings, startDir, explicit string, getenv func(string) string, flags Config) (Settings, Sources, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if strings.TrimSpace(explicit) == "" {
		explicit = getenv("DEVDECK_CONFIG")
	}
	path, where, err := Find(startDir, explicit, getenv("XDG_CONFIG_HOME"), getenv("HOME"))
	if err != nil {
		return defaults, Sources{}, err
	}
	fileCfg, err := Load(path)
	if err != nil {
		return defaults, Sources{}, err
	}
	envCfg, err := FromEnv(getenv)
	if err != nil {
		return defaults, Sources{}, err
	}
	merged, err := Normalize(Merge(defaults, fileCfg, envCfg, flags))
	if err != nil {
		return merged, Sources{}, err
	}
	return merged, Sources{File: path, Where: where}, nil
}

// Defaults returns the built-in settings for engine options eo.
func Defaults(eo EngineSettings) Settings {
	return Settings{
		Engine: eo,
		Timer:  DefaultTimerSettings(),
		Theme:  DefaultThemeSettings(),
		UI:     DefaultUISettings(),
	}
}
