package config

import (
	"encoding/json"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	engineopts "github.com/phyten/devdeck/internal/engine/opts"
)

// setter stores one decoded value into a Config layer.
type setter func(cfg *Config, value any) error

// field is one config key: its section, the accepted spellings (the first
// is canonical) and where it lands.
type field struct {
	section string
	names   []string
	set     setter
}

// configKeys is ordered by section so bare top-level keys resolve to the first
// section that knows them.
var configKeys = []field{
	{"engine", []string{"scope"}, textKey(func(c *Config) **string { return &c.Engine.Scope })},
	{"engine", []string{"path", "paths"}, listKey(func(c *Config) **[]string { return &c.Engine.Paths })},
	{"engine", []string{"exclude", "excludes"}, listKey(func(c *Config) **[]string { return &c.Engine.Excludes })},
	{"engine", []string{"path_regex", "path_regexes"}, listKey(func(c *Config) **[]string { return &c.Engine.PathRegex })},
	{"engine", []string{"exclude_typical"}, boolKey(func(c *Config) **bool { return &c.Engine.ExcludeTypical })},
	{"engine", []string{"detect_langs", "detect_languages", "lang"}, listKey(func(c *Config) **[]string { return &c.Engine.DetectLangs })},
	{"engine", []string{"jobs"}, intKey(func(c *Config) **int { return &c.Engine.Jobs })},
	{"engine", []string{"max_file_bytes", "max_bytes"}, intKey(func(c *Config) **int { return &c.Engine.MaxFileBytes })},
	{"engine", []string{"repo"}, textKey(func(c *Config) **string { return &c.Engine.Repo })},
	{"engine", []string{"output"}, textKey(func(c *Config) **string { return &c.Engine.Output })},
	{"engine", []string{"color"}, textKey(func(c *Config) **string { return &c.Engine.Color })},
	{"engine", []string{"force"}, boolKey(func(c *Config) **bool { return &c.Engine.Force })},
	{"timer", []string{"work_minutes", "work"}, intKey(func(c *Config) **int { return &c.Timer.WorkMinutes })},
	{"timer", []string{"break_minutes", "break"}, intKey(func(c *Config) **int { return &c.Timer.BreakMinutes })},
	{"theme", []string{"day"}, textKey(func(c *Config) **string { return &c.Theme.Day })},
	{"theme", []string{"night"}, textKey(func(c *Config) **string { return &c.Theme.Night })},
	{"theme", []string{"late"}, textKey(func(c *Config) **string { return &c.Theme.Late })},
	{"theme", []string{"settings", "settings_path"}, textKey(func(c *Config) **string { return &c.Theme.Settings })},
	{"theme", []string{"interval_seconds", "interval"}, intKey(func(c *Config) **int { return &c.Theme.IntervalSeconds })},
	{"ui", []string{"fields"}, textKey(func(c *Config) **string { return &c.UI.Fields })},
	{"ui", []string{"highlight_delay_ms", "highlight_delay"}, intKey(func(c *Config) **int { return &c.UI.HighlightDelayMS })},
	{"ui", []string{"addr"}, textKey(func(c *Config) **string { return &c.UI.Addr })},
}

// lookup finds the field spelled name, in section or in any section when
// section is empty.
func lookup(section, name string) (field, bool) {
	for _, f := range configKeys {
		if (section == "" || f.section == section) && slices.Contains(f.names, name) {
			return f, true
		}
	}
	return field{}, false
}

func isSection(name string) bool {
	return slices.ContainsFunc(configKeys, func(f field) bool { return f.section == name })
}

// Load reads a YAML, TOML or JSON config file. JSON may carry comments and
// trailing commas. An empty path yields an empty layer.
func Load(path string) (Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	raw, err := parse(filepath.Ext(path), data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "parse %s", path)
	}
	cfg, err := decode(raw)
	if err != nil {
		return Config{}, errors.Wrap(err, path)
	}
	return cfg, nil
}

func parse(ext string, data []byte) (map[string]any, error) {
	var raw map[string]any
	var err error
	switch ext = strings.ToLower(ext); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".json":
		var std []byte
		if std, err = hujson.Standardize(data); err == nil {
			err = json.Unmarshal(std, &raw)
		}
	default:
		return nil, errors.Errorf("unsupported config extension: %s", ext)
	}
	return raw, err
}

// decode accepts section tables plus bare top-level keys. Keys are visited
// in sorted order so errors are stable.
func decode(raw map[string]any) (Config, error) {
	var cfg Config
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		name := normalizeKey(key)
		if isSection(name) {
			table, err := stringKeyed(raw[key])
			if err != nil {
				return cfg, errors.Wrap(err, name)
			}
			for _, sub := range slices.Sorted(maps.Keys(table)) {
				f, ok := lookup(name, normalizeKey(sub))
				if !ok {
					return cfg, errors.Errorf("%s: unknown key: %s", name, sub)
				}
				if err := f.set(&cfg, table[sub]); err != nil {
					return cfg, errors.Wrapf(err, "%s.%s", name, f.names[0])
				}
			}
			continue
		}
		f, ok := lookup("", name)
		if !ok {
			return cfg, errors.Errorf("unknown config key: %s", key)
		}
		if err := f.set(&cfg, raw[key]); err != nil {
			return cfg, errors.Wrapf(err, "%s.%s", f.section, f.names[0])
		}
	}
	return cfg, nil
}

func textKey(at func(*Config) **string) setter {
	return func(cfg *Config, value any) error {
		s, ok := value.(string)
		if !ok {
			return errors.Errorf("expected string, got %T", value)
		}
		s = strings.TrimSpace(s)
		*at(cfg) = &s
		return nil
	}
}

func boolKey(at func(*Config) **bool) setter {
	return func(cfg *Config, value any) error {
		var b bool
		switch v := value.(type) {
		case bool:
			b = v
		case string:
			var err error
			if b, err = engineopts.ParseBool(v, "value"); err != nil {
				return err
			}
		default:
			return errors.Errorf("expected bool, got %T", value)
		}
		*at(cfg) = &b
		return nil
	}
}

func intKey(at func(*Config) **int) setter {
	return func(cfg *Config, value any) error {
		var n int
		switch v := value.(type) {
		case int:
			n = v
		case int64:
			n = int(v)
		case float64:
			if v != float64(int(v)) {
				return errors.Errorf("expected integer, got %v", v)
			}
			n = int(v)
		case string:
			var err error
			if n, err = strconv.Atoi(strings.TrimSpace(v)); err != nil {
				return errors.Errorf("invalid integer value: %q", v)
			}
		default:
			return errors.Errorf("expected integer, got %T", value)
		}
		*at(cfg) = &n
		return nil
	}
}

func listKey(at func(*Config) **[]string) setter {
	return func(cfg *Config, value any) error {
		var out []string
		switch v := value.(type) {
		case string:
			out = engineopts.SplitMulti([]string{v})
		case []any:
			out = make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return errors.Errorf("expected list of strings, got %T", item)
				}
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		default:
			return errors.Errorf("expected string or list, got %T", value)
		}
		*at(cfg) = &out
		return nil
	}
}

func stringKeyed(v any) (map[string]any, error) {
	switch typed := v.(type) {
	case map[string]any:
		return typed, nil
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, value := range typed {
			key, ok := k.(string)
			if !ok {
				return nil, errors.Errorf("non-string key: %v", k)
			}
			out[key] = value
		}
		return out, nil
	}
	return nil, errors.Errorf("expected table, got %T", v)
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}
