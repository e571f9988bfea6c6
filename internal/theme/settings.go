package theme

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/moby/sys/atomicwriter"
	"github.com/tailscale/hujson"
)

// ColorThemeKey is the VS Code setting holding the active theme.
const ColorThemeKey = "workbench.colorTheme"

// DefaultSettingsPath returns the per-user VS Code settings.json location.
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "user config dir")
	}
	return filepath.Join(dir, "Code", "User", "settings.json"), nil
}

// SettingsFile applies themes by editing a JSON-with-comments settings file
// in place. Comments and formatting of untouched members are preserved.
type SettingsFile struct {
	Path string
	// Key defaults to ColorThemeKey.
	Key string
}

func (f SettingsFile) key() string {
	if f.Key == "" {
		return ColorThemeKey
	}
	return f.Key
}

func (f SettingsFile) Apply(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, perm, err := readSettings(f.Path)
	if err != nil {
		return err
	}
	v, err := hujson.Parse(data)
	if err != nil {
		return errors.Wrapf(err, "parse %s", f.Path)
	}
	patch, err := json.Marshal([]map[string]any{{
		"op":    "add",
		"path":  "/" + escapePointer(f.key()),
		"value": name,
	}})
	if err != nil {
		return errors.Wrap(err, "encode patch")
	}
	if err := v.Patch(patch); err != nil {
		return errors.Wrapf(err, "patch %s", f.Path)
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return errors.Wrap(err, "create settings dir")
	}
	if err := atomicwriter.WriteFile(f.Path, v.Pack(), perm); err != nil {
		return errors.Wrapf(err, "write %s", f.Path)
	}
	return nil
}

// Current reads the theme currently configured in the file.
func (f SettingsFile) Current() (string, error) {
	data, _, err := readSettings(f.Path)
	if err != nil {
		return "", err
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return "", errors.Wrapf(err, "parse %s", f.Path)
	}
	var m map[string]any
	if err := json.Unmarshal(std, &m); err != nil {
		return "", errors.Wrapf(err, "decode %s", f.Path)
	}
	name, _ := m[f.key()].(string)
	return name, nil
}

func readSettings(path string) ([]byte, fs.FileMode, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []byte("{}\n"), 0o644, nil
	}
	if err != nil {
		return nil, 0, errors.Wrap(err, "stat settings")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, errors.Wrap(err, "read settings")
	}
	if strings.TrimSpace(string(data)) == "" {
		data = []byte("{}\n")
	}
	return data, info.Mode().Perm(), nil
}

func escapePointer(s string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(s)
}
