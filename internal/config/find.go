package config

import (
	"cmp"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
)

// Where a config file was found.
const (
	SourceExplicit = "explicit"
	SourceCwdUp    = "cwd-up"
	SourceXDG      = "xdg"
	SourceHome     = "home"
)

var formats = []string{"yaml", "yml", "toml", "json"}

// candidates lists base.<ext> for every supported format.
func candidates(dir, base string) []string {
	out := make([]string, len(formats))
	for i, ext := range formats {
		out[i] = filepath.Join(dir, base+"."+ext)
	}
	return out
}

// Find locates the config file. An explicit path (flag or DEVDECK_CONFIG)
// must exist; otherwise the search walks up from startDir, then tries
// $XDG_CONFIG_HOME/devdeck/config.* and finally ~/.devdeck.*. An empty path
// with a nil error means no file was found.
func Find(startDir, explicitPath, xdgHome, home string) (string, string, error) {
	if explicit := strings.TrimSpace(explicitPath); explicit != "" {
		return findExplicit(explicit)
	}
	dir, err := filepath.Abs(cmp.Or(strings.TrimSpace(startDir), "."))
	if err != nil {
		return "", "", errors.Wrap(err, "config search start")
	}
	for {
		if found := firstFile(candidates(dir, ".devdeck")); found != "" {
			return found, SourceCwdUp, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	home = strings.TrimSpace(home)
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	xdg := strings.TrimSpace(xdgHome)
	if xdg == "" && home != "" {
		xdg = filepath.Join(home, ".config")
	}
	if xdg != "" {
		if found := firstFile(candidates(filepath.Join(xdg, "devdeck"), "config")); found != "" {
			return found, SourceXDG, nil
		}
	}
	if home != "" {
		if found := firstFile(candidates(home, ".devdeck")); found != "" {
			return found, SourceHome, nil
		}
	}
	return "", "", nil
}

func findExplicit(p string) (string, string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", "", errors.Wrap(err, "config path")
	}
	info, err := os.Stat(abs)
	switch {
	case err != nil:
		return "", "", errors.Wrap(err, "config file")
	case info.IsDir():
		return "", "", errors.Errorf("config %q is a directory", abs)
	}
	return abs, SourceExplicit, nil
}

func firstFile(paths []string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p
		}
	}
	return ""
}
