package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"

	"github.com/phyten/devdeck/internal/engine"
)

// reportErrors lists per-file failures on w and turns them into an exit error.
func reportErrors(w io.Writer, res *engine.Result) error {
	if res == nil || res.ErrorCount == 0 {
		return nil
	}
	_, _ = fmt.Fprintf(w, "devdeck: %d error(s)\n", res.ErrorCount)
	for _, e := range res.Errors {
		file := e.File
		if file == "" {
			file = "(unknown)"
		}
		stage := e.Stage
		if stage == "" {
			stage = "engine"
		}
		_, _ = fmt.Fprintf(w, "  %s [%s] %s\n", file, stage, e.Message)
	}
	return errors.Errorf("%d file(s) failed", res.ErrorCount)
}

// readInput reads name, or r when name is empty or "-". Relative names are
// taken from the working directory.
func (a *app) readInput(r io.Reader, name string) (string, string, error) {
	if name == "" || name == "-" {
		b, err := io.ReadAll(r)
		if err != nil {
			return "", "", errors.Wrap(err, "read stdin")
		}
		return "-", string(b), nil
	}
	path := name
	if a.dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(a.dir, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", "", errors.Wrapf(err, "read %s", name)
	}
	return name, string(b), nil
}
