// Package opts parses and validates scan options. The CLI, the config
// loader and the web panel all funnel through it so a value means the same
// thing wherever it comes from.
package opts

import (
	"net/url"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"github.com/phyten/devdeck/internal/comments"
	"github.com/phyten/devdeck/internal/detect"
	"github.com/phyten/devdeck/internal/engine"
)

// MaxJobs caps the worker pool.
const MaxJobs = 64

var (
	outputFormats = []string{"table", "tsv", "json", "ndjson", "csv", "markdown"}
	colorModes    = []string{"auto", "always", "never"}
)

// Defaults is the baseline every layer starts from.
func Defaults(repoDir string, action engine.Action) engine.Options {
	return engine.Options{
		Action:         action,
		Scope:          comments.ScopeBoth,
		RepoDir:        repoDir,
		Jobs:           min(max(runtime.NumCPU(), 1), MaxJobs),
		ExcludeTypical: true,
	}
}

type scalarParam struct {
	key   string
	apply func(o *engine.Options, raw string) error
}

// Scalar parameters take the last non-empty value; list parameters
// accumulate every value, comma separated or repeated.
var (
	scalarParams = []scalarParam{
		{"scope", func(o *engine.Options, raw string) (err error) {
			o.Scope, err = comments.ParseScope(raw)
			return err
		}},
		{"jobs", func(o *engine.Options, raw string) (err error) {
			o.Jobs, err = ParseIntInRange(raw, "jobs", 1, MaxJobs)
			return err
		}},
		{"max_file_bytes", func(o *engine.Options, raw string) (err error) {
			o.MaxFileBytes, err = ParseIntInRange(raw, "max_file_bytes", 0, -1)
			return err
		}},
		{"exclude_typical", func(o *engine.Options, raw string) (err error) {
			o.ExcludeTypical, err = ParseBool(raw, "exclude_typical")
			return err
		}},
		{"force", func(o *engine.Options, raw string) (err error) {
			o.Force, err = ParseBool(raw, "force")
			return err
		}},
	}
	listParams = map[string]func(o *engine.Options) *[]string{
		"path":       func(o *engine.Options) *[]string { return &o.Paths },
		"exclude":    func(o *engine.Options) *[]string { return &o.Excludes },
		"path_regex": func(o *engine.Options) *[]string { return &o.PathRegex },
		"lang":       func(o *engine.Options) *[]string { return &o.DetectLangs },
	}
)

// FromQuery overlays the recognised query parameters of a panel request on
// base. Unknown parameters are ignored. Call NormalizeAndValidate afterwards.
func FromQuery(base engine.Options, q url.Values) (engine.Options, error) {
	out := base
	out.Paths = slices.Clone(base.Paths)
	out.Excludes = slices.Clone(base.Excludes)
	out.PathRegex = slices.Clone(base.PathRegex)
	out.DetectLangs = slices.Clone(base.DetectLangs)
	for _, p := range scalarParams {
		vals := SplitMulti(q[p.key])
		if len(vals) == 0 {
			continue
		}
		if err := p.apply(&out, vals[len(vals)-1]); err != nil {
			return base, err
		}
	}
	for key, field := range listParams {
		if raw, ok := q[key]; ok && len(raw) > 0 {
			*field(&out) = SplitMulti(raw)
		}
	}
	return out, nil
}

// NormalizeAndValidate fills defaults, trims list entries, canonicalises
// language names and compiles path filters.
func NormalizeAndValidate(o *engine.Options) error {
	switch o.Action {
	case "":
		o.Action = engine.ActionFind
	case engine.ActionFind, engine.ActionStrip, engine.ActionTasks:
	default:
		return errors.Errorf("invalid action: %s", o.Action)
	}
	if o.Scope == 0 {
		o.Scope = comments.ScopeBoth
	}
	switch {
	case !o.Scope.Valid():
		return errors.Errorf("invalid --scope: %d", int(o.Scope))
	case o.Jobs < 1 || o.Jobs > MaxJobs:
		return errors.Errorf("jobs must be between 1 and %d", MaxJobs)
	case o.MaxFileBytes < 0:
		return errors.New("max_file_bytes must be >= 0")
	case o.Write && o.Action != engine.ActionStrip:
		return errors.New("--write is only valid for strip")
	}
	if strings.TrimSpace(o.RepoDir) == "" {
		o.RepoDir = "."
	}
	o.Paths = compact(o.Paths)
	o.Excludes = compact(o.Excludes)
	o.PathRegex = compact(o.PathRegex)
	if o.DetectLangs = compact(o.DetectLangs); len(o.DetectLangs) > 0 {
		o.DetectLangs = detect.CanonicalDetectLangs(o.DetectLangs)
	}
	compiled, err := engine.CompilePathRegex(o.PathRegex)
	if err != nil {
		return errors.Wrap(err, "invalid --path-regex")
	}
	o.PathRegexCompiled = compiled
	return nil
}

// ParseBool accepts 1/0, true/false, yes/no and on/off in any case.
func ParseBool(raw, key string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, errors.Errorf("invalid value for %s: %q", key, raw)
}

// ParseIntInRange parses an int in [lo, hi]. A hi below lo leaves the range
// open at the top.
func ParseIntInRange(raw, key string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.Errorf("invalid integer value for %s: %q", key, raw)
	}
	bounded := hi >= lo
	switch {
	case bounded && (n < lo || n > hi):
		return 0, errors.Errorf("%s must be between %d and %d", key, lo, hi)
	case !bounded && n < lo:
		return 0, errors.Errorf("%s must be >= %d", key, lo)
	}
	return n, nil
}

// NormalizeOutput lower-cases an output format; "md" is an alias for
// markdown and empty means table.
func NormalizeOutput(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "":
		return "table", nil
	case v == "md":
		return "markdown", nil
	case slices.Contains(outputFormats, v):
		return v, nil
	}
	return "", errors.Errorf("invalid --output: %s", value)
}

// NormalizeColor validates a --color mode; empty means auto.
func NormalizeColor(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "":
		return "auto", nil
	case slices.Contains(colorModes, v):
		return v, nil
	}
	return "", errors.Errorf("invalid --color: %s (want auto|always|never)", value)
}

// SplitMulti flattens repeated and comma separated values, dropping blanks.
func SplitMulti(vals []string) []string {
	var out []string
	for _, raw := range vals {
		for piece := range strings.SplitSeq(raw, ",") {
			if part := strings.TrimSpace(piece); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// compact trims entries and drops blanks without splitting on commas, which
// path regexes may contain.
func compact(vals []string) []string {
	var out []string
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
