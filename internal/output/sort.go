package output

import (
	"cmp"
	"slices"
	"strings"

	"github.com/go-faster/errors"

	"github.com/phyten/devdeck/internal/tasks"
)

type SortKey struct {
	Name string
	Desc bool
}

type SortSpec struct {
	Keys []SortKey
}

var comparators = map[string]func(a, b tasks.Task) int{
	"file":   func(a, b tasks.Task) int { return cmp.Compare(a.File, b.File) },
	"line":   func(a, b tasks.Task) int { return cmp.Compare(a.Line, b.Line) },
	"tag":    func(a, b tasks.Task) int { return cmp.Compare(a.Tag, b.Tag) },
	"status": func(a, b tasks.Task) int { return cmp.Compare(a.Status(), b.Status()) },
	"text":   func(a, b tasks.Task) int { return cmp.Compare(a.Text, b.Text) },
}

// sortAliases expand to one or more comparator names.
var sortAliases = map[string][]string{
	"location": {"file", "line"},
	"type":     {"tag"},
}

// ParseSortSpec accepts "file,-line" style specs. A leading '-' sorts
// descending and '+' is allowed for symmetry; "location" expands to file then
// line.
func ParseSortSpec(raw string) (SortSpec, error) {
	var spec SortSpec
	if strings.TrimSpace(raw) == "" {
		return spec, nil
	}
	for part := range strings.SplitSeq(raw, ",") {
		token := strings.TrimSpace(part)
		if token == "" {
			return SortSpec{}, errors.New("invalid sort key: empty segment")
		}
		desc := strings.HasPrefix(token, "-")
		name := strings.ToLower(strings.TrimSpace(strings.TrimLeft(token, "+-")))
		if name == "" {
			return SortSpec{}, errors.New("invalid sort key: sign without name")
		}
		names, ok := sortAliases[name]
		if !ok {
			if _, known := comparators[name]; !known {
				return SortSpec{}, errors.Errorf("invalid sort key: %s", token)
			}
			names = []string{name}
		}
		for _, n := range names {
			spec.Keys = append(spec.Keys, SortKey{Name: n, Desc: desc})
		}
	}
	return spec, nil
}

// ApplySort orders items in place. Ties keep their input order.
func ApplySort(items []tasks.Task, spec SortSpec) {
	if len(spec.Keys) == 0 {
		return
	}
	slices.SortStableFunc(items, func(a, b tasks.Task) int {
		for _, k := range spec.Keys {
			c := comparators[k.Name](a, b)
			if k.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}
