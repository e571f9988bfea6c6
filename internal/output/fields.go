package output

import (
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"github.com/phyten/devdeck/internal/tasks"
)

// DefaultFields is used when no --fields value is given.
const DefaultFields = "tag,status,location,text"

type Field struct {
	Key    string
	Header string
}

type FieldSelection struct {
	Fields []Field
	// Link renders the url field for a 1-based line. Nil leaves it empty.
	Link func(file string, line int) string
}

var fieldRegistry = map[string]string{
	"file":     "FILE",
	"line":     "LINE",
	"location": "LOCATION",
	"tag":      "TAG",
	"status":   "STATUS",
	"text":     "TEXT",
	"url":      "URL",
}

// ResolveFields parses a comma separated field list. Keys are case
// insensitive; "type" is accepted for "tag".
func ResolveFields(raw string) (FieldSelection, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultFields
	}
	parts := strings.Split(raw, ",")
	sel := FieldSelection{Fields: make([]Field, 0, len(parts))}
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			return FieldSelection{}, errors.New("invalid fields: empty entry")
		}
		key := strings.ToLower(name)
		if key == "type" {
			key = "tag"
		}
		header, ok := fieldRegistry[key]
		if !ok {
			return FieldSelection{}, errors.Errorf("unknown field: %s", name)
		}
		sel.Fields = append(sel.Fields, Field{Key: key, Header: header})
	}
	return sel, nil
}

// Has reports whether key is selected.
func (s FieldSelection) Has(key string) bool {
	for _, f := range s.Fields {
		if f.Key == key {
			return true
		}
	}
	return false
}

func Headers(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Header
	}
	return out
}

// Row formats t for the selected fields. Lines are 1-based here.
func (s FieldSelection) Row(t tasks.Task) []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = s.value(t, f.Key)
	}
	return out
}

func (s FieldSelection) value(t tasks.Task, key string) string {
	switch key {
	case "file":
		return t.File
	case "line":
		return strconv.Itoa(t.Line + 1)
	case "location":
		return t.File + ":" + strconv.Itoa(t.Line+1)
	case "tag":
		return t.Tag
	case "status":
		return t.Status()
	case "text":
		return t.Text
	case "url":
		if s.Link == nil {
			return ""
		}
		return s.Link(t.File, t.Line+1)
	default:
		return ""
	}
}
