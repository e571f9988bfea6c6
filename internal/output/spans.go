package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/phyten/devdeck/internal/engine"
	"github.com/phyten/devdeck/internal/model"
)

// SpanRecord is one comment span with the file it belongs to.
type SpanRecord struct {
	File string `json:"file"`
	model.Span
}

// FlattenSpans lists every span of res in file order.
func FlattenSpans(res *engine.Result) []SpanRecord {
	var out []SpanRecord
	for _, f := range res.Files {
		for _, s := range f.Spans {
			out = append(out, SpanRecord{File: f.File, Span: s})
		}
	}
	return out
}

// WriteSpans renders the spans of a find run as table, json or ndjson.
func WriteSpans(w io.Writer, format string, res *engine.Result, color bool) error {
	records := FlattenSpans(res)
	switch format {
	case "", "table":
		tbl := Table{Headers: []string{"FILE", "KIND", "FROM", "TO", "BYTES"}}
		for _, r := range records {
			tbl.Rows = append(tbl.Rows, []string{
				r.File,
				string(r.Kind),
				position(r.StartLine, r.StartCol),
				position(r.EndLine, r.EndCol),
				fmt.Sprintf("%d-%d", r.ByteStart, r.ByteEnd),
			})
		}
		return tbl.Write(w, color)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Spans  []SpanRecord `json:"spans"`
			Totals any          `json:"totals"`
		}{Spans: nonNil(records), Totals: res.Totals})
	case "ndjson":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.Errorf("unsupported spans output: %s", format)
	}
}

func position(line, col int) string {
	return strconv.Itoa(line) + ":" + strconv.Itoa(col)
}

func nonNil(r []SpanRecord) []SpanRecord {
	if r == nil {
		return []SpanRecord{}
	}
	return r
}
