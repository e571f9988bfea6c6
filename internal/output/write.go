// Package output renders task listings and comment spans for the CLI.
package output

import (
	"io"

	"github.com/go-faster/errors"

	"github.com/phyten/devdeck/internal/tasks"
)

// WriteTasks dispatches on a normalized output format
// (table, tsv, json, ndjson, csv, markdown).
func WriteTasks(w io.Writer, format string, items []tasks.Task, sel FieldSelection, opts TableOptions) error {
	switch format {
	case "", "table":
		return WriteTable(w, items, sel, opts)
	case "tsv":
		return WriteTSV(w, items, sel)
	case "json":
		return WriteJSON(w, items)
	case "ndjson":
		return WriteNDJSON(w, items)
	case "csv":
		return WriteCSV(w, items, sel)
	case "markdown":
		return WriteMarkdownTable(w, items, sel)
	default:
		return errors.Errorf("unsupported output: %s", format)
	}
}
