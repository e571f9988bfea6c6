package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/phyten/devdeck/internal/tasks"
	"github.com/phyten/devdeck/internal/termcolor"
	"github.com/phyten/devdeck/internal/textutil"
)

// DefaultTextWidth caps the TEXT column of the table format.
const DefaultTextWidth = 80

// TableOptions controls the human readable table.
type TableOptions struct {
	Color     termcolor.Output
	TextWidth int
}

// Table is a width-aware grid. Cells may contain escape sequences; widths are
// measured on visible glyphs.
type Table struct {
	Headers []string
	Rows    [][]string
	// Style is consulted per cell when colors are on. Nil means plain.
	Style func(col int, value string) termcolor.Style
}

// Write renders t with two spaces between columns and no trailing padding.
func (t Table) Write(w io.Writer, color bool) error {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = textutil.VisibleWidth(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], textutil.VisibleWidth(cell))
			}
		}
	}
	bw := bufio.NewWriter(w)
	header := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = termcolor.Apply(termcolor.HeaderStyle(), h, color)
	}
	writeRow(bw, header, widths)
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cell
			if color && t.Style != nil {
				cells[i] = termcolor.Apply(t.Style(i, cell), cell, true)
			}
		}
		writeRow(bw, cells, widths)
	}
	return bw.Flush()
}

func writeRow(w *bufio.Writer, cells []string, widths []int) {
	for i, cell := range cells {
		if i > 0 {
			w.WriteString("  ")
		}
		if i == len(cells)-1 {
			w.WriteString(cell)
			continue
		}
		w.WriteString(textutil.PadRight(cell, widths[i]))
	}
	w.WriteByte('\n')
}

// WriteTable renders items as an aligned table. The text column is
// truncated to opts.TextWidth display cells.
func WriteTable(w io.Writer, items []tasks.Task, sel FieldSelection, opts TableOptions) error {
	limit := opts.TextWidth
	if limit <= 0 {
		limit = DefaultTextWidth
	}
	tbl := Table{Headers: Headers(sel.Fields), Rows: make([][]string, 0, len(items))}
	for _, it := range items {
		row := sel.Row(it)
		for i, f := range sel.Fields {
			if f.Key == "text" {
				row[i] = textutil.Clip(row[i], limit)
			}
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	out := opts.Color
	tbl.Style = func(col int, value string) termcolor.Style {
		switch sel.Fields[col].Key {
		case "tag":
			return termcolor.TypeStyle(value, out.Scheme, out.Profile)
		case "status":
			return termcolor.StatusStyle(value == "done")
		default:
			return termcolor.Style{}
		}
	}
	return tbl.Write(w, out.Enabled)
}

// WriteTSV renders a header line and one tab separated line per task. Tabs
// and newlines inside values become spaces.
func WriteTSV(w io.Writer, items []tasks.Task, sel FieldSelection) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(Headers(sel.Fields), "\t"))
	bw.WriteByte('\n')
	for _, it := range items {
		row := sel.Row(it)
		for i := range row {
			row[i] = strings.ReplaceAll(textutil.OneLine(row[i]), "\t", " ")
		}
		bw.WriteString(strings.Join(row, "\t"))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
