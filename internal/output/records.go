package output

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"

	"github.com/phyten/devdeck/internal/tasks"
)

// WriteCSV renders items as CSV with CRLF line endings.
func WriteCSV(w io.Writer, items []tasks.Task, sel FieldSelection) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	cw.Write(Headers(sel.Fields))
	for _, it := range items {
		cw.Write(sel.Row(it))
	}
	cw.Flush()
	return cw.Error()
}

var markdownCell = strings.NewReplacer("\r\n", "<br>", "\n", "<br>", "\r", "", "|", `\|`)

// WriteMarkdownTable renders items as a pipe table. The status column
// becomes a checkbox and url cells become links.
func WriteMarkdownTable(w io.Writer, items []tasks.Task, sel FieldSelection) error {
	bw := bufio.NewWriter(w)
	headers := Headers(sel.Fields)
	rules := make([]string, len(headers))
	for i := range rules {
		rules[i] = "---"
	}
	writeMarkdownRow(bw, headers)
	writeMarkdownRow(bw, rules)
	for _, it := range items {
		row := sel.Row(it)
		for i, f := range sel.Fields {
			row[i] = markdownValue(f.Key, row[i])
		}
		writeMarkdownRow(bw, row)
	}
	return bw.Flush()
}

func markdownValue(key, v string) string {
	switch key {
	case "status":
		if v == "done" {
			return "[x]"
		}
		return "[ ]"
	case "url":
		if v == "" {
			return ""
		}
		return "[link](" + v + ")"
	default:
		return markdownCell.Replace(v)
	}
}

func writeMarkdownRow(w *bufio.Writer, cells []string) {
	w.WriteString("| ")
	w.WriteString(strings.Join(cells, " | "))
	w.WriteString(" |\n")
}
