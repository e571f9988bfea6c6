// Package tasks extracts TODO/FIXME notes and "// - [ ]" checklist items from
// source text and keeps the per-session task board.
package tasks

import (
	"regexp"
	"strings"
)

// Tag values reported on Task.
const (
	TagTodo  = "TODO"
	TagFixme = "FIXME"
	TagCheck = "CHECK"
)

var taskRe = regexp.MustCompile(`//\s*(TODO|FIXME)\s*(.*)|//\s*-\s*\[([ x])\]\s*(.*)`)

// Task is one note found in a file. Line is 0-based like editor positions.
type Task struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Tag       string `json:"tag"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Status returns "done" or "open".
func (t Task) Status() string {
	if t.Completed {
		return "done"
	}
	return "open"
}

// Scan returns every task in text in line order.
func Scan(file, text string) []Task {
	if text == "" {
		return nil
	}
	var out []Task
	for line, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		if !strings.Contains(raw, "//") {
			continue
		}
		for _, m := range taskRe.FindAllStringSubmatch(raw, -1) {
			switch {
			case m[1] != "":
				out = append(out, Task{File: file, Line: line, Tag: m[1], Text: m[2]})
			case m[3] != "":
				out = append(out, Task{File: file, Line: line, Tag: TagCheck, Text: m[4], Completed: m[3] == "x"})
			}
		}
	}
	return out
}
