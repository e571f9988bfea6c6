package output

import (
	"encoding/json"
	"io"

	"github.com/phyten/devdeck/internal/tasks"
)

// Record is the JSON shape of a task in CLI output. Line is 1-based.
type Record struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	Tag       string `json:"tag"`
	Status    string `json:"status"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

func NewRecord(t tasks.Task) Record {
	return Record{
		File:      t.File,
		Line:      t.Line + 1,
		Tag:       t.Tag,
		Status:    t.Status(),
		Text:      t.Text,
		Completed: t.Completed,
	}
}

type jsonDocument struct {
	Tasks  []Record     `json:"tasks"`
	Counts tasks.Counts `json:"counts"`
}

// WriteJSON writes one indented document with the tasks and their counts.
func WriteJSON(w io.Writer, items []tasks.Task) error {
	doc := jsonDocument{Tasks: make([]Record, 0, len(items))}
	for _, it := range items {
		doc.Tasks = append(doc.Tasks, NewRecord(it))
		doc.Counts.Total++
		if it.Completed {
			doc.Counts.Done++
		} else {
			doc.Counts.Open++
		}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteNDJSON streams items as newline-delimited JSON objects.
func WriteNDJSON(w io.Writer, items []tasks.Task) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, it := range items {
		if err := enc.Encode(NewRecord(it)); err != nil {
			return err
		}
	}
	return nil
}
