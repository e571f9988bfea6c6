package engine

import (
	"regexp"

	"github.com/phyten/devdeck/internal/comments"
	"github.com/phyten/devdeck/internal/execx"
	"github.com/phyten/devdeck/internal/model"
	"github.com/phyten/devdeck/internal/progress"
	"github.com/phyten/devdeck/internal/tasks"
)

// Action はファイルごとに実行する処理の種類です。
type Action string

const (
	ActionFind  Action = "find"
	ActionStrip Action = "strip"
	ActionTasks Action = "tasks"
)

// スキップ理由
const (
	SkipLanguage = "language"
	SkipTooLarge = "too-large"
)

// FileResult は 1 ファイル分の処理結果を表す
type FileResult struct {
	File    string         `json:"file"`
	Lang    string         `json:"lang,omitempty"`
	Spans   []model.Span   `json:"spans,omitempty"`
	Stats   comments.Stats `json:"stats"`
	Changed bool           `json:"changed"`
	Written bool           `json:"written"`
	Tasks   []tasks.Task   `json:"tasks,omitempty"`
	Skipped string         `json:"skipped,omitempty"`
	// Original と Stripped は Options.KeepText のときだけ埋まる
	Original string `json:"-"`
	Stripped string `json:"-"`
}

// ItemError は 1 ファイルの処理に失敗した際の情報を表す
type ItemError struct {
	File    string `json:"file"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Options は実行オプション
type Options struct {
	Action            Action
	Scope             comments.Scope
	RepoDir           string
	Paths             []string
	Excludes          []string
	PathRegex         []string
	PathRegexCompiled []*regexp.Regexp
	ExcludeTypical    bool
	DetectLangs       []string
	MaxFileBytes      int
	Jobs              int
	Write             bool
	Force             bool
	KeepText          bool
	Progress          bool
	ProgressObserver  progress.Observer `json:"-"`
	Runner            execx.Runner      `json:"-"`
}

// Result は出力
type Result struct {
	Files      []FileResult   `json:"files"`
	Totals     comments.Stats `json:"totals"`
	FileCount  int            `json:"file_count"`
	Changed    int            `json:"changed"`
	Written    int            `json:"written"`
	TaskCount  int            `json:"task_count"`
	ElapsedMS  int64          `json:"elapsed_ms"`
	Errors     []ItemError    `json:"errors,omitempty"`
	ErrorCount int            `json:"error_count"`
}

// Tasks は全ファイルのタスクを 1 つのスライスにまとめます。
func (r *Result) Tasks() []tasks.Task {
	var out []tasks.Task
	for _, f := range r.Files {
		out = append(out, f.Tasks...)
	}
	return out
}
