// Package engine はファイル群に対してコメント検出・除去・タスク抽出を並列に実行します。
package engine

import (
	"bytes"
	"context"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-faster/errors"
	"github.com/moby/sys/atomicwriter"

	"github.com/phyten/devdeck/internal/comments"
	"github.com/phyten/devdeck/internal/detect"
	"github.com/phyten/devdeck/internal/progress"
	"github.com/phyten/devdeck/internal/tasks"
)

const maxJobs = 64

var (
	errBinary      = errors.New("binary file")
	errInvalidUTF8 = errors.New("not valid UTF-8")
)

// Run は指定されたオプションに従ってファイルを走査し、ファイルごとの結果を返します。
//
// 1 ファイルの失敗は Result.Errors に集約され、実行全体は止まりません。
// ctx がキャンセルされた場合はその時点でエラーを返します。
func Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	switch opts.Action {
	case ActionFind, ActionStrip, ActionTasks:
	default:
		return nil, errors.Errorf("invalid action: %q", opts.Action)
	}
	if opts.Action != ActionTasks && !opts.Scope.Valid() {
		return nil, errors.Errorf("invalid scope: %d", int(opts.Scope))
	}
	if opts.PathRegexCompiled == nil && len(opts.PathRegex) > 0 {
		rx, err := CompilePathRegex(opts.PathRegex)
		if err != nil {
			return nil, errors.Wrap(err, "invalid --path-regex")
		}
		opts.PathRegexCompiled = rx
	}
	opts.Jobs = clampJobs(opts.Jobs)

	est := progress.NewMeter()
	observer := opts.ProgressObserver
	if observer == nil || !opts.Progress {
		observer = progress.Discard{}
	}
	observer.Publish(est.Begin(progress.StageCollect, 0))

	files, errs, err := collectFiles(ctx, opts)
	if err != nil {
		return nil, err
	}
	observer.Publish(est.Begin(progress.StageProcess, len(files)))

	type job struct {
		idx  int
		path string
	}
	out := make([]FileResult, len(files))
	keep := make([]bool, len(files))
	var errsMu sync.Mutex

	jobs := make(chan job)
	var wg sync.WaitGroup
	wg.Add(opts.Jobs)
	for i := 0; i < opts.Jobs; i++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				res, ok, itemErr := processFile(opts, j.path)
				if itemErr != nil {
					errsMu.Lock()
					errs = append(errs, *itemErr)
					errsMu.Unlock()
				}
				out[j.idx], keep[j.idx] = res, ok
				if snap, notify := est.Tick(j.path); notify {
					observer.Publish(snap)
				}
			}
		}()
	}

	var canceled error
feed:
	for i, p := range files {
		select {
		case <-ctx.Done():
			canceled = ctx.Err()
			break feed
		case jobs <- job{idx: i, path: p}:
		}
	}
	close(jobs)
	wg.Wait()
	observer.Done(est.Finish())
	if canceled != nil {
		return nil, canceled
	}

	res := &Result{}
	for i, fr := range out {
		if !keep[i] {
			continue
		}
		res.Files = append(res.Files, fr)
		res.Totals.Line += fr.Stats.Line
		res.Totals.Block += fr.Stats.Block
		res.Totals.Removed += fr.Stats.Removed
		res.TaskCount += len(fr.Tasks)
		if fr.Changed {
			res.Changed++
		}
		if fr.Written {
			res.Written++
		}
	}
	res.FileCount = len(res.Files)

	sort.Slice(errs, func(i, j int) bool {
		if errs[i].File == errs[j].File {
			return errs[i].Stage < errs[j].Stage
		}
		return errs[i].File < errs[j].File
	})
	res.Errors = errs
	res.ErrorCount = len(errs)
	res.ElapsedMS = time.Since(start).Milliseconds()
	return res, nil
}

// processFile は 1 ファイルを読み込み、Action に応じた処理を行います。
// 2 番目の戻り値が false のファイルは結果から除外されます。
func processFile(opts Options, rel string) (FileResult, bool, *ItemError) {
	fr := FileResult{File: rel}
	full := resolve(opts.RepoDir, rel)
	info, err := os.Stat(full)
	if err != nil {
		return fr, false, itemErrorPtr(rel, "stat", err)
	}
	if opts.MaxFileBytes > 0 && info.Size() > int64(opts.MaxFileBytes) {
		fr.Skipped = SkipTooLarge
		return fr, true, nil
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return fr, false, itemErrorPtr(rel, "read", err)
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return fr, false, itemErrorPtr(rel, "read", errBinary)
	}
	if !utf8.Valid(data) {
		return fr, false, itemErrorPtr(rel, "read", errInvalidUTF8)
	}
	lang := detect.FromPathAndContent(rel, data)
	fr.Lang = detect.NormalizeLangName(lang.Name)
	if !detect.MatchesLang(lang, opts.DetectLangs) {
		return fr, false, nil
	}
	text := string(data)

	if opts.Action == ActionTasks {
		fr.Tasks = tasks.Scan(rel, text)
		return fr, true, nil
	}
	if !opts.Force && !detect.Eligible(lang) {
		fr.Skipped = SkipLanguage
		return fr, true, nil
	}

	switch opts.Action {
	case ActionFind:
		fr.Spans = comments.FindSpans(text, opts.Scope)
		fr.Stats = comments.Count(fr.Spans)
	case ActionStrip:
		r := comments.Strip(text, opts.Scope)
		fr.Spans = r.Spans
		fr.Stats = r.Stats
		fr.Changed = r.Changed()
		if opts.KeepText {
			fr.Original = text
			fr.Stripped = r.Text
		}
		if opts.Write && fr.Changed {
			if err := atomicwriter.WriteFile(full, []byte(r.Text), info.Mode().Perm()); err != nil {
				return fr, true, itemErrorPtr(rel, "write", err)
			}
			fr.Written = true
		}
	}
	return fr, true, nil
}

func clampJobs(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxJobs {
		return maxJobs
	}
	return n
}

func newItemError(file, stage string, err error) ItemError {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = "unknown error"
	}
	return ItemError{File: file, Stage: stage, Message: msg}
}

func itemErrorPtr(file, stage string, err error) *ItemError {
	e := newItemError(file, stage, err)
	return &e
}
