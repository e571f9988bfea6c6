package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/google/go-cmp/cmp"

	"github.com/phyten/devdeck/internal/comments"
	"github.com/phyten/devdeck/internal/execx"
	"github.com/phyten/devdeck/internal/progress"
)

// noGit は git を使わずに WalkDir へフォールバックさせるフェイクです。
var noGit = execx.RunnerFunc(func(context.Context, string, string, ...string) ([]byte, []byte, error) {
	return nil, []byte("fatal: not a git repository"), errors.New("exit status 128")
})

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("ディレクトリ作成に失敗しました: %v", err)
		}
		if err := os.WriteFile(full, []byte(body), 0o640); err != nil {
			t.Fatalf("ファイル作成に失敗しました: %v", err)
		}
	}
	return dir
}

func fileNames(res *Result) []string {
	var out []string
	for _, f := range res.Files {
		out = append(out, f.File)
	}
	return out
}

func TestRunStripはファイルを書き換える(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.go":     "a(); // x\n/* b */b();\n",
		"clean.js": "ok();\n",
		"tool.py":  "url = 'http://example.com' // keep\n",
	})
	res, err := Run(context.Background(), Options{
		Action:  ActionStrip,
		Scope:   comments.ScopeBoth,
		RepoDir: dir,
		Write:   true,
		Jobs:    4,
		Runner:  noGit,
	})
	if err != nil {
		t.Fatalf("Run に失敗しました: %v", err)
	}
	if diff := cmp.Diff([]string{"a.go", "clean.js", "tool.py"}, fileNames(res)); diff != "" {
		t.Fatalf("対象ファイルが想定外です (-want +got):\n%s", diff)
	}

	got, err := os.ReadFile(filepath.Join(dir, "a.go"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "a(); \nb();\n" {
		t.Fatalf("除去結果が想定外です: %q", got)
	}
	info, err := os.Stat(filepath.Join(dir, "a.go"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Fatalf("パーミッションが保持されていません: %v", info.Mode().Perm())
	}

	py, _ := os.ReadFile(filepath.Join(dir, "tool.py"))
	if !strings.Contains(string(py), "// keep") {
		t.Fatalf("Python ファイルは変更しないはずです: %q", py)
	}
	if res.Files[2].Skipped != SkipLanguage {
		t.Fatalf("Python は言語でスキップされるはずです: %+v", res.Files[2])
	}
	if res.Changed != 1 || res.Written != 1 {
		t.Fatalf("変更件数が想定外です: changed=%d written=%d", res.Changed, res.Written)
	}
	if want := (comments.Stats{Line: 1, Block: 1, Removed: 11}); res.Totals != want {
		t.Fatalf("集計が想定外です: got=%+v want=%+v", res.Totals, want)
	}
}

func TestRunStripはWriteなしで書き換えない(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.go": "x(); // y\n"})
	res, err := Run(context.Background(), Options{
		Action: ActionStrip, Scope: comments.ScopeSingle, RepoDir: dir, KeepText: true, Runner: noGit,
	})
	if err != nil {
		t.Fatal(err)
	}
	got, _ := os.ReadFile(filepath.Join(dir, "a.go"))
	if string(got) != "x(); // y\n" {
		t.Fatalf("Write=false では書き換えないはずです: %q", got)
	}
	f := res.Files[0]
	if !f.Changed || f.Written || f.Original != "x(); // y\n" || f.Stripped != "x(); \n" {
		t.Fatalf("結果が想定外です: %+v", f)
	}
}

func TestRunForceは言語ゲートを無視する(t *testing.T) {
	dir := writeTree(t, map[string]string{"tool.py": "x = 1 // 2\n"})
	res, err := Run(context.Background(), Options{
		Action: ActionFind, Scope: comments.ScopeBoth, RepoDir: dir, Force: true, Runner: noGit,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 1 || len(res.Files[0].Spans) != 1 || res.Files[0].Skipped != "" {
		t.Fatalf("--force で検出されるはずです: %+v", res.Files)
	}
}

func TestRunはバイナリと不正なUTF8をエラーとして記録する(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"bin.dat":  "ab\x00cd",
		"latin.c":  "caf\xe9 // x\n",
		"good.c":   "int x; // ok\n",
		"large.js": strings.Repeat("a", 64) + "// big\n",
	})
	res, err := Run(context.Background(), Options{
		Action: ActionFind, Scope: comments.ScopeBoth, RepoDir: dir, MaxFileBytes: 32, Runner: noGit,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []ItemError{
		{File: "bin.dat", Stage: "read", Message: "binary file"},
		{File: "latin.c", Stage: "read", Message: "not valid UTF-8"},
	}
	if diff := cmp.Diff(want, res.Errors); diff != "" {
		t.Fatalf("エラーが想定外です (-want +got):\n%s", diff)
	}
	if res.ErrorCount != 2 {
		t.Fatalf("ErrorCount = %d", res.ErrorCount)
	}
	if diff := cmp.Diff([]string{"good.c", "large.js"}, fileNames(res)); diff != "" {
		t.Fatalf("結果ファイルが想定外です (-want +got):\n%s", diff)
	}
	if res.Files[1].Skipped != SkipTooLarge {
		t.Fatalf("大きいファイルはスキップされるはずです: %+v", res.Files[1])
	}
}

func TestRunは除外とパス正規表現を適用する(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"src/a.go":              "// a\n",
		"src/a_test.go":         "// t\n",
		"node_modules/x/y.js":   "// dep\n",
		"web/app.min.js":        "// min\n",
		"gen/out.go":            "// gen\n",
		"src/nested/deep/b.go":  "// b\n",
		".git/hooks/pre-commit": "// hook\n",
	})
	res, err := Run(context.Background(), Options{
		Action:         ActionFind,
		Scope:          comments.ScopeBoth,
		RepoDir:        dir,
		ExcludeTypical: true,
		Excludes:       []string{"gen/**"},
		PathRegex:      []string{`\.go$`},
		Runner:         noGit,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"src/a.go", "src/a_test.go", "src/nested/deep/b.go"}
	if diff := cmp.Diff(want, fileNames(res)); diff != "" {
		t.Fatalf("対象ファイルが想定外です (-want +got):\n%s", diff)
	}
}

func TestRunはgit管理下ならls_filesを使う(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.go":       "// a\n",
		"sub/b.go":   "/* b */\n",
		"ignored.go": "// ignored\n",
	})
	var gotArgs []string
	runner := execx.RunnerFunc(func(_ context.Context, wd, name string, args ...string) ([]byte, []byte, error) {
		if name != "git" || wd != dir {
			t.Fatalf("想定外のコマンドです: %s in %s", name, wd)
		}
		gotArgs = args
		return []byte("a.go\x00sub/b.go\x00"), nil, nil
	})
	res, err := Run(context.Background(), Options{
		Action: ActionFind, Scope: comments.ScopeBoth, RepoDir: dir, Runner: runner, ExcludeTypical: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a.go", "sub/b.go"}, fileNames(res)); diff != "" {
		t.Fatalf("対象ファイルが想定外です (-want +got):\n%s", diff)
	}
	if !strings.Contains(strings.Join(gotArgs, " "), "ls-files -z --cached --others --exclude-standard -- .") {
		t.Fatalf("git の引数が想定外です: %v", gotArgs)
	}
	if !strings.Contains(strings.Join(gotArgs, " "), ":(glob,exclude)**/node_modules/**") {
		t.Fatalf("典型的な除外が渡されていません: %v", gotArgs)
	}
}

func TestRunTasksはタスクを集める(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.go": "// TODO write docs\nx()\n// - [x] done\n",
		"b.py": "# nothing\n",
	})
	res, err := Run(context.Background(), Options{Action: ActionTasks, RepoDir: dir, Runner: noGit})
	if err != nil {
		t.Fatal(err)
	}
	if res.TaskCount != 2 {
		t.Fatalf("タスク数が想定外です: %d", res.TaskCount)
	}
	all := res.Tasks()
	if all[0].Tag != "TODO" || all[0].Line != 0 || all[1].Tag != "CHECK" || !all[1].Completed {
		t.Fatalf("タスク内容が想定外です: %+v", all)
	}
}

func TestRunは明示ファイルと存在しないパスを扱う(t *testing.T) {
	dir := writeTree(t, map[string]string{"one.go": "// 1\n", "two.go": "// 2\n"})
	res, err := Run(context.Background(), Options{
		Action: ActionFind, Scope: comments.ScopeSingle, RepoDir: dir,
		Paths: []string{"two.go", "missing.go", "two.go"}, Runner: noGit,
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"two.go"}, fileNames(res)); diff != "" {
		t.Fatalf("対象ファイルが想定外です (-want +got):\n%s", diff)
	}
	if len(res.Errors) != 1 || res.Errors[0].File != "missing.go" || res.Errors[0].Stage != "stat" {
		t.Fatalf("存在しないパスのエラーが想定外です: %+v", res.Errors)
	}
}

func TestRunは進捗を通知する(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.go": "// a\n", "b.go": "// b\n"})
	var last progress.Snapshot
	var stages []progress.Stage
	ob := progress.ObserverFunc(func(s progress.Snapshot) {
		last = s
		if len(stages) == 0 || stages[len(stages)-1] != s.Stage {
			stages = append(stages, s.Stage)
		}
	})
	_, err := Run(context.Background(), Options{
		Action: ActionFind, Scope: comments.ScopeBoth, RepoDir: dir, Runner: noGit,
		Jobs: 1, Progress: true, ProgressObserver: ob,
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]progress.Stage{progress.StageCollect, progress.StageProcess}, stages); diff != "" {
		t.Fatalf("段階が想定外です (-want +got):\n%s", diff)
	}
	if last.Total != 2 {
		t.Fatalf("総数が想定外です: %+v", last)
	}
}

func TestRunは不正な入力を拒否する(t *testing.T) {
	if _, err := Run(context.Background(), Options{Action: "explode", Scope: comments.ScopeBoth}); err == nil {
		t.Fatal("不明なアクションはエラーになるべきです")
	}
	if _, err := Run(context.Background(), Options{Action: ActionFind}); err == nil {
		t.Fatal("スコープ未指定はエラーになるべきです")
	}
	if _, err := Run(context.Background(), Options{Action: ActionFind, Scope: comments.ScopeBoth, PathRegex: []string{"("}}); err == nil {
		t.Fatal("不正な正規表現はエラーになるべきです")
	}
}

func TestRunはキャンセルを尊重する(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.go": "// a\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Options{Action: ActionFind, Scope: comments.ScopeBoth, RepoDir: dir, Runner: noGit})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("context.Canceled を期待しました: %v", err)
	}
}

func TestClampJobs(t *testing.T) {
	cases := map[int]int{-3: 1, 0: 1, 1: 1, 8: 8, 64: 64, 65: 64}
	for in, want := range cases {
		if got := clampJobs(in); got != want {
			t.Fatalf("clampJobs(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestBuildPathspecs(t *testing.T) {
	got := buildPathspecs([]string{"gen/**", ":!docs", " "}, false)
	want := []string{".", ":(glob,exclude)gen/**", ":!docs"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("pathspec が想定外です (-want +got):\n%s", diff)
	}
}
