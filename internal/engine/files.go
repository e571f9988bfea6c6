package engine

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/go-faster/errors"

	"github.com/phyten/devdeck/internal/execx"
)

var typicalExcludeDirs = []string{"vendor", "node_modules", "dist", "build", "target", "out", "coverage"}

// buildPathspecs は `git ls-files` の "--" 以降に渡す pathspec を組み立てます。
func buildPathspecs(excludes []string, typical bool) []string {
	out := []string{"."}
	if typical {
		for _, dir := range typicalExcludeDirs {
			out = append(out, ":(glob,exclude)**/"+dir+"/**")
		}
		out = append(out, ":(glob,exclude)**/*.min.*")
	}
	for _, raw := range excludes {
		trimmed := filepath.ToSlash(strings.TrimSpace(raw))
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			out = append(out, trimmed)
			continue
		}
		out = append(out, ":(glob,exclude)"+trimmed)
	}
	return out
}

// CompilePathRegex は --path-regex の値をまとめてコンパイルします。
func CompilePathRegex(patterns []string) ([]*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, raw := range patterns {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		rx, err := regexp.Compile(trimmed)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, rx)
	}
	return compiled, nil
}

func matchAny(rx []*regexp.Regexp, text string) bool {
	if len(rx) == 0 {
		return true
	}
	for _, r := range rx {
		if r.MatchString(text) {
			return true
		}
	}
	return false
}

// collectFiles は Paths を処理対象ファイルの一覧へ展開します。
// ディレクトリは git 管理下なら `git ls-files`、そうでなければ WalkDir で列挙します。
func collectFiles(ctx context.Context, opts Options) ([]string, []ItemError, error) {
	roots := opts.Paths
	if len(roots) == 0 {
		roots = []string{"."}
	}
	seen := make(map[string]struct{})
	var files []string
	var errs []ItemError
	add := func(p string) {
		p = filepath.ToSlash(filepath.Clean(p))
		if _, ok := seen[p]; ok {
			return
		}
		if !matchAny(opts.PathRegexCompiled, p) {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		info, err := os.Stat(resolve(opts.RepoDir, root))
		if err != nil {
			errs = append(errs, newItemError(root, "stat", err))
			continue
		}
		if !info.IsDir() {
			if !excluded(filepath.ToSlash(root), opts.Excludes, false) {
				add(root)
			}
			continue
		}
		listed, err := gitListFiles(ctx, opts, root)
		if err != nil {
			listed, err = walkFiles(ctx, opts, root)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "walk %s", root)
			}
		}
		for _, rel := range listed {
			add(filepath.Join(root, rel))
		}
	}
	sort.Strings(files)
	return files, errs, nil
}

func gitListFiles(ctx context.Context, opts Options, root string) ([]string, error) {
	args := []string{"-c", "core.quotePath=false", "ls-files", "-z", "--cached", "--others", "--exclude-standard", "--"}
	args = append(args, buildPathspecs(opts.Excludes, opts.ExcludeTypical)...)
	out, err := execx.Output(ctx, opts.Runner, resolve(opts.RepoDir, root), "git", args...)
	if err != nil {
		return nil, errors.Wrap(err, "git ls-files")
	}
	var paths []string
	for _, p := range bytes.Split(out, []byte{0}) {
		if len(p) == 0 {
			continue
		}
		paths = append(paths, filepath.FromSlash(string(p)))
	}
	return paths, nil
}

func walkFiles(ctx context.Context, opts Options, root string) ([]string, error) {
	base := resolve(opts.RepoDir, root)
	var out []string
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		slash := filepath.ToSlash(rel)
		if d.IsDir() {
			if d.Name() == ".git" || excluded(slash, opts.Excludes, opts.ExcludeTypical) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || excluded(slash, opts.Excludes, opts.ExcludeTypical) {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	return out, err
}

// excluded はパス全体またはその要素がいずれかのグロブに一致するかを判定します。
func excluded(rel string, patterns []string, typical bool) bool {
	if typical {
		for _, part := range strings.Split(rel, "/") {
			for _, dir := range typicalExcludeDirs {
				if part == dir {
					return true
				}
			}
		}
		if ok, _ := path.Match("*.min.*", path.Base(rel)); ok {
			return true
		}
	}
	for _, raw := range patterns {
		pat := strings.TrimSuffix(filepath.ToSlash(strings.TrimSpace(raw)), "/**")
		if pat == "" || strings.HasPrefix(pat, ":") {
			continue
		}
		if ok, _ := path.Match(pat, rel); ok {
			return true
		}
		if ok, _ := path.Match(pat, path.Base(rel)); ok {
			return true
		}
		if strings.HasPrefix(rel, pat+"/") {
			return true
		}
	}
	return false
}

func resolve(repo, p string) string {
	if filepath.IsAbs(p) || repo == "" {
		return p
	}
	return filepath.Join(repo, p)
}
