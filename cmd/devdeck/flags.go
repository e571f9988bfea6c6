package main

import (
	"github.com/spf13/cobra"

	"github.com/phyten/devdeck/internal/config"
	"github.com/phyten/devdeck/internal/engine/opts"
)

// engineFlags are shared by the commands that scan files.
type engineFlags struct {
	scope          string
	paths          []string
	excludes       []string
	pathRegex      []string
	excludeTypical bool
	langs          []string
	jobs           int
	maxFileBytes   int
	repo           string
	force          bool
	output         string
	color          string
	progress       bool
	noProgress     bool
}

func (f *engineFlags) register(cmd *cobra.Command, outputHelp string) {
	fs := cmd.Flags()
	fs.StringVarP(&f.scope, "scope", "s", "both", "comment scope: single|multi|both")
	fs.StringArrayVarP(&f.paths, "path", "p", nil, "limit to paths (repeatable, comma separated)")
	fs.StringArrayVarP(&f.excludes, "exclude", "x", nil, "exclude glob (repeatable)")
	fs.StringArrayVar(&f.pathRegex, "path-regex", nil, "only files whose path matches the regexp (repeatable)")
	fs.BoolVar(&f.excludeTypical, "exclude-typical", true, "skip vendor, node_modules, dist, build and similar directories")
	fs.StringArrayVar(&f.langs, "lang", nil, "only these languages (repeatable, comma separated)")
	fs.IntVarP(&f.jobs, "jobs", "j", 0, "parallel workers (1-64, default: CPU count)")
	fs.IntVar(&f.maxFileBytes, "max-file-bytes", 0, "skip files larger than this (0 = no limit)")
	fs.StringVar(&f.repo, "repo", "", "repository root (default: .)")
	fs.BoolVar(&f.force, "force", false, "process files of any language")
	fs.StringVar(&f.color, "color", "auto", "colorize output: auto|always|never")
	fs.BoolVar(&f.progress, "progress", false, "always show progress on stderr")
	fs.BoolVar(&f.noProgress, "no-progress", false, "never show progress")
	if outputHelp != "" {
		fs.StringVarP(&f.output, "output", "o", "table", outputHelp)
	}
}

// layer returns the flags that were set explicitly. Positional arguments
// are added to --path.
func (f *engineFlags) layer(cmd *cobra.Command, args []string) config.EngineConfig {
	l := config.EngineConfig{
		Scope:          changed(cmd, "scope", f.scope),
		Paths:          changed(cmd, "path", opts.SplitMulti(f.paths)),
		Excludes:       changed(cmd, "exclude", opts.SplitMulti(f.excludes)),
		PathRegex:      changed(cmd, "path-regex", f.pathRegex),
		ExcludeTypical: changed(cmd, "exclude-typical", f.excludeTypical),
		DetectLangs:    changed(cmd, "lang", opts.SplitMulti(f.langs)),
		Jobs:           changed(cmd, "jobs", f.jobs),
		MaxFileBytes:   changed(cmd, "max-file-bytes", f.maxFileBytes),
		Repo:           changed(cmd, "repo", f.repo),
		Force:          changed(cmd, "force", f.force),
		Color:          changed(cmd, "color", f.color),
	}
	if cmd.Flags().Lookup("output") != nil {
		l.Output = changed(cmd, "output", f.output)
	}
	if len(args) > 0 {
		paths := append(opts.SplitMulti(f.paths), args...)
		l.Paths = &paths
	}
	return l
}
