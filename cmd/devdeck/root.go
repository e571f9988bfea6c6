package main

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phyten/devdeck/internal/applog"
	"github.com/phyten/devdeck/internal/config"
	"github.com/phyten/devdeck/internal/engine"
	"github.com/phyten/devdeck/internal/engine/opts"
	"github.com/phyten/devdeck/internal/execx"
	"github.com/phyten/devdeck/internal/progress"
	"github.com/phyten/devdeck/internal/termcolor"
)

// app carries the process environment so tests can replace it.
type app struct {
	getenv  func(string) string
	environ func() []string
	dir     string
	runner  execx.Runner
	openURL func(string) error
	now     func() time.Time
	tick    time.Duration

	configPath string
	debug      bool
	lg         *zap.Logger
}

func newApp() *app {
	return &app{
		getenv:  os.Getenv,
		environ: os.Environ,
		openURL: browser.OpenURL,
		now:     time.Now,
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "devdeck",
		Short: "Comment tools, a task board, a focus timer and a theme switcher for C-style sources",

		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.lg = applog.New(cmd.ErrOrStderr(), a.debug)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: .devdeck.* upwards, then $XDG_CONFIG_HOME/devdeck, then $HOME)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	root.AddCommand(
		newStripCommand(a),
		newSpansCommand(a),
		newHighlightCommand(a),
		newTasksCommand(a),
		newServeCommand(a),
		newTimerCommand(a),
		newThemeCommand(a),
		newConfigCommand(a),
	)
	return root
}

func (a *app) logger() *zap.Logger {
	return applog.OrNop(a.lg)
}

func (a *app) workDir() (string, error) {
	if a.dir != "" {
		return a.dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "getwd")
	}
	return wd, nil
}

// settings resolves defaults < config file < environment < flags.
func (a *app) settings(action engine.Action, flags config.Config) (config.Settings, error) {
	st, _, err := a.resolve(action, flags)
	return st, err
}

func (a *app) resolve(action engine.Action, flags config.Config) (config.Settings, config.Sources, error) {
	dir, err := a.workDir()
	if err != nil {
		return config.Settings{}, config.Sources{}, err
	}
	defaults := config.Defaults(config.EngineSettingsFromOptions(opts.Defaults(".", action)))
	st, src, err := config.ResolveAll(defaults, dir, a.configPath, a.getenv, flags)
	if err != nil {
		return config.Settings{}, config.Sources{}, err
	}
	if src.File != "" {
		a.logger().Debug("Config loaded", zap.String("file", src.File), zap.String("where", src.Where))
	}
	return st, src, nil
}

// engineOptions builds validated engine options from merged settings.
// Relative repo paths are taken from the working directory.
func (a *app) engineOptions(st config.Settings, action engine.Action) (engine.Options, error) {
	o := opts.Defaults(".", action)
	if err := st.Engine.ApplyToOptions(&o); err != nil {
		return o, err
	}
	if a.dir != "" && !filepath.IsAbs(o.RepoDir) {
		o.RepoDir = filepath.Join(a.dir, o.RepoDir)
	}
	o.Runner = a.runner
	if err := opts.NormalizeAndValidate(&o); err != nil {
		return o, err
	}
	return o, nil
}

func (a *app) colorOutput(flag string, out io.Writer) (termcolor.Output, error) {
	return termcolor.Resolve(flag, out, termcolor.EnvMap(a.environ()))
}

func (a *app) withProgress(o *engine.Options, f *engineFlags, stderr io.Writer) {
	if progress.Enabled(f.progress, f.noProgress, stderr) {
		o.Progress = true
		o.ProgressObserver = progress.For(stderr, a.logger())
	}
}

func changed[T any](cmd *cobra.Command, name string, v T) *T {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}
