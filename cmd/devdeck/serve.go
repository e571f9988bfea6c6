package main

import (
	"fmt"
	"net"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phyten/devdeck/internal/config"
	"github.com/phyten/devdeck/internal/engine"
	"github.com/phyten/devdeck/internal/pomodoro"
	"github.com/phyten/devdeck/internal/session"
	"github.com/phyten/devdeck/internal/theme"
	"github.com/phyten/devdeck/internal/watcher"
	"github.com/phyten/devdeck/internal/web"
)

type serveCommand struct {
	a              *app
	flags          engineFlags
	addr           string
	open           bool
	watch          bool
	debounce       time.Duration
	highlightDelay int
	applyTheme     bool
	themeSettings  string
	work           int
	brk            int
}

func newServeCommand(a *app) *cobra.Command {
	c := &serveCommand{a: a}
	cmd := &cobra.Command{
		Use:   "serve [paths...]",
		Short: "Serve the task board, timer and comment editor on a local web page",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, args)
		},
	}
	c.flags.register(cmd, "")
	fs := cmd.Flags()
	fs.StringVar(&c.addr, "addr", "", "listen address (default: 127.0.0.1:7788)")
	fs.BoolVar(&c.open, "open", false, "open the page in a browser")
	fs.BoolVar(&c.watch, "watch", true, "rescan tasks when source files change")
	fs.DurationVar(&c.debounce, "debounce", watcher.DefaultDebounce, "wait this long after the last change before rescanning")
	fs.IntVar(&c.highlightDelay, "highlight-delay", 0, "milliseconds before editor highlights are cleared (default: 2000)")
	fs.BoolVar(&c.applyTheme, "apply-theme", false, "switch the editor color theme by time of day while serving")
	fs.StringVar(&c.themeSettings, "theme-settings", "", "settings.json to edit (default: the VS Code user settings)")
	fs.IntVar(&c.work, "work", 0, "work minutes (default: 25)")
	fs.IntVar(&c.brk, "break", 0, "break minutes (default: 5)")
	return cmd
}

func (c *serveCommand) run(cmd *cobra.Command, args []string) error {
	st, err := c.a.settings(engine.ActionTasks, config.Config{
		Engine: c.flags.layer(cmd, args),
		Timer: config.TimerConfig{
			WorkMinutes:  changed(cmd, "work", c.work),
			BreakMinutes: changed(cmd, "break", c.brk),
		},
		Theme: config.ThemeConfig{Settings: changed(cmd, "theme-settings", c.themeSettings)},
		UI: config.UIConfig{
			Addr:             changed(cmd, "addr", c.addr),
			HighlightDelayMS: changed(cmd, "highlight-delay", c.highlightDelay),
		},
	})
	if err != nil {
		return err
	}
	o, err := c.a.engineOptions(st, engine.ActionTasks)
	if err != nil {
		return err
	}
	lg := c.a.logger()

	timerCfg := st.Timer.PomodoroConfig()
	timerCfg.Interval = c.a.tick
	themeOpts := st.Theme.SwitcherOptions()
	themeOpts.Now = c.a.now
	var applier theme.Applier
	if c.applyTheme {
		file, err := settingsFile(st.Theme)
		if err != nil {
			return err
		}
		applier = file
	}
	sess := session.New(session.Config{
		Scan:    o,
		Timer:   timerCfg,
		Theme:   themeOpts,
		Applier: applier,
		Notifier: pomodoro.NotifierFuncs{OnMessage: func(m string) {
			lg.Info("Timer", zap.String("message", m))
		}},
		Logger: lg,
	})
	defer func() { _ = sess.Close() }()

	ctx := cmd.Context()
	counts, err := sess.Rescan(ctx)
	if err != nil {
		return errors.Wrap(err, "initial scan")
	}
	lg.Info("Tasks loaded", zap.Int("open", counts.Open), zap.Int("done", counts.Done))
	if c.watch {
		if err := sess.Watch(c.debounce); err != nil {
			return err
		}
	}
	sess.StartTheme()

	ln, err := net.Listen("tcp", st.UI.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", st.UI.Addr)
	}
	url := "http://" + ln.Addr().String() + "/"
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "devdeck panel: %s\n", url); err != nil {
		_ = ln.Close()
		return err
	}
	if c.open && c.a.openURL != nil {
		if err := c.a.openURL(url); err != nil {
			lg.Warn("Open browser", zap.Error(err))
		}
	}
	srv := web.New(sess, web.Options{
		HighlightDelay: st.UI.HighlightDelay(),
		Logger:         lg.Named("web"),
	})
	return srv.Serve(ctx, ln)
}
