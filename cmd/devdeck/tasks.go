package main

import (
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phyten/devdeck/internal/config"
	"github.com/phyten/devdeck/internal/engine"
	"github.com/phyten/devdeck/internal/gitremote"
	"github.com/phyten/devdeck/internal/output"
	"github.com/phyten/devdeck/internal/termcolor"
	"github.com/phyten/devdeck/internal/watcher"
)

type tasksCommand struct {
	a        *app
	flags    engineFlags
	fields   string
	sort     string
	width    int
	remote   string
	watch    bool
	debounce time.Duration
}

func newTasksCommand(a *app) *cobra.Command {
	c := &tasksCommand{a: a}
	cmd := &cobra.Command{
		Use:   "tasks [paths...]",
		Short: "List TODO, FIXME and checkbox comments",
		Long: "List task comments: // TODO ..., // FIXME ... and // - [ ] / // - [x] checkboxes.\n" +
			"Locations are printed as file:line with 1-based lines.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, args)
		},
	}
	c.flags.register(cmd, "output format: table|tsv|json|ndjson|csv|markdown")
	fs := cmd.Flags()
	fs.StringVar(&c.fields, "fields", "", "columns for table, tsv, csv and markdown (default: "+output.DefaultFields+")")
	fs.StringVar(&c.sort, "sort", "", "sort keys, e.g. file,-line (keys: file, line, location, tag, status, text)")
	fs.IntVar(&c.width, "text-width", output.DefaultTextWidth, "truncate the TEXT column of the table to this many cells")
	fs.StringVar(&c.remote, "remote", gitremote.DefaultRemote, "git remote used for the url field")
	fs.BoolVar(&c.watch, "watch", false, "print the list again whenever a source file changes")
	fs.DurationVar(&c.debounce, "debounce", watcher.DefaultDebounce, "wait this long after the last change before rescanning")
	return cmd
}

func (c *tasksCommand) run(cmd *cobra.Command, args []string) error {
	st, err := c.a.settings(engine.ActionTasks, config.Config{
		Engine: c.flags.layer(cmd, args),
		UI:     config.UIConfig{Fields: changed(cmd, "fields", c.fields)},
	})
	if err != nil {
		return err
	}
	sel, err := output.ResolveFields(st.UI.Fields)
	if err != nil {
		return err
	}
	spec, err := output.ParseSortSpec(c.sort)
	if err != nil {
		return err
	}
	o, err := c.a.engineOptions(st, engine.ActionTasks)
	if err != nil {
		return err
	}
	if sel.Has("url") {
		if sel.Link, err = c.linker(cmd, o); err != nil {
			return err
		}
	}
	out := cmd.OutOrStdout()
	color, err := c.a.colorOutput(st.Engine.Color, out)
	if err != nil {
		return err
	}

	list := func(o engine.Options) error {
		res, err := engine.Run(cmd.Context(), o)
		if err != nil {
			return err
		}
		items := res.Tasks()
		output.ApplySort(items, spec)
		if err := output.WriteTasks(out, st.Engine.Output, items, sel, output.TableOptions{
			Color:     color,
			TextWidth: c.width,
		}); err != nil {
			return err
		}
		return reportErrors(cmd.ErrOrStderr(), res)
	}

	if !c.watch {
		c.a.withProgress(&o, &c.flags, cmd.ErrOrStderr())
		return list(o)
	}
	if err := list(o); err != nil {
		c.a.logger().Warn("List failed", zap.Error(err))
	}
	return c.watchLoop(cmd, o, color, list)
}

// linker builds blob links at the current HEAD of the repository.
func (c *tasksCommand) linker(cmd *cobra.Command, o engine.Options) (func(string, int) string, error) {
	ctx := cmd.Context()
	info, err := gitremote.Detect(ctx, o.Runner, o.RepoDir, c.remote)
	if err != nil {
		return nil, errors.Wrap(err, "url field")
	}
	head, err := gitremote.Head(ctx, o.Runner, o.RepoDir)
	if err != nil {
		return nil, errors.Wrap(err, "url field")
	}
	return func(file string, line int) string {
		return info.Blob(head, file, line)
	}, nil
}

func (c *tasksCommand) watchLoop(cmd *cobra.Command, o engine.Options, color termcolor.Output, list func(engine.Options) error) error {
	lg := c.a.logger()
	w, err := watcher.New(watcher.Config{
		Roots:    watcher.Roots(o.RepoDir, o.Paths),
		Debounce: c.debounce,
		Filter:   watcher.SourceFile,
		Logger:   lg.Named("watch"),
	})
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()
	lg.Info("Watching", zap.Int("dirs", w.Watched()))

	out := cmd.OutOrStdout()
	for {
		select {
		case <-ctx.Done():
			return <-errc
		case <-w.Changes():
			header := fmt.Sprintf("-- rescanned at %s --", c.a.now().Format("15:04:05"))
			if _, err := fmt.Fprintf(out, "\n%s\n", termcolor.Apply(termcolor.HeaderStyle(), header, color.Enabled)); err != nil {
				return err
			}
			if err := list(o); err != nil {
				lg.Warn("List failed", zap.Error(err))
			}
		}
	}
}
