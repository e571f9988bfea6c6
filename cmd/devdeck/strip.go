package main

import (
	"fmt"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phyten/devdeck/internal/comments"
	"github.com/phyten/devdeck/internal/config"
	"github.com/phyten/devdeck/internal/engine"
	"github.com/phyten/devdeck/internal/output"
	"github.com/phyten/devdeck/internal/textdiff"
)

type stripCommand struct {
	a     *app
	flags engineFlags
	write bool
	diff  bool
}

func newStripCommand(a *app) *cobra.Command {
	c := &stripCommand{a: a}
	cmd := &cobra.Command{
		Use:   "strip [paths...]",
		Short: "Remove // and /* */ comments",
		Long: "Remove // and /* */ comments from source files.\n\n" +
			"With no paths (or \"-\") the text is read from stdin and the stripped text is\n" +
			"written to stdout. With paths nothing is modified unless --write is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, args)
		},
	}
	c.flags.register(cmd, "")
	cmd.Flags().BoolVarP(&c.write, "write", "w", false, "rewrite files in place")
	cmd.Flags().BoolVar(&c.diff, "diff", false, "print a unified diff of the changes")
	return cmd
}

func (c *stripCommand) run(cmd *cobra.Command, args []string) error {
	stdin := (len(args) == 0 && !cmd.Flags().Changed("path")) || (len(args) == 1 && args[0] == "-")
	if stdin {
		args = nil
	}
	st, err := c.a.settings(engine.ActionStrip, config.Config{Engine: c.flags.layer(cmd, args)})
	if err != nil {
		return err
	}
	color, err := c.a.colorOutput(st.Engine.Color, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if stdin {
		if c.write {
			return errors.New("--write needs file paths")
		}
		return c.runStdin(cmd, st, color.Enabled)
	}

	o, err := c.a.engineOptions(st, engine.ActionStrip)
	if err != nil {
		return err
	}
	o.Write = c.write
	o.KeepText = c.diff
	c.a.withProgress(&o, &c.flags, cmd.ErrOrStderr())

	res, err := engine.Run(cmd.Context(), o)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if c.diff {
		for _, f := range res.Files {
			if !f.Changed {
				continue
			}
			d := textdiff.Unified("a/"+f.File, "b/"+f.File, f.Original, f.Stripped, textdiff.DefaultContext)
			if _, err := fmt.Fprint(out, textdiff.Colorize(d, color.Enabled)); err != nil {
				return err
			}
		}
	} else if err := writeStripSummary(cmd, res, color.Enabled); err != nil {
		return err
	}
	c.a.logger().Debug("Strip finished",
		zap.Int("files", res.FileCount),
		zap.Int("changed", res.Changed),
		zap.Int("written", res.Written),
		zap.Int64("elapsed_ms", res.ElapsedMS),
	)
	return reportErrors(cmd.ErrOrStderr(), res)
}

func (c *stripCommand) runStdin(cmd *cobra.Command, st config.Settings, color bool) error {
	scope, err := comments.ParseScope(st.Engine.Scope)
	if err != nil {
		return err
	}
	_, text, err := c.a.readInput(cmd.InOrStdin(), "-")
	if err != nil {
		return err
	}
	res := comments.Strip(text, scope)
	out := cmd.OutOrStdout()
	if c.diff {
		d := textdiff.Unified("a/-", "b/-", text, res.Text, textdiff.DefaultContext)
		_, err = fmt.Fprint(out, textdiff.Colorize(d, color))
		return err
	}
	_, err = fmt.Fprint(out, res.Text)
	return err
}

// writeStripSummary lists changed files and a one-line total.
func writeStripSummary(cmd *cobra.Command, res *engine.Result, color bool) error {
	out := cmd.OutOrStdout()
	tbl := output.Table{Headers: []string{"FILE", "LINE", "BLOCK", "BYTES", "STATUS"}}
	for _, f := range res.Files {
		if !f.Changed {
			continue
		}
		status := "would change"
		if f.Written {
			status = "written"
		}
		tbl.Rows = append(tbl.Rows, []string{
			f.File,
			strconv.Itoa(f.Stats.Line),
			strconv.Itoa(f.Stats.Block),
			strconv.Itoa(f.Stats.Removed),
			status,
		})
	}
	if len(tbl.Rows) > 0 {
		if err := tbl.Write(out, color); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(out, "%d file(s) scanned, %d changed, %d written\n", res.FileCount, res.Changed, res.Written)
	if err == nil && res.Changed > res.Written {
		_, err = fmt.Fprintln(cmd.ErrOrStderr(), "dry run: pass --write to apply")
	}
	return err
}
