package main

import (
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/phyten/devdeck/internal/comments"
	"github.com/phyten/devdeck/internal/config"
	"github.com/phyten/devdeck/internal/engine"
	"github.com/phyten/devdeck/internal/output"
)

type spansCommand struct {
	a     *app
	flags engineFlags
}

func newSpansCommand(a *app) *cobra.Command {
	c := &spansCommand{a: a}
	cmd := &cobra.Command{
		Use:   "spans [paths...]",
		Short: "List comment spans with byte offsets and line/column positions",
		Long: "List the // and /* */ comments of the given files (default: the repository).\n" +
			"Pass \"-\" to read a single text from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, args)
		},
	}
	c.flags.register(cmd, "output format: table|json|ndjson")
	return cmd
}

func (c *spansCommand) run(cmd *cobra.Command, args []string) error {
	stdin := len(args) == 1 && args[0] == "-"
	if stdin {
		args = nil
	}
	st, err := c.a.settings(engine.ActionFind, config.Config{Engine: c.flags.layer(cmd, args)})
	if err != nil {
		return err
	}
	switch st.Engine.Output {
	case "table", "json", "ndjson":
	default:
		return errors.Errorf("spans supports table, json and ndjson output, not %s", st.Engine.Output)
	}
	out := cmd.OutOrStdout()
	color, err := c.a.colorOutput(st.Engine.Color, out)
	if err != nil {
		return err
	}

	var res *engine.Result
	if stdin {
		scope, err := comments.ParseScope(st.Engine.Scope)
		if err != nil {
			return err
		}
		name, text, err := c.a.readInput(cmd.InOrStdin(), "-")
		if err != nil {
			return err
		}
		spans := comments.FindSpans(text, scope)
		stats := comments.Count(spans)
		res = &engine.Result{
			Files:     []engine.FileResult{{File: name, Spans: spans, Stats: stats}},
			Totals:    stats,
			FileCount: 1,
		}
	} else {
		o, err := c.a.engineOptions(st, engine.ActionFind)
		if err != nil {
			return err
		}
		c.a.withProgress(&o, &c.flags, cmd.ErrOrStderr())
		if res, err = engine.Run(cmd.Context(), o); err != nil {
			return err
		}
	}
	if err := output.WriteSpans(out, st.Engine.Output, res, color.Enabled); err != nil {
		return err
	}
	return reportErrors(cmd.ErrOrStderr(), res)
}
