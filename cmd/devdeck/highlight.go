package main

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/phyten/devdeck/internal/comments"
	"github.com/phyten/devdeck/internal/config"
	"github.com/phyten/devdeck/internal/engine"
	"github.com/phyten/devdeck/internal/highlight"
)

type highlightCommand struct {
	a         *app
	scope     string
	color     string
	openMark  string
	closeMark string
}

func newHighlightCommand(a *app) *cobra.Command {
	c := &highlightCommand{a: a}
	cmd := &cobra.Command{
		Use:   "highlight [file|-]",
		Short: "Print a text with its comments highlighted",
		Long: "Print a file (or stdin) with every comment styled. Without colors the\n" +
			"comments are wrapped in markers instead.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, args)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&c.scope, "scope", "s", "both", "comment scope: single|multi|both")
	fs.StringVar(&c.color, "color", "auto", "colorize output: auto|always|never")
	fs.StringVar(&c.openMark, "open", highlight.DefaultOpen, "marker before a comment when colors are off")
	fs.StringVar(&c.closeMark, "close", highlight.DefaultClose, "marker after a comment when colors are off")
	return cmd
}

func (c *highlightCommand) run(cmd *cobra.Command, args []string) error {
	st, err := c.a.settings(engine.ActionFind, config.Config{Engine: config.EngineConfig{
		Scope: changed(cmd, "scope", c.scope),
		Color: changed(cmd, "color", c.color),
	}})
	if err != nil {
		return err
	}
	scope, err := comments.ParseScope(st.Engine.Scope)
	if err != nil {
		return err
	}
	var name string
	if len(args) == 1 {
		name = args[0]
	}
	_, text, err := c.a.readInput(cmd.InOrStdin(), name)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	color, err := c.a.colorOutput(st.Engine.Color, out)
	if err != nil {
		return err
	}
	if !color.Enabled && c.openMark == "" && c.closeMark == "" {
		return errors.New("--open and --close cannot both be empty")
	}
	rendered := highlight.Render(text, comments.FindSpans(text, scope), highlight.Options{
		Color:   color.Enabled,
		Scheme:  color.Scheme,
		Profile: color.Profile,
		Open:    c.openMark,
		Close:   c.closeMark,
	})
	_, err = fmt.Fprint(out, rendered)
	return err
}
