package main

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phyten/devdeck/internal/config"
	"github.com/phyten/devdeck/internal/engine"
)

func newConfigCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the merged configuration as YAML",
		Long: "Print the settings after applying defaults, the config file and DEVDECK_*\n" +
			"environment variables. The first line names the config file, if any.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, src, err := a.resolve(engine.ActionTasks, config.Config{})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if src.File != "" {
				_, err = fmt.Fprintf(out, "# %s (%s)\n", src.File, src.Where)
			} else {
				_, err = fmt.Fprintln(out, "# no config file")
			}
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(st); err != nil {
				return errors.Wrap(err, "encode settings")
			}
			return enc.Close()
		},
	}
}
