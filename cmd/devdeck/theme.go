package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phyten/devdeck/internal/config"
	"github.com/phyten/devdeck/internal/engine"
	"github.com/phyten/devdeck/internal/theme"
)

// themeFlags are shared by the theme subcommands.
type themeFlags struct {
	settings string
	day      string
	night    string
	late     string
}

func (f *themeFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.settings, "settings", "", "settings.json to edit (default: the VS Code user settings)")
	fs.StringVar(&f.day, "day", "", "theme from 07:00 to 19:00")
	fs.StringVar(&f.night, "night", "", "theme outside day and late hours")
	fs.StringVar(&f.late, "late", "", "theme from 02:00 to 04:00")
}

func (f *themeFlags) layer(cmd *cobra.Command) config.ThemeConfig {
	return config.ThemeConfig{
		Settings: changed(cmd, "settings", f.settings),
		Day:      changed(cmd, "day", f.day),
		Night:    changed(cmd, "night", f.night),
		Late:     changed(cmd, "late", f.late),
	}
}

func newThemeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Pick the editor color theme by time of day",
	}
	cmd.AddCommand(newThemeNowCommand(a), newThemeWatchCommand(a))
	return cmd
}

func newThemeNowCommand(a *app) *cobra.Command {
	var (
		flags themeFlags
		apply bool
	)
	cmd := &cobra.Command{
		Use:   "now",
		Short: "Print the theme for the current hour",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.settings(engine.ActionTasks, config.Config{Theme: flags.layer(cmd)})
			if err != nil {
				return err
			}
			opts := st.Theme.SwitcherOptions()
			name := theme.ForHour(a.now().Hour(), opts.Palette)
			if apply {
				file, err := settingsFile(st.Theme)
				if err != nil {
					return err
				}
				if err := file.Apply(cmd.Context(), name); err != nil {
					return err
				}
				a.logger().Info("Theme applied", zap.String("theme", name), zap.String("file", file.Path))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), name)
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&apply, "apply", false, "write the theme to the settings file")
	return cmd
}

func newThemeWatchCommand(a *app) *cobra.Command {
	var (
		flags    themeFlags
		interval int
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the settings file on the theme for the current hour until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			layer := flags.layer(cmd)
			layer.IntervalSeconds = changed(cmd, "interval", interval)
			st, err := a.settings(engine.ActionTasks, config.Config{Theme: layer})
			if err != nil {
				return err
			}
			file, err := settingsFile(st.Theme)
			if err != nil {
				return err
			}
			opts := st.Theme.SwitcherOptions()
			opts.Now = a.now
			opts.Logger = a.logger().Named("theme")
			a.logger().Info("Switching themes", zap.String("file", file.Path), zap.Duration("interval", opts.Interval))
			return theme.NewSwitcher(file, opts).Run(cmd.Context())
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&interval, "interval", 0, "seconds between checks (default: 10)")
	return cmd
}

func settingsFile(st config.ThemeSettings) (theme.SettingsFile, error) {
	path := st.Settings
	if path == "" {
		p, err := theme.DefaultSettingsPath()
		if err != nil {
			return theme.SettingsFile{}, err
		}
		path = p
	}
	return theme.SettingsFile{Path: path}, nil
}
