package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/phyten/devdeck/internal/config"
	"github.com/phyten/devdeck/internal/engine"
	"github.com/phyten/devdeck/internal/pomodoro"
	"github.com/phyten/devdeck/internal/termcolor"
)

type timerCommand struct {
	a    *app
	work int
	brk  int
}

func newTimerCommand(a *app) *cobra.Command {
	c := &timerCommand{a: a}
	cmd := &cobra.Command{
		Use:       "timer [work|break]",
		Short:     "Run one focus or break countdown in the terminal",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"work", "break"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, args)
		},
	}
	cmd.Flags().IntVar(&c.work, "work", 0, "work minutes (default: 25)")
	cmd.Flags().IntVar(&c.brk, "break", 0, "break minutes (default: 5)")
	return cmd
}

func (c *timerCommand) run(cmd *cobra.Command, args []string) error {
	phase := pomodoro.PhaseWork
	if len(args) == 1 {
		p, err := pomodoro.ParsePhase(args[0])
		if err != nil {
			return err
		}
		phase = p
	}
	st, err := c.a.settings(engine.ActionTasks, config.Config{Timer: config.TimerConfig{
		WorkMinutes:  changed(cmd, "work", c.work),
		BreakMinutes: changed(cmd, "break", c.brk),
	}})
	if err != nil {
		return err
	}
	cfg := st.Timer.PomodoroConfig()
	cfg.Interval = c.a.tick

	out := cmd.OutOrStdout()
	tty := termcolor.IsTerminal(out)
	var mu sync.Mutex
	notifier := pomodoro.NotifierFuncs{
		OnStatus: func(s pomodoro.Status) {
			mu.Lock()
			defer mu.Unlock()
			switch {
			case tty:
				_, _ = fmt.Fprintf(out, "\r%s %s ", s.Label(), s.Phase)
			case s.Running && s.Seconds%60 == 0:
				_, _ = fmt.Fprintln(out, s.Label())
			}
		},
		OnMessage: func(m string) {
			mu.Lock()
			defer mu.Unlock()
			if tty {
				_, _ = fmt.Fprintln(out)
			}
			_, _ = fmt.Fprintln(out, m)
		},
	}
	timer := pomodoro.New(cfg, notifier)
	ctx := cmd.Context()
	timer.Start(ctx, phase)
	<-timer.Done()
	if ctx.Err() != nil {
		mu.Lock()
		defer mu.Unlock()
		_, _ = fmt.Fprintln(out, "\nstopped")
	}
	return nil
}
