// Package theme picks an editor color theme from the hour of day and keeps
// it applied while a Switcher runs.
package theme

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/phyten/devdeck/internal/applog"
)

const DefaultInterval = 10 * time.Second

// Palette names the theme for each part of the day.
type Palette struct {
	Day   string `json:"day"`
	Night string `json:"night"`
	Late  string `json:"late"`
}

func DefaultPalette() Palette {
	return Palette{Day: "Quiet Light", Night: "Abyss", Late: "Red"}
}

func (p Palette) withDefaults() Palette {
	def := DefaultPalette()
	if p.Day == "" {
		p.Day = def.Day
	}
	if p.Night == "" {
		p.Night = def.Night
	}
	if p.Late == "" {
		p.Late = def.Late
	}
	return p
}

// ForHour maps an hour (0-23) to a theme: 02-04 late, 07-19 day, otherwise
// night. Lower bounds are inclusive, upper bounds exclusive.
func ForHour(hour int, p Palette) string {
	p = p.withDefaults()
	switch {
	case hour >= 2 && hour < 4:
		return p.Late
	case hour >= 7 && hour < 19:
		return p.Day
	default:
		return p.Night
	}
}

// Applier makes a theme active somewhere (a settings file, a terminal).
type Applier interface {
	Apply(ctx context.Context, name string) error
}

// ApplierFunc adapts a function to Applier.
type ApplierFunc func(ctx context.Context, name string) error

func (f ApplierFunc) Apply(ctx context.Context, name string) error {
	return f(ctx, name)
}

// Switcher re-evaluates the theme on an interval and applies it on change.
type Switcher struct {
	palette  Palette
	interval time.Duration
	applier  Applier
	now      func() time.Time
	lg       *zap.Logger

	mu      sync.Mutex
	current string
}

// Options configures a Switcher. Zero values select defaults.
type Options struct {
	Palette  Palette
	Interval time.Duration
	Now      func() time.Time
	Logger   *zap.Logger
}

func NewSwitcher(applier Applier, opts Options) *Switcher {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Switcher{
		palette:  opts.Palette.withDefaults(),
		interval: opts.Interval,
		applier:  applier,
		now:      opts.Now,
		lg:       applog.OrNop(opts.Logger),
	}
}

// Current returns the last theme applied successfully.
func (s *Switcher) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Tick applies the theme for the current hour if it differs from the last
// applied one. A failed apply is retried on the next tick.
func (s *Switcher) Tick(ctx context.Context) (string, bool, error) {
	want := ForHour(s.now().Hour(), s.palette)
	s.mu.Lock()
	same := want == s.current
	s.mu.Unlock()
	if same {
		return want, false, nil
	}
	if err := s.applier.Apply(ctx, want); err != nil {
		return want, false, err
	}
	s.mu.Lock()
	s.current = want
	s.mu.Unlock()
	return want, true, nil
}

// Run ticks immediately and then every interval until ctx is done.
func (s *Switcher) Run(ctx context.Context) error {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		name, changed, err := s.Tick(ctx)
		switch {
		case err != nil:
			s.lg.Warn("Apply theme", zap.String("theme", name), zap.Error(err))
		case changed:
			s.lg.Info("Theme applied", zap.String("theme", name))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}
