// Package session owns the mutable state of one running devdeck instance:
// the task board, the countdown timer and the theme switcher. Nothing here is
// process-global; Close stops every background loop the session started.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/phyten/devdeck/internal/applog"
	"github.com/phyten/devdeck/internal/engine"
	"github.com/phyten/devdeck/internal/pomodoro"
	"github.com/phyten/devdeck/internal/tasks"
	"github.com/phyten/devdeck/internal/theme"
	"github.com/phyten/devdeck/internal/watcher"
)

const maxMessages = 32

// Config wires a Session.
type Config struct {
	// Scan is used by Rescan; Action is forced to ActionTasks.
	Scan  engine.Options
	Timer pomodoro.Config
	Theme theme.Options
	// Applier enables the theme switcher when non-nil.
	Applier theme.Applier
	// Notifier additionally receives timer updates, e.g. for terminal output.
	Notifier pomodoro.Notifier
	Logger   *zap.Logger
}

// Message is a user-facing notification raised by the timer.
type Message struct {
	ID   int       `json:"id"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

type Session struct {
	lg       *zap.Logger
	scan     engine.Options
	board    *tasks.Board
	timer    *pomodoro.Timer
	switcher *theme.Switcher
	extra    pomodoro.Notifier

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	messages []Message
	nextID   int
	scanned  time.Time
	closed   bool
}

func New(cfg Config) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		lg:     applog.OrNop(cfg.Logger),
		scan:   cfg.Scan,
		board:  tasks.NewBoard(),
		extra:  cfg.Notifier,
		ctx:    ctx,
		cancel: cancel,
		nextID: 1,
	}
	s.scan.Action = engine.ActionTasks
	s.timer = pomodoro.New(cfg.Timer, s)
	if cfg.Applier != nil {
		opts := cfg.Theme
		opts.Logger = s.lg.Named("theme")
		s.switcher = theme.NewSwitcher(cfg.Applier, opts)
	}
	return s
}

func (s *Session) Board() *tasks.Board       { return s.board }
func (s *Session) Timer() *pomodoro.Timer    { return s.timer }
func (s *Session) Switcher() *theme.Switcher { return s.switcher }

// Status implements pomodoro.Notifier.
func (s *Session) Status(st pomodoro.Status) {
	if s.extra != nil {
		s.extra.Status(st)
	}
}

// Message implements pomodoro.Notifier.
func (s *Session) Message(text string) {
	s.mu.Lock()
	s.messages = append(s.messages, Message{ID: s.nextID, Text: text, At: time.Now()})
	s.nextID++
	if len(s.messages) > maxMessages {
		s.messages = append([]Message(nil), s.messages[len(s.messages)-maxMessages:]...)
	}
	s.mu.Unlock()
	s.lg.Info("Timer", zap.String("message", text))
	if s.extra != nil {
		s.extra.Message(text)
	}
}

// Messages returns notifications with an ID greater than after.
func (s *Session) Messages(after int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Message{}
	for _, m := range s.messages {
		if m.ID > after {
			out = append(out, m)
		}
	}
	return out
}

// StartTimer starts a phase bound to the session lifetime.
func (s *Session) StartTimer(phase pomodoro.Phase) pomodoro.Status {
	s.timer.Start(s.ctx, phase)
	return s.timer.Snapshot()
}

// StopTimer stops the countdown and clears it.
func (s *Session) StopTimer() pomodoro.Status {
	s.timer.Stop()
	return s.timer.Snapshot()
}

// Rescan runs the task scan over the configured paths and replaces the board.
func (s *Session) Rescan(ctx context.Context) (tasks.Counts, error) {
	res, err := engine.Run(ctx, s.ScanOptions())
	if err != nil {
		return tasks.Counts{}, errors.Wrap(err, "scan tasks")
	}
	for _, e := range res.Errors {
		s.lg.Debug("Skip file", zap.String("file", e.File), zap.String("stage", e.Stage), zap.String("reason", e.Message))
	}
	s.board.Replace(res.Tasks())
	s.mu.Lock()
	s.scanned = time.Now()
	s.mu.Unlock()
	counts := s.board.Counts()
	s.lg.Debug("Tasks scanned", zap.Int("files", res.FileCount), zap.Int("tasks", counts.Total))
	return counts, nil
}

// ScanOptions returns a copy of the options used by Rescan.
func (s *Session) ScanOptions() engine.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scan
}

// SetScanOptions replaces the options used by Rescan.
func (s *Session) SetScanOptions(o engine.Options) {
	o.Action = engine.ActionTasks
	s.mu.Lock()
	s.scan = o
	s.mu.Unlock()
}

// LastScan reports when Rescan last succeeded.
func (s *Session) LastScan() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scanned
}

// StartTheme runs the theme switcher in the background. It is a no-op when
// no applier was configured.
func (s *Session) StartTheme() {
	if s.switcher == nil {
		return
	}
	s.goLoop(func(ctx context.Context) {
		_ = s.switcher.Run(ctx)
	})
}

// Watch rescans the board whenever a source file under the scan roots changes.
func (s *Session) Watch(debounce time.Duration) error {
	scan := s.ScanOptions()
	roots := watcher.Roots(scan.RepoDir, scan.Paths)
	w, err := watcher.New(watcher.Config{
		Roots:    roots,
		Debounce: debounce,
		Filter:   watcher.SourceFile,
		Logger:   s.lg.Named("watch"),
	})
	if err != nil {
		return err
	}
	s.goLoop(func(ctx context.Context) {
		_ = w.Run(ctx)
	})
	s.goLoop(func(ctx context.Context) {
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.Changes():
				if _, err := s.Rescan(ctx); err != nil && ctx.Err() == nil {
					s.lg.Warn("Rescan failed", zap.Error(err))
				}
			}
		}
	})
	s.lg.Info("Watching", zap.Strings("roots", roots), zap.Int("dirs", w.Watched()))
	return nil
}

// Close stops the timer and every background loop, and waits for them.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.timer.Stop()
	s.cancel()
	s.wg.Wait()
	return nil
}

func (s *Session) goLoop(fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
}
