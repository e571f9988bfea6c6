// Package pomodoro implements the work/break countdown shown in the status
// line. A Timer belongs to whoever starts it; Stop cancels the running
// countdown and clears its state.
package pomodoro

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	DefaultWork  = 25 * time.Minute
	DefaultBreak = 5 * time.Minute

	MessageWorkDone  = "Time is up! Time for a break."
	MessageBreakDone = "Break is over! Time to get back to work."
)

// Phase is the kind of countdown.
type Phase int

const (
	PhaseWork Phase = iota
	PhaseBreak
)

func (p Phase) String() string {
	if p == PhaseBreak {
		return "break"
	}
	return "work"
}

// ParsePhase accepts "work" (or "pomodoro") and "break".
func ParsePhase(v string) (Phase, error) {
	switch v {
	case "work", "pomodoro":
		return PhaseWork, nil
	case "break":
		return PhaseBreak, nil
	default:
		return PhaseWork, fmt.Errorf("unknown phase: %q", v)
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Status is a snapshot of the countdown.
type Status struct {
	Phase     Phase         `json:"phase"`
	Remaining time.Duration `json:"-"`
	Running   bool          `json:"running"`
	Seconds   int           `json:"remaining_seconds"`
	Clock     string        `json:"clock"`
}

func newStatus(phase Phase, remaining time.Duration, running bool) Status {
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		Phase:     phase,
		Remaining: remaining,
		Running:   running,
		Seconds:   int(remaining / time.Second),
		Clock:     FormatClock(remaining),
	}
}

// Label renders the status line text.
func (s Status) Label() string {
	return "Timer: " + FormatClock(s.Remaining)
}

// FormatClock renders d as M:SS, truncating to whole seconds.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Notifier receives status updates and user-facing messages. Calls come from
// the timer goroutine and must not block for long.
type Notifier interface {
	Status(Status)
	Message(string)
}

// NotifierFuncs adapts plain functions to Notifier; nil fields are skipped.
type NotifierFuncs struct {
	OnStatus  func(Status)
	OnMessage func(string)
}

func (n NotifierFuncs) Status(s Status) {
	if n.OnStatus != nil {
		n.OnStatus(s)
	}
}

func (n NotifierFuncs) Message(m string) {
	if n.OnMessage != nil {
		n.OnMessage(m)
	}
}

// Ticker is the subset of *time.Ticker the timer needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type stdTicker struct{ t *time.Ticker }

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

// Config controls durations and the tick source. Every tick removes one
// second from the countdown, whatever Interval is.
type Config struct {
	Work      time.Duration
	Break     time.Duration
	Interval  time.Duration
	NewTicker func(time.Duration) Ticker
}

func (c Config) withDefaults() Config {
	if c.Work <= 0 {
		c.Work = DefaultWork
	}
	if c.Break <= 0 {
		c.Break = DefaultBreak
	}
	if c.Interval <= 0 {
		c.Interval = time.Second
	}
	if c.NewTicker == nil {
		c.NewTicker = func(d time.Duration) Ticker { return stdTicker{t: time.NewTicker(d)} }
	}
	return c
}

func (c Config) duration(p Phase) time.Duration {
	if p == PhaseBreak {
		return c.Break
	}
	return c.Work
}

// Timer is a restartable countdown.
type Timer struct {
	cfg    Config
	notify Notifier

	runMu sync.Mutex // serialises Start/Stop

	mu     sync.Mutex
	status Status
	cancel context.CancelFunc
	done   chan struct{}
}

func New(cfg Config, n Notifier) *Timer {
	if n == nil {
		n = NotifierFuncs{}
	}
	cfg = cfg.withDefaults()
	return &Timer{cfg: cfg, notify: n, status: newStatus(PhaseWork, cfg.Work, false)}
}

// Start begins a countdown for phase, cancelling any countdown in progress.
func (t *Timer) Start(ctx context.Context, phase Phase) {
	t.runMu.Lock()
	defer t.runMu.Unlock()
	t.stopLocked(false)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	st := newStatus(phase, t.cfg.duration(phase), true)

	t.mu.Lock()
	t.status = st
	t.cancel = cancel
	t.done = done
	t.mu.Unlock()

	t.notify.Status(st)
	go t.run(runCtx, t.cfg.NewTicker(t.cfg.Interval), done)
}

// Stop cancels the countdown, waits for it to exit and clears the status.
func (t *Timer) Stop() {
	t.runMu.Lock()
	defer t.runMu.Unlock()
	t.stopLocked(true)
}

func (t *Timer) stopLocked(clear bool) {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
	if !clear {
		return
	}
	t.mu.Lock()
	t.status = newStatus(t.status.Phase, 0, false)
	st := t.status
	t.mu.Unlock()
	t.notify.Status(st)
}

// Snapshot returns the current status.
func (t *Timer) Snapshot() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Done is closed when the current countdown ends, either by expiry or by
// cancellation. With no countdown it returns a closed channel.
func (t *Timer) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return t.done
}

func (t *Timer) run(ctx context.Context, tk Ticker, done chan struct{}) {
	defer close(done)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C():
			if !t.step() {
				return
			}
		}
	}
}

// step advances the countdown by one second and reports whether it keeps
// running.
func (t *Timer) step() bool {
	t.mu.Lock()
	phase := t.status.Phase
	remaining := t.status.Remaining - time.Second
	if remaining > 0 {
		t.status = newStatus(phase, remaining, true)
		st := t.status
		t.mu.Unlock()
		t.notify.Status(st)
		return true
	}
	expired := newStatus(phase, 0, false)
	var next Status
	var msg string
	if phase == PhaseWork {
		// The break is armed but not started, matching the status line the
		// user sees after a work session.
		next = newStatus(PhaseBreak, t.cfg.Break, false)
		msg = MessageWorkDone
	} else {
		next = expired
		msg = MessageBreakDone
	}
	t.status = next
	t.mu.Unlock()

	t.notify.Status(expired)
	t.notify.Message(msg)
	if next != expired {
		t.notify.Status(next)
	}
	return false
}
