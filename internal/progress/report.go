package progress

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/phyten/devdeck/internal/termcolor"
	"github.com/phyten/devdeck/internal/textutil"
)

// Observer receives snapshots while a scan runs and once when it ends.
type Observer interface {
	Publish(Snapshot)
	Done(Snapshot)
}

// Discard ignores every snapshot.
type Discard struct{}

func (Discard) Publish(Snapshot) {}
func (Discard) Done(Snapshot)    {}

// ObserverFunc adapts a function to Observer. Done is ignored.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) Publish(s Snapshot) { f(s) }
func (ObserverFunc) Done(Snapshot)        {}

// Enabled decides whether to report progress on w: never when disabled,
// always when forced, otherwise only on a terminal.
func Enabled(force, disable bool, w io.Writer) bool {
	switch {
	case disable:
		return false
	case force:
		return true
	}
	return termcolor.IsTerminal(w)
}

// For picks a rewriting status line when w is a terminal and a structured
// log entry per snapshot otherwise.
func For(w io.Writer, lg *zap.Logger) Observer {
	if termcolor.IsTerminal(w) {
		return &Line{w: w}
	}
	return &Log{lg: lg}
}

// Line keeps a single status line up to date on a terminal.
type Line struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLine writes status lines to w.
func NewLine(w io.Writer) *Line { return &Line{w: w} }

// currentWidth bounds the file name shown after the counters.
const currentWidth = 40

func (l *Line) Publish(s Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "\r\x1b[K%s", Render(s))
}

func (l *Line) Done(Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.w, "\r\x1b[K")
}

// Render formats s as "collect 3/10 30% eta 00:00:07 src/a.c".
func Render(s Snapshot) string {
	out := fmt.Sprintf("%s %d/%d %3d%% eta %s", s.Stage, s.Done, s.Total, s.Percent(), clock(s))
	if s.Current != "" {
		out += " " + textutil.TruncateByWidth(s.Current, currentWidth, textutil.Ellipsis)
	}
	return out
}

func clock(s Snapshot) string {
	if s.Warmup || s.ETA <= 0 {
		return "--:--:--"
	}
	secs := int(s.ETA.Round(1e9).Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", min(secs/3600, 99), secs%3600/60, secs%60)
}

// Log writes one debug entry per snapshot and an info entry at the end.
type Log struct {
	lg *zap.Logger
}

// NewLog reports to lg; nil discards.
func NewLog(lg *zap.Logger) *Log { return &Log{lg: lg} }

func fields(s Snapshot) []zap.Field {
	return []zap.Field{
		zap.String("stage", string(s.Stage)),
		zap.Int("done", s.Done),
		zap.Int("total", s.Total),
		zap.Float64("rate", s.Rate),
		zap.Duration("eta", s.ETA),
	}
}

func (l *Log) Publish(s Snapshot) {
	if l.lg == nil {
		return
	}
	l.lg.Debug("Scan progress", append(fields(s), zap.String("current", s.Current))...)
}

func (l *Log) Done(s Snapshot) {
	if l.lg == nil {
		return
	}
	l.lg.Info("Scan finished", append(fields(s), zap.Duration("elapsed", s.Elapsed))...)
}
