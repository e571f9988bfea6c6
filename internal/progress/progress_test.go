package progress

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMeterCountsConcurrentTicks(t *testing.T) {
	const files = 64
	m := NewMeter()
	m.Interval = time.Nanosecond
	m.Begin(StageProcess, files)

	var wg sync.WaitGroup
	seen := make(chan int, files)
	for range files {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, _ := m.Tick("x.c")
			seen <- snap.Done
		}()
	}
	wg.Wait()
	close(seen)

	counts := map[int]bool{}
	for n := range seen {
		require.False(t, counts[n], "duplicate count %d", n)
		counts[n] = true
	}
	require.Len(t, counts, files)
	require.Equal(t, 0, m.Finish().Remaining())
}

func TestMeterETAAfterWarmup(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	m := &Meter{Interval: time.Hour, Warmup: 2, Now: clk.now}
	m.Begin(StageProcess, 10)

	clk.advance(time.Second)
	snap, publish := m.Tick("a.c")
	require.True(t, snap.Warmup)
	require.Zero(t, snap.ETA)
	require.Equal(t, "a.c", snap.Current)
	require.False(t, publish)

	clk.advance(time.Second)
	snap, _ = m.Tick("b.c")
	require.False(t, snap.Warmup)
	require.Equal(t, 8*time.Second, snap.ETA)
	require.Equal(t, 2*time.Second, snap.Elapsed)

	done := m.Finish()
	require.Equal(t, 10, done.Done)
	require.Equal(t, 100, done.Percent())
}

func TestMeterPublishesLastFile(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	m := &Meter{Interval: time.Hour, Now: clk.now}
	m.Begin(StageProcess, 1)
	_, publish := m.Tick("only.c")
	require.True(t, publish)
}

func TestSnapshotPercent(t *testing.T) {
	require.Equal(t, 0, Snapshot{}.Percent())
	require.Equal(t, 100, Snapshot{Done: 3}.Percent())
	require.Equal(t, 100, Snapshot{Done: 5, Total: 4}.Percent())
	require.Equal(t, 25, Snapshot{Done: 1, Total: 4}.Percent())
}

func TestRender(t *testing.T) {
	require.Equal(t, "collect 0/0   0% eta --:--:--", Render(Snapshot{Stage: StageCollect, Warmup: true}))
	s := Snapshot{Stage: StageProcess, Done: 3, Total: 10, ETA: 3723 * time.Second, Current: "src/main.c"}
	require.Equal(t, "process 3/10  30% eta 01:02:03 src/main.c", Render(s))
}

func TestLineRewritesInPlace(t *testing.T) {
	var buf bytes.Buffer
	l := NewLine(&buf)
	l.Publish(Snapshot{Stage: StageProcess, Done: 1, Total: 2, Warmup: true})
	l.Done(Snapshot{})
	require.Equal(t, "\r\x1b[Kprocess 1/2  50% eta --:--:--\r\x1b[K", buf.String())
}

func TestForNonTerminalLogs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	var buf bytes.Buffer
	ob := For(&buf, zap.New(core))
	ob.Publish(Snapshot{Stage: StageProcess, Done: 1, Total: 4, Current: "a.c"})
	ob.Done(Snapshot{Stage: StageProcess, Done: 4, Total: 4})
	require.Empty(t, buf.String())

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "Scan progress", entries[0].Message)
	require.Equal(t, "a.c", entries[0].ContextMap()["current"])
	require.Equal(t, "Scan finished", entries[1].Message)
	require.EqualValues(t, 4, entries[1].ContextMap()["done"])

	require.NotPanics(t, func() { NewLog(nil).Done(Snapshot{}) })
}

func TestEnabled(t *testing.T) {
	var buf bytes.Buffer
	require.False(t, Enabled(true, true, &buf))
	require.True(t, Enabled(true, false, &buf))
	require.False(t, Enabled(false, false, &buf))
}
