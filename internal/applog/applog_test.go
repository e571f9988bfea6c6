package applog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf, false)
	lg.Debug("hidden")
	lg.Info("shown", zap.String("addr", "127.0.0.1:7788"))
	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "INFO")
	require.Contains(t, out, "shown")
	require.Contains(t, out, `"addr": "127.0.0.1:7788"`)

	buf.Reset()
	New(&buf, true).Debug("visible")
	require.Contains(t, buf.String(), "visible")
}

func TestOrNop(t *testing.T) {
	require.NotNil(t, OrNop(nil))
	lg := zap.NewExample()
	require.Same(t, lg, OrNop(lg))
}
