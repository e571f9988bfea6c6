package web

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/require"

	"github.com/phyten/devdeck/internal/session"
)

func newScriptVM(t *testing.T) *goja.Runtime {
	t.Helper()
	vm := goja.New()
	_, err := vm.RunString(ScriptSource())
	require.NoError(t, err)
	return vm
}

func evalString(t *testing.T, vm *goja.Runtime, src string) string {
	t.Helper()
	v, err := vm.RunString(src)
	require.NoError(t, err, src)
	return v.String()
}

func TestUIScriptはDOMなしで読み込める(t *testing.T) {
	vm := newScriptVM(t)
	require.Equal(t, "object", evalString(t, vm, "typeof DevDeck"))
}

func TestUIEscはHTML特殊文字をエスケープする(t *testing.T) {
	vm := newScriptVM(t)
	require.Equal(t, "&lt;a href=&#39;x&#39; title=&quot;t&quot;&gt;&amp;&lt;/a&gt;",
		evalString(t, vm, `DevDeck.esc("<a href='x' title=\"t\">&</a>")`))
	require.Equal(t, "", evalString(t, vm, "DevDeck.esc(null)"))
}

func TestUIFormatClock(t *testing.T) {
	vm := newScriptVM(t)
	cases := map[string]string{
		"1500": "25:00",
		"65":   "1:05",
		"-3":   "0:00",
		"'x'":  "0:00",
	}
	for in, want := range cases {
		require.Equal(t, want, evalString(t, vm, "DevDeck.formatClock("+in+")"), in)
	}
	require.Equal(t, "2 open / 1 done", evalString(t, vm, "DevDeck.countsLabel({total: 3, open: 2, done: 1})"))
}

func TestUIRenderTasksはタスクをエスケープして描画する(t *testing.T) {
	vm := newScriptVM(t)
	require.Equal(t, `<p class="muted">No tasks.</p>`, evalString(t, vm, "DevDeck.renderTasks([])"))

	got := evalString(t, vm, `DevDeck.renderTasks([
		{file: 'dir/<a>&.go', line: 4, tag: 'TODO', text: '<img src=x onerror=alert(1)>', completed: false},
		{file: 'b.go', line: 0, tag: 'CHECK', text: 'ok', completed: true}
	])`)
	require.Contains(t, got, `<div class="task open">`)
	require.Contains(t, got, `<div class="task done">`)
	require.Contains(t, got, `data-file="dir/&lt;a&gt;&amp;.go" data-line="4">`)
	require.Contains(t, got, `data-line="0" checked>`)
	require.Contains(t, got, "&lt;img src=x onerror=alert(1)&gt;")
	require.NotContains(t, got, "<img")
	require.Contains(t, got, `<span class="location">dir/&lt;a&gt;&amp;.go:5</span>`)
}

func TestUIMarkRegionsはサーバの範囲でマークする(t *testing.T) {
	srv, _ := newTestServer(t, t.TempDir(), session.Config{})
	text := "😀 x // hi <b>\n/* é */ y"
	rr := do(t, srv.Handler(), http.MethodPost, "/api/comments/spans", commentRequest{Text: text})
	require.Equal(t, http.StatusOK, rr.Code)

	vm := newScriptVM(t)
	literal, err := json.Marshal(text)
	require.NoError(t, err)
	_, err = vm.RunString("var resp = " + rr.Body.String() + "; var text = " + string(literal) + ";")
	require.NoError(t, err)

	got := evalString(t, vm, "DevDeck.markRegions(text, resp.regions)")
	want := "😀 x <mark class=\"line\">// hi &lt;b&gt;</mark>\n<mark class=\"block\">/* é */</mark> y"
	require.Equal(t, want, got)
	require.Equal(t, "a&lt;", evalString(t, vm, "DevDeck.markRegions('a<', [])"))
}
