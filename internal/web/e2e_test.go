//go:build e2e

package web

import (
	"context"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/phyten/devdeck/internal/session"
)

func TestRenderTasksはHTMLエスケープでXSSを防止する(t *testing.T) {
	if !hasBrowser() {
		t.Skip("Chrome/Chromiumが見つからないためスキップします")
	}

	srv, _ := newTestServer(t, t.TempDir(), session.Config{})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()
	ctx, cancel = context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	const fixture = `[{
		file: 'dir/<file>&.go',
		line: 11,
		tag: 'TODO',
		text: 'hello <img src=x onerror=alert(1)> & <>',
		completed: false
	}]`

	var text, location, html string
	var nodeCount int
	err := chromedp.Run(ctx,
		chromedp.Navigate(ts.URL),
		chromedp.WaitVisible(`#tasks`, chromedp.ByID),
		chromedp.Evaluate(`document.getElementById('tasks').innerHTML = DevDeck.renderTasks(`+fixture+`);`, nil),
		chromedp.Text(`#tasks .task .text`, &text, chromedp.ByQuery),
		chromedp.Text(`#tasks .task .location`, &location, chromedp.ByQuery),
		chromedp.InnerHTML(`#tasks .task .text`, &html, chromedp.ByQuery),
		chromedp.Evaluate(`document.querySelectorAll('#tasks img, #tasks script').length`, &nodeCount),
	)
	if err != nil {
		t.Fatalf("chromedpの操作に失敗しました: %v", err)
	}
	if text != "hello <img src=x onerror=alert(1)> & <>" {
		t.Fatalf("タスク本文が期待値と異なります: %q", text)
	}
	if location != "dir/<file>&.go:12" {
		t.Fatalf("ロケーションが期待値と異なります: %q", location)
	}
	if html != "hello &lt;img src=x onerror=alert(1)&gt; &amp; &lt;&gt;" {
		t.Fatalf("本文がエスケープされていません: %q", html)
	}
	if nodeCount != 0 {
		t.Fatalf("危険なノードが挿入されています: %d", nodeCount)
	}
}

func hasBrowser() bool {
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser"} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}
