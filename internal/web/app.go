// Package web serves the task panel and its JSON API.
package web

import (
	_ "embed"
	"html/template"
	"net/http"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

const (
	stylesPath = "/assets/styles.css"
	scriptPath = "/assets/ui.js"

	contentSecurityPolicy = "default-src 'none'; style-src 'self'; script-src 'self'; img-src 'self'; connect-src 'self'; form-action 'self'; base-uri 'none'"
)

var (
	//go:embed templates/index.html
	indexHTML string
	indexOnce sync.Once
	indexTmpl *template.Template

	//go:embed assets/styles.css
	stylesCSS string

	//go:embed assets/ui.js
	scriptJS string
)

type indexData struct {
	StylesPath       string
	ScriptPath       string
	HighlightDelayMS int64
	Theme            string
}

// ScriptSource returns the panel script. Tests evaluate it outside a browser.
func ScriptSource() string {
	return scriptJS
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	tmpl := loadTemplate()
	setSecurityHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy", contentSecurityPolicy)
	data := indexData{
		StylesPath:       stylesPath,
		ScriptPath:       scriptPath,
		HighlightDelayMS: s.delay.Milliseconds(),
	}
	if sw := s.sess.Switcher(); sw != nil {
		data.Theme = sw.Current()
	}
	if err := tmpl.Execute(w, data); err != nil {
		s.lg.Warn("Render index", zap.Error(err))
		http.Error(w, "template rendering failed", http.StatusInternalServerError)
	}
}

func stylesHandler(w http.ResponseWriter, r *http.Request) {
	serveAsset(w, "text/css; charset=utf-8", stylesCSS)
}

func scriptHandler(w http.ResponseWriter, r *http.Request) {
	serveAsset(w, "application/javascript; charset=utf-8", scriptJS)
}

func serveAsset(w http.ResponseWriter, contentType, body string) {
	setSecurityHeaders(w)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	_, _ = w.Write([]byte(body))
}

func setSecurityHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Referrer-Policy", "no-referrer")
	h.Set("X-Frame-Options", "DENY")
}

func loadTemplate() *template.Template {
	indexOnce.Do(func() {
		indexTmpl = template.Must(template.New("index").Parse(indexHTML))
	})
	return indexTmpl
}
