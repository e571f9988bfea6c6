package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/phyten/devdeck/internal/comments"
	"github.com/phyten/devdeck/internal/engine/opts"
	"github.com/phyten/devdeck/internal/highlight"
	"github.com/phyten/devdeck/internal/model"
	"github.com/phyten/devdeck/internal/pomodoro"
	"github.com/phyten/devdeck/internal/session"
	"github.com/phyten/devdeck/internal/tasks"
)

type errorResponse struct {
	Error string `json:"error"`
}

type tasksResponse struct {
	Tasks     []tasks.Task `json:"tasks"`
	Counts    tasks.Counts `json:"counts"`
	ScannedAt *time.Time   `json:"scanned_at,omitempty"`
}

type toggleRequest struct {
	File string `json:"file"`
	Line *int   `json:"line"`
}

type toggleResponse struct {
	Task   tasks.Task   `json:"task"`
	Counts tasks.Counts `json:"counts"`
}

type commentRequest struct {
	Text  string `json:"text"`
	Scope string `json:"scope"`
}

// spanView adds UTF-16 offsets so the browser can slice JS strings.
type spanView struct {
	model.Span
	UTF16Start int `json:"utf16_start"`
	UTF16End   int `json:"utf16_end"`
}

type regionView struct {
	Kind       model.CommentKind `json:"kind"`
	Start      int               `json:"start"`
	End        int               `json:"end"`
	UTF16Start int               `json:"utf16_start"`
	UTF16End   int               `json:"utf16_end"`
}

type spansResponse struct {
	Scope   comments.Scope `json:"scope"`
	Spans   []spanView     `json:"spans"`
	Regions []regionView   `json:"regions"`
	Stats   comments.Stats `json:"stats"`
	DelayMS int64          `json:"delay_ms"`
}

type removeResponse struct {
	Scope   comments.Scope `json:"scope"`
	Text    string         `json:"text"`
	Changed bool           `json:"changed"`
	Stats   comments.Stats `json:"stats"`
}

type timerResponse struct {
	pomodoro.Status
	Label string `json:"label"`
}

type messagesResponse struct {
	Messages []session.Message `json:"messages"`
}

type themeResponse struct {
	Enabled bool   `json:"enabled"`
	Theme   string `json:"theme"`
}

func (s *Server) tasksPayload() tasksResponse {
	out := tasksResponse{Tasks: s.sess.Board().Items(), Counts: s.sess.Board().Counts()}
	if at := s.sess.LastScan(); !at.IsZero() {
		out.ScannedAt = &at
	}
	return out
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tasksPayload())
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.File) == "" || req.Line == nil {
		writeError(w, http.StatusBadRequest, errors.New("file and line are required"))
		return
	}
	task, ok := s.sess.Board().Toggle(req.File, *req.Line)
	if !ok {
		writeError(w, http.StatusNotFound, errors.Errorf("no task at %s:%d", req.File, *req.Line))
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Task: task, Counts: s.sess.Board().Counts()})
}

func (s *Server) handleRescan(w http.ResponseWriter, r *http.Request) {
	o, err := opts.FromQuery(s.sess.ScanOptions(), r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := opts.NormalizeAndValidate(&o); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.sess.SetScanOptions(o)
	if _, err := s.sess.Rescan(r.Context()); err != nil {
		s.lg.Warn("Rescan failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, s.tasksPayload())
}

func (s *Server) handleSpans(w http.ResponseWriter, r *http.Request) {
	req, scope, ok := s.commentRequest(w, r)
	if !ok {
		return
	}
	spans := comments.FindSpans(req.Text, scope)
	cur := utf16Cursor{text: req.Text}
	out := spansResponse{
		Scope:   scope,
		Spans:   make([]spanView, 0, len(spans)),
		Stats:   comments.Count(spans),
		DelayMS: s.delay.Milliseconds(),
	}
	for _, sp := range spans {
		out.Spans = append(out.Spans, spanView{Span: sp, UTF16Start: cur.at(sp.ByteStart), UTF16End: cur.at(sp.ByteEnd)})
	}
	regions := highlight.Merge(spans, len(req.Text))
	out.Regions = make([]regionView, 0, len(regions))
	for _, rg := range regions {
		out.Regions = append(out.Regions, regionView{
			Kind:       rg.Kind,
			Start:      rg.Start,
			End:        rg.End,
			UTF16Start: cur.at(rg.Start),
			UTF16End:   cur.at(rg.End),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	req, scope, ok := s.commentRequest(w, r)
	if !ok {
		return
	}
	res := comments.Strip(req.Text, scope)
	writeJSON(w, http.StatusOK, removeResponse{
		Scope:   scope,
		Text:    res.Text,
		Changed: res.Changed(),
		Stats:   res.Stats,
	})
}

// commentRequest decodes the body and parses the scope. An empty scope means
// both comment families.
func (s *Server) commentRequest(w http.ResponseWriter, r *http.Request) (commentRequest, comments.Scope, bool) {
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return req, 0, false
	}
	raw := req.Scope
	if strings.TrimSpace(raw) == "" {
		raw = "both"
	}
	scope, err := comments.ParseScope(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return req, 0, false
	}
	return req, scope, true
}

func (s *Server) handleTimer(w http.ResponseWriter, r *http.Request) {
	writeTimer(w, s.sess.Timer().Snapshot())
}

func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	writeTimer(w, s.sess.StartTimer(pomodoro.PhaseWork))
}

func (s *Server) handleTimerBreak(w http.ResponseWriter, r *http.Request) {
	writeTimer(w, s.sess.StartTimer(pomodoro.PhaseBreak))
}

func (s *Server) handleTimerStop(w http.ResponseWriter, r *http.Request) {
	writeTimer(w, s.sess.StopTimer())
}

func writeTimer(w http.ResponseWriter, st pomodoro.Status) {
	writeJSON(w, http.StatusOK, timerResponse{Status: st, Label: st.Label()})
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	after := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("after")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, errors.Errorf("after: invalid value %q", raw))
			return
		}
		after = n
	}
	writeJSON(w, http.StatusOK, messagesResponse{Messages: s.sess.Messages(after)})
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	sw := s.sess.Switcher()
	if sw == nil {
		writeJSON(w, http.StatusOK, themeResponse{})
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{Enabled: true, Theme: sw.Current()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return errors.Wrap(err, "decode request")
	}
	return nil
}

// writeJSON encodes without HTML escaping; the panel escapes on render.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
