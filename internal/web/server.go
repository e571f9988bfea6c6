package web

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/phyten/devdeck/internal/applog"
	"github.com/phyten/devdeck/internal/session"
)

// DefaultHighlightDelay matches how long the editor kept comment decorations.
const DefaultHighlightDelay = 2 * time.Second

const (
	maxBodyBytes    = 8 << 20
	shutdownTimeout = 5 * time.Second
)

// Options configures a Server. Zero values select defaults.
type Options struct {
	HighlightDelay time.Duration
	Logger         *zap.Logger
}

// Server exposes one session over HTTP.
type Server struct {
	sess  *session.Session
	delay time.Duration
	lg    *zap.Logger
	mux   *http.ServeMux
}

func New(sess *session.Session, opts Options) *Server {
	delay := opts.HighlightDelay
	if delay < 0 {
		delay = 0
	} else if delay == 0 {
		delay = DefaultHighlightDelay
	}
	s := &Server{
		sess:  sess,
		delay: delay,
		lg:    applog.OrNop(opts.Logger),
		mux:   http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.indexHandler)
	s.mux.HandleFunc("GET "+stylesPath, stylesHandler)
	s.mux.HandleFunc("GET "+scriptPath, scriptHandler)

	s.mux.HandleFunc("GET /api/tasks", s.handleTasks)
	s.mux.HandleFunc("POST /api/tasks/toggle", s.handleToggle)
	s.mux.HandleFunc("POST /api/tasks/rescan", s.handleRescan)
	s.mux.HandleFunc("POST /api/comments/spans", s.handleSpans)
	s.mux.HandleFunc("POST /api/comments/remove", s.handleRemove)
	s.mux.HandleFunc("GET /api/timer", s.handleTimer)
	s.mux.HandleFunc("POST /api/timer/start", s.handleTimerStart)
	s.mux.HandleFunc("POST /api/timer/break", s.handleTimerBreak)
	s.mux.HandleFunc("POST /api/timer/stop", s.handleTimerStop)
	s.mux.HandleFunc("GET /api/messages", s.handleMessages)
	s.mux.HandleFunc("GET /api/theme", s.handleTheme)
}

// Handler returns the HTTP handler for the panel and the API.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Serve runs the server on ln until ctx is done, then shuts it down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          zap.NewStdLog(s.lg.Named("http")),
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.lg.Info("Serving", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	s.lg.Info("Server stopped")
	return nil
}
