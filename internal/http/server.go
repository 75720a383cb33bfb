// Package http serves the web UI: the expense entry form with its period
// summary, the JSON summary endpoint and the flashcard viewer.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"tally/internal/core"
	"tally/internal/flashcard"
	"tally/internal/log"
	"tally/internal/middleware/ratelimit"
	"tally/internal/middleware/security"
	"tally/internal/services"
	appweb "tally/web"
)

// ExpenseService is the part of services.ExpenseService the handlers use.
type ExpenseService interface {
	Record(ctx context.Context, e core.NewEntry) (int64, error)
	Report(ctx context.Context, p core.ReportingPeriod, today core.Date, normalOnly bool) (services.Report, error)
	Types(ctx context.Context) ([]string, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options wires a Server. Deck and Limiter are optional.
type Options struct {
	Addr               string
	Service            ExpenseService
	Store              Pinger
	Deck               *flashcard.Deck
	Limiter            *ratelimit.Limiter
	CORSAllowedOrigins []string
	Logger             *log.Logger
	// Today defaults to core.Today.
	Today func() core.Date
}

type Server struct {
	http.Server
	svc       ExpenseService
	store     Pinger
	templates *template.Template
	logger    *log.Logger
	today     func() core.Date

	period *periodSelection
	cards  *cardState

	shutdownOnce sync.Once
}

// periodSelection is the reporting period chosen in the UI. It is shared by
// every visitor of the process, like a single-user desktop session.
type periodSelection struct {
	mu sync.RWMutex
	p  core.ReportingPeriod
}

func (s *periodSelection) Get() core.ReportingPeriod {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.p
}

func (s *periodSelection) Set(p core.ReportingPeriod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p = p
}

func NewServer(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if opts.Today == nil {
		opts.Today = core.Today
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		svc:       opts.Service,
		store:     opts.Store,
		templates: tmpl,
		logger:    opts.Logger.WithComponent(log.ComponentHTTP),
		today:     opts.Today,
		period:    &periodSelection{p: core.Named(core.CurrentMonth)},
		cards:     newCardState(opts.Deck),
	}
	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(log.Middleware(s.logger))
	r.Use(log.RequestLogger)
	r.Use(middleware.Recoverer)
	if len(opts.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}
	r.Use(security.Headers(security.DefaultHeadersConfig()))
	if opts.Limiter != nil {
		r.Use(opts.Limiter.Middleware(ratelimit.RemoteAddr))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	static, err := fs.Sub(appweb.StaticFS, "static")
	if err == nil {
		r.With(security.StaticCache(3600)).
			Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/expenses", http.StatusSeeOther)
	})
	r.Route("/expenses", func(r chi.Router) {
		r.Get("/", s.handleExpensesPage)
		r.Post("/", s.handleCreateExpense)
		r.Post("/period", s.handleSelectPeriod)
	})
	r.Get("/api/summary", s.handleSummaryAPI)
	r.Route("/flashcards", func(r chi.Router) {
		r.Get("/", s.handleFlashcards)
		r.Post("/{action}", s.handleFlashcardAction)
	})
	return r
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.logger.InfoContext(ctx, "Shutting down HTTP server", log.FieldOperation, log.OpShutdown)
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Store not ready", log.FieldError, err)
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ready"))
}

var templateFuncs = template.FuncMap{
	"usd": core.FormatUSD,
	"pct": func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
	"add": func(a, b int) int { return a + b },
	"bar": barWidth,
}

// barWidth clamps a percentage to the 0-100 viewBox of the summary bars.
func barWidth(v float64) string {
	return fmt.Sprintf("%.2f", math.Max(0, math.Min(100, v)))
}
