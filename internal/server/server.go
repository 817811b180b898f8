// Package server exposes the editing session over HTTP. Every mutation runs
// as one session transaction and answers with the committed state; the
// events endpoint streams snapshots to websocket clients.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-formcraft/pkg/exporter"
	"github.com/goliatone/go-formcraft/pkg/render"
	"github.com/goliatone/go-formcraft/pkg/session"
	"github.com/goliatone/go-formcraft/pkg/templates"
)

const shutdownTimeout = 5 * time.Second

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the request and lifecycle logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithExporter overrides the exporter used by the export endpoint.
func WithExporter(exp *exporter.Exporter) Option {
	return func(s *Server) {
		if exp != nil {
			s.exporter = exp
		}
	}
}

// WithTemplates overrides the canned template store.
func WithTemplates(store *templates.Store) Option {
	return func(s *Server) {
		if store != nil {
			s.templates = store
		}
	}
}

// WithTranslator sets the catalog used for localized exports and validation
// messages.
func WithTranslator(t render.Translator) Option {
	return func(s *Server) {
		s.translator = t
	}
}

// WithLocale sets the locale used when a request does not name one.
func WithLocale(locale string) Option {
	return func(s *Server) {
		s.locale = locale
	}
}

// WithAllowedOrigins sets the origin patterns accepted by the events
// websocket. Empty accepts only same-origin clients.
func WithAllowedOrigins(patterns ...string) Option {
	return func(s *Server) {
		s.origins = append([]string(nil), patterns...)
	}
}

// Server routes HTTP requests to the editing session.
type Server struct {
	session    *session.Session
	exporter   *exporter.Exporter
	templates  *templates.Store
	translator render.Translator
	locale     string
	origins    []string
	logger     *slog.Logger
	router     chi.Router
}

// New builds a Server around sess. The embedded template library and the
// default exporter are used unless overridden.
func New(sess *session.Session, options ...Option) (*Server, error) {
	if sess == nil {
		return nil, errors.New("server: session is required")
	}
	s := &Server{
		session: sess,
		logger:  slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.exporter == nil {
		s.exporter = exporter.Default()
	}
	if s.templates == nil {
		store, err := templates.Default()
		if err != nil {
			return nil, fmt.Errorf("server: load templates: %w", err)
		}
		s.templates = store
	}
	if s.translator == nil {
		catalog, err := render.NewCatalog()
		if err != nil {
			return nil, fmt.Errorf("server: load catalog: %w", err)
		}
		s.translator = catalog
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP dispatches to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/schema", s.getSchema)
		r.Patch("/schema", s.updateSchema)

		r.Post("/fields", s.addField)
		r.Post("/fields/reorder", s.reorderFields)
		r.Patch("/fields/{id}", s.updateField)
		r.Delete("/fields/{id}", s.removeField)
		r.Post("/fields/{id}/move", s.moveField)
		r.Post("/fields/{id}/select", s.selectField)

		r.Post("/multistep/toggle", s.toggleMultiStep)
		r.Post("/steps", s.addStep)
		r.Post("/steps/current", s.setCurrentStep)
		r.Patch("/steps/{id}", s.updateStep)
		r.Delete("/steps/{id}", s.removeStep)

		r.Get("/templates", s.listTemplates)
		r.Post("/templates/{name}", s.loadTemplate)

		r.Get("/export/{target}", s.export)
		r.Post("/validate", s.validate)

		r.Get("/events", s.events)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully and closes the session subscriptions.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		s.session.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown", "error", err)
		}
	}()

	s.logger.Info("listening", "addr", addr)
	err := srv.ListenAndServe()
	close(stopped)
	<-done
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("server: listen: %w", err)
}
