// Package webserver provides the web frontend HTTP server implementation
package webserver

import (
	"bytes"
	"context"
	"crypto/rand"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/fridgechef/fridgechef/internal/application/planner"
	"github.com/fridgechef/fridgechef/internal/domain/locale"
	"github.com/fridgechef/fridgechef/internal/infrastructure/config"
	"github.com/fridgechef/fridgechef/internal/infrastructure/monitoring"
	"github.com/fridgechef/fridgechef/pkg/healthcheck"
)

//go:embed templates/*
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

type contextKey string

const (
	sessionKey    contextKey = "session"
	newSessionKey contextKey = "new-session"
)

// WebServer represents the web frontend HTTP server
type WebServer struct {
	config      *config.Config
	logger      *zap.Logger
	server      *http.Server
	router      *chi.Mux
	sessions    *SessionStore
	templates   *template.Template
	healthCheck *healthcheck.HealthCheck
	metrics     *monitoring.MetricsCollector
	csrfSecret  []byte
}

// NewWebServer creates a new web frontend server instance
func NewWebServer(
	cfg *config.Config,
	log *zap.Logger,
	sessions *SessionStore,
	healthCheck *healthcheck.HealthCheck,
	metrics *monitoring.MetricsCollector,
) (*WebServer, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate csrf secret: %w", err)
	}

	s := &WebServer{
		config:      cfg,
		logger:      log.Named("webserver"),
		sessions:    sessions,
		templates:   templates,
		healthCheck: healthCheck,
		metrics:     metrics,
		csrfSecret:  secret,
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:         cfg.Address(),
		Handler:      otelhttp.NewHandler(s.router, "fridgechef"),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s, nil
}

// Handler returns the root handler, including tracing
func (s *WebServer) Handler() http.Handler {
	return s.server.Handler
}

// setupRoutes configures the web frontend routes
func (s *WebServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if s.metrics != nil && s.config.Monitoring.EnableMetrics {
		r.Use(s.metrics.HTTPMiddleware)
	}
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.securityHeadersMiddleware)

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	mon := s.config.Monitoring
	r.Get(mon.HealthCheckPath, s.healthCheck.Handler())
	r.Get(mon.ReadinessPath, s.healthCheck.ReadinessHandler())
	r.Get(mon.LivenessPath, s.healthCheck.LivenessHandler())
	if s.metrics != nil && mon.EnableMetrics {
		r.Method(http.MethodGet, mon.MetricsPath, s.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)
		r.Get("/", s.handleHome)

		r.Group(func(r chi.Router) {
			r.Use(s.csrfMiddleware)
			r.Post("/ingredients", s.handleAddIngredient)
			r.Delete("/ingredients/{id}", s.handleRemoveIngredient)
			r.Post("/meal-time", s.handleSelectMealTime)
			r.Post("/recipes", s.handleGenerate)
			r.Post("/reset", s.handleReset)
		})
	})

	return r
}

// Start starts the web frontend HTTP server
func (s *WebServer) Start() error {
	s.logger.Info("Starting web server",
		zap.String("address", s.server.Addr),
		zap.String("mode", "HTMX-templates"),
	)

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the web server
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down web server...")
	return s.server.Shutdown(ctx)
}

// parseTemplates parses all HTML templates from the embedded filesystem.
// Each file becomes a template named after its path without the extension.
func parseTemplates() (*template.Template, error) {
	tmpl := template.New("")

	err := fs.WalkDir(templatesFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		content, err := templatesFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", path, err)
		}

		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".html")
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk templates: %w", err)
	}

	return tmpl, nil
}

// Middleware

func (s *WebServer) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, created := s.sessions.Load(w, r)
		// An explicit ?lang= sticks to the session; otherwise the language is
		// negotiated once, when the session starts
		if lang := r.URL.Query().Get("lang"); lang != "" {
			session.SetLocale(locale.Parse(lang))
		} else if created {
			session.SetLocale(s.negotiateLocale(r))
		}

		ctx := context.WithValue(r.Context(), sessionKey, session)
		ctx = context.WithValue(ctx, newSessionKey, created)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *planner.Session {
	session, _ := r.Context().Value(sessionKey).(*planner.Session)
	return session
}

// sessionCreated reports whether the request's session was started by this request
func sessionCreated(r *http.Request) bool {
	created, _ := r.Context().Value(newSessionKey).(bool)
	return created
}

func (s *WebServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug("Request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// securityHeadersMiddleware adds security headers to all responses
func (s *WebServer) securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")

		csp := "default-src 'self'; " +
			"script-src 'self' https://unpkg.com; " +
			"style-src 'self'; " +
			"img-src 'self' data:; " +
			"connect-src 'self'; " +
			"frame-ancestors 'none'; " +
			"base-uri 'none'; " +
			"object-src 'none';"
		w.Header().Set("Content-Security-Policy", csp)

		// HSTS only makes sense when cookies are marked secure, i.e. behind HTTPS
		if s.config.Server.SecureCookies {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		next.ServeHTTP(w, r)
	})
}

// renderTemplate buffers the output so a failing template never produces half a page
func (s *WebServer) renderTemplate(w http.ResponseWriter, name string, data interface{}, status int) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("Failed to execute template",
			zap.String("template", name),
			zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Add("Vary", "HX-Request")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debug("Failed to write response", zap.Error(err))
	}
}
