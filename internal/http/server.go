package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"pnlboard/internal/log"
	"pnlboard/internal/middleware/ratelimit"
	"pnlboard/internal/middleware/security"
	"pnlboard/internal/middleware/trace"
	"pnlboard/internal/services"
	appweb "pnlboard/web"
)

// Options wires the dashboard server.
type Options struct {
	Addr           string
	Statements     *services.StatementService
	Remarks        *services.RemarkService
	ApprovalCode   string
	ApprovalSecret []byte
	Logger         *log.Logger
	// Templates overrides the embedded templates; tests use it.
	Templates fs.FS
}

// Server is the statement dashboard.
type Server struct {
	http.Server

	templates  *template.Template
	statements *services.StatementService
	remarks    *services.RemarkService
	gate       *approvalGate
	logger     *log.Logger

	detector        *security.Detector
	rateLimiter     *ratelimit.Limiter
	approvalLimiter *ratelimit.Limiter
	traceMiddleware *trace.Middleware

	started      time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	detector := security.NewDetector()
	s := &Server{
		statements:      opts.Statements,
		remarks:         opts.Remarks,
		gate:            newApprovalGate(opts.ApprovalCode, opts.ApprovalSecret),
		logger:          logger,
		detector:        detector,
		rateLimiter:     ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		approvalLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: 5, Burst: 5}),
		traceMiddleware: trace.NewMiddleware(detector.ExtractClientIP),
		started:         time.Now(),
	}

	templates := opts.Templates
	if templates == nil {
		templates = appweb.TemplatesFS
	}
	t, err := template.New("").Funcs(templateFuncs).ParseFS(templates, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", "error", err)
	} else {
		s.templates = t
	}

	mux := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /ui/statement", s.handleStatementPartial)
	mux.HandleFunc("POST /ui/statement/refresh", s.handleStatementRefresh)
	mux.HandleFunc("GET /api/remarks", s.handleListRemarks)

	limited := s.rateLimiter.Middleware(detector.ExtractClientIP, s.onRateLimit)
	remarkLogs := log.ComponentMiddleware(log.ComponentRemarks)
	writes := func(h http.HandlerFunc) http.Handler { return limited(remarkLogs(h)) }
	mux.Handle("POST /remarks", writes(s.handleSaveRemark))
	mux.Handle("POST /remarks/delete", writes(s.handleDeleteRemark))
	mux.Handle("POST /remarks/clear", writes(s.handleClearRemarks))

	approvals := s.approvalLimiter.Middleware(detector.ExtractClientIP, s.onRateLimit)
	approvalLogs := log.ComponentMiddleware(log.ComponentApproval)
	mux.Handle("POST /approval", security.NoStore(approvals(approvalLogs(http.HandlerFunc(s.handleApprove)))))
	mux.Handle("POST /approval/reset", security.NoStore(approvalLogs(http.HandlerFunc(s.handleApprovalReset))))
	mux.Handle("GET /download", security.NoStore(approvalLogs(http.HandlerFunc(s.handleDownload))))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	var handler http.Handler = mux
	handler = s.detectSuspicious(handler)
	handler = headers.Middleware(handler)
	handler = log.RequestIDMiddleware(trace.RequestIDFromRequest)(handler)
	handler = log.Middleware(logger)(handler)
	handler = s.traceMiddleware.Middleware(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// detectSuspicious logs probing requests. They are served normally.
func (s *Server) detectSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			log.FromContext(r.Context()).WithComponent(log.ComponentSecurity).WarnContext(r.Context(),
				"Suspicious request",
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldClientIP, s.detector.ExtractClientIP(r))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(),
		"Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Too many requests, try again in a minute.").
		Header("Retry-After", "60").
		Write(w)
}

// Shutdown stops background goroutines and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		s.approvalLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

var templateFuncs = template.FuncMap{
	"since": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return time.Since(t).Round(time.Second).String()
	},
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err,
			"template", name)
	}
}
