package http

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"pnlboard/internal/core"
	"pnlboard/internal/log"
	"pnlboard/internal/remarks"
	"pnlboard/internal/render"
	htmlrender "pnlboard/internal/render/html"
	"pnlboard/internal/services"
)

const loadTimeout = 15 * time.Second

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(health)
}

// handleReady checks templates, the remark store and the statement source.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)
	fail := func(name string, err error) {
		checks[name] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}

	if s.templates == nil {
		fail("templates", fmt.Errorf("templates not loaded"))
	} else {
		checks["templates"] = "ok"
	}

	if err := s.remarks.Ping(ctx); err != nil {
		fail("remarks", err)
	} else {
		checks["remarks"] = "ok"
	}

	if st, err := s.statements.Load(ctx); err != nil {
		fail("statement", err)
	} else {
		checks["statement"] = map[string]any{
			"rows":      len(st.Table.Rows),
			"columns":   len(st.Table.Columns),
			"loaded_at": st.LoadedAt.Format(time.RFC3339),
			"status":    "ok",
		}
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	response := map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}

	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(response)
}

// handleMetrics provides request and security counters in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	securityMetrics := s.detector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	approvalMetrics := s.approvalLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()

	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total rate limit hits\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total{limiter=\"writes\"} %d\n", rateLimitMetrics.TotalHits)
	fmt.Fprintf(w, "rate_limit_hits_total{limiter=\"approval\"} %d\n\n", approvalMetrics.TotalHits)

	fmt.Fprintf(w, "# HELP suspicious_requests_total Total suspicious requests detected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", securityMetrics.SuspiciousRequests)

	fmt.Fprintf(w, "# HELP failed_approvals_total Wrong download passphrases\n")
	fmt.Fprintf(w, "# TYPE failed_approvals_total counter\n")
	fmt.Fprintf(w, "failed_approvals_total %d\n\n", securityMetrics.FailedApprovals)

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n\n", time.Since(s.started).Seconds())
}

// statementData feeds the statement partial.
type statementData struct {
	Month       string
	KPIs        []services.KPI
	Table       template.HTML
	LoadedAt    time.Time
	Rows        []string
	Columns     []string
	RemarkCount int
	Notice      string
}

// pageData feeds the index page.
type pageData struct {
	Statement statementData
	Approved  bool
	Error     string
}

// loadStatement builds the statement partial. A remark store failure still
// renders the table, without remarks, and sets Notice.
func (s *Server) loadStatement(ctx context.Context) (statementData, error) {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	logger := log.FromContext(ctx)

	st, err := s.statements.Load(ctx)
	if err != nil {
		return statementData{}, err
	}

	var data statementData
	lookup, err := s.remarks.Load(ctx)
	if err != nil {
		logger.WithComponent(log.ComponentRemarks).ErrorContext(ctx, "Failed loading remarks",
			log.FieldError, err,
			log.FieldOperation, log.OpRead)
		lookup = remarks.Lookup{}
		data.Notice = "Remarks are unavailable right now; the table is shown without them."
	}

	table, err := htmlrender.Render(render.NewView(st.Table, lookup))
	if err != nil {
		return statementData{}, fmt.Errorf("render statement: %w", err)
	}

	data.Month, data.KPIs = services.KPIs(st.Table)
	data.Table = table
	data.LoadedAt = st.LoadedAt
	data.Rows = st.Table.Labels()
	data.Columns = editableColumns(st.Table.Columns)
	data.RemarkCount = len(lookup)
	return data, nil
}

// editableColumns drops label columns from the remark editor choices.
func editableColumns(columns []string) []string {
	var out []string
	for _, c := range columns {
		if !core.IsTextColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{Approved: s.gate.approved(r)}

	st, err := s.loadStatement(r.Context())
	if err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentStatement).ErrorContext(r.Context(),
			"Failed loading statement",
			log.FieldError, err,
			log.FieldOperation, log.OpRead)
		data.Error = "The statement could not be loaded. Check the source workbook and try again."
		s.render(w, r, http.StatusServiceUnavailable, "index", data)
		return
	}
	data.Statement = st
	s.render(w, r, http.StatusOK, "index", data)
}

func (s *Server) handleStatementPartial(w http.ResponseWriter, r *http.Request) {
	st, err := s.loadStatement(r.Context())
	if err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentStatement).ErrorContext(r.Context(),
			"Failed loading statement",
			log.FieldError, err,
			log.FieldOperation, log.OpRead)
		ErrorResponse(http.StatusServiceUnavailable, "The statement could not be loaded.").Write(w)
		return
	}
	s.render(w, r, http.StatusOK, "statement", st)
}

// handleStatementRefresh drops the cached statement so the next load reads
// the source again.
func (s *Server) handleStatementRefresh(w http.ResponseWriter, r *http.Request) {
	s.statements.Invalidate()
	log.FromContext(r.Context()).WithComponent(log.ComponentStatement).InfoContext(r.Context(),
		"Statement cache invalidated",
		log.FieldSource, s.statements.Describe())

	SuccessResponse("Statement reloaded from the source").
		TriggerStatementChanged().
		Write(w)
}

// handleListRemarks returns remarks keyed "ROW|Mon-YY".
func (s *Server) handleListRemarks(w http.ResponseWriter, r *http.Request) {
	lookup, err := s.remarks.Load(r.Context())
	if err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentRemarks).ErrorContext(r.Context(),
			"Failed listing remarks",
			log.FieldError, err,
			log.FieldOperation, log.OpList)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "remarks unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"remarks": lookup.Strings()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
