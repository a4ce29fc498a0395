package http

import (
	"context"
	"mime"
	"net/http"
	"strconv"

	"pnlboard/internal/log"
	"pnlboard/internal/remarks"
	"pnlboard/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleApprove checks the download passphrase and grants the approval
// cookie.
func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Invalid request body").Write(w)
		return
	}

	if !s.gate.check(p.Get("code")) {
		s.detector.RecordFailedApproval()
		logger.WarnContext(ctx, "Wrong approval code",
			log.FieldOperation, log.OpApprove,
			log.FieldClientIP, s.detector.ExtractClientIP(r))
		ForbiddenError("Wrong approval code").
			TriggerErrorNotification("Wrong approval code").
			Write(w)
		return
	}

	s.gate.grant(w, r)
	logger.InfoContext(ctx, "Download approved",
		log.FieldOperation, log.OpApprove,
		log.FieldClientIP, s.detector.ExtractClientIP(r))

	if isHTMX(r) {
		NewHTMXResponse().Refresh().Write(w)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleApprovalReset withdraws the approval cookie.
func (s *Server) handleApprovalReset(w http.ResponseWriter, r *http.Request) {
	s.gate.revoke(w, r)
	if isHTMX(r) {
		NewHTMXResponse().Refresh().Write(w)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDownload streams the styled workbook to approved clients.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), loadTimeout)
	defer cancel()
	logger := log.FromContext(ctx).WithComponent(log.ComponentExport)

	if !s.gate.approved(r) {
		ForbiddenError("Enter the approval code before downloading").Write(w)
		return
	}

	st, err := s.statements.Load(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed loading statement for export",
			log.FieldError, err,
			log.FieldOperation, log.OpExport)
		ErrorResponse(http.StatusServiceUnavailable, "The statement could not be loaded.").Write(w)
		return
	}

	lookup, err := s.remarks.Load(ctx)
	if err != nil {
		logger.WarnContext(ctx, "Exporting without remarks",
			log.FieldError, err,
			log.FieldOperation, log.OpExport)
		lookup = remarks.Lookup{}
	}

	buf, name, err := services.Export(st, lookup)
	if err != nil {
		logger.ErrorContext(ctx, "Failed writing workbook",
			log.FieldError, err,
			log.FieldOperation, log.OpExport)
		InternalServerError("Could not build the workbook").Write(w)
		return
	}

	logger.InfoContext(ctx, "Statement exported",
		log.FieldOperation, log.OpExport,
		log.FieldRows, len(st.Table.Rows),
		"filename", name)

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
