package http

import (
	"errors"
	"net/http"

	"pnlboard/internal/core"
	"pnlboard/internal/log"
	"pnlboard/internal/remarks"
)

// handleSaveRemark creates or replaces the remark on one cell.
func (s *Server) handleSaveRemark(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sl := log.NewStructuredLogger(log.FromContext(ctx))

	form, err := ParseRemarkForm(r)
	if err != nil {
		s.remarkInputError(w, r, err)
		return
	}

	key, err := s.remarks.Save(ctx, form.Row, form.Column, form.Text)
	if err != nil {
		if isRemarkInputError(err) {
			s.remarkInputError(w, r, err)
			return
		}
		sl.LogError(ctx, "Failed saving remark", err, log.ComponentRemarks, log.OpSave,
			log.NewFields().WithRemark(form.Row, form.Column, len(form.Text)))
		s.remarkFailure(w, r, "Could not save the remark")
		return
	}

	sl.LogRemarkSaved(ctx, key.Row, key.Column, len(form.Text))
	s.remarkDone(w, r, key, "Remark saved for "+key.Row+" / "+key.Column)
}

// handleDeleteRemark removes the remark on one cell. Deleting a cell with
// no remark succeeds.
func (s *Server) handleDeleteRemark(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, err := ParseRemarkForm(r)
	if err != nil {
		s.remarkInputError(w, r, err)
		return
	}

	key, err := s.remarks.Delete(ctx, form.Row, form.Column)
	if err != nil {
		if isRemarkInputError(err) {
			s.remarkInputError(w, r, err)
			return
		}
		log.NewStructuredLogger(log.FromContext(ctx)).LogError(ctx, "Failed deleting remark", err,
			log.ComponentRemarks, log.OpDelete, log.LogFields{
				log.FieldRowLabel: form.Row,
				log.FieldColumn:   form.Column,
			})
		s.remarkFailure(w, r, "Could not delete the remark")
		return
	}

	s.remarkDone(w, r, key, "Remark deleted for "+key.Row+" / "+key.Column)
}

// handleClearRemarks removes every remark.
func (s *Server) handleClearRemarks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.remarks.ClearAll(ctx); err != nil {
		log.NewStructuredLogger(log.FromContext(ctx)).LogError(ctx, "Failed clearing remarks", err,
			log.ComponentRemarks, log.OpClear, log.NewFields())
		s.remarkFailure(w, r, "Could not clear remarks")
		return
	}

	log.FromContext(ctx).InfoContext(ctx, "Remarks cleared",
		log.FieldOperation, log.OpClear)
	s.remarkDone(w, r, core.CellKey{}, "All remarks cleared")
}

func isRemarkInputError(err error) bool {
	return errors.Is(err, remarks.ErrEmptyText) ||
		errors.Is(err, remarks.ErrInvalidKey) ||
		errors.Is(err, errRemarkTooLong)
}

func remarkInputMessage(err error) string {
	switch {
	case errors.Is(err, remarks.ErrEmptyText):
		return "Remark text cannot be empty"
	case errors.Is(err, remarks.ErrInvalidKey):
		return "Pick a row and a column"
	case errors.Is(err, errRemarkTooLong):
		return "Remark is too long"
	default:
		return "Invalid request body"
	}
}

func (s *Server) remarkInputError(w http.ResponseWriter, r *http.Request, err error) {
	msg := remarkInputMessage(err)
	if !isHTMX(r) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": msg})
		return
	}
	UnprocessableEntityError(msg).
		TriggerErrorNotification(msg).
		Write(w)
}

func (s *Server) remarkFailure(w http.ResponseWriter, r *http.Request, msg string) {
	if !isHTMX(r) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": msg})
		return
	}
	InternalServerError(msg).
		TriggerErrorNotification(msg).
		Write(w)
}

func (s *Server) remarkDone(w http.ResponseWriter, r *http.Request, key core.CellKey, msg string) {
	if !isHTMX(r) {
		body := map[string]any{"ok": true}
		if !key.IsZero() {
			body["key"] = key.String()
		}
		writeJSON(w, http.StatusOK, body)
		return
	}
	SuccessResponse(msg).
		TriggerStatementChanged().
		TriggerFormReset().
		Write(w)
}
