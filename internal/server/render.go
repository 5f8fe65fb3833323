package server

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"time"

	"charityportal/internal/i18n"
	"charityportal/internal/metrics"
	"charityportal/internal/workflow"
	"charityportal/pkg/types"

	"golang.org/x/text/message"
)

const maxFormBytes = 1 << 20

func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, types.ErrorResponse{Error: msg})
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	s.writeError(w, http.StatusInternalServerError, "internal server error")
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.database != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.database.Ping(ctx); err != nil {
			s.logger.WithError(err).Warn("database health check failed")
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeInput fills dst from a JSON body or from form values, depending on
// the request content type.
func decodeInput(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return json.NewDecoder(r.Body).Decode(dst)
	}

	if err := r.ParseForm(); err != nil {
		return err
	}

	return decoder.Decode(dst, r.Form)
}

func violationViews(p *message.Printer, violations []workflow.Violation) []types.ViolationView {
	out := make([]types.ViolationView, 0, len(violations))
	for _, v := range violations {
		out = append(out, types.ViolationView{
			Step:    int(v.Step),
			Field:   v.Field,
			Code:    v.Code,
			Message: i18n.Violation(p, v.Field, v.Code, v.Label),
		})
	}
	return out
}

// writeWorkflowError renders an error returned by a workflow operation.
// Anything not recognized here is logged and reported as a server error.
func (s *Service) writeWorkflowError(w http.ResponseWriter, r *http.Request, err error) {
	p := s.localizer.Printer(r)

	var (
		validationErr *workflow.ValidationError
		attachmentErr *workflow.AttachmentError
		submitErr     *workflow.SubmitError
	)

	switch {
	case errors.As(err, &validationErr):
		s.writeJSON(w, http.StatusUnprocessableEntity, types.ErrorResponse{
			Error:      i18n.Text(p, i18n.KeyValidationFailed),
			Violations: violationViews(p, validationErr.Violations),
		})

	case errors.As(err, &submitErr):
		if submitErr.Kind == workflow.FailureRejected {
			s.writeError(w, http.StatusConflict, submitErr.Reason)
			return
		}
		s.writeError(w, http.StatusBadGateway, i18n.Text(p, i18n.KeyGenericFailure))

	case errors.Is(err, workflow.ErrFileTooLarge), errors.Is(err, workflow.ErrInvalidFileType):
		reason := types.SlotReasonInvalidFileType
		if errors.Is(err, workflow.ErrFileTooLarge) {
			reason = types.SlotReasonFileTooLarge
		}
		s.metrics.IncrementAttachmentRejection(reason)

		label := ""
		if errors.As(err, &attachmentErr) {
			label = attachmentErr.Name
		}
		s.writeError(w, http.StatusUnprocessableEntity, i18n.Attachment(p, reason, label))

	case errors.Is(err, types.ErrSessionNotFound), errors.Is(err, workflow.ErrSessionClosed):
		s.writeError(w, http.StatusNotFound, types.ErrSessionNotFound.Error())

	case errors.Is(err, workflow.ErrUnknownRequirement),
		errors.Is(err, workflow.ErrPartnerNotFound),
		errors.Is(err, workflow.ErrUnknownStep):
		s.writeError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, workflow.ErrSuperseded),
		errors.Is(err, workflow.ErrSubmissionInFlight):
		s.writeError(w, http.StatusConflict, err.Error())

	case errors.Is(err, workflow.ErrFirstStep),
		errors.Is(err, workflow.ErrLastStep),
		errors.Is(err, workflow.ErrNotOnFinalStep),
		errors.Is(err, workflow.ErrNoPartnerDraft),
		errors.Is(err, workflow.ErrUnknownPartnerType),
		errors.Is(err, workflow.ErrInvalidCoordinate):
		s.writeError(w, http.StatusBadRequest, err.Error())

	default:
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("workflow operation failed")
		s.internalServerError(w)
	}
}

// outcome classifies a submission result for metrics.
func outcome(err error) string {
	var (
		validationErr *workflow.ValidationError
		submitErr     *workflow.SubmitError
	)

	switch {
	case err == nil:
		return metrics.OutcomeAccepted
	case errors.As(err, &submitErr) && submitErr.Kind == workflow.FailureRejected:
		return metrics.OutcomeRejected
	case errors.As(err, &submitErr):
		return metrics.OutcomeFailed
	case errors.As(err, &validationErr), errors.Is(err, workflow.ErrNotOnFinalStep):
		return metrics.OutcomeBlocked
	default:
		return metrics.OutcomeFailed
	}
}
