package server

import (
	"net/http"
	"time"

	"charityportal/internal/i18n"
	"charityportal/pkg/types"

	"github.com/sirupsen/logrus"
)

func (s *Service) handlePostSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	started := time.Now()
	receipt, err := sess.Submit(r.Context(), s.submitter)
	result := outcome(err)
	s.metrics.ObserveSubmission(result, started)

	entry := s.logger.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"user_id":    sess.OwnerID,
		"outcome":    result,
	})

	if err != nil {
		entry.WithError(err).Info("permit submission not accepted")
		s.writeWorkflowError(w, r, err)
		return
	}

	entry.WithField("permit_id", receipt.PermitID).Info("permit submission accepted")

	s.writeJSON(w, http.StatusCreated, types.SubmitView{
		Message: i18n.Text(s.localizer.Printer(r), i18n.KeySubmitted),
		Receipt: *receipt,
	})
}
