package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"charityportal/internal/workflow"
	"charityportal/pkg/types"
)

// session resolves the :sessionID of the request for the authenticated
// user. On failure the response has been written.
func (s *Service) session(w http.ResponseWriter, r *http.Request) (*workflow.Session, bool) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain user")
		s.internalServerError(w)
		return nil, false
	}

	sess, err := s.sessions.Get(r.PathValue("sessionID"), userID)
	if err != nil {
		s.writeWorkflowError(w, r, err)
		return nil, false
	}

	return sess, true
}

// respond writes the current state of sess.
func (s *Service) respond(w http.ResponseWriter, r *http.Request, sess *workflow.Session, status int) {
	var view *types.SessionView
	err := sess.Do(r.Context(), func(wf *workflow.Workflow) error {
		view = sessionView(sess.ID, wf)
		return nil
	})
	if err != nil {
		s.writeWorkflowError(w, r, err)
		return
	}

	s.writeJSON(w, status, view)
}

// mutate runs fn on the session loop and responds with the resulting state.
func (s *Service) mutate(w http.ResponseWriter, r *http.Request, fn func(wf *workflow.Workflow) error) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	if err := sess.Do(r.Context(), fn); err != nil {
		s.writeWorkflowError(w, r, err)
		return
	}

	s.respond(w, r, sess, http.StatusOK)
}

// handleOpenSession resumes the session named by the session cookie when it
// is still live, and opens a new one otherwise.
func (s *Service) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain user")
		s.internalServerError(w)
		return
	}

	if cookie, err := r.Cookie(s.config.SessionCookieName); err == nil {
		var sessionID string
		if err := s.cookie.Decode(s.config.SessionCookieName, cookie.Value, &sessionID); err == nil {
			if sess, err := s.sessions.Get(sessionID, userID); err == nil {
				s.respond(w, r, sess, http.StatusOK)
				return
			}
		}
	}

	sess := s.sessions.Open(userID)

	encoded, err := s.cookie.Encode(s.config.SessionCookieName, sess.ID)
	if err != nil {
		s.logger.WithError(err).Error("failed to encode session cookie")
	} else {
		http.SetCookie(w, &http.Cookie{
			Name:     s.config.SessionCookieName,
			Value:    encoded,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(s.config.SessionIdleTimeoutSec),
			Path:     "/",
		})
	}

	s.recordStep(r, sess, workflow.StepMainInfo)

	s.respond(w, r, sess, http.StatusCreated)
}

func (s *Service) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	s.respond(w, r, sess, http.StatusOK)
}

func (s *Service) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain user")
		s.internalServerError(w)
		return
	}

	err = s.sessions.Close(r.PathValue("sessionID"), userID)
	if err != nil && !errors.Is(err, types.ErrSessionNotFound) {
		s.writeWorkflowError(w, r, err)
		return
	}

	clearCookie(w, s.config.SessionCookieName)
	w.WriteHeader(http.StatusNoContent)
}

// recordStep stores a step visit. Failures are logged and do not affect
// the workflow.
func (s *Service) recordStep(r *http.Request, sess *workflow.Session, step workflow.Step) {
	if s.progressRepo == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := s.progressRepo.RecordStepVisit(ctx, sess.ID, sess.OwnerID, int(step), step.String())
	if err != nil {
		s.logger.WithError(err).
			WithField("session_id", sess.ID).
			WithField("step", step.String()).
			Error("failed to record step visit")
	}
}

// handleGetProgress lists the forward step visits recorded for a live
// session.
func (s *Service) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	events, err := s.progressRepo.EventsBySession(r.Context(), sess.ID)
	if err != nil {
		s.logger.WithError(err).WithField("session_id", sess.ID).Error("failed to load step events")
		s.internalServerError(w)
		return
	}

	s.writeJSON(w, http.StatusOK, stepEventViews(events))
}
