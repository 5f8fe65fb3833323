package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"charityportal/internal/workflow"
	"charityportal/pkg/types"

	"github.com/sirupsen/logrus"
)

type coordinateInput struct {
	Coordinates string   `form:"coordinates" json:"coordinates"`
	Lat         *float64 `form:"lat" json:"lat"`
	Lng         *float64 `form:"lng" json:"lng"`
}

func (s *Service) handlePostFields(w http.ResponseWriter, r *http.Request) {
	var input types.PermitFieldsInput
	if err := decodeInput(w, r, &input); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid fields payload")
		return
	}

	s.mutate(w, r, func(wf *workflow.Workflow) error {
		return wf.ApplyFields(input)
	})
}

func (s *Service) handlePostCoordinate(w http.ResponseWriter, r *http.Request) {
	var input coordinateInput
	if err := decodeInput(w, r, &input); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid coordinate payload")
		return
	}

	s.mutate(w, r, func(wf *workflow.Workflow) error {
		if encoded := strings.TrimSpace(input.Coordinates); encoded != "" {
			return wf.SelectEncodedCoordinate(encoded)
		}
		if input.Lat == nil || input.Lng == nil {
			return workflow.ErrInvalidCoordinate
		}
		return wf.SelectCoordinate(types.Coordinate{Lat: *input.Lat, Lng: *input.Lng})
	})
}

func (s *Service) handleDeleteCoordinate(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(wf *workflow.Workflow) error {
		wf.ClearCoordinate()
		return nil
	})
}

// handlePostGeocode resolves the entered address and pre-fills the
// coordinate when none is selected. Geocoding failures leave the state as
// it is.
func (s *Service) handlePostGeocode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	if s.geocoder == nil {
		s.respond(w, r, sess, http.StatusOK)
		return
	}

	var address string
	err := sess.Do(r.Context(), func(wf *workflow.Workflow) error {
		req := wf.Request()
		address = strings.TrimSpace(strings.Join([]string{req.Address, req.Street}, " "))
		return nil
	})
	if err != nil {
		s.writeWorkflowError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	coordinate, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		s.logger.WithError(err).WithField("session_id", sess.ID).Info("geocoding failed")
		s.respond(w, r, sess, http.StatusOK)
		return
	}

	err = sess.Do(r.Context(), func(wf *workflow.Workflow) error {
		wf.PrefillCoordinate(coordinate)
		return nil
	})
	if err != nil {
		s.writeWorkflowError(w, r, err)
		return
	}

	s.respond(w, r, sess, http.StatusOK)
}

func (s *Service) handlePostNext(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var from, to workflow.Step
	err := sess.Do(r.Context(), func(wf *workflow.Workflow) error {
		from = wf.Current()
		var err error
		to, err = wf.Next()
		return err
	})
	if err != nil {
		var validationErr *workflow.ValidationError
		if errors.As(err, &validationErr) {
			s.metrics.IncrementStepRejection(from.String())
			s.logger.WithFields(logrus.Fields{
				"session_id": sess.ID,
				"step":       from.String(),
				"violations": len(validationErr.Violations),
			}).Debug("step navigation refused")
		}
		s.writeWorkflowError(w, r, err)
		return
	}

	s.recordStep(r, sess, to)

	s.respond(w, r, sess, http.StatusOK)
}

func (s *Service) handlePostPrevious(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(wf *workflow.Workflow) error {
		_, err := wf.Previous()
		return err
	})
}

func (s *Service) handlePostStep(w http.ResponseWriter, r *http.Request) {
	step, err := workflow.ParseStep(r.PathValue("step"))
	if err != nil {
		s.writeWorkflowError(w, r, err)
		return
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var from workflow.Step
	err = sess.Do(r.Context(), func(wf *workflow.Workflow) error {
		from = wf.Current()
		return wf.GoTo(step)
	})
	if err != nil {
		s.writeWorkflowError(w, r, err)
		return
	}

	if step > from {
		s.recordStep(r, sess, step)
	}

	s.respond(w, r, sess, http.StatusOK)
}
