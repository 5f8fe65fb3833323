package server

import (
	"net/http"
	"strconv"
	"strings"

	"charityportal/internal/workflow"
	"charityportal/pkg/types"
)

type stageInput struct {
	Type string `form:"type" json:"type"`
}

func (s *Service) handlePostPartnerDraft(w http.ResponseWriter, r *http.Request) {
	var input stageInput
	if err := decodeInput(w, r, &input); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid partner type payload")
		return
	}

	partnerType := types.PartnerType(strings.ToLower(strings.TrimSpace(input.Type)))

	s.mutate(w, r, func(wf *workflow.Workflow) error {
		return wf.Partners().StageType(partnerType)
	})
}

func (s *Service) handleDeletePartnerDraft(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(wf *workflow.Workflow) error {
		wf.Partners().ClearDraft()
		return nil
	})
}

func (s *Service) handlePostPartner(w http.ResponseWriter, r *http.Request) {
	var input types.PartnerInput
	if err := decodeInput(w, r, &input); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid partner payload")
		return
	}

	s.mutate(w, r, func(wf *workflow.Workflow) error {
		_, err := wf.Partners().Add(input)
		return err
	})
}

func (s *Service) handleDeletePartner(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid partner index")
		return
	}

	s.mutate(w, r, func(wf *workflow.Workflow) error {
		return wf.Partners().Remove(index)
	})
}
