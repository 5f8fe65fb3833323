package server

import (
	"errors"
	"net/http"
	"strconv"

	"charityportal/pkg/types"

	"github.com/sirupsen/logrus"
)

func (s *Service) handleGetLookups(w http.ResponseWriter, r *http.Request) {
	lookups, err := s.catalog.Lookups(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to load lookups")
		s.writeError(w, http.StatusBadGateway, "lookups are unavailable")
		return
	}

	s.writeJSON(w, http.StatusOK, lookups)
}

func (s *Service) handleListPermits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain user")
		s.internalServerError(w)
		return
	}

	permits, err := s.permitRepo.PermitsByUser(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to load permits")
		s.internalServerError(w)
		return
	}

	ids := make([]int64, 0, len(permits))
	for _, permit := range permits {
		ids = append(ids, permit.ID)
	}

	counts, err := s.attachmentRepo.CountByPermits(ctx, ids)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to count permit attachments")
		s.internalServerError(w)
		return
	}

	out := make([]types.PermitSummary, 0, len(permits))
	for _, permit := range permits {
		out = append(out, permitSummary(permit, counts[permit.ID]))
	}

	s.writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleGetPermit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain user")
		s.internalServerError(w)
		return
	}

	permitID, err := strconv.ParseInt(r.PathValue("permitID"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid permit id")
		return
	}

	logger := s.logger.WithFields(logrus.Fields{"user_id": userID, "permit_id": permitID})

	permit, err := s.permitRepo.Permit(ctx, permitID)
	if err != nil && !errors.Is(err, types.ErrPermitNotFound) {
		logger.WithError(err).Error("failed to load permit")
		s.internalServerError(w)
		return
	}

	// Other users' permits are reported as missing.
	if err != nil || permit.UserID != userID {
		s.writeError(w, http.StatusNotFound, types.ErrPermitNotFound.Error())
		return
	}

	partners, err := s.permitRepo.PartnersByPermit(ctx, permitID)
	if err != nil {
		logger.WithError(err).Error("failed to load permit partners")
		s.internalServerError(w)
		return
	}

	attachments, err := s.attachmentRepo.AttachmentsByPermit(ctx, permitID)
	if err != nil {
		logger.WithError(err).Error("failed to load permit attachments")
		s.internalServerError(w)
		return
	}

	s.writeJSON(w, http.StatusOK, permitDetail(permit, partners, attachments))
}
