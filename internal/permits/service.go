package permits

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"charityportal/internal/utils"
	"charityportal/pkg/types"

	"github.com/sirupsen/logrus"
)

// DuplicateLocationReason is returned when a live permit already covers the
// same site and dates.
const DuplicateLocationReason = "Duplicate location"

type PermitStore interface {
	OverlappingExists(ctx context.Context, regionID int64, street string, start, end time.Time) (bool, error)
	CreateSubmission(ctx context.Context, submission *types.PermitSubmission) error
}

type ObjectStore interface {
	Put(ctx context.Context, key string, content []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Service accepts assembled permit payloads: it stores the attachment files
// and persists the permit with its partners.
type Service struct {
	logger  *logrus.Logger
	permits PermitStore
	objects ObjectStore
}

func New(logger *logrus.Logger, permits PermitStore, objects ObjectStore) *Service {
	return &Service{
		logger:  logger,
		permits: permits,
		objects: objects,
	}
}

func (s *Service) Submit(ctx context.Context, payload *types.PermitPayload) (*types.SubmissionReceipt, error) {

	exists, err := s.permits.OverlappingExists(ctx, payload.RegionID, payload.Street, payload.StartDate, payload.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check for overlapping permits: %w", err)
	}

	if exists {
		return nil, &types.RejectionError{Reason: DuplicateLocationReason}
	}

	prefix := path.Join("permits", utils.NanoID())
	upload := &uploader{service: s, prefix: prefix}

	submission := &types.PermitSubmission{
		Permit: &types.Permit{
			UserID:             payload.OwnerID,
			LocationTypeID:     payload.LocationTypeID,
			RegionID:           payload.RegionID,
			Street:             payload.Street,
			Ground:             payload.Ground,
			Address:            payload.Address,
			Coordinates:        payload.Coordinates,
			StartDate:          payload.StartDate,
			EndDate:            payload.EndDate,
			Notes:              payload.Notes,
			SupervisorName:     payload.SupervisorName,
			SupervisorJobTitle: payload.SupervisorJobTitle,
			SupervisorMobile:   payload.SupervisorMobile,
		},
		Attachments: make([]*types.PermitAttachment, 0, len(payload.Attachments)),
		Partners:    make([]*types.PartnerSubmission, 0, len(payload.Partners)),
	}

	for _, a := range payload.Attachments {
		attachment, err := upload.put(ctx, "", a)
		if err != nil {
			upload.rollback(ctx)
			return nil, err
		}
		submission.Attachments = append(submission.Attachments, attachment)
	}

	for i, p := range payload.Partners {
		partner := p.Clone()
		ps := &types.PartnerSubmission{
			Partner:     &partner,
			Attachments: make([]*types.PermitAttachment, 0, len(p.Attachments)),
		}

		for _, a := range p.Attachments {
			attachment, err := upload.put(ctx, path.Join("partners", strconv.Itoa(i)), a)
			if err != nil {
				upload.rollback(ctx)
				return nil, err
			}
			ps.Attachments = append(ps.Attachments, attachment)
		}

		submission.Partners = append(submission.Partners, ps)
	}

	err = s.permits.CreateSubmission(ctx, submission)
	if err != nil {
		upload.rollback(ctx)
		if errors.Is(err, types.ErrOverlappingPermit) {
			return nil, &types.RejectionError{Reason: DuplicateLocationReason}
		}
		return nil, fmt.Errorf("failed to persist permit submission: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"permit_id":   submission.Permit.ID,
		"user_id":     payload.OwnerID,
		"partners":    len(submission.Partners),
		"attachments": len(upload.keys),
	}).Info("permit submitted")

	return &types.SubmissionReceipt{
		PermitID:    submission.Permit.ID,
		SubmittedAt: submission.Permit.SubmittedAt,
	}, nil
}

type uploader struct {
	service *Service
	prefix  string
	keys    []string
}

func (u *uploader) put(ctx context.Context, scope string, a types.AttachmentPayload) (*types.PermitAttachment, error) {

	content, err := base64.StdEncoding.DecodeString(a.EncodedContent)
	if err != nil {
		return nil, fmt.Errorf("failed to decode attachment %q: %w", a.FileName, err)
	}

	fileName := cleanFileName(a.FileName)
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName)))
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}

	key := path.Join(u.prefix, scope, strconv.FormatInt(a.RequirementID, 10), fileName)

	storageKey, err := u.service.objects.Put(ctx, key, content, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store attachment %q: %w", a.FileName, err)
	}
	u.keys = append(u.keys, storageKey)

	return &types.PermitAttachment{
		RequirementID: a.RequirementID,
		FileName:      fileName,
		FileSizeBytes: int64(len(content)),
		MimeType:      contentType,
		StorageKey:    storageKey,
	}, nil
}

// rollback removes every object uploaded so far. It runs even when ctx was
// cancelled.
func (u *uploader) rollback(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	for _, key := range u.keys {
		if err := u.service.objects.Delete(cleanupCtx, key); err != nil {
			u.service.logger.WithError(err).
				WithField("storage_key", key).
				Error("failed to remove uploaded attachment after failed submission")
		}
	}
	u.keys = nil
}

func cleanFileName(name string) string {
	name = path.Base(filepath.ToSlash(strings.TrimSpace(name)))
	if name == "." || name == "/" || name == "" {
		return "attachment"
	}
	return name
}
