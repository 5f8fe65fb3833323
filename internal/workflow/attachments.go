package workflow

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"charityportal/pkg/types"
)

const (
	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
	mimeGIF  = "image/gif"
	mimeWEBP = "image/webp"
	mimePDF  = "application/pdf"
	mimeDoc  = "application/msword"
	mimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var extensionTypes = map[string]string{
	".jpg":  mimeJPEG,
	".jpeg": mimeJPEG,
	".png":  mimePNG,
	".gif":  mimeGIF,
	".webp": mimeWEBP,
	".pdf":  mimePDF,
	".doc":  mimeDoc,
	".docx": mimeDocx,
}

// What net/http sniffs for each accepted type. Word files have no dedicated
// signature in the sniffing table: .doc is an OLE container, .docx a zip.
var sniffedTypes = map[string][]string{
	mimeJPEG: {mimeJPEG},
	mimePNG:  {mimePNG},
	mimeGIF:  {mimeGIF},
	mimeWEBP: {mimeWEBP},
	mimePDF:  {mimePDF},
	mimeDoc:  {"application/octet-stream"},
	mimeDocx: {"application/zip"},
}

// FileRules is the upload policy of one call site: the size ceiling and the
// content types it accepts.
type FileRules struct {
	MaxBytes int64
	Types    []string
}

// RequestFileRules accepts images, PDF and Word documents.
func RequestFileRules(maxBytes int64) FileRules {
	return FileRules{
		MaxBytes: maxBytes,
		Types:    []string{mimeJPEG, mimePNG, mimeGIF, mimeWEBP, mimePDF, mimeDoc, mimeDocx},
	}
}

// PartnerFileRules accepts images and PDF.
func PartnerFileRules(maxBytes int64) FileRules {
	return FileRules{
		MaxBytes: maxBytes,
		Types:    []string{mimeJPEG, mimePNG, mimeGIF, mimeWEBP, mimePDF},
	}
}

func (r FileRules) check(u Upload) (string, error) {
	if u.Size > r.MaxBytes {
		return "", ErrFileTooLarge
	}

	contentType, ok := extensionTypes[strings.ToLower(filepath.Ext(u.FileName))]
	if !ok || !slices.Contains(r.Types, contentType) {
		return "", ErrInvalidFileType
	}

	return contentType, nil
}

// Upload is a file offered for a slot. Size is the size declared by the
// client, negative when unknown; the ceiling is enforced again while reading.
type Upload struct {
	FileName string
	Size     int64
	Body     io.Reader
}

// Ticket identifies one started selection. Its result is only applied if no
// later selection or removal touched the same slot in the meantime.
type Ticket struct {
	slots         *Slots
	requirementID int64
	seq           uint64
	fileName      string
	contentType   string
	maxBytes      int64
}

func (t Ticket) RequirementID() int64 {
	return t.requirementID
}

// Encode reads body and returns its complete base64 encoding. It does not
// touch slot state and is safe to run off the session loop.
func (t Ticket) Encode(ctx context.Context, body io.Reader) (string, error) {
	if body == nil {
		return "", fmt.Errorf("read %s: no content", t.fileName)
	}

	data, err := io.ReadAll(io.LimitReader(&contextReader{ctx: ctx, r: body}, t.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", t.fileName, err)
	}

	if int64(len(data)) > t.maxBytes {
		return "", ErrFileTooLarge
	}

	if !slices.Contains(sniffedTypes[t.contentType], http.DetectContentType(data)) {
		return "", ErrInvalidFileType
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

type slot struct {
	types.AttachmentSlot
	requirement types.AttachmentRequirement
	seq         uint64
}

func (sl *slot) clear() {
	sl.Content = ""
	sl.FileName = ""
	sl.ContentType = ""
	sl.Reason = ""
	sl.State = types.SlotEmpty
}

func (sl *slot) reject(err error) {
	sl.clear()
	sl.State = types.SlotRejected
	switch {
	case errors.Is(err, ErrFileTooLarge):
		sl.Reason = types.SlotReasonFileTooLarge
	case errors.Is(err, ErrInvalidFileType):
		sl.Reason = types.SlotReasonInvalidFileType
	}
}

func (sl *slot) attachmentError(err error) error {
	return &AttachmentError{RequirementID: sl.RequirementID, Name: sl.requirement.Name, Err: err}
}

// Slots holds one slot per attachment requirement of a single owner.
type Slots struct {
	rules FileRules
	order []int64
	slots map[int64]*slot
	seq   uint64
}

func NewSlots(requirements []types.AttachmentRequirement, rules FileRules) *Slots {
	s := &Slots{
		rules: rules,
		order: make([]int64, 0, len(requirements)),
		slots: make(map[int64]*slot, len(requirements)),
	}

	for _, req := range requirements {
		if _, exists := s.slots[req.ID]; exists {
			continue
		}
		s.order = append(s.order, req.ID)
		s.slots[req.ID] = &slot{
			AttachmentSlot: types.AttachmentSlot{RequirementID: req.ID, State: types.SlotEmpty},
			requirement:    req,
		}
	}

	return s
}

func (s *Slots) lookup(requirementID int64) (*slot, error) {
	sl, ok := s.slots[requirementID]
	if !ok {
		return nil, &AttachmentError{RequirementID: requirementID, Err: ErrUnknownRequirement}
	}
	return sl, nil
}

func (s *Slots) bump(sl *slot) {
	s.seq++
	sl.seq = s.seq
}

// Begin validates the declared name and size of u and marks the slot as
// validating. Any selection still in flight for the slot is superseded.
// On a validation failure the slot is left rejected with no content.
func (s *Slots) Begin(requirementID int64, u Upload) (Ticket, error) {
	sl, err := s.lookup(requirementID)
	if err != nil {
		return Ticket{}, err
	}

	s.bump(sl)

	contentType, err := s.rules.check(u)
	if err != nil {
		sl.reject(err)
		return Ticket{}, sl.attachmentError(err)
	}

	sl.clear()
	sl.State = types.SlotValidating

	return Ticket{
		slots:         s,
		requirementID: requirementID,
		seq:           sl.seq,
		fileName:      u.FileName,
		contentType:   contentType,
		maxBytes:      s.rules.MaxBytes,
	}, nil
}

// Complete applies the outcome of an encode started by Begin. It returns
// ErrSuperseded without touching anything when the ticket is stale.
func (s *Slots) Complete(t Ticket, content string, encodeErr error) error {
	if t.slots != s {
		return ErrSuperseded
	}

	sl, ok := s.slots[t.requirementID]
	if !ok || sl.seq != t.seq {
		return ErrSuperseded
	}

	switch {
	case encodeErr == nil:
		sl.Content = content
		sl.FileName = t.fileName
		sl.ContentType = t.contentType
		sl.Reason = ""
		sl.State = types.SlotValid
		return nil
	case errors.Is(encodeErr, ErrFileTooLarge), errors.Is(encodeErr, ErrInvalidFileType):
		sl.reject(encodeErr)
		return sl.attachmentError(encodeErr)
	default:
		sl.clear()
		return sl.attachmentError(encodeErr)
	}
}

// Select runs a whole selection synchronously.
func (s *Slots) Select(ctx context.Context, requirementID int64, u Upload) error {
	t, err := s.Begin(requirementID, u)
	if err != nil {
		return err
	}

	content, err := t.Encode(ctx, u.Body)
	return s.Complete(t, content, err)
}

func (s *Slots) Remove(requirementID int64) error {
	sl, err := s.lookup(requirementID)
	if err != nil {
		return err
	}

	s.bump(sl)
	sl.clear()
	return nil
}

type Preview struct {
	FileName    string
	ContentType string
	DataURI     string
}

// Preview returns nil when the slot holds no file.
func (s *Slots) Preview(requirementID int64) (*Preview, error) {
	sl, err := s.lookup(requirementID)
	if err != nil {
		return nil, err
	}

	if !sl.Populated() {
		return nil, nil
	}

	return &Preview{
		FileName:    sl.FileName,
		ContentType: sl.ContentType,
		DataURI:     fmt.Sprintf("data:%s;base64,%s", sl.ContentType, sl.Content),
	}, nil
}

func (s *Slots) Slot(requirementID int64) (types.AttachmentSlot, bool) {
	sl, ok := s.slots[requirementID]
	if !ok {
		return types.AttachmentSlot{}, false
	}
	return sl.AttachmentSlot, true
}

func (s *Slots) Requirement(requirementID int64) (types.AttachmentRequirement, bool) {
	sl, ok := s.slots[requirementID]
	if !ok {
		return types.AttachmentRequirement{}, false
	}
	return sl.requirement, true
}

func (s *Slots) Requirements() []types.AttachmentRequirement {
	out := make([]types.AttachmentRequirement, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.slots[id].requirement)
	}
	return out
}

func (s *Slots) List() []types.AttachmentSlot {
	out := make([]types.AttachmentSlot, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.slots[id].AttachmentSlot)
	}
	return out
}

func (s *Slots) Len() int {
	return len(s.order)
}

// Missing returns the mandatory requirements whose slot holds no file.
func (s *Slots) Missing() []types.AttachmentRequirement {
	out := make([]types.AttachmentRequirement, 0)
	for _, id := range s.order {
		sl := s.slots[id]
		if sl.requirement.Mandatory && !sl.Populated() {
			out = append(out, sl.requirement)
		}
	}
	return out
}

// Payloads returns the populated slots in wire form.
func (s *Slots) Payloads(ownerID int64) []types.AttachmentPayload {
	out := make([]types.AttachmentPayload, 0, len(s.order))
	for _, id := range s.order {
		sl := s.slots[id]
		if !sl.Populated() {
			continue
		}
		out = append(out, types.AttachmentPayload{
			EncodedContent: sl.Content,
			FileName:       sl.FileName,
			OwnerID:        ownerID,
			RequirementID:  id,
		})
	}
	return out
}

// reset empties every slot and invalidates outstanding tickets.
func (s *Slots) reset() {
	for _, id := range s.order {
		sl := s.slots[id]
		s.bump(sl)
		sl.clear()
	}
}
