package types

import "time"

type RequirementScope string

const (
	RequirementScopeRequest RequirementScope = "request"
	RequirementScopePartner RequirementScope = "partner"
)

// AttachmentRequirement describes a file the permit or one of its partners
// may have to carry. The set is loaded once per workflow session.
type AttachmentRequirement struct {
	ID           int64            `db:"id" json:"id"`
	Name         string           `db:"name" json:"name"`
	Mandatory    bool             `db:"is_mandatory" json:"mandatory"`
	Scope        RequirementScope `db:"scope" json:"scope"`
	DisplayOrder int              `db:"display_order" json:"-"`
	IsActive     bool             `db:"is_active" json:"-"`
	CreatedAt    time.Time        `db:"created_at" json:"-"`
}

type SlotState string

const (
	SlotEmpty      SlotState = "empty"
	SlotValidating SlotState = "validating"
	SlotValid      SlotState = "valid"
	SlotRejected   SlotState = "rejected"
)

// Rejection reasons carried by a rejected slot.
const (
	SlotReasonFileTooLarge    = "fileTooLarge"
	SlotReasonInvalidFileType = "invalidFileType"
)

// AttachmentSlot is one requirement bound to its owner together with the
// file currently selected for it. Content and FileName are either both set
// or both empty.
type AttachmentSlot struct {
	RequirementID int64     `json:"requirementId"`
	OwnerID       int64     `json:"ownerId"`
	Content       string    `json:"-"`
	FileName      string    `json:"fileName,omitempty"`
	ContentType   string    `json:"contentType,omitempty"`
	State         SlotState `json:"state"`
	Reason        string    `json:"reason,omitempty"`
}

func (s AttachmentSlot) Populated() bool {
	return s.State == SlotValid && s.Content != ""
}

// AttachmentPayload is the wire shape of one attachment in a submission.
// OwnerID is 0 while the owning record has not been created yet.
type AttachmentPayload struct {
	EncodedContent string `json:"encodedContent"`
	FileName       string `json:"fileName"`
	OwnerID        int64  `json:"ownerId"`
	RequirementID  int64  `json:"requirementId"`
}

// PermitAttachment is a stored attachment. PartnerID is set when the file
// belongs to a partner instead of the permit itself.
type PermitAttachment struct {
	ID            int64     `db:"id" json:"id"`
	PermitID      int64     `db:"permit_id" json:"permitId"`
	PartnerID     *int64    `db:"partner_id" json:"partnerId,omitempty"`
	RequirementID int64     `db:"requirement_id" json:"requirementId"`
	FileName      string    `db:"file_name" json:"fileName"`
	FileSizeBytes int64     `db:"file_size_bytes" json:"fileSizeBytes"`
	MimeType      string    `db:"mime_type" json:"mimeType"`
	StorageKey    string    `db:"storage_key" json:"-"`
	UploadedAt    time.Time `db:"uploaded_at" json:"uploadedAt"`
}
