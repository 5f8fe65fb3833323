package types

import "time"

type StepView struct {
	Number   int    `json:"number"`
	Name     string `json:"name"`
	Visited  bool   `json:"visited"`
	Complete bool   `json:"complete"`
	Current  bool   `json:"current"`
}

type SlotView struct {
	RequirementID int64     `json:"requirementId"`
	Name          string    `json:"name"`
	Mandatory     bool      `json:"mandatory"`
	State         SlotState `json:"state"`
	FileName      string    `json:"fileName,omitempty"`
	Reason        string    `json:"reason,omitempty"`
}

type AttachmentSummary struct {
	RequirementID int64  `json:"requirementId"`
	FileName      string `json:"fileName"`
}

type PartnerView struct {
	Index         int                 `json:"index"`
	Name          string              `json:"name"`
	Type          PartnerType         `json:"type"`
	LicenseNumber string              `json:"licenseNumber,omitempty"`
	Attachments   []AttachmentSummary `json:"attachments"`
}

type PartnerDraftView struct {
	Type        PartnerType `json:"type"`
	PanelShown  bool        `json:"panelShown"`
	Attachments []SlotView  `json:"attachments"`
}

type RequestView struct {
	LocationTypeID     int64  `json:"locationTypeId,omitempty"`
	RegionID           int64  `json:"regionId,omitempty"`
	Street             string `json:"street"`
	Ground             string `json:"ground"`
	Address            string `json:"address"`
	Coordinates        string `json:"coordinates,omitempty"`
	StartDate          string `json:"startDate,omitempty"`
	EndDate            string `json:"endDate,omitempty"`
	Notes              string `json:"notes"`
	SupervisorName     string `json:"supervisorName"`
	SupervisorJobTitle string `json:"supervisorJobTitle"`
	SupervisorMobile   string `json:"supervisorMobile"`
}

type SessionView struct {
	ID          string            `json:"id"`
	CurrentStep int               `json:"currentStep"`
	Steps       []StepView        `json:"steps"`
	Request     RequestView       `json:"request"`
	Attachments []SlotView        `json:"attachments"`
	Partners    []PartnerView     `json:"partners"`
	Draft       *PartnerDraftView `json:"draft,omitempty"`
}

type ViolationView struct {
	Step    int    `json:"step"`
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error      string          `json:"error"`
	Violations []ViolationView `json:"violations,omitempty"`
}

type PreviewView struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	DataURI     string `json:"dataUri"`
}

type LookupsView struct {
	LocationTypes []Option      `json:"locationTypes"`
	Regions       []Option      `json:"regions"`
	PartnerTypes  []PartnerType `json:"partnerTypes"`
}

// PermitDetail is a stored permit with its partners and files.
type PermitDetail struct {
	PermitSummary
	LocationTypeID     int64               `json:"locationTypeId"`
	Ground             string              `json:"ground"`
	Address            string              `json:"address"`
	Coordinates        string              `json:"coordinates"`
	Notes              string              `json:"notes"`
	SupervisorName     string              `json:"supervisorName"`
	SupervisorJobTitle string              `json:"supervisorJobTitle"`
	SupervisorMobile   string              `json:"supervisorMobile"`
	Partners           []StoredPartnerView `json:"partners"`
	Attachments        []*PermitAttachment `json:"attachments"`
}

type StoredPartnerView struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Type          PartnerType `json:"type"`
	LicenseNumber string      `json:"licenseNumber,omitempty"`
	LicenseExpiry string      `json:"licenseExpiry,omitempty"`
}

type StepEventView struct {
	Step     int       `json:"step"`
	StepName string    `json:"stepName"`
	At       time.Time `json:"at"`
}

type SubmitView struct {
	Message string            `json:"message"`
	Receipt SubmissionReceipt `json:"receipt"`
}

type PermitSummary struct {
	ID              int64        `json:"id"`
	Status          PermitStatus `json:"status"`
	RegionID        int64        `json:"regionId"`
	Street          string       `json:"street"`
	StartDate       string       `json:"startDate"`
	EndDate         string       `json:"endDate"`
	SubmittedAt     time.Time    `json:"submittedAt"`
	AttachmentCount int          `json:"attachmentCount"`
}
