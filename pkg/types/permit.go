package types

import (
	"time"
)

type PermitStatus string

const (
	PermitStatusSubmitted   PermitStatus = "SUBMITTED"
	PermitStatusUnderReview PermitStatus = "UNDER_REVIEW"
	PermitStatusApproved    PermitStatus = "APPROVED"
	PermitStatusRejected    PermitStatus = "REJECTED"
)

// Permit is a submitted distribution-site permit as stored.
type Permit struct {
	ID     int64  `db:"id"`
	UserID string `db:"user_id"`

	LocationTypeID int64  `db:"location_type_id"`
	RegionID       int64  `db:"region_id"`
	Street         string `db:"street"`
	Ground         string `db:"ground"`
	Address        string `db:"address"`
	Coordinates    string `db:"coordinates"`

	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	Notes     string    `db:"notes"`

	SupervisorName     string `db:"supervisor_name"`
	SupervisorJobTitle string `db:"supervisor_job_title"`
	SupervisorMobile   string `db:"supervisor_mobile"`

	Status      PermitStatus `db:"status"`
	SubmittedAt time.Time    `db:"submitted_at"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

// PermitRequest is the primary record while it is being composed.
// Zero ids and nil pointers mean "not provided yet".
type PermitRequest struct {
	OwnerID string

	LocationTypeID int64
	RegionID       int64
	Street         string
	Ground         string
	Address        string
	Coordinate     *Coordinate

	StartDate *time.Time
	EndDate   *time.Time
	Notes     string

	SupervisorName     string
	SupervisorJobTitle string
	SupervisorMobile   string
}

// PermitFieldsInput carries a partial update of the primary record. Nil
// fields are left untouched; empty strings clear a field.
type PermitFieldsInput struct {
	LocationTypeID     *int64  `form:"location_type_id" json:"locationTypeId"`
	RegionID           *int64  `form:"region_id" json:"regionId"`
	Street             *string `form:"street" json:"street"`
	Ground             *string `form:"ground" json:"ground"`
	Address            *string `form:"address" json:"address"`
	StartDate          *string `form:"start_date" json:"startDate"`
	EndDate            *string `form:"end_date" json:"endDate"`
	Notes              *string `form:"notes" json:"notes"`
	SupervisorName     *string `form:"supervisor_name" json:"supervisorName"`
	SupervisorJobTitle *string `form:"supervisor_job_title" json:"supervisorJobTitle"`
	SupervisorMobile   *string `form:"supervisor_mobile" json:"supervisorMobile"`
}

// PermitPayload is the composite request handed to the submission
// collaborator.
type PermitPayload struct {
	OwnerID            string              `json:"ownerId"`
	LocationTypeID     int64               `json:"locationTypeId"`
	RegionID           int64               `json:"regionId"`
	Street             string              `json:"street"`
	Ground             string              `json:"ground"`
	Address            string              `json:"address"`
	Coordinates        string              `json:"coordinates"`
	StartDate          time.Time           `json:"startDate"`
	EndDate            time.Time           `json:"endDate"`
	Notes              string              `json:"notes"`
	SupervisorName     string              `json:"supervisorName"`
	SupervisorJobTitle string              `json:"supervisorJobTitle"`
	SupervisorMobile   string              `json:"supervisorMobile"`
	Attachments        []AttachmentPayload `json:"attachments"`
	Partners           []Partner           `json:"partners"`
}

type SubmissionReceipt struct {
	PermitID    int64     `json:"permitId"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// PermitSubmission groups everything persisted for one accepted payload.
type PermitSubmission struct {
	Permit      *Permit
	Partners    []*PartnerSubmission
	Attachments []*PermitAttachment
}

type PartnerSubmission struct {
	Partner     *Partner
	Attachments []*PermitAttachment
}
