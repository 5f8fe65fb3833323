package types

import "time"

type PartnerType string

const (
	PartnerTypePerson     PartnerType = "person"
	PartnerTypeGovernment PartnerType = "government"
	PartnerTypeSupplier   PartnerType = "supplier"
	PartnerTypeCompany    PartnerType = "company"
)

var PartnerTypes = []PartnerType{
	PartnerTypePerson,
	PartnerTypeGovernment,
	PartnerTypeSupplier,
	PartnerTypeCompany,
}

func (t PartnerType) Valid() bool {
	for _, known := range PartnerTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Partner is a captured sub-entity of a permit request. Once appended to a
// request it is never edited, only removed.
type Partner struct {
	ID            int64               `db:"id" json:"-"`
	PermitID      int64               `db:"permit_id" json:"-"`
	Name          string              `db:"name" json:"name"`
	Type          PartnerType         `db:"partner_type" json:"type"`
	LicenseIssuer string              `db:"license_issuer" json:"licenseIssuer,omitempty"`
	LicenseNumber string              `db:"license_number" json:"licenseNumber,omitempty"`
	LicenseExpiry *time.Time          `db:"license_expiry" json:"licenseExpiry,omitempty"`
	Phone         string              `db:"phone" json:"phone,omitempty"`
	Email         string              `db:"email" json:"email,omitempty"`
	Attachments   []AttachmentPayload `db:"-" json:"attachments"`
	CreatedAt     time.Time           `db:"created_at" json:"-"`
}

// Clone returns a copy that shares no slices with p.
func (p Partner) Clone() Partner {
	out := p
	if p.LicenseExpiry != nil {
		expiry := *p.LicenseExpiry
		out.LicenseExpiry = &expiry
	}
	out.Attachments = append([]AttachmentPayload(nil), p.Attachments...)
	return out
}

// PartnerInput is the partner sub-form as posted by the client.
type PartnerInput struct {
	Name          string `form:"name" json:"name"`
	Type          string `form:"type" json:"type"`
	LicenseIssuer string `form:"license_issuer" json:"licenseIssuer"`
	LicenseNumber string `form:"license_number" json:"licenseNumber"`
	LicenseExpiry string `form:"license_expiry" json:"licenseExpiry"`
	Phone         string `form:"phone" json:"phone"`
	Email         string `form:"email" json:"email"`
}
