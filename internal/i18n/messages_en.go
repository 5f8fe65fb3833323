package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.AmericanEnglish

	// Violations
	message.SetString(lang, "violation.required", "%s is required")
	message.SetString(lang, "violation.too_short", "%s is too short")
	message.SetString(lang, "violation.invalid_format", "%s has an invalid format")
	message.SetString(lang, "violation.date_order", "%s must be after the start date")
	message.SetString(lang, "violation.attachment_required", "%s must be attached")
	message.SetString(lang, "violation.expired", "%s has passed")
	message.SetString(lang, "violation.invalid", "%s is invalid")

	// Fields
	message.SetString(lang, "field.location_type_id", "Location type")
	message.SetString(lang, "field.region_id", "Region")
	message.SetString(lang, "field.street", "Street")
	message.SetString(lang, "field.coordinates", "Map location")
	message.SetString(lang, "field.start_date", "Start date")
	message.SetString(lang, "field.end_date", "End date")
	message.SetString(lang, "field.supervisor_name", "Supervisor name")
	message.SetString(lang, "field.supervisor_mobile", "Supervisor mobile")
	message.SetString(lang, "field.partner.name", "Partner name")
	message.SetString(lang, "field.partner.type", "Partner type")
	message.SetString(lang, "field.partner.license_issuer", "License issuer")
	message.SetString(lang, "field.partner.license_number", "License number")
	message.SetString(lang, "field.partner.license_expiry", "License expiry date")
	message.SetString(lang, "field.partner.phone", "Partner phone")
	message.SetString(lang, "field.partner.email", "Partner email")

	// Attachments
	message.SetString(lang, "attachment.fileTooLarge", "%s exceeds the maximum file size")
	message.SetString(lang, "attachment.invalidFileType", "%s is not an accepted file type")

	// Submission
	message.SetString(lang, "submission.generic_failure", "We could not submit your request. Please try again later.")
	message.SetString(lang, "submission.accepted", "Your permit request was submitted.")
	message.SetString(lang, "validation.failed", "Please correct the highlighted fields.")
}
