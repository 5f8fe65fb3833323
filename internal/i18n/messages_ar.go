package i18n

import (
	"golang.org/x/text/message"
)

func init() {
	lang := arabic

	// Violations
	message.SetString(lang, "violation.required", "%s مطلوب")
	message.SetString(lang, "violation.too_short", "%s قصير جداً")
	message.SetString(lang, "violation.invalid_format", "صيغة %s غير صحيحة")
	message.SetString(lang, "violation.date_order", "يجب أن يكون %s بعد تاريخ البداية")
	message.SetString(lang, "violation.attachment_required", "يجب إرفاق %s")
	message.SetString(lang, "violation.expired", "انتهت صلاحية %s")
	message.SetString(lang, "violation.invalid", "%s غير صالح")

	// Fields
	message.SetString(lang, "field.location_type_id", "نوع الموقع")
	message.SetString(lang, "field.region_id", "المنطقة")
	message.SetString(lang, "field.street", "الشارع")
	message.SetString(lang, "field.coordinates", "الموقع على الخريطة")
	message.SetString(lang, "field.start_date", "تاريخ البداية")
	message.SetString(lang, "field.end_date", "تاريخ النهاية")
	message.SetString(lang, "field.supervisor_name", "اسم المشرف")
	message.SetString(lang, "field.supervisor_mobile", "جوال المشرف")
	message.SetString(lang, "field.partner.name", "اسم الشريك")
	message.SetString(lang, "field.partner.type", "نوع الشريك")
	message.SetString(lang, "field.partner.license_issuer", "جهة إصدار الرخصة")
	message.SetString(lang, "field.partner.license_number", "رقم الرخصة")
	message.SetString(lang, "field.partner.license_expiry", "تاريخ انتهاء الرخصة")
	message.SetString(lang, "field.partner.phone", "هاتف الشريك")
	message.SetString(lang, "field.partner.email", "البريد الإلكتروني للشريك")

	// Attachments
	message.SetString(lang, "attachment.fileTooLarge", "%s يتجاوز الحجم المسموح به")
	message.SetString(lang, "attachment.invalidFileType", "%s ليس من أنواع الملفات المقبولة")

	// Submission
	message.SetString(lang, "submission.generic_failure", "تعذر إرسال طلبك. يرجى المحاولة لاحقاً.")
	message.SetString(lang, "submission.accepted", "تم إرسال طلب التصريح.")
	message.SetString(lang, "validation.failed", "يرجى تصحيح الحقول المحددة.")
}
