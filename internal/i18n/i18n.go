package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LangParam is the query parameter used to select a language.
const LangParam = "lang"

// Message keys used outside of violations.
const (
	KeyGenericFailure   = "submission.generic_failure"
	KeySubmitted        = "submission.accepted"
	KeyValidationFailed = "validation.failed"
)

var arabic = language.MustParse("ar")

var supportedTags = []language.Tag{
	language.AmericanEnglish,
	arabic,
}

var tagMatcher = language.NewMatcher(supportedTags)

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// Localizer resolves request languages and renders workflow messages.
type Localizer struct {
	fallback language.Tag
}

// New returns a Localizer falling back to defaultLocale when a request
// states no supported preference.
func New(defaultLocale string) *Localizer {
	return &Localizer{fallback: match(defaultLocale, language.AmericanEnglish)}
}

func match(value string, fallback language.Tag) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(value)
	if err != nil || len(tags) == 0 {
		return fallback
	}

	_, index, confidence := tagMatcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}

	return supportedTags[index]
}

// ResolveTag determines the best language tag for the request.
func (l *Localizer) ResolveTag(r *http.Request) language.Tag {
	if r == nil {
		return l.fallback
	}

	if langValue := strings.TrimSpace(r.URL.Query().Get(LangParam)); langValue != "" {
		return match(langValue, l.fallback)
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		return match(accept, l.fallback)
	}

	return l.fallback
}

// Printer returns a message printer for the request.
func (l *Localizer) Printer(r *http.Request) *message.Printer {
	return message.NewPrinter(l.ResolveTag(r))
}

// Text renders a message without arguments.
func Text(p *message.Printer, key string) string {
	return p.Sprintf(message.Key(key, key))
}

// Violation renders one unmet condition. Attachment conditions name the
// requirement; the rest name the field.
func Violation(p *message.Printer, field, code, label string) string {
	subject := label
	if subject == "" {
		subject = p.Sprintf(message.Key("field."+fieldKey(field), field))
	}

	return p.Sprintf(message.Key("violation."+code, "%s is invalid"), subject)
}

// Attachment renders a refused file selection for the named requirement.
func Attachment(p *message.Printer, reason, label string) string {
	return p.Sprintf(message.Key("attachment."+reason, "%s was refused"), label)
}

// fieldKey strips positional prefixes such as "partners[0]." so every
// captured partner shares one label.
func fieldKey(field string) string {
	if strings.HasPrefix(field, "partners[") {
		if _, rest, ok := strings.Cut(field, "]."); ok {
			return "partner." + rest
		}
	}
	return field
}
