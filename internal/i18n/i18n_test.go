package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func TestResolveTag(t *testing.T) {
	l := New("en-US")

	tests := []struct {
		name   string
		url    string
		accept string
		want   language.Tag
	}{
		{name: "no preference", url: "/", want: language.AmericanEnglish},
		{name: "accept arabic", url: "/", accept: "ar-AE,ar;q=0.9,en;q=0.5", want: arabic},
		{name: "accept english", url: "/", accept: "en-GB", want: language.AmericanEnglish},
		{name: "unsupported falls back", url: "/", accept: "ja-JP", want: language.AmericanEnglish},
		{name: "query wins", url: "/?lang=ar", accept: "en-US", want: arabic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			if tt.accept != "" {
				r.Header.Set("Accept-Language", tt.accept)
			}
			assert.Equal(t, tt.want, l.ResolveTag(r))
		})
	}

	assert.Equal(t, arabic, New("ar").ResolveTag(nil))
}

func TestViolation(t *testing.T) {
	en := message.NewPrinter(language.AmericanEnglish)
	ar := message.NewPrinter(arabic)

	assert.Equal(t, "Street is required", Violation(en, "street", "required", ""))
	assert.Equal(t, "End date must be after the start date", Violation(en, "end_date", "date_order", ""))
	assert.Equal(t, "Site plan must be attached", Violation(en, "attachment:10", "attachment_required", "Site plan"))
	assert.Equal(t, "License expiry date has passed", Violation(en, "partners[1].license_expiry", "expired", ""))
	assert.Equal(t, "الشارع مطلوب", Violation(ar, "street", "required", ""))

	assert.Equal(t, "Site plan exceeds the maximum file size", Attachment(en, "fileTooLarge", "Site plan"))
	assert.Equal(t, "Site plan is not an accepted file type", Attachment(en, "invalidFileType", "Site plan"))

	assert.Equal(t, "We could not submit your request. Please try again later.", Text(en, KeyGenericFailure))
	assert.Equal(t, "تعذر إرسال طلبك. يرجى المحاولة لاحقاً.", Text(ar, KeyGenericFailure))
}
