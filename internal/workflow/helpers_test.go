package workflow

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"charityportal/pkg/types"
)

const (
	reqIdentity      int64 = 1
	reqTradeLicense  int64 = 2
	reqAuthorization int64 = 3
	reqSitePlan      int64 = 10
	reqEventPermit   int64 = 11
	reqOther         int64 = 12
)

var fixedNow = time.Date(2025, time.January, 5, 9, 30, 0, 0, time.UTC)

func testCatalog() []types.AttachmentRequirement {
	return []types.AttachmentRequirement{
		{ID: reqIdentity, Name: "Identity document", Mandatory: true, Scope: types.RequirementScopePartner},
		{ID: reqTradeLicense, Name: "Trade license", Mandatory: true, Scope: types.RequirementScopePartner},
		{ID: reqAuthorization, Name: "Authorization letter", Mandatory: false, Scope: types.RequirementScopePartner},
		{ID: reqSitePlan, Name: "Site plan", Mandatory: true, Scope: types.RequirementScopeRequest},
		{ID: reqEventPermit, Name: "Event permit", Mandatory: true, Scope: types.RequirementScopeRequest},
		{ID: reqOther, Name: "Other", Mandatory: false, Scope: types.RequirementScopeRequest},
	}
}

func testConfig() *types.Config {
	return &types.Config{
		MobilePattern:             "^05[0-9]{8}$",
		MobileCountryCode:         "971",
		RequestAttachmentMaxBytes: 5 << 20,
		PartnerAttachmentMaxBytes: 2 << 20,
		PartnerRequirements: map[string]string{
			"person":     "1",
			"supplier":   "2|3",
			"company":    "2|3",
			"government": "",
		},
		PartnerLicenseTypes: []string{"government", "supplier", "company"},
	}
}

func testOptions(t *testing.T) *Options {
	t.Helper()

	opts, err := NewOptions(testConfig(), testCatalog())
	require.NoError(t, err)
	opts.Now = func() time.Time { return fixedNow }

	return opts
}

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	pdfHeader = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
)

func pngUpload(name string) Upload {
	return Upload{FileName: name, Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader)}
}

func pdfUpload(name string) Upload {
	return Upload{FileName: name, Size: int64(len(pdfHeader)), Body: bytes.NewReader(pdfHeader)}
}

func ptr[T any](v T) *T {
	return &v
}

// fillRequest populates every field of the first three steps with valid
// values.
func fillRequest(t *testing.T, w *Workflow) {
	t.Helper()

	require.NoError(t, w.ApplyFields(types.PermitFieldsInput{
		LocationTypeID:     ptr(int64(3)),
		RegionID:           ptr(int64(7)),
		Street:             ptr("Al Wasl Road"),
		Ground:             ptr("North yard"),
		Address:            ptr("Jumeirah 1, Dubai"),
		StartDate:          ptr("2025-01-10"),
		EndDate:            ptr("2025-01-11"),
		Notes:              ptr("Winter clothing drive"),
		SupervisorName:     ptr("Mariam Saeed"),
		SupervisorJobTitle: ptr("Volunteer lead"),
		SupervisorMobile:   ptr("0501234567"),
	}))
	require.NoError(t, w.SelectCoordinate(types.Coordinate{Lat: 25.2048, Lng: 55.2708}))
}

func attachMandatory(t *testing.T, w *Workflow) {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, w.Attachments().Select(ctx, reqSitePlan, pdfUpload("site-plan.pdf")))
	require.NoError(t, w.Attachments().Select(ctx, reqEventPermit, pngUpload("permit.png")))
}

// readyWorkflow returns a workflow with every step valid, sitting on the
// last step.
func readyWorkflow(t *testing.T) *Workflow {
	t.Helper()

	w := New("user-1", testOptions(t))
	fillRequest(t, w)
	attachMandatory(t, w)

	for w.Current() != StepAttachments {
		_, err := w.Next()
		require.NoError(t, err)
	}

	return w
}

func codes(violations []Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Field+":"+v.Code)
	}
	return out
}
