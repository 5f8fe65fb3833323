package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/flow"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"charityportal/internal/i18n"
	"charityportal/internal/workflow"
	"charityportal/pkg/types"
)

const testUserHeader = "X-Test-User"

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	pdfHeader = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
)

type fakeCatalog struct{}

func (fakeCatalog) Lookups(context.Context) (*types.LookupsView, error) {
	return &types.LookupsView{
		LocationTypes: []types.Option{{ID: 3, Label: "Mosque"}},
		Regions:       []types.Option{{ID: 7, Label: "Deira"}},
		PartnerTypes:  types.PartnerTypes,
	}, nil
}

type fakeSubmitter struct {
	mu       sync.Mutex
	payloads []*types.PermitPayload
	err      error
}

func (f *fakeSubmitter) Submit(_ context.Context, payload *types.PermitPayload) (*types.SubmissionReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.payloads = append(f.payloads, payload)
	if f.err != nil {
		return nil, f.err
	}
	return &types.SubmissionReceipt{PermitID: 99, SubmittedAt: time.Now()}, nil
}

type fakePermits struct {
	permits []*types.Permit
}

func (f *fakePermits) Permit(_ context.Context, permitID int64) (*types.Permit, error) {
	for _, p := range f.permits {
		if p.ID == permitID {
			return p, nil
		}
	}
	return nil, types.ErrPermitNotFound
}

func (f *fakePermits) PartnersByPermit(_ context.Context, permitID int64) ([]*types.Partner, error) {
	expiry := time.Date(2031, time.March, 1, 0, 0, 0, 0, time.UTC)
	return []*types.Partner{
		{ID: 1, PermitID: permitID, Name: "Gulf Supplies LLC", Type: types.PartnerTypeSupplier, LicenseNumber: "CN-1", LicenseExpiry: &expiry},
	}, nil
}

func (f *fakePermits) PermitsByUser(_ context.Context, userID string) ([]*types.Permit, error) {
	out := make([]*types.Permit, 0)
	for _, p := range f.permits {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeAttachments struct{}

func (fakeAttachments) AttachmentsByPermit(_ context.Context, permitID int64) ([]*types.PermitAttachment, error) {
	return []*types.PermitAttachment{
		{ID: 1, PermitID: permitID, RequirementID: 10, FileName: "plan.pdf", StorageKey: "permits/x/10/plan.pdf"},
	}, nil
}

func (fakeAttachments) CountByPermits(_ context.Context, ids []int64) (map[int64]int, error) {
	out := make(map[int64]int, len(ids))
	for _, id := range ids {
		out[id] = 2
	}
	return out, nil
}

type fakeRecorder struct {
	mu    sync.Mutex
	steps []string
}

func (f *fakeRecorder) EventsBySession(_ context.Context, sessionID string) ([]*types.StepVisitEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*types.StepVisitEvent, 0, len(f.steps))
	for i, name := range f.steps {
		out = append(out, &types.StepVisitEvent{SessionID: sessionID, Step: i + 1, StepName: name})
	}
	return out, nil
}

func (f *fakeRecorder) RecordStepVisit(_ context.Context, _, _ string, _ int, stepName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps = append(f.steps, stepName)
	return nil
}

type fakeGeocoder struct {
	coordinate types.Coordinate
	err        error
}

func (f *fakeGeocoder) Geocode(context.Context, string) (types.Coordinate, error) {
	return f.coordinate, f.err
}

// =============================================================================
// Server Test Suite
// =============================================================================

type ServerSuite struct {
	suite.Suite
	service   *Service
	mux       *flow.Mux
	submitter *fakeSubmitter
	recorder  *fakeRecorder
	geocoder  *fakeGeocoder
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	config := &types.Config{
		SessionCookieName:         "permit_session",
		SessionIdleTimeoutSec:     1800,
		MobilePattern:             "^05[0-9]{8}$",
		MobileCountryCode:         "971",
		RequestAttachmentMaxBytes: 64,
		PartnerAttachmentMaxBytes: 64,
		PartnerRequirements: map[string]string{
			"person":     "1",
			"supplier":   "2",
			"company":    "2",
			"government": "",
		},
		PartnerLicenseTypes: []string{"government", "supplier", "company"},
	}

	opts, err := workflow.NewOptions(config, []types.AttachmentRequirement{
		{ID: 1, Name: "Identity document", Mandatory: true, Scope: types.RequirementScopePartner},
		{ID: 2, Name: "Trade license", Mandatory: true, Scope: types.RequirementScopePartner},
		{ID: 10, Name: "Site plan", Mandatory: true, Scope: types.RequirementScopeRequest},
		{ID: 11, Name: "Event permit", Mandatory: false, Scope: types.RequirementScopeRequest},
	})
	s.Require().NoError(err)

	s.submitter = &fakeSubmitter{}
	s.recorder = &fakeRecorder{}
	s.geocoder = &fakeGeocoder{coordinate: types.Coordinate{Lat: 25.1, Lng: 55.1}}

	s.service = &Service{
		logger:    logger,
		config:    config,
		localizer: i18n.New("en-US"),
		cookie:    securecookie.New(securecookie.GenerateRandomKey(32), securecookie.GenerateRandomKey(32)),

		sessions:  workflow.NewSessions(logger, nil, opts, time.Minute),
		catalog:   fakeCatalog{},
		submitter: s.submitter,
		permitRepo: &fakePermits{permits: []*types.Permit{
			{ID: 5, UserID: "user-1", Status: types.PermitStatusSubmitted, Street: "Al Wasl Road"},
			{ID: 6, UserID: "user-2", Status: types.PermitStatusApproved},
		}},
		attachmentRepo: fakeAttachments{},
		progressRepo:   s.recorder,
		geocoder:       s.geocoder,
	}
	s.service.authenticate = func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get(testUserHeader)
			if userID == "" {
				s.service.writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKeyUserID, userID)))
		})
	}

	s.mux = flow.New()
	s.service.buildRouter(s.mux)
}

func (s *ServerSuite) TearDownTest() {
	s.service.sessions.CloseAll()
}

func (s *ServerSuite) request(method, path, user string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, body)
	if user != "" {
		r.Header.Set(testUserHeader, user)
	}
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}

	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, r)
	return rec
}

func (s *ServerSuite) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	return s.request(http.MethodPost, path, "user-1", strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
}

func (s *ServerSuite) upload(path, fileName string, content []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", fileName)
	s.Require().NoError(err)
	_, err = fw.Write(content)
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	return s.request(http.MethodPost, path, "user-1", &body, mw.FormDataContentType())
}

func decodeBody[T any](s *ServerSuite, rec *httptest.ResponseRecorder) T {
	var out T
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *ServerSuite) open() string {
	rec := s.request(http.MethodPost, "/permits/sessions", "user-1", nil, "")
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[types.SessionView](s, rec).ID
}

func (s *ServerSuite) fillThroughSupervisor(base string) {
	rec := s.postForm(base+"/fields", url.Values{
		"location_type_id":  {"3"},
		"region_id":         {"7"},
		"street":            {"Al Wasl Road"},
		"start_date":        {"2030-01-10"},
		"end_date":          {"2030-01-12"},
		"supervisor_name":   {"Mariam Saeed"},
		"supervisor_mobile": {"0501234567"},
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = s.postForm(base+"/coordinate", url.Values{"coordinates": {"25.2048/55.2708"}})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
}

func (s *ServerSuite) advanceTo(base string, step workflow.Step) {
	for {
		rec := s.request(http.MethodPost, base+"/next", "user-1", nil, "")
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
		if decodeBody[types.SessionView](s, rec).CurrentStep == int(step) {
			return
		}
	}
}

// =============================================================================
// Tests
// =============================================================================

func (s *ServerSuite) TestHealth() {
	rec := s.request(http.MethodGet, "/healthz", "", nil, "")
	s.Equal(http.StatusOK, rec.Code)
}

func (s *ServerSuite) TestAuthenticationRequired() {
	rec := s.request(http.MethodGet, "/permits/lookups", "", nil, "")
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *ServerSuite) TestLookupsAndPermits() {
	rec := s.request(http.MethodGet, "/permits/lookups", "user-1", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	lookups := decodeBody[types.LookupsView](s, rec)
	s.Equal("Deira", lookups.Regions[0].Label)
	s.Len(lookups.PartnerTypes, 4)

	rec = s.request(http.MethodGet, "/permits", "user-1", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	permits := decodeBody[[]types.PermitSummary](s, rec)
	s.Require().Len(permits, 1)
	s.Equal(int64(5), permits[0].ID)
	s.Equal(2, permits[0].AttachmentCount)
}

func (s *ServerSuite) TestPermitDetail() {
	rec := s.request(http.MethodGet, "/permits/5", "user-1", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	detail := decodeBody[types.PermitDetail](s, rec)
	s.Equal("Al Wasl Road", detail.Street)
	s.Equal(1, detail.AttachmentCount)
	s.Require().Len(detail.Partners, 1)
	s.Equal("2031-03-01", detail.Partners[0].LicenseExpiry)
	s.NotContains(rec.Body.String(), "permits/x/10")

	s.Run("other users' permits are hidden", func() {
		rec := s.request(http.MethodGet, "/permits/6", "user-1", nil, "")
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("unknown permit", func() {
		rec := s.request(http.MethodGet, "/permits/404", "user-1", nil, "")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *ServerSuite) TestProgress() {
	id := s.open()

	rec := s.request(http.MethodGet, "/permits/sessions/"+id+"/progress", "user-1", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	events := decodeBody[[]types.StepEventView](s, rec)
	s.Require().Len(events, 1)
	s.Equal("main_info", events[0].StepName)

	rec = s.request(http.MethodGet, "/permits/sessions/"+id+"/progress", "user-2", nil, "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ServerSuite) TestOpenResumesCookieSession() {
	rec := s.request(http.MethodPost, "/permits/sessions", "user-1", nil, "")
	s.Require().Equal(http.StatusCreated, rec.Code)
	opened := decodeBody[types.SessionView](s, rec)
	s.Equal(1, opened.CurrentStep)
	s.Len(opened.Steps, workflow.StepCount)
	s.Equal([]string{"main_info"}, s.recorder.steps)

	cookies := rec.Result().Cookies()
	s.Require().Len(cookies, 1)

	r := httptest.NewRequest(http.MethodPost, "/permits/sessions", nil)
	r.Header.Set(testUserHeader, "user-1")
	r.AddCookie(cookies[0])
	resumed := httptest.NewRecorder()
	s.mux.ServeHTTP(resumed, r)

	s.Require().Equal(http.StatusOK, resumed.Code)
	s.Equal(opened.ID, decodeBody[types.SessionView](s, resumed).ID)

	s.Run("another user cannot reach it", func() {
		rec := s.request(http.MethodGet, "/permits/sessions/"+opened.ID, "user-2", nil, "")
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("delete closes it", func() {
		rec := s.request(http.MethodDelete, "/permits/sessions/"+opened.ID, "user-1", nil, "")
		s.Equal(http.StatusNoContent, rec.Code)

		rec = s.request(http.MethodGet, "/permits/sessions/"+opened.ID, "user-1", nil, "")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *ServerSuite) TestNextRefusedWithLocalizedViolations() {
	base := "/permits/sessions/" + s.open()

	rec := s.request(http.MethodPost, base+"/next", "user-1", nil, "")
	s.Require().Equal(http.StatusUnprocessableEntity, rec.Code)

	resp := decodeBody[types.ErrorResponse](s, rec)
	s.Equal("Please correct the highlighted fields.", resp.Error)
	s.Len(resp.Violations, 4)

	messages := make([]string, 0)
	for _, v := range resp.Violations {
		messages = append(messages, v.Message)
	}
	s.Contains(messages, "Street is required")

	rec = s.request(http.MethodPost, base+"/next?lang=ar", "user-1", nil, "")
	resp = decodeBody[types.ErrorResponse](s, rec)
	arabic := make([]string, 0)
	for _, v := range resp.Violations {
		arabic = append(arabic, v.Message)
	}
	s.Contains(arabic, "الشارع مطلوب")
}

func (s *ServerSuite) TestInvalidDateIsRefused() {
	base := "/permits/sessions/" + s.open()

	rec := s.postForm(base+"/fields", url.Values{"start_date": {"10/01/2030"}})
	s.Require().Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal("start_date", decodeBody[types.ErrorResponse](s, rec).Violations[0].Field)
}

func (s *ServerSuite) TestFullSubmission() {
	base := "/permits/sessions/" + s.open()
	s.fillThroughSupervisor(base)
	s.advanceTo(base, workflow.StepAttachments)

	s.Run("submission blocked without mandatory attachment", func() {
		rec := s.request(http.MethodPost, base+"/submit", "user-1", nil, "")
		s.Require().Equal(http.StatusUnprocessableEntity, rec.Code)
		s.Equal("Site plan must be attached", decodeBody[types.ErrorResponse](s, rec).Violations[0].Message)
	})

	rec := s.upload(base+"/attachments/10", "plan.pdf", pdfHeader)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	view := decodeBody[types.SessionView](s, rec)
	s.Equal(types.SlotValid, view.Attachments[0].State)

	rec = s.request(http.MethodGet, base+"/attachments/10/preview", "user-1", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.True(strings.HasPrefix(decodeBody[types.PreviewView](s, rec).DataURI, "data:application/pdf;base64,"))

	rec = s.request(http.MethodPost, base+"/submit", "user-1", nil, "")
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	submitted := decodeBody[types.SubmitView](s, rec)
	s.Equal(int64(99), submitted.Receipt.PermitID)
	s.Equal("Your permit request was submitted.", submitted.Message)

	s.Require().Len(s.submitter.payloads, 1)
	s.Equal("+971501234567", s.submitter.payloads[0].SupervisorMobile)
	s.Equal("25.2048/55.2708", s.submitter.payloads[0].Coordinates)

	s.Equal([]string{"main_info", "schedule", "supervisor", "partners", "attachments"}, s.recorder.steps)

	rec = s.request(http.MethodGet, base, "user-1", nil, "")
	s.Equal(1, decodeBody[types.SessionView](s, rec).CurrentStep)
}

func (s *ServerSuite) TestBusinessRejectionIsShownVerbatim() {
	base := "/permits/sessions/" + s.open()
	s.fillThroughSupervisor(base)
	s.Require().Equal(http.StatusOK, s.upload(base+"/attachments/10", "plan.pdf", pdfHeader).Code)
	s.Require().Equal(http.StatusOK, s.request(http.MethodPost, base+"/steps/attachments", "user-1", nil, "").Code)

	s.submitter.err = &types.RejectionError{Reason: "Duplicate location"}
	rec := s.request(http.MethodPost, base+"/submit", "user-1", nil, "")
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("Duplicate location", decodeBody[types.ErrorResponse](s, rec).Error)

	s.submitter.err = errors.New("connection reset")
	rec = s.request(http.MethodPost, base+"/submit", "user-1", nil, "")
	s.Equal(http.StatusBadGateway, rec.Code)
	s.Equal("We could not submit your request. Please try again later.", decodeBody[types.ErrorResponse](s, rec).Error)

	// Nothing was lost by either failure.
	rec = s.request(http.MethodGet, base, "user-1", nil, "")
	view := decodeBody[types.SessionView](s, rec)
	s.Equal(5, view.CurrentStep)
	s.Equal("plan.pdf", view.Attachments[0].FileName)
}

func (s *ServerSuite) TestAttachmentRejections() {
	base := "/permits/sessions/" + s.open()

	rec := s.upload(base+"/attachments/10", "plan.exe", pdfHeader)
	s.Require().Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal("Site plan is not an accepted file type", decodeBody[types.ErrorResponse](s, rec).Error)

	rec = s.upload(base+"/attachments/10", "plan.pdf", bytes.Repeat(pdfHeader, 10))
	s.Require().Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal("Site plan exceeds the maximum file size", decodeBody[types.ErrorResponse](s, rec).Error)

	rec = s.request(http.MethodGet, base, "user-1", nil, "")
	slot := decodeBody[types.SessionView](s, rec).Attachments[0]
	s.Equal(types.SlotRejected, slot.State)
	s.Equal(types.SlotReasonFileTooLarge, slot.Reason)

	rec = s.request(http.MethodGet, base+"/attachments/10/preview", "user-1", nil, "")
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.upload(base+"/attachments/77", "plan.pdf", pdfHeader)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ServerSuite) TestPartnerFlow() {
	base := "/permits/sessions/" + s.open()

	rec := s.upload(base+"/partners/draft/attachments/1", "id.png", pngHeader)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.postForm(base+"/partners/draft", url.Values{"type": {"Person"}})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	view := decodeBody[types.SessionView](s, rec)
	s.Require().NotNil(view.Draft)
	s.Equal(types.PartnerTypePerson, view.Draft.Type)
	s.Len(view.Draft.Attachments, 1)

	rec = s.postForm(base+"/partners", url.Values{"name": {"Omar Khalid"}, "type": {"person"}})
	s.Require().Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal("Identity document must be attached", decodeBody[types.ErrorResponse](s, rec).Violations[0].Message)

	rec = s.upload(base+"/partners/draft/attachments/1", "id.png", pngHeader)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	body, err := json.Marshal(types.PartnerInput{Name: "Omar Khalid", Type: "person"})
	s.Require().NoError(err)
	rec = s.request(http.MethodPost, base+"/partners", "user-1", bytes.NewReader(body), "application/json")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	view = decodeBody[types.SessionView](s, rec)
	s.Require().Len(view.Partners, 1)
	s.Equal("id.png", view.Partners[0].Attachments[0].FileName)
	s.Nil(view.Draft)

	rec = s.request(http.MethodDelete, base+"/partners/3", "user-1", nil, "")
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.request(http.MethodDelete, base+"/partners/0", "user-1", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Empty(decodeBody[types.SessionView](s, rec).Partners)
}

func (s *ServerSuite) TestGeocodePrefill() {
	base := "/permits/sessions/" + s.open()
	s.Require().Equal(http.StatusOK, s.postForm(base+"/fields", url.Values{"address": {"Deira, Dubai"}}).Code)

	s.Run("failure leaves the state unchanged", func() {
		s.geocoder.err = errors.New("timeout")
		rec := s.request(http.MethodPost, base+"/geocode", "user-1", nil, "")
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Empty(decodeBody[types.SessionView](s, rec).Request.Coordinates)
	})

	s.Run("fills an empty coordinate", func() {
		s.geocoder.err = nil
		rec := s.request(http.MethodPost, base+"/geocode", "user-1", nil, "")
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Equal("25.1/55.1", decodeBody[types.SessionView](s, rec).Request.Coordinates)
	})

	s.Run("never overrides a selection", func() {
		s.Require().Equal(http.StatusOK, s.postForm(base+"/coordinate", url.Values{"lat": {"24.5"}, "lng": {"54.4"}}).Code)
		rec := s.request(http.MethodPost, base+"/geocode", "user-1", nil, "")
		s.Equal("24.5/54.4", decodeBody[types.SessionView](s, rec).Request.Coordinates)
	})
}

func (s *ServerSuite) TestNavigation() {
	base := "/permits/sessions/" + s.open()

	rec := s.request(http.MethodPost, base+"/previous", "user-1", nil, "")
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.request(http.MethodPost, base+"/steps/9", "user-1", nil, "")
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.request(http.MethodPost, base+"/steps/supervisor", "user-1", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	view := decodeBody[types.SessionView](s, rec)
	s.Equal(3, view.CurrentStep)
	s.True(view.Steps[2].Visited)
	s.False(view.Steps[1].Visited)

	rec = s.request(http.MethodPost, base+"/previous", "user-1", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(2, decodeBody[types.SessionView](s, rec).CurrentStep)
}

func (s *ServerSuite) TestRouteParametersReachHandlers() {
	id := s.open()
	base := "/permits/sessions/" + id

	rec := s.request(http.MethodGet, base, "user-1", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(id, decodeBody[types.SessionView](s, rec).ID)

	rec = s.request(http.MethodDelete, base+"/attachments/99", "user-1", nil, "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("attachment 99: unknown attachment requirement", decodeBody[types.ErrorResponse](s, rec).Error)

	rec = s.request(http.MethodDelete, base+"/partners/4", "user-1", nil, "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("partner not found: index 4", decodeBody[types.ErrorResponse](s, rec).Error)

	rec = s.request(http.MethodPost, base+"/steps/2", "user-1", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(2, decodeBody[types.SessionView](s, rec).CurrentStep)

	rec = s.request(http.MethodGet, "/permits/5", "user-1", nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(int64(5), decodeBody[types.PermitDetail](s, rec).ID)
}
