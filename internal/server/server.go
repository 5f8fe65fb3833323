package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"charityportal/internal/i18n"
	"charityportal/internal/metrics"
	"charityportal/internal/workflow"
	"charityportal/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type CognitoAPI interface {
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
	SignUp(ctx context.Context, params *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, params *cognitoidentityprovider.ConfirmSignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ConfirmSignUpOutput, error)
}

type LookupCatalog interface {
	Lookups(ctx context.Context) (*types.LookupsView, error)
}

type PermitReader interface {
	PermitsByUser(ctx context.Context, userID string) ([]*types.Permit, error)
	Permit(ctx context.Context, permitID int64) (*types.Permit, error)
	PartnersByPermit(ctx context.Context, permitID int64) ([]*types.Partner, error)
}

type AttachmentReader interface {
	CountByPermits(ctx context.Context, permitIDs []int64) (map[int64]int, error)
	AttachmentsByPermit(ctx context.Context, permitID int64) ([]*types.PermitAttachment, error)
}

type StepProgress interface {
	RecordStepVisit(ctx context.Context, sessionID, userID string, step int, stepName string) error
	EventsBySession(ctx context.Context, sessionID string) ([]*types.StepVisitEvent, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (types.Coordinate, error)
}

type Service struct {
	logger    *logrus.Logger
	config    *types.Config
	localizer *i18n.Localizer
	metrics   *metrics.Metrics

	cognitoClient CognitoAPI
	cookie        *securecookie.SecureCookie

	jwksCache *jwk.Cache
	jwksURL   string

	// authenticate guards the permit routes; RequireAuth unless replaced.
	authenticate func(http.Handler) http.Handler

	sessions       *workflow.Sessions
	catalog        LookupCatalog
	submitter      workflow.Submitter
	permitRepo     PermitReader
	attachmentRepo AttachmentReader
	progressRepo   StepProgress
	geocoder       Geocoder
	database       HealthChecker

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	cognitoClient CognitoAPI,
	jwkCache *jwk.Cache,
	jwksURL string,
	sessions *workflow.Sessions,
	catalog LookupCatalog,
	submitter workflow.Submitter,
	permitRepo PermitReader,
	attachmentRepo AttachmentReader,
	progressRepo StepProgress,
	geocoder Geocoder,
	database HealthChecker,
	localizer *i18n.Localizer,
	m *metrics.Metrics,
) (*Service, error) {
	mux := flow.New()

	hashKey, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("invalid cookie hash key: %w", err)
	}
	blockKey, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("invalid cookie block key: %w", err)
	}

	s := &Service{
		logger:    logger,
		config:    config,
		localizer: localizer,
		metrics:   m,

		cognitoClient: cognitoClient,
		cookie:        securecookie.New(hashKey, blockKey),

		jwksCache: jwkCache,
		jwksURL:   jwksURL,

		sessions:       sessions,
		catalog:        catalog,
		submitter:      submitter,
		permitRepo:     permitRepo,
		attachmentRepo: attachmentRepo,
		progressRepo:   progressRepo,
		geocoder:       geocoder,
		database:       database,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}
	s.authenticate = s.RequireAuth

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)
	r.Handle("/metrics", promhttp.Handler(), http.MethodGet)

	r.HandleFunc("/register", s.handlePostRegister, http.MethodPost)
	r.HandleFunc("/register/confirm", s.handlePostRegisterConfirm, http.MethodPost)
	r.HandleFunc("/login", s.handlePostLogin, http.MethodPost)
	r.HandleFunc("/logout", s.handlePostLogout, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.authenticate)

		r.HandleFunc("/permits", s.handleListPermits, http.MethodGet)
		r.HandleFunc("/permits/lookups", s.handleGetLookups, http.MethodGet)
		r.HandleFunc("/permits/:permitID|^[0-9]+$", s.handleGetPermit, http.MethodGet)

		r.HandleFunc("/permits/sessions", s.handleOpenSession, http.MethodPost)
		r.HandleFunc("/permits/sessions/:sessionID", s.handleGetSession, http.MethodGet)
		r.HandleFunc("/permits/sessions/:sessionID", s.handleDeleteSession, http.MethodDelete)
		r.HandleFunc("/permits/sessions/:sessionID/progress", s.handleGetProgress, http.MethodGet)

		r.HandleFunc("/permits/sessions/:sessionID/fields", s.handlePostFields, http.MethodPost)
		r.HandleFunc("/permits/sessions/:sessionID/coordinate", s.handlePostCoordinate, http.MethodPost)
		r.HandleFunc("/permits/sessions/:sessionID/coordinate", s.handleDeleteCoordinate, http.MethodDelete)
		r.HandleFunc("/permits/sessions/:sessionID/geocode", s.handlePostGeocode, http.MethodPost)

		r.HandleFunc("/permits/sessions/:sessionID/next", s.handlePostNext, http.MethodPost)
		r.HandleFunc("/permits/sessions/:sessionID/previous", s.handlePostPrevious, http.MethodPost)
		r.HandleFunc("/permits/sessions/:sessionID/steps/:step", s.handlePostStep, http.MethodPost)

		r.HandleFunc("/permits/sessions/:sessionID/attachments/:requirementID|^[0-9]+$", s.handlePostAttachment, http.MethodPost)
		r.HandleFunc("/permits/sessions/:sessionID/attachments/:requirementID|^[0-9]+$", s.handleDeleteAttachment, http.MethodDelete)
		r.HandleFunc("/permits/sessions/:sessionID/attachments/:requirementID|^[0-9]+$/preview", s.handleGetAttachmentPreview, http.MethodGet)

		// Draft routes are declared before the indexed partner routes so
		// "draft" is never taken for an index.
		r.HandleFunc("/permits/sessions/:sessionID/partners/draft", s.handlePostPartnerDraft, http.MethodPost)
		r.HandleFunc("/permits/sessions/:sessionID/partners/draft", s.handleDeletePartnerDraft, http.MethodDelete)
		r.HandleFunc("/permits/sessions/:sessionID/partners/draft/attachments/:requirementID|^[0-9]+$", s.handlePostDraftAttachment, http.MethodPost)
		r.HandleFunc("/permits/sessions/:sessionID/partners/draft/attachments/:requirementID|^[0-9]+$", s.handleDeleteDraftAttachment, http.MethodDelete)
		r.HandleFunc("/permits/sessions/:sessionID/partners", s.handlePostPartner, http.MethodPost)
		r.HandleFunc("/permits/sessions/:sessionID/partners/:index|^[0-9]+$", s.handleDeletePartner, http.MethodDelete)

		r.HandleFunc("/permits/sessions/:sessionID/submit", s.handlePostSubmit, http.MethodPost)
	})
}

func (s *Service) userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKeyUserID).(string)
	if !ok {
		return "", fmt.Errorf("user id not found in context")
	}
	return userID, nil
}
