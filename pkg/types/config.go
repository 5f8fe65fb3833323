package types

type Config struct {
	Environment      string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort       uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL      string `envconfig:"DATABASE_URL"`
	DatabaseMaxConns int32  `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	ReadTimeoutSec   uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec  uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Cognito Auth
	CognitoUserPoolID string `envconfig:"COGNITO_USER_POOL_ID"`
	CognitoClientID   string `envconfig:"COGNITO_CLIENT_ID"`
	CognitoIssuerURL  string `envconfig:"COGNITO_ISSUER_URL"`

	// Attachment storage. S3Endpoint points the client at LocalStack or MinIO.
	S3BucketName string `envconfig:"S3_BUCKET_NAME" default:"permit-attachments"`
	S3Endpoint   string `envconfig:"S3_ENDPOINT"`

	// Workflow sessions
	SessionCookieName     string `envconfig:"SESSION_COOKIE_NAME" default:"permit_session"`
	SessionIdleTimeoutSec uint   `envconfig:"SESSION_IDLE_TIMEOUT_SEC" default:"1800"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	// Permit business rules
	MobilePattern             string            `envconfig:"MOBILE_PATTERN" default:"^05[0-9]{8}$"`
	MobileCountryCode         string            `envconfig:"MOBILE_COUNTRY_CODE" default:"971"`
	RequestAttachmentMaxBytes int64             `envconfig:"REQUEST_ATTACHMENT_MAX_BYTES" default:"5242880"`
	PartnerAttachmentMaxBytes int64             `envconfig:"PARTNER_ATTACHMENT_MAX_BYTES" default:"2097152"`
	PartnerRequirements       map[string]string `envconfig:"PARTNER_REQUIREMENTS" default:"person:1,supplier:2|3,company:2|3,government:"`
	PartnerLicenseTypes       []string          `envconfig:"PARTNER_LICENSE_TYPES" default:"government,supplier,company"`

	// Optional collaborators
	LookupBaseURL string `envconfig:"LOOKUP_BASE_URL"`
	GeocoderURL   string `envconfig:"GEOCODER_URL"`

	DefaultLocale string `envconfig:"DEFAULT_LOCALE" default:"en-US"`
}
