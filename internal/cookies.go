package internal

const (
	COOKIE_ACCESS_TOKEN_NAME = "charityportal_access_token"
)
