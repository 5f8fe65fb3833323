package server

import (
	"errors"
	"net/http"
	"strings"

	"charityportal/internal"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

type loginInput struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type loginResponse struct {
	ExpiresIn int32 `json:"expiresIn"`
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	var input loginInput
	if err := decodeInput(w, r, &input); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid login payload")
		return
	}

	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		s.writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	resp, err := s.cognitoClient.InitiateAuth(r.Context(), &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: ctypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(s.config.CognitoClientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": input.Password,
		},
	})
	if err != nil {
		var notConfirmed *ctypes.UserNotConfirmedException
		if errors.As(err, &notConfirmed) {
			s.writeError(w, http.StatusForbidden, "account is not confirmed")
			return
		}

		s.logger.WithError(err).WithField("email", email).Info("login failed")
		s.writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if resp.AuthenticationResult == nil || resp.AuthenticationResult.AccessToken == nil {
		s.writeError(w, http.StatusUnauthorized, "login failed")
		return
	}

	accessToken := aws.ToString(resp.AuthenticationResult.AccessToken)
	expiresIn := resp.AuthenticationResult.ExpiresIn

	encryptedToken, err := s.cookie.Encode(internal.COOKIE_ACCESS_TOKEN_NAME, accessToken)
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt access token")
		s.internalServerError(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    encryptedToken,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(expiresIn),
		Path:     "/",
	})

	s.writeJSON(w, http.StatusOK, loginResponse{ExpiresIn: expiresIn})
}

func (s *Service) handlePostLogout(w http.ResponseWriter, r *http.Request) {
	clearCookie(w, internal.COOKIE_ACCESS_TOKEN_NAME)
	clearCookie(w, s.config.SessionCookieName)
	w.WriteHeader(http.StatusNoContent)
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
