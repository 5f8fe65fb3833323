package server

import (
	"errors"
	"net/http"
	"net/mail"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

type registerInput struct {
	GivenName       string `form:"given_name" json:"givenName"`
	FamilyName      string `form:"family_name" json:"familyName"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirmPassword"`
}

type confirmInput struct {
	Email string `form:"email" json:"email"`
	Code  string `form:"code" json:"code"`
}

type registerResponse struct {
	Error       string            `json:"error,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

func (s *Service) handlePostRegister(w http.ResponseWriter, r *http.Request) {
	var input registerInput
	if err := decodeInput(w, r, &input); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid registration payload")
		return
	}

	givenName := strings.TrimSpace(input.GivenName)
	familyName := strings.TrimSpace(input.FamilyName)
	email := strings.TrimSpace(input.Email)

	fieldErrors := validateRegisterInput(givenName, familyName, email, input.Password, input.ConfirmPassword)
	if len(fieldErrors) > 0 {
		s.logger.WithField("field_errors", fieldErrors).Info("validation errors during registration")
		s.writeJSON(w, http.StatusUnprocessableEntity, registerResponse{
			Error:       "Please fix the highlighted fields.",
			FieldErrors: fieldErrors,
		})
		return
	}

	_, err := s.cognitoClient.SignUp(r.Context(), &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(s.config.CognitoClientID),
		Username: aws.String(email),
		Password: aws.String(input.Password),
		UserAttributes: []ctypes.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
			{Name: aws.String("given_name"), Value: aws.String(givenName)},
			{Name: aws.String("family_name"), Value: aws.String(familyName)},
		},
	})
	if err != nil {
		s.logger.WithError(err).Error("failed to signup user")

		status, msg, fieldErrors := s.mapCognitoSignUpError(err)
		s.writeJSON(w, status, registerResponse{Error: msg, FieldErrors: fieldErrors})
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (s *Service) handlePostRegisterConfirm(w http.ResponseWriter, r *http.Request) {
	var input confirmInput
	if err := decodeInput(w, r, &input); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid confirmation payload")
		return
	}

	_, err := s.cognitoClient.ConfirmSignUp(r.Context(), &cognitoidentityprovider.ConfirmSignUpInput{
		ClientId:         aws.String(s.config.CognitoClientID),
		Username:         aws.String(strings.TrimSpace(input.Email)),
		ConfirmationCode: aws.String(strings.TrimSpace(input.Code)),
	})
	if err != nil {
		s.logger.WithError(err).Error("failed to confirm user signup")

		var codeMismatch *ctypes.CodeMismatchException
		if errors.As(err, &codeMismatch) {
			s.writeError(w, http.StatusUnprocessableEntity, "Invalid confirmation code. Please check the code and try again.")
			return
		}

		s.writeError(w, http.StatusBadGateway, "Unable to confirm account. Please try again.")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

var (
	hasUpperReg  = regexp.MustCompile(`[A-Z]`)
	hasLowerReg  = regexp.MustCompile(`[a-z]`)
	hasDigitReg  = regexp.MustCompile(`[0-9]`)
	hasSymbolReg = regexp.MustCompile(`[^A-Za-z0-9]`)
)

func validateRegisterInput(givenName, familyName, email, password, confirmPassword string) map[string]string {
	errs := map[string]string{}

	if givenName == "" {
		errs["given_name"] = "First name is required."
	}

	if familyName == "" {
		errs["family_name"] = "Last name is required."
	}

	if email == "" {
		errs["email"] = "Email is required."
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "Enter a valid email address."
	}

	if password != confirmPassword {
		errs["confirm_password"] = "Passwords do not match."
	}

	hasUpper := hasUpperReg.MatchString(password)
	hasLower := hasLowerReg.MatchString(password)
	hasDigit := hasDigitReg.MatchString(password)
	hasSymbol := hasSymbolReg.MatchString(password)

	if len(password) < 12 || !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		errs["password"] = "Password must be at least 12 characters and include uppercase, lowercase, number, and symbol."
	}

	return errs
}

func (s *Service) mapCognitoSignUpError(err error) (int, string, map[string]string) {
	fieldErrs := map[string]string{}

	var invalidPw *ctypes.InvalidPasswordException
	if errors.As(err, &invalidPw) {
		fieldErrs["password"] = "Password must include uppercase, lowercase, number, and symbol (min 12)."
		return http.StatusUnprocessableEntity, "Please fix the highlighted fields.", fieldErrs
	}

	var userExists *ctypes.UsernameExistsException
	if errors.As(err, &userExists) {
		fieldErrs["email"] = "An account with this email already exists."
		return http.StatusConflict, "Try logging in instead.", fieldErrs
	}

	var invalidParam *ctypes.InvalidParameterException
	if errors.As(err, &invalidParam) {
		return http.StatusUnprocessableEntity, "Some details are invalid. Please review and try again.", fieldErrs
	}

	s.logger.WithError(err).Error("unhandled cognito signup error")

	return http.StatusBadGateway, "Unable to create account right now. Please try again.", fieldErrs
}
