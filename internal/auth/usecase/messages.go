package usecase

import (
	"errors"

	"github.com/PartyAppOfficial/Partyapp/internal/auth/domain"
)

// Messages shown by the auth forms.
const (
	MsgLoginFieldsRequired  = "Please enter email and password"
	MsgSignupFieldsRequired = "Please fill all fields"
	MsgPasswordMismatch     = "Passwords do not match"
	MsgPasswordTooShort     = "Password should be at least 6 characters"
	MsgGenericError         = "An error occurred. Please try again"

	MsgLoginSuccess   = "Welcome back!"
	MsgSignupSuccess  = "Account created successfully!"
	MsgLogoutSuccess  = "Logged out"
	MsgProfileUpdated = "Profile updated"
)

const minPasswordLength = 6

var codeMessages = map[domain.ErrorCode]string{
	domain.CodeEmailAlreadyInUse:    "This email is already registered",
	domain.CodeInvalidEmail:         "Invalid email address",
	domain.CodeWeakPassword:         "Password should be at least 6 characters",
	domain.CodeUserNotFound:         "No account found with this email",
	domain.CodeWrongPassword:        "Incorrect password",
	domain.CodeTooManyRequests:      "Too many attempts. Please try again later",
	domain.CodeNetworkRequestFailed: "Network error. Check your connection",
	domain.CodeOperationNotAllowed:  "Email/password authentication is not enabled",
	domain.CodeInvalidCredential:    "Invalid credentials. Please try again",
	domain.CodeMissingPassword:      "Please enter a password",
}

// Message maps a provider code to the text shown to the user.
func Message(code domain.ErrorCode) string {
	if msg, ok := codeMessages[code]; ok {
		return msg
	}
	return MsgGenericError
}

// FormError is a failed pre-check. Nothing was sent to the provider.
type FormError struct {
	Message string
}

func (e *FormError) Error() string { return e.Message }

// UserMessage returns the text the page should display for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var fe *FormError
	if errors.As(err, &fe) {
		return fe.Message
	}
	return Message(domain.CodeOf(err))
}
