package domain

import (
	"errors"
	"fmt"
)

// ErrorCode is an identity provider failure code. The set is closed; see
// the message table in the usecase package.
type ErrorCode string

const (
	CodeEmailAlreadyInUse    ErrorCode = "auth/email-already-in-use"
	CodeInvalidEmail         ErrorCode = "auth/invalid-email"
	CodeWeakPassword         ErrorCode = "auth/weak-password"
	CodeUserNotFound         ErrorCode = "auth/user-not-found"
	CodeWrongPassword        ErrorCode = "auth/wrong-password"
	CodeTooManyRequests      ErrorCode = "auth/too-many-requests"
	CodeNetworkRequestFailed ErrorCode = "auth/network-request-failed"
	CodeOperationNotAllowed  ErrorCode = "auth/operation-not-allowed"
	CodeInvalidCredential    ErrorCode = "auth/invalid-credential"
	CodeMissingPassword      ErrorCode = "auth/missing-password"
	CodeInternalError        ErrorCode = "auth/internal-error"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrTokenNotFound  = errors.New("token not found")
)

// ProviderError carries a provider code and the underlying cause.
type ProviderError struct {
	Code ErrorCode
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return string(e.Code)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func NewProviderError(code ErrorCode, err error) *ProviderError {
	return &ProviderError{Code: code, Err: err}
}

// CodeOf extracts the provider code from err, or "" if err carries none.
func CodeOf(err error) ErrorCode {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
