package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	authdomain "github.com/PartyAppOfficial/Partyapp/internal/auth/domain"
	"github.com/PartyAppOfficial/Partyapp/internal/auth/usecase"
	"github.com/PartyAppOfficial/Partyapp/internal/contact"
	"github.com/PartyAppOfficial/Partyapp/internal/listing/domain"
	"github.com/PartyAppOfficial/Partyapp/internal/notify"
)

type errorResponse struct {
	Error        string               `json:"error"`
	Code         string               `json:"code,omitempty"`
	Notification *notify.Notification `json:"notification,omitempty"`
	Fields       map[string]string    `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v)
}

// AuthErrorStatus maps an auth flow error to its HTTP status.
func AuthErrorStatus(err error) int {
	var fe *usecase.FormError
	if errors.As(err, &fe) {
		return http.StatusBadRequest
	}
	switch authdomain.CodeOf(err) {
	case authdomain.CodeInvalidEmail, authdomain.CodeWeakPassword, authdomain.CodeMissingPassword:
		return http.StatusBadRequest
	case authdomain.CodeUserNotFound, authdomain.CodeWrongPassword, authdomain.CodeInvalidCredential:
		return http.StatusUnauthorized
	case authdomain.CodeOperationNotAllowed:
		return http.StatusForbidden
	case authdomain.CodeEmailAlreadyInUse:
		return http.StatusConflict
	case authdomain.CodeTooManyRequests:
		return http.StatusTooManyRequests
	case authdomain.CodeNetworkRequestFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RegistrationErrorStatus maps a registration error to its HTTP status.
func RegistrationErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrSubmissionInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidListingData), errors.Is(err, domain.ErrInvalidMedia):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func ContactErrorStatus(err error) int {
	switch {
	case errors.Is(err, contact.ErrInvalidMessage):
		return http.StatusUnprocessableEntity
	case errors.Is(err, contact.ErrDelivery):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
