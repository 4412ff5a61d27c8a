package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/PartyAppOfficial/Partyapp/internal/contact"
	"github.com/PartyAppOfficial/Partyapp/internal/notify"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
)

type ContactService interface {
	Submit(ctx context.Context, m contact.Message) (notify.Notification, error)
}

type ContactHandler struct {
	contact ContactService
	logger  *logger.Logger
}

func NewContactHandler(svc ContactService, log *logger.Logger) *ContactHandler {
	return &ContactHandler{contact: svc, logger: log.Named("ContactHTTPHandler")}
}

type contactResponse struct {
	Notification notify.Notification `json:"notification"`
	Fields       map[string]string   `json:"fields,omitempty"`
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var m contact.Message
	if err := decodeJSON(w, r, &m); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	n, err := h.contact.Submit(r.Context(), m)
	if err != nil {
		resp := contactResponse{Notification: n}
		var invalid *contact.InvalidError
		if errors.As(err, &invalid) {
			resp.Fields = invalid.Fields
		}
		writeJSON(w, ContactErrorStatus(err), resp)
		return
	}
	writeJSON(w, http.StatusOK, contactResponse{Notification: n})
}
