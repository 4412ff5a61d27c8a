package handler

import (
	"net/http"

	"github.com/PartyAppOfficial/Partyapp/internal/adapter/http/middleware"
	authdomain "github.com/PartyAppOfficial/Partyapp/internal/auth/domain"
	"github.com/PartyAppOfficial/Partyapp/internal/auth/usecase"
	"github.com/PartyAppOfficial/Partyapp/internal/notify"
)

// WSHandler opens the notification socket. The first message is always the
// current session view so a freshly loaded page can render its header.
type WSHandler struct {
	hub *notify.Hub
}

func NewWSHandler(hub *notify.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	var (
		userID  string
		session *authdomain.Session
	)
	if id := middleware.IdentityFrom(r.Context()); id != nil {
		session = id.Session
		userID = session.UserID
	}
	h.hub.ServeWS(w, r, userID, &notify.Message{
		Type: notify.MsgSessionChanged,
		Data: usecase.View(session),
	})
}
