package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PartyAppOfficial/Partyapp/internal/adapter/http/middleware"
	"github.com/PartyAppOfficial/Partyapp/internal/notify"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWSHandler_SendsSessionViewOnConnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := notify.NewHub(logger.NewNop())
	go hub.Run(ctx)

	h := NewWSHandler(hub)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Serve(w, r.WithContext(middleware.WithIdentity(r.Context(), owner)))
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, notify.MsgSessionChanged, msg.Type)
	assert.Equal(t, true, msg.Data["loggedIn"])
	assert.Equal(t, "owner", msg.Data["headerLabel"])

	require.Eventually(t, func() bool { return hub.ClientCount("u1") == 1 }, 2*time.Second, 10*time.Millisecond)
}
