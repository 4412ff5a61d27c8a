package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	authdomain "github.com/PartyAppOfficial/Partyapp/internal/auth/domain"
	"github.com/PartyAppOfficial/Partyapp/internal/auth/usecase"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type fakeResolver map[string]*usecase.Identity

func (f fakeResolver) ResolveSession(_ context.Context, raw string) (*usecase.Identity, error) {
	if id, ok := f[raw]; ok {
		return id, nil
	}
	return nil, errors.New("invalid token")
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	if id := IdentityFrom(r.Context()); id != nil {
		_, _ = w.Write([]byte(id.Session.UserID))
		return
	}
	_, _ = w.Write([]byte("guest"))
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, TokenFromRequest(r, "partyapp_session"))

	r.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", TokenFromRequest(r, "partyapp_session"))

	r.AddCookie(&http.Cookie{Name: "partyapp_session", Value: "from-cookie"})
	assert.Equal(t, "from-cookie", TokenFromRequest(r, "partyapp_session"))
}

func TestSessionAuth(t *testing.T) {
	resolver := fakeResolver{"good": {TokenID: "t1", Session: &authdomain.Session{UserID: "u1"}}}
	h := SessionAuth(resolver, "partyapp_session", logger.NewNop())(http.HandlerFunc(echoUser))

	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"no token", "", "guest"},
		{"bad token", "Bearer nope", "guest"},
		{"live token", "Bearer good", "u1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			assert.Equal(t, tc.want, w.Body.String())
		})
	}
}

func TestRequireSession(t *testing.T) {
	h := RequireSession(http.HandlerFunc(echoUser))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	r = r.WithContext(WithIdentity(r.Context(), &usecase.Identity{Session: &authdomain.Session{UserID: "u1"}}))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}

func TestLogger_RecordsRoutePattern(t *testing.T) {
	mm := metrics.NewMetricsManager("partyapp_test")
	r := chi.NewRouter()
	r.Use(Logger(logger.NewNop(), mm))
	r.Get("/api/geo/config", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/geo/config", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)

	assert.Equal(t, 1, testutil.CollectAndCount(mm.HTTPLatency, "partyapp_test_http_request_duration_seconds"))
}
