package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/PartyAppOfficial/Partyapp/internal/adapter/http/middleware"
	authdomain "github.com/PartyAppOfficial/Partyapp/internal/auth/domain"
	"github.com/PartyAppOfficial/Partyapp/internal/auth/usecase"
	"github.com/PartyAppOfficial/Partyapp/internal/notify"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"go.uber.org/zap"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	Signup(ctx context.Context, name, email, password, confirm string) (*usecase.AuthResult, error)
	Logout(ctx context.Context, id *usecase.Identity) error
	UpdateProfile(ctx context.Context, id *usecase.Identity, name string) (*authdomain.Session, error)
}

type CookieConfig struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	auth   AuthService
	cookie CookieConfig
	logger *logger.Logger
}

func NewAuthHandler(auth AuthService, cookie CookieConfig, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie, logger: log.Named("AuthHTTPHandler")}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type profileRequest struct {
	Name string `json:"name"`
}

type authResponse struct {
	Token        string              `json:"token,omitempty"`
	ExpiresAt    *time.Time          `json:"expiresAt,omitempty"`
	View         usecase.ViewState   `json:"view"`
	Notification notify.Notification `json:"notification"`
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) fail(w http.ResponseWriter, flow string, err error) {
	msg := usecase.UserMessage(err)
	n := notify.Error(msg)
	status := AuthErrorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Auth flow failed", zap.String("flow", flow), zap.Error(err))
	} else {
		h.logger.Info("Auth flow rejected", zap.String("flow", flow), zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: string(authdomain.CodeOf(err)), Notification: &n})
}

func (h *AuthHandler) opened(w http.ResponseWriter, status int, res *usecase.AuthResult, msg string) {
	h.setCookie(w, res.Token, res.ExpiresAt)
	exp := res.ExpiresAt
	writeJSON(w, status, authResponse{
		Token:        res.Token,
		ExpiresAt:    &exp,
		View:         usecase.View(res.Session),
		Notification: notify.Success(msg),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, "login", err)
		return
	}
	h.opened(w, http.StatusOK, res, usecase.MsgLoginSuccess)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	res, err := h.auth.Signup(r.Context(), req.Name, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		h.fail(w, "signup", err)
		return
	}
	h.opened(w, http.StatusCreated, res, usecase.MsgSignupSuccess)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFrom(r.Context())
	if err := h.auth.Logout(r.Context(), id); err != nil {
		h.fail(w, "logout", err)
		return
	}
	h.clearCookie(w)
	writeJSON(w, http.StatusOK, authResponse{View: usecase.View(nil), Notification: notify.Success(usecase.MsgLogoutSuccess)})
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s, err := h.auth.UpdateProfile(r.Context(), middleware.IdentityFrom(r.Context()), req.Name)
	if err != nil {
		h.fail(w, "profile", err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{View: usecase.View(s), Notification: notify.Success(usecase.MsgProfileUpdated)})
}

// Session reports the view state of the caller. Guests get the logged-out
// view, never an error.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	var s *authdomain.Session
	if id := middleware.IdentityFrom(r.Context()); id != nil {
		s = id.Session
	}
	writeJSON(w, http.StatusOK, usecase.View(s))
}
