package usecase

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/PartyAppOfficial/Partyapp/internal/auth/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	tests := map[domain.ErrorCode]string{
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
		domain.CodeInternalError:        MsgGenericError,
		"auth/quota-exceeded":           MsgGenericError,
		"":                              MsgGenericError,
	}
	for code, want := range tests {
		assert.Equal(t, want, Message(code), string(code))
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, MsgPasswordMismatch, UserMessage(fmt.Errorf("signup: %w", &FormError{Message: MsgPasswordMismatch})))
	assert.Equal(t, "Incorrect password", UserMessage(fmt.Errorf("login: %w", domain.NewProviderError(domain.CodeWrongPassword, nil))))
	assert.Equal(t, MsgGenericError, UserMessage(errors.New("boom")))
}

func TestView(t *testing.T) {
	out := View(nil)
	assert.False(t, out.LoggedIn)
	assert.Equal(t, "Login", out.HeaderLabel)
	assert.False(t, out.ShowRegistrationForm)
	assert.True(t, out.ShowAuthWarning)

	in := View(&domain.Session{UserID: "u1", Email: "maria.lopez@example.com"})
	assert.True(t, in.LoggedIn)
	assert.Equal(t, "maria.lopez", in.HeaderLabel)
	assert.True(t, in.ShowRegistrationForm)
	assert.False(t, in.ShowAuthWarning)

	named := View(&domain.Session{UserID: "u1", Email: "m@example.com", DisplayName: "María"})
	assert.Equal(t, "María", named.HeaderLabel)
}

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute)
	s := &domain.Session{UserID: "u1", Email: "a@b.co", DisplayName: "A"}

	token, tokenID, exp, err := issuer.Issue(s)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 2*time.Second)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, tokenID, claims.ID)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "A", claims.Name)

	_, err = NewTokenIssuer("other", time.Minute).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
