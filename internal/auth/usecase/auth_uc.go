package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/PartyAppOfficial/Partyapp/internal/auth/domain"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/metrics"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultMaxLoginFailures is how many failed logins per email are accepted
// inside the throttle window before auth/too-many-requests.
const DefaultMaxLoginFailures = 5

// Listener is called after every session change of userID. s is nil after
// logout.
type Listener func(userID string, s *domain.Session)

// Identity is a resolved, live token.
type Identity struct {
	TokenID   string
	Session   *domain.Session
	ExpiresAt time.Time
}

// AuthResult is returned by the flows that open a session.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	Session   *domain.Session
}

type AuthUsecase struct {
	users    domain.UserRepository
	tokens   domain.TokenStore
	throttle domain.LoginThrottle
	issuer   *TokenIssuer
	events   domain.SessionEventPublisher
	metrics  *metrics.MetricsManager
	validate *validator.Validate
	logger   *logger.Logger

	maxFailures int64

	mu        sync.RWMutex
	listeners []Listener
}

func NewAuthUsecase(
	users domain.UserRepository,
	tokens domain.TokenStore,
	throttle domain.LoginThrottle,
	issuer *TokenIssuer,
	events domain.SessionEventPublisher,
	mm *metrics.MetricsManager,
	log *logger.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:       users,
		tokens:      tokens,
		throttle:    throttle,
		issuer:      issuer,
		events:      events,
		metrics:     mm,
		validate:    validator.New(),
		logger:      log.Named("AuthUsecase"),
		maxFailures: DefaultMaxLoginFailures,
	}
}

// Subscribe registers l for every later session change.
func (uc *AuthUsecase) Subscribe(l Listener) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.listeners = append(uc.listeners, l)
}

func (uc *AuthUsecase) fire(ctx context.Context, userID string, s *domain.Session) {
	uc.mu.RLock()
	listeners := append([]Listener(nil), uc.listeners...)
	uc.mu.RUnlock()
	for _, l := range listeners {
		l(userID, s)
	}

	if uc.events != nil {
		if err := uc.events.PublishSessionChanged(ctx, userID, s); err != nil {
			uc.logger.Warn("AuthUsecase: failed to publish session change", zap.String("userID", userID), zap.Error(err))
		}
	}
}

func (uc *AuthUsecase) count(flow, result string) {
	if uc.metrics != nil {
		uc.metrics.AuthAttemptsTotal.WithLabelValues(flow, result).Inc()
	}
}

func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, &FormError{Message: MsgLoginFieldsRequired}
	}
	if err := uc.validate.Var(email, "email"); err != nil {
		uc.count("login", "rejected")
		return nil, domain.NewProviderError(domain.CodeInvalidEmail, err)
	}
	key := strings.ToLower(email)

	if uc.throttle != nil {
		failures, err := uc.throttle.Failures(ctx, key)
		if err != nil {
			uc.logger.Warn("AuthUsecase.Login: throttle lookup failed", zap.Error(err))
		} else if failures >= uc.maxFailures {
			uc.count("login", "throttled")
			return nil, domain.NewProviderError(domain.CodeTooManyRequests, nil)
		}
	}

	user, err := uc.users.GetByEmail(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			uc.fail(ctx, key)
			uc.count("login", "rejected")
			return nil, domain.NewProviderError(domain.CodeUserNotFound, err)
		}
		uc.logger.Error("AuthUsecase.Login: user lookup failed", zap.Error(err))
		uc.count("login", "error")
		return nil, domain.NewProviderError(domain.CodeNetworkRequestFailed, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		uc.fail(ctx, key)
		uc.count("login", "rejected")
		return nil, domain.NewProviderError(domain.CodeWrongPassword, err)
	}

	if uc.throttle != nil {
		if err := uc.throttle.Reset(ctx, key); err != nil {
			uc.logger.Warn("AuthUsecase.Login: throttle reset failed", zap.Error(err))
		}
	}

	res, err := uc.open(ctx, user.Session())
	if err != nil {
		uc.count("login", "error")
		return nil, err
	}
	uc.count("login", "success")
	uc.logger.Info("AuthUsecase.Login: user logged in", zap.String("userID", user.ID))
	return res, nil
}

func (uc *AuthUsecase) fail(ctx context.Context, key string) {
	if uc.throttle == nil {
		return
	}
	if _, err := uc.throttle.Fail(ctx, key); err != nil {
		uc.logger.Warn("AuthUsecase: failed to record login failure", zap.Error(err))
	}
}

func (uc *AuthUsecase) Signup(ctx context.Context, name, email, password, confirm string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" || confirm == "" {
		return nil, &FormError{Message: MsgSignupFieldsRequired}
	}
	if password != confirm {
		return nil, &FormError{Message: MsgPasswordMismatch}
	}
	if len(password) < minPasswordLength {
		return nil, &FormError{Message: MsgPasswordTooShort}
	}
	if err := uc.validate.Var(email, "email"); err != nil {
		uc.count("signup", "rejected")
		return nil, domain.NewProviderError(domain.CodeInvalidEmail, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.count("signup", "error")
		return nil, domain.NewProviderError(domain.CodeWeakPassword, err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	id, err := uc.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			uc.count("signup", "rejected")
			return nil, domain.NewProviderError(domain.CodeEmailAlreadyInUse, err)
		}
		uc.logger.Error("AuthUsecase.Signup: failed to create user", zap.Error(err))
		uc.count("signup", "error")
		return nil, domain.NewProviderError(domain.CodeNetworkRequestFailed, err)
	}
	user.ID = id

	res, err := uc.open(ctx, user.Session())
	if err != nil {
		uc.count("signup", "error")
		return nil, err
	}
	uc.count("signup", "success")
	uc.logger.Info("AuthUsecase.Signup: account created", zap.String("userID", id))
	return res, nil
}

// open issues a token for s, stores it and announces the new session.
func (uc *AuthUsecase) open(ctx context.Context, s *domain.Session) (*AuthResult, error) {
	token, tokenID, expiresAt, err := uc.issuer.Issue(s)
	if err != nil {
		uc.logger.Error("AuthUsecase: failed to issue token", zap.Error(err))
		return nil, domain.NewProviderError(domain.CodeInternalError, err)
	}
	if err := uc.tokens.Save(ctx, tokenID, s, time.Until(expiresAt)); err != nil {
		uc.logger.Error("AuthUsecase: failed to store token", zap.Error(err))
		return nil, domain.NewProviderError(domain.CodeNetworkRequestFailed, err)
	}
	uc.fire(ctx, s.UserID, s)
	return &AuthResult{Token: token, ExpiresAt: expiresAt, Session: s}, nil
}

// ResolveSession validates raw and returns the live identity behind it.
func (uc *AuthUsecase) ResolveSession(ctx context.Context, raw string) (*Identity, error) {
	if raw == "" {
		return nil, domain.NewProviderError(domain.CodeInvalidCredential, ErrInvalidToken)
	}
	claims, err := uc.issuer.Parse(raw)
	if err != nil {
		return nil, domain.NewProviderError(domain.CodeInvalidCredential, err)
	}
	s, err := uc.tokens.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return nil, domain.NewProviderError(domain.CodeInvalidCredential, err)
		}
		return nil, domain.NewProviderError(domain.CodeNetworkRequestFailed, err)
	}
	id := &Identity{TokenID: claims.ID, Session: s}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

func (uc *AuthUsecase) Logout(ctx context.Context, id *Identity) error {
	if id == nil {
		return nil
	}
	if err := uc.tokens.Delete(ctx, id.TokenID); err != nil && !errors.Is(err, domain.ErrTokenNotFound) {
		uc.logger.Error("AuthUsecase.Logout: failed to delete token", zap.Error(err))
		return domain.NewProviderError(domain.CodeNetworkRequestFailed, err)
	}
	uc.count("logout", "success")
	uc.fire(ctx, id.Session.UserID, nil)
	return nil
}

// UpdateProfile changes the display name and refreshes the live token.
func (uc *AuthUsecase) UpdateProfile(ctx context.Context, id *Identity, name string) (*domain.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &FormError{Message: MsgSignupFieldsRequired}
	}
	if err := uc.users.UpdateName(ctx, id.Session.UserID, name); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NewProviderError(domain.CodeUserNotFound, err)
		}
		uc.logger.Error("AuthUsecase.UpdateProfile: failed to update name", zap.Error(err))
		return nil, domain.NewProviderError(domain.CodeNetworkRequestFailed, err)
	}

	// The stored record is the source of truth for the refreshed session.
	var s *domain.Session
	if u, err := uc.users.GetByID(ctx, id.Session.UserID); err != nil {
		uc.logger.Warn("AuthUsecase.UpdateProfile: re-read failed, using submitted name", zap.String("userID", id.Session.UserID), zap.Error(err))
		s = &domain.Session{UserID: id.Session.UserID, Email: id.Session.Email, DisplayName: name}
	} else {
		s = u.Session()
	}
	if ttl := time.Until(id.ExpiresAt); ttl > 0 {
		if err := uc.tokens.Save(ctx, id.TokenID, s, ttl); err != nil {
			uc.logger.Warn("AuthUsecase.UpdateProfile: failed to refresh token", zap.Error(err))
		}
	}
	uc.fire(ctx, s.UserID, s)
	return s, nil
}
