package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/auth-gateway/internal/auth"
	"github.com/spec-kit/auth-gateway/internal/config"
	"github.com/spec-kit/auth-gateway/internal/domain"
	"github.com/spec-kit/auth-gateway/internal/events"
	"github.com/spec-kit/auth-gateway/internal/ratelimit"
	"github.com/spec-kit/auth-gateway/internal/repository"
	apperrors "github.com/spec-kit/auth-gateway/pkg/util"
)

// AuthService coordinates signup and signin flows.
type AuthService struct {
	users      repository.UserRepository
	tokens     auth.TokenIssuer
	limiter    ratelimit.SigninLimiter
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     auth.TokenIssuer
	Limiter    ratelimit.SigninLimiter
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokens:     deps.Tokens,
		limiter:    deps.Limiter,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.BcryptCost,
	}
}

// Signup creates a new account and issues its first session token. The user
// ID is minted and the token signed before the row is written, so an insert
// failure leaves neither an account nor a usable token behind.
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (*domain.User, string, time.Time, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	}

	token, exp, err := s.tokens.Generate(auth.Payload{ID: user.ID, Email: user.Email, Name: user.Username})
	if err != nil {
		return nil, "", time.Time{}, err
	}

	if err := s.users.Insert(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, email, events.UserRegisteredPayload{Username: username})
	return user, token, exp, nil
}

// Signin authenticates an account by email and password. Unknown email and
// wrong password both produce the same generic failure.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	if s.limiter != nil && s.limiter.TooManyFailures(ctx, email) {
		return nil, "", time.Time{}, apperrors.NewTooManyRequests("too many failed attempts")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, s.signinFailed(ctx, "", email, "unknown email")
		}
		return nil, "", time.Time{}, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, s.signinFailed(ctx, user.ID, email, "wrong password")
	}

	token, exp, err := s.tokens.Generate(auth.Payload{ID: user.ID, Email: user.Email, Name: user.Username})
	if err != nil {
		return nil, "", time.Time{}, err
	}

	if s.limiter != nil {
		s.limiter.Reset(ctx, email)
	}
	s.publish(ctx, events.EventSigninSucceeded, user.ID, email, nil)
	return user, token, exp, nil
}

// CurrentUser loads the account behind a verified identity.
func (s *AuthService) CurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("Invalid token")
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) signinFailed(ctx context.Context, userID, email, reason string) error {
	if s.limiter != nil {
		s.limiter.RecordFailure(ctx, email)
	}
	s.publish(ctx, events.EventSigninFailed, userID, email, events.SigninFailedPayload{Reason: reason})
	return apperrors.NewUnauthorized("invalid credentials")
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID, email string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Email:     email,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
