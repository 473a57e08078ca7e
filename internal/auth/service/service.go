// Package service implements registration, login, and password reset.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"clinic-portal/backend/internal/security"
	userdomain "clinic-portal/backend/internal/user/domain"
)

// Sentinel errors for the auth service; handlers map them to HTTP codes.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidResetToken      = errors.New("invalid or expired reset token")
)

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Create(ctx context.Context, dto userdomain.CreateUser) (*userdomain.User, error)
	Update(ctx context.Context, id uuid.UUID, dto userdomain.UpdateUser) (*userdomain.User, error)
}

// Mailer sends the transactional email the auth flows trigger. Sends are
// best-effort; implementations log failures instead of returning them.
type Mailer interface {
	SendWelcome(ctx context.Context, to string)
	SendPasswordReset(ctx context.Context, to, token string)
}

// Session is an issued access token with its expiry, set as the auth cookie
// by the handler.
type Session struct {
	User      *userdomain.User
	Token     string
	ExpiresAt time.Time
}

// Service wires the registration, login, and password reset flows.
type Service struct {
	users  UserRepo
	hasher *security.Hasher
	tokens *security.TokenProvider
	mailer Mailer
	logger *zap.Logger
}

func New(users UserRepo, hasher *security.Hasher, tokens *security.TokenProvider, mailer Mailer, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		mailer: mailer,
		logger: logger,
	}
}

// Register creates an account for email with the given password and sends
// the welcome email. The password must satisfy the policy; a taken email
// returns ErrEmailAlreadyRegistered.
func (s *Service) Register(ctx context.Context, email, password string) (*userdomain.User, error) {
	if err := security.ValidatePassword(password); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, userdomain.CreateUser{
		Email:          email,
		HashedPassword: hash,
	})
	if err != nil {
		return nil, err
	}

	s.mailer.SendWelcome(ctx, user.Email)
	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Login checks the credentials and returns a session. Wrong email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.HashedPassword, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// RequestPasswordReset emails a reset link to email. An unknown address is
// not an error; the response never reveals whether an account exists.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		s.logger.Info("password reset requested for unknown email")
		return nil
	}

	token, err := s.tokens.IssueEmailToken(user.Email, security.PurposePasswordReset)
	if err != nil {
		return err
	}
	s.mailer.SendPasswordReset(ctx, user.Email, token)
	return nil
}

// ResetPassword validates the reset token and sets the new password.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	email, err := s.tokens.ParseEmailToken(token, security.PurposePasswordReset)
	if err != nil {
		return ErrInvalidResetToken
	}
	if err := security.ValidatePassword(password); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidResetToken
	}

	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return err
	}
	if _, err := s.users.Update(ctx, user.ID, userdomain.UpdateUser{HashedPassword: &hash}); err != nil {
		return err
	}
	s.logger.Info("password reset", zap.String("user_id", user.ID.String()))
	return nil
}
