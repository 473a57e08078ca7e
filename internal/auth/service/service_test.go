package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"clinic-portal/backend/internal/security"
	userdomain "clinic-portal/backend/internal/user/domain"
)

type memUserRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*userdomain.User
	byEmail map[string]*userdomain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byID:    map[uuid.UUID]*userdomain.User{},
		byEmail: map[string]*userdomain.User{},
	}
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byEmail[email], nil
}

func (r *memUserRepo) Create(ctx context.Context, dto userdomain.CreateUser) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := &userdomain.User{
		ID:             uuid.New(),
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
		Email:          dto.Email,
		HashedPassword: dto.HashedPassword,
	}
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
	return u, nil
}

func (r *memUserRepo) Update(ctx context.Context, id uuid.UUID, dto userdomain.UpdateUser) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.byID[id]
	if dto.HashedPassword != nil {
		u.HashedPassword = *dto.HashedPassword
	}
	if dto.Email != nil {
		delete(r.byEmail, u.Email)
		u.Email = *dto.Email
		r.byEmail[u.Email] = u
	}
	return u, nil
}

type memMailer struct {
	mu          sync.Mutex
	welcomes    []string
	resetTokens map[string]string
}

func newMemMailer() *memMailer {
	return &memMailer{resetTokens: map[string]string{}}
}

func (m *memMailer) SendWelcome(ctx context.Context, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomes = append(m.welcomes, to)
}

func (m *memMailer) SendPasswordReset(ctx context.Context, to, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetTokens[to] = token
}

func newTestService() (*Service, *memUserRepo, *memMailer) {
	users := newMemUserRepo()
	mailer := newMemMailer()
	tokens := security.NewTokenProvider([]byte("test-secret"), "test-issuer", 15*time.Minute, time.Hour)
	svc := New(users, security.NewHasher(bcrypt.MinCost), tokens, mailer, zap.NewNop())
	return svc, users, mailer
}

func TestRegister(t *testing.T) {
	svc, _, mailer := newTestService()

	user, err := svc.Register(context.Background(), "ada@example.com", "Str0ng!pass")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "Str0ng!pass", user.HashedPassword)
	assert.Equal(t, []string{"ada@example.com"}, mailer.welcomes)
}

func TestRegisterWeakPassword(t *testing.T) {
	svc, _, mailer := newTestService()

	_, err := svc.Register(context.Background(), "ada@example.com", "weak")
	assert.ErrorIs(t, err, security.ErrWeakPassword)
	assert.Empty(t, mailer.welcomes)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), "ada@example.com", "Str0ng!pass")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "ada@example.com", "0ther!Pass")
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService()

	user, err := svc.Register(context.Background(), "ada@example.com", "Str0ng!pass")
	require.NoError(t, err)

	session, err := svc.Login(context.Background(), "ada@example.com", "Str0ng!pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.User.ID)
	assert.NotEmpty(t, session.Token)
	assert.True(t, session.ExpiresAt.After(time.Now()))
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), "ada@example.com", "Str0ng!pass")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "Str0ng!pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, mailer := newTestService()

	_, err := svc.Register(context.Background(), "ada@example.com", "Str0ng!pass")
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ada@example.com"))
	token := mailer.resetTokens["ada@example.com"]
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(context.Background(), token, "N3w!passwd"))

	_, err = svc.Login(context.Background(), "ada@example.com", "Str0ng!pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "ada@example.com", "N3w!passwd")
	assert.NoError(t, err)
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	svc, _, mailer := newTestService()

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "nobody@example.com"))
	assert.Empty(t, mailer.resetTokens)
}

func TestResetPasswordBadToken(t *testing.T) {
	svc, _, _ := newTestService()

	err := svc.ResetPassword(context.Background(), "garbage", "N3w!passwd")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetPasswordWeakPassword(t *testing.T) {
	svc, _, mailer := newTestService()

	_, err := svc.Register(context.Background(), "ada@example.com", "Str0ng!pass")
	require.NoError(t, err)
	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ada@example.com"))

	err = svc.ResetPassword(context.Background(), mailer.resetTokens["ada@example.com"], "weak")
	assert.ErrorIs(t, err, security.ErrWeakPassword)
}
