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

	patientdomain "clinic-portal/backend/internal/patient/domain"
	providerdomain "clinic-portal/backend/internal/provider/domain"
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

func (r *memUserRepo) Find(ctx context.Context, id uuid.UUID) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id], nil
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

type memProviderRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*providerdomain.Provider
}

func newMemProviderRepo(providers ...*providerdomain.Provider) *memProviderRepo {
	r := &memProviderRepo{byID: map[uuid.UUID]*providerdomain.Provider{}}
	for _, p := range providers {
		r.byID[p.ID] = p
	}
	return r
}

func (r *memProviderRepo) Find(ctx context.Context, id uuid.UUID) (*providerdomain.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id], nil
}

func (r *memProviderRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*providerdomain.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, nil
}

type memPatientRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*patientdomain.Patient
}

func newMemPatientRepo() *memPatientRepo {
	return &memPatientRepo{byID: map[uuid.UUID]*patientdomain.Patient{}}
}

func (r *memPatientRepo) Find(ctx context.Context, id uuid.UUID) (*patientdomain.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id], nil
}

func (r *memPatientRepo) Create(ctx context.Context, dto patientdomain.CreatePatient) (*patientdomain.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := &patientdomain.Patient{
		ID:         uuid.New(),
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
		UserID:     dto.UserID,
		ProviderID: dto.ProviderID,
	}
	r.byID[p.ID] = p
	return p, nil
}

type memMailer struct {
	mu       sync.Mutex
	welcomes []string
}

func (m *memMailer) SendWelcome(ctx context.Context, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomes = append(m.welcomes, to)
}

func testProvider() *providerdomain.Provider {
	return &providerdomain.Provider{ID: uuid.New(), UserID: uuid.New()}
}

func newTestService(providers ...*providerdomain.Provider) (*Service, *memUserRepo, *memMailer) {
	users := newMemUserRepo()
	mailer := &memMailer{}
	svc := New(users, newMemProviderRepo(providers...), newMemPatientRepo(), security.NewHasher(bcrypt.MinCost), mailer, zap.NewNop())
	return svc, users, mailer
}

func TestRegisterPatient(t *testing.T) {
	provider := testProvider()
	svc, users, mailer := newTestService(provider)

	account, err := svc.Register(context.Background(), "pat@example.com", "Str0ng!pass", provider.ID)
	require.NoError(t, err)
	assert.Equal(t, provider.ID, account.Patient.ProviderID)
	assert.Equal(t, "pat@example.com", account.Email)
	assert.Equal(t, []string{"pat@example.com"}, mailer.welcomes)

	user, err := users.GetByEmail(context.Background(), "pat@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, user.ID, account.Patient.UserID)
	assert.NotEqual(t, "Str0ng!pass", user.HashedPassword)
}

func TestRegisterPatientUnknownProvider(t *testing.T) {
	svc, _, mailer := newTestService()

	_, err := svc.Register(context.Background(), "pat@example.com", "Str0ng!pass", uuid.New())
	assert.ErrorIs(t, err, ErrProviderNotFound)
	assert.Empty(t, mailer.welcomes)
}

func TestRegisterPatientDuplicateEmail(t *testing.T) {
	provider := testProvider()
	svc, _, _ := newTestService(provider)

	_, err := svc.Register(context.Background(), "pat@example.com", "Str0ng!pass", provider.ID)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "pat@example.com", "Str0ng!pass", provider.ID)
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestRegisterPatientWeakPassword(t *testing.T) {
	provider := testProvider()
	svc, _, mailer := newTestService(provider)

	_, err := svc.Register(context.Background(), "pat@example.com", "weak", provider.ID)
	assert.ErrorIs(t, err, security.ErrWeakPassword)
	assert.Empty(t, mailer.welcomes)
}

func TestGetPatient(t *testing.T) {
	provider := testProvider()
	svc, _, _ := newTestService(provider)

	account, err := svc.Register(context.Background(), "pat@example.com", "Str0ng!pass", provider.ID)
	require.NoError(t, err)

	found, err := svc.Get(context.Background(), account.Patient.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Patient.ID, found.Patient.ID)
	assert.Equal(t, "pat@example.com", found.Email)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestIsProvider(t *testing.T) {
	provider := testProvider()
	svc, _, _ := newTestService(provider)

	ok, err := svc.IsProvider(context.Background(), provider.UserID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsProvider(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}
