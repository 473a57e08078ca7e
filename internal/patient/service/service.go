// Package service implements patient onboarding and lookup.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	patientdomain "clinic-portal/backend/internal/patient/domain"
	providerdomain "clinic-portal/backend/internal/provider/domain"
	"clinic-portal/backend/internal/security"
	userdomain "clinic-portal/backend/internal/user/domain"
)

// Sentinel errors for the patient service; handlers map them to HTTP codes.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrProviderNotFound       = errors.New("provider not found")
	ErrPatientNotFound        = errors.New("patient not found")
)

// UserRepo is the minimal user repository needed by the patient service.
type UserRepo interface {
	Find(ctx context.Context, id uuid.UUID) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Create(ctx context.Context, dto userdomain.CreateUser) (*userdomain.User, error)
}

// ProviderRepo is the minimal provider repository needed by the patient
// service.
type ProviderRepo interface {
	Find(ctx context.Context, id uuid.UUID) (*providerdomain.Provider, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*providerdomain.Provider, error)
}

// PatientRepo is the minimal patient repository needed by the patient
// service.
type PatientRepo interface {
	Find(ctx context.Context, id uuid.UUID) (*patientdomain.Patient, error)
	Create(ctx context.Context, dto patientdomain.CreatePatient) (*patientdomain.Patient, error)
}

// Mailer sends the welcome email for freshly onboarded patients.
type Mailer interface {
	SendWelcome(ctx context.Context, to string)
}

// PatientAccount is a patient record joined with its account email.
type PatientAccount struct {
	Patient patientdomain.Patient
	Email   string
}

// Service onboards patients under a provider and resolves patient records.
type Service struct {
	users     UserRepo
	providers ProviderRepo
	patients  PatientRepo
	hasher    *security.Hasher
	mailer    Mailer
	logger    *zap.Logger
}

func New(users UserRepo, providers ProviderRepo, patients PatientRepo, hasher *security.Hasher, mailer Mailer, logger *zap.Logger) *Service {
	return &Service{
		users:     users,
		providers: providers,
		patients:  patients,
		hasher:    hasher,
		mailer:    mailer,
		logger:    logger,
	}
}

// Register creates a user account and its patient record under providerID.
// The email must be unused and the provider must exist.
func (s *Service) Register(ctx context.Context, email, password string, providerID uuid.UUID) (*PatientAccount, error) {
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

	provider, err := s.providers.Find(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, ErrProviderNotFound
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

	patient, err := s.patients.Create(ctx, patientdomain.CreatePatient{
		UserID:     user.ID,
		ProviderID: providerID,
	})
	if err != nil {
		return nil, err
	}

	s.mailer.SendWelcome(ctx, user.Email)
	s.logger.Info("patient registered",
		zap.String("patient_id", patient.ID.String()),
		zap.String("provider_id", providerID.String()))

	return &PatientAccount{Patient: *patient, Email: user.Email}, nil
}

// Get returns the patient with id joined with its account email.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*PatientAccount, error) {
	patient, err := s.patients.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	user, err := s.users.Find(ctx, patient.UserID)
	if err != nil {
		return nil, err
	}

	account := &PatientAccount{Patient: *patient}
	if user != nil {
		account.Email = user.Email
	}
	return account, nil
}

// IsProvider reports whether the user owns a provider record.
func (s *Service) IsProvider(ctx context.Context, userID uuid.UUID) (bool, error) {
	provider, err := s.providers.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	return provider != nil, nil
}
