// Package service implements TOTP enrollment and verification for users.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	twofactordomain "clinic-portal/backend/internal/twofactor/domain"
	userdomain "clinic-portal/backend/internal/user/domain"
)

// Sentinel errors for the two-factor service; handlers map them to HTTP codes.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrTwoFactorNotFound = errors.New("two-factor authentication not set up")
)

const (
	totpPeriod     = 30
	totpSkew       = 1
	totpSecretSize = 20
)

// UserRepo is the minimal user repository needed by the two-factor service.
type UserRepo interface {
	Find(ctx context.Context, id uuid.UUID) (*userdomain.User, error)
}

// TwoFactorRepo is the minimal enrollment repository needed by the
// two-factor service.
type TwoFactorRepo interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*twofactordomain.UserTwoFactor, error)
	Create(ctx context.Context, dto twofactordomain.CreateUserTwoFactor) (*twofactordomain.UserTwoFactor, error)
	ToggleActive(ctx context.Context, id uuid.UUID, active bool) error
}

// Enrollment is the outcome of Enroll: the shared secret and the
// otpauth:// provisioning URL an authenticator app consumes.
type Enrollment struct {
	Secret string
	URL    string
}

// Service provisions TOTP secrets and verifies codes against them.
type Service struct {
	users      UserRepo
	twoFactors TwoFactorRepo
	issuer     string
	now        func() time.Time
}

func New(users UserRepo, twoFactors TwoFactorRepo, issuer string) *Service {
	return &Service{
		users:      users,
		twoFactors: twoFactors,
		issuer:     issuer,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Enroll provisions a TOTP secret for the user and returns the secret with
// its provisioning URL. Enrolling again before activation replaces nothing;
// the existing secret is returned so a half-finished setup can resume.
func (s *Service) Enroll(ctx context.Context, userID uuid.UUID) (*Enrollment, error) {
	user, err := s.users.Find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	existing, err := s.twoFactors.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &Enrollment{
			Secret: existing.SecretKey,
			URL:    s.provisioningURL(existing.SecretKey, user.Email),
		}, nil
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: user.Email,
		Period:      totpPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
		SecretSize:  totpSecretSize,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp key: %w", err)
	}

	if _, err := s.twoFactors.Create(ctx, twofactordomain.CreateUserTwoFactor{
		SecretKey: key.Secret(),
		UserID:    userID,
	}); err != nil {
		return nil, err
	}

	return &Enrollment{Secret: key.Secret(), URL: key.URL()}, nil
}

// Verify checks code against the user's secret. With markActive set, a valid
// code also activates the enrollment; this is the confirmation step of setup.
func (s *Service) Verify(ctx context.Context, userID uuid.UUID, code string, markActive bool) (bool, error) {
	user, err := s.users.Find(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, ErrUserNotFound
	}

	enrollment, err := s.twoFactors.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	if enrollment == nil {
		return false, ErrTwoFactorNotFound
	}

	valid, err := totp.ValidateCustom(code, enrollment.SecretKey, s.now(), totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		// A code of the wrong length or with non-digit characters is just a
		// wrong code, not a server failure.
		if errors.Is(err, otp.ErrValidateInputInvalidLength) {
			return false, nil
		}
		return false, fmt.Errorf("validate totp code: %w", err)
	}
	if !valid {
		return false, nil
	}

	if markActive && !enrollment.Active {
		if err := s.twoFactors.ToggleActive(ctx, enrollment.ID, true); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Active reports whether the user has a confirmed enrollment.
func (s *Service) Active(ctx context.Context, userID uuid.UUID) (bool, error) {
	enrollment, err := s.twoFactors.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	return enrollment != nil && enrollment.Active, nil
}

// provisioningURL rebuilds the otpauth URL for an already-stored secret, in
// the same shape totp.Generate produces.
func (s *Service) provisioningURL(secret, email string) string {
	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", s.issuer)
	v.Set("period", strconv.Itoa(totpPeriod))
	v.Set("algorithm", otp.AlgorithmSHA1.String())
	v.Set("digits", otp.DigitsSix.String())
	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + s.issuer + ":" + email,
		RawQuery: v.Encode(),
	}
	return u.String()
}
