package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned when a token is malformed, expired, or
	// signed for a different issuer or purpose.
	ErrInvalidToken = errors.New("invalid token")
)

// Token purposes for email tokens. A token issued for one purpose never
// validates for another.
const (
	PurposePasswordReset = "password-reset"
)

// AccessClaims holds JWT claims for the session access token.
type AccessClaims struct {
	jwt.RegisteredClaims
}

// EmailClaims holds JWT claims for single-purpose email tokens, e.g. the
// password reset link.
type EmailClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
}

// TokenProvider issues and validates HS256 JWTs: short-lived access tokens
// carried in the auth cookie, and purpose-scoped email tokens embedded in
// links sent to users.
type TokenProvider struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
	emailTTL  time.Duration
	now       func() time.Time
}

// NewTokenProvider returns a TokenProvider signing with the given shared
// secret. issuer is set on claims and checked on parse.
func NewTokenProvider(secret []byte, issuer string, accessTTL, emailTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		secret:    secret,
		issuer:    issuer,
		accessTTL: accessTTL,
		emailTTL:  emailTTL,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// IssueAccess issues an access JWT for the given user. Returns the token
// string and its expiration time.
func (p *TokenProvider) IssueAccess(userID uuid.UUID) (string, time.Time, error) {
	now := p.now()
	expiresAt := now.Add(p.accessTTL)
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return token, expiresAt, nil
}

// ParseAccess validates an access token and returns the user id it was
// issued for.
func (p *TokenProvider) ParseAccess(tokenString string) (uuid.UUID, error) {
	var claims AccessClaims
	if err := p.parse(tokenString, &claims); err != nil {
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}

// IssueEmailToken issues a token binding email to purpose, valid for the
// provider's email token TTL.
func (p *TokenProvider) IssueEmailToken(email, purpose string) (string, error) {
	now := p.now()
	claims := EmailClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.emailTTL)),
		},
		Email:   email,
		Purpose: purpose,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign email token: %w", err)
	}
	return token, nil
}

// ParseEmailToken validates an email token and returns the email it was
// issued for. Tokens issued for a different purpose are rejected.
func (p *TokenProvider) ParseEmailToken(tokenString, purpose string) (string, error) {
	var claims EmailClaims
	if err := p.parse(tokenString, &claims); err != nil {
		return "", err
	}
	if claims.Purpose != purpose || claims.Email == "" {
		return "", ErrInvalidToken
	}
	return claims.Email, nil
}

func (p *TokenProvider) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	}, jwt.WithIssuer(p.issuer), jwt.WithTimeFunc(func() time.Time { return p.now() }))
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
