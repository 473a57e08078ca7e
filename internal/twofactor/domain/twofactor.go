// Package domain defines the two-factor enrollment entity and its
// create/update inputs.
package domain

import (
	"time"

	"github.com/google/uuid"

	"clinic-portal/backend/internal/repository"
)

// UserTwoFactor is one user's TOTP enrollment. A row exists from the moment
// a secret is provisioned; Active flips to true only after the user proves
// possession of the secret with a valid code.
type UserTwoFactor struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	SecretKey string
	UserID    uuid.UUID
	Active    bool
}

// CreateUserTwoFactor holds the fields required to provision an enrollment.
type CreateUserTwoFactor struct {
	SecretKey string
	UserID    uuid.UUID
	Active    bool
}

func (d CreateUserTwoFactor) InsertValues() map[string]any {
	return map[string]any{
		"secret_key": d.SecretKey,
		"user_id":    d.UserID,
		"active":     d.Active,
	}
}

// UpdateUserTwoFactor holds the fields allowed to change on an enrollment.
// Nil fields are left untouched.
type UpdateUserTwoFactor struct {
	SecretKey *string
	Active    *bool
}

func (d UpdateUserTwoFactor) Changes() map[string]any {
	changes := map[string]any{}
	if d.SecretKey != nil {
		changes["secret_key"] = *d.SecretKey
	}
	if d.Active != nil {
		changes["active"] = *d.Active
	}
	return changes
}

// UserIDFilter matches enrollments by owning user. Its translator is
// registered by the twofactor repository package.
type UserIDFilter struct {
	repository.CriteriaMarker
	UserID uuid.UUID
}

var (
	_ repository.CreateDto = CreateUserTwoFactor{}
	_ repository.UpdateDto = UpdateUserTwoFactor{}
	_ repository.Criteria  = UserIDFilter{}
)
