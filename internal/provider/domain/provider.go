// Package domain defines the provider entity. A provider is a user account
// with care responsibilities; patients are assigned to exactly one provider.
package domain

import (
	"time"

	"github.com/google/uuid"

	"clinic-portal/backend/internal/repository"
)

// Provider links a user account to the provider role.
type Provider struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uuid.UUID
}

// CreateProvider holds the fields required to promote a user to provider.
type CreateProvider struct {
	UserID uuid.UUID
}

func (d CreateProvider) InsertValues() map[string]any {
	return map[string]any{
		"user_id": d.UserID,
	}
}

// UpdateProvider exists to satisfy the repository contract; a provider record
// carries no mutable fields of its own.
type UpdateProvider struct{}

func (d UpdateProvider) Changes() map[string]any {
	return map[string]any{}
}

// UserIDFilter matches the provider owned by a user account.
type UserIDFilter struct {
	repository.CriteriaMarker
	UserID uuid.UUID
}

var (
	_ repository.CreateDto = CreateProvider{}
	_ repository.UpdateDto = UpdateProvider{}
	_ repository.Criteria  = UserIDFilter{}
)
