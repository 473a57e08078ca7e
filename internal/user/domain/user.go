// Package domain defines the user entity, its create/update inputs, and the
// criteria users can be filtered by.
package domain

import (
	"time"

	"github.com/google/uuid"

	"clinic-portal/backend/internal/repository"
)

// User is the core user entity. Instances are immutable snapshots of the
// persisted record; all mutation goes through the repository.
type User struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Email          string
	HashedPassword string
}

// CreateUser holds the fields required to create a user. The password must
// already be hashed; repositories never see plaintext.
type CreateUser struct {
	Email          string
	HashedPassword string
}

func (d CreateUser) InsertValues() map[string]any {
	return map[string]any{
		"email":           d.Email,
		"hashed_password": d.HashedPassword,
	}
}

// UpdateUser holds the fields allowed to change on a user. Nil fields are
// left untouched.
type UpdateUser struct {
	Email          *string
	HashedPassword *string
}

func (d UpdateUser) Changes() map[string]any {
	changes := map[string]any{}
	if d.Email != nil {
		changes["email"] = *d.Email
	}
	if d.HashedPassword != nil {
		changes["hashed_password"] = *d.HashedPassword
	}
	return changes
}

// EmailFilter matches users by exact email. Its translator is registered by
// the user repository package.
type EmailFilter struct {
	repository.CriteriaMarker
	Email string
}

var (
	_ repository.CreateDto = CreateUser{}
	_ repository.UpdateDto = UpdateUser{}
	_ repository.Criteria  = EmailFilter{}
)
