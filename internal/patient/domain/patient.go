// Package domain defines the patient entity and its criteria. A patient is a
// user account assigned to a provider.
package domain

import (
	"time"

	"github.com/google/uuid"

	"clinic-portal/backend/internal/repository"
)

// Patient links a user account to the provider responsible for their care.
type Patient struct {
	ID         uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
	UserID     uuid.UUID
	ProviderID uuid.UUID
}

// CreatePatient holds the fields required to create a patient record. The
// user account must already exist.
type CreatePatient struct {
	UserID     uuid.UUID
	ProviderID uuid.UUID
}

func (d CreatePatient) InsertValues() map[string]any {
	return map[string]any{
		"user_id":     d.UserID,
		"provider_id": d.ProviderID,
	}
}

// UpdatePatient holds the fields allowed to change on a patient. Nil fields
// are left untouched.
type UpdatePatient struct {
	ProviderID *uuid.UUID
}

func (d UpdatePatient) Changes() map[string]any {
	changes := map[string]any{}
	if d.ProviderID != nil {
		changes["provider_id"] = *d.ProviderID
	}
	return changes
}

// UserIDFilter matches the patient record owned by a user account.
type UserIDFilter struct {
	repository.CriteriaMarker
	UserID uuid.UUID
}

// ProviderIDFilter matches the patients assigned to a provider.
type ProviderIDFilter struct {
	repository.CriteriaMarker
	ProviderID uuid.UUID
}

var (
	_ repository.CreateDto = CreatePatient{}
	_ repository.UpdateDto = UpdatePatient{}
	_ repository.Criteria  = UserIDFilter{}
	_ repository.Criteria  = ProviderIDFilter{}
)
