// Package repository persists patients through the generic SQL repository.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"clinic-portal/backend/internal/patient/domain"
	"clinic-portal/backend/internal/repository"
)

const table = "patients"

var columns = []string{"id", "created_at", "updated_at", "user_id", "provider_id"}

func init() {
	repository.RegisterTranslator(func(f domain.UserIDFilter) repository.Translator {
		return repository.TranslatorFunc(func(stmt *repository.Statement) error {
			stmt.Where("user_id = ?", f.UserID)
			return nil
		})
	})
	repository.RegisterTranslator(func(f domain.ProviderIDFilter) repository.Translator {
		return repository.TranslatorFunc(func(stmt *repository.Statement) error {
			stmt.Where("provider_id = ?", f.ProviderID)
			return nil
		})
	})
}

// patientRow is the scan target for the patients table.
type patientRow struct {
	ID         uuid.UUID `db:"id"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
	UserID     uuid.UUID `db:"user_id"`
	ProviderID uuid.UUID `db:"provider_id"`
}

func (r patientRow) ToEntity() (domain.Patient, error) {
	if r.ID == uuid.Nil {
		return domain.Patient{}, fmt.Errorf("patient row has no id")
	}
	if r.UserID == uuid.Nil || r.ProviderID == uuid.Nil {
		return domain.Patient{}, fmt.Errorf("patient row %s is missing a user or provider id", r.ID)
	}
	return domain.Patient{
		ID:         r.ID,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		UserID:     r.UserID,
		ProviderID: r.ProviderID,
	}, nil
}

// PostgresRepository is the patients repository.
type PostgresRepository struct {
	*repository.SQL[domain.Patient, patientRow, domain.CreatePatient, domain.UpdatePatient]
}

// NewPostgresRepository returns a patient repository that uses the given db
// for persistence.
func NewPostgresRepository(db sqlx.ExtContext) *PostgresRepository {
	return &PostgresRepository{
		SQL: repository.NewSQL[domain.Patient, patientRow, domain.CreatePatient, domain.UpdatePatient](db, table, columns, "patient"),
	}
}

// GetByUserID returns the patient record owned by userID, or nil if the user
// is not a patient.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Patient, error) {
	return r.First(ctx, domain.UserIDFilter{UserID: userID})
}
