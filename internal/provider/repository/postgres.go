// Package repository persists providers through the generic SQL repository.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"clinic-portal/backend/internal/provider/domain"
	"clinic-portal/backend/internal/repository"
)

const table = "providers"

var columns = []string{"id", "created_at", "updated_at", "user_id"}

func init() {
	repository.RegisterTranslator(func(f domain.UserIDFilter) repository.Translator {
		return repository.TranslatorFunc(func(stmt *repository.Statement) error {
			stmt.Where("user_id = ?", f.UserID)
			return nil
		})
	})
}

// providerRow is the scan target for the providers table.
type providerRow struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	UserID    uuid.UUID `db:"user_id"`
}

func (r providerRow) ToEntity() (domain.Provider, error) {
	if r.ID == uuid.Nil {
		return domain.Provider{}, fmt.Errorf("provider row has no id")
	}
	if r.UserID == uuid.Nil {
		return domain.Provider{}, fmt.Errorf("provider row %s has no user id", r.ID)
	}
	return domain.Provider{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		UserID:    r.UserID,
	}, nil
}

// PostgresRepository is the providers repository.
type PostgresRepository struct {
	*repository.SQL[domain.Provider, providerRow, domain.CreateProvider, domain.UpdateProvider]
}

// NewPostgresRepository returns a provider repository that uses the given db
// for persistence.
func NewPostgresRepository(db sqlx.ExtContext) *PostgresRepository {
	return &PostgresRepository{
		SQL: repository.NewSQL[domain.Provider, providerRow, domain.CreateProvider, domain.UpdateProvider](db, table, columns, "provider"),
	}
}

// GetByUserID returns the provider owned by userID, or nil if the user is not
// a provider.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Provider, error) {
	return r.First(ctx, domain.UserIDFilter{UserID: userID})
}
