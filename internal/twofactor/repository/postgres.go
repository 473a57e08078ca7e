// Package repository persists two-factor enrollments through the generic SQL
// repository.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"clinic-portal/backend/internal/repository"
	"clinic-portal/backend/internal/twofactor/domain"
)

const table = "users_2fa"

var columns = []string{"id", "created_at", "updated_at", "secret_key", "user_id", "active"}

func init() {
	repository.RegisterTranslator(func(f domain.UserIDFilter) repository.Translator {
		return repository.TranslatorFunc(func(stmt *repository.Statement) error {
			stmt.Where("user_id = ?", f.UserID)
			return nil
		})
	})
}

// twoFactorRow is the scan target for the users_2fa table.
type twoFactorRow struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	SecretKey string    `db:"secret_key"`
	UserID    uuid.UUID `db:"user_id"`
	Active    bool      `db:"active"`
}

func (r twoFactorRow) ToEntity() (domain.UserTwoFactor, error) {
	if r.ID == uuid.Nil {
		return domain.UserTwoFactor{}, fmt.Errorf("two-factor row has no id")
	}
	if r.UserID == uuid.Nil {
		return domain.UserTwoFactor{}, fmt.Errorf("two-factor row %s has no user id", r.ID)
	}
	return domain.UserTwoFactor{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		SecretKey: r.SecretKey,
		UserID:    r.UserID,
		Active:    r.Active,
	}, nil
}

// PostgresRepository is the two-factor enrollments repository.
type PostgresRepository struct {
	*repository.SQL[domain.UserTwoFactor, twoFactorRow, domain.CreateUserTwoFactor, domain.UpdateUserTwoFactor]
}

// NewPostgresRepository returns a two-factor repository that uses the given
// db for persistence.
func NewPostgresRepository(db sqlx.ExtContext) *PostgresRepository {
	return &PostgresRepository{
		SQL: repository.NewSQL[domain.UserTwoFactor, twoFactorRow, domain.CreateUserTwoFactor, domain.UpdateUserTwoFactor](db, table, columns, "two-factor enrollment"),
	}
}

// GetByUserID returns the enrollment owned by userID, or nil if the user has
// never provisioned one.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserTwoFactor, error) {
	return r.First(ctx, domain.UserIDFilter{UserID: userID})
}

// ToggleActive sets the active flag on the enrollment with id. It returns
// ErrNotFound if no such enrollment exists.
func (r *PostgresRepository) ToggleActive(ctx context.Context, id uuid.UUID, active bool) error {
	n, err := r.UpdateWhere(ctx, domain.UpdateUserTwoFactor{Active: &active}, repository.IDFilter{ID: id})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("two-factor enrollment %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
