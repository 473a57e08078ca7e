// Package repository persists users through the generic SQL repository.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"clinic-portal/backend/internal/repository"
	"clinic-portal/backend/internal/user/domain"
)

const table = "users"

var columns = []string{"id", "created_at", "updated_at", "email", "hashed_password"}

func init() {
	repository.RegisterTranslator(func(f domain.EmailFilter) repository.Translator {
		return repository.TranslatorFunc(func(stmt *repository.Statement) error {
			stmt.Where("email = ?", f.Email)
			return nil
		})
	})
}

// userRow is the scan target for the users table.
type userRow struct {
	ID             uuid.UUID `db:"id"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	Email          string    `db:"email"`
	HashedPassword string    `db:"hashed_password"`
}

func (r userRow) ToEntity() (domain.User, error) {
	if r.ID == uuid.Nil {
		return domain.User{}, fmt.Errorf("user row has no id")
	}
	if r.Email == "" {
		return domain.User{}, fmt.Errorf("user row %s has no email", r.ID)
	}
	return domain.User{
		ID:             r.ID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		Email:          r.Email,
		HashedPassword: r.HashedPassword,
	}, nil
}

// PostgresRepository is the users repository. It embeds the generic SQL
// repository and adds user-specific lookups on top.
type PostgresRepository struct {
	*repository.SQL[domain.User, userRow, domain.CreateUser, domain.UpdateUser]
}

// NewPostgresRepository returns a user repository that uses the given db for
// persistence.
func NewPostgresRepository(db sqlx.ExtContext) *PostgresRepository {
	return &PostgresRepository{
		SQL: repository.NewSQL[domain.User, userRow, domain.CreateUser, domain.UpdateUser](db, table, columns, "user"),
	}
}

// GetByEmail returns the user with the given email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.First(ctx, domain.EmailFilter{Email: email})
}
