package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"clinic-portal/backend/internal/patient/domain"
	"clinic-portal/backend/internal/repository"
)

const schema = `
CREATE TABLE patients (
	id          TEXT PRIMARY KEY,
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL,
	user_id     TEXT NOT NULL UNIQUE,
	provider_id TEXT NOT NULL
);`

func newTestRepository(t *testing.T) *PostgresRepository {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(schema)
	require.NoError(t, err)
	return NewPostgresRepository(db)
}

func TestCreateAndGetByUserID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	userID, providerID := uuid.New(), uuid.New()

	created, err := repo.Create(ctx, domain.CreatePatient{UserID: userID, ProviderID: providerID})
	require.NoError(t, err)
	assert.Equal(t, providerID, created.ProviderID)

	found, err := repo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	missing, err := repo.GetByUserID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOnePatientRecordPerUser(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := repo.Create(ctx, domain.CreatePatient{UserID: userID, ProviderID: uuid.New()})
	require.NoError(t, err)

	_, err = repo.Create(ctx, domain.CreatePatient{UserID: userID, ProviderID: uuid.New()})
	assert.True(t, errors.Is(err, repository.ErrNotCreated))
}

func TestFilterByProvider(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	providerID := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, domain.CreatePatient{UserID: uuid.New(), ProviderID: providerID})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, domain.CreatePatient{UserID: uuid.New(), ProviderID: uuid.New()})
	require.NoError(t, err)

	mine, err := repo.Where(ctx, domain.ProviderIDFilter{ProviderID: providerID})
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	page, err := repository.Paginate[domain.Patient, domain.CreatePatient, domain.UpdatePatient](
		ctx, repo,
		repository.PaginationCriteria{Page: 1, PageSize: 2},
		domain.ProviderIDFilter{ProviderID: providerID},
	)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestReassignProvider(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.CreatePatient{UserID: uuid.New(), ProviderID: uuid.New()})
	require.NoError(t, err)

	newProvider := uuid.New()
	updated, err := repo.Update(ctx, created.ID, domain.UpdatePatient{ProviderID: &newProvider})
	require.NoError(t, err)
	assert.Equal(t, newProvider, updated.ProviderID)
}
