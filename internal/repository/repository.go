package repository

import (
	"context"

	"github.com/google/uuid"
)

// CreateDto is the validated input shape for creating an entity.
// InsertValues returns column name → value for every field required to create
// the record; id and timestamps are supplied by the repository.
type CreateDto interface {
	InsertValues() map[string]any
}

// UpdateDto is the validated input shape for a partial update. Changes returns
// column name → value for the fields that were explicitly set; unset fields are
// left untouched, not nulled.
type UpdateDto interface {
	Changes() map[string]any
}

// Model is the storage-row shape for entity E. ToEntity converts the scanned
// row to the domain entity and reports an error when the row cannot be mapped
// (unexpected zero id, null column, and so on).
type Model[E any] interface {
	ToEntity() (E, error)
}

// Repository is the persistence boundary for one entity type. It owns no
// entities and no connection lifecycle; a scoped session (DB handle or
// transaction) is supplied at construction time, one per unit of work.
// Concurrency correctness is delegated to the underlying transactional store.
type Repository[E any, C CreateDto, U UpdateDto] interface {
	// Find returns the entity with the given id, or nil when absent. Missing
	// records are not an error.
	Find(ctx context.Context, id uuid.UUID) (*E, error)
	// FindOrFail returns the entity with the given id, or an error wrapping
	// ErrNotFound when absent.
	FindOrFail(ctx context.Context, id uuid.UUID) (*E, error)
	// Create persists one new record from dto. Constraint violations surface
	// as an error wrapping ErrNotCreated, never as a raw driver error.
	Create(ctx context.Context, dto C) (*E, error)
	// Update applies the explicitly-set fields of dto to the record with the
	// given id and returns the updated entity. ErrNotFound when id is absent,
	// ErrNotUpdated on constraint violation.
	Update(ctx context.Context, id uuid.UUID, dto U) (*E, error)
	// Delete removes the record with the given id. ErrNotFound when absent,
	// ErrNotDeleted on constraint violation.
	Delete(ctx context.Context, id uuid.UUID) error

	// All returns every record, unconditioned and unlimited. Bounding the
	// result set is the caller's responsibility.
	All(ctx context.Context) ([]E, error)
	// Where returns the entities matching all given criteria (ANDed).
	Where(ctx context.Context, criteria ...Criteria) ([]E, error)
	// First returns the first entity matching the criteria, or nil when none match.
	First(ctx context.Context, criteria ...Criteria) (*E, error)
	// Count returns the number of records matching the criteria, before any
	// pagination criteria are applied.
	Count(ctx context.Context, criteria ...Criteria) (int64, error)
	// Exists reports whether any record matches the criteria.
	Exists(ctx context.Context, criteria ...Criteria) (bool, error)

	// InsertMany persists all dtos in one statement and returns the created
	// entities. An empty input is a no-op returning an empty slice. If the
	// store returns fewer rows than inputs the call fails with ErrNotCreated.
	InsertMany(ctx context.Context, dtos []C) ([]E, error)
	// UpdateWhere applies dto's set fields to every record matching the
	// criteria and returns the affected row count as reported by the store.
	UpdateWhere(ctx context.Context, dto U, criteria ...Criteria) (int64, error)
	// DeleteWhere removes every record matching the criteria and returns the
	// affected row count as reported by the store.
	DeleteWhere(ctx context.Context, criteria ...Criteria) (int64, error)
}
