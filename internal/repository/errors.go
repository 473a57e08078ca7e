package repository

import (
	"errors"
	"fmt"
)

// Sentinel errors for repository operations. Callers match them with
// errors.Is; concrete repositories wrap them with the entity name.
var (
	// ErrNotFound is returned when the requested identifier has no matching record.
	ErrNotFound = errors.New("entity not found")
	// ErrNotCreated is returned when a write violated a storage constraint
	// (uniqueness, foreign key, check) or the store reported fewer rows than expected.
	ErrNotCreated = errors.New("entity not created")
	// ErrNotUpdated is returned when an update violated a storage constraint.
	ErrNotUpdated = errors.New("entity not updated")
	// ErrNotDeleted is returned when a delete violated a storage constraint
	// (e.g. referential integrity).
	ErrNotDeleted = errors.New("entity not deleted")
	// ErrNoTranslator is a programming error: a criteria type was used without
	// a registered translator.
	ErrNoTranslator = errors.New("no translator for criteria")
	// ErrInvalidCriteria is returned when a criteria fails its own validation
	// (e.g. page_size out of range). It is a caller precondition failure, not a
	// storage failure.
	ErrInvalidCriteria = errors.New("invalid criteria")
	// ErrRepository is the escape hatch for storage-shape mismatches: a row
	// that cannot be mapped to an entity, or a bulk result without a row count.
	ErrRepository = errors.New("repository error")
)

func notFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrNotFound)
}

func notCreated(entity string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", entity, ErrNotCreated)
	}
	return fmt.Errorf("%s: %w: %w", entity, ErrNotCreated, cause)
}

func notUpdated(entity string, cause error) error {
	return fmt.Errorf("%s: %w: %w", entity, ErrNotUpdated, cause)
}

func notDeleted(entity string, cause error) error {
	return fmt.Errorf("%s: %w: %w", entity, ErrNotDeleted, cause)
}

func repositoryErr(entity string, cause error) error {
	return fmt.Errorf("%s: %w: %w", entity, ErrRepository, cause)
}
