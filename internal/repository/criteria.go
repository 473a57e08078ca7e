// Package repository implements a generic, criteria-based persistence layer.
//
// A Repository is bound to one entity type and exposes single-entity, filtered,
// and bulk operations. Filtering is expressed as Criteria values; a Translator
// registered for each concrete criteria type converts it into a fragment of the
// SQL statement being built. The registry is populated by package init
// functions before request serving begins and is read-only afterwards.
package repository

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// Criteria is a typed, opaque filter, ordering, or pagination directive.
// Implementations are small immutable value structs embedding CriteriaMarker.
type Criteria interface {
	criteria()
}

// CriteriaMarker marks a struct as a Criteria. Embed it in criteria types
// defined outside this package.
type CriteriaMarker struct{}

func (CriteriaMarker) criteria() {}

// Translator converts one Criteria instance into a statement transformation.
// A translator instance wraps a single criteria value and is used for a single
// statement.
type Translator interface {
	Translate(stmt *Statement) error
}

// TranslatorFunc adapts a function to the Translator interface.
type TranslatorFunc func(stmt *Statement) error

func (f TranslatorFunc) Translate(stmt *Statement) error { return f(stmt) }

var translators = map[reflect.Type]func(Criteria) Translator{}

// RegisterTranslator registers build as the translator factory for the
// concrete criteria type C. Call from an init function; registering the same
// criteria type twice panics, as does looking up a type that was never
// registered (via the ErrNoTranslator error at query time).
func RegisterTranslator[C Criteria](build func(C) Translator) {
	var zero C
	t := reflect.TypeOf(zero)
	if _, dup := translators[t]; dup {
		panic(fmt.Sprintf("repository: translator for %s registered twice", t))
	}
	translators[t] = func(c Criteria) Translator { return build(c.(C)) }
}

// TranslatorFor returns a fresh translator wrapping c, or an error wrapping
// ErrNoTranslator if c's concrete type was never registered.
func TranslatorFor(c Criteria) (Translator, error) {
	build, ok := translators[reflect.TypeOf(c)]
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNoTranslator, c)
	}
	return build(c), nil
}

// apply runs every criteria's translator against stmt, validating criteria
// that implement Validate. Validation failures surface before any translator
// runs so a half-built statement is never executed.
func apply(stmt *Statement, criteria []Criteria) error {
	for _, c := range criteria {
		if v, ok := c.(interface{ Validate() error }); ok {
			if err := v.Validate(); err != nil {
				return fmt.Errorf("%w: %T: %w", ErrInvalidCriteria, c, err)
			}
		}
	}
	for _, c := range criteria {
		t, err := TranslatorFor(c)
		if err != nil {
			return err
		}
		if err := t.Translate(stmt); err != nil {
			return err
		}
	}
	return nil
}

// IDFilter matches a single record by primary key. Registered here so every
// entity repository can use it without declaring its own id criteria.
type IDFilter struct {
	CriteriaMarker
	ID uuid.UUID
}

func init() {
	RegisterTranslator(func(f IDFilter) Translator {
		return TranslatorFunc(func(stmt *Statement) error {
			stmt.Where("id = ?", f.ID)
			return nil
		})
	})
}
