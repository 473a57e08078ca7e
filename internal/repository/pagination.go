package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

const (
	// DefaultPageSize is used when a caller does not request a size.
	DefaultPageSize = 10
	// MaxPageSize is the inclusive upper bound on page_size.
	MaxPageSize = 100
)

// ErrPaginatorAlreadyRun is returned when a pagination translator is applied
// to more than one statement. Paginators are single-use.
var ErrPaginatorAlreadyRun = errors.New("paginator has already run")

// PaginationCriteria requests one page of results: offset (page-1)*page_size,
// limit page_size. page starts at 1; page_size is bounded to [1, MaxPageSize].
type PaginationCriteria struct {
	CriteriaMarker
	Page     int
	PageSize int
}

// Validate checks the page bounds. Called before the translator runs, so an
// out-of-range request never reaches the store.
func (p PaginationCriteria) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("page must be >= 1, got %d", p.Page)
	}
	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		return fmt.Errorf("page_size must be in [1, %d], got %d", MaxPageSize, p.PageSize)
	}
	return nil
}

// paginationTranslator applies offset/limit for one statement. A second
// Translate call on the same instance fails with ErrPaginatorAlreadyRun.
type paginationTranslator struct {
	criteria PaginationCriteria
	run      bool
}

func (t *paginationTranslator) Translate(stmt *Statement) error {
	if t.run {
		return ErrPaginatorAlreadyRun
	}
	t.run = true
	stmt.Offset((t.criteria.Page - 1) * t.criteria.PageSize)
	stmt.Limit(t.criteria.PageSize)
	return nil
}

// Direction orders a result set ascending or descending.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// identColumn restricts order columns to plain identifiers; anything else is
// rejected before it can reach the SQL text.
var identColumn = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// OrderCriteria orders results by a single column.
type OrderCriteria struct {
	CriteriaMarker
	Column    string
	Direction Direction
}

func (o OrderCriteria) Validate() error {
	if !identColumn.MatchString(o.Column) {
		return fmt.Errorf("order_by column %q is not a valid identifier", o.Column)
	}
	if o.Direction != Asc && o.Direction != Desc {
		return fmt.Errorf("order must be %q or %q, got %q", Asc, Desc, o.Direction)
	}
	return nil
}

func init() {
	RegisterTranslator(func(p PaginationCriteria) Translator {
		return &paginationTranslator{criteria: p}
	})
	RegisterTranslator(func(o OrderCriteria) Translator {
		return TranslatorFunc(func(stmt *Statement) error {
			dir := "ASC"
			if o.Direction == Desc {
				dir = "DESC"
			}
			stmt.OrderBy(o.Column + " " + dir)
			return nil
		})
	})
}

// Page is one page of entities together with pagination bookkeeping.
type Page[E any] struct {
	Items      []E   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Paginate counts the records matching filters, then fetches the requested
// page. The query always runs at the requested offset: a page beyond the last
// one comes back with no items, the true total, and the reported page equal to
// the requested page.
func Paginate[E any, C CreateDto, U UpdateDto](ctx context.Context, r Repository[E, C, U], p PaginationCriteria, filters ...Criteria) (*Page[E], error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCriteria, err)
	}

	total, err := r.Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	items, err := r.Where(ctx, append(append([]Criteria{}, filters...), p)...)
	if err != nil {
		return nil, err
	}

	return &Page[E]{
		Items:      items,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: totalPages(total, p.PageSize),
	}, nil
}

func totalPages(total int64, pageSize int) int {
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
