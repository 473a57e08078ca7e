package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// SQL is the relational implementation of Repository. It is bound to one
// table and one (entity, row model, create dto, update dto) tuple. The row
// model carries db struct tags for scanning; the repository generates ids and
// created_at/updated_at timestamps itself so statements stay portable across
// drivers.
//
// Statements are built with ? placeholders and rebound for the session's
// driver, so the same repository runs against Postgres in production and
// SQLite in tests.
type SQL[E any, M Model[E], C CreateDto, U UpdateDto] struct {
	db      sqlx.ExtContext
	table   string
	columns []string
	entity  string
	now     func() time.Time
}

// NewSQL returns a SQL repository over db for the given table. columns is the
// full select list (it must scan into M); entity names the entity in error
// messages, e.g. "user".
func NewSQL[E any, M Model[E], C CreateDto, U UpdateDto](db sqlx.ExtContext, table string, columns []string, entity string) *SQL[E, M, C, U] {
	return &SQL[E, M, C, U]{
		db:      db,
		table:   table,
		columns: columns,
		entity:  entity,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *SQL[E, M, C, U]) Find(ctx context.Context, id uuid.UUID) (*E, error) {
	return r.First(ctx, IDFilter{ID: id})
}

func (r *SQL[E, M, C, U]) FindOrFail(ctx context.Context, id uuid.UUID) (*E, error) {
	e, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, notFound(r.entity)
	}
	return e, nil
}

func (r *SQL[E, M, C, U]) Create(ctx context.Context, dto C) (*E, error) {
	vals := dto.InsertValues()
	now := r.now()
	vals["id"] = uuid.New()
	vals["created_at"] = now
	vals["updated_at"] = now

	cols := sortedKeys(vals)
	query, args := r.insertSQL(cols, [][]any{valuesFor(vals, cols)})

	var m M
	if err := sqlx.GetContext(ctx, r.db, &m, r.db.Rebind(query), args...); err != nil {
		return nil, notCreated(r.entity, constraintWrap(err))
	}
	return r.toEntity(m)
}

func (r *SQL[E, M, C, U]) Update(ctx context.Context, id uuid.UUID, dto U) (*E, error) {
	changes := dto.Changes()
	if len(changes) == 0 {
		return r.FindOrFail(ctx, id)
	}
	changes["updated_at"] = r.now()

	cols := sortedKeys(changes)
	var b strings.Builder
	fmt.Fprintf(&b, "UPDATE %s SET ", r.table)
	args := make([]any, 0, len(cols)+1)
	for i, col := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(col)
		b.WriteString(" = ?")
		args = append(args, changes[col])
	}
	fmt.Fprintf(&b, " WHERE id = ? RETURNING %s", strings.Join(r.columns, ", "))
	args = append(args, id)

	var m M
	if err := sqlx.GetContext(ctx, r.db, &m, r.db.Rebind(b.String()), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(r.entity)
		}
		return nil, notUpdated(r.entity, constraintWrap(err))
	}
	return r.toEntity(m)
}

func (r *SQL[E, M, C, U]) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ? RETURNING id", r.table)
	var deleted uuid.UUID
	if err := sqlx.GetContext(ctx, r.db, &deleted, r.db.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(r.entity)
		}
		return notDeleted(r.entity, constraintWrap(err))
	}
	return nil
}

func (r *SQL[E, M, C, U]) All(ctx context.Context) ([]E, error) {
	return r.Where(ctx)
}

func (r *SQL[E, M, C, U]) Where(ctx context.Context, criteria ...Criteria) ([]E, error) {
	stmt := NewStatement()
	if err := apply(stmt, criteria); err != nil {
		return nil, err
	}
	query, args := stmt.ToSelect(r.table, r.columns)

	var ms []M
	if err := sqlx.SelectContext(ctx, r.db, &ms, r.db.Rebind(query), args...); err != nil {
		return nil, repositoryErr(r.entity, err)
	}
	return r.toEntities(ms)
}

func (r *SQL[E, M, C, U]) First(ctx context.Context, criteria ...Criteria) (*E, error) {
	stmt := NewStatement()
	if err := apply(stmt, criteria); err != nil {
		return nil, err
	}
	stmt.Limit(1)
	query, args := stmt.ToSelect(r.table, r.columns)

	var m M
	if err := sqlx.GetContext(ctx, r.db, &m, r.db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, repositoryErr(r.entity, err)
	}
	return r.toEntity(m)
}

func (r *SQL[E, M, C, U]) Count(ctx context.Context, criteria ...Criteria) (int64, error) {
	stmt := NewStatement()
	if err := apply(stmt, criteria); err != nil {
		return 0, err
	}
	query, args := stmt.ToCount(r.table)

	var n int64
	if err := sqlx.GetContext(ctx, r.db, &n, r.db.Rebind(query), args...); err != nil {
		return 0, repositoryErr(r.entity, err)
	}
	return n, nil
}

func (r *SQL[E, M, C, U]) Exists(ctx context.Context, criteria ...Criteria) (bool, error) {
	stmt := NewStatement()
	if err := apply(stmt, criteria); err != nil {
		return false, err
	}
	query, args := stmt.ToExists(r.table)

	var exists bool
	if err := sqlx.GetContext(ctx, r.db, &exists, r.db.Rebind(query), args...); err != nil {
		return false, repositoryErr(r.entity, err)
	}
	return exists, nil
}

func (r *SQL[E, M, C, U]) InsertMany(ctx context.Context, dtos []C) ([]E, error) {
	if len(dtos) == 0 {
		return []E{}, nil
	}

	now := r.now()
	rows := make([][]any, 0, len(dtos))
	var cols []string
	for _, dto := range dtos {
		vals := dto.InsertValues()
		vals["id"] = uuid.New()
		vals["created_at"] = now
		vals["updated_at"] = now
		if cols == nil {
			cols = sortedKeys(vals)
		}
		rows = append(rows, valuesFor(vals, cols))
	}
	query, args := r.insertSQL(cols, rows)

	var ms []M
	if err := sqlx.SelectContext(ctx, r.db, &ms, r.db.Rebind(query), args...); err != nil {
		return nil, notCreated(r.entity, constraintWrap(err))
	}
	if len(ms) != len(dtos) {
		return nil, notCreated(r.entity, fmt.Errorf("store returned %d of %d inserted rows", len(ms), len(dtos)))
	}
	return r.toEntities(ms)
}

func (r *SQL[E, M, C, U]) UpdateWhere(ctx context.Context, dto U, criteria ...Criteria) (int64, error) {
	changes := dto.Changes()
	if len(changes) == 0 {
		return 0, nil
	}
	changes["updated_at"] = r.now()

	stmt := NewStatement()
	if err := apply(stmt, criteria); err != nil {
		return 0, err
	}
	cols := sortedKeys(changes)
	query, args := stmt.ToUpdate(r.table, cols, valuesFor(changes, cols))

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, notUpdated(r.entity, constraintWrap(err))
	}
	return r.rowsAffected(res)
}

func (r *SQL[E, M, C, U]) DeleteWhere(ctx context.Context, criteria ...Criteria) (int64, error) {
	stmt := NewStatement()
	if err := apply(stmt, criteria); err != nil {
		return 0, err
	}
	query, args := stmt.ToDelete(r.table)

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, notDeleted(r.entity, constraintWrap(err))
	}
	return r.rowsAffected(res)
}

// rowsAffected extracts the affected row count, failing loudly when the
// execution backend cannot report one instead of guessing.
func (r *SQL[E, M, C, U]) rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, repositoryErr(r.entity, fmt.Errorf("result does not report affected rows: %w", err))
	}
	return n, nil
}

func (r *SQL[E, M, C, U]) insertSQL(cols []string, rows [][]any) (string, []any) {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", r.table, strings.Join(cols, ", "))
	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
	args := make([]any, 0, len(rows)*len(cols))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholders)
		args = append(args, row...)
	}
	fmt.Fprintf(&b, " RETURNING %s", strings.Join(r.columns, ", "))
	return b.String(), args
}

// toEntity converts a scanned row to the domain entity. Mapping failures are
// storage-shape mismatches and surface as ErrRepository, never as a raw
// conversion error.
func (r *SQL[E, M, C, U]) toEntity(m M) (*E, error) {
	e, err := m.ToEntity()
	if err != nil {
		return nil, repositoryErr(r.entity, err)
	}
	return &e, nil
}

func (r *SQL[E, M, C, U]) toEntities(ms []M) ([]E, error) {
	out := make([]E, 0, len(ms))
	for _, m := range ms {
		e, err := r.toEntity(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func valuesFor(m map[string]any, cols []string) []any {
	vals := make([]any, 0, len(cols))
	for _, c := range cols {
		vals = append(vals, m[c])
	}
	return vals
}

// constraintWrap annotates Postgres constraint violations with the violated
// constraint name so wrapped write errors stay diagnosable.
func constraintWrap(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName != "" {
		return fmt.Errorf("constraint %s: %w", pgErr.ConstraintName, err)
	}
	return err
}
