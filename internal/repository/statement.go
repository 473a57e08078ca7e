package repository

import (
	"strings"
)

// Statement accumulates the variable parts of a SQL statement: WHERE
// conditions (ANDed), ORDER BY columns, and LIMIT/OFFSET. Conditions use ?
// placeholders; the executing repository rebinds them for the active driver.
//
// Filters, ordering, and pagination live in separate fields, so criteria
// compose correctly regardless of the order they are supplied in.
type Statement struct {
	wheres  []string
	args    []any
	orderBy []string
	limit   int
	offset  int
}

// NewStatement returns an empty statement with no limit or offset.
func NewStatement() *Statement {
	return &Statement{limit: -1, offset: -1}
}

// Where adds an ANDed condition with ? placeholders and its bind arguments.
func (s *Statement) Where(cond string, args ...any) *Statement {
	s.wheres = append(s.wheres, cond)
	s.args = append(s.args, args...)
	return s
}

// OrderBy appends an ORDER BY term, e.g. "email ASC". The caller is
// responsible for ensuring the column name is safe; OrderCriteria validates
// its column before calling this.
func (s *Statement) OrderBy(term string) *Statement {
	s.orderBy = append(s.orderBy, term)
	return s
}

// Limit sets the LIMIT clause. Negative values clear it.
func (s *Statement) Limit(n int) *Statement {
	s.limit = n
	return s
}

// Offset sets the OFFSET clause. Negative values clear it.
func (s *Statement) Offset(n int) *Statement {
	s.offset = n
	return s
}

// ToSelect renders a SELECT over table with the given column list.
// Returns the SQL text with ? placeholders and its arguments in order.
func (s *Statement) ToSelect(table string, columns []string) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(table)
	args := s.writeWhere(&b)
	if len(s.orderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(s.orderBy, ", "))
	}
	if s.limit >= 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, s.limit)
	}
	if s.offset >= 0 {
		b.WriteString(" OFFSET ?")
		args = append(args, s.offset)
	}
	return b.String(), args
}

// ToCount renders a SELECT COUNT(*) over table. Ordering and limit/offset are
// ignored: count reflects the total number of matching rows before pagination.
func (s *Statement) ToCount(table string) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT COUNT(*) FROM ")
	b.WriteString(table)
	args := s.writeWhere(&b)
	return b.String(), args
}

// ToExists renders SELECT EXISTS(SELECT 1 FROM table WHERE ...).
func (s *Statement) ToExists(table string) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT EXISTS(SELECT 1 FROM ")
	b.WriteString(table)
	args := s.writeWhere(&b)
	b.WriteString(")")
	return b.String(), args
}

// ToUpdate renders an UPDATE of the given column/value pairs scoped by the
// statement's conditions. Columns are written in the order given.
func (s *Statement) ToUpdate(table string, columns []string, values []any) (string, []any) {
	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(table)
	b.WriteString(" SET ")
	for i, col := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(col)
		b.WriteString(" = ?")
	}
	args := make([]any, 0, len(values)+len(s.args))
	args = append(args, values...)
	args = append(args, s.writeWhere(&b)...)
	return b.String(), args
}

// ToDelete renders a DELETE scoped by the statement's conditions.
func (s *Statement) ToDelete(table string) (string, []any) {
	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(table)
	args := s.writeWhere(&b)
	return b.String(), args
}

func (s *Statement) writeWhere(b *strings.Builder) []any {
	if len(s.wheres) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(s.wheres, " AND "))
	}
	return append([]any(nil), s.args...)
}
