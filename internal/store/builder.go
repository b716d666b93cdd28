package store

import (
	"errors"
	"fmt"
	"strings"
)

type builderKind int

const (
	kindNone builderKind = iota
	kindSelect
	kindInsert
)

// Builder assembles simple SELECT and INSERT statements with escaped
// identifiers and placeholder-bound values. It covers exactly the surface
// the browsing and insert paths need; anything fancier goes through RawQuery.
type Builder struct {
	kind       builderKind
	table      string
	fields     []string
	distinct   bool
	wheres     []string
	whereArgs  []any
	orders     []string
	limit      *int
	offset     *int
	insertCols []string
	insertRows [][]any
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Select starts a SELECT statement. "*" passes through unescaped.
func (b *Builder) Select(fields ...string) *Builder {
	b.kind = kindSelect
	for _, f := range fields {
		if f == "*" {
			b.fields = append(b.fields, f)
			continue
		}
		b.fields = append(b.fields, EscapeIdentifier(f))
	}
	return b
}

// Insert starts an INSERT statement into schema.table.
func (b *Builder) Insert(schema, table string) *Builder {
	b.kind = kindInsert
	b.table = EscapeIdentifier(schema) + "." + EscapeIdentifier(table)
	return b
}

// From sets the source table of a SELECT, qualified by schema.
func (b *Builder) From(schema, table string) *Builder {
	b.table = EscapeIdentifier(schema) + "." + EscapeIdentifier(table)
	return b
}

// Field appends columns to the INSERT column list.
func (b *Builder) Field(columns ...string) *Builder {
	for _, c := range columns {
		b.insertCols = append(b.insertCols, EscapeIdentifier(c))
	}
	return b
}

// Row appends one VALUES tuple; values bind as placeholders.
func (b *Builder) Row(values ...any) *Builder {
	b.insertRows = append(b.insertRows, values)
	return b
}

// Where appends a raw condition joined with AND; args bind as placeholders.
func (b *Builder) Where(condition string, args ...any) *Builder {
	b.wheres = append(b.wheres, condition)
	b.whereArgs = append(b.whereArgs, args...)
	return b
}

// Order appends an ORDER BY term on an escaped column.
func (b *Builder) Order(column string, descending bool) *Builder {
	dir := "ASC"
	if descending {
		dir = "DESC"
	}
	b.orders = append(b.orders, EscapeIdentifier(column)+" "+dir)
	return b
}

func (b *Builder) Limit(n int) *Builder {
	b.limit = &n
	return b
}

func (b *Builder) Offset(n int) *Builder {
	b.offset = &n
	return b
}

func (b *Builder) Distinct() *Builder {
	b.distinct = true
	return b
}

// ToSQL renders the statement and its bound arguments.
func (b *Builder) ToSQL() (string, []any, error) {
	switch b.kind {
	case kindSelect:
		return b.selectSQL()
	case kindInsert:
		return b.insertSQL()
	}
	return "", nil, errors.New("builder: no statement started")
}

func (b *Builder) selectSQL() (string, []any, error) {
	if b.table == "" {
		return "", nil, errors.New("builder: SELECT requires a table")
	}
	if len(b.fields) == 0 {
		return "", nil, errors.New("builder: SELECT requires at least one field")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if b.distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(strings.Join(b.fields, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)
	if len(b.wheres) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.wheres, " AND "))
	}
	if len(b.orders) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orders, ", "))
	}
	if b.limit != nil {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", *b.limit))
	}
	if b.offset != nil {
		sb.WriteString(fmt.Sprintf(" OFFSET %d", *b.offset))
	}
	return sb.String(), b.whereArgs, nil
}

func (b *Builder) insertSQL() (string, []any, error) {
	if len(b.insertCols) == 0 {
		return "", nil, errors.New("builder: INSERT requires columns")
	}
	if len(b.insertRows) == 0 {
		return "", nil, errors.New("builder: INSERT requires at least one row")
	}

	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(b.insertCols)), ", ") + ")"
	tuples := make([]string, 0, len(b.insertRows))
	var args []any
	for _, row := range b.insertRows {
		if len(row) != len(b.insertCols) {
			return "", nil, fmt.Errorf("builder: row has %d values for %d columns", len(row), len(b.insertCols))
		}
		tuples = append(tuples, placeholders)
		args = append(args, row...)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		b.table,
		strings.Join(b.insertCols, ", "),
		strings.Join(tuples, ", "),
	)
	return query, args, nil
}
