package schema

import "context"

// PrimaryKeyMarker is the constraint name the catalog assigns to primary
// keys.
const PrimaryKeyMarker = "PRIMARY"

// ClassifyKeyUsage maps one key-usage catalog row to a constraint record.
// The primary-key marker wins; a constraint named after its own column is the
// single-column unique convention; anything else is a foreign key.
func ClassifyKeyUsage(constraintName, column, refTable, refColumn string) Constraint {
	switch {
	case constraintName == PrimaryKeyMarker:
		return Constraint{Type: ConstraintPrimary, LocalColumn: column}
	case constraintName == column:
		return Constraint{Type: ConstraintUnique, LocalColumn: column}
	default:
		return Constraint{
			Type:          ConstraintForeign,
			LocalColumn:   column,
			ForeignTable:  refTable,
			ForeignColumn: refColumn,
		}
	}
}

// ConstraintSource supplies raw key-usage constraint lists from the catalog.
type ConstraintSource interface {
	RawConstraints(ctx context.Context, schema, table string) ([]Constraint, error)
	TableCount(ctx context.Context, schema string) (int, error)
}

// resolveCache holds the raw constraint lists fetched during one Resolve
// call. It lives and dies with that call; nothing is shared across requests.
type resolveCache struct {
	source ConstraintSource
	schema string
	tables map[string][]Constraint
}

func (c *resolveCache) constraints(ctx context.Context, table string) ([]Constraint, error) {
	if list, ok := c.tables[table]; ok {
		return list, nil
	}
	list, err := c.source.RawConstraints(ctx, c.schema, table)
	if err != nil {
		return nil, err
	}
	c.tables[table] = list
	return list, nil
}

// ResolveConstraints normalizes a table's raw constraint list. Primary and
// unique constraints pass through unchanged; each foreign constraint is
// walked transitively until its chain reaches a primary key, and the emitted
// record keeps the original local column while its target becomes the
// primary-key origin. A dangling reference or a chain that never reaches a
// primary key fails with BrokenForeignKeyError.
func ResolveConstraints(ctx context.Context, source ConstraintSource, schemaName, table string, originals []Constraint) ([]Constraint, error) {
	tableCount, err := source.TableCount(ctx, schemaName)
	if err != nil {
		return nil, err
	}

	cache := &resolveCache{
		source: source,
		schema: schemaName,
		tables: map[string][]Constraint{table: originals},
	}

	resolved := make([]Constraint, 0, len(originals))
	for _, c := range originals {
		if c.Type != ConstraintForeign {
			resolved = append(resolved, c)
			continue
		}
		origin, err := walkForeignChain(ctx, cache, c, tableCount)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, origin)
	}
	return resolved, nil
}

// walkForeignChain follows a foreign-key chain link by link. The hop bound
// equals the schema's table count, which guarantees termination against
// cyclic or malformed catalogs.
func walkForeignChain(ctx context.Context, cache *resolveCache, origin Constraint, maxHops int) (Constraint, error) {
	cur := origin
	for hops := 0; hops <= maxHops; hops++ {
		list, err := cache.constraints(ctx, cur.ForeignTable)
		if err != nil {
			return Constraint{}, err
		}
		target, ok := findColumnConstraint(list, cur.ForeignColumn)
		if !ok {
			return Constraint{}, &BrokenForeignKeyError{Table: cur.ForeignTable, Column: cur.ForeignColumn}
		}
		switch target.Type {
		case ConstraintPrimary:
			// emit the last foreign link, not the primary record itself:
			// the local column stays, the target is the true origin
			return Constraint{
				Type:          ConstraintForeign,
				LocalColumn:   origin.LocalColumn,
				ForeignTable:  cur.ForeignTable,
				ForeignColumn: cur.ForeignColumn,
			}, nil
		case ConstraintForeign:
			cur = target
		default:
			// a unique constraint can never lead to a primary key
			return Constraint{}, &BrokenForeignKeyError{Table: cur.ForeignTable, Column: cur.ForeignColumn}
		}
	}
	return Constraint{}, &BrokenForeignKeyError{Table: origin.ForeignTable, Column: origin.ForeignColumn}
}

// findColumnConstraint picks the constraint backing a column, preferring a
// primary record when the column carries several.
func findColumnConstraint(list []Constraint, column string) (Constraint, bool) {
	var found Constraint
	var ok bool
	for _, c := range list {
		if c.LocalColumn != column {
			continue
		}
		if c.Type == ConstraintPrimary {
			return c, true
		}
		if !ok || (found.Type == ConstraintUnique && c.Type == ConstraintForeign) {
			found, ok = c, true
		}
	}
	return found, ok
}
