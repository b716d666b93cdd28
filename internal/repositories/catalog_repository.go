package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gridapi/internal/schema"
	"gridapi/internal/store"
)

// CatalogRepository reads structural metadata from information_schema.
type CatalogRepository struct {
	store *store.Store
}

func NewCatalogRepository(st *store.Store) *CatalogRepository {
	return &CatalogRepository{store: st}
}

// Schemas returns every user schema, ascending. System schemas are excluded.
func (r *CatalogRepository) Schemas(ctx context.Context) ([]string, error) {
	query := `
		SELECT SCHEMA_NAME
		FROM information_schema.SCHEMATA
		WHERE SCHEMA_NAME NOT IN ('information_schema', 'mysql', 'performance_schema', 'sys')
		ORDER BY SCHEMA_NAME
	`

	rows, err := r.store.RawQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}

	schemas := make([]string, 0, len(rows))
	for _, row := range rows {
		schemas = append(schemas, asString(row["SCHEMA_NAME"]))
	}
	return schemas, nil
}

// Tables returns the flat table name list of one schema, ascending.
func (r *CatalogRepository) Tables(ctx context.Context, schemaName string) ([]string, error) {
	query := `
		SELECT TABLE_NAME
		FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_NAME
	`

	rows, err := r.store.RawQuery(ctx, query, schemaName)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables for %s: %w", schemaName, err)
	}

	tables := make([]string, 0, len(rows))
	for _, row := range rows {
		tables = append(tables, asString(row["TABLE_NAME"]))
	}
	return tables, nil
}

// TableCount returns the number of base tables in a schema. It bounds the
// foreign-key chain walk.
func (r *CatalogRepository) TableCount(ctx context.Context, schemaName string) (int, error) {
	query := `
		SELECT COUNT(*) AS TOTAL
		FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'
	`

	rows, err := r.store.RawQuery(ctx, query, schemaName)
	if err != nil {
		return 0, fmt.Errorf("failed to count tables for %s: %w", schemaName, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return int(asInt64(rows[0]["TOTAL"])), nil
}

// Columns returns the full header list of one table, ordered by ordinal
// position, with canonical types, enum values and defaults already resolved.
// Any catalog string the inference rules cannot place aborts the whole read.
func (r *CatalogRepository) Columns(ctx context.Context, schemaName, table string) ([]schema.TableHeader, error) {
	query := `
		SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, CHARACTER_MAXIMUM_LENGTH,
		       CHARACTER_SET_NAME, NUMERIC_PRECISION, NUMERIC_SCALE,
		       COLUMN_DEFAULT, COLUMN_COMMENT, ORDINAL_POSITION, TABLE_NAME
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`

	rows, err := r.store.RawQuery(ctx, query, schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns for %s.%s: %w", schemaName, table, err)
	}

	headers := make([]schema.TableHeader, 0, len(rows))
	for _, row := range rows {
		header, err := buildHeader(row)
		if err != nil {
			return nil, err
		}
		headers = append(headers, header)
	}
	return headers, nil
}

func buildHeader(row store.Row) (schema.TableHeader, error) {
	rawType := asString(row["COLUMN_TYPE"])

	canonical, err := schema.Classify(rawType)
	if err != nil {
		return schema.TableHeader{}, err
	}

	var enumValues []string
	if canonical == schema.TypeEnum {
		enumValues, err = schema.ExtractEnumValues(rawType)
		if err != nil {
			return schema.TableHeader{}, err
		}
	}

	def, err := schema.ResolveDefault(rawType, canonical, asStringPtr(row["COLUMN_DEFAULT"]))
	if err != nil {
		return schema.TableHeader{}, err
	}

	return schema.TableHeader{
		Name:             asString(row["COLUMN_NAME"]),
		Type:             canonical,
		RawType:          rawType,
		Nullable:         asString(row["IS_NULLABLE"]) == "YES",
		Signed:           !strings.Contains(rawType, "unsigned"),
		MaxCharacters:    asInt64Ptr(row["CHARACTER_MAXIMUM_LENGTH"]),
		Charset:          asStringPtr(row["CHARACTER_SET_NAME"]),
		NumericPrecision: asInt64Ptr(row["NUMERIC_PRECISION"]),
		NumericScale:     asInt64Ptr(row["NUMERIC_SCALE"]),
		EnumValues:       enumValues,
		Default:          def,
		Comment:          asString(row["COLUMN_COMMENT"]),
		TableName:        asString(row["TABLE_NAME"]),
		OrdinalPosition:  int(asInt64(row["ORDINAL_POSITION"])),
	}, nil
}

// RawConstraints returns the key-usage rows of one table, classified but not
// yet resolved, ordered by column position.
func (r *CatalogRepository) RawConstraints(ctx context.Context, schemaName, table string) ([]schema.Constraint, error) {
	query := `
		SELECT CONSTRAINT_NAME, COLUMN_NAME, REFERENCED_TABLE_NAME, REFERENCED_COLUMN_NAME
		FROM information_schema.KEY_COLUMN_USAGE
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`

	rows, err := r.store.RawQuery(ctx, query, schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read constraints for %s.%s: %w", schemaName, table, err)
	}

	constraints := make([]schema.Constraint, 0, len(rows))
	for _, row := range rows {
		constraints = append(constraints, schema.ClassifyKeyUsage(
			asString(row["CONSTRAINT_NAME"]),
			asString(row["COLUMN_NAME"]),
			asString(row["REFERENCED_TABLE_NAME"]),
			asString(row["REFERENCED_COLUMN_NAME"]),
		))
	}
	return constraints, nil
}

// RowCount returns the exact row count of one table.
func (r *CatalogRepository) RowCount(ctx context.Context, schemaName, table string) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) AS TOTAL FROM %s.%s",
		store.EscapeIdentifier(schemaName), store.EscapeIdentifier(table))

	rows, err := r.store.RawQuery(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows for %s.%s: %w", schemaName, table, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return asInt64(rows[0]["TOTAL"]), nil
}

// Comment returns the table comment, empty when none is set.
func (r *CatalogRepository) Comment(ctx context.Context, schemaName, table string) (string, error) {
	query := `
		SELECT TABLE_COMMENT
		FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
	`

	rows, err := r.store.RawQuery(ctx, query, schemaName, table)
	if err != nil {
		return "", fmt.Errorf("failed to read comment for %s.%s: %w", schemaName, table, err)
	}
	if len(rows) == 0 {
		return "", nil
	}
	return asString(rows[0]["TABLE_COMMENT"]), nil
}

// The driver surfaces catalog fields as strings or int64 depending on the
// wire protocol, so the converters below accept both.

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func asStringPtr(v any) *string {
	if v == nil {
		return nil
	}
	s := asString(v)
	return &s
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case nil:
		return 0
	case int64:
		return t
	case uint64:
		return int64(t)
	case int:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	case []byte:
		n, _ := strconv.ParseInt(string(t), 10, 64)
		return n
	default:
		return 0
	}
}

func asInt64Ptr(v any) *int64 {
	if v == nil {
		return nil
	}
	n := asInt64(v)
	return &n
}
