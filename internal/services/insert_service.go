package services

import (
	"context"
	"fmt"
	"sort"

	"gridapi/internal/schema"
	"gridapi/internal/store"
	"gridapi/internal/validation"
)

// TxRunner is the transactional surface of the store the insert path
// consumes.
type TxRunner interface {
	Transaction(ctx context.Context, work func(tx store.Tx) error) error
}

type InsertService struct {
	catalog Catalog
	runner  TxRunner
}

func NewInsertService(catalog Catalog, runner TxRunner) *InsertService {
	return &InsertService{catalog: catalog, runner: runner}
}

// InsertRow validates submitted rows for a master table and any of its part
// tables, then writes them all inside one transaction, masters strictly
// before their parts. Any failure rolls the whole write back.
func (s *InsertService) InsertRow(ctx context.Context, schemaName, table string, raw map[string][]validation.Row) error {
	headersByTable, err := s.targetHeaders(ctx, schemaName, table)
	if err != nil {
		return err
	}

	rowsByTable, err := validation.Validate(headersByTable, raw)
	if err != nil {
		return err
	}

	order := insertOrder(rowsByTable)

	return s.runner.Transaction(ctx, func(tx store.Tx) error {
		for _, target := range order {
			headers := headersByTable[target]
			for _, row := range rowsByTable[target] {
				query, args, err := buildInsert(schemaName, target, headers, row)
				if err != nil {
					return err
				}
				if _, err := tx.Exec(ctx, query, args...); err != nil {
					return fmt.Errorf("failed to insert into %s.%s: %w", schemaName, target, err)
				}
			}
		}
		return nil
	})
}

// targetHeaders loads the headers of the master table and every part table
// it owns; those are the only tables a submission may touch.
func (s *InsertService) targetHeaders(ctx context.Context, schemaName, table string) (map[string][]schema.TableHeader, error) {
	names, err := s.catalog.Tables(ctx, schemaName)
	if err != nil {
		return nil, err
	}

	targets := []string{table}
	for _, master := range schema.GroupHierarchy(names) {
		if master.RawName != table {
			continue
		}
		for _, part := range master.Parts {
			targets = append(targets, part.RawName)
		}
	}

	headersByTable := make(map[string][]schema.TableHeader, len(targets))
	for _, target := range targets {
		headers, err := s.catalog.Columns(ctx, schemaName, target)
		if err != nil {
			return nil, err
		}
		headersByTable[target] = headers
	}
	return headersByTable, nil
}

// insertOrder derives a dependency-safe ordering from the naming hierarchy:
// a master always precedes its parts, and unrelated tables order
// lexicographically for determinism. This replaces a plain string sort so
// the ordering holds even if a part name could sort before its master.
func insertOrder(rowsByTable map[string][]validation.Row) []string {
	order := make([]string, 0, len(rowsByTable))
	for table := range rowsByTable {
		order = append(order, table)
	}
	sort.Slice(order, func(i, j int) bool {
		bi, bj := baseName(order[i]), baseName(order[j])
		if bi != bj {
			return bi < bj
		}
		pi := order[i] != bi
		pj := order[j] != bj
		if pi != pj {
			return !pi
		}
		return order[i] < order[j]
	})
	return order
}

func baseName(table string) string {
	if master, isPart := schema.MasterName(table); isPart {
		return master
	}
	return table
}

// buildInsert renders the INSERT for one prepared row. Columns follow header
// order; booleans coerce to their storage representation just before the
// statement is built.
func buildInsert(schemaName, table string, headers []schema.TableHeader, row validation.Row) (string, []any, error) {
	b := store.NewBuilder().Insert(schemaName, table)

	values := make([]any, 0, len(row))
	for _, h := range headers {
		value, present := row[h.Name]
		if !present {
			continue
		}
		b.Field(h.Name)
		values = append(values, coerceValue(h, value))
	}
	b.Row(values...)

	return b.ToSQL()
}

func coerceValue(h schema.TableHeader, value any) any {
	if h.Type == schema.TypeBoolean {
		if v, ok := value.(bool); ok {
			if v {
				return 1
			}
			return 0
		}
	}
	return value
}
