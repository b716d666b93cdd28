package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"gridapi/internal/schema"
)

// Catalog is the slice of the catalog repository the services consume. It
// also satisfies schema.ConstraintSource.
type Catalog interface {
	Schemas(ctx context.Context) ([]string, error)
	Tables(ctx context.Context, schemaName string) ([]string, error)
	TableCount(ctx context.Context, schemaName string) (int, error)
	Columns(ctx context.Context, schemaName, table string) ([]schema.TableHeader, error)
	RawConstraints(ctx context.Context, schemaName, table string) ([]schema.Constraint, error)
	RowCount(ctx context.Context, schemaName, table string) (int64, error)
	Comment(ctx context.Context, schemaName, table string) (string, error)
}

type MetadataService struct {
	catalog Catalog
}

func NewMetadataService(catalog Catalog) *MetadataService {
	return &MetadataService{catalog: catalog}
}

// Meta composes the full metadata record for one table. The five catalog
// reads run concurrently; the first failure cancels the rest and no partial
// record is ever returned.
func (s *MetadataService) Meta(ctx context.Context, schemaName, table string) (*schema.TableMeta, error) {
	g, ctx := errgroup.WithContext(ctx)

	var (
		grouped     []schema.TableName
		headers     []schema.TableHeader
		totalRows   int64
		constraints []schema.Constraint
		comment     string
	)

	g.Go(func() error {
		names, err := s.catalog.Tables(ctx, schemaName)
		if err != nil {
			return err
		}
		grouped = schema.GroupHierarchy(names)
		return nil
	})
	g.Go(func() error {
		var err error
		headers, err = s.catalog.Columns(ctx, schemaName, table)
		return err
	})
	g.Go(func() error {
		var err error
		totalRows, err = s.catalog.RowCount(ctx, schemaName, table)
		return err
	})
	g.Go(func() error {
		raw, err := s.catalog.RawConstraints(ctx, schemaName, table)
		if err != nil {
			return err
		}
		constraints, err = schema.ResolveConstraints(ctx, s.catalog, schemaName, table, raw)
		return err
	})
	g.Go(func() error {
		var err error
		comment, err = s.catalog.Comment(ctx, schemaName, table)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to assemble metadata for %s.%s: %w", schemaName, table, err)
	}

	return &schema.TableMeta{
		Name:        table,
		Headers:     headers,
		TotalRows:   totalRows,
		Constraints: constraints,
		Comment:     comment,
		Parts:       partsOf(grouped, table),
	}, nil
}

// partsOf finds the grouped entry matching table. A part or leaf table has
// no children.
func partsOf(grouped []schema.TableName, table string) []schema.TableName {
	for _, master := range grouped {
		if master.RawName == table {
			return master.Parts
		}
	}
	return []schema.TableName{}
}
