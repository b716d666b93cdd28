package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"gridapi/internal/schema"
	"gridapi/internal/store"
)

const (
	dateFormat     = "2006-01-02"
	datetimeFormat = "2006-01-02 15:04:05"

	// blobSentinel replaces binary column values in content rows so opaque
	// bytes never reach the UI.
	blobSentinel = "<blob>"
)

// Querier is the read surface of the store the browse path consumes.
type Querier interface {
	BuiltQuery(ctx context.Context, build func(*store.Builder)) ([]store.Row, error)
}

type BrowseService struct {
	catalog Catalog
	querier Querier
	log     zerolog.Logger
}

func NewBrowseService(catalog Catalog, querier Querier, log zerolog.Logger) *BrowseService {
	return &BrowseService{catalog: catalog, querier: querier, log: log}
}

// Schemas lists every user schema.
func (s *BrowseService) Schemas(ctx context.Context) ([]string, error) {
	return s.catalog.Schemas(ctx)
}

// Tables lists a schema's tables grouped into the master/part hierarchy and
// sorted by tier precedence.
func (s *BrowseService) Tables(ctx context.Context, schemaName string) ([]schema.TableName, error) {
	names, err := s.catalog.Tables(ctx, schemaName)
	if err != nil {
		return nil, err
	}

	grouped := schema.GroupHierarchy(names)
	if dropped := len(names) - countGrouped(grouped); dropped > 0 {
		s.log.Warn().Str("schema", schemaName).Int("dropped", dropped).
			Msg("skipped part tables with no master in the listing")
	}

	return schema.SortByTier(grouped)
}

func countGrouped(masters []schema.TableName) int {
	n := len(masters)
	for _, m := range masters {
		n += len(m.Parts)
	}
	return n
}

// Content returns one page of table rows. Dates and datetimes render in the
// fixed textual formats and blob values are replaced by a sentinel.
func (s *BrowseService) Content(ctx context.Context, schemaName, table string, page, limit int, sort string) ([]store.Row, error) {
	if page < 1 {
		return nil, errors.New("page must be at least 1")
	}
	if limit < 1 {
		return nil, errors.New("limit must be positive")
	}

	headers, err := s.catalog.Columns(ctx, schemaName, table)
	if err != nil {
		return nil, err
	}

	rows, err := s.querier.BuiltQuery(ctx, func(b *store.Builder) {
		b.Select("*").From(schemaName, table)
		if sort != "" {
			column, descending := parseSort(sort)
			b.Order(column, descending)
		}
		b.Limit(limit).Offset((page - 1) * limit)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read content of %s.%s: %w", schemaName, table, err)
	}

	for _, row := range rows {
		formatRow(row, headers)
	}
	return rows, nil
}

// ColumnContent returns the distinct values of one column, ascending.
func (s *BrowseService) ColumnContent(ctx context.Context, schemaName, table, column string) ([]any, error) {
	rows, err := s.querier.BuiltQuery(ctx, func(b *store.Builder) {
		b.Select(column).Distinct().From(schemaName, table).Order(column, false)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read column %s of %s.%s: %w", column, schemaName, table, err)
	}

	values := make([]any, 0, len(rows))
	for _, row := range rows {
		values = append(values, row[column])
	}
	return values, nil
}

// parseSort reads an optional leading '-' as descending.
func parseSort(sort string) (string, bool) {
	if strings.HasPrefix(sort, "-") {
		return sort[1:], true
	}
	return sort, false
}

func formatRow(row store.Row, headers []schema.TableHeader) {
	for _, h := range headers {
		value, ok := row[h.Name]
		if !ok || value == nil {
			continue
		}
		switch h.Type {
		case schema.TypeBlob:
			row[h.Name] = blobSentinel
		case schema.TypeDate:
			if t, ok := value.(time.Time); ok {
				row[h.Name] = t.Format(dateFormat)
			}
		case schema.TypeDatetime:
			if t, ok := value.(time.Time); ok {
				row[h.Name] = t.Format(datetimeFormat)
			}
		}
	}
}
