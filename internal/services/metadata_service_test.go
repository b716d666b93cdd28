package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridapi/internal/schema"
)

// fakeCatalog serves canned catalog data and lets single lookups fail.
type fakeCatalog struct {
	schemas     []string
	tables      []string
	columns     map[string][]schema.TableHeader
	constraints map[string][]schema.Constraint
	rowCounts   map[string]int64
	comments    map[string]string

	rowCountErr error
}

func (f *fakeCatalog) Schemas(context.Context) ([]string, error) {
	return f.schemas, nil
}

func (f *fakeCatalog) Tables(context.Context, string) ([]string, error) {
	return f.tables, nil
}

func (f *fakeCatalog) TableCount(context.Context, string) (int, error) {
	return len(f.tables), nil
}

func (f *fakeCatalog) Columns(_ context.Context, _, table string) ([]schema.TableHeader, error) {
	return f.columns[table], nil
}

func (f *fakeCatalog) RawConstraints(_ context.Context, _, table string) ([]schema.Constraint, error) {
	return f.constraints[table], nil
}

func (f *fakeCatalog) RowCount(_ context.Context, _, table string) (int64, error) {
	if f.rowCountErr != nil {
		return 0, f.rowCountErr
	}
	return f.rowCounts[table], nil
}

func (f *fakeCatalog) Comment(_ context.Context, _, table string) (string, error) {
	return f.comments[table], nil
}

func newOrdersCatalog() *fakeCatalog {
	return &fakeCatalog{
		tables: []string{"customers", "man_orders", "man_orders__detail"},
		columns: map[string][]schema.TableHeader{
			"man_orders": {
				{Name: "id", Type: schema.TypeInteger, TableName: "man_orders", OrdinalPosition: 1},
				{Name: "customer_id", Type: schema.TypeInteger, TableName: "man_orders", OrdinalPosition: 2},
			},
			"man_orders__detail": {
				{Name: "order_id", Type: schema.TypeInteger, TableName: "man_orders__detail", OrdinalPosition: 1},
				{Name: "qty", Type: schema.TypeInteger, TableName: "man_orders__detail", OrdinalPosition: 2},
			},
		},
		constraints: map[string][]schema.Constraint{
			"man_orders": {
				{Type: schema.ConstraintPrimary, LocalColumn: "id"},
				{Type: schema.ConstraintForeign, LocalColumn: "customer_id", ForeignTable: "customers", ForeignColumn: "id"},
			},
			"customers": {
				{Type: schema.ConstraintPrimary, LocalColumn: "id"},
			},
		},
		rowCounts: map[string]int64{"man_orders": 12},
		comments:  map[string]string{"man_orders": "orders placed by hand"},
	}
}

func TestMetaAssemblesEverything(t *testing.T) {
	service := NewMetadataService(newOrdersCatalog())

	meta, err := service.Meta(context.Background(), "shop", "man_orders")
	require.NoError(t, err)

	assert.Equal(t, "man_orders", meta.Name)
	assert.Len(t, meta.Headers, 2)
	assert.Equal(t, int64(12), meta.TotalRows)
	assert.Equal(t, "orders placed by hand", meta.Comment)

	require.Len(t, meta.Parts, 1)
	assert.Equal(t, "man_orders__detail", meta.Parts[0].RawName)
	assert.Equal(t, schema.TierManual, meta.Parts[0].Tier)

	require.Len(t, meta.Constraints, 2)
	assert.Equal(t, schema.Constraint{
		Type:          schema.ConstraintForeign,
		LocalColumn:   "customer_id",
		ForeignTable:  "customers",
		ForeignColumn: "id",
	}, meta.Constraints[1])
}

func TestMetaPartTableHasNoParts(t *testing.T) {
	service := NewMetadataService(newOrdersCatalog())

	meta, err := service.Meta(context.Background(), "shop", "man_orders__detail")
	require.NoError(t, err)
	assert.Empty(t, meta.Parts)
}

func TestMetaFailsAsAWhole(t *testing.T) {
	catalog := newOrdersCatalog()
	catalog.rowCountErr = errors.New("connection reset")
	service := NewMetadataService(catalog)

	meta, err := service.Meta(context.Background(), "shop", "man_orders")
	require.Error(t, err)
	assert.Nil(t, meta, "no partial record on a sub-fetch failure")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestMetaSurfacesBrokenForeignKey(t *testing.T) {
	catalog := newOrdersCatalog()
	catalog.constraints["customers"] = nil
	service := NewMetadataService(catalog)

	_, err := service.Meta(context.Background(), "shop", "man_orders")

	var broken *schema.BrokenForeignKeyError
	require.ErrorAs(t, err, &broken)
	assert.Equal(t, "customers", broken.Table)
}
