package repositories

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	"gridapi/internal/schema"
	"gridapi/internal/services"
	"gridapi/internal/store"
	"gridapi/internal/validation"
)

const testSchema = "shop"

var fixtureDDL = []string{
	`CREATE TABLE customers (
		id INT NOT NULL AUTO_INCREMENT,
		email VARCHAR(120) NOT NULL,
		active TINYINT(1) NOT NULL DEFAULT 1,
		PRIMARY KEY (id),
		UNIQUE KEY email (email)
	) COMMENT = 'people who buy things'`,
	`CREATE TABLE orders (
		id INT NOT NULL AUTO_INCREMENT,
		customer_id INT NOT NULL,
		status ENUM('open','shipped','closed') NOT NULL DEFAULT 'open',
		total DECIMAL(10,2),
		placed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		CONSTRAINT fk_orders_customer FOREIGN KEY (customer_id) REFERENCES customers (id)
	)`,
	`CREATE TABLE orders__detail (
		id INT NOT NULL AUTO_INCREMENT,
		order_id INT NOT NULL,
		qty INT NOT NULL,
		PRIMARY KEY (id),
		CONSTRAINT fk_detail_order FOREIGN KEY (order_id) REFERENCES orders (id)
	)`,
}

func startMySQL(t *testing.T) *store.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()
	ctr, err := tcmysql.Run(ctx, "mysql:8.0",
		tcmysql.WithDatabase(testSchema),
		tcmysql.WithUsername("gridapi"),
		tcmysql.WithPassword("secret"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(ctr))
	})

	dsn, err := ctr.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err)

	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, ddl := range fixtureDDL {
		_, err := db.ExecContext(ctx, ddl)
		require.NoError(t, err)
	}

	return store.New(db, zerolog.Nop())
}

func TestCatalogAgainstMySQL(t *testing.T) {
	st := startMySQL(t)
	ctx := context.Background()
	catalog := NewCatalogRepository(st)

	t.Run("schemas", func(t *testing.T) {
		schemas, err := catalog.Schemas(ctx)
		require.NoError(t, err)
		assert.Contains(t, schemas, testSchema)
		assert.NotContains(t, schemas, "mysql")
	})

	t.Run("tables", func(t *testing.T) {
		tables, err := catalog.Tables(ctx, testSchema)
		require.NoError(t, err)
		assert.Equal(t, []string{"customers", "orders", "orders__detail"}, tables)

		count, err := catalog.TableCount(ctx, testSchema)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("columns", func(t *testing.T) {
		headers, err := catalog.Columns(ctx, testSchema, "orders")
		require.NoError(t, err)
		require.Len(t, headers, 5)

		byName := map[string]schema.TableHeader{}
		for _, h := range headers {
			byName[h.Name] = h
		}

		assert.Equal(t, schema.TypeInteger, byName["id"].Type)
		assert.Equal(t, schema.TypeEnum, byName["status"].Type)
		assert.Equal(t, []string{"open", "shipped", "closed"}, byName["status"].EnumValues)
		assert.Equal(t, schema.LiteralDefault("open"), byName["status"].Default)
		assert.Equal(t, schema.TypeFloat, byName["total"].Type)
		assert.True(t, byName["total"].Nullable)
		assert.Equal(t, schema.TypeDatetime, byName["placed_at"].Type)
		assert.Equal(t, schema.DefaultNamedConstant, byName["placed_at"].Default.Kind)

		boolHeaders, err := catalog.Columns(ctx, testSchema, "customers")
		require.NoError(t, err)
		for _, h := range boolHeaders {
			if h.Name == "active" {
				assert.Equal(t, schema.TypeBoolean, h.Type)
			}
		}
	})

	t.Run("constraints resolve to the primary origin", func(t *testing.T) {
		raw, err := catalog.RawConstraints(ctx, testSchema, "orders__detail")
		require.NoError(t, err)

		resolved, err := schema.ResolveConstraints(ctx, catalog, testSchema, "orders__detail", raw)
		require.NoError(t, err)

		var foreign []schema.Constraint
		for _, c := range resolved {
			if c.Type == schema.ConstraintForeign {
				foreign = append(foreign, c)
			}
		}
		require.Len(t, foreign, 1)
		assert.Equal(t, "order_id", foreign[0].LocalColumn)
		assert.Equal(t, "orders", foreign[0].ForeignTable)
		assert.Equal(t, "id", foreign[0].ForeignColumn)
	})

	t.Run("comment", func(t *testing.T) {
		comment, err := catalog.Comment(ctx, testSchema, "customers")
		require.NoError(t, err)
		assert.Equal(t, "people who buy things", comment)
	})
}

func TestInsertRoundTripAgainstMySQL(t *testing.T) {
	st := startMySQL(t)
	ctx := context.Background()
	catalog := NewCatalogRepository(st)
	insertService := services.NewInsertService(catalog, st)

	_, err := st.RawQuery(ctx, "INSERT INTO customers (email) VALUES (?)", "a@example.com")
	require.NoError(t, err)

	err = insertService.InsertRow(ctx, testSchema, "orders", map[string][]validation.Row{
		"orders": {{"customer_id": float64(1), "status": "open", "total": 19.5}},
		"orders__detail": {
			{"order_id": float64(1), "qty": float64(2)},
		},
	})
	require.NoError(t, err)

	orders, err := catalog.RowCount(ctx, testSchema, "orders")
	require.NoError(t, err)
	assert.Equal(t, int64(1), orders)

	details, err := catalog.RowCount(ctx, testSchema, "orders__detail")
	require.NoError(t, err)
	assert.Equal(t, int64(1), details)
}

func TestInsertRollsBackAgainstMySQL(t *testing.T) {
	st := startMySQL(t)
	ctx := context.Background()
	catalog := NewCatalogRepository(st)
	insertService := services.NewInsertService(catalog, st)

	_, err := st.RawQuery(ctx, "INSERT INTO customers (email) VALUES (?)", "b@example.com")
	require.NoError(t, err)

	// the detail row references an order id that will not exist, so the
	// foreign key fires and the whole transaction must vanish
	err = insertService.InsertRow(ctx, testSchema, "orders", map[string][]validation.Row{
		"orders": {{"customer_id": float64(1), "status": "open"}},
		"orders__detail": {
			{"order_id": float64(999), "qty": float64(1)},
		},
	})
	require.Error(t, err)

	orders, err := catalog.RowCount(ctx, testSchema, "orders")
	require.NoError(t, err)
	assert.Equal(t, int64(0), orders, "master row must not survive the rollback")
}
