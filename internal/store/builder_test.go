package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"simple_table", "`simple_table`"},
		{"table`with`backticks", "`table``with``backticks`"},
		{"table-with-dashes", "`table-with-dashes`"},
		{"123table", "`123table`"},
		{"", "``"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, EscapeIdentifier(test.input))
	}
}

func TestBuilderSelect(t *testing.T) {
	query, args, err := NewBuilder().
		Select("*").
		From("shop", "orders").
		Limit(25).
		Offset(50).
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `shop`.`orders` LIMIT 25 OFFSET 50", query)
	assert.Empty(t, args)
}

func TestBuilderSelectDistinctOrdered(t *testing.T) {
	query, _, err := NewBuilder().
		Select("status").
		Distinct().
		From("shop", "orders").
		Order("status", false).
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT DISTINCT `status` FROM `shop`.`orders` ORDER BY `status` ASC", query)
}

func TestBuilderSelectWhere(t *testing.T) {
	query, args, err := NewBuilder().
		Select("id").
		From("shop", "orders").
		Where("`status` = ?", "open").
		Where("`total` > ?", 10).
		Order("id", true).
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT `id` FROM `shop`.`orders` WHERE `status` = ? AND `total` > ? ORDER BY `id` DESC", query)
	assert.Equal(t, []any{"open", 10}, args)
}

func TestBuilderInsert(t *testing.T) {
	query, args, err := NewBuilder().
		Insert("shop", "orders").
		Field("customer_id", "status").
		Row(7, "open").
		Row(8, "closed").
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `shop`.`orders` (`customer_id`, `status`) VALUES (?, ?), (?, ?)", query)
	assert.Equal(t, []any{7, "open", 8, "closed"}, args)
}

func TestBuilderInsertArityMismatch(t *testing.T) {
	_, _, err := NewBuilder().
		Insert("shop", "orders").
		Field("customer_id", "status").
		Row(7).
		ToSQL()
	require.Error(t, err)
}

func TestBuilderEmpty(t *testing.T) {
	_, _, err := NewBuilder().ToSQL()
	require.Error(t, err)

	_, _, err = NewBuilder().Select("id").ToSQL()
	require.Error(t, err, "SELECT without a table must fail")
}
