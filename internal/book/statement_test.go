package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateStatement_OnlyListedColumns(t *testing.T) {
	query, args, err := updateStatement(7, []Assignment{
		{Column: "title", Value: "Dune"},
		{Column: "price", Value: nil},
	})
	require.NoError(t, err)

	assert.Equal(t, "UPDATE books SET title = $1, price = $2 WHERE id = $3", query)
	assert.Equal(t, []any{"Dune", nil, int64(7)}, args)
	assert.NotContains(t, query, ImageColumn)
}

func TestUpdateStatement_RejectsUnknownOrRepeatedColumns(t *testing.T) {
	_, _, err := updateStatement(1, []Assignment{{Column: "id", Value: 2}})
	assert.Error(t, err)

	_, _, err = updateStatement(1, []Assignment{{Column: "title", Value: "a"}, {Column: "title", Value: "b"}})
	assert.Error(t, err)
}

func TestUpdateStatement_RejectsEmptyAssignments(t *testing.T) {
	_, _, err := updateStatement(1, nil)
	assert.Error(t, err)
}
