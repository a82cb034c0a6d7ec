package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore/internal/book"
)

func TestSeedColumns_AreBookColumns(t *testing.T) {
	for _, name := range seedColumns {
		c, ok := book.LookupColumn(name)
		require.True(t, ok, name)
		assert.NotEqual(t, book.ImageColumn, c.Name)
	}
}

func TestSeedRows(t *testing.T) {
	rows := seedRows(25, rand.New(rand.NewSource(1)))
	require.Len(t, rows, 25)

	for _, row := range rows {
		require.Len(t, row, len(seedColumns))
		for i, name := range seedColumns {
			c, _ := book.LookupColumn(name)
			switch c.Kind {
			case book.KindInt:
				assert.IsType(t, 0, row[i], name)
			case book.KindDecimal:
				assert.IsType(t, 0.0, row[i], name)
			default:
				assert.IsType(t, "", row[i], name)
			}
		}
		rating := row[9].(float64)
		assert.GreaterOrEqual(t, rating, 0.0)
		assert.LessOrEqual(t, rating, 5.0)
		assert.NotEmpty(t, book.SplitTags(row[2].(string)))
	}

	again := seedRows(25, rand.New(rand.NewSource(1)))
	assert.Equal(t, rows, again, "same seed, same rows")
}
