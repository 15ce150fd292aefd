package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage_Page1HeaderOffset(t *testing.T) {
	db := buildFixtureDB()
	page, err := parsePage(1, db[:testPageSize])
	require.NoError(t, err)
	assert.Equal(t, PageKindLeafTable, page.Kind)
	assert.Equal(t, uint16(1), page.CellCount)
	assert.True(t, page.IsLeaf())
}

func TestParsePage_Page2ZeroOffset(t *testing.T) {
	db := buildFixtureDB()
	page, err := parsePage(2, db[testPageSize:2*testPageSize])
	require.NoError(t, err)
	assert.Equal(t, uint16(3), page.CellCount)
	assert.Len(t, page.CellPointers, 3)
}

func TestParsePage_CellPointersWithinBounds(t *testing.T) {
	db := buildFixtureDB()
	page, err := parsePage(2, db[testPageSize:2*testPageSize])
	require.NoError(t, err)
	for _, ptr := range page.CellPointers {
		assert.Less(t, int(ptr), testPageSize)
	}
}

func TestParsePage_UnknownKindFails(t *testing.T) {
	buf := make([]byte, testPageSize)
	buf[0] = 0xaa
	_, err := parsePage(2, buf)
	assert.ErrorIs(t, err, ErrUnknownPageKind)
}
