package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeItemsFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadItems_KeepsSuppliedIDsInAnyOrder(t *testing.T) {
	path := writeItemsFile(t, `[
		{"id": 2, "name": "Гайка", "amount": 5, "price": 1},
		{"id": 1, "name": "Болт", "amount": 10, "price": 2.5}
	]`)

	items, err := loadItems(path)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].ID)
	assert.Equal(t, 1, items[1].ID)
}

func TestLoadItems_NumbersOnlyMissingIDs(t *testing.T) {
	path := writeItemsFile(t, `[
		{"id": 3, "name": "Шайба", "amount": 1, "price": 0.5},
		{"name": "Болт", "amount": 10, "price": 2.5},
		{"name": "Гайка", "amount": 5, "price": 1}
	]`)

	items, err := loadItems(path)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, 3, items[0].ID)
	assert.Equal(t, 4, items[1].ID)
	assert.Equal(t, 5, items[2].ID)
}

func TestLoadItems_RejectsDuplicateIDs(t *testing.T) {
	path := writeItemsFile(t, `[
		{"id": 1, "name": "Болт", "amount": 10, "price": 2.5},
		{"id": 1, "name": "Гайка", "amount": 5, "price": 1}
	]`)

	_, err := loadItems(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id 1")
}

func TestLoadItems_RejectsNegativeIDs(t *testing.T) {
	path := writeItemsFile(t, `[{"id": -2, "name": "Болт", "amount": 1, "price": 1}]`)

	_, err := loadItems(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid id -2")
}
