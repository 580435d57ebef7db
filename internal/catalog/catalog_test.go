package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amg-tools/invent-cli/internal/invoice"
)

func feedRecord(id int) invoice.Counterparty {
	return invoice.Counterparty{
		ID:      id,
		Name:    "ООО Техно",
		INN:     7701234567,
		KPP:     770101001,
		Ind:     101000,
		Address: "г. Москва, ул. Ленина, 1",
		Bank: invoice.BankDetails{
			Name: "АО Банк", BIK: "044525225",
			Check1: "40702810000000000001", Check2: "30101810400000000225",
		},
		Suggestions: []string{"Монтаж", "Доставка"},
	}
}

func writeFeed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_JSONFeed(t *testing.T) {
	path := writeFeed(t, "counterparty.json", `[
	  {"id": 1, "name": "ООО Техно", "inn": 7701234567, "kpp": 770101001,
	   "ind": 101000, "address": "г. Москва, ул. Ленина, 1",
	   "phone": "+7 (495) 000-00-00",
	   "bank": {"name": "АО Банк", "bik": "044525225",
	            "check1": "40702810000000000001", "check2": "30101810400000000225"},
	   "suggestions": ["Монтаж", "Доставка"]}
	]`)

	cat, err := Load(path)
	require.NoError(t, err)

	cp, err := cat.Resolve(1)
	require.NoError(t, err)
	assert.Equal(t, "ООО Техно", cp.Name)
	assert.Equal(t, int64(7701234567), cp.INN)
	assert.Equal(t, "044525225", cp.Bank.BIK)
	assert.Equal(t, []string{"Монтаж", "Доставка"}, cp.Suggestions)
}

func TestLoad_YAMLFeed(t *testing.T) {
	path := writeFeed(t, "counterparty.yaml", `
- id: 1
  name: ООО Техно
  inn: 7701234567
  kpp: 770101001
  ind: 101000
  address: г. Москва, ул. Ленина, 1
  suggestions:
    - Монтаж
`)

	cat, err := Load(path)
	require.NoError(t, err)

	cp, err := cat.Resolve(1)
	require.NoError(t, err)
	assert.Equal(t, "ООО Техно", cp.Name)
	assert.Equal(t, []string{"", "Монтаж"}, cat.Suggestions(1))
}

func TestNew_SynthesizesManualEntry(t *testing.T) {
	cat, err := New([]invoice.Counterparty{feedRecord(1)})
	require.NoError(t, err)

	manual, err := cat.Resolve(invoice.ManualEntryID)
	require.NoError(t, err)
	assert.Equal(t, ManualEntryName, manual.Name)
	assert.Empty(t, manual.Suggestions)

	all := cat.All()
	require.Len(t, all, 2)
	assert.Equal(t, invoice.ManualEntryID, all[1].ID, "manual entry appended last")
}

func TestNew_KeepsFeedDefinedManualEntry(t *testing.T) {
	manual := invoice.Counterparty{ID: invoice.ManualEntryID, Name: "Другой покупатель"}
	cat, err := New([]invoice.Counterparty{manual, feedRecord(1)})
	require.NoError(t, err)

	got, err := cat.Resolve(invoice.ManualEntryID)
	require.NoError(t, err)
	assert.Equal(t, "Другой покупатель", got.Name)
	assert.Len(t, cat.All(), 2)
}

func TestNew_RejectsDuplicateIDs(t *testing.T) {
	_, err := New([]invoice.Counterparty{feedRecord(1), feedRecord(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id 1")
}

func TestNew_RejectsInvalidRecord(t *testing.T) {
	bad := feedRecord(2)
	bad.INN = 0

	_, err := New([]invoice.Counterparty{bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 2")
}

func TestResolve_UnknownIDFailsClosed(t *testing.T) {
	cat, err := New([]invoice.Counterparty{feedRecord(1)})
	require.NoError(t, err)

	_, err = cat.Resolve(2)
	require.ErrorIs(t, err, ErrUnknownCounterparty)
}

func TestSuggestions_PrefixedWithNoneEntry(t *testing.T) {
	cat, err := New([]invoice.Counterparty{feedRecord(1)})
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Монтаж", "Доставка"}, cat.Suggestions(1))
	assert.Equal(t, []string{""}, cat.Suggestions(invoice.ManualEntryID))
	assert.Equal(t, []string{""}, cat.Suggestions(99))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
