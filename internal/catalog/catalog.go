// Package catalog loads and serves the static counterparty feed: a
// read-only list of pre-registered buyer profiles keyed by integer id,
// loaded once at startup and never mutated.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/amg-tools/invent-cli/internal/invoice"
)

// ManualEntryName labels the synthetic manual-entry counterparty shown
// when the feed does not define id 0 itself.
const ManualEntryName = "Ввести вручную"

var (
	// ErrUnknownCounterparty means an entry parameter referenced an id the
	// feed does not know. This is a configuration error and fails closed:
	// the caller never gets an empty buyer or a silent default.
	ErrUnknownCounterparty = errors.New("unknown counterparty id")
)

// Catalog is the loaded feed.
type Catalog struct {
	list []invoice.Counterparty
	byID map[int]invoice.Counterparty
}

// Load reads a feed file and builds a catalog. The format follows the file
// extension: .yaml/.yml is parsed as YAML, anything else as JSON.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read counterparty feed: %w", err)
	}

	var records []invoice.Counterparty
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &records)
	default:
		err = json.Unmarshal(raw, &records)
	}
	if err != nil {
		return nil, fmt.Errorf("parse counterparty feed %s: %w", path, err)
	}

	return New(records)
}

// New builds a catalog from feed records. Every record except a
// feed-defined manual entry must pass integrity validation; ids must be
// unique. When the feed does not define id 0, the manual-entry
// counterparty is synthesized so it is always present by construction.
func New(records []invoice.Counterparty) (*Catalog, error) {
	v := validator.New()
	byID := make(map[int]invoice.Counterparty, len(records)+1)
	list := make([]invoice.Counterparty, 0, len(records)+1)

	for _, r := range records {
		if _, dup := byID[r.ID]; dup {
			return nil, fmt.Errorf("counterparty feed: duplicate id %d", r.ID)
		}
		if r.ID != invoice.ManualEntryID {
			if err := v.Struct(r); err != nil {
				return nil, fmt.Errorf("counterparty feed: record %d: %w", r.ID, err)
			}
		}
		byID[r.ID] = r
		list = append(list, r)
	}

	if _, ok := byID[invoice.ManualEntryID]; !ok {
		manual := invoice.Counterparty{ID: invoice.ManualEntryID, Name: ManualEntryName}
		byID[manual.ID] = manual
		list = append(list, manual)
	}

	return &Catalog{list: list, byID: byID}, nil
}

// All returns the counterparties in feed order, with a synthesized manual
// entry (if any) appended last.
func (c *Catalog) All() []invoice.Counterparty {
	out := make([]invoice.Counterparty, len(c.list))
	copy(out, c.list)
	return out
}

// Resolve returns the counterparty for id. Unknown ids fail closed with
// ErrUnknownCounterparty.
func (c *Catalog) Resolve(id int) (invoice.Counterparty, error) {
	cp, ok := c.byID[id]
	if !ok {
		return invoice.Counterparty{}, fmt.Errorf("%w: %d", ErrUnknownCounterparty, id)
	}
	return cp, nil
}

// Suggestions returns the counterparty's suggested item labels prefixed
// with one empty entry meaning "no suggestion chosen". Unknown ids and the
// manual entry yield just the empty entry.
func (c *Catalog) Suggestions(id int) []string {
	out := []string{""}
	if cp, ok := c.byID[id]; ok {
		out = append(out, cp.Suggestions...)
	}
	return out
}
