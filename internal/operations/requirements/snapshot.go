// Package requirements computes material-requirement reports from an
// in-memory snapshot of the operations data: kit flattening, sealed-packet
// decomposition, shortage math and the report groupings. Everything here is
// a pure projection; the snapshot is never mutated and every call recomputes
// from scratch.
package requirements

import (
	"strings"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
)

// Snapshot is a point-in-time copy of the collections the reports read.
// Loaded whole; the calculators do all joins in memory.
type Snapshot struct {
	Assignments []domain.Assignment
	Kits        []domain.Kit
	Inventory   []domain.InventoryItem
	Jobs        []domain.ProcessingJob
	Requests    []domain.MaterialRequest
	Clients     []domain.Client
	Vendors     []domain.Vendor
}

// NormalizeName produces the case-insensitive join key for a material name
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Resolver looks up inventory items by id or by normalized name. Kit
// materials usually carry only a free-text name; an explicit inventory
// reference wins when present.
type Resolver struct {
	byID   map[string]*domain.InventoryItem
	byName map[string]*domain.InventoryItem
}

// NewResolver indexes the snapshot's inventory
func NewResolver(items []domain.InventoryItem) *Resolver {
	r := &Resolver{
		byID:   make(map[string]*domain.InventoryItem, len(items)),
		byName: make(map[string]*domain.InventoryItem, len(items)),
	}
	for i := range items {
		item := &items[i]
		r.byID[item.ID] = item
		key := NormalizeName(item.Name)
		if _, exists := r.byName[key]; !exists {
			r.byName[key] = item
		}
	}
	return r
}

// ByID looks up an item by its identifier
func (r *Resolver) ByID(id string) (*domain.InventoryItem, bool) {
	item, ok := r.byID[id]
	return item, ok
}

// ByName looks up an item by case-insensitive name
func (r *Resolver) ByName(name string) (*domain.InventoryItem, bool) {
	item, ok := r.byName[NormalizeName(name)]
	return item, ok
}

// Resolve finds the inventory item for a material line: by id when the line
// carries one, otherwise by name.
func (r *Resolver) Resolve(id, name string) (*domain.InventoryItem, bool) {
	if id != "" {
		if item, ok := r.byID[id]; ok {
			return item, true
		}
	}
	return r.ByName(name)
}
