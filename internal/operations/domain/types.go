// Package domain holds the entity types of the operations console:
// clients, vendors, kits, inventory items, assignments, processing jobs
// and material requests. Nested document fields (packing structures, BOMs,
// job materials) are stored as JSONB and carried by list types in jsonb.go.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemType classifies an inventory item
type ItemType string

const (
	ItemRaw          ItemType = "raw"
	ItemPreProcessed ItemType = "pre_processed"
	ItemFinished     ItemType = "finished"
	ItemSealedPacket ItemType = "sealed_packet"
)

// Valid reports whether t is a known item type
func (t ItemType) Valid() bool {
	switch t {
	case ItemRaw, ItemPreProcessed, ItemFinished, ItemSealedPacket:
		return true
	}
	return false
}

// NamedMaterial is a free-text material line on a kit (spare kits, bulk
// materials, miscellaneous, packing-structure entries). The name is the
// join key to inventory, matched case-insensitively.
type NamedMaterial struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Notes    string          `json:"notes,omitempty"`
}

// NamedMaterialList is a JSONB list of NamedMaterial
type NamedMaterialList []NamedMaterial

// KitComponent is a legacy flat component line referencing inventory by id
type KitComponent struct {
	InventoryItemID string          `json:"inventory_item_id"`
	QuantityPerKit  decimal.Decimal `json:"quantity_per_kit"`
	Unit            string          `json:"unit"`
}

// KitComponentList is a JSONB list of KitComponent
type KitComponentList []KitComponent

// BOMComponent is one line of a composite item's bill of materials
type BOMComponent struct {
	RawMaterialID    string          `json:"raw_material_id"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
	Unit             string          `json:"unit"`
}

// BOMComponentList is a JSONB list of BOMComponent
type BOMComponentList []BOMComponent

// JobMaterial is a material consumed or produced by a processing job
type JobMaterial struct {
	InventoryID string          `json:"inventory_id"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
}

// JobMaterialList is a JSONB list of JobMaterial
type JobMaterialList []JobMaterial

// RequestItem is one line of a material request. InventoryID is optional;
// free-text names are resolved against inventory by name.
type RequestItem struct {
	InventoryID *string         `json:"inventory_id,omitempty"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
}

// RequestItemList is a JSONB list of RequestItem
type RequestItemList []RequestItem

// StringList is a JSONB list of strings
type StringList []string

// QuantityMap is a JSONB map of material name to quantity
type QuantityMap map[string]decimal.Decimal

// Client is a buyer of kits. Display-name resolution for reports tries
// Organization, Name, BuyerName, ContactPerson, Email in that order.
type Client struct {
	ID            string     `db:"id" json:"id"`
	Code          string     `db:"code" json:"code"`
	Organization  *string    `db:"organization" json:"organization,omitempty"`
	Name          *string    `db:"name" json:"name,omitempty"`
	BuyerName     *string    `db:"buyer_name" json:"buyer_name,omitempty"`
	ContactPerson *string    `db:"contact_person" json:"contact_person,omitempty"`
	Email         *string    `db:"email" json:"email,omitempty"`
	Phone         *string    `db:"phone" json:"phone,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at" json:"-"`
}

// DisplayName resolves the client's report label
func (c *Client) DisplayName() string {
	for _, candidate := range []*string{c.Organization, c.Name, c.BuyerName, c.ContactPerson, c.Email} {
		if candidate != nil && *candidate != "" {
			return *candidate
		}
	}
	return "Unknown Client"
}

// Vendor supplies raw materials. Materials lists the material names the
// vendor can deliver; the procurement report uses it for suggestions.
type Vendor struct {
	ID            string     `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	ContactPerson *string    `db:"contact_person" json:"contact_person,omitempty"`
	Email         *string    `db:"email" json:"email,omitempty"`
	Phone         *string    `db:"phone" json:"phone,omitempty"`
	Materials     StringList `db:"materials" json:"materials"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at" json:"-"`
}

// Kit is a bundled product definition. Structured kits carry a serialized
// packing structure; legacy kits carry a flat component list. The spare,
// bulk and miscellaneous lists apply to both shapes.
type Kit struct {
	ID                  string            `db:"id" json:"id"`
	Name                string            `db:"name" json:"name"`
	Program             *string           `db:"program" json:"program,omitempty"`
	IsStructured        bool              `db:"is_structured" json:"is_structured"`
	PackingRequirements *string           `db:"packing_requirements" json:"packing_requirements,omitempty"`
	SpareKits           NamedMaterialList `db:"spare_kits" json:"spare_kits"`
	BulkMaterials       NamedMaterialList `db:"bulk_materials" json:"bulk_materials"`
	Miscellaneous       NamedMaterialList `db:"miscellaneous" json:"miscellaneous"`
	Components          KitComponentList  `db:"components" json:"components"`
	CreatedAt           time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time         `db:"updated_at" json:"updated_at"`
	DeletedAt           *time.Time        `db:"deleted_at" json:"-"`
}

// InventoryItem is a stocked material. Sealed packets carry a BOM in
// Components and decompose into their raw materials for requirement math.
type InventoryItem struct {
	ID            string           `db:"id" json:"id"`
	Name          string           `db:"name" json:"name"`
	Type          ItemType         `db:"type" json:"type"`
	Quantity      decimal.Decimal  `db:"quantity" json:"quantity"`
	Unit          string           `db:"unit" json:"unit"`
	MinStockLevel decimal.Decimal  `db:"min_stock_level" json:"min_stock_level"`
	Components    BOMComponentList `db:"components" json:"components,omitempty"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`
	DeletedAt     *time.Time       `db:"deleted_at" json:"-"`
}

// Assignment commits N units of a kit to a client
type Assignment struct {
	ID              string           `db:"id" json:"id"`
	KitID           string           `db:"kit_id" json:"kit_id"`
	ClientID        string           `db:"client_id" json:"client_id"`
	Quantity        int              `db:"quantity" json:"quantity"`
	Status          AssignmentStatus `db:"status" json:"status"`
	BatchNumber     string           `db:"batch_number" json:"batch_number"`
	ProductionMonth *string          `db:"production_month" json:"production_month,omitempty"`
	DispatchedAt    *time.Time       `db:"dispatched_at" json:"dispatched_at,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
	DeletedAt       *time.Time       `db:"deleted_at" json:"-"`
}

// Month returns the grouping key for month-wise reports: the production
// month when set, otherwise the creation year-month.
func (a *Assignment) Month() string {
	if a.ProductionMonth != nil && *a.ProductionMonth != "" {
		return *a.ProductionMonth
	}
	return a.CreatedAt.Format("2006-01")
}

// ProcessingJob converts source materials into target materials
type ProcessingJob struct {
	ID            string          `db:"id" json:"id"`
	Sources       JobMaterialList `db:"sources" json:"sources"`
	Targets       JobMaterialList `db:"targets" json:"targets"`
	Status        JobStatus       `db:"status" json:"status"`
	AssignmentIDs StringList      `db:"assignment_ids" json:"assignment_ids"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
	DeletedAt     *time.Time      `db:"deleted_at" json:"-"`
}

// MaterialRequest asks procurement for materials. PurchasedQuantities is
// the manual purchasing override per material name, maintained by the
// procurement operator; approved requests count against procurement
// shortages until fulfilled.
type MaterialRequest struct {
	ID                  string          `db:"id" json:"id"`
	Items               RequestItemList `db:"items" json:"items"`
	Status              RequestStatus   `db:"status" json:"status"`
	AssignmentID        *string         `db:"assignment_id" json:"assignment_id,omitempty"`
	PurchasedQuantities QuantityMap     `db:"purchased_quantities" json:"purchased_quantities,omitempty"`
	Fulfilled           bool            `db:"fulfilled" json:"fulfilled"`
	CreatedAt           time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at" json:"updated_at"`
	DeletedAt           *time.Time      `db:"deleted_at" json:"-"`
}
