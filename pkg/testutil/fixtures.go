package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
)

// FixtureFactory creates test fixtures with sensible defaults
type FixtureFactory struct {
	sequence int
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{sequence: 0}
}

// nextSeq returns the next sequence number for unique values
func (f *FixtureFactory) nextSeq() int {
	f.sequence++
	return f.sequence
}

// Client creates a client fixture with defaults
func (f *FixtureFactory) Client(opts ...func(*domain.Client)) domain.Client {
	seq := f.nextSeq()
	org := fmt.Sprintf("Test Org %d", seq)
	email := fmt.Sprintf("client%d@example.com", seq)

	client := domain.Client{
		ID:           uuid.New().String(),
		Code:         fmt.Sprintf("TO%s-%d", time.Now().Format("0106"), seq),
		Organization: &org,
		Email:        &email,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	for _, opt := range opts {
		opt(&client)
	}
	return client
}

// WithOrganization sets the client organization
func WithOrganization(org string) func(*domain.Client) {
	return func(c *domain.Client) {
		c.Organization = &org
	}
}

// Vendor creates a vendor fixture with defaults
func (f *FixtureFactory) Vendor(opts ...func(*domain.Vendor)) domain.Vendor {
	seq := f.nextSeq()

	vendor := domain.Vendor{
		ID:        uuid.New().String(),
		Name:      fmt.Sprintf("Vendor %d", seq),
		Materials: domain.StringList{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	for _, opt := range opts {
		opt(&vendor)
	}
	return vendor
}

// WithMaterials sets the vendor's supplied material names
func WithMaterials(materials ...string) func(*domain.Vendor) {
	return func(v *domain.Vendor) {
		v.Materials = materials
	}
}

// InventoryItem creates an inventory item fixture with defaults
func (f *FixtureFactory) InventoryItem(opts ...func(*domain.InventoryItem)) domain.InventoryItem {
	seq := f.nextSeq()

	item := domain.InventoryItem{
		ID:         uuid.New().String(),
		Name:       fmt.Sprintf("Material %d", seq),
		Type:       domain.ItemRaw,
		Quantity:   decimal.NewFromInt(100),
		Unit:       "pcs",
		Components: domain.BOMComponentList{},
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	for _, opt := range opts {
		opt(&item)
	}
	return item
}

// WithItemName sets the item name
func WithItemName(name string) func(*domain.InventoryItem) {
	return func(i *domain.InventoryItem) {
		i.Name = name
	}
}

// WithItemType sets the item type
func WithItemType(t domain.ItemType) func(*domain.InventoryItem) {
	return func(i *domain.InventoryItem) {
		i.Type = t
	}
}

// WithQuantity sets the item's stock level
func WithQuantity(qty int64) func(*domain.InventoryItem) {
	return func(i *domain.InventoryItem) {
		i.Quantity = decimal.NewFromInt(qty)
	}
}

// WithMinStock sets the minimum stock level
func WithMinStock(min int64) func(*domain.InventoryItem) {
	return func(i *domain.InventoryItem) {
		i.MinStockLevel = decimal.NewFromInt(min)
	}
}

// WithBOM sets the item's bill of materials
func WithBOM(components ...domain.BOMComponent) func(*domain.InventoryItem) {
	return func(i *domain.InventoryItem) {
		i.Components = components
	}
}

// Kit creates a legacy flat-component kit fixture with defaults
func (f *FixtureFactory) Kit(opts ...func(*domain.Kit)) domain.Kit {
	seq := f.nextSeq()

	kit := domain.Kit{
		ID:            uuid.New().String(),
		Name:          fmt.Sprintf("Kit %d", seq),
		SpareKits:     domain.NamedMaterialList{},
		BulkMaterials: domain.NamedMaterialList{},
		Miscellaneous: domain.NamedMaterialList{},
		Components:    domain.KitComponentList{},
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	for _, opt := range opts {
		opt(&kit)
	}
	return kit
}

// WithKitName sets the kit name
func WithKitName(name string) func(*domain.Kit) {
	return func(k *domain.Kit) {
		k.Name = name
	}
}

// WithComponents sets the legacy component list
func WithComponents(components ...domain.KitComponent) func(*domain.Kit) {
	return func(k *domain.Kit) {
		k.Components = components
	}
}

// WithPackingStructure marks the kit structured and sets its serialized
// packing requirements
func WithPackingStructure(raw string) func(*domain.Kit) {
	return func(k *domain.Kit) {
		k.IsStructured = true
		k.PackingRequirements = &raw
	}
}

// WithSpareKits sets the spare kit list
func WithSpareKits(materials ...domain.NamedMaterial) func(*domain.Kit) {
	return func(k *domain.Kit) {
		k.SpareKits = materials
	}
}

// Assignment creates an assignment fixture with defaults
func (f *FixtureFactory) Assignment(kitID, clientID string, opts ...func(*domain.Assignment)) domain.Assignment {
	seq := f.nextSeq()

	assignment := domain.Assignment{
		ID:          uuid.New().String(),
		KitID:       kitID,
		ClientID:    clientID,
		Quantity:    1,
		Status:      domain.AssignmentAssigned,
		BatchNumber: fmt.Sprintf("B%s-%d", time.Now().Format("200601"), seq),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	for _, opt := range opts {
		opt(&assignment)
	}
	return assignment
}

// WithAssignmentQuantity sets the assignment quantity
func WithAssignmentQuantity(qty int) func(*domain.Assignment) {
	return func(a *domain.Assignment) {
		a.Quantity = qty
	}
}

// WithStatus sets the assignment status
func WithStatus(status domain.AssignmentStatus) func(*domain.Assignment) {
	return func(a *domain.Assignment) {
		a.Status = status
	}
}

// WithProductionMonth sets the assignment's production month
func WithProductionMonth(month string) func(*domain.Assignment) {
	return func(a *domain.Assignment) {
		a.ProductionMonth = &month
	}
}

// ProcessingJob creates a processing job fixture with defaults
func (f *FixtureFactory) ProcessingJob(opts ...func(*domain.ProcessingJob)) domain.ProcessingJob {
	job := domain.ProcessingJob{
		ID:            uuid.New().String(),
		Sources:       domain.JobMaterialList{},
		Targets:       domain.JobMaterialList{},
		Status:        domain.JobAssigned,
		AssignmentIDs: domain.StringList{},
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	for _, opt := range opts {
		opt(&job)
	}
	return job
}

// WithJobTargets sets the job's target materials
func WithJobTargets(targets ...domain.JobMaterial) func(*domain.ProcessingJob) {
	return func(j *domain.ProcessingJob) {
		j.Targets = targets
	}
}

// WithJobSources sets the job's source materials
func WithJobSources(sources ...domain.JobMaterial) func(*domain.ProcessingJob) {
	return func(j *domain.ProcessingJob) {
		j.Sources = sources
	}
}

// WithJobAssignments links the job to assignments
func WithJobAssignments(ids ...string) func(*domain.ProcessingJob) {
	return func(j *domain.ProcessingJob) {
		j.AssignmentIDs = ids
	}
}

// WithJobStatus sets the job status
func WithJobStatus(status domain.JobStatus) func(*domain.ProcessingJob) {
	return func(j *domain.ProcessingJob) {
		j.Status = status
	}
}

// MaterialRequest creates a material request fixture with defaults
func (f *FixtureFactory) MaterialRequest(opts ...func(*domain.MaterialRequest)) domain.MaterialRequest {
	request := domain.MaterialRequest{
		ID:                  uuid.New().String(),
		Items:               domain.RequestItemList{},
		Status:              domain.RequestPending,
		PurchasedQuantities: domain.QuantityMap{},
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}

	for _, opt := range opts {
		opt(&request)
	}
	return request
}

// WithRequestItems sets the requested materials
func WithRequestItems(items ...domain.RequestItem) func(*domain.MaterialRequest) {
	return func(r *domain.MaterialRequest) {
		r.Items = items
	}
}

// WithRequestStatus sets the request status
func WithRequestStatus(status domain.RequestStatus) func(*domain.MaterialRequest) {
	return func(r *domain.MaterialRequest) {
		r.Status = status
	}
}
