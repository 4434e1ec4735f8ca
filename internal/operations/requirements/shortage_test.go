package requirements_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/internal/operations/requirements"
	"github.com/kitworks/kitops-backend/pkg/logger"
)

func strPtr(s string) *string { return &s }

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// testSnapshot builds the scenario used across the calculator tests:
//
//	Builder Kit (structured), per kit:
//	  Gear x2 (pouch) + Gear x1 (spare)    -> 3
//	  Plate x1 (pouch, pre-processed)      -> 1
//	  Adhesive Packet x2 -> Glue x4 (BOM 2 per packet)
//	  Box x1 (bulk)                        -> 1
//
//	Demand: a1 = 5 kits (assigned, 2026-09), a2 = 2 kits (packed, 2026-08).
//	a3 = 3 kits but dispatched, so it contributes nothing.
func testSnapshot() *requirements.Snapshot {
	packingJSON := `{
		"pouches": [{"name": "Main", "materials": [
			{"name": "Gear", "quantity": 2, "unit": "pcs"},
			{"name": "Plate", "quantity": 1, "unit": "pcs"},
			{"name": "Adhesive Packet", "quantity": 2, "unit": "pcs"}
		]}]
	}`

	return &requirements.Snapshot{
		Inventory: []domain.InventoryItem{
			{ID: "inv-gear", Name: "Gear", Type: domain.ItemRaw, Quantity: d(10), Unit: "pcs", MinStockLevel: d(5)},
			{ID: "inv-plate", Name: "Plate", Type: domain.ItemPreProcessed, Quantity: d(3), Unit: "pcs"},
			{ID: "inv-glue", Name: "Glue", Type: domain.ItemRaw, Quantity: d(5), Unit: "ml"},
			{ID: "inv-box", Name: "Box", Type: domain.ItemRaw, Quantity: d(100), Unit: "pcs"},
			{
				ID:   "inv-packet",
				Name: "Adhesive Packet",
				Type: domain.ItemSealedPacket,
				Components: domain.BOMComponentList{
					{RawMaterialID: "inv-glue", QuantityRequired: d(2)},
				},
			},
		},
		Kits: []domain.Kit{
			{
				ID:                  "kit-1",
				Name:                "Builder Kit",
				IsStructured:        true,
				PackingRequirements: &packingJSON,
				SpareKits: domain.NamedMaterialList{
					{Name: "Gear", Quantity: d(1), Unit: "pcs"},
				},
				BulkMaterials: domain.NamedMaterialList{
					{Name: "Box", Quantity: d(1), Unit: "pcs"},
				},
			},
		},
		Clients: []domain.Client{
			{ID: "client-1", Code: "GL0926-1", Organization: strPtr("Globex")},
			{ID: "client-2", Code: "IN0926-1", Email: strPtr("buyer@initech.com")},
		},
		Assignments: []domain.Assignment{
			{ID: "a1", KitID: "kit-1", ClientID: "client-1", Quantity: 5,
				Status: domain.AssignmentAssigned, BatchNumber: "B202609-1", ProductionMonth: strPtr("2026-09")},
			{ID: "a2", KitID: "kit-1", ClientID: "client-2", Quantity: 2,
				Status: domain.AssignmentPacked, BatchNumber: "B202608-4", ProductionMonth: strPtr("2026-08")},
			{ID: "a3", KitID: "kit-1", ClientID: "client-1", Quantity: 3,
				Status: domain.AssignmentDispatched, BatchNumber: "B202607-2", ProductionMonth: strPtr("2026-07")},
		},
		Jobs: []domain.ProcessingJob{
			{
				ID:            "job-1",
				Status:        domain.JobInProgress,
				AssignmentIDs: domain.StringList{"a1"},
				Targets: domain.JobMaterialList{
					{InventoryID: "inv-plate", Name: "Plate", Quantity: d(2), Unit: "pcs"},
				},
			},
			{
				ID:            "job-cancelled",
				Status:        domain.JobCancelled,
				AssignmentIDs: domain.StringList{"a1"},
				Targets: domain.JobMaterialList{
					{InventoryID: "inv-plate", Name: "Plate", Quantity: d(50), Unit: "pcs"},
				},
			},
		},
		Requests: []domain.MaterialRequest{
			{
				ID:     "req-1",
				Status: domain.RequestApproved,
				Items: domain.RequestItemList{
					{Name: "Gear", Quantity: d(5), Unit: "pcs"},
				},
				PurchasedQuantities: domain.QuantityMap{"Gear": d(2)},
			},
			{
				ID:     "req-pending",
				Status: domain.RequestPending,
				Items: domain.RequestItemList{
					{Name: "Gear", Quantity: d(999), Unit: "pcs"},
				},
			},
		},
		Vendors: []domain.Vendor{
			{ID: "v1", Name: "Acme Supplies", Materials: domain.StringList{"Gear", "Glue"}},
		},
	}
}

func testCalculator(t *testing.T) *requirements.Calculator {
	t.Helper()
	return requirements.NewCalculator(testSnapshot(), logger.New("test", "test"))
}

func rowByName(t *testing.T, rows []requirements.Row, name string) requirements.Row {
	t.Helper()
	for _, row := range rows {
		if row.Name == name {
			return row
		}
	}
	t.Fatalf("no row named %q in %d rows", name, len(rows))
	return requirements.Row{}
}

func TestMaterialSummary(t *testing.T) {
	calc := testCalculator(t)
	rows := calc.MaterialSummary()

	// Box (available 100 vs required 7) has no shortage and is dropped
	require.Len(t, rows, 3)

	gear := rowByName(t, rows, "Gear")
	// 3 per kit x 7 demanded kits; dispatched assignment a3 excluded
	assert.True(t, gear.Required.Equal(d(21)), "required %s", gear.Required)
	assert.True(t, gear.Available.Equal(d(10)), "available must be the stock level, not a sum")
	assert.True(t, gear.Shortage.Equal(d(11)))
	assert.Equal(t, []string{"Builder Kit"}, gear.Kits)
	assert.Equal(t, []string{"a1", "a2"}, gear.AssignmentIDs)

	plate := rowByName(t, rows, "Plate")
	assert.True(t, plate.Required.Equal(d(7)))
	assert.True(t, plate.Shortage.Equal(d(4)))

	glue := rowByName(t, rows, "Glue")
	// Sealed packet BOM: 2 packets x 2 per packet = 4 per kit
	assert.True(t, glue.Required.Equal(d(28)), "required %s", glue.Required)
	assert.True(t, glue.Shortage.Equal(d(23)))
	assert.Equal(t, "inv-glue", glue.InventoryID)
}

func TestMaterialSummary_InsertionOrder(t *testing.T) {
	calc := testCalculator(t)
	rows := calc.MaterialSummary()

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	// Pouch order, with the packet line expanded in place
	assert.Equal(t, []string{"Gear", "Plate", "Glue"}, names)
}

func TestMaterialSummary_Repeatable(t *testing.T) {
	calc := testCalculator(t)

	first := calc.MaterialSummary()
	second := calc.MaterialSummary()
	assert.Equal(t, first, second)
}

func TestProcessingRequirements(t *testing.T) {
	calc := testCalculator(t)
	rows := calc.ProcessingRequirements()

	// Only the pre-processed Plate and the sealed-packet Glue qualify
	require.Len(t, rows, 2)

	plate := rowByName(t, rows, "Plate")
	// 7 required - 3 available - 2 in flight; the cancelled job is ignored
	assert.True(t, plate.InFlight.Equal(d(2)), "in flight %s", plate.InFlight)
	assert.True(t, plate.Shortage.Equal(d(2)), "shortage %s", plate.Shortage)

	glue := rowByName(t, rows, "Glue")
	assert.True(t, glue.InFlight.IsZero())
	assert.True(t, glue.Shortage.Equal(d(23)))
}

func TestProcessingRequirements_FullyCoveredRowDropped(t *testing.T) {
	snap := testSnapshot()
	// Enough plates in flight to cover the whole demand
	snap.Jobs[0].Targets[0].Quantity = d(10)

	calc := requirements.NewCalculator(snap, logger.New("test", "test"))
	rows := calc.ProcessingRequirements()

	for _, row := range rows {
		assert.NotEqual(t, "Plate", row.Name, "covered row must not appear")
		assert.True(t, row.Shortage.Sign() > 0)
	}
}

func TestProcurementSummary(t *testing.T) {
	calc := testCalculator(t)
	rows := calc.ProcurementSummary()

	// Every required material appears, including fully stocked ones
	require.Len(t, rows, 4)

	gear := rowByName(t, rows, "Gear")
	// Approved request: 5 itemized + 2 purchased override; pending ignored
	assert.True(t, gear.Ordered.Equal(d(7)), "ordered %s", gear.Ordered)
	// 21 required + 5 min stock - 10 available - 7 ordered
	assert.True(t, gear.Shortage.Equal(d(9)), "shortage %s", gear.Shortage)
	assert.Equal(t, requirements.StatusShortage, gear.Status)
	assert.Equal(t, []string{"Acme Supplies"}, gear.Vendors)

	box := rowByName(t, rows, "Box")
	assert.True(t, box.Shortage.IsZero())
	assert.Equal(t, requirements.StatusInStock, box.Status)
	assert.Empty(t, box.Vendors)
}

func TestCalculator_NoDemand(t *testing.T) {
	snap := testSnapshot()
	for i := range snap.Assignments {
		snap.Assignments[i].Status = domain.AssignmentDelivered
	}

	calc := requirements.NewCalculator(snap, logger.New("test", "test"))
	assert.Empty(t, calc.MaterialSummary())
	assert.Empty(t, calc.ProcessingRequirements())
	assert.Empty(t, calc.ProcurementSummary())
}

func TestCalculator_UnknownKitSkipped(t *testing.T) {
	snap := testSnapshot()
	snap.Assignments = append(snap.Assignments, domain.Assignment{
		ID: "a-orphan", KitID: "kit-missing", ClientID: "client-1", Quantity: 100,
		Status: domain.AssignmentAssigned, BatchNumber: "B202609-9",
	})

	calc := requirements.NewCalculator(snap, logger.New("test", "test"))
	rows := calc.MaterialSummary()

	gear := rowByName(t, rows, "Gear")
	// The orphaned assignment contributes nothing
	assert.True(t, gear.Required.Equal(d(21)))
	assert.NotContains(t, gear.AssignmentIDs, "a-orphan")
}

func TestCalculator_ShortageNeverNegative(t *testing.T) {
	snap := testSnapshot()
	for i := range snap.Inventory {
		snap.Inventory[i].Quantity = d(100000)
	}

	calc := requirements.NewCalculator(snap, logger.New("test", "test"))
	assert.Empty(t, calc.MaterialSummary())

	for _, row := range calc.ProcurementSummary() {
		assert.False(t, row.Shortage.Sign() < 0, "row %s has negative shortage", row.Name)
		assert.Equal(t, requirements.StatusInStock, row.Status)
	}
}
