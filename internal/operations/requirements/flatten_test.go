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

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "gear", requirements.NormalizeName("  Gear "))
	assert.Equal(t, "m3 screw", requirements.NormalizeName("M3 Screw"))
	assert.Equal(t, "", requirements.NormalizeName("   "))
}

func TestResolver_Resolve(t *testing.T) {
	items := []domain.InventoryItem{
		{ID: "inv-1", Name: "Gear", Type: domain.ItemRaw},
		{ID: "inv-2", Name: "Glue", Type: domain.ItemRaw},
	}
	resolver := requirements.NewResolver(items)

	t.Run("id wins over name", func(t *testing.T) {
		item, ok := resolver.Resolve("inv-2", "Gear")
		require.True(t, ok)
		assert.Equal(t, "Glue", item.Name)
	})

	t.Run("falls back to case-insensitive name", func(t *testing.T) {
		item, ok := resolver.Resolve("", "  gEaR ")
		require.True(t, ok)
		assert.Equal(t, "inv-1", item.ID)
	})

	t.Run("unknown id falls back to name", func(t *testing.T) {
		item, ok := resolver.Resolve("inv-missing", "glue")
		require.True(t, ok)
		assert.Equal(t, "inv-2", item.ID)
	})

	t.Run("unresolvable", func(t *testing.T) {
		_, ok := resolver.Resolve("", "Unobtainium")
		assert.False(t, ok)
	})
}

func TestFlattenKit_StructuredWithSealedPacket(t *testing.T) {
	inventory := []domain.InventoryItem{
		{ID: "inv-gear", Name: "Gear", Type: domain.ItemRaw, Unit: "pcs"},
		{ID: "inv-glue", Name: "Glue", Type: domain.ItemRaw, Unit: "ml"},
		{
			ID:   "inv-packet",
			Name: "Adhesive Packet",
			Type: domain.ItemSealedPacket,
			Components: domain.BOMComponentList{
				{RawMaterialID: "inv-glue", QuantityRequired: decimal.NewFromInt(2)},
			},
		},
	}
	resolver := requirements.NewResolver(inventory)
	flattener := requirements.NewFlattener(resolver, logger.New("test", "test"))

	packingJSON := `{
		"pouches": [{"name": "Main", "materials": [
			{"name": "Gear", "quantity": 2, "unit": "pcs"},
			{"name": "Adhesive Packet", "quantity": 3, "unit": "pcs"}
		]}]
	}`
	kit := &domain.Kit{
		ID:                  "kit-1",
		Name:                "Builder Kit",
		IsStructured:        true,
		PackingRequirements: &packingJSON,
		SpareKits: domain.NamedMaterialList{
			{Name: "Gear", Quantity: decimal.NewFromInt(1), Unit: "pcs"},
		},
	}

	lines := flattener.FlattenKit(kit)
	require.Len(t, lines, 3)

	assert.Equal(t, "Gear", lines[0].Name)
	assert.Equal(t, requirements.CategoryMainComponent, lines[0].Category)
	assert.True(t, lines[0].QuantityPerKit.Equal(decimal.NewFromInt(2)))
	assert.False(t, lines[0].FromSealedPacket)

	// The packet line is replaced by its BOM, scaled by the packet quantity
	assert.Equal(t, "Glue", lines[1].Name)
	assert.Equal(t, "inv-glue", lines[1].InventoryID)
	assert.True(t, lines[1].QuantityPerKit.Equal(decimal.NewFromInt(6)), "expected 2 x 3, got %s", lines[1].QuantityPerKit)
	assert.Equal(t, "ml", lines[1].Unit)
	assert.True(t, lines[1].FromSealedPacket)
	assert.Contains(t, lines[1].Category, "Adhesive Packet")

	assert.Equal(t, "Gear", lines[2].Name)
	assert.Equal(t, requirements.CategorySpareKit, lines[2].Category)
	assert.True(t, lines[2].QuantityPerKit.Equal(decimal.NewFromInt(1)))
}

func TestFlattenKit_LegacyComponents(t *testing.T) {
	inventory := []domain.InventoryItem{
		{ID: "inv-plate", Name: "Plate", Type: domain.ItemPreProcessed, Unit: "pcs"},
	}
	resolver := requirements.NewResolver(inventory)
	flattener := requirements.NewFlattener(resolver, logger.New("test", "test"))

	kit := &domain.Kit{
		ID:   "kit-legacy",
		Name: "Legacy Kit",
		Components: domain.KitComponentList{
			{InventoryItemID: "inv-plate", QuantityPerKit: decimal.NewFromInt(4), Unit: "pcs"},
			{InventoryItemID: "inv-unknown", QuantityPerKit: decimal.NewFromInt(1), Unit: "pcs"},
		},
		BulkMaterials: domain.NamedMaterialList{
			{Name: "Box", Quantity: decimal.NewFromInt(1), Unit: "pcs"},
		},
	}

	lines := flattener.FlattenKit(kit)
	require.Len(t, lines, 3)

	// Component names resolve through inventory when the reference is known
	assert.Equal(t, "Plate", lines[0].Name)
	assert.Equal(t, "inv-plate", lines[0].InventoryID)

	// Unknown references keep the raw id as the display name
	assert.Equal(t, "inv-unknown", lines[1].Name)

	assert.Equal(t, "Box", lines[2].Name)
	assert.Equal(t, requirements.CategoryBulkMaterial, lines[2].Category)
}

func TestFlattenKit_UnstructuredIgnoresPackingRequirements(t *testing.T) {
	resolver := requirements.NewResolver(nil)
	flattener := requirements.NewFlattener(resolver, logger.New("test", "test"))

	packingJSON := `{"pouches": [{"name": "P", "materials": [{"name": "Gear", "quantity": 1, "unit": "pcs"}]}]}`
	kit := &domain.Kit{
		ID:                  "kit-2",
		Name:                "Flat Kit",
		IsStructured:        false,
		PackingRequirements: &packingJSON,
		Miscellaneous: domain.NamedMaterialList{
			{Name: "Label", Quantity: decimal.NewFromInt(2), Unit: "pcs"},
		},
	}

	lines := flattener.FlattenKit(kit)
	require.Len(t, lines, 1)
	assert.Equal(t, "Label", lines[0].Name)
	assert.Equal(t, requirements.CategoryMiscellaneous, lines[0].Category)
}
