package requirements

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/internal/operations/packing"
	"github.com/kitworks/kitops-backend/pkg/logger"
)

// Material categories
const (
	CategoryMainComponent = "Main Component"
	CategorySpareKit      = "Spare Kit"
	CategoryBulkMaterial  = "Bulk Material"
	CategoryMiscellaneous = "Miscellaneous"
)

// sealedPacketCategory relabels a category for a line that came out of a
// sealed packet's bill of materials
func sealedPacketCategory(base, packetName string) string {
	return fmt.Sprintf("%s (from Sealed Packet: %s)", base, packetName)
}

// MaterialLine is one flattened per-kit material requirement
type MaterialLine struct {
	Name           string
	InventoryID    string // set when the source record carried an explicit reference
	QuantityPerKit decimal.Decimal
	Unit           string
	Category       string
	// FromSealedPacket marks lines produced by sealed-packet decomposition
	FromSealedPacket bool
}

// Flattener turns kit definitions into flat material lines
type Flattener struct {
	resolver *Resolver
	log      *logger.Logger
}

// NewFlattener creates a flattener using the given inventory resolver
func NewFlattener(resolver *Resolver, log *logger.Logger) *Flattener {
	return &Flattener{resolver: resolver, log: log}
}

// FlattenKit produces the full flat material list of a kit: the parsed
// packing structure (structured kits), the legacy component list, and the
// spare/bulk/miscellaneous lists which apply regardless of shape. Sealed
// packets are decomposed into their BOM components afterwards.
func (f *Flattener) FlattenKit(kit *domain.Kit) []MaterialLine {
	var lines []MaterialLine

	if kit.IsStructured {
		structure := packing.ParseOrEmpty(kit.PackingRequirements, kit.ID, f.log)
		for _, pouch := range structure.Pouches {
			lines = append(lines, containerLines(pouch)...)
		}
		for _, packet := range structure.Packets {
			lines = append(lines, containerLines(packet)...)
		}
	}

	// Legacy flat components reference inventory by id
	for _, comp := range kit.Components {
		name := comp.InventoryItemID
		if item, ok := f.resolver.ByID(comp.InventoryItemID); ok {
			name = item.Name
		}
		lines = append(lines, MaterialLine{
			Name:           name,
			InventoryID:    comp.InventoryItemID,
			QuantityPerKit: comp.QuantityPerKit,
			Unit:           comp.Unit,
			Category:       CategoryMainComponent,
		})
	}

	// Independent of the packing structure
	lines = append(lines, namedLines(kit.SpareKits, CategorySpareKit)...)
	lines = append(lines, namedLines(kit.BulkMaterials, CategoryBulkMaterial)...)
	lines = append(lines, namedLines(kit.Miscellaneous, CategoryMiscellaneous)...)

	return f.expandSealedPackets(lines)
}

func containerLines(container packing.Container) []MaterialLine {
	lines := make([]MaterialLine, 0, len(container.Materials))
	for _, m := range container.Materials {
		lines = append(lines, MaterialLine{
			Name:           m.Name,
			QuantityPerKit: m.Quantity,
			Unit:           m.Unit,
			Category:       CategoryMainComponent,
		})
	}
	return lines
}

func namedLines(materials domain.NamedMaterialList, category string) []MaterialLine {
	lines := make([]MaterialLine, 0, len(materials))
	for _, m := range materials {
		lines = append(lines, MaterialLine{
			Name:           m.Name,
			QuantityPerKit: m.Quantity,
			Unit:           m.Unit,
			Category:       category,
		})
	}
	return lines
}

// expandSealedPackets replaces every line that resolves to a sealed packet
// with the packet's BOM components, scaled by the packet's per-kit quantity
// and relabeled to show the indirection. The expansion is one level deep:
// packet components are taken as raw or pre-processed materials and are not
// themselves decomposed.
func (f *Flattener) expandSealedPackets(lines []MaterialLine) []MaterialLine {
	expanded := make([]MaterialLine, 0, len(lines))

	for _, line := range lines {
		item, ok := f.resolver.Resolve(line.InventoryID, line.Name)
		if !ok || item.Type != domain.ItemSealedPacket || len(item.Components) == 0 {
			expanded = append(expanded, line)
			continue
		}

		for _, comp := range item.Components {
			name := comp.RawMaterialID
			unit := comp.Unit
			if raw, found := f.resolver.ByID(comp.RawMaterialID); found {
				name = raw.Name
				if unit == "" {
					unit = raw.Unit
				}
			}
			expanded = append(expanded, MaterialLine{
				Name:             name,
				InventoryID:      comp.RawMaterialID,
				QuantityPerKit:   comp.QuantityRequired.Mul(line.QuantityPerKit),
				Unit:             unit,
				Category:         sealedPacketCategory(line.Category, item.Name),
				FromSealedPacket: true,
			})
		}
	}

	return expanded
}
