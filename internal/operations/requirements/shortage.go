package requirements

import (
	"github.com/shopspring/decimal"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/pkg/logger"
)

// Row statuses used by the procurement summary
const (
	StatusInStock  = "In Stock"
	StatusShortage = "Shortage"
)

// Row is one material line of a requirements report after merging.
// Required sums across contributing (kit, assignment) pairs; Available is
// the inventory snapshot level and is never summed across duplicates.
type Row struct {
	Name          string          `json:"name"`
	InventoryID   string          `json:"inventory_id,omitempty"`
	Unit          string          `json:"unit"`
	Category      string          `json:"category"`
	Required      decimal.Decimal `json:"required"`
	Available     decimal.Decimal `json:"available"`
	InFlight      decimal.Decimal `json:"in_flight"`
	Ordered       decimal.Decimal `json:"ordered"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	Shortage      decimal.Decimal `json:"shortage"`
	Status        string          `json:"status,omitempty"`
	Vendors       []string        `json:"vendors,omitempty"`
	Kits          []string        `json:"kits"`
	AssignmentIDs []string        `json:"assignment_ids"`

	itemType         domain.ItemType
	fromSealedPacket bool
}

// Calculator derives all requirement reports from one snapshot. It holds
// no state beyond per-kit flattening memoization; results are fresh slices
// on every call.
type Calculator struct {
	snap      *Snapshot
	resolver  *Resolver
	flattener *Flattener
	log       *logger.Logger

	kitsByID    map[string]*domain.Kit
	clientsByID map[string]*domain.Client
	flatCache   map[string][]MaterialLine
}

// NewCalculator builds a calculator over the snapshot
func NewCalculator(snap *Snapshot, log *logger.Logger) *Calculator {
	resolver := NewResolver(snap.Inventory)

	kitsByID := make(map[string]*domain.Kit, len(snap.Kits))
	for i := range snap.Kits {
		kitsByID[snap.Kits[i].ID] = &snap.Kits[i]
	}

	clientsByID := make(map[string]*domain.Client, len(snap.Clients))
	for i := range snap.Clients {
		clientsByID[snap.Clients[i].ID] = &snap.Clients[i]
	}

	return &Calculator{
		snap:        snap,
		resolver:    resolver,
		flattener:   NewFlattener(resolver, log),
		log:         log,
		kitsByID:    kitsByID,
		clientsByID: clientsByID,
		flatCache:   make(map[string][]MaterialLine),
	}
}

// flatten memoizes per-kit flattening for the lifetime of the calculator
func (c *Calculator) flatten(kit *domain.Kit) []MaterialLine {
	if lines, ok := c.flatCache[kit.ID]; ok {
		return lines
	}
	lines := c.flattener.FlattenKit(kit)
	c.flatCache[kit.ID] = lines
	return lines
}

// demandAssignments filters the snapshot to assignments that still
// contribute material demand
func (c *Calculator) demandAssignments() []domain.Assignment {
	demand := make([]domain.Assignment, 0, len(c.snap.Assignments))
	for _, a := range c.snap.Assignments {
		if a.Status.CountsAsDemand() {
			demand = append(demand, a)
		}
	}
	return demand
}

// accumulator folds material lines into merged rows. Rows keep insertion
// order of first appearance; contributing kit and assignment sets are
// deduplicated.
type accumulator struct {
	order []string
	rows  map[string]*Row
	seen  map[string]map[string]bool // row key -> contributed kit/assignment markers
}

func newAccumulator() *accumulator {
	return &accumulator{
		rows: make(map[string]*Row),
		seen: make(map[string]map[string]bool),
	}
}

func (acc *accumulator) add(line MaterialLine, assignment *domain.Assignment, kitName string, resolver *Resolver) {
	key := NormalizeName(line.Name)
	if key == "" {
		return
	}

	row, ok := acc.rows[key]
	if !ok {
		row = &Row{
			Name:             line.Name,
			InventoryID:      line.InventoryID,
			Unit:             line.Unit,
			Category:         line.Category,
			fromSealedPacket: line.FromSealedPacket,
		}
		// Available is the global stock level, captured once, never summed
		if item, found := resolver.Resolve(line.InventoryID, line.Name); found {
			row.InventoryID = item.ID
			row.Available = item.Quantity
			row.MinStockLevel = item.MinStockLevel
			row.itemType = item.Type
			if row.Unit == "" {
				row.Unit = item.Unit
			}
		}
		acc.rows[key] = row
		acc.order = append(acc.order, key)
		acc.seen[key] = make(map[string]bool)
	}

	qty := decimal.NewFromInt(int64(assignment.Quantity))
	row.Required = row.Required.Add(line.QuantityPerKit.Mul(qty))
	if line.FromSealedPacket {
		row.fromSealedPacket = true
	}

	markers := acc.seen[key]
	if kitName != "" && !markers["kit:"+kitName] {
		markers["kit:"+kitName] = true
		row.Kits = append(row.Kits, kitName)
	}
	if !markers["assignment:"+assignment.ID] {
		markers["assignment:"+assignment.ID] = true
		row.AssignmentIDs = append(row.AssignmentIDs, assignment.ID)
	}
}

// result copies the accumulated rows out in insertion order
func (acc *accumulator) result() []Row {
	rows := make([]Row, 0, len(acc.order))
	for _, key := range acc.order {
		rows = append(rows, *acc.rows[key])
	}
	return rows
}

// rowsFor merges the flattened demand of the given assignments. A missing
// kit is logged and skipped; one bad assignment must not blank the report.
func (c *Calculator) rowsFor(assignments []domain.Assignment) []Row {
	acc := newAccumulator()

	for i := range assignments {
		assignment := &assignments[i]
		kit, ok := c.kitsByID[assignment.KitID]
		if !ok {
			c.log.Warn().
				Str("assignment_id", assignment.ID).
				Str("kit_id", assignment.KitID).
				Msg("assignment references unknown kit, skipping")
			continue
		}
		for _, line := range c.flatten(kit) {
			acc.add(line, assignment, kit.Name, c.resolver)
		}
	}

	return acc.result()
}

// inFlightFor sums target quantities of active processing jobs that overlap
// the row's contributing assignments and produce the row's material. Queued
// production must not be counted as still-needed.
func (c *Calculator) inFlightFor(row *Row) decimal.Decimal {
	inFlight := decimal.Zero
	assignmentSet := make(map[string]bool, len(row.AssignmentIDs))
	for _, id := range row.AssignmentIDs {
		assignmentSet[id] = true
	}
	nameKey := NormalizeName(row.Name)

	for i := range c.snap.Jobs {
		job := &c.snap.Jobs[i]
		if !job.Status.Active() {
			continue
		}
		if !intersects(job.AssignmentIDs, assignmentSet) {
			continue
		}
		for _, target := range job.Targets {
			if (row.InventoryID != "" && target.InventoryID == row.InventoryID) ||
				NormalizeName(target.Name) == nameKey {
				inFlight = inFlight.Add(target.Quantity)
			}
		}
	}

	return inFlight
}

func intersects(ids domain.StringList, set map[string]bool) bool {
	for _, id := range ids {
		if set[id] {
			return true
		}
	}
	return false
}

// orderedQuantities sums, per normalized material name, the quantities on
// approved-but-unfulfilled material requests plus any manual purchasing
// overrides recorded on them.
func (c *Calculator) orderedQuantities() map[string]decimal.Decimal {
	ordered := make(map[string]decimal.Decimal)

	for i := range c.snap.Requests {
		req := &c.snap.Requests[i]
		if req.Status != domain.RequestApproved || req.Fulfilled {
			continue
		}
		for _, item := range req.Items {
			name := item.Name
			if item.InventoryID != nil {
				if inv, ok := c.resolver.ByID(*item.InventoryID); ok {
					name = inv.Name
				}
			}
			key := NormalizeName(name)
			ordered[key] = ordered[key].Add(item.Quantity)
		}
		for name, qty := range req.PurchasedQuantities {
			key := NormalizeName(name)
			ordered[key] = ordered[key].Add(qty)
		}
	}

	return ordered
}

// vendorSuggestions maps normalized material names to the vendors that
// supply them
func (c *Calculator) vendorSuggestions() map[string][]string {
	suggestions := make(map[string][]string)
	for i := range c.snap.Vendors {
		vendor := &c.snap.Vendors[i]
		for _, material := range vendor.Materials {
			key := NormalizeName(material)
			suggestions[key] = append(suggestions[key], vendor.Name)
		}
	}
	return suggestions
}

// clampShortage floors the shortage at zero
func clampShortage(d decimal.Decimal) decimal.Decimal {
	if d.Sign() < 0 {
		return decimal.Zero
	}
	return d
}

// MaterialSummary returns the merged shortage rows across all demand.
// Rows with zero shortage are dropped.
func (c *Calculator) MaterialSummary() []Row {
	rows := c.rowsFor(c.demandAssignments())
	return shortageOnly(rows)
}

// ProcessingRequirements returns shortages of pre-processed materials and
// sealed-packet components, net of in-flight production.
func (c *Calculator) ProcessingRequirements() []Row {
	all := c.rowsFor(c.demandAssignments())

	result := make([]Row, 0, len(all))
	for _, row := range all {
		if row.itemType != domain.ItemPreProcessed && !row.fromSealedPacket {
			continue
		}
		row.InFlight = c.inFlightFor(&row)
		row.Shortage = clampShortage(row.Required.Sub(row.Available).Sub(row.InFlight))
		if row.Shortage.Sign() > 0 {
			result = append(result, row)
		}
	}
	return result
}

// ProcurementSummary returns the procurement view over every required
// material. The order quantity replenishes the minimum stock floor and is
// reduced by quantities already on order. Zero-shortage rows are kept and
// tagged In Stock.
func (c *Calculator) ProcurementSummary() []Row {
	all := c.rowsFor(c.demandAssignments())
	ordered := c.orderedQuantities()
	vendors := c.vendorSuggestions()

	result := make([]Row, 0, len(all))
	for _, row := range all {
		key := NormalizeName(row.Name)
		row.Ordered = ordered[key]
		row.Vendors = vendors[key]
		row.Shortage = clampShortage(
			row.Required.Add(row.MinStockLevel).Sub(row.Available).Sub(row.Ordered))
		if row.Shortage.Sign() > 0 {
			row.Status = StatusShortage
		} else {
			row.Status = StatusInStock
		}
		result = append(result, row)
	}
	return result
}

// shortageOnly computes the plain demand-versus-stock shortage and keeps
// strictly positive rows
func shortageOnly(rows []Row) []Row {
	result := make([]Row, 0, len(rows))
	for _, row := range rows {
		row.Shortage = clampShortage(row.Required.Sub(row.Available))
		if row.Shortage.Sign() > 0 {
			result = append(result, row)
		}
	}
	return result
}
