package requirements

import (
	"sort"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
)

// KitGroup holds the shortage rows for one kit across all its demand
// assignments
type KitGroup struct {
	KitID         string   `json:"kit_id"`
	KitName       string   `json:"kit_name"`
	TotalKits     int      `json:"total_kits"`
	AssignmentIDs []string `json:"assignment_ids"`
	Rows          []Row    `json:"rows"`
}

// MonthGroup holds the shortage rows for one production month
type MonthGroup struct {
	Month string `json:"month"`
	Rows  []Row  `json:"rows"`
}

// ClientGroup holds the shortage rows for one client
type ClientGroup struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	Rows       []Row  `json:"rows"`
}

// AssignmentGroup holds the shortage rows for a single assignment
type AssignmentGroup struct {
	AssignmentID string `json:"assignment_id"`
	KitName      string `json:"kit_name"`
	ClientName   string `json:"client_name"`
	BatchNumber  string `json:"batch_number,omitempty"`
	Quantity     int    `json:"quantity"`
	Rows         []Row  `json:"rows"`
}

// KitWise groups demand by kit, in order of each kit's first appearance
// among assignments. Groups with no shortage rows are dropped.
func (c *Calculator) KitWise() []KitGroup {
	demand := c.demandAssignments()

	var order []string
	byKit := make(map[string][]domain.Assignment)
	for _, a := range demand {
		if _, ok := byKit[a.KitID]; !ok {
			order = append(order, a.KitID)
		}
		byKit[a.KitID] = append(byKit[a.KitID], a)
	}

	groups := make([]KitGroup, 0, len(order))
	for _, kitID := range order {
		assignments := byKit[kitID]
		rows := shortageOnly(c.rowsFor(assignments))
		if len(rows) == 0 {
			continue
		}

		group := KitGroup{KitID: kitID, Rows: rows}
		if kit, ok := c.kitsByID[kitID]; ok {
			group.KitName = kit.Name
		}
		for _, a := range assignments {
			group.TotalKits += a.Quantity
			group.AssignmentIDs = append(group.AssignmentIDs, a.ID)
		}
		groups = append(groups, group)
	}
	return groups
}

// MonthWise groups demand by production month, newest month first
func (c *Calculator) MonthWise() []MonthGroup {
	demand := c.demandAssignments()

	byMonth := make(map[string][]domain.Assignment)
	for _, a := range demand {
		month := a.Month()
		byMonth[month] = append(byMonth[month], a)
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	groups := make([]MonthGroup, 0, len(months))
	for _, month := range months {
		rows := shortageOnly(c.rowsFor(byMonth[month]))
		if len(rows) == 0 {
			continue
		}
		groups = append(groups, MonthGroup{Month: month, Rows: rows})
	}
	return groups
}

// ClientWise groups demand by client, in order of each client's first
// appearance among assignments
func (c *Calculator) ClientWise() []ClientGroup {
	demand := c.demandAssignments()

	var order []string
	byClient := make(map[string][]domain.Assignment)
	for _, a := range demand {
		if _, ok := byClient[a.ClientID]; !ok {
			order = append(order, a.ClientID)
		}
		byClient[a.ClientID] = append(byClient[a.ClientID], a)
	}

	groups := make([]ClientGroup, 0, len(order))
	for _, clientID := range order {
		rows := shortageOnly(c.rowsFor(byClient[clientID]))
		if len(rows) == 0 {
			continue
		}

		group := ClientGroup{ClientID: clientID, ClientName: "Unknown Client", Rows: rows}
		if client, ok := c.clientsByID[clientID]; ok {
			group.ClientName = client.DisplayName()
		}
		groups = append(groups, group)
	}
	return groups
}

// AssignmentWise yields one group per demand assignment that has at least
// one shortage row
func (c *Calculator) AssignmentWise() []AssignmentGroup {
	demand := c.demandAssignments()

	groups := make([]AssignmentGroup, 0, len(demand))
	for _, a := range demand {
		rows := shortageOnly(c.rowsFor([]domain.Assignment{a}))
		if len(rows) == 0 {
			continue
		}

		group := AssignmentGroup{
			AssignmentID: a.ID,
			Quantity:     a.Quantity,
			ClientName:   "Unknown Client",
			Rows:         rows,
		}
		group.BatchNumber = a.BatchNumber
		if kit, ok := c.kitsByID[a.KitID]; ok {
			group.KitName = kit.Name
		}
		if client, ok := c.clientsByID[a.ClientID]; ok {
			group.ClientName = client.DisplayName()
		}
		groups = append(groups, group)
	}
	return groups
}
