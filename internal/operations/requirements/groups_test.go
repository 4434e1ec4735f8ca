package requirements_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/internal/operations/requirements"
	"github.com/kitworks/kitops-backend/pkg/logger"
)

func TestKitWise(t *testing.T) {
	calc := testCalculator(t)
	groups := calc.KitWise()

	require.Len(t, groups, 1)
	group := groups[0]
	assert.Equal(t, "kit-1", group.KitID)
	assert.Equal(t, "Builder Kit", group.KitName)
	assert.Equal(t, 7, group.TotalKits)
	assert.Equal(t, []string{"a1", "a2"}, group.AssignmentIDs)
	assert.NotEmpty(t, group.Rows)

	gear := rowByName(t, group.Rows, "Gear")
	assert.True(t, gear.Required.Equal(d(21)))
}

func TestMonthWise_NewestFirst(t *testing.T) {
	calc := testCalculator(t)
	groups := calc.MonthWise()

	require.Len(t, groups, 2)
	assert.Equal(t, "2026-09", groups[0].Month)
	assert.Equal(t, "2026-08", groups[1].Month)

	// Per-month requirement is scoped to that month's assignments
	gear := rowByName(t, groups[0].Rows, "Gear")
	assert.True(t, gear.Required.Equal(d(15)), "5 kits x 3 gears, got %s", gear.Required)
}

func TestClientWise(t *testing.T) {
	calc := testCalculator(t)
	groups := calc.ClientWise()

	require.Len(t, groups, 2)

	// Insertion order of first appearance among assignments
	assert.Equal(t, "client-1", groups[0].ClientID)
	assert.Equal(t, "Globex", groups[0].ClientName)

	// Display name falls through to email when nothing better is set
	assert.Equal(t, "client-2", groups[1].ClientID)
	assert.Equal(t, "buyer@initech.com", groups[1].ClientName)
}

func TestClientWise_UnknownClient(t *testing.T) {
	snap := testSnapshot()
	snap.Clients = nil

	calc := requirements.NewCalculator(snap, logger.New("test", "test"))
	groups := calc.ClientWise()

	require.NotEmpty(t, groups)
	for _, group := range groups {
		assert.Equal(t, "Unknown Client", group.ClientName)
	}
}

func TestAssignmentWise(t *testing.T) {
	calc := testCalculator(t)
	groups := calc.AssignmentWise()

	require.Len(t, groups, 2)

	first := groups[0]
	assert.Equal(t, "a1", first.AssignmentID)
	assert.Equal(t, "Builder Kit", first.KitName)
	assert.Equal(t, "Globex", first.ClientName)
	assert.Equal(t, "B202609-1", first.BatchNumber)
	assert.Equal(t, 5, first.Quantity)

	gear := rowByName(t, first.Rows, "Gear")
	assert.True(t, gear.Required.Equal(d(15)))

	second := groups[1]
	assert.Equal(t, "a2", second.AssignmentID)
	assert.Equal(t, 2, second.Quantity)
}

func TestGroupings_DropFullyStockedGroups(t *testing.T) {
	snap := testSnapshot()
	for i := range snap.Inventory {
		snap.Inventory[i].Quantity = d(100000)
	}

	calc := requirements.NewCalculator(snap, logger.New("test", "test"))
	assert.Empty(t, calc.KitWise())
	assert.Empty(t, calc.MonthWise())
	assert.Empty(t, calc.ClientWise())
	assert.Empty(t, calc.AssignmentWise())
}

func TestMonthWise_FallsBackToCreationMonth(t *testing.T) {
	snap := testSnapshot()
	snap.Assignments = []domain.Assignment{snap.Assignments[0]}
	snap.Assignments[0].ProductionMonth = nil

	calc := requirements.NewCalculator(snap, logger.New("test", "test"))
	groups := calc.MonthWise()

	require.Len(t, groups, 1)
	assert.Equal(t, snap.Assignments[0].CreatedAt.Format("2006-01"), groups[0].Month)
}
