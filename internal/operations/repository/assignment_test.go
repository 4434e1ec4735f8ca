package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/internal/operations/repository"
	"github.com/kitworks/kitops-backend/pkg/testutil"
)

// createAssignmentDeps inserts the kit and client an assignment references
func createAssignmentDeps(t *testing.T, ctx context.Context) (kitID, clientID string) {
	t.Helper()

	kitRepo := repository.NewKitRepository(suite.DB)
	kit := suite.Fixtures.Kit()
	require.NoError(t, kitRepo.Create(ctx, &kit))

	clientRepo := repository.NewClientRepository(suite.DB)
	client := suite.Fixtures.Client()
	require.NoError(t, clientRepo.Create(ctx, &client))

	return kit.ID, client.ID
}

func TestAssignmentRepository_Create_GeneratesBatchNumber(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	kitID, clientID := createAssignmentDeps(t, ctx)
	repo := repository.NewAssignmentRepository(suite.DB)

	first := &domain.Assignment{KitID: kitID, ClientID: clientID, Quantity: 5}
	require.NoError(t, repo.Create(ctx, first))

	second := &domain.Assignment{KitID: kitID, ClientID: clientID, Quantity: 2}
	require.NoError(t, repo.Create(ctx, second))

	prefix := "B" + time.Now().Format("200601")
	assert.Equal(t, prefix+"-1", first.BatchNumber)
	assert.Equal(t, prefix+"-2", second.BatchNumber)
	assert.Equal(t, domain.AssignmentAssigned, first.Status)
}

func TestAssignmentRepository_Create_KeepsExplicitBatchNumber(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	kitID, clientID := createAssignmentDeps(t, ctx)
	repo := repository.NewAssignmentRepository(suite.DB)

	assignment := &domain.Assignment{
		KitID: kitID, ClientID: clientID, Quantity: 1,
		BatchNumber: "B209912-7",
	}
	require.NoError(t, repo.Create(ctx, assignment))
	assert.Equal(t, "B209912-7", assignment.BatchNumber)
}

func TestAssignmentRepository_Create_UnknownKitFails(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	_, clientID := createAssignmentDeps(t, ctx)
	repo := repository.NewAssignmentRepository(suite.DB)

	assignment := &domain.Assignment{
		KitID:    "22222222-2222-2222-2222-222222222222",
		ClientID: clientID,
		Quantity: 1,
	}
	err := repo.Create(ctx, assignment)
	require.Error(t, err)
}

func TestAssignmentRepository_UpdateStatusTx_StampsDispatchedAt(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	kitID, clientID := createAssignmentDeps(t, ctx)
	repo := repository.NewAssignmentRepository(suite.DB)

	assignment := &domain.Assignment{KitID: kitID, ClientID: clientID, Quantity: 1}
	require.NoError(t, repo.Create(ctx, assignment))

	for _, status := range []domain.AssignmentStatus{
		domain.AssignmentReceived,
		domain.AssignmentPacked,
		domain.AssignmentDispatched,
	} {
		tx, err := suite.DB.BeginTxx(ctx, nil)
		require.NoError(t, err)
		require.NoError(t, repo.UpdateStatusTx(ctx, tx, assignment.ID, status))
		require.NoError(t, tx.Commit())
	}

	got, err := repo.GetByID(ctx, assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AssignmentDispatched, got.Status)
	require.NotNil(t, got.DispatchedAt)
	assert.WithinDuration(t, time.Now(), *got.DispatchedAt, time.Minute)
}

func TestAssignmentRepository_List_StatusFilter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	kitID, clientID := createAssignmentDeps(t, ctx)
	repo := repository.NewAssignmentRepository(suite.DB)

	a1 := suite.Fixtures.Assignment(kitID, clientID)
	require.NoError(t, repo.Create(ctx, &a1))

	a2 := suite.Fixtures.Assignment(kitID, clientID, testutil.WithStatus(domain.AssignmentPacked))
	require.NoError(t, repo.Create(ctx, &a2))

	packed, total, err := repo.List(ctx, 1, 50, string(domain.AssignmentPacked))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, packed, 1)
	assert.Equal(t, a2.ID, packed[0].ID)

	all, total, err := repo.List(ctx, 1, 50, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)
}

func TestAssignmentRepository_Update_MutableFieldsOnly(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	kitID, clientID := createAssignmentDeps(t, ctx)
	repo := repository.NewAssignmentRepository(suite.DB)

	assignment := &domain.Assignment{KitID: kitID, ClientID: clientID, Quantity: 3}
	require.NoError(t, repo.Create(ctx, assignment))
	originalBatch := assignment.BatchNumber

	month := "2026-10"
	assignment.Quantity = 8
	assignment.ProductionMonth = &month
	assignment.Status = domain.AssignmentDelivered // must be ignored
	require.NoError(t, repo.Update(ctx, assignment))

	got, err := repo.GetByID(ctx, assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Quantity)
	require.NotNil(t, got.ProductionMonth)
	assert.Equal(t, "2026-10", *got.ProductionMonth)
	assert.Equal(t, domain.AssignmentAssigned, got.Status)
	assert.Equal(t, originalBatch, got.BatchNumber)
}
