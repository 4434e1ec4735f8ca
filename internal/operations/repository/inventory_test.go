package repository_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/internal/operations/repository"
	"github.com/kitworks/kitops-backend/pkg/errors"
	"github.com/kitworks/kitops-backend/pkg/testutil"
)

func createTestItem(t *testing.T, ctx context.Context, repo *repository.InventoryRepository, opts ...func(*domain.InventoryItem)) *domain.InventoryItem {
	t.Helper()
	item := suite.Fixtures.InventoryItem(opts...)
	require.NoError(t, repo.Create(ctx, &item))
	return &item
}

func TestInventoryRepository_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	repo := repository.NewInventoryRepository(suite.DB)

	item := createTestItem(t, ctx, repo,
		testutil.WithItemName("Steel Gear"),
		testutil.WithItemType(domain.ItemRaw),
		testutil.WithQuantity(42),
		testutil.WithMinStock(10),
	)

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Steel Gear", got.Name)
	assert.Equal(t, domain.ItemRaw, got.Type)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(42)))
	assert.True(t, got.MinStockLevel.Equal(decimal.NewFromInt(10)))
}

func TestInventoryRepository_BOMRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	repo := repository.NewInventoryRepository(suite.DB)

	raw := createTestItem(t, ctx, repo, testutil.WithItemName("Glue"))
	packet := createTestItem(t, ctx, repo,
		testutil.WithItemName("Adhesive Packet"),
		testutil.WithItemType(domain.ItemSealedPacket),
		testutil.WithBOM(domain.BOMComponent{
			RawMaterialID:    raw.ID,
			QuantityRequired: decimal.NewFromInt(2),
			Unit:             "ml",
		}),
	)

	got, err := repo.GetByID(ctx, packet.ID)
	require.NoError(t, err)
	require.Len(t, got.Components, 1)
	assert.Equal(t, raw.ID, got.Components[0].RawMaterialID)
	assert.True(t, got.Components[0].QuantityRequired.Equal(decimal.NewFromInt(2)))
}

func TestInventoryRepository_GetByName_CaseInsensitive(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	repo := repository.NewInventoryRepository(suite.DB)
	createTestItem(t, ctx, repo, testutil.WithItemName("Copper Wire"))

	got, err := repo.GetByName(ctx, "  copper wire ")
	require.NoError(t, err)
	assert.Equal(t, "Copper Wire", got.Name)

	_, err = repo.GetByName(ctx, "fiber wire")
	require.Error(t, err)
}

func TestInventoryRepository_AdjustStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	repo := repository.NewInventoryRepository(suite.DB)
	item := createTestItem(t, ctx, repo, testutil.WithQuantity(50))

	newQty, err := repo.AdjustStock(ctx, item.ID, decimal.NewFromInt(25))
	require.NoError(t, err)
	assert.True(t, newQty.Equal(decimal.NewFromInt(75)))

	newQty, err = repo.AdjustStock(ctx, item.ID, decimal.NewFromInt(-75))
	require.NoError(t, err)
	assert.True(t, newQty.IsZero())
}

func TestInventoryRepository_AdjustStock_RejectsNegativeResult(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	repo := repository.NewInventoryRepository(suite.DB)
	item := createTestItem(t, ctx, repo, testutil.WithQuantity(10))

	_, err := repo.AdjustStock(ctx, item.ID, decimal.NewFromInt(-11))
	require.Error(t, err)

	// The check constraint holds the floor; stock is unchanged
	got, getErr := repo.GetByID(ctx, item.ID)
	require.NoError(t, getErr)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(10)))
}

func TestInventoryRepository_DecrementStockTx_InsufficientStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	repo := repository.NewInventoryRepository(suite.DB)
	item := createTestItem(t, ctx, repo, testutil.WithItemName("Scarce Part"), testutil.WithQuantity(3))

	tx, err := suite.DB.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = repo.DecrementStockTx(ctx, tx, item.ID, decimal.NewFromInt(5), item.Name)
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, "INSUFFICIENT_STOCK", appErr.Code)
	assert.Contains(t, appErr.Message, "Scarce Part")
}

func TestInventoryRepository_DecrementStockTx_ExactBalance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	repo := repository.NewInventoryRepository(suite.DB)
	item := createTestItem(t, ctx, repo, testutil.WithQuantity(5))

	tx, err := suite.DB.BeginTxx(ctx, nil)
	require.NoError(t, err)

	newQty, err := repo.DecrementStockTx(ctx, tx, item.ID, decimal.NewFromInt(5), item.Name)
	require.NoError(t, err)
	assert.True(t, newQty.IsZero())

	require.NoError(t, tx.Commit())

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.IsZero())
}

func TestInventoryRepository_Update_DoesNotTouchQuantity(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	repo := repository.NewInventoryRepository(suite.DB)
	item := createTestItem(t, ctx, repo, testutil.WithQuantity(77))

	item.Name = "Renamed Material"
	item.Quantity = decimal.NewFromInt(1)
	require.NoError(t, repo.Update(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Material", got.Name)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(77)), "quantity must only move through stock operations")
}

func TestInventoryRepository_ListBelowMinStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	repo := repository.NewInventoryRepository(suite.DB)

	createTestItem(t, ctx, repo, testutil.WithItemName("Low Part"), testutil.WithQuantity(2), testutil.WithMinStock(10))
	createTestItem(t, ctx, repo, testutil.WithItemName("Exact Part"), testutil.WithQuantity(10), testutil.WithMinStock(10))
	createTestItem(t, ctx, repo, testutil.WithItemName("Full Part"), testutil.WithQuantity(50), testutil.WithMinStock(10))

	low, err := repo.ListBelowMinStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Low Part", low[0].Name)
}

func TestInventoryRepository_List_TypeFilter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	repo := repository.NewInventoryRepository(suite.DB)

	createTestItem(t, ctx, repo, testutil.WithItemType(domain.ItemRaw))
	createTestItem(t, ctx, repo, testutil.WithItemType(domain.ItemRaw))
	createTestItem(t, ctx, repo, testutil.WithItemType(domain.ItemPreProcessed))

	items, total, err := repo.List(ctx, 1, 50, string(domain.ItemPreProcessed))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, domain.ItemPreProcessed, items[0].Type)
}
