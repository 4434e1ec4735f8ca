package handler_test

import (
	"context"
	"log"
	"net/http"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/internal/operations/handler"
	"github.com/kitworks/kitops-backend/internal/operations/repository"
	"github.com/kitworks/kitops-backend/internal/operations/service"
	"github.com/kitworks/kitops-backend/pkg/logger"
	"github.com/kitworks/kitops-backend/pkg/testutil"
)

var suite *testutil.IntegrationSuite

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	suite, err = testutil.NewIntegrationSuite(ctx)
	if err != nil {
		log.Fatalf("failed to create integration suite: %v", err)
	}
	defer testutil.TerminateContainer(ctx)

	os.Exit(m.Run())
}

func newTestService() *service.OperationsService {
	return service.NewOperationsService(
		suite.DB,
		repository.NewClientRepository(suite.DB),
		repository.NewVendorRepository(suite.DB),
		repository.NewKitRepository(suite.DB),
		repository.NewInventoryRepository(suite.DB),
		repository.NewAssignmentRepository(suite.DB),
		repository.NewJobRepository(suite.DB),
		repository.NewRequestRepository(suite.DB),
		nil, // no event publisher needed for handler tests
		suite.Logger,
	)
}

func newInventoryRouter() chi.Router {
	h := handler.NewInventoryHandler(newTestService(), logger.New("test", "test"))

	r := chi.NewRouter()
	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/low-stock", h.LowStock)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/adjust", h.AdjustStock)
	})
	return r
}

func createItemViaRepo(t *testing.T, ctx context.Context, opts ...func(*domain.InventoryItem)) *domain.InventoryItem {
	t.Helper()
	item := suite.Fixtures.InventoryItem(opts...)
	require.NoError(t, repository.NewInventoryRepository(suite.DB).Create(ctx, &item))
	return &item
}

func TestInventoryHandler_Create(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	router := newInventoryRouter()

	body := `{"name": "Steel Gear", "type": "raw", "quantity": 25, "unit": "pcs", "min_stock_level": 5}`
	rec := testutil.PerformJSON(router, http.MethodPost, "/inventory", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data domain.InventoryItem `json:"data"`
	}
	testutil.DecodeResponse(t, rec, &resp)
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, "Steel Gear", resp.Data.Name)
	assert.Equal(t, domain.ItemRaw, resp.Data.Type)
}

func TestInventoryHandler_Create_RejectsUnknownType(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	router := newInventoryRouter()

	body := `{"name": "Mystery Item", "type": "liquid", "quantity": 1, "unit": "l"}`
	rec := testutil.PerformJSON(router, http.MethodPost, "/inventory", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestInventoryHandler_AdjustStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	item := createItemViaRepo(t, ctx, testutil.WithQuantity(50))
	router := newInventoryRouter()

	body := `{"delta": -20, "reason": "damaged batch"}`
	rec := testutil.PerformJSON(router, http.MethodPost, "/inventory/"+item.ID+"/adjust", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data domain.InventoryItem `json:"data"`
	}
	testutil.DecodeResponse(t, rec, &resp)
	assert.True(t, resp.Data.Quantity.Equal(decimal.NewFromInt(30)), "quantity %s", resp.Data.Quantity)
}

func TestInventoryHandler_AdjustStock_Overdraw(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	item := createItemViaRepo(t, ctx, testutil.WithQuantity(5))
	router := newInventoryRouter()

	rec := testutil.PerformJSON(router, http.MethodPost, "/inventory/"+item.ID+"/adjust", `{"delta": -6}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestInventoryHandler_Get_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	router := newInventoryRouter()

	rec := testutil.PerformJSON(router, http.MethodGet, "/inventory/66666666-6666-6666-6666-666666666666", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInventoryHandler_LowStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	suite.ResetData(t, ctx)

	createItemViaRepo(t, ctx, testutil.WithItemName("Low Part"), testutil.WithQuantity(1), testutil.WithMinStock(10))
	createItemViaRepo(t, ctx, testutil.WithItemName("Full Part"), testutil.WithQuantity(99), testutil.WithMinStock(10))

	router := newInventoryRouter()

	rec := testutil.PerformJSON(router, http.MethodGet, "/inventory/low-stock", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []domain.InventoryItem `json:"data"`
	}
	testutil.DecodeResponse(t, rec, &resp)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Low Part", resp.Data[0].Name)
}
