package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/kitworks/kitops-backend/pkg/database"
	"github.com/kitworks/kitops-backend/pkg/logger"
)

// One postgres container serves every integration test package in a run.
var (
	globalContainer *PostgresContainer
	globalDB        *sqlx.DB
	containerOnce   sync.Once
	containerErr    error
)

// IntegrationSuite bundles the shared container, database handles and
// fixture factory for integration tests. Create one in TestMain, reset
// data at the top of each test:
//
//	var suite *testutil.IntegrationSuite
//
//	func TestMain(m *testing.M) {
//	    ctx := context.Background()
//	    suite, _ = testutil.NewIntegrationSuite(ctx)
//	    defer testutil.TerminateContainer(ctx)
//	    os.Exit(m.Run())
//	}
type IntegrationSuite struct {
	Container *PostgresContainer
	RawDB     *sqlx.DB
	DB        *database.DB
	Fixtures  *FixtureFactory
	Logger    *logger.Logger
}

// NewIntegrationSuite connects to the shared container, applying the
// schema on first use.
func NewIntegrationSuite(ctx context.Context) (*IntegrationSuite, error) {
	container, db, err := sharedContainer(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New("test", "test")
	wrapped, err := database.NewWithDSN(container.DSN, log)
	if err != nil {
		return nil, err
	}

	if err := container.CreateSchema(ctx, db); err != nil {
		return nil, err
	}

	return &IntegrationSuite{
		Container: container,
		RawDB:     db,
		DB:        wrapped,
		Fixtures:  NewFixtureFactory(),
		Logger:    log,
	}, nil
}

func sharedContainer(ctx context.Context) (*PostgresContainer, *sqlx.DB, error) {
	containerOnce.Do(func() {
		globalContainer, containerErr = NewPostgresContainer(ctx, DefaultPostgresConfig())
		if containerErr != nil {
			return
		}
		globalDB, containerErr = globalContainer.Connect(ctx)
	})
	return globalContainer, globalDB, containerErr
}

// ResetData truncates every table so the test starts from a clean slate.
func (s *IntegrationSuite) ResetData(t *testing.T, ctx context.Context) {
	t.Helper()
	if err := s.Container.TruncateAll(ctx, s.RawDB); err != nil {
		t.Fatalf("failed to reset test data: %v", err)
	}
}

// TerminateContainer stops the shared container. Call it only from
// TestMain, after m.Run.
func TerminateContainer(ctx context.Context) {
	if globalContainer != nil {
		globalContainer.Terminate(ctx)
	}
}

// UnitTestSuite bundles a sqlmock database with fixtures for repository
// unit tests.
type UnitTestSuite struct {
	MockDB   *MockDB
	Fixtures *FixtureFactory
	t        *testing.T
}

func NewUnitTestSuite(t *testing.T) *UnitTestSuite {
	return &UnitTestSuite{
		MockDB:   NewMockDB(t),
		Fixtures: NewFixtureFactory(),
		t:        t,
	}
}

// Cleanup verifies mock expectations and closes the connection.
func (s *UnitTestSuite) Cleanup() {
	s.MockDB.ExpectationsWereMet(s.t)
	s.MockDB.Close()
}
