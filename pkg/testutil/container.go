// Package testutil provides testing utilities for the operations service.
// It includes testcontainers for PostgreSQL, mock factories, and common
// test fixtures.
package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance
type PostgresContainer struct {
	*postgres.PostgresContainer
	DSN string
}

// PostgresContainerConfig configures the test PostgreSQL container
type PostgresContainerConfig struct {
	Database string
	Username string
	Password string
	Image    string // Optional: defaults to postgres:15-alpine
}

// DefaultPostgresConfig returns sensible defaults for test containers
func DefaultPostgresConfig() PostgresContainerConfig {
	return PostgresContainerConfig{
		Database: "kitops_test",
		Username: "test",
		Password: "test",
		Image:    "postgres:15-alpine",
	}
}

// NewPostgresContainer creates a new PostgreSQL test container.
//
// Usage:
//
//	func TestMain(m *testing.M) {
//	    ctx := context.Background()
//	    container, err := testutil.NewPostgresContainer(ctx, testutil.DefaultPostgresConfig())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer container.Terminate(ctx)
//
//	    code := m.Run()
//	    os.Exit(code)
//	}
func NewPostgresContainer(ctx context.Context, cfg PostgresContainerConfig) (*PostgresContainer, error) {
	if cfg.Image == "" {
		cfg.Image = "postgres:15-alpine"
	}
	if cfg.Database == "" {
		cfg.Database = "kitops_test"
	}
	if cfg.Username == "" {
		cfg.Username = "test"
	}
	if cfg.Password == "" {
		cfg.Password = "test"
	}

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage(cfg.Image),
		postgres.WithDatabase(cfg.Database),
		postgres.WithUsername(cfg.Username),
		postgres.WithPassword(cfg.Password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &PostgresContainer{
		PostgresContainer: container,
		DSN:               dsn,
	}, nil
}

// Connect returns a sqlx.DB connection to the container
func (c *PostgresContainer) Connect(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", c.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}
	return db, nil
}

// Terminate stops and removes the container
func (c *PostgresContainer) Terminate(ctx context.Context) error {
	return c.PostgresContainer.Terminate(ctx)
}

// CreateSchema creates the operations tables used by the repositories
func (c *PostgresContainer) CreateSchema(ctx context.Context, db *sqlx.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS clients (
			id UUID PRIMARY KEY,
			code VARCHAR(50) NOT NULL,
			organization VARCHAR(255),
			name VARCHAR(255),
			buyer_name VARCHAR(255),
			contact_person VARCHAR(255),
			email VARCHAR(255),
			phone VARCHAR(50),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ,
			CONSTRAINT clients_code_unique UNIQUE (code)
		);

		CREATE TABLE IF NOT EXISTS vendors (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			contact_person VARCHAR(255),
			email VARCHAR(255),
			phone VARCHAR(50),
			materials JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS kits (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			program VARCHAR(255),
			is_structured BOOLEAN NOT NULL DEFAULT FALSE,
			packing_requirements TEXT,
			spare_kits JSONB NOT NULL DEFAULT '[]',
			bulk_materials JSONB NOT NULL DEFAULT '[]',
			miscellaneous JSONB NOT NULL DEFAULT '[]',
			components JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS inventory_items (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			type VARCHAR(50) NOT NULL,
			quantity NUMERIC(14,3) NOT NULL DEFAULT 0,
			unit VARCHAR(50) NOT NULL DEFAULT '',
			min_stock_level NUMERIC(14,3) NOT NULL DEFAULT 0,
			components JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ,
			CONSTRAINT quantity_non_negative CHECK (quantity >= 0),
			CONSTRAINT item_type_valid CHECK (type IN ('raw', 'pre_processed', 'finished', 'sealed_packet'))
		);
		CREATE UNIQUE INDEX IF NOT EXISTS inventory_items_name
			ON inventory_items (LOWER(name)) WHERE deleted_at IS NULL;

		CREATE TABLE IF NOT EXISTS assignments (
			id UUID PRIMARY KEY,
			kit_id UUID NOT NULL REFERENCES kits(id),
			client_id UUID NOT NULL REFERENCES clients(id),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			status VARCHAR(50) NOT NULL DEFAULT 'assigned',
			batch_number VARCHAR(50) NOT NULL,
			production_month VARCHAR(7),
			dispatched_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ,
			CONSTRAINT status_valid CHECK (status IN
				('assigned', 'received_from_inventory', 'packed', 'dispatched', 'delivered', 'cancelled')),
			CONSTRAINT batch_number_unique UNIQUE (batch_number)
		);

		CREATE TABLE IF NOT EXISTS processing_jobs (
			id UUID PRIMARY KEY,
			sources JSONB NOT NULL DEFAULT '[]',
			targets JSONB NOT NULL DEFAULT '[]',
			status VARCHAR(50) NOT NULL DEFAULT 'assigned',
			assignment_ids JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS material_requests (
			id UUID PRIMARY KEY,
			items JSONB NOT NULL DEFAULT '[]',
			status VARCHAR(50) NOT NULL DEFAULT 'pending',
			assignment_id UUID REFERENCES assignments(id),
			purchased_quantities JSONB NOT NULL DEFAULT '{}',
			fulfilled BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// TruncateAll clears all operations tables between tests
func (c *PostgresContainer) TruncateAll(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		TRUNCATE material_requests, processing_jobs, assignments,
			inventory_items, kits, vendors, clients CASCADE
	`)
	return err
}
