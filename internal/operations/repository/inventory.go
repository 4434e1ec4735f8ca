package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/pkg/database"
	"github.com/kitworks/kitops-backend/pkg/errors"
)

const inventoryColumns = `id, name, type, quantity, unit, min_stock_level, components,
       created_at, updated_at`

// InventoryRepository handles inventory item persistence and stock moves
type InventoryRepository struct {
	db *database.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *database.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// Create inserts an inventory item
func (r *InventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Components == nil {
		item.Components = domain.BOMComponentList{}
	}

	query := `
		INSERT INTO inventory_items (id, name, type, quantity, unit, min_stock_level, components)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		item.ID, item.Name, item.Type, item.Quantity, item.Unit, item.MinStockLevel, item.Components,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return database.MapPQError(err)
	}
	return nil
}

// GetByID gets an item by ID
func (r *InventoryRepository) GetByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &item, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("inventory item")
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByName gets an item by case-insensitive name match
func (r *InventoryRepository) GetByName(ctx context.Context, name string) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items
		WHERE LOWER(name) = LOWER(TRIM($1)) AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &item, query, name)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("inventory item")
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// List lists items with pagination, optionally filtered by type
func (r *InventoryRepository) List(ctx context.Context, page, perPage int, itemType string) ([]*domain.InventoryItem, int64, error) {
	countQuery := `SELECT COUNT(*) FROM inventory_items WHERE deleted_at IS NULL`
	listQuery := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE deleted_at IS NULL`

	args := []interface{}{}
	if itemType != "" {
		countQuery += ` AND type = $1`
		listQuery += ` AND type = $1 ORDER BY name LIMIT $2 OFFSET $3`
		args = append(args, itemType)
	} else {
		listQuery += ` ORDER BY name LIMIT $1 OFFSET $2`
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	args = append(args, perPage, (page-1)*perPage)
	var items []*domain.InventoryItem
	if err := r.db.SelectContext(ctx, &items, listQuery, args...); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// GetAll gets all items for report snapshots
func (r *InventoryRepository) GetAll(ctx context.Context) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE deleted_at IS NULL ORDER BY name`
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, err
	}
	return items, nil
}

// Update updates an item's definition. Stock moves go through AdjustStock
// and DecrementStockTx instead; quantity is deliberately not written here.
func (r *InventoryRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	if item.Components == nil {
		item.Components = domain.BOMComponentList{}
	}

	query := `
		UPDATE inventory_items SET
			name = $2, type = $3, unit = $4, min_stock_level = $5, components = $6,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.Type, item.Unit, item.MinStockLevel, item.Components,
	)
	if err != nil {
		return database.MapPQError(err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("inventory item")
	}
	return nil
}

// SoftDelete soft deletes an item
func (r *InventoryRepository) SoftDelete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE inventory_items SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("inventory item")
	}
	return nil
}

// AdjustStock applies a signed stock delta and returns the new quantity.
// Negative results are rejected by the quantity_non_negative check
// constraint, which maps to a conflict error.
func (r *InventoryRepository) AdjustStock(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	var newQuantity decimal.Decimal
	query := `
		UPDATE inventory_items SET quantity = quantity + $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING quantity
	`
	err := r.db.QueryRowxContext(ctx, query, id, delta).Scan(&newQuantity)
	if err == sql.ErrNoRows {
		return decimal.Zero, errors.NotFound("inventory item")
	}
	if err != nil {
		return decimal.Zero, database.MapPQError(err)
	}
	return newQuantity, nil
}

// DecrementStockTx atomically checks and decrements one item's stock
// inside the caller's transaction. Zero rows affected means stock was
// insufficient; callers roll the whole transaction back.
func (r *InventoryRepository) DecrementStockTx(ctx context.Context, tx *sqlx.Tx, id string, qty decimal.Decimal, itemName string) (decimal.Decimal, error) {
	var newQuantity decimal.Decimal
	query := `
		UPDATE inventory_items SET quantity = quantity - $2, updated_at = NOW()
		WHERE id = $1 AND quantity >= $2 AND deleted_at IS NULL
		RETURNING quantity
	`
	err := tx.QueryRowxContext(ctx, query, id, qty).Scan(&newQuantity)
	if err == sql.ErrNoRows {
		return decimal.Zero, errors.InsufficientStock(itemName)
	}
	if err != nil {
		return decimal.Zero, err
	}
	return newQuantity, nil
}

// IncrementStockTx credits stock inside the caller's transaction
func (r *InventoryRepository) IncrementStockTx(ctx context.Context, tx *sqlx.Tx, id string, qty decimal.Decimal) (decimal.Decimal, error) {
	var newQuantity decimal.Decimal
	query := `
		UPDATE inventory_items SET quantity = quantity + $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING quantity
	`
	err := tx.QueryRowxContext(ctx, query, id, qty).Scan(&newQuantity)
	if err == sql.ErrNoRows {
		return decimal.Zero, errors.NotFound("inventory item")
	}
	if err != nil {
		return decimal.Zero, err
	}
	return newQuantity, nil
}

// ListBelowMinStock gets items whose quantity is below their minimum
// stock level, for the low-stock scanner
func (r *InventoryRepository) ListBelowMinStock(ctx context.Context) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items
		WHERE quantity < min_stock_level AND deleted_at IS NULL ORDER BY name`
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, err
	}
	return items, nil
}
