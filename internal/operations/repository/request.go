package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/pkg/database"
	"github.com/kitworks/kitops-backend/pkg/errors"
)

const requestColumns = `id, items, status, assignment_id, purchased_quantities, fulfilled,
       created_at, updated_at`

// RequestRepository handles material request persistence
type RequestRepository struct {
	db *database.DB
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *database.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create inserts a material request
func (r *RequestRepository) Create(ctx context.Context, request *domain.MaterialRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	if request.Status == "" {
		request.Status = domain.RequestPending
	}
	if request.Items == nil {
		request.Items = domain.RequestItemList{}
	}
	if request.PurchasedQuantities == nil {
		request.PurchasedQuantities = domain.QuantityMap{}
	}

	query := `
		INSERT INTO material_requests (id, items, status, assignment_id, purchased_quantities, fulfilled)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		request.ID, request.Items, request.Status, request.AssignmentID,
		request.PurchasedQuantities, request.Fulfilled,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return database.MapPQError(err)
	}
	return nil
}

// GetByID gets a request by ID
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*domain.MaterialRequest, error) {
	var request domain.MaterialRequest
	query := `SELECT ` + requestColumns + ` FROM material_requests WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &request, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("material request")
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// List lists requests with pagination, optionally filtered by status
func (r *RequestRepository) List(ctx context.Context, page, perPage int, status string) ([]*domain.MaterialRequest, int64, error) {
	countQuery := `SELECT COUNT(*) FROM material_requests WHERE deleted_at IS NULL`
	listQuery := `SELECT ` + requestColumns + ` FROM material_requests WHERE deleted_at IS NULL`

	args := []interface{}{}
	if status != "" {
		countQuery += ` AND status = $1`
		listQuery += ` AND status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, status)
	} else {
		listQuery += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	args = append(args, perPage, (page-1)*perPage)
	var requests []*domain.MaterialRequest
	if err := r.db.SelectContext(ctx, &requests, listQuery, args...); err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// GetAll gets all requests for report snapshots
func (r *RequestRepository) GetAll(ctx context.Context) ([]domain.MaterialRequest, error) {
	var requests []domain.MaterialRequest
	query := `SELECT ` + requestColumns + ` FROM material_requests WHERE deleted_at IS NULL ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &requests, query); err != nil {
		return nil, err
	}
	return requests, nil
}

// UpdateStatus moves a request to a new status
func (r *RequestRepository) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE material_requests SET status = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id, status)
	if err != nil {
		return database.MapPQError(err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("material request")
	}
	return nil
}

// UpdatePurchasedQuantities replaces the manual purchasing overrides
func (r *RequestRepository) UpdatePurchasedQuantities(ctx context.Context, id string, purchased domain.QuantityMap) error {
	if purchased == nil {
		purchased = domain.QuantityMap{}
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE material_requests SET purchased_quantities = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id, purchased)
	if err != nil {
		return database.MapPQError(err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("material request")
	}
	return nil
}

// MarkFulfilledTx marks an approved request fulfilled inside the caller's
// transaction, alongside the stock credits fulfilment implies
func (r *RequestRepository) MarkFulfilledTx(ctx context.Context, tx *sqlx.Tx, id string) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE material_requests SET fulfilled = TRUE, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("material request")
	}
	return nil
}

// SoftDelete soft deletes a request
func (r *RequestRepository) SoftDelete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE material_requests SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("material request")
	}
	return nil
}
