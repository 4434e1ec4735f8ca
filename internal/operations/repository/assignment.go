package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/pkg/database"
	"github.com/kitworks/kitops-backend/pkg/errors"
)

const assignmentColumns = `id, kit_id, client_id, quantity, status, batch_number,
       production_month, dispatched_at, created_at, updated_at`

// AssignmentRepository handles kit assignment persistence
type AssignmentRepository struct {
	db *database.DB
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db *database.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create inserts an assignment, generating its batch number inside the
// same transaction so concurrent creates in one month cannot collide
func (r *AssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.New().String()
	}
	if assignment.Status == "" {
		assignment.Status = domain.AssignmentAssigned
	}

	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if assignment.BatchNumber == "" {
			batch, err := nextBatchNumber(ctx, tx, time.Now())
			if err != nil {
				return err
			}
			assignment.BatchNumber = batch
		}

		query := `
			INSERT INTO assignments (id, kit_id, client_id, quantity, status, batch_number, production_month)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at, updated_at
		`
		err := tx.QueryRowxContext(ctx, query,
			assignment.ID, assignment.KitID, assignment.ClientID, assignment.Quantity,
			assignment.Status, assignment.BatchNumber, assignment.ProductionMonth,
		).Scan(&assignment.CreatedAt, &assignment.UpdatedAt)
		if err != nil {
			return database.MapPQError(err)
		}
		return nil
	})
}

// nextBatchNumber allocates B<YYYYMM>-<n>, one past the current maximum
// suffix for the month. Must run inside the caller's transaction.
func nextBatchNumber(ctx context.Context, tx *sqlx.Tx, now time.Time) (string, error) {
	prefix := "B" + now.Format("200601")

	var maxSuffix int
	query := `
		SELECT COALESCE(MAX(CAST(SPLIT_PART(batch_number, '-', 2) AS INTEGER)), 0)
		FROM assignments
		WHERE batch_number LIKE $1 || '-%'
	`
	if err := tx.GetContext(ctx, &maxSuffix, query, prefix); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%d", prefix, maxSuffix+1), nil
}

// GetByID gets an assignment by ID
func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	var assignment domain.Assignment
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &assignment, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("assignment")
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// List lists assignments with pagination, optionally filtered by status
func (r *AssignmentRepository) List(ctx context.Context, page, perPage int, status string) ([]*domain.Assignment, int64, error) {
	countQuery := `SELECT COUNT(*) FROM assignments WHERE deleted_at IS NULL`
	listQuery := `SELECT ` + assignmentColumns + ` FROM assignments WHERE deleted_at IS NULL`

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
	var assignments []*domain.Assignment
	if err := r.db.SelectContext(ctx, &assignments, listQuery, args...); err != nil {
		return nil, 0, err
	}

	return assignments, total, nil
}

// GetAll gets all assignments for report snapshots
func (r *AssignmentRepository) GetAll(ctx context.Context) ([]domain.Assignment, error) {
	var assignments []domain.Assignment
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE deleted_at IS NULL ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &assignments, query); err != nil {
		return nil, err
	}
	return assignments, nil
}

// Update updates an assignment's mutable fields. Status moves go through
// UpdateStatusTx so the transition stays inside the stock transaction.
func (r *AssignmentRepository) Update(ctx context.Context, assignment *domain.Assignment) error {
	query := `
		UPDATE assignments SET
			kit_id = $2, client_id = $3, quantity = $4, production_month = $5,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		assignment.ID, assignment.KitID, assignment.ClientID,
		assignment.Quantity, assignment.ProductionMonth,
	)
	if err != nil {
		return database.MapPQError(err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("assignment")
	}
	return nil
}

// UpdateStatusTx moves an assignment to a new status inside the caller's
// transaction. Dispatch stamps dispatched_at.
func (r *AssignmentRepository) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id string, status domain.AssignmentStatus) error {
	query := `UPDATE assignments SET status = $2, updated_at = NOW()`
	if status == domain.AssignmentDispatched {
		query += `, dispatched_at = NOW()`
	}
	query += ` WHERE id = $1 AND deleted_at IS NULL`

	result, err := tx.ExecContext(ctx, query, id, status)
	if err != nil {
		return database.MapPQError(err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("assignment")
	}
	return nil
}

// SoftDelete soft deletes an assignment
func (r *AssignmentRepository) SoftDelete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE assignments SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("assignment")
	}
	return nil
}
