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

const jobColumns = `id, sources, targets, status, assignment_ids, created_at, updated_at`

// JobRepository handles processing job persistence
type JobRepository struct {
	db *database.DB
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *database.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a processing job
func (r *JobRepository) Create(ctx context.Context, job *domain.ProcessingJob) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = domain.JobAssigned
	}
	if job.Sources == nil {
		job.Sources = domain.JobMaterialList{}
	}
	if job.Targets == nil {
		job.Targets = domain.JobMaterialList{}
	}
	if job.AssignmentIDs == nil {
		job.AssignmentIDs = domain.StringList{}
	}

	query := `
		INSERT INTO processing_jobs (id, sources, targets, status, assignment_ids)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		job.ID, job.Sources, job.Targets, job.Status, job.AssignmentIDs,
	).Scan(&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return database.MapPQError(err)
	}
	return nil
}

// GetByID gets a job by ID
func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.ProcessingJob, error) {
	var job domain.ProcessingJob
	query := `SELECT ` + jobColumns + ` FROM processing_jobs WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &job, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("processing job")
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// List lists jobs with pagination, optionally filtered by status
func (r *JobRepository) List(ctx context.Context, page, perPage int, status string) ([]*domain.ProcessingJob, int64, error) {
	countQuery := `SELECT COUNT(*) FROM processing_jobs WHERE deleted_at IS NULL`
	listQuery := `SELECT ` + jobColumns + ` FROM processing_jobs WHERE deleted_at IS NULL`

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
	var jobs []*domain.ProcessingJob
	if err := r.db.SelectContext(ctx, &jobs, listQuery, args...); err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

// GetAll gets all jobs for report snapshots
func (r *JobRepository) GetAll(ctx context.Context) ([]domain.ProcessingJob, error) {
	var jobs []domain.ProcessingJob
	query := `SELECT ` + jobColumns + ` FROM processing_jobs WHERE deleted_at IS NULL ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &jobs, query); err != nil {
		return nil, err
	}
	return jobs, nil
}

// UpdateStatusTx moves a job to a new status inside the caller's
// transaction, alongside the stock moves the transition implies
func (r *JobRepository) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id string, status domain.JobStatus) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE processing_jobs SET status = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id, status)
	if err != nil {
		return database.MapPQError(err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("processing job")
	}
	return nil
}

// SoftDelete soft deletes a job
func (r *JobRepository) SoftDelete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE processing_jobs SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("processing job")
	}
	return nil
}
