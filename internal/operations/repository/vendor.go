package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/pkg/database"
	"github.com/kitworks/kitops-backend/pkg/errors"
)

const vendorColumns = `id, name, contact_person, email, phone, materials, created_at, updated_at`

// VendorRepository handles vendor persistence
type VendorRepository struct {
	db *database.DB
}

// NewVendorRepository creates a new vendor repository
func NewVendorRepository(db *database.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

// Create inserts a vendor
func (r *VendorRepository) Create(ctx context.Context, vendor *domain.Vendor) error {
	if vendor.ID == "" {
		vendor.ID = uuid.New().String()
	}
	if vendor.Materials == nil {
		vendor.Materials = domain.StringList{}
	}

	query := `
		INSERT INTO vendors (id, name, contact_person, email, phone, materials)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		vendor.ID, vendor.Name, vendor.ContactPerson, vendor.Email, vendor.Phone, vendor.Materials,
	).Scan(&vendor.CreatedAt, &vendor.UpdatedAt)
	if err != nil {
		return database.MapPQError(err)
	}
	return nil
}

// GetByID gets a vendor by ID
func (r *VendorRepository) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	var vendor domain.Vendor
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &vendor, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("vendor")
	}
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

// List lists vendors with pagination
func (r *VendorRepository) List(ctx context.Context, page, perPage int) ([]*domain.Vendor, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM vendors WHERE deleted_at IS NULL`); err != nil {
		return nil, 0, err
	}

	var vendors []*domain.Vendor
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE deleted_at IS NULL
		ORDER BY name LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &vendors, query, perPage, (page-1)*perPage); err != nil {
		return nil, 0, err
	}

	return vendors, total, nil
}

// GetAll gets all vendors for report snapshots
func (r *VendorRepository) GetAll(ctx context.Context) ([]domain.Vendor, error) {
	var vendors []domain.Vendor
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE deleted_at IS NULL ORDER BY name`
	if err := r.db.SelectContext(ctx, &vendors, query); err != nil {
		return nil, err
	}
	return vendors, nil
}

// Update updates a vendor
func (r *VendorRepository) Update(ctx context.Context, vendor *domain.Vendor) error {
	if vendor.Materials == nil {
		vendor.Materials = domain.StringList{}
	}

	query := `
		UPDATE vendors SET
			name = $2, contact_person = $3, email = $4, phone = $5, materials = $6,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		vendor.ID, vendor.Name, vendor.ContactPerson, vendor.Email, vendor.Phone, vendor.Materials,
	)
	if err != nil {
		return database.MapPQError(err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("vendor")
	}
	return nil
}

// SoftDelete soft deletes a vendor
func (r *VendorRepository) SoftDelete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE vendors SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("vendor")
	}
	return nil
}
