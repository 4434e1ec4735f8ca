package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/pkg/database"
	"github.com/kitworks/kitops-backend/pkg/errors"
)

const kitColumns = `id, name, program, is_structured, packing_requirements,
       spare_kits, bulk_materials, miscellaneous, components,
       created_at, updated_at`

// KitRepository handles kit persistence
type KitRepository struct {
	db *database.DB
}

// NewKitRepository creates a new kit repository
func NewKitRepository(db *database.DB) *KitRepository {
	return &KitRepository{db: db}
}

func normalizeKitLists(kit *domain.Kit) {
	if kit.SpareKits == nil {
		kit.SpareKits = domain.NamedMaterialList{}
	}
	if kit.BulkMaterials == nil {
		kit.BulkMaterials = domain.NamedMaterialList{}
	}
	if kit.Miscellaneous == nil {
		kit.Miscellaneous = domain.NamedMaterialList{}
	}
	if kit.Components == nil {
		kit.Components = domain.KitComponentList{}
	}
}

// Create inserts a kit
func (r *KitRepository) Create(ctx context.Context, kit *domain.Kit) error {
	if kit.ID == "" {
		kit.ID = uuid.New().String()
	}
	normalizeKitLists(kit)

	query := `
		INSERT INTO kits (id, name, program, is_structured, packing_requirements,
			spare_kits, bulk_materials, miscellaneous, components)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		kit.ID, kit.Name, kit.Program, kit.IsStructured, kit.PackingRequirements,
		kit.SpareKits, kit.BulkMaterials, kit.Miscellaneous, kit.Components,
	).Scan(&kit.CreatedAt, &kit.UpdatedAt)
	if err != nil {
		return database.MapPQError(err)
	}
	return nil
}

// GetByID gets a kit by ID
func (r *KitRepository) GetByID(ctx context.Context, id string) (*domain.Kit, error) {
	var kit domain.Kit
	query := `SELECT ` + kitColumns + ` FROM kits WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &kit, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("kit")
	}
	if err != nil {
		return nil, err
	}
	return &kit, nil
}

// List lists kits with pagination
func (r *KitRepository) List(ctx context.Context, page, perPage int) ([]*domain.Kit, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM kits WHERE deleted_at IS NULL`); err != nil {
		return nil, 0, err
	}

	var kits []*domain.Kit
	query := `SELECT ` + kitColumns + ` FROM kits WHERE deleted_at IS NULL
		ORDER BY name LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &kits, query, perPage, (page-1)*perPage); err != nil {
		return nil, 0, err
	}

	return kits, total, nil
}

// GetAll gets all kits for report snapshots
func (r *KitRepository) GetAll(ctx context.Context) ([]domain.Kit, error) {
	var kits []domain.Kit
	query := `SELECT ` + kitColumns + ` FROM kits WHERE deleted_at IS NULL ORDER BY name`
	if err := r.db.SelectContext(ctx, &kits, query); err != nil {
		return nil, err
	}
	return kits, nil
}

// Update updates a kit
func (r *KitRepository) Update(ctx context.Context, kit *domain.Kit) error {
	normalizeKitLists(kit)

	query := `
		UPDATE kits SET
			name = $2, program = $3, is_structured = $4, packing_requirements = $5,
			spare_kits = $6, bulk_materials = $7, miscellaneous = $8, components = $9,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		kit.ID, kit.Name, kit.Program, kit.IsStructured, kit.PackingRequirements,
		kit.SpareKits, kit.BulkMaterials, kit.Miscellaneous, kit.Components,
	)
	if err != nil {
		return database.MapPQError(err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("kit")
	}
	return nil
}

// SoftDelete soft deletes a kit
func (r *KitRepository) SoftDelete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE kits SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("kit")
	}
	return nil
}
