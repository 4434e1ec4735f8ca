// Package repository persists the operations entities in PostgreSQL.
// Queries go through sqlx; nested document fields round-trip as JSONB via
// the domain list types.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/pkg/database"
	"github.com/kitworks/kitops-backend/pkg/errors"
)

const clientColumns = `id, code, organization, name, buyer_name, contact_person, email, phone,
       created_at, updated_at`

// ClientRepository handles client persistence
type ClientRepository struct {
	db *database.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *database.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create inserts a client, generating its human-readable code inside the
// same transaction so concurrent creates cannot collide.
func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}

	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if client.Code == "" {
			code, err := nextClientCode(ctx, tx, client.DisplayName(), time.Now())
			if err != nil {
				return err
			}
			client.Code = code
		}

		query := `
			INSERT INTO clients (id, code, organization, name, buyer_name, contact_person, email, phone)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING created_at, updated_at
		`
		err := tx.QueryRowxContext(ctx, query,
			client.ID, client.Code, client.Organization, client.Name,
			client.BuyerName, client.ContactPerson, client.Email, client.Phone,
		).Scan(&client.CreatedAt, &client.UpdatedAt)
		if err != nil {
			return database.MapPQError(err)
		}
		return nil
	})
}

// nextClientCode allocates the next code in the <initials><MM><YY> scope,
// one past the current maximum suffix. Must run inside the caller's
// transaction.
func nextClientCode(ctx context.Context, tx *sqlx.Tx, displayName string, now time.Time) (string, error) {
	prefix := clientInitials(displayName) + now.Format("0106")

	var maxSuffix int
	query := `
		SELECT COALESCE(MAX(CAST(SPLIT_PART(code, '-', 2) AS INTEGER)), 0)
		FROM clients
		WHERE code LIKE $1 || '-%'
	`
	if err := tx.GetContext(ctx, &maxSuffix, query, prefix); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%d", prefix, maxSuffix+1), nil
}

// clientInitials takes the first letter of up to three words of the
// display name. Non-letter words are skipped; an empty result falls back
// to "CL".
func clientInitials(displayName string) string {
	var initials strings.Builder
	for _, word := range strings.Fields(displayName) {
		for _, r := range word {
			if unicode.IsLetter(r) {
				initials.WriteRune(unicode.ToUpper(r))
			}
			break
		}
		if initials.Len() >= 3 {
			break
		}
	}
	if initials.Len() == 0 {
		return "CL"
	}
	return initials.String()
}

// GetByID gets a client by ID
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	var client domain.Client
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &client, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("client")
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// List lists clients with pagination
func (r *ClientRepository) List(ctx context.Context, page, perPage int) ([]*domain.Client, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM clients WHERE deleted_at IS NULL`); err != nil {
		return nil, 0, err
	}

	var clients []*domain.Client
	query := `SELECT ` + clientColumns + ` FROM clients WHERE deleted_at IS NULL
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &clients, query, perPage, (page-1)*perPage); err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}

// GetAll gets all clients for report snapshots
func (r *ClientRepository) GetAll(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client
	query := `SELECT ` + clientColumns + ` FROM clients WHERE deleted_at IS NULL ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &clients, query); err != nil {
		return nil, err
	}
	return clients, nil
}

// Update updates a client. The code is immutable after creation.
func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	query := `
		UPDATE clients SET
			organization = $2, name = $3, buyer_name = $4, contact_person = $5,
			email = $6, phone = $7, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		client.ID, client.Organization, client.Name, client.BuyerName,
		client.ContactPerson, client.Email, client.Phone,
	)
	if err != nil {
		return database.MapPQError(err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("client")
	}
	return nil
}

// SoftDelete soft deletes a client
func (r *ClientRepository) SoftDelete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE clients SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("client")
	}
	return nil
}
