package database

import (
	"strings"

	"github.com/lib/pq"

	"github.com/kitworks/kitops-backend/pkg/errors"
)

// pq error codes worth translating for API clients.
const (
	pqCheckViolation      = "23514"
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqNotNullViolation    = "23502"
)

// MapPQError translates a postgres constraint violation into an AppError
// with a message an operator can act on. Errors it does not recognize
// pass through unchanged.
func MapPQError(err error) error {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return err
	}

	switch pqErr.Code {
	case pqCheckViolation:
		return checkViolationError(pqErr.Constraint)
	case pqUniqueViolation:
		return errors.Conflict(uniqueViolationMessage(pqErr.Constraint))
	case pqForeignKeyViolation:
		return errors.BadRequest("referenced record does not exist")
	case pqNotNullViolation:
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{col: "must not be empty"})
	default:
		return err
	}
}

func checkViolationError(constraint string) *errors.AppError {
	switch {
	case strings.Contains(constraint, "quantity_non_negative"):
		return errors.Validation(map[string]string{
			"quantity": "must not be negative",
		})
	case strings.Contains(constraint, "item_type_valid"):
		return errors.Validation(map[string]string{
			"type": "must be one of: raw, pre_processed, finished, sealed_packet",
		})
	case strings.Contains(constraint, "status_valid"):
		return errors.Validation(map[string]string{
			"status": "is not a valid lifecycle status",
		})
	default:
		return errors.BadRequest("data validation failed: " + constraint)
	}
}

func uniqueViolationMessage(constraint string) string {
	switch {
	case strings.Contains(constraint, "inventory_items_name"):
		return "an inventory item with this name already exists"
	case strings.Contains(constraint, "clients_code"):
		return "a client with this code already exists"
	case strings.Contains(constraint, "batch_number"):
		return "an assignment with this batch number already exists"
	default:
		return "a record with these values already exists"
	}
}
