package httputil

import (
	"github.com/go-playground/validator/v10"

	"github.com/kitworks/kitops-backend/pkg/errors"
)

var validate = validator.New()

// Validate runs struct tag validation and converts failures into a
// VALIDATION_ERROR AppError with one message per offending field.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	details := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		details[fe.Field()] = fieldMessage(fe)
	}
	return errors.Validation(details)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid UUID"
	default:
		return "invalid value"
	}
}
