package store

import (
	"errors"
	"strings"

	"backoffice/internal/domain"

	"gorm.io/gorm"
)

// entity names a table for error messages
type entity struct {
	name     string // Singular, capitalized: "Client"
	conflict string // Message returned on a unique violation
}

// translate maps a GORM or driver error to an application error
func translate(err error, e entity) error {
	if err == nil {
		return nil
	}
	var appErr *domain.Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NotFound(e.name + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err):
		return &domain.Error{Code: domain.CodeConflict, Message: e.conflict, Err: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated) || isForeignKeyViolation(err):
		return &domain.Error{Code: domain.CodeValidation, Message: "Referenced record does not exist", Err: err}
	default:
		return domain.StoreFailure("Failed to access "+strings.ToLower(e.name)+" records", err)
	}
}

// Fallbacks for drivers whose errors are not translated
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}

func isForeignKeyViolation(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}
