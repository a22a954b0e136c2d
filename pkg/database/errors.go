package database

import (
	"errors"
	"fmt"
	"strings"

	"anoa.com/folio/pkg/apperror"
	"gorm.io/gorm"
)

// TranslateError maps constraint violations reported by the driver onto
// application errors. Other errors are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey), isDuplicate(err):
		return fmt.Errorf("%w: %w", apperror.ErrConflict, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated), isForeignKey(err):
		return fmt.Errorf("%w: %w", apperror.ErrNotFound, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", apperror.ErrNotFound, err)
	}
	return err
}

func isDuplicate(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func isForeignKey(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "violates foreign key constraint")
}
