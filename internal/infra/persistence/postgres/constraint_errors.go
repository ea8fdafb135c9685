package postgres

import (
	"strings"

	"sikre/internal/errors"

	"gorm.io/gorm"
)

// isUniqueViolation reports whether err is a unique-constraint failure.
// GORM's translated error covers the common path; the SQLSTATE fallback
// catches drivers that bypass translation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()

	return strings.Contains(msg, "SQLSTATE 23505") || strings.Contains(msg, "duplicate key value")
}
