package db

import (
	"strings"

	pkgerrors "github.com/pixelcrate/gameshelf-backend/pkg/errors"
)

// SQLSTATE class 23 code postgres raises for duplicate keys.
const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique-constraint violation.
// Postgres errors carry a SQLSTATE through the pgx driver and are matched
// on it; the sqlite dev driver only surfaces text, so anything else falls
// back to message matching. A non-empty constraintName narrows the match
// to that constraint.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	if pgErr, ok := pkgerrors.PGError(err); ok {
		if pgErr.Code != pgUniqueViolation {
			return false
		}
		return constraintName == "" || pgErr.ConstraintName == constraintName
	}

	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") &&
		!strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return constraintName == "" || strings.Contains(msg, constraintName)
}
