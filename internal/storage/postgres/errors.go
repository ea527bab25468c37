package postgres

import (
	"errors"
	"fmt"

	"SimpleMOOC/internal/app_errors"
	"SimpleMOOC/internal/storage"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

func UnwrapPgError(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}
	return nil
}

// isUniqueViolation matches a unique_violation raised by the named constraint.
// An empty constraint matches any unique violation.
func isUniqueViolation(err error, constraint string) bool {
	pgErr := UnwrapPgError(err)
	if pgErr == nil || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// uniqueConflict returns sentinel when err is a unique violation of one of the
// constraints, otherwise err wrapped with msg.
func uniqueConflict(err error, msg string, sentinel error, constraints ...string) error {
	for _, c := range constraints {
		if isUniqueViolation(err, c) {
			return sentinel
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func enrollmentInsertError(err error) error {
	return uniqueConflict(err, "failed to enroll", app_errors.ErrAlreadyEnrolled, storage.UniqueEnrollmentAccess)
}

func lessonInsertError(err error) error {
	return uniqueConflict(err, "failed to insert lesson", app_errors.ErrDuplicateLessonOrder, storage.UniqueLessonOrder)
}

func userWriteError(err error, msg string) error {
	return uniqueConflict(err, msg, app_errors.ErrUserExists, storage.UniqueUsername, storage.UniqueEmail)
}
