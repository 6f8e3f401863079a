package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/taskmanager-api/internal/store"
)

// PostgreSQL error codes
const (
	// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
	uniqueViolationCode = "23505"

	// checkViolationCode is the PostgreSQL error code for check constraint violations
	checkViolationCode = "23514"

	// undefinedTableCode is raised when the documents table has not been migrated
	undefinedTableCode = "42P01"
)

// MapError maps a database error to the store error taxonomy.
// sql.ErrNoRows becomes store.ErrNotFound; every other failure is wrapped in
// a *store.StoreError for the given collection and operation.
func MapError(collection, operation string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	message := "database operation failed"

	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		switch pgErr.Code {
		case uniqueViolationCode:
			message = "duplicate key"
		case checkViolationCode:
			message = fmt.Sprintf("check constraint violation (%s)", pgErr.ConstraintName)
		case undefinedTableCode:
			message = "schema not migrated"
		}
	case pgconn.Timeout(err):
		message = "database operation timed out"
	}

	return store.NewStoreError(collection, operation, message, err)
}

// parseID converts an external identifier into a UUID.
func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", store.ErrInvalidID, id)
	}
	return parsed, nil
}
