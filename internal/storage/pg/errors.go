package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vartahub/newsdesk/internal/apperr"
)

const uniqueViolationCode = "23505"

// mapErr translates driver errors into the application taxonomy.
// conflictMsg and notFoundMsg are the user-visible reasons; the driver
// error only travels inside the wrap.
func mapErr(err error, conflictMsg, notFoundMsg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NewNotFound(notFoundMsg)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return apperr.NewConflictWrap(conflictMsg, err)
	}

	return apperr.NewPersistence("storage operation failed", err)
}
