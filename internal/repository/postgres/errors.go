package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/lib/pq"
)

// mapError translates driver-level failures into the core taxonomy. Unique
// violations become conflicts (the state machines already treat duplicates as
// conflicts), other constraint violations become integrity errors, and an
// expired deadline becomes a timeout.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", domain.ErrConflict, pqErr.Constraint)
		case "23503", "23514": // foreign_key_violation, check_violation
			return fmt.Errorf("%w: %s", domain.ErrIntegrity, pqErr.Constraint)
		}
	}

	return err
}
