// Package sqlxrepos provides the PostgreSQL repositories backing the core
// services, built on sqlx and lib/pq.
package sqlxrepos

import (
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/kmcollege/rollbook/core"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	return ok && pqErr.Code == uniqueViolation
}

// unavailable tags unexpected storage failures so the API surfaces them as 503.
func unavailable(err error, msg string) error {
	return core.NewUnavailableError(errors.Wrap(err, msg))
}
