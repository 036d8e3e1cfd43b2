package sqlite

import (
	"strings"

	"github.com/geohub/geod/internal/apperr"
)

func notFoundErr(kind, key string) error {
	return apperr.New(apperr.NotFound, kind+".lookup", kind+" not found").WithDetail("key", key)
}

// isUniqueViolation detects a SQLite UNIQUE constraint failure by
// message text: modernc.org/sqlite surfaces driver-level error codes
// through its own *sqlite.Error type rather than database/sql's
// portable error interfaces, so matching the message is the simplest
// thing that works across its error-wrapping layers.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
