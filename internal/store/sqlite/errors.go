package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ikluft/moveboxtracker/internal/domain"
	"github.com/ikluft/moveboxtracker/internal/schema"
)

// mapError converts driver errors to domain errors.
// context.DeadlineExceeded and context.Canceled are NOT mapped — they pass
// through. Foreign-key violations map to UnknownReferenceError here; delete
// handles them separately because there they mean a dependent row exists.
func mapError(err error, t *schema.Table, id int64) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %d: %w", t.Name, id, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Table: t.Name, ID: id}
	}

	switch code, ok := constraintCode(err); {
	case ok && (code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY):
		return &domain.DuplicateValueError{Table: t.Name, Field: constraintColumn(err, t)}
	case ok && code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return &domain.UnknownReferenceError{Table: t.Name, Value: id}
	case ok && code == sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return fmt.Errorf("%s %d: %s: %w", t.Name, id, err, domain.ErrValidation)
	}

	return &domain.StorageError{Op: t.Name, Cause: err}
}

// isForeignKeyErr reports whether err is a foreign-key constraint violation.
func isForeignKeyErr(err error) bool {
	code, ok := constraintCode(err)
	return ok && code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}

// constraintCode extracts the extended result code from a driver error.
func constraintCode(err error) (int, bool) {
	var se *sqlitedrv.Error
	if errors.As(err, &se) {
		return se.Code(), true
	}
	return 0, false
}

// constraintColumn recovers the violated column from the driver's
// "... constraint failed: <table>.<column>" message. Best effort: returns ""
// when the message does not carry it.
func constraintColumn(err error, t *schema.Table) string {
	msg := err.Error()
	marker := "constraint failed: " + t.Name + "."
	i := strings.Index(msg, marker)
	if i < 0 {
		return ""
	}
	col := msg[i+len(marker):]
	for j, r := range col {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return col[:j]
		}
	}
	return col
}
