package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("already exists")
	ErrValidation = errors.New("validation error")
	ErrReference  = errors.New("reference error")
	ErrStorage    = errors.New("storage error")
)

// MissingFieldError reports a required field absent from a create request.
// The CLI may prompt for the field and retry.
type MissingFieldError struct {
	Table string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: required field %q missing", e.Table, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrValidation }

// UnknownFieldError reports a field name the table's schema does not define.
type UnknownFieldError struct {
	Table string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s: unknown field %q", e.Table, e.Field)
}

func (e *UnknownFieldError) Unwrap() error { return ErrValidation }

// UnknownReferenceError reports a reference value (id or display name) that
// does not resolve to a row in the target table.
type UnknownReferenceError struct {
	Table string
	Value any
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("%s: no row matches reference %v", e.Table, e.Value)
}

func (e *UnknownReferenceError) Unwrap() error { return ErrReference }

// AmbiguousReferenceError reports a display name matching more than one row.
// Resolution never picks a row arbitrarily.
type AmbiguousReferenceError struct {
	Table   string
	Value   any
	Matches int
}

func (e *AmbiguousReferenceError) Error() string {
	return fmt.Sprintf("%s: reference %v matches %d rows", e.Table, e.Value, e.Matches)
}

func (e *AmbiguousReferenceError) Unwrap() error { return ErrReference }

// DuplicateValueError reports a write that would violate a uniqueness
// constraint.
type DuplicateValueError struct {
	Table string
	Field string
	Value any
}

func (e *DuplicateValueError) Error() string {
	return fmt.Sprintf("%s: %s %v already exists", e.Table, e.Field, e.Value)
}

func (e *DuplicateValueError) Unwrap() error { return ErrDuplicate }

// NotFoundError reports a read/update/delete whose target id does not exist.
type NotFoundError struct {
	Table string
	ID    int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: id %d not found", e.Table, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ReferentialIntegrityError reports a delete refused because dependent rows
// still reference the target.
type ReferentialIntegrityError struct {
	Table string
	ID    int64
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s: id %d is still referenced by dependent rows", e.Table, e.ID)
}

func (e *ReferentialIntegrityError) Unwrap() error { return ErrReference }

// BatchCommitError reports a batch commit aborted mid-apply. The whole commit
// was rolled back; no box in the batch moved.
type BatchCommitError struct {
	BatchID int64
	BoxID   int64
	Cause   error
}

func (e *BatchCommitError) Error() string {
	return fmt.Sprintf("batch %d: commit aborted at box %d: %v", e.BatchID, e.BoxID, e.Cause)
}

func (e *BatchCommitError) Unwrap() error { return e.Cause }

// StorageError wraps a failure of the underlying store. Fatal for the current
// operation; transactional writes leave nothing partial behind.
type StorageError struct {
	Op    string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error { return ErrStorage }
