package sqlite

import (
	"context"
	"fmt"
	"sync"

	sq "github.com/Masterminds/squirrel"

	"github.com/ikluft/moveboxtracker/internal/domain"
	"github.com/ikluft/moveboxtracker/internal/schema"
)

// Recorder is the audit capability handed to every mutating operation: one
// call per changed field, before the row is committed. Passing it explicitly
// (instead of a hidden global sink) lets tests substitute an in-memory
// recorder and assert on its contents.
type Recorder interface {
	Record(ctx context.Context, table, field string, oldValue, newValue any) error
}

// AuditLog appends before/after records to the append-only log table.
type AuditLog struct {
	store *Store
}

// NewAuditLog creates the store-backed audit recorder.
func NewAuditLog(store *Store) *AuditLog {
	return &AuditLog{store: store}
}

// Record appends one log row. It participates in the caller's transaction
// when one is open, so an aborted commit leaves no audit entries behind.
func (a *AuditLog) Record(ctx context.Context, table, field string, oldValue, newValue any) error {
	query, args, err := sq.Insert(schema.Log.Name).
		Columns("table_name", "field_name", "old_value", "new_value", "timestamp").
		Values(table, field, auditValue(oldValue), auditValue(newValue), domain.Now()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build audit insert: %w", err)
	}

	a.store.log.Debug("executing SQL", "sql", query, "args", args)
	if _, err := a.store.querier(ctx).ExecContext(ctx, query, args...); err != nil {
		return &domain.StorageError{Op: "audit " + table + "." + field, Cause: err}
	}
	return nil
}

// auditValue renders a field value for the log: NULL stays NULL, everything
// else becomes text.
func auditValue(v any) any {
	if v == nil {
		return nil
	}
	return fmt.Sprint(v)
}

// MemoryRecorder collects audit entries in memory. It backs tests that
// assert on exact old/new values without reading the log table.
type MemoryRecorder struct {
	mu      sync.Mutex
	Entries []MemoryEntry
}

// MemoryEntry is one recorded change.
type MemoryEntry struct {
	Table    string
	Field    string
	OldValue any
	NewValue any
}

// Record implements Recorder.
func (m *MemoryRecorder) Record(_ context.Context, table, field string, oldValue, newValue any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, MemoryEntry{Table: table, Field: field, OldValue: oldValue, NewValue: newValue})
	return nil
}
