package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/ikluft/moveboxtracker/internal/domain"
	"github.com/ikluft/moveboxtracker/internal/schema"
)

// Resolver turns a caller-supplied foreign-key value into a target-table row
// id. Operators reference locations, rooms, and users by name during
// interactive use; stored rows always carry integer keys, so resolution
// happens fully before any write.
type Resolver struct {
	store *Store
}

// NewResolver creates a resolver over the store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve accepts either a numeric id or a display name for a row of the
// target table and returns the row id. Numeric values are verified to exist.
// Names are looked up in the table's designated unique name field; no match
// is UnknownReferenceError, more than one match is AmbiguousReferenceError.
func (r *Resolver) Resolve(ctx context.Context, target *schema.Table, value any) (int64, error) {
	if id, ok := domain.AsID(value); ok {
		exists, err := r.exists(ctx, target, id)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, &domain.UnknownReferenceError{Table: target.Name, Value: value}
		}
		return id, nil
	}

	name, ok := value.(string)
	if !ok || target.NameField == "" {
		return 0, &domain.UnknownReferenceError{Table: target.Name, Value: value}
	}

	ids, err := r.lookupByName(ctx, target, name)
	if err != nil {
		return 0, err
	}
	switch len(ids) {
	case 0:
		return 0, &domain.UnknownReferenceError{Table: target.Name, Value: value}
	case 1:
		return ids[0], nil
	default:
		return 0, &domain.AmbiguousReferenceError{Table: target.Name, Value: value, Matches: len(ids)}
	}
}

func (r *Resolver) exists(ctx context.Context, target *schema.Table, id int64) (bool, error) {
	query, args, err := sq.Select("1").From(target.Name).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build existence query: %w", err)
	}

	r.store.log.Debug("executing SQL", "sql", query, "args", args)
	var one int
	err = r.store.querier(ctx).QueryRowContext(ctx, query, args...).Scan(&one)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	default:
		return false, &domain.StorageError{Op: "resolve " + target.Name, Cause: err}
	}
}

func (r *Resolver) lookupByName(ctx context.Context, target *schema.Table, name string) ([]int64, error) {
	query, args, err := sq.Select("id").From(target.Name).Where(sq.Eq{target.NameField: name}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build name lookup: %w", err)
	}

	r.store.log.Debug("executing SQL", "sql", query, "args", args)
	rows, err := r.store.querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.StorageError{Op: "resolve " + target.Name, Cause: err}
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, &domain.StorageError{Op: "resolve " + target.Name, Cause: err}
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "resolve " + target.Name, Cause: err}
	}
	return ids, nil
}
