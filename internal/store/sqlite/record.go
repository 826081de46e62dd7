package sqlite

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/ikluft/moveboxtracker/internal/domain"
	"github.com/ikluft/moveboxtracker/internal/schema"
)

// Records is the generic CRUD engine over every table the schema registry
// knows. It validates input against the registry, resolves references before
// any write, enforces uniqueness, and feeds every field change through the
// audit recorder. Each operation either fully applies or fully fails.
type Records struct {
	store    *Store
	txm      *TxManager
	resolver *Resolver
	audit    Recorder
}

// NewRecords creates the record engine with the given audit recorder.
func NewRecords(store *Store, audit Recorder) *Records {
	return &Records{
		store:    store,
		txm:      NewTxManager(store),
		resolver: NewResolver(store),
		audit:    audit,
	}
}

// Resolver exposes the engine's reference resolver.
func (r *Records) Resolver() *Resolver {
	return r.resolver
}

// Create inserts a new row and returns its assigned id. Required fields must
// all be present (after defaulting); reference fields are resolved to ids;
// uniqueness is enforced before the write. Creation emits no audit entry:
// there is no prior state that changed.
func (r *Records) Create(ctx context.Context, t *schema.Table, fields domain.Record) (int64, error) {
	if err := guardWritable(t, "create"); err != nil {
		return 0, err
	}
	if err := validateFieldNames(t, fields); err != nil {
		return 0, err
	}

	fields = fields.Clone()
	if err := r.fillDefaults(ctx, t, fields); err != nil {
		return 0, err
	}
	for _, f := range t.RequiredFields() {
		if v, ok := fields[f.Name]; !ok || v == nil {
			return 0, &domain.MissingFieldError{Table: t.Name, Field: f.Name}
		}
	}

	fields, err := r.normalizeFields(ctx, t, fields)
	if err != nil {
		return 0, err
	}
	if err := r.checkUnique(ctx, t, fields, 0); err != nil {
		return 0, err
	}

	cols := orderedPresent(t, fields)
	vals := make([]any, len(cols))
	for i, name := range cols {
		vals[i] = fields[name]
	}
	query, args, err := sq.Insert(t.Name).Columns(cols...).Values(vals...).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	r.store.log.Debug("executing SQL", "sql", query, "args", args)
	res, err := r.store.querier(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapError(err, t, 0)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &domain.StorageError{Op: "insert " + t.Name, Cause: err}
	}
	return id, nil
}

// Get reads one row by id.
func (r *Records) Get(ctx context.Context, t *schema.Table, id int64) (domain.Record, error) {
	if t.Singleton {
		return nil, fmt.Errorf("%s: %w: singleton table has no id; use the project interface", t.Name, domain.ErrValidation)
	}

	query, args, err := sq.Select(t.FieldNames()...).From(t.Name).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	r.store.log.Debug("executing SQL", "sql", query, "args", args)
	rec := domain.Record{}
	if err := sqlscan.Get(ctx, r.store.querier(ctx), &rec, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return nil, &domain.NotFoundError{Table: t.Name, ID: id}
		}
		return nil, mapError(err, t, id)
	}
	return normalizeScanned(rec), nil
}

// List returns all rows of a table in ascending id order. The singleton
// move_project table lists its sole row without an id.
func (r *Records) List(ctx context.Context, t *schema.Table) ([]domain.Record, error) {
	builder := sq.Select(t.FieldNames()...).From(t.Name)
	if !t.Singleton {
		builder = builder.OrderBy("id ASC")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	r.store.log.Debug("executing SQL", "sql", query, "args", args)
	var recs []domain.Record
	if err := sqlscan.Select(ctx, r.store.querier(ctx), &recs, query, args...); err != nil {
		return nil, mapError(err, t, 0)
	}
	for i := range recs {
		recs[i] = normalizeScanned(recs[i])
	}
	return recs, nil
}

// Update changes only the supplied fields of one row and returns the updated
// record. Every changed field is passed through the audit recorder before the
// row is committed; the audit entries and the row update share one
// transaction.
func (r *Records) Update(ctx context.Context, t *schema.Table, id int64, fields domain.Record) (domain.Record, error) {
	if err := guardWritable(t, "update"); err != nil {
		return nil, err
	}
	if err := validateFieldNames(t, fields); err != nil {
		return nil, err
	}

	var updated domain.Record
	err := r.txm.RunInTx(ctx, func(ctx context.Context) error {
		current, err := r.Get(ctx, t, id)
		if err != nil {
			return err
		}

		norm, err := r.normalizeFields(ctx, t, fields)
		if err != nil {
			return err
		}
		if err := r.checkUnique(ctx, t, norm, id); err != nil {
			return err
		}

		changed := domain.Record{}
		for name, v := range norm {
			if !sameValue(current[name], v) {
				changed[name] = v
			}
		}
		if len(changed) == 0 {
			updated = current
			return nil
		}

		for _, name := range orderedPresent(t, changed) {
			if err := r.audit.Record(ctx, t.Name, name, current[name], changed[name]); err != nil {
				return err
			}
		}

		query, args, err := sq.Update(t.Name).SetMap(changed).Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("build update: %w", err)
		}
		r.store.log.Debug("executing SQL", "sql", query, "args", args)
		if _, err := r.store.querier(ctx).ExecContext(ctx, query, args...); err != nil {
			return mapError(err, t, id)
		}

		updated, err = r.Get(ctx, t, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes one row by id. A row still referenced by dependent rows is
// refused with ReferentialIntegrityError. Deletions are audited: one entry
// per field with the old value and a NULL new value.
func (r *Records) Delete(ctx context.Context, t *schema.Table, id int64) error {
	if err := guardWritable(t, "delete"); err != nil {
		return err
	}

	return r.txm.RunInTx(ctx, func(ctx context.Context) error {
		current, err := r.Get(ctx, t, id)
		if err != nil {
			return err
		}

		query, args, err := sq.Delete(t.Name).Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}
		r.store.log.Debug("executing SQL", "sql", query, "args", args)
		res, err := r.store.querier(ctx).ExecContext(ctx, query, args...)
		if err != nil {
			if isForeignKeyErr(err) {
				return &domain.ReferentialIntegrityError{Table: t.Name, ID: id}
			}
			return mapError(err, t, id)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return &domain.NotFoundError{Table: t.Name, ID: id}
		}

		for _, name := range orderedPresent(t, current) {
			if name == "id" || current[name] == nil {
				continue
			}
			if err := r.audit.Record(ctx, t.Name, name, current[name], nil); err != nil {
				return err
			}
		}
		return nil
	})
}

// guardWritable refuses mutation of tables outside the generic CRUD path.
func guardWritable(t *schema.Table, op string) error {
	if t.Singleton {
		return fmt.Errorf("%s: %w: singleton table; use the project interface", t.Name, domain.ErrValidation)
	}
	if t.AppendOnly {
		return fmt.Errorf("%s: %w: audit log is append-only, %s refused", t.Name, domain.ErrValidation, op)
	}
	return nil
}

// validateFieldNames rejects fields the schema does not define, and the id
// column (assigned at creation, immutable thereafter).
func validateFieldNames(t *schema.Table, fields domain.Record) error {
	for name := range fields {
		if name == "id" {
			return &domain.UnknownFieldError{Table: t.Name, Field: "id"}
		}
		if _, ok := t.Field(name); !ok {
			return &domain.UnknownFieldError{Table: t.Name, Field: name}
		}
	}
	return nil
}

// fillDefaults supplies engine-generated values for absent fields: creation
// timestamps, and the move project's primary user for scanner/owner fields.
func (r *Records) fillDefaults(ctx context.Context, t *schema.Table, fields domain.Record) error {
	for i := range t.Fields {
		f := &t.Fields[i]
		if v, ok := fields[f.Name]; ok && v != nil {
			continue
		}
		switch {
		case f.DefaultNow:
			fields[f.Name] = domain.Now()
		case f.DefaultPrimaryUser:
			id, err := r.primaryUser(ctx)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return &domain.MissingFieldError{Table: t.Name, Field: f.Name}
				}
				return err
			}
			fields[f.Name] = id
		}
	}
	return nil
}

// primaryUser reads the move project's primary user id.
func (r *Records) primaryUser(ctx context.Context) (int64, error) {
	query, args, err := sq.Select("primary_user").From(schema.MoveProject.Name).Limit(1).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build primary user query: %w", err)
	}

	r.store.log.Debug("executing SQL", "sql", query, "args", args)
	var id int64
	if err := r.store.querier(ctx).QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapError(err, schema.MoveProject, 0)
	}
	return id, nil
}

// normalizeFields resolves reference values to ids and applies per-field
// normalization (web colors, timestamps). Returns a new record; the input is
// not modified.
func (r *Records) normalizeFields(ctx context.Context, t *schema.Table, fields domain.Record) (domain.Record, error) {
	out := fields.Clone()
	for name, value := range out {
		f, _ := t.Field(name)
		if value == nil {
			continue
		}
		if f.References != nil {
			id, err := r.resolver.Resolve(ctx, f.References, value)
			if err != nil {
				return nil, err
			}
			out[name] = id
			continue
		}
		switch f.Normalize {
		case schema.Color:
			color, err := domain.NormalizeColor(fmt.Sprint(value))
			if err != nil {
				return nil, err
			}
			out[name] = color
		case schema.Time:
			ts, err := domain.NormalizeTimestamp(fmt.Sprint(value))
			if err != nil {
				return nil, err
			}
			out[name] = ts
		}
	}
	return out, nil
}

// checkUnique enforces uniqueness constraints before a write. excludeID
// skips the row being updated so re-asserting its own value is not a
// violation.
func (r *Records) checkUnique(ctx context.Context, t *schema.Table, fields domain.Record, excludeID int64) error {
	for _, f := range t.UniqueFields() {
		v, ok := fields[f.Name]
		if !ok || v == nil {
			continue
		}
		builder := sq.Select("COUNT(*)").From(t.Name).Where(sq.Eq{f.Name: v})
		if excludeID > 0 {
			builder = builder.Where(sq.NotEq{"id": excludeID})
		}
		query, args, err := builder.ToSql()
		if err != nil {
			return fmt.Errorf("build uniqueness check: %w", err)
		}

		r.store.log.Debug("executing SQL", "sql", query, "args", args)
		var count int
		if err := r.store.querier(ctx).QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
			return &domain.StorageError{Op: "uniqueness check " + t.Name, Cause: err}
		}
		if count > 0 {
			return &domain.DuplicateValueError{Table: t.Name, Field: f.Name, Value: v}
		}
	}
	return nil
}

// orderedPresent returns the names of fields present in the record, in
// schema order, so audit entries and SQL columns come out deterministic.
func orderedPresent(t *schema.Table, fields domain.Record) []string {
	var names []string
	for i := range t.Fields {
		if _, ok := fields[t.Fields[i].Name]; ok {
			names = append(names, t.Fields[i].Name)
		}
	}
	return names
}

// sameValue compares a stored value with an incoming one. Stored integers
// meet resolved int64 ids; everything else compares as text.
func sameValue(stored, incoming any) bool {
	if stored == nil || incoming == nil {
		return stored == incoming
	}
	return fmt.Sprint(stored) == fmt.Sprint(incoming)
}

// normalizeScanned flattens driver byte slices to strings so records compare
// and print consistently.
func normalizeScanned(rec domain.Record) domain.Record {
	for k, v := range rec {
		if b, ok := v.([]byte); ok {
			rec[k] = string(b)
		}
	}
	return rec
}
