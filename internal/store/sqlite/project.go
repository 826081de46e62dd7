package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/ikluft/moveboxtracker/internal/domain"
	"github.com/ikluft/moveboxtracker/internal/schema"
)

// Project is the narrow interface over the singleton move_project table:
// exactly one row, no id column. Get and Set implicitly target the sole row;
// Create refuses a second one.
type Project struct {
	store    *Store
	txm      *TxManager
	resolver *Resolver
	audit    Recorder
}

// NewProject creates the move-project accessor.
func NewProject(store *Store, audit Recorder) *Project {
	return &Project{
		store:    store,
		txm:      NewTxManager(store),
		resolver: NewResolver(store),
		audit:    audit,
	}
}

// Get reads the sole move_project row.
func (p *Project) Get(ctx context.Context) (domain.Record, error) {
	query, args, err := sq.Select("primary_user", "title", "found_contact").
		From(schema.MoveProject.Name).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build project select: %w", err)
	}

	p.store.log.Debug("executing SQL", "sql", query, "args", args)
	rec := domain.Record{}
	if err := sqlscan.Get(ctx, p.store.querier(ctx), &rec, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return nil, &domain.NotFoundError{Table: schema.MoveProject.Name}
		}
		return nil, mapError(err, schema.MoveProject, 0)
	}
	return normalizeScanned(rec), nil
}

// Create inserts the move_project row. Refused when one already exists.
func (p *Project) Create(ctx context.Context, fields domain.Record) error {
	if err := validateFieldNames(schema.MoveProject, fields); err != nil {
		return err
	}
	for _, f := range schema.MoveProject.RequiredFields() {
		if v, ok := fields[f.Name]; !ok || v == nil {
			return &domain.MissingFieldError{Table: schema.MoveProject.Name, Field: f.Name}
		}
	}

	return p.txm.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := p.Get(ctx); err == nil {
			return &domain.DuplicateValueError{Table: schema.MoveProject.Name, Field: "row", Value: "move project already initialized"}
		}

		userID, err := p.resolver.Resolve(ctx, schema.URIUser, fields["primary_user"])
		if err != nil {
			return err
		}

		query, args, err := sq.Insert(schema.MoveProject.Name).
			Columns("primary_user", "title", "found_contact").
			Values(userID, fields["title"], fields["found_contact"]).ToSql()
		if err != nil {
			return fmt.Errorf("build project insert: %w", err)
		}
		p.store.log.Debug("executing SQL", "sql", query, "args", args)
		if _, err := p.store.querier(ctx).ExecContext(ctx, query, args...); err != nil {
			return mapError(err, schema.MoveProject, 0)
		}
		return nil
	})
}

// Set updates the supplied fields of the sole row, auditing each change.
func (p *Project) Set(ctx context.Context, fields domain.Record) (domain.Record, error) {
	if err := validateFieldNames(schema.MoveProject, fields); err != nil {
		return nil, err
	}

	var updated domain.Record
	err := p.txm.RunInTx(ctx, func(ctx context.Context) error {
		current, err := p.Get(ctx)
		if err != nil {
			return err
		}

		changed := domain.Record{}
		for name, v := range fields {
			if v == nil {
				continue
			}
			if f, _ := schema.MoveProject.Field(name); f.References != nil {
				id, err := p.resolver.Resolve(ctx, f.References, v)
				if err != nil {
					return err
				}
				v = id
			}
			if !sameValue(current[name], v) {
				changed[name] = v
			}
		}
		if len(changed) == 0 {
			updated = current
			return nil
		}

		for _, name := range orderedPresent(schema.MoveProject, changed) {
			if err := p.audit.Record(ctx, schema.MoveProject.Name, name, current[name], changed[name]); err != nil {
				return err
			}
		}

		query, args, err := sq.Update(schema.MoveProject.Name).SetMap(changed).Where("rowid = 1").ToSql()
		if err != nil {
			return fmt.Errorf("build project update: %w", err)
		}
		p.store.log.Debug("executing SQL", "sql", query, "args", args)
		if _, err := p.store.querier(ctx).ExecContext(ctx, query, args...); err != nil {
			return mapError(err, schema.MoveProject, 0)
		}

		updated, err = p.Get(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
