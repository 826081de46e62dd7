package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/ikluft/moveboxtracker/internal/domain"
	"github.com/ikluft/moveboxtracker/internal/schema"
)

func TestProjectLifecycle(t *testing.T) {
	store := newTestStore(t)
	records := NewRecords(store, NewAuditLog(store))
	audit := &MemoryRecorder{}
	project := NewProject(store, audit)
	ctx := context.Background()

	// Empty database: no project yet.
	if _, err := project.Get(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("get before create: %v, want not found", err)
	}

	alice := mustCreate(t, records, schema.URIUser, domain.Record{"name": "alice"})
	err := project.Create(ctx, domain.Record{
		"primary_user":  "alice",
		"title":         "house move",
		"found_contact": "call alice",
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	rec, err := project.Get(ctx)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if got, _ := domain.AsID(rec["primary_user"]); got != alice {
		t.Errorf("primary_user = %v, want %d", rec["primary_user"], alice)
	}
	if rec["title"] != "house move" {
		t.Errorf("title = %v", rec["title"])
	}

	// Exactly one project per database.
	err = project.Create(ctx, domain.Record{
		"primary_user":  alice,
		"title":         "second move",
		"found_contact": "call alice",
	})
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("second create: %v, want duplicate", err)
	}
}

func TestProjectSetAuditsChanges(t *testing.T) {
	store := newTestStore(t)
	records := NewRecords(store, NewAuditLog(store))
	audit := &MemoryRecorder{}
	project := NewProject(store, audit)
	ctx := context.Background()

	mustCreate(t, records, schema.URIUser, domain.Record{"name": "alice"})
	err := project.Create(ctx, domain.Record{
		"primary_user":  "alice",
		"title":         "house move",
		"found_contact": "call alice",
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	audit.Entries = nil

	rec, err := project.Set(ctx, domain.Record{"title": "spring house move"})
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if rec["title"] != "spring house move" {
		t.Errorf("title = %v", rec["title"])
	}
	if len(audit.Entries) != 1 {
		t.Fatalf("audit entries = %+v, want one", audit.Entries)
	}
	e := audit.Entries[0]
	if e.Table != "move_project" || e.Field != "title" || e.OldValue != "house move" || e.NewValue != "spring house move" {
		t.Errorf("audit entry = %+v", e)
	}

	// Re-asserting the same value is a no-op.
	audit.Entries = nil
	if _, err := project.Set(ctx, domain.Record{"title": "spring house move"}); err != nil {
		t.Fatalf("no-op set: %v", err)
	}
	if len(audit.Entries) != 0 {
		t.Fatalf("audit entries = %+v, want none", audit.Entries)
	}
}

func TestProjectCreateValidation(t *testing.T) {
	store := newTestStore(t)
	project := NewProject(store, &MemoryRecorder{})
	ctx := context.Background()

	err := project.Create(ctx, domain.Record{"title": "house move"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}

	err = project.Create(ctx, domain.Record{
		"primary_user":  "nobody",
		"title":         "house move",
		"found_contact": "ring the bell",
	})
	if !errors.Is(err, domain.ErrReference) {
		t.Fatalf("err = %v, want reference error", err)
	}
}
