package sqlite

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ikluft/moveboxtracker/internal/domain"
	"github.com/ikluft/moveboxtracker/internal/schema"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mbt.db")
	store, err := Open(context.Background(), path, testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.InitSchema(context.Background()); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	return store
}

func mustCreate(t *testing.T, r *Records, table *schema.Table, fields domain.Record) int64 {
	t.Helper()
	id, err := r.Create(context.Background(), table, fields)
	if err != nil {
		t.Fatalf("create %s: %v", table.Name, err)
	}
	return id
}

// baseIDs are the reference rows a moving box depends on.
type baseIDs struct {
	location int64
	room     int64
	user     int64
}

// seedBase creates a location, room, user, and the move project.
func seedBase(t *testing.T, store *Store, r *Records) baseIDs {
	t.Helper()
	ids := baseIDs{
		location: mustCreate(t, r, schema.Location, domain.Record{"name": "garage"}),
		room:     mustCreate(t, r, schema.Room, domain.Record{"name": "kitchen", "color": "red"}),
		user:     mustCreate(t, r, schema.URIUser, domain.Record{"name": "alice"}),
	}
	project := NewProject(store, NewAuditLog(store))
	err := project.Create(context.Background(), domain.Record{
		"primary_user":  ids.user,
		"title":         "house move",
		"found_contact": "call alice at 555-0100",
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return ids
}

func TestOpenCreatesDatabaseFile(t *testing.T) {
	store := newTestStore(t)
	if _, err := os.Stat(store.Path()); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}

func TestInitSchemaIdempotent(t *testing.T) {
	store := newTestStore(t)
	records := NewRecords(store, NewAuditLog(store))
	id := mustCreate(t, records, schema.Location, domain.Record{"name": "garage"})

	if err := store.InitSchema(context.Background()); err != nil {
		t.Fatalf("second InitSchema: %v", err)
	}
	rec, err := records.Get(context.Background(), schema.Location, id)
	if err != nil {
		t.Fatalf("row lost after re-init: %v", err)
	}
	if rec["name"] != "garage" {
		t.Fatalf("name = %v, want garage", rec["name"])
	}
}
