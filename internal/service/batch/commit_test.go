package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikluft/moveboxtracker/internal/domain"
	"github.com/ikluft/moveboxtracker/internal/schema"
	"github.com/ikluft/moveboxtracker/internal/store/sqlite"
)

// testEnv is a seeded database with three boxes scanned into one batch.
type testEnv struct {
	store   *sqlite.Store
	records *sqlite.Records
	origin  int64
	dest    int64
	batch   int64
	boxes   []int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "mbt.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.InitSchema(ctx))

	records := sqlite.NewRecords(store, sqlite.NewAuditLog(store))
	env := &testEnv{store: store, records: records}

	env.origin = create(t, records, schema.Location, domain.Record{"name": "old house"})
	env.dest = create(t, records, schema.Location, domain.Record{"name": "new house"})
	room := create(t, records, schema.Room, domain.Record{"name": "kitchen", "color": "red"})
	user := create(t, records, schema.URIUser, domain.Record{"name": "alice"})

	project := sqlite.NewProject(store, sqlite.NewAuditLog(store))
	require.NoError(t, project.Create(ctx, domain.Record{
		"primary_user":  user,
		"title":         "house move",
		"found_contact": "call alice",
	}))

	env.batch = create(t, records, schema.BatchMove, domain.Record{"location": env.dest})
	for i := 0; i < 3; i++ {
		box := create(t, records, schema.MovingBox, domain.Record{
			"location": env.origin,
			"info":     fmt.Sprintf("box %d", i+1),
			"room":     room,
		})
		env.boxes = append(env.boxes, box)
		create(t, records, schema.BoxScan, domain.Record{"box": box, "batch": env.batch})
	}
	return env
}

func create(t *testing.T, r *sqlite.Records, table *schema.Table, fields domain.Record) int64 {
	t.Helper()
	id, err := r.Create(context.Background(), table, fields)
	require.NoError(t, err, "create %s", table.Name)
	return id
}

func (e *testEnv) boxLocation(t *testing.T, boxID int64) int64 {
	t.Helper()
	rec, err := e.records.Get(context.Background(), schema.MovingBox, boxID)
	require.NoError(t, err)
	loc, ok := domain.AsID(rec["location"])
	require.True(t, ok)
	return loc
}

// locationLogEntries counts audit entries for moving_box.location.
func (e *testEnv) locationLogEntries(t *testing.T) int {
	t.Helper()
	entries, err := e.records.List(context.Background(), schema.Log)
	require.NoError(t, err)
	n := 0
	for _, entry := range entries {
		if entry["table_name"] == "moving_box" && entry["field_name"] == "location" {
			n++
		}
	}
	return n
}

func TestCommitRelocatesEveryScannedBox(t *testing.T) {
	env := newTestEnv(t)
	coord := NewCoordinator(env.store, env.records, sqlite.NewAuditLog(env.store), nil)

	require.NoError(t, coord.Commit(context.Background(), env.batch))

	for _, box := range env.boxes {
		assert.Equal(t, env.dest, env.boxLocation(t, box), "box %d", box)
	}
	assert.Equal(t, len(env.boxes), env.locationLogEntries(t))
}

func TestCommitDuplicateScansCountOnce(t *testing.T) {
	env := newTestEnv(t)
	// Scanning the same box twice into the batch is fine; it moves once.
	create(t, env.records, schema.BoxScan, domain.Record{"box": env.boxes[0], "batch": env.batch})
	coord := NewCoordinator(env.store, env.records, sqlite.NewAuditLog(env.store), nil)

	require.NoError(t, coord.Commit(context.Background(), env.batch))
	assert.Equal(t, len(env.boxes), env.locationLogEntries(t))
}

func TestCommitEmptyBatch(t *testing.T) {
	env := newTestEnv(t)
	empty := create(t, env.records, schema.BatchMove, domain.Record{"location": env.dest})
	coord := NewCoordinator(env.store, env.records, sqlite.NewAuditLog(env.store), nil)

	require.NoError(t, coord.Commit(context.Background(), empty))

	for _, box := range env.boxes {
		assert.Equal(t, env.origin, env.boxLocation(t, box))
	}
	assert.Zero(t, env.locationLogEntries(t))
}

func TestCommitUnknownBatch(t *testing.T) {
	env := newTestEnv(t)
	coord := NewCoordinator(env.store, env.records, sqlite.NewAuditLog(env.store), nil)

	err := coord.Commit(context.Background(), 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCommitIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	coord := NewCoordinator(env.store, env.records, sqlite.NewAuditLog(env.store), nil)
	ctx := context.Background()

	require.NoError(t, coord.Commit(ctx, env.batch))
	require.NoError(t, coord.Commit(ctx, env.batch))

	for _, box := range env.boxes {
		assert.Equal(t, env.dest, env.boxLocation(t, box))
	}
	// The second commit re-audits each box even though nothing moved.
	assert.Equal(t, 2*len(env.boxes), env.locationLogEntries(t))
}

// failingRecorder errors after a set number of successful records.
type failingRecorder struct {
	inner     sqlite.Recorder
	remaining int
}

func (f *failingRecorder) Record(ctx context.Context, table, field string, oldValue, newValue any) error {
	if f.remaining <= 0 {
		return errors.New("audit sink unavailable")
	}
	f.remaining--
	return f.inner.Record(ctx, table, field, oldValue, newValue)
}

func TestCommitRollsBackOnMidBatchFailure(t *testing.T) {
	env := newTestEnv(t)
	// The first box audits fine; the second fails, aborting the commit.
	audit := &failingRecorder{inner: sqlite.NewAuditLog(env.store), remaining: 1}
	coord := NewCoordinator(env.store, env.records, audit, nil)

	err := coord.Commit(context.Background(), env.batch)
	require.Error(t, err)

	var commitErr *domain.BatchCommitError
	require.ErrorAs(t, err, &commitErr)
	assert.Equal(t, env.batch, commitErr.BatchID)
	assert.Equal(t, env.boxes[1], commitErr.BoxID)

	// No box moved and no audit entry survived the rollback.
	for _, box := range env.boxes {
		assert.Equal(t, env.origin, env.boxLocation(t, box), "box %d", box)
	}
	assert.Zero(t, env.locationLogEntries(t))
}
