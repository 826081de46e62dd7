package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/ikluft/moveboxtracker/internal/domain"
	"github.com/ikluft/moveboxtracker/internal/schema"
)

func TestRunInTxCommits(t *testing.T) {
	store := newTestStore(t)
	records := NewRecords(store, NewAuditLog(store))
	txm := NewTxManager(store)
	ctx := context.Background()

	err := txm.RunInTx(ctx, func(ctx context.Context) error {
		_, err := records.Create(ctx, schema.Location, domain.Record{"name": "garage"})
		return err
	})
	if err != nil {
		t.Fatalf("RunInTx: %v", err)
	}

	recs, err := records.List(ctx, schema.Location)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("locations = %d, want 1", len(recs))
	}
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	store := newTestStore(t)
	records := NewRecords(store, NewAuditLog(store))
	txm := NewTxManager(store)
	ctx := context.Background()

	boom := errors.New("boom")
	err := txm.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := records.Create(ctx, schema.Location, domain.Record{"name": "garage"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	recs, err := records.List(ctx, schema.Location)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("locations = %v, want none after rollback", recs)
	}
}

func TestRunInTxJoinsOuterTransaction(t *testing.T) {
	store := newTestStore(t)
	records := NewRecords(store, NewAuditLog(store))
	txm := NewTxManager(store)
	ctx := context.Background()

	boom := errors.New("boom")
	err := txm.RunInTx(ctx, func(ctx context.Context) error {
		// Records.Update opens its own RunInTx; joining means its writes
		// roll back with the outer transaction.
		id, err := records.Create(ctx, schema.Location, domain.Record{"name": "garage"})
		if err != nil {
			return err
		}
		if _, err := records.Update(ctx, schema.Location, id, domain.Record{"name": "carport"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	recs, err := records.List(ctx, schema.Location)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("locations = %v, want none after rollback", recs)
	}
	logs, err := records.List(ctx, schema.Log)
	if err != nil {
		t.Fatalf("list log: %v", err)
	}
	if len(logs) != 0 {
		t.Fatalf("log entries = %v, want none after rollback", logs)
	}
}
