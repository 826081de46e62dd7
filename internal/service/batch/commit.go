// Package batch implements the batch-commit coordinator: the one cross-table
// transaction in the system. Committing a batch propagates the batch's
// destination location onto every box scanned into it, atomically, with one
// audit entry per relocated box.
package batch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"github.com/ikluft/moveboxtracker/internal/domain"
	"github.com/ikluft/moveboxtracker/internal/schema"
	"github.com/ikluft/moveboxtracker/internal/store/sqlite"
)

// Coordinator orchestrates batch commits over the record engine's store.
type Coordinator struct {
	store   *sqlite.Store
	records *sqlite.Records
	txm     *sqlite.TxManager
	audit   sqlite.Recorder
	log     *slog.Logger
}

// NewCoordinator creates a batch-commit coordinator. The audit recorder is
// called once per relocated box inside the commit transaction.
func NewCoordinator(store *sqlite.Store, records *sqlite.Records, audit sqlite.Recorder, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		store:   store,
		records: records,
		txm:     sqlite.NewTxManager(store),
		audit:   audit,
		log:     logger,
	}
}

// Commit relocates every box scanned into the batch to the batch's location.
// Either all boxes move or none do: any failure rolls the whole commit back
// and surfaces a BatchCommitError naming the failing box.
//
// A batch with zero scans commits successfully as a no-op: operators may
// commit an empty or placeholder batch. Re-running commit on an
// already-committed batch is safe; it re-asserts the batch's location onto
// the boxes currently scanned into it, auditing each one again.
func (c *Coordinator) Commit(ctx context.Context, batchID int64) error {
	// Gather phase: failures here are fatal before any transaction opens.
	batch, err := c.records.Get(ctx, schema.BatchMove, batchID)
	if err != nil {
		return err
	}
	location, ok := domain.AsID(batch["location"])
	if !ok {
		return &domain.StorageError{Op: "batch location", Cause: fmt.Errorf("batch %d has non-integer location %v", batchID, batch["location"])}
	}

	boxIDs, err := c.scannedBoxes(ctx, batchID)
	if err != nil {
		return err
	}
	if len(boxIDs) == 0 {
		c.log.Info("batch has no scans, nothing to relocate", "batch", batchID)
		return nil
	}

	// Apply phase: one transaction around every relocation and its audit
	// entry. No partial relocation is ever observable.
	err = c.txm.RunInTx(ctx, func(ctx context.Context) error {
		for _, boxID := range boxIDs {
			if err := c.relocate(ctx, boxID, location); err != nil {
				return &domain.BatchCommitError{BatchID: batchID, BoxID: boxID, Cause: err}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.log.Info("batch committed", "batch", batchID, "location", location, "boxes", len(boxIDs))
	return nil
}

// scannedBoxes collects the distinct box ids enrolled in the batch.
func (c *Coordinator) scannedBoxes(ctx context.Context, batchID int64) ([]int64, error) {
	query, args, err := sq.Select("DISTINCT box").From(schema.BoxScan.Name).
		Where(sq.Eq{"batch": batchID}).OrderBy("box ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build scan query: %w", err)
	}

	c.log.Debug("executing SQL", "sql", query, "args", args)
	rows, err := c.store.Querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.StorageError{Op: "gather batch scans", Cause: err}
	}
	defer rows.Close()

	var boxIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, &domain.StorageError{Op: "gather batch scans", Cause: err}
		}
		boxIDs = append(boxIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "gather batch scans", Cause: err}
	}
	return boxIDs, nil
}

// relocate sets one box's location and audits the change. The audit entry is
// written even when the box is already there, so a re-committed batch leaves
// a visible trail of identical old/new values.
func (c *Coordinator) relocate(ctx context.Context, boxID, location int64) error {
	q := c.store.Querier(ctx)

	query, args, err := sq.Select("location").From(schema.MovingBox.Name).Where(sq.Eq{"id": boxID}).ToSql()
	if err != nil {
		return fmt.Errorf("build location select: %w", err)
	}
	c.log.Debug("executing SQL", "sql", query, "args", args)
	var current int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.NotFoundError{Table: schema.MovingBox.Name, ID: boxID}
		}
		return &domain.StorageError{Op: "read box location", Cause: err}
	}

	if err := c.audit.Record(ctx, schema.MovingBox.Name, "location", current, location); err != nil {
		return err
	}

	query, args, err = sq.Update(schema.MovingBox.Name).Set("location", location).Where(sq.Eq{"id": boxID}).ToSql()
	if err != nil {
		return fmt.Errorf("build relocation update: %w", err)
	}
	c.log.Debug("executing SQL", "sql", query, "args", args)
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return &domain.StorageError{Op: "relocate box", Cause: err}
	}
	return nil
}
