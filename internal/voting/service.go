// Package voting implements the per-(voter, item) vote state machine
// and keeps the denormalized upvote/downvote counters on votable items
// consistent with the vote ledger.
package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Ledger holds one record per (voter, item) pair with the voter's
// current disposition. Implementations must be safe for concurrent use
// across distinct pairs; the service serializes access per pair.
type Ledger interface {
	// Get returns the stored disposition, or DispositionNone when no
	// record exists.
	Get(ctx context.Context, voterID, itemID int) (Disposition, error)

	// SetDisposition creates the record if absent, otherwise overwrites
	// its disposition in place.
	SetDisposition(ctx context.Context, voterID, itemID int, d Disposition) error

	// CountByDisposition tallies the item's ledger records per side.
	// Used by reconciliation only.
	CountByDisposition(ctx context.Context, itemID int) (up, down int, err error)
}

// ItemStore is the collaborator owning votable items and their
// counters. The service only ever applies signed increments through
// ApplyDelta; SetCounters exists for the reconciliation pass.
type ItemStore interface {
	Exists(ctx context.Context, itemID int) (bool, error)
	ApplyDelta(ctx context.Context, itemID, deltaUp, deltaDown int) error
	SetCounters(ctx context.Context, itemID, up, down int) error
}

// Service composes the ledger and the item store into the castVote
// operation. All state lives in the backing store; the only in-process
// state is the per-pair lock table.
type Service struct {
	ledger Ledger
	items  ItemStore
	locks  *keyedMutex
	log    *slog.Logger
}

func NewService(ledger Ledger, items ItemStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		ledger: ledger,
		items:  items,
		locks:  newKeyedMutex(),
		log:    logger,
	}
}

// CastVote applies one up/down action for voterID on itemID and
// returns the label of the transition taken. The read-modify-write of
// ledger and counters is a critical section keyed by (voter, item), so
// concurrent casts on the same pair serialize while casts on other
// pairs proceed.
func (s *Service) CastVote(ctx context.Context, voterID, itemID int, action Action) (Result, error) {
	exists, err := s.items.Exists(ctx, itemID)
	if err != nil {
		return "", storageErr(err)
	}
	if !exists {
		return "", ErrItemNotFound
	}

	unlock := s.locks.lock(pairKey{voterID: voterID, itemID: itemID})
	defer unlock()

	current, err := s.ledger.Get(ctx, voterID, itemID)
	if err != nil {
		return "", storageErr(err)
	}

	tr := Transit(current, action)

	// Ledger first. If this write fails nothing has changed and the
	// call aborts before the counters are touched.
	if err := s.ledger.SetDisposition(ctx, voterID, itemID, tr.Next); err != nil {
		return "", storageErr(err)
	}

	if err := s.items.ApplyDelta(ctx, itemID, tr.DeltaUp, tr.DeltaDown); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			// Item vanished between the existence check and the delta.
			return "", err
		}
		// Ledger committed but counters did not: recoverable drift.
		// Reconcile(itemID) repairs it.
		s.log.Error("counter update failed after ledger write, item needs reconciliation",
			"item_id", itemID,
			"voter_id", voterID,
			"delta_up", tr.DeltaUp,
			"delta_down", tr.DeltaDown,
			"error", err,
		)
		return "", storageErr(err)
	}

	return tr.Label, nil
}

// VoteState returns the voter's current disposition toward the item
// without mutating anything.
func (s *Service) VoteState(ctx context.Context, voterID, itemID int) (Disposition, error) {
	d, err := s.ledger.Get(ctx, voterID, itemID)
	if err != nil {
		return DispositionNone, storageErr(err)
	}
	return d, nil
}

// Reconcile recomputes the item's counters from the ledger and
// overwrites them. It is idempotent and is the corrective operation
// for drift left behind by a failure between the ledger write and the
// counter write.
func (s *Service) Reconcile(ctx context.Context, itemID int) error {
	up, down, err := s.ledger.CountByDisposition(ctx, itemID)
	if err != nil {
		return storageErr(err)
	}
	if err := s.items.SetCounters(ctx, itemID, up, down); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return err
		}
		return storageErr(err)
	}
	s.log.Info("counters reconciled from ledger", "item_id", itemID, "upvotes", up, "downvotes", down)
	return nil
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
