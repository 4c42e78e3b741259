package voting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory ledger and item store used to exercise the service without
// a database.

type memLedger struct {
	mu    sync.Mutex
	votes map[pairKey]Disposition
	fail  bool
}

func newMemLedger() *memLedger {
	return &memLedger{votes: make(map[pairKey]Disposition)}
}

func (m *memLedger) Get(_ context.Context, voterID, itemID int) (Disposition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return DispositionNone, errors.New("ledger down")
	}
	return m.votes[pairKey{voterID, itemID}], nil
}

func (m *memLedger) SetDisposition(_ context.Context, voterID, itemID int, d Disposition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("ledger down")
	}
	m.votes[pairKey{voterID, itemID}] = d
	return nil
}

func (m *memLedger) CountByDisposition(_ context.Context, itemID int) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	up, down := 0, 0
	for key, d := range m.votes {
		if key.itemID != itemID {
			continue
		}
		switch d {
		case DispositionUp:
			up++
		case DispositionDown:
			down++
		}
	}
	return up, down, nil
}

type counters struct {
	up, down int
}

type memItems struct {
	mu        sync.Mutex
	items     map[int]*counters
	failDelta bool
}

func newMemItems(ids ...int) *memItems {
	items := make(map[int]*counters, len(ids))
	for _, id := range ids {
		items[id] = &counters{}
	}
	return &memItems{items: items}
}

func (m *memItems) Exists(_ context.Context, itemID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[itemID]
	return ok, nil
}

func (m *memItems) ApplyDelta(_ context.Context, itemID, deltaUp, deltaDown int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelta {
		return errors.New("items down")
	}
	item, ok := m.items[itemID]
	if !ok {
		return ErrItemNotFound
	}
	item.up += deltaUp
	item.down += deltaDown
	return nil
}

func (m *memItems) SetCounters(_ context.Context, itemID, up, down int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemID]
	if !ok {
		return ErrItemNotFound
	}
	item.up = up
	item.down = down
	return nil
}

func (m *memItems) get(itemID int) (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item := m.items[itemID]
	return item.up, item.down
}

func newTestService(items *memItems) (*Service, *memLedger) {
	ledger := newMemLedger()
	return NewService(ledger, items, nil), ledger
}

func TestCastVoteScenario(t *testing.T) {
	ctx := context.Background()
	items := newMemItems(1)
	svc, _ := newTestService(items)

	// Fresh upvote.
	label, err := svc.CastVote(ctx, 7, 1, ActionUp)
	require.NoError(t, err)
	assert.Equal(t, ResultNew, label)
	up, down := items.get(1)
	assert.Equal(t, [2]int{1, 0}, [2]int{up, down})

	// Switch to a downvote in one step.
	label, err = svc.CastVote(ctx, 7, 1, ActionDown)
	require.NoError(t, err)
	assert.Equal(t, ResultUpToDown, label)
	up, down = items.get(1)
	assert.Equal(t, [2]int{0, 1}, [2]int{up, down})

	// Same button again clears the vote.
	label, err = svc.CastVote(ctx, 7, 1, ActionDown)
	require.NoError(t, err)
	assert.Equal(t, ResultDowngrade, label)
	up, down = items.get(1)
	assert.Equal(t, [2]int{0, 0}, [2]int{up, down})

	state, err := svc.VoteState(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, DispositionNone, state)
}

func TestCastVoteToggleIsIdempotent(t *testing.T) {
	ctx := context.Background()
	items := newMemItems(1)
	svc, _ := newTestService(items)

	label, err := svc.CastVote(ctx, 1, 1, ActionUp)
	require.NoError(t, err)
	assert.Equal(t, ResultNew, label)

	label, err = svc.CastVote(ctx, 1, 1, ActionUp)
	require.NoError(t, err)
	assert.Equal(t, ResultDowngrade, label)

	up, down := items.get(1)
	assert.Zero(t, up)
	assert.Zero(t, down)
}

func TestCastVoteOppositeSwap(t *testing.T) {
	ctx := context.Background()
	items := newMemItems(1)
	svc, _ := newTestService(items)

	_, err := svc.CastVote(ctx, 1, 1, ActionDown)
	require.NoError(t, err)

	label, err := svc.CastVote(ctx, 1, 1, ActionUp)
	require.NoError(t, err)
	assert.Equal(t, ResultDownToUp, label)

	up, down := items.get(1)
	assert.Equal(t, 1, up)
	assert.Equal(t, 0, down)
}

func TestCastVoteUnknownItem(t *testing.T) {
	ctx := context.Background()
	items := newMemItems(1)
	svc, ledger := newTestService(items)

	_, err := svc.CastVote(ctx, 1, 42, ActionUp)
	assert.ErrorIs(t, err, ErrItemNotFound)

	// No ledger record and no counters touched.
	assert.Empty(t, ledger.votes)
	up, down := items.get(1)
	assert.Zero(t, up)
	assert.Zero(t, down)
}

func TestCastVoteStateFollowsTransitionTable(t *testing.T) {
	ctx := context.Background()
	items := newMemItems(1)
	svc, _ := newTestService(items)

	actions := []Action{ActionUp, ActionDown, ActionDown, ActionUp, ActionUp, ActionDown, ActionUp}

	want := DispositionNone
	for _, action := range actions {
		tr := Transit(want, action)
		want = tr.Next

		label, err := svc.CastVote(ctx, 3, 1, action)
		require.NoError(t, err)
		assert.Equal(t, tr.Label, label)

		got, err := svc.VoteState(ctx, 3, 1)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

// N distinct voters upvoting the same item concurrently must produce
// exactly N upvotes, whatever the interleaving.
func TestCastVoteConcurrentVoters(t *testing.T) {
	ctx := context.Background()
	items := newMemItems(1)
	svc, _ := newTestService(items)

	const numVoters = 50

	var wg sync.WaitGroup
	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterID int) {
			defer wg.Done()
			if _, err := svc.CastVote(ctx, voterID, 1, ActionUp); err != nil {
				t.Errorf("cast vote from voter %d: %v", voterID, err)
			}
		}(i + 1)
	}
	wg.Wait()

	up, down := items.get(1)
	assert.Equal(t, numVoters, up)
	assert.Zero(t, down)
}

// Concurrent casts from the same voter on the same item serialize:
// after an even number of identical actions the vote is cleared and
// the counters are back where they started.
func TestCastVoteConcurrentSamePair(t *testing.T) {
	ctx := context.Background()
	items := newMemItems(1)
	svc, _ := newTestService(items)

	const casts = 10 // even

	var wg sync.WaitGroup
	for i := 0; i < casts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.CastVote(ctx, 1, 1, ActionUp); err != nil {
				t.Errorf("cast vote: %v", err)
			}
		}()
	}
	wg.Wait()

	state, err := svc.VoteState(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, DispositionNone, state)

	up, down := items.get(1)
	assert.Zero(t, up)
	assert.Zero(t, down)
}

func TestCastVoteLedgerFailureLeavesCountersUntouched(t *testing.T) {
	ctx := context.Background()
	items := newMemItems(1)
	svc, ledger := newTestService(items)

	ledger.fail = true
	_, err := svc.CastVote(ctx, 1, 1, ActionUp)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	up, down := items.get(1)
	assert.Zero(t, up)
	assert.Zero(t, down)
}

func TestReconcileRepairsDrift(t *testing.T) {
	ctx := context.Background()
	items := newMemItems(1)
	svc, _ := newTestService(items)

	// Counter write fails after the ledger write commits.
	items.failDelta = true
	_, err := svc.CastVote(ctx, 1, 1, ActionUp)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	// Ledger says one upvote, counters say zero.
	state, err := svc.VoteState(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, DispositionUp, state)
	up, _ := items.get(1)
	assert.Zero(t, up)

	// Reconciliation recomputes from the ledger.
	items.failDelta = false
	require.NoError(t, svc.Reconcile(ctx, 1))
	up, down := items.get(1)
	assert.Equal(t, 1, up)
	assert.Zero(t, down)

	// Idempotent: running it again changes nothing.
	require.NoError(t, svc.Reconcile(ctx, 1))
	up, down = items.get(1)
	assert.Equal(t, 1, up)
	assert.Zero(t, down)
}

func TestReconcileUnknownItem(t *testing.T) {
	items := newMemItems(1)
	svc, _ := newTestService(items)

	err := svc.Reconcile(context.Background(), 42)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

// Counters must equal the ledger tallies at every quiescent point,
// across many voters and items.
func TestCountersMatchLedgerAfterMixedTraffic(t *testing.T) {
	ctx := context.Background()
	items := newMemItems(1, 2, 3)
	svc, ledger := newTestService(items)

	for voter := 1; voter <= 20; voter++ {
		for item := 1; item <= 3; item++ {
			action := ActionUp
			if (voter+item)%3 == 0 {
				action = ActionDown
			}
			_, err := svc.CastVote(ctx, voter, item, action)
			require.NoError(t, err)
			if voter%4 == 0 {
				// Some voters change their mind.
				_, err = svc.CastVote(ctx, voter, item, ActionDown)
				require.NoError(t, err)
			}
		}
	}

	for item := 1; item <= 3; item++ {
		wantUp, wantDown, err := ledger.CountByDisposition(ctx, item)
		require.NoError(t, err)
		up, down := items.get(item)
		assert.Equal(t, wantUp, up, fmt.Sprintf("item %d upvotes", item))
		assert.Equal(t, wantDown, down, fmt.Sprintf("item %d downvotes", item))
	}
}
