package voting

// Disposition is a voter's current relationship to one item. The zero
// value means no vote; the numeric values line up with the vote_type
// column so records round-trip without translation.
type Disposition int

const (
	DispositionNone Disposition = 0
	DispositionUp   Disposition = 1
	DispositionDown Disposition = -1
)

func (d Disposition) String() string {
	switch d {
	case DispositionUp:
		return "up"
	case DispositionDown:
		return "down"
	default:
		return "none"
	}
}

// Action is the vote button a caller pressed.
type Action int

const (
	ActionUp   Action = Action(DispositionUp)
	ActionDown Action = Action(DispositionDown)
)

func (a Action) disposition() Disposition { return Disposition(a) }

// Result is the label describing the transition a cast vote took.
// Callers use it to update displayed state without re-fetching.
type Result string

const (
	ResultNew       Result = "new"
	ResultDowngrade Result = "downgrade"
	ResultDownToUp  Result = "down-to-up"
	ResultUpToDown  Result = "up-to-down"
)

// Transition is one row of the vote state machine: the disposition to
// persist, the signed counter deltas to apply, and the result label.
type Transition struct {
	Next      Disposition
	DeltaUp   int
	DeltaDown int
	Label     Result
}

// counterUnit maps a disposition to its contribution to the item's
// (upvotes, downvotes) pair.
func counterUnit(d Disposition) (up, down int) {
	switch d {
	case DispositionUp:
		return 1, 0
	case DispositionDown:
		return 0, 1
	}
	return 0, 0
}

// Transit computes the transition for applying an action to the current
// disposition. It is total: every (disposition, action) pair is legal.
// Repeating an action clears the vote; the opposite action swaps it in
// a single step.
func Transit(current Disposition, action Action) Transition {
	target := action.disposition()

	switch current {
	case target:
		// Same button again: toggle the vote off.
		up, down := counterUnit(current)
		return Transition{
			Next:      DispositionNone,
			DeltaUp:   -up,
			DeltaDown: -down,
			Label:     ResultDowngrade,
		}
	case DispositionNone:
		up, down := counterUnit(target)
		return Transition{
			Next:      target,
			DeltaUp:   up,
			DeltaDown: down,
			Label:     ResultNew,
		}
	default:
		// Opposite vote: swap without passing through None.
		gainUp, gainDown := counterUnit(target)
		loseUp, loseDown := counterUnit(current)
		label := ResultUpToDown
		if current == DispositionDown {
			label = ResultDownToUp
		}
		return Transition{
			Next:      target,
			DeltaUp:   gainUp - loseUp,
			DeltaDown: gainDown - loseDown,
			Label:     label,
		}
	}
}
