package feedsync

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/CrestNiraj12/roadmud/domain"
)

// ErrUnknownKind is returned for interaction kinds other than like and bookmark.
var ErrUnknownKind = errors.New("unknown interaction kind")

// Toggler performs the remote half of a toggle.
type Toggler interface {
	ToggleInteraction(ctx context.Context, id string, kind domain.InteractionKind) (domain.InteractionAction, error)
}

// Phase tracks one (post, kind) flag through its remote confirmation.
type Phase int

const (
	PhaseIdle      Phase = iota
	PhasePending         // Local flip applied, server not answered yet
	PhaseConfirmed       // Server answered
	PhaseFailed          // Server call failed, local flip kept
	PhaseReverted        // Server call failed, local flip undone
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseFailed:
		return "failed"
	case PhaseReverted:
		return "reverted"
	default:
		return "idle"
	}
}

// InteractionState is the locally known state of one post.
type InteractionState struct {
	Status domain.InteractionStatus
	Likes  int
	// Known is false until a status fetch or a toggle has set the flags.
	Known         bool
	LikePhase     Phase
	BookmarkPhase Phase
}

// Phase returns the phase for kind.
func (s InteractionState) Phase(kind domain.InteractionKind) Phase {
	if kind == domain.KindBookmark {
		return s.BookmarkPhase
	}
	return s.LikePhase
}

// ToggleOutcome is the result of one Toggle call.
type ToggleOutcome struct {
	Action    domain.InteractionAction // What the server did
	Predicted domain.InteractionAction // What the local flip assumed
	// Mismatch is set when the server disagreed with the local flip. The
	// local state is left as is; the next fetch corrects it.
	Mismatch bool
	State    InteractionState
}

type interactionEntry struct {
	state   InteractionState
	pending map[domain.InteractionKind]int
	touched uint64 // epoch of the last toggle
}

// Interactions is the single writer for per-post like/bookmark state during
// a session. Screens share one instance so every view of a post agrees.
type Interactions struct {
	svc           Toggler
	logger        *log.Logger
	revertOnError bool

	mu      sync.Mutex
	epoch   uint64
	entries map[string]*interactionEntry
}

// NewInteractions creates a controller issuing toggles through svc.
func NewInteractions(svc Toggler, opts ...Option) *Interactions {
	o := applyOptions(opts)
	return &Interactions{
		svc:           svc,
		logger:        o.logger.With("component", "interactions"),
		revertOnError: o.revertOnError,
		entries:       make(map[string]*interactionEntry),
	}
}

func (c *Interactions) entryLocked(postID string) *interactionEntry {
	e, ok := c.entries[postID]
	if !ok {
		e = &interactionEntry{pending: make(map[domain.InteractionKind]int)}
		c.entries[postID] = e
	}
	return e
}

// Epoch returns a marker to take before fetching data that will be seeded
// with SeedAt.
func (c *Interactions) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// Seed records server state for a post. A nil status updates only the like
// count. Posts with a toggle in flight are left alone so a fetch that raced
// the toggle cannot undo the optimistic flip.
func (c *Interactions) Seed(postID string, status *domain.InteractionStatus, likes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seedLocked(c.epoch, postID, status, likes)
}

// SeedAt is Seed for data fetched after epoch was taken. Posts toggled since
// then keep their local state, even if the toggle has already settled.
func (c *Interactions) SeedAt(epoch uint64, postID string, status *domain.InteractionStatus, likes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seedLocked(epoch, postID, status, likes)
}

func (c *Interactions) seedLocked(epoch uint64, postID string, status *domain.InteractionStatus, likes int) {
	if postID == "" {
		return
	}
	e := c.entryLocked(postID)
	if e.pending[domain.KindLike] > 0 || e.pending[domain.KindBookmark] > 0 || e.touched > epoch {
		return
	}
	e.state.Likes = max(likes, 0)
	if status != nil {
		e.state.Status = *status
		e.state.Known = true
	}
}

// Toggle flips kind on postID locally, then asks the server. Every call
// flips exactly once; callers serialize toggles on the same post if they
// need the count to match the server before the next fetch.
func (c *Interactions) Toggle(ctx context.Context, postID string, kind domain.InteractionKind) (ToggleOutcome, error) {
	if !kind.Valid() {
		return ToggleOutcome{}, ErrUnknownKind
	}

	c.mu.Lock()
	e := c.entryLocked(postID)
	predicted := flipLocked(e, kind)
	e.state.Known = true
	e.pending[kind]++
	c.epoch++
	e.touched = c.epoch
	setPhase(&e.state, kind, PhasePending)
	c.mu.Unlock()

	action, err := c.svc.ToggleInteraction(ctx, postID, kind)

	c.mu.Lock()
	defer c.mu.Unlock()
	// The entry may have been forgotten while the call was out.
	e = c.entryLocked(postID)
	if e.pending[kind] > 0 {
		e.pending[kind]--
	}
	settled := e.pending[kind] == 0

	if err != nil {
		if c.revertOnError {
			flipLocked(e, kind)
			setPhase(&e.state, kind, PhaseReverted)
		} else if settled {
			setPhase(&e.state, kind, PhaseFailed)
		}
		c.logger.Warn("toggle failed", "post", postID, "kind", kind, "err", err)
		return ToggleOutcome{Predicted: predicted, State: e.state}, &domain.ToggleError{PostID: postID, Kind: kind, Err: err}
	}

	if settled {
		setPhase(&e.state, kind, PhaseConfirmed)
	}
	out := ToggleOutcome{
		Action:    action,
		Predicted: predicted,
		Mismatch:  action != predicted,
		State:     e.state,
	}
	if out.Mismatch {
		c.logger.Debug("server disagreed with optimistic toggle", "post", postID, "kind", kind, "predicted", predicted, "action", action)
	}
	return out, nil
}
