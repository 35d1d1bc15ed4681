package votes

import (
	"context"
	"errors"
	"sync"

	"github.com/learnloop/learnloop-cli/internal/logging"
	"github.com/learnloop/learnloop-cli/internal/models"
)

var (
	// ErrVoteInFlight is returned by Toggle while a previous toggle has not
	// settled yet. The call is dropped, not queued.
	ErrVoteInFlight = errors.New("vote toggle already in flight")

	// ErrTrackerClosed is returned by Toggle after Close.
	ErrTrackerClosed = errors.New("vote tracker closed")
)

// Options configures one Tracker instance.
//
// InitialVote non-nil means a parent already knows the caller's vote (for
// example from a batch prefetch) and self-seeding must be skipped.
// DisableSelfFetch skips self-seeding unconditionally, for parents that seed
// asynchronously via Apply.
type Options struct {
	Target           Target
	InitialCount     int64
	InitialVote      *UserVote
	DisableSelfFetch bool
}

// Tracker owns the displayed vote state for one rendered instance of a
// target. Safe for concurrent use; at most one vote mutation is in flight at
// a time.
type Tracker struct {
	client API
	cache  *Cache
	tokens TokenSource
	log    logging.Logger

	target           Target
	disableSelfFetch bool
	parentSeeded     bool

	mu      sync.Mutex
	count   int64
	vote    UserVote
	pending bool
	closed  bool
}

func NewTracker(client API, cache *Cache, tokens TokenSource, log logging.Logger, opts Options) *Tracker {
	t := &Tracker{
		client:           client,
		cache:            cache,
		tokens:           tokens,
		log:              log.With("component", "votes", "target_type", opts.Target.Type, "target_id", opts.Target.ID),
		target:           opts.Target,
		disableSelfFetch: opts.DisableSelfFetch,
		count:            opts.InitialCount,
		vote:             NotVoted(),
	}
	if opts.InitialVote != nil {
		t.vote = *opts.InitialVote
		t.parentSeeded = true
	}
	return t
}

// Snapshot returns the displayed count and the caller's vote.
func (t *Tracker) Snapshot() (int64, UserVote) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count, t.vote
}

// Pending reports whether a toggle is in flight.
func (t *Tracker) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Apply seeds the tracker with a resolved status, typically a batch-prefetch
// result. No-op after Close.
func (t *Tracker) Apply(st models.VoteStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.count = st.VoteCount
	t.vote = voteFromStatus(st)
}

// Close marks the instance discarded. A network result that settles after
// Close mutates nothing.
func (t *Tracker) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
}

// EnsureStatus resolves the target's vote status on first display, through
// the cache, overwriting the caller-supplied initial values. Skipped when a
// parent seeds the tracker or no session token exists; lookup failures keep
// the fallback count and are never surfaced.
func (t *Tracker) EnsureStatus(ctx context.Context) {
	if t.disableSelfFetch || t.parentSeeded {
		return
	}
	token := t.tokens.Token()
	if token == "" {
		return
	}

	key := Key{Token: token, Target: t.target}
	if st, ok := t.cache.Get(key); ok {
		t.Apply(st)
		return
	}

	st, err := t.fetchStatus(ctx)
	if err != nil {
		t.log.Debug(ctx, "vote status lookup failed, keeping fallback count", "error", err)
		return
	}
	t.cache.Put(key, *st)
	t.Apply(*st)
}

// Toggle flips the caller's vote with an optimistic update.
//
// Not voted: count+1 and PendingConfirmation are applied immediately, then
// the create call either confirms the real id or rolls both back. Voted:
// count-1 and NotVoted immediately, then the delete call either sticks or
// rolls back. A failed toggle leaves the tracker observably identical to
// before the call. The returned error is for logging; voting is retried by
// re-invoking Toggle.
func (t *Tracker) Toggle(ctx context.Context) error {
	token := t.tokens.Token()

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrTrackerClosed
	}
	if t.pending {
		t.mu.Unlock()
		return ErrVoteInFlight
	}

	prevCount, prevVote := t.count, t.vote

	voteID, removing := t.vote.ID()
	if removing {
		t.vote = NotVoted()
		t.count--
	} else {
		t.vote = PendingConfirmation()
		t.count++
	}
	t.pending = true
	t.mu.Unlock()

	var err error
	confirmed := NotVoted()
	if removing {
		err = t.client.DeleteVote(ctx, voteID)
	} else {
		var v *models.Vote
		v, err = t.client.CreateVote(ctx, models.CreateVoteRequest{
			TargetType: t.target.Type,
			TargetID:   t.target.ID,
		})
		if err == nil {
			confirmed = Voted(v.ID)
		}
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		// The instance is gone but the server mutation happened; the shared
		// cache entry is stale either way.
		if err == nil {
			t.cache.Invalidate(Key{Token: token, Target: t.target})
			if id, ok := confirmed.ID(); ok {
				t.log.Warn(ctx, "vote confirmed after tracker closed", "vote_id", id)
			}
		}
		return nil
	}
	if err != nil {
		t.count, t.vote = prevCount, prevVote
		t.pending = false
		t.mu.Unlock()
		t.log.Warn(ctx, "vote toggle failed, rolled back", "error", err)
		return err
	}
	t.vote = confirmed
	t.pending = false
	t.mu.Unlock()

	t.cache.Invalidate(Key{Token: token, Target: t.target})
	return nil
}

func (t *Tracker) fetchStatus(ctx context.Context) (*models.VoteStatus, error) {
	if t.target.Type == models.TargetComment {
		return t.client.CommentVotes(ctx, t.target.ID)
	}
	return t.client.PostVotes(ctx, t.target.ID)
}
