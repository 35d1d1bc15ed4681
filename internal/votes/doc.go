// Package votes implements the client-side voting interaction: an optimistic
// toggle with rollback (Tracker), a short-lived memo of vote-status lookups
// (Cache), and a concurrent batch prefetch for feed pages (Prefetcher).
//
// # Model
//
// Each votable entity — a post or a comment — is a Target. One Tracker owns
// the displayed count and the caller's vote for one rendered instance of a
// Target. The caller's vote is a three-state value (UserVote): not voted,
// optimistically voted awaiting the server's id, or voted with a concrete id.
//
// # Optimistic toggle
//
// Tracker.Toggle applies the ±1 and the vote transition immediately, then
// confirms against the backend. A failed call restores the exact pre-call
// snapshot; a second Toggle while one is in flight is dropped with
// ErrVoteInFlight, never queued. Successful mutations invalidate the cache
// entry for the target so other instances cannot read a stale status for the
// rest of the TTL.
//
// # Seeding
//
// A Tracker gets its initial status from one of three places: a batch
// prefetch result (Apply), its own lookup on first use (EnsureStatus), or the
// caller-supplied initial values. The prefetcher resolves a whole feed page
// concurrently, one lookup per uncached target; a failed lookup degrades that
// one target to its fallback count and never aborts its siblings.
//
// All lookups are scoped to the current session token: the same target has
// independent cached answers for different identities.
package votes
