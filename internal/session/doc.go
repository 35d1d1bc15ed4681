// Package session owns the client's single source of truth for "who is the
// current user".
//
// The Controller derives the session from a persisted bearer token: on
// Initialize it reads the token from the credentials store and validates it
// against the backend's current-user endpoint; Login persists a fresh token
// and runs the same validation; Logout clears everything synchronously.
// A token that fails validation for any reason (network error, 401,
// malformed response) is evicted together with the in-memory user — the
// session downgrades to anonymous and never surfaces the failure as an error.
//
// Observers subscribe with Subscribe and are notified synchronously on every
// state change. The Hydrated flag transitions false→true exactly once, after
// the first attempt to read persisted credentials completes; callers must not
// make auth-dependent decisions before that.
//
// Overlapping transitions are sequenced with a generation counter: a
// validation that completes after a newer transition started (or after
// Logout) is discarded instead of overwriting the newer state.
package session
