// Package api contains the typed client for the LearnLoop backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     auth (Register/Login/VerifyEmail/ResendVerification), the current-user
//     surface (CurrentUser/UpdateProfile/ChangePassword), feeds and posts,
//     and the vote endpoints (CreateVote/DeleteVote/PostVotes/CommentVotes).
//  2. A concrete HTTP implementation (see HTTPClient) that injects the bearer
//     token, tags every request with an X-Request-Id, retries transient
//     failures on idempotent reads, and maps HTTP statuses to sentinel errors.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable, ErrUnauthorized, ErrNoToken, ErrNotFound.
// Other non-2xx responses surface as *Error with the backend's detail/code.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation/timeouts.
package api
