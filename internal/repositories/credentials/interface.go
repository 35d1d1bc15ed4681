// Package credentials persists the client's session credentials (the opaque
// bearer token) in the local database. The token is read only during session
// initialization, written on login, and deleted on logout or when validation
// against the backend fails.
package credentials

import "context"

type Repository interface {
	// Token returns the stored bearer token, or "" when none is stored.
	Token(ctx context.Context) (string, error)

	// SaveToken stores the token together with the save timestamp,
	// replacing any previous value.
	SaveToken(ctx context.Context, token string) error

	// Clear removes all stored credentials. Clearing an empty store is not
	// an error.
	Clear(ctx context.Context) error
}
