// Package cli provides the interactive LearnLoop command-line client.
//
// It wires configuration, local credential storage, the REST API client, the
// session controller, and the vote layer into an interactive REPL. On startup
// the previous session is restored from the local database; commands then
// browse feeds, open posts, and toggle votes with optimistic updates.
//
// Key features:
//   - Register / Login / Logout with a persisted session
//   - Feed browsing: home feed, topic feeds, user profiles
//   - Posts: open with comments, write, comment
//   - Votes: toggle with optimistic count updates and rollback on failure
//   - Profile: whoami, setbio, passwd, email verification
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
