package models

// TargetType distinguishes the two votable entities.
type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetComment TargetType = "comment"
)

// Vote is the server's vote row, returned by POST /votes.
type Vote struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	TargetType TargetType `json:"target_type"`
	TargetID   int64      `json:"target_id"`
	CreatedAt  string     `json:"created_at"`
}

type CreateVoteRequest struct {
	TargetType TargetType `json:"target_type"`
	TargetID   int64      `json:"target_id"`
}

// VoteStatus is the per-caller answer from GET /votes/posts/{id} and
// GET /votes/comments/{id}. UserVoteID is nil for anonymous callers and
// for users who have not voted.
type VoteStatus struct {
	VoteCount  int64  `json:"vote_count"`
	UserVoteID *int64 `json:"user_vote_id,omitempty"`
}
