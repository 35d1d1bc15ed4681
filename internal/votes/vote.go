package votes

import (
	"context"

	"github.com/learnloop/learnloop-cli/internal/models"
)

// Target identifies one votable entity.
type Target struct {
	Type models.TargetType
	ID   int64
}

// API is the slice of the backend client the vote layer needs.
type API interface {
	CreateVote(ctx context.Context, req models.CreateVoteRequest) (*models.Vote, error)
	DeleteVote(ctx context.Context, voteID int64) error
	PostVotes(ctx context.Context, postID int64) (*models.VoteStatus, error)
	CommentVotes(ctx context.Context, commentID int64) (*models.VoteStatus, error)
}

// TokenSource yields the current session token, "" when anonymous. The vote
// layer uses it to scope cache keys and to skip lookups that cannot carry a
// caller-vote answer.
type TokenSource interface {
	Token() string
}

type voteState uint8

const (
	stateNotVoted voteState = iota
	statePending
	stateVoted
)

// UserVote is the caller's vote on a target: NotVoted, PendingConfirmation
// (optimistically voted, server id not yet known), or Voted with the id of
// the caller's vote row.
type UserVote struct {
	state voteState
	id    int64
}

func NotVoted() UserVote            { return UserVote{state: stateNotVoted} }
func PendingConfirmation() UserVote { return UserVote{state: statePending} }
func Voted(id int64) UserVote       { return UserVote{state: stateVoted, id: id} }

// Active reports whether the caller's vote should render as "voted"
// (confirmed or optimistically pending).
func (v UserVote) Active() bool { return v.state != stateNotVoted }

// Pending reports the transient awaiting-confirmation state.
func (v UserVote) Pending() bool { return v.state == statePending }

// ID returns the confirmed vote id. ok is false for NotVoted and
// PendingConfirmation.
func (v UserVote) ID() (id int64, ok bool) {
	if v.state != stateVoted {
		return 0, false
	}
	return v.id, true
}

// voteFromStatus maps the server's optional user_vote_id onto a UserVote.
func voteFromStatus(st models.VoteStatus) UserVote {
	if st.UserVoteID == nil {
		return NotVoted()
	}
	return Voted(*st.UserVoteID)
}
