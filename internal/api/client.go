package api

import (
	"context"

	"github.com/learnloop/learnloop-cli/internal/models"
)

// Client is the transport-agnostic contract for the LearnLoop backend.
type Client interface {
	Close() error

	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	VerifyEmail(ctx context.Context, token string) (*models.Message, error)
	ResendVerification(ctx context.Context, email string) (*models.Message, error)

	CurrentUser(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, req models.UpdateUserRequest) (*models.User, error)
	ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (*models.Message, error)
	User(ctx context.Context, id int64) (*models.User, error)

	HomeFeed(ctx context.Context, page, pageSize int) (*models.Feed, error)
	TopicFeed(ctx context.Context, topicID int64, page, pageSize int) (*models.Feed, error)
	UserPosts(ctx context.Context, authorID int64, page, pageSize int) (*models.Feed, error)
	Post(ctx context.Context, id int64) (*models.PostDetail, error)
	CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error)
	CreateComment(ctx context.Context, req models.CreateCommentRequest) (*models.Comment, error)

	CreateVote(ctx context.Context, req models.CreateVoteRequest) (*models.Vote, error)
	DeleteVote(ctx context.Context, voteID int64) error
	PostVotes(ctx context.Context, postID int64) (*models.VoteStatus, error)
	CommentVotes(ctx context.Context, commentID int64) (*models.VoteStatus, error)

	// SetToken installs the bearer token attached to subsequent requests.
	// ClearToken removes it; requests that require auth then fail with
	// ErrNoToken before touching the network.
	SetToken(token string)
	ClearToken()
}
