package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/learnloop/learnloop-cli/internal/logging"
	"github.com/learnloop/learnloop-cli/internal/models"
)

// retryBase is the initial backoff for transient-failure retries on
// idempotent reads; the budget is capped at retryAttempts extra tries.
const (
	retryBase     = 200 * time.Millisecond
	retryAttempts = 2
)

// HTTPClient is the concrete Client over the backend's REST/JSON API.
// The bearer token is held in the client and attached to every request that
// has one; mutating it is safe from any goroutine.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	log     logging.Logger

	mu    sync.RWMutex
	token string
}

func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
		log:     log.With("component", "api"),
	}
}

func (c *HTTPClient) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) ClearToken() {
	c.SetToken("")
}

func (c *HTTPClient) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// callOpts describes one API request for do().
type callOpts struct {
	method      string
	path        string // relative to <base>/api
	query       url.Values
	body        any
	out         any
	requireAuth bool
	idempotent  bool // enables transient-failure retry
}

func (c *HTTPClient) do(ctx context.Context, op callOpts) error {
	token := c.currentToken()
	if op.requireAuth && token == "" {
		return ErrNoToken
	}

	var payload []byte
	if op.body != nil {
		var err error
		payload, err = json.Marshal(op.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	u := c.baseURL + "/api" + op.path
	if len(op.query) > 0 {
		u += "?" + op.query.Encode()
	}

	attempt := func(ctx context.Context) error {
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, op.method, u, reqBody)
		if err != nil {
			return err
		}
		req.Header.Set("X-Request-Id", uuid.NewString())
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return retry.RetryableError(fmt.Errorf("%w: %v", ErrUnavailable, err))
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("%w: %v", ErrUnavailable, err))
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if op.out != nil && len(data) > 0 {
				if err := json.Unmarshal(data, op.out); err != nil {
					return fmt.Errorf("decode response: %w", err)
				}
			}
			return nil
		}

		err = c.mapStatus(resp.StatusCode, data)
		if resp.StatusCode == http.StatusBadGateway ||
			resp.StatusCode == http.StatusServiceUnavailable ||
			resp.StatusCode == http.StatusGatewayTimeout {
			return retry.RetryableError(err)
		}
		return err
	}

	var err error
	if op.idempotent {
		b := retry.WithMaxRetries(retryAttempts, retry.NewFibonacci(retryBase))
		err = retry.Do(ctx, b, attempt)
	} else {
		err = attempt(ctx)
	}
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", op.method, "path", op.path, "error", err)
	}
	return err
}

// mapStatus converts a non-2xx response into a sentinel error where the
// caller cares about the class, or a *Error carrying the backend payload.
func (c *HTTPClient) mapStatus(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: status %d", ErrUnavailable, status)
	}

	apiErr := &Error{Status: status, Code: "UNKNOWN_ERROR", Detail: http.StatusText(status)}
	var parsed struct {
		Detail string `json:"detail"`
		Code   string `json:"code"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Detail != "" {
			apiErr.Detail = parsed.Detail
		}
		if parsed.Code != "" {
			apiErr.Code = parsed.Code
		}
	}
	return apiErr
}

func pageQuery(page, pageSize int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	return q
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, callOpts{method: http.MethodPost, path: "/auth/register", body: req, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, callOpts{method: http.MethodPost, path: "/auth/login", body: req, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, token string) (*models.Message, error) {
	q := url.Values{}
	q.Set("token", token)
	var out models.Message
	if err := c.do(ctx, callOpts{method: http.MethodGet, path: "/auth/verify-email", query: q, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResendVerification asks the backend to send a fresh verification mail.
// Logged-in callers may pass an empty email; anonymous callers must supply
// the address the mail should go to.
func (c *HTTPClient) ResendVerification(ctx context.Context, email string) (*models.Message, error) {
	op := callOpts{method: http.MethodPost, path: "/auth/resend-verification"}
	if email != "" {
		op.body = map[string]string{"email": email}
	}
	var out models.Message
	op.out = &out
	if err := c.do(ctx, op); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentUser fetches the profile behind the installed token. The endpoint
// has two historical response shapes, `{"user": User|null}` and a bare User
// object; both are accepted. A `{"user": null}` body means the token no
// longer maps to an identity and is reported as ErrUnauthorized.
func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, callOpts{method: http.MethodGet, path: "/me", out: &raw, requireAuth: true, idempotent: true}); err != nil {
		return nil, err
	}
	return decodeCurrentUser(raw)
}

func decodeCurrentUser(raw []byte) (*models.User, error) {
	var envelope struct {
		User json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.User != nil {
		if bytes.Equal(bytes.TrimSpace(envelope.User), []byte("null")) {
			return nil, ErrUnauthorized
		}
		var u models.User
		if err := json.Unmarshal(envelope.User, &u); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		return &u, nil
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, req models.UpdateUserRequest) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, callOpts{method: http.MethodPut, path: "/me", body: req, out: &out, requireAuth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (*models.Message, error) {
	var out models.Message
	if err := c.do(ctx, callOpts{method: http.MethodPut, path: "/me/password", body: req, out: &out, requireAuth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) User(ctx context.Context, id int64) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, callOpts{method: http.MethodGet, path: "/users/" + strconv.FormatInt(id, 10), out: &out, idempotent: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) HomeFeed(ctx context.Context, page, pageSize int) (*models.Feed, error) {
	var out models.Feed
	if err := c.do(ctx, callOpts{method: http.MethodGet, path: "/feed/home", query: pageQuery(page, pageSize), out: &out, idempotent: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) TopicFeed(ctx context.Context, topicID int64, page, pageSize int) (*models.Feed, error) {
	var out models.Feed
	path := "/feed/topic/" + strconv.FormatInt(topicID, 10)
	if err := c.do(ctx, callOpts{method: http.MethodGet, path: path, query: pageQuery(page, pageSize), out: &out, idempotent: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UserPosts(ctx context.Context, authorID int64, page, pageSize int) (*models.Feed, error) {
	var out models.Feed
	path := "/posts/author/" + strconv.FormatInt(authorID, 10)
	if err := c.do(ctx, callOpts{method: http.MethodGet, path: path, query: pageQuery(page, pageSize), out: &out, idempotent: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Post(ctx context.Context, id int64) (*models.PostDetail, error) {
	var out models.PostDetail
	if err := c.do(ctx, callOpts{method: http.MethodGet, path: "/posts/" + strconv.FormatInt(id, 10), out: &out, idempotent: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	var out models.Post
	if err := c.do(ctx, callOpts{method: http.MethodPost, path: "/posts", body: req, out: &out, requireAuth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateComment(ctx context.Context, req models.CreateCommentRequest) (*models.Comment, error) {
	var out models.Comment
	if err := c.do(ctx, callOpts{method: http.MethodPost, path: "/comments", body: req, out: &out, requireAuth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateVote(ctx context.Context, req models.CreateVoteRequest) (*models.Vote, error) {
	var out models.Vote
	if err := c.do(ctx, callOpts{method: http.MethodPost, path: "/votes", body: req, out: &out, requireAuth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteVote(ctx context.Context, voteID int64) error {
	return c.do(ctx, callOpts{method: http.MethodDelete, path: "/votes/" + strconv.FormatInt(voteID, 10), requireAuth: true})
}

// PostVotes and CommentVotes work both authenticated and anonymous; the
// anonymous answer carries counts without user_vote_id. Failed lookups are
// the caller's problem to degrade from, so no retry here.
func (c *HTTPClient) PostVotes(ctx context.Context, postID int64) (*models.VoteStatus, error) {
	var out models.VoteStatus
	if err := c.do(ctx, callOpts{method: http.MethodGet, path: "/votes/posts/" + strconv.FormatInt(postID, 10), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CommentVotes(ctx context.Context, commentID int64) (*models.VoteStatus, error) {
	var out models.VoteStatus
	if err := c.do(ctx, callOpts{method: http.MethodGet, path: "/votes/comments/" + strconv.FormatInt(commentID, 10), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}
