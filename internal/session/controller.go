package session

import (
	"context"
	"sync"

	"github.com/learnloop/learnloop-cli/internal/logging"
	"github.com/learnloop/learnloop-cli/internal/models"
	"github.com/learnloop/learnloop-cli/internal/repositories/credentials"
)

// API is the slice of the backend client the controller needs.
type API interface {
	CurrentUser(ctx context.Context) (*models.User, error)
	SetToken(token string)
	ClearToken()
}

// State is the snapshot observers read.
//
// User is non-nil only while a token is present and was validated by a
// successful profile fetch. Hydrated reports that the persisted token has
// been read and reflected into memory; Loading reports a validation in
// flight.
type State struct {
	User     *models.User
	Loading  bool
	Hydrated bool
}

func (s State) Authenticated() bool { return s.User != nil }

// Controller coordinates the session lifecycle. Safe for concurrent use.
type Controller struct {
	client API
	store  credentials.Repository
	log    logging.Logger

	mu          sync.Mutex
	token       string
	user        *models.User
	hydrated    bool
	loading     bool
	initialized bool
	gen         uint64
	nextSub     int
	subs        map[int]func(State)
}

func NewController(client API, store credentials.Repository, log logging.Logger) *Controller {
	return &Controller{
		client: client,
		store:  store,
		log:    log.With("component", "session"),
		subs:   map[int]func(State){},
	}
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{User: c.user, Loading: c.loading, Hydrated: c.hydrated}
}

// Token returns the current bearer token, or "" for anonymous sessions.
// The vote layer uses it to scope cache keys and to skip useless lookups.
func (c *Controller) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Subscribe registers fn to be called synchronously on every state change.
// The returned function cancels the subscription.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// notifyLocked snapshots state and subscribers, then invokes the callbacks
// outside the lock. Must be called with c.mu held; it releases and reacquires
// nothing — it returns a closure the caller runs after unlocking.
func (c *Controller) notifyLocked() func() {
	st := State{User: c.user, Loading: c.loading, Hydrated: c.hydrated}
	fns := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(st)
		}
	}
}

// Initialize reads the persisted token and derives the initial session.
// It is the only startup path that reads the credentials store; subsequent
// calls are no-ops. All paths end hydrated and not loading.
func (c *Controller) Initialize(ctx context.Context) {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return
	}
	c.initialized = true
	c.mu.Unlock()

	token, err := c.store.Token(ctx)
	if err != nil {
		c.log.Warn(ctx, "reading stored token failed", "error", err)
		token = ""
	}

	if token == "" {
		c.settle(c.bump(), nil, "")
		return
	}

	// An already-expired JWT cannot validate; evict it without a round trip.
	// Opaque tokens fall through to the server.
	if tokenExpired(token) {
		c.log.Info(ctx, "stored token expired, evicting")
		c.mu.Lock()
		c.evictLocked(ctx)
		c.gen++
		gen := c.gen
		c.mu.Unlock()
		c.settle(gen, nil, "")
		return
	}

	c.validate(ctx, token)
}

// Login persists the freshly issued token and validates it. After Login
// returns, the session reflects the token's validity. The originating
// authentication call is the caller's concern; Login never fails loudly.
//
// The save shares a critical section with the generation bump so a losing
// validation cannot observe a current generation while the new token is
// being persisted.
func (c *Controller) Login(ctx context.Context, token string) {
	c.mu.Lock()
	if err := c.store.SaveToken(ctx, token); err != nil {
		c.log.Error(ctx, "persisting token failed", "error", err)
	}
	c.gen++
	c.mu.Unlock()

	c.validate(ctx, token)
}

// Refresh re-validates the current token without touching the stored copy.
// Used after profile edits so observers pick up the new profile.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	if token == "" {
		return
	}
	c.validate(ctx, token)
}

// Logout clears persisted and in-memory credentials synchronously. It needs
// no network round-trip and is idempotent; any in-flight validation is
// invalidated by the generation bump.
func (c *Controller) Logout() {
	ctx := context.Background()

	c.mu.Lock()
	c.gen++
	c.token = ""
	c.user = nil
	c.loading = false
	c.evictLocked(ctx)
	notify := c.notifyLocked()
	c.mu.Unlock()

	c.client.ClearToken()
	notify()
}

// validate runs the fetch-and-validate sequence for token. A completion
// belonging to a superseded generation is discarded.
func (c *Controller) validate(ctx context.Context, token string) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.token = token
	c.loading = true
	notify := c.notifyLocked()
	c.mu.Unlock()
	notify()

	c.client.SetToken(token)
	user, err := c.client.CurrentUser(ctx)

	if err != nil {
		// Network failure and invalid token are indistinguishable here:
		// both downgrade the session to anonymous and evict the token.
		// A stale completion must not evict a newer transition's token.
		c.log.Info(ctx, "token validation failed, downgrading to anonymous", "error", err)
		c.mu.Lock()
		if gen == c.gen {
			c.evictLocked(ctx)
		}
		c.mu.Unlock()
		c.settle(gen, nil, "")
		return
	}

	c.settle(gen, user, token)
}

// bump starts a new transition generation.
func (c *Controller) bump() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.gen
}

// settle commits the outcome of a transition unless a newer one has started
// since gen was issued.
func (c *Controller) settle(gen uint64, user *models.User, token string) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.user = user
	c.token = token
	c.loading = false
	c.hydrated = true
	notify := c.notifyLocked()
	c.mu.Unlock()

	if user == nil {
		c.client.ClearToken()
	}
	notify()
}

// evictLocked clears the persisted token. Callers hold c.mu, which orders
// the clear against Login's save of a newer token.
func (c *Controller) evictLocked(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.log.Error(ctx, "evicting stored token failed", "error", err)
	}
}
