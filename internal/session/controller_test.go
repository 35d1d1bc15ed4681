package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnloop/learnloop-cli/internal/logging"
	"github.com/learnloop/learnloop-cli/internal/models"
)

// ---- fakes ----

type fakeAPI struct {
	mu      sync.Mutex
	token   string
	calls   int
	userFn  func(ctx context.Context) (*models.User, error)
	userRet *models.User
	userErr error
}

func (f *fakeAPI) CurrentUser(ctx context.Context) (*models.User, error) {
	f.mu.Lock()
	f.calls++
	fn := f.userFn
	u, err := f.userRet, f.userErr
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return u, err
}

func (f *fakeAPI) SetToken(token string) {
	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
}

func (f *fakeAPI) ClearToken() { f.SetToken("") }

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeStore struct {
	mu     sync.Mutex
	token  string
	saves  int
	clears int

	// When set, Clear signals clearStarted and parks until blockClear is
	// closed, holding its caller mid-eviction.
	blockClear   chan struct{}
	clearStarted chan struct{}
}

func (f *fakeStore) Token(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, nil
}

func (f *fakeStore) SaveToken(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	f.saves++
	return nil
}

func (f *fakeStore) Clear(ctx context.Context) error {
	if f.blockClear != nil {
		f.clearStarted <- struct{}{}
		<-f.blockClear
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.clears++
	return nil
}

func (f *fakeStore) stored() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func newController(api *fakeAPI, store *fakeStore) *Controller {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewController(api, store, log)
}

func expiredJWT(t *testing.T) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	s, err := tok.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

// ---- tests ----

func TestInitialize_NoToken_HydratesAnonymous(t *testing.T) {
	api := &fakeAPI{}
	c := newController(api, &fakeStore{})

	require.False(t, c.State().Hydrated)

	c.Initialize(context.Background())

	st := c.State()
	assert.True(t, st.Hydrated)
	assert.False(t, st.Loading)
	assert.Nil(t, st.User)
	assert.Equal(t, 0, api.callCount(), "anonymous startup must not hit the network")
}

func TestInitialize_ValidToken_HydratesAuthenticated(t *testing.T) {
	api := &fakeAPI{userRet: &models.User{ID: 1, Username: "alice"}}
	store := &fakeStore{token: "tok-1"}
	c := newController(api, store)

	c.Initialize(context.Background())

	st := c.State()
	assert.True(t, st.Hydrated)
	require.NotNil(t, st.User)
	assert.Equal(t, "alice", st.User.Username)
	assert.Equal(t, "tok-1", c.Token())
}

func TestInitialize_InvalidToken_EvictsAndHydratesAnonymous(t *testing.T) {
	api := &fakeAPI{userErr: errors.New("401")}
	store := &fakeStore{token: "tok-bad"}
	c := newController(api, store)

	c.Initialize(context.Background())

	st := c.State()
	assert.True(t, st.Hydrated)
	assert.Nil(t, st.User)
	assert.Empty(t, c.Token())
	assert.Empty(t, store.stored(), "failed validation must evict the stored token")
}

func TestInitialize_ExpiredJWT_EvictedWithoutNetworkCall(t *testing.T) {
	api := &fakeAPI{userRet: &models.User{ID: 1}}
	store := &fakeStore{token: expiredJWT(t)}
	c := newController(api, store)

	c.Initialize(context.Background())

	st := c.State()
	assert.True(t, st.Hydrated)
	assert.Nil(t, st.User)
	assert.Empty(t, store.stored())
	assert.Equal(t, 0, api.callCount())
}

func TestInitialize_SecondCallIsNoOp(t *testing.T) {
	api := &fakeAPI{userRet: &models.User{ID: 1}}
	store := &fakeStore{token: "tok"}
	c := newController(api, store)

	c.Initialize(context.Background())
	c.Initialize(context.Background())

	assert.Equal(t, 1, api.callCount())
}

func TestHydration_ExactlyOneTransition(t *testing.T) {
	api := &fakeAPI{userRet: &models.User{ID: 1}}
	store := &fakeStore{token: "tok"}
	c := newController(api, store)

	var transitions int
	prev := false
	cancel := c.Subscribe(func(st State) {
		if st.Hydrated && !prev {
			transitions++
		}
		prev = st.Hydrated
	})
	defer cancel()

	c.Initialize(context.Background())
	c.Refresh(context.Background())
	c.Logout()

	assert.Equal(t, 1, transitions)
}

func TestLogin_PersistsTokenAndSetsUser(t *testing.T) {
	api := &fakeAPI{userRet: &models.User{ID: 2, Username: "bob"}}
	store := &fakeStore{}
	c := newController(api, store)
	c.Initialize(context.Background())

	c.Login(context.Background(), "tok-new")

	st := c.State()
	require.NotNil(t, st.User)
	assert.Equal(t, "bob", st.User.Username)
	assert.Equal(t, "tok-new", store.stored())
	assert.Equal(t, "tok-new", c.Token())
}

func TestLogin_ValidationFailure_DowngradesToAnonymous(t *testing.T) {
	api := &fakeAPI{userErr: errors.New("boom")}
	store := &fakeStore{}
	c := newController(api, store)
	c.Initialize(context.Background())

	c.Login(context.Background(), "tok-broken")

	st := c.State()
	assert.Nil(t, st.User)
	assert.Empty(t, c.Token())
	assert.Empty(t, store.stored())
}

func TestLogout_SynchronousAndIdempotent(t *testing.T) {
	api := &fakeAPI{userRet: &models.User{ID: 1}}
	store := &fakeStore{token: "tok"}
	c := newController(api, store)
	c.Initialize(context.Background())
	require.NotNil(t, c.State().User)

	c.Logout()
	c.Logout()

	st := c.State()
	assert.Nil(t, st.User)
	assert.Empty(t, c.Token())
	assert.Empty(t, store.stored())
}

func TestLogout_DiscardsInFlightValidation(t *testing.T) {
	release := make(chan struct{})
	api := &fakeAPI{}
	api.userFn = func(ctx context.Context) (*models.User, error) {
		<-release
		return &models.User{ID: 9, Username: "ghost"}, nil
	}
	store := &fakeStore{}
	c := newController(api, store)
	c.Initialize(context.Background())

	done := make(chan struct{})
	go func() {
		c.Login(context.Background(), "tok-slow")
		close(done)
	}()

	// Wait for the validation to be in flight, then log out underneath it.
	require.Eventually(t, func() bool { return api.callCount() == 1 }, time.Second, time.Millisecond)
	c.Logout()
	close(release)
	<-done

	st := c.State()
	assert.Nil(t, st.User, "a stale validation must not resurrect the session")
	assert.Empty(t, c.Token())
}

func TestSlowInitialize_DoesNotOverwriteFasterLogin(t *testing.T) {
	release := make(chan struct{})
	var first sync.Once
	api := &fakeAPI{}
	api.userFn = func(ctx context.Context) (*models.User, error) {
		slow := false
		first.Do(func() { slow = true })
		if slow {
			<-release
			return nil, errors.New("expired")
		}
		return &models.User{ID: 3, Username: "carol"}, nil
	}
	store := &fakeStore{token: "tok-old"}
	c := newController(api, store)

	done := make(chan struct{})
	go func() {
		c.Initialize(context.Background())
		close(done)
	}()
	require.Eventually(t, func() bool { return api.callCount() == 1 }, time.Second, time.Millisecond)

	c.Login(context.Background(), "tok-new")
	require.NotNil(t, c.State().User)

	close(release)
	<-done

	st := c.State()
	require.NotNil(t, st.User, "stale initialize must not overwrite a newer login")
	assert.Equal(t, "carol", st.User.Username)
	assert.Equal(t, "tok-new", store.stored())
}

func TestFailedValidation_DoesNotEvictConcurrentLoginToken(t *testing.T) {
	var first sync.Once
	api := &fakeAPI{}
	api.userFn = func(ctx context.Context) (*models.User, error) {
		stale := false
		first.Do(func() { stale = true })
		if stale {
			return nil, errors.New("401")
		}
		return &models.User{ID: 4, Username: "dave"}, nil
	}
	store := &fakeStore{
		token:        "tok-old",
		blockClear:   make(chan struct{}),
		clearStarted: make(chan struct{}, 1),
	}
	c := newController(api, store)

	initDone := make(chan struct{})
	go func() {
		// Fails validation and parks inside the store eviction.
		c.Initialize(context.Background())
		close(initDone)
	}()
	<-store.clearStarted

	loginDone := make(chan struct{})
	go func() {
		c.Login(context.Background(), "tok-new")
		close(loginDone)
	}()
	// Give the login a chance to race the in-progress eviction.
	time.Sleep(10 * time.Millisecond)

	close(store.blockClear)
	<-initDone
	<-loginDone

	st := c.State()
	require.NotNil(t, st.User, "failed validation must not overwrite a newer login")
	assert.Equal(t, "dave", st.User.Username)
	assert.Equal(t, "tok-new", store.stored(), "eviction must not clear a newer login's persisted token")
}

func TestRefresh_UpdatesUserWithoutTouchingStoredToken(t *testing.T) {
	api := &fakeAPI{userRet: &models.User{ID: 1, Username: "alice", Bio: "old"}}
	store := &fakeStore{token: "tok"}
	c := newController(api, store)
	c.Initialize(context.Background())

	api.mu.Lock()
	api.userRet = &models.User{ID: 1, Username: "alice", Bio: "new"}
	api.mu.Unlock()

	saves := store.saves
	c.Refresh(context.Background())

	st := c.State()
	require.NotNil(t, st.User)
	assert.Equal(t, "new", st.User.Bio)
	assert.Equal(t, saves, store.saves, "refresh must not rewrite the stored token")
}

func TestSubscribe_NotifiedSynchronouslyAndCancelable(t *testing.T) {
	api := &fakeAPI{userRet: &models.User{ID: 1}}
	store := &fakeStore{token: "tok"}
	c := newController(api, store)

	var seen []State
	cancel := c.Subscribe(func(st State) { seen = append(seen, st) })

	c.Initialize(context.Background())
	require.NotEmpty(t, seen)
	last := seen[len(seen)-1]
	assert.True(t, last.Hydrated)
	assert.NotNil(t, last.User)

	cancel()
	n := len(seen)
	c.Logout()
	assert.Len(t, seen, n, "canceled subscriptions receive no further updates")
}
