package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"

	"github.com/learnloop/learnloop-cli/internal/api"
	"github.com/learnloop/learnloop-cli/internal/config"
	"github.com/learnloop/learnloop-cli/internal/logging"
	"github.com/learnloop/learnloop-cli/internal/models"
	"github.com/learnloop/learnloop-cli/internal/repositories/credentials"
	"github.com/learnloop/learnloop-cli/internal/session"
	"github.com/learnloop/learnloop-cli/internal/storage"
	"github.com/learnloop/learnloop-cli/internal/votes"

	_ "modernc.org/sqlite"
)

// listedItem is one votable entry currently shown to the user, addressable
// by its 1-based display index in the vote command.
type listedItem struct {
	tracker *votes.Tracker
	label   string
}

type App struct {
	config   *config.Config
	client   api.Client
	session  *session.Controller
	cache    *votes.Cache
	prefetch *votes.Prefetcher
	log      logging.Logger
	db       *sql.DB

	reader *bufio.Reader
	out    io.Writer

	listed  []listedItem
	current *models.PostDetail
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, err
	}

	client := api.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, log)
	store := credentials.NewSQLiteRepository(db)
	sess := session.NewController(client, store, log)
	cache := votes.NewCache(c.VoteCacheTTL)
	prefetch := votes.NewPrefetcher(client, cache, sess, log, c.PrefetchLimit)

	return &App{
		config:   c,
		client:   client,
		session:  sess,
		cache:    cache,
		prefetch: prefetch,
		log:      log,
		db:       db,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// Run restores the previous session and enters the command loop. It returns
// when the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.session.Initialize(ctx)

	printlnFn("Welcome to LearnLoop CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) Close() {
	a.dropListed()
	if a.db != nil {
		_ = a.db.Close()
	}
	_ = a.client.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.State().Authenticated()
}

func (a *App) getStatus() string {
	st := a.session.State()
	if st.Loading {
		return "(checking...)"
	}
	if st.User == nil {
		return "(anonymous)"
	}
	s := st.User.Username
	if !st.User.EmailVerified {
		s += " unverified"
	}
	return "(" + s + ")"
}

// dropListed closes the current trackers so late completions from a
// superseded listing cannot surface.
func (a *App) dropListed() {
	for _, it := range a.listed {
		it.tracker.Close()
	}
	a.listed = nil
	a.current = nil
}
