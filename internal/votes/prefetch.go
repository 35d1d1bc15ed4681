package votes

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/learnloop/learnloop-cli/internal/logging"
	"github.com/learnloop/learnloop-cli/internal/models"
)

// Seed is one feed item handed to the prefetcher: the target plus the
// server-known count used as the fallback when the lookup fails.
type Seed struct {
	Target        Target
	FallbackCount int64
}

// Prefetcher resolves vote status for a whole feed page with at most one
// network round trip per uncached target.
type Prefetcher struct {
	client API
	cache  *Cache
	tokens TokenSource
	log    logging.Logger
	limit  int
}

// NewPrefetcher builds a prefetcher running at most limit concurrent
// lookups (a non-positive limit means unbounded).
func NewPrefetcher(client API, cache *Cache, tokens TokenSource, log logging.Logger, limit int) *Prefetcher {
	return &Prefetcher{
		client: client,
		cache:  cache,
		tokens: tokens,
		log:    log.With("component", "prefetch"),
		limit:  limit,
	}
}

// Fetch resolves every seed concurrently and returns a status per target.
// Anonymous sessions skip the whole batch (the server-supplied counts are
// already correct and carry no caller-vote answer). A failed lookup degrades
// only its own target to the fallback count; it never cancels siblings, and
// Fetch returns once every lookup has settled.
func (p *Prefetcher) Fetch(ctx context.Context, seeds []Seed) map[Target]models.VoteStatus {
	token := p.tokens.Token()
	if token == "" || len(seeds) == 0 {
		return nil
	}

	results := make(map[Target]models.VoteStatus, len(seeds))
	var mu sync.Mutex

	var g errgroup.Group
	if p.limit > 0 {
		g.SetLimit(p.limit)
	}
	for _, s := range seeds {
		g.Go(func() error {
			st := p.lookup(ctx, token, s)
			mu.Lock()
			results[s.Target] = st
			mu.Unlock()
			// Per-target failures degrade to the fallback; returning nil
			// keeps one failure from aborting the batch.
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (p *Prefetcher) lookup(ctx context.Context, token string, s Seed) models.VoteStatus {
	key := Key{Token: token, Target: s.Target}
	if st, ok := p.cache.Get(key); ok {
		return st
	}

	var st *models.VoteStatus
	var err error
	if s.Target.Type == models.TargetComment {
		st, err = p.client.CommentVotes(ctx, s.Target.ID)
	} else {
		st, err = p.client.PostVotes(ctx, s.Target.ID)
	}
	if err != nil {
		p.log.Debug(ctx, "vote status lookup failed, using fallback",
			"target_type", s.Target.Type, "target_id", s.Target.ID, "error", err)
		return models.VoteStatus{VoteCount: s.FallbackCount}
	}

	p.cache.Put(key, *st)
	return *st
}
