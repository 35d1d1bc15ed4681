package votes

import (
	"sync"
	"time"

	"github.com/learnloop/learnloop-cli/internal/models"
)

// DefaultTTL is the freshness window for memoized vote-status answers.
const DefaultTTL = 60 * time.Second

// Key scopes a cached answer to one session identity and one target.
type Key struct {
	Token  string
	Target Target
}

type entry struct {
	status    models.VoteStatus
	fetchedAt time.Time
}

// Cache is a process-wide, time-boxed memo of vote-status lookups. Entries
// older than the TTL are treated as absent and dropped at read time; writes
// are last-write-wins. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[Key]entry
}

func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: map[Key]entry{},
	}
}

// Get returns the cached status for key if it is still fresh.
func (c *Cache) Get(key Key) (models.VoteStatus, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return models.VoteStatus{}, false
	}
	if c.now().Sub(e.fetchedAt) >= c.ttl {
		delete(c.entries, key)
		return models.VoteStatus{}, false
	}
	return e.status, true
}

// Put records a fresh server answer for key.
func (c *Cache) Put(key Key, status models.VoteStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{status: status, fetchedAt: c.now()}
}

// Invalidate drops the entry for key, if any. Called after a successful vote
// mutation so sibling instances of the same target cannot read a stale
// status for the rest of the TTL.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
