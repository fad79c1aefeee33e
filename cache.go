package chatguard

import (
	"container/heap"
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultRosterTTL is how long a fetched roster stays authoritative.
	DefaultRosterTTL = 10 * time.Minute

	// DefaultRosterCapacity is the maximum number of chats kept in the cache.
	DefaultRosterCapacity = 512

	defaultWarmConcurrency = 8
)

// RosterCache maps chats to their administrator rosters, refreshing entries
// from a RosterSource on miss or expiry.
//
// A single mutex guards the map and the expiry index. It is never held
// across a fetch, so two callers missing on the same chat at the same time
// may both fetch; the later insert wins and both results are valid snapshots.
type RosterCache struct {
	source          RosterSource
	ttl             time.Duration
	capacity        int
	now             func() time.Time
	logger          *slog.Logger
	warmConcurrency int

	mu      sync.Mutex
	entries map[ChatID]*rosterEntry
	queue   expiryQueue
	seq     uint64

	monitor *rosterMonitor
}

type rosterEntry struct {
	chat      ChatID
	admins    []UserID
	fetchedAt time.Time
	expiresAt time.Time
	seq       uint64 // insertion order, breaks expiry ties
	index     int    // position in the expiry queue
}

// CacheOption configures a RosterCache.
type CacheOption func(*RosterCache)

// WithTTL sets how long a roster is trusted after it was fetched.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *RosterCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCapacity sets the maximum number of cached chats.
func WithCapacity(capacity int) CacheOption {
	return func(c *RosterCache) {
		if capacity > 0 {
			c.capacity = capacity
		}
	}
}

// WithClock replaces time.Now for expiry decisions. Tests use it to move
// time forward without sleeping.
func WithClock(now func() time.Time) CacheOption {
	return func(c *RosterCache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithCacheLogger sets the logger used for fetch failures and evictions.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *RosterCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithWarmConcurrency bounds the parallel fetches issued by Warm.
func WithWarmConcurrency(n int) CacheOption {
	return func(c *RosterCache) {
		if n > 0 {
			c.warmConcurrency = n
		}
	}
}

// NewRosterCache creates an empty cache backed by source.
//
// Example:
//
//	cache := chatguard.NewRosterCache(source,
//	    chatguard.WithTTL(10*time.Minute),
//	    chatguard.WithCapacity(512),
//	)
func NewRosterCache(source RosterSource, opts ...CacheOption) *RosterCache {
	c := &RosterCache{
		source:          source,
		ttl:             DefaultRosterTTL,
		capacity:        DefaultRosterCapacity,
		now:             time.Now,
		logger:          slog.New(slog.DiscardHandler),
		warmConcurrency: defaultWarmConcurrency,
		entries:         make(map[ChatID]*rosterEntry),
		monitor:         newRosterMonitor(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the configured entry lifetime.
func (c *RosterCache) TTL() time.Duration {
	return c.ttl
}

// Capacity returns the configured maximum entry count.
func (c *RosterCache) Capacity() int {
	return c.capacity
}

// Get returns the administrator roster of a chat. A cached roster younger
// than the TTL is returned as is; otherwise the roster is fetched once from
// the source and cached. On fetch failure nothing is cached and the error
// wraps ErrRosterFetch; an expired entry is never served as a fallback.
func (c *RosterCache) Get(ctx context.Context, chatID ChatID) ([]UserID, error) {
	if admins, ok := c.lookup(chatID); ok {
		c.monitor.hit()
		return admins, nil
	}
	c.monitor.miss()

	fetchedAt := c.now()
	start := time.Now()
	admins, err := c.source.GetChatAdministrators(ctx, chatID)
	c.monitor.recordFetch(time.Since(start), err == nil)
	if err != nil {
		c.logger.Warn("roster fetch failed",
			slog.Int64("chat_id", int64(chatID)),
			slog.Any("error", err))
		return nil, NewError(ErrRosterFetch, "get chat administrators").
			WithChat(chatID).
			WithCause(err)
	}

	stored := slices.Clone(admins)
	c.store(chatID, stored, fetchedAt)
	return slices.Clone(stored), nil
}

// Contains reports whether userID is in the chat's roster, fetching the
// roster if needed.
func (c *RosterCache) Contains(ctx context.Context, chatID ChatID, userID UserID) (bool, error) {
	admins, err := c.Get(ctx, chatID)
	if err != nil {
		return false, err
	}
	return slices.Contains(admins, userID), nil
}

// Set stores a roster observed elsewhere (for example from a membership
// update) as if it had just been fetched.
func (c *RosterCache) Set(chatID ChatID, admins []UserID) {
	c.store(chatID, slices.Clone(admins), c.now())
}

// Invalidate removes a chat's roster so the next Get fetches it again.
// It returns false if nothing was cached for the chat.
func (c *RosterCache) Invalidate(chatID ChatID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[chatID]
	if !ok {
		return false
	}
	c.removeLocked(e)
	c.monitor.invalidation()
	return true
}

// Purge drops every expired entry and returns how many were removed.
func (c *RosterCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.purgeExpiredLocked(c.now())
}

// Len returns the number of cached chats, including expired entries not
// yet purged.
func (c *RosterCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Warm fetches the rosters of the given chats concurrently so later
// decisions hit the cache. Fresh entries are not refetched. The first fetch
// error is returned after all started fetches finish.
func (c *RosterCache) Warm(ctx context.Context, chats ...ChatID) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.warmConcurrency)
	for _, chatID := range slices.Compact(slices.Sorted(slices.Values(chats))) {
		g.Go(func() error {
			_, err := c.Get(ctx, chatID)
			return err
		})
	}
	return g.Wait()
}

// Metrics returns a snapshot of cache and fetch counters.
func (c *RosterCache) Metrics() RosterMetrics {
	m := c.monitor.snapshot()
	m.Entries = c.Len()
	m.Capacity = c.capacity
	return m
}

// ResetMetrics zeroes the counters returned by Metrics.
func (c *RosterCache) ResetMetrics() {
	c.monitor.reset()
}

func (c *RosterCache) lookup(chatID ChatID) ([]UserID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[chatID]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		c.removeLocked(e)
		c.monitor.expiration()
		return nil, false
	}
	return slices.Clone(e.admins), true
}

// store caches admins as a snapshot taken at fetchedAt. The entry's age
// counts from fetchedAt, not from when the fetch returned.
func (c *RosterCache) store(chatID ChatID, admins []UserID, fetchedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.seq++
	if e, ok := c.entries[chatID]; ok {
		e.admins = admins
		e.fetchedAt = fetchedAt
		e.expiresAt = fetchedAt.Add(c.ttl)
		e.seq = c.seq
		heap.Fix(&c.queue, e.index)
		return
	}

	c.purgeExpiredLocked(now)
	for len(c.entries) >= c.capacity {
		victim := c.queue[0]
		c.removeLocked(victim)
		c.monitor.eviction()
		c.logger.Debug("roster evicted",
			slog.Int64("chat_id", int64(victim.chat)),
			slog.Time("expires_at", victim.expiresAt))
	}

	e := &rosterEntry{
		chat:      chatID,
		admins:    admins,
		fetchedAt: fetchedAt,
		expiresAt: fetchedAt.Add(c.ttl),
		seq:       c.seq,
	}
	c.entries[chatID] = e
	heap.Push(&c.queue, e)
}

func (c *RosterCache) purgeExpiredLocked(now time.Time) int {
	n := 0
	for len(c.queue) > 0 && !now.Before(c.queue[0].expiresAt) {
		c.removeLocked(c.queue[0])
		c.monitor.expiration()
		n++
	}
	return n
}

func (c *RosterCache) removeLocked(e *rosterEntry) {
	heap.Remove(&c.queue, e.index)
	delete(c.entries, e.chat)
}

// expiryQueue is a min-heap of entries ordered by expiry, then insertion.
type expiryQueue []*rosterEntry

func (q expiryQueue) Len() int { return len(q) }

func (q expiryQueue) Less(i, j int) bool {
	if q[i].expiresAt.Equal(q[j].expiresAt) {
		return q[i].seq < q[j].seq
	}
	return q[i].expiresAt.Before(q[j].expiresAt)
}

func (q expiryQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *expiryQueue) Push(x any) {
	e := x.(*rosterEntry)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *expiryQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}
