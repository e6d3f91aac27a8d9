// Package cache implements the query cache shared by the read paths.
// Entries are tagged, and invalidating a tag drops every entry that
// carries it and notifies subscribers. The cache is an explicit
// dependency of the services, never ambient state.
package cache

import (
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/taskdeck/taskdeck/internal/models"
)

const DefaultMaxEntries = 512

type entry struct {
	value any
	tags  []string
}

// Cache is a bounded, tag-invalidated store for query results.
// Safe for concurrent use.
type Cache struct {
	mu sync.Mutex
	// store evicts least recently used entries; the eviction hook
	// keeps the tag index and generations consistent.
	store *lru.Cache[string, entry]
	// byTag indexes the keys that carry each tag.
	byTag map[string]map[string]struct{}
	// gens counts invalidations per tag so that a fill started
	// before an invalidation can be told apart from a fresh one.
	// Keyed by tag, not by key: a first fill has no stored entry
	// yet, but its tags must still see the bump.
	gens map[string]uint64
	subs []func(tag string)
}

func New(maxEntries int) (*Cache, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	c := &Cache{
		byTag: make(map[string]map[string]struct{}),
		gens:  make(map[string]uint64),
	}

	store, err := lru.NewWithEvict(maxEntries, c.onEvict)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru store: %w", err)
	}
	c.store = store
	return c, nil
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Generation returns the combined generation of the given tags. A
// caller about to fetch from the backend snapshots the generation of
// the tags it will store under and passes it back to SetIfCurrent, so
// a result that raced with an invalidation is discarded instead of
// resurrecting stale data. Generations only grow, so the sum changes
// exactly when one of the tags is invalidated.
func (c *Cache) Generation(tags ...string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generationLocked(tags)
}

func (c *Cache) generationLocked(tags []string) uint64 {
	var gen uint64
	for _, tag := range tags {
		gen += c.gens[tag]
	}
	return gen
}

// SetIfCurrent stores value under key unless one of its tags was
// invalidated after gen was snapshotted. It reports whether the value
// was stored.
func (c *Cache) SetIfCurrent(key string, gen uint64, value any, tags ...string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generationLocked(tags) != gen {
		return false
	}

	c.removeTagLinksLocked(key)
	c.store.Add(key, entry{value: value, tags: tags})
	for _, tag := range tags {
		keys, ok := c.byTag[tag]
		if !ok {
			keys = make(map[string]struct{})
			c.byTag[tag] = keys
		}
		keys[key] = struct{}{}
	}
	return true
}

// Invalidate drops every entry carrying any of the given tags, bumps
// the tag generations and notifies subscribers once per tag. The bump
// is unconditional so that an in-flight first fill, which has no
// stored entry yet, is still discarded.
func (c *Cache) Invalidate(tags ...string) {
	c.mu.Lock()
	for _, tag := range tags {
		c.gens[tag]++
		for key := range c.byTag[tag] {
			// Remove triggers onEvict, which clears the
			// remaining tag links for the key.
			c.store.Remove(key)
		}
		delete(c.byTag, tag)
	}
	subs := c.subs
	c.mu.Unlock()

	for _, tag := range tags {
		for _, fn := range subs {
			fn(tag)
		}
	}
}

// Subscribe registers a callback invoked after each tag invalidation.
// Callbacks run outside the cache lock.
func (c *Cache) Subscribe(fn func(tag string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Purge drops everything, including generation history.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.Purge()
	c.byTag = make(map[string]map[string]struct{})
	c.gens = make(map[string]uint64)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Len()
}

// onEvict runs under c.mu for Add/Remove/Purge calls, which are all
// made while the lock is held.
func (c *Cache) onEvict(key string, e entry) {
	for _, tag := range e.tags {
		if keys, ok := c.byTag[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(c.byTag, tag)
			}
		}
	}
}

func (c *Cache) removeTagLinksLocked(key string) {
	if e, ok := c.store.Peek(key); ok {
		c.onEvict(key, e)
	}
}

// TasksTag names the invalidation family covering every cached task
// read of a user, including the dashboard stats.
func TasksTag(userID string) string {
	return "tasks:" + userID
}

func ProfileTag(userID string) string {
	return "profile:" + userID
}

// TaskListKey builds the cache key for one (user, filters)
// combination.
func TaskListKey(userID string, f models.TaskFilters) string {
	var sb strings.Builder
	sb.WriteString("tasks:list:")
	sb.WriteString(userID)
	for _, part := range []string{f.Search, f.Status, f.Priority} {
		sb.WriteByte(':')
		sb.WriteString(part)
	}
	return sb.String()
}

func TaskStatsKey(userID string) string {
	return "tasks:stats:" + userID
}

func ProfileKey(userID string) string {
	return "profile:get:" + userID
}

// UserTags lists every session-scoped tag of a user. Auth state
// changes invalidate all of them so no data crosses identities.
func UserTags(userID string) []string {
	return []string{TasksTag(userID), ProfileTag(userID)}
}
