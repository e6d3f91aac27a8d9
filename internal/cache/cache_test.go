package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/models"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(16)
	require.NoError(t, err)
	return c
}

func TestCacheSetAndGet(t *testing.T) {
	c := newTestCache(t)

	key := TaskListKey("u1", models.TaskFilters{})
	gen := c.Generation(TasksTag("u1"))

	stored := c.SetIfCurrent(key, gen, "value", TasksTag("u1"))
	require.True(t, stored)

	v, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestCacheMiss(t *testing.T) {
	c := newTestCache(t)

	_, ok := c.Get("nothing")
	assert.False(t, ok)
}

func TestCacheInvalidateDropsWholeTagFamily(t *testing.T) {
	c := newTestCache(t)

	keys := []string{
		TaskListKey("u1", models.TaskFilters{}),
		TaskListKey("u1", models.TaskFilters{Status: "pending"}),
		TaskListKey("u1", models.TaskFilters{Search: "milk", Priority: "low"}),
		TaskStatsKey("u1"),
	}
	for _, key := range keys {
		c.SetIfCurrent(key, c.Generation(TasksTag("u1")), "v", TasksTag("u1"))
	}
	otherKey := TaskListKey("u2", models.TaskFilters{})
	c.SetIfCurrent(otherKey, c.Generation(TasksTag("u2")), "other", TasksTag("u2"))

	c.Invalidate(TasksTag("u1"))

	for _, key := range keys {
		_, ok := c.Get(key)
		assert.False(t, ok, "key %s should be invalidated", key)
	}

	// Another user's entries survive.
	_, ok := c.Get(otherKey)
	assert.True(t, ok)
}

func TestCacheStaleFillDiscardedAfterInvalidation(t *testing.T) {
	c := newTestCache(t)

	key := TaskListKey("u1", models.TaskFilters{})
	c.SetIfCurrent(key, c.Generation(TasksTag("u1")), "old", TasksTag("u1"))

	// A refetch snapshots the generation, then an invalidation
	// lands before its result does.
	gen := c.Generation(TasksTag("u1"))
	c.Invalidate(TasksTag("u1"))

	stored := c.SetIfCurrent(key, gen, "stale", TasksTag("u1"))
	assert.False(t, stored)

	_, ok := c.Get(key)
	assert.False(t, ok, "stale fill must not resurrect the entry")

	// The fetch that started after the invalidation wins.
	stored = c.SetIfCurrent(key, c.Generation(TasksTag("u1")), "fresh", TasksTag("u1"))
	require.True(t, stored)
	v, _ := c.Get(key)
	assert.Equal(t, "fresh", v)
}

func TestCacheStaleFirstFillDiscardedAfterInvalidation(t *testing.T) {
	c := newTestCache(t)

	// The very first fill of a key races with an invalidation: the
	// list query starts, a mutation invalidates the tag family, and
	// only then does the query result arrive. Nothing was ever
	// stored under the key, so the tag generation alone must carry
	// the bump.
	key := TaskListKey("u1", models.TaskFilters{})
	gen := c.Generation(TasksTag("u1"))

	c.Invalidate(TasksTag("u1"))

	stored := c.SetIfCurrent(key, gen, "stale", TasksTag("u1"))
	assert.False(t, stored, "first fill started before the invalidation must be discarded")

	_, ok := c.Get(key)
	assert.False(t, ok)

	stored = c.SetIfCurrent(key, c.Generation(TasksTag("u1")), "fresh", TasksTag("u1"))
	require.True(t, stored)
	v, _ := c.Get(key)
	assert.Equal(t, "fresh", v)
}

func TestCacheGenerationCoversAllTags(t *testing.T) {
	c := newTestCache(t)

	gen := c.Generation(UserTags("u1")...)

	// Invalidating either tag of the snapshot must change it.
	c.Invalidate(ProfileTag("u1"))
	assert.NotEqual(t, gen, c.Generation(UserTags("u1")...))
}

func TestCacheSubscribersNotifiedPerTag(t *testing.T) {
	c := newTestCache(t)

	var notified []string
	c.Subscribe(func(tag string) {
		notified = append(notified, tag)
	})

	key := ProfileKey("u1")
	c.SetIfCurrent(key, c.Generation(ProfileTag("u1")), "v", ProfileTag("u1"))

	c.Invalidate(UserTags("u1")...)

	assert.Equal(t, []string{TasksTag("u1"), ProfileTag("u1")}, notified)
}

func TestCacheEvictionKeepsTagIndexConsistent(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	for _, key := range []string{"a", "b", "c"} {
		c.SetIfCurrent(key, c.Generation("tag"), key, "tag")
	}

	// "a" was evicted by the bound; invalidation must still work.
	assert.Equal(t, 2, c.Len())
	c.Invalidate("tag")
	assert.Equal(t, 0, c.Len())
}

func TestCachePurge(t *testing.T) {
	c := newTestCache(t)

	key := TaskStatsKey("u1")
	c.SetIfCurrent(key, c.Generation(TasksTag("u1")), "v", TasksTag("u1"))
	c.Invalidate(TasksTag("u1"))
	require.NotZero(t, c.Generation(TasksTag("u1")))

	c.Purge()
	assert.Zero(t, c.Generation(TasksTag("u1")))
	assert.Equal(t, 0, c.Len())
}

func TestTaskListKeyDistinguishesFilters(t *testing.T) {
	base := TaskListKey("u1", models.TaskFilters{})
	assert.NotEqual(t, base, TaskListKey("u1", models.TaskFilters{Status: "pending"}))
	assert.NotEqual(t, base, TaskListKey("u1", models.TaskFilters{Priority: "low"}))
	assert.NotEqual(t, base, TaskListKey("u1", models.TaskFilters{Search: "x"}))
	assert.NotEqual(t, base, TaskListKey("u2", models.TaskFilters{}))
	assert.Equal(t, base, TaskListKey("u1", models.TaskFilters{}))
}
