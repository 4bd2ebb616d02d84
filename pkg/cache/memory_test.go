package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func newTestMemory(ttl time.Duration) (*Memory, *clock) {
	c := &clock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory(ttl)
	m.now = c.Now

	return m, c
}

func TestKey(t *testing.T) {
	t.Parallel()

	type payload struct {
		Nodes []string `json:"nodes"`
	}

	a, err := Key("wf-1", "validate", payload{Nodes: []string{"A", "B"}})
	require.NoError(t, err)

	same, err := Key("wf-1", "validate", payload{Nodes: []string{"A", "B"}})
	require.NoError(t, err)
	assert.Equal(t, a, same)

	changed, err := Key("wf-1", "validate", payload{Nodes: []string{"A"}})
	require.NoError(t, err)
	assert.NotEqual(t, a, changed)

	plan, err := Key("wf-1", "plan", payload{Nodes: []string{"A", "B"}})
	require.NoError(t, err)
	assert.NotEqual(t, a, plan)

	assert.Equal(t, "wf-1", WorkflowOf(a))

	scoped, err := Key("board:7", "plan", nil)
	require.NoError(t, err)
	assert.Equal(t, "board:7", WorkflowOf(scoped))

	_, err = Key("wf-1", "validate", make(chan int))
	assert.Error(t, err)
}

func TestMemory_GetSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newTestMemory(time.Minute)

	_, ok, err := m.Get(ctx, "wf:validate:abc")
	require.NoError(t, err)
	assert.False(t, ok)

	value := []byte(`{"valid":true}`)
	require.NoError(t, m.Set(ctx, "wf:validate:abc", value))

	value[0] = 'X'

	got, ok, err := m.Get(ctx, "wf:validate:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"valid":true}`, string(got))
}

func TestMemory_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, c := newTestMemory(time.Minute)

	require.NoError(t, m.Set(ctx, "wf:validate:a", []byte("a")))
	c.Advance(30 * time.Second)
	require.NoError(t, m.Set(ctx, "wf:validate:b", []byte("b")))
	c.Advance(45 * time.Second)

	_, ok, err := m.Get(ctx, "wf:validate:a")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = m.Get(ctx, "wf:validate:b")
	require.NoError(t, err)
	assert.True(t, ok)

	c.Advance(time.Minute)

	removed, err := m.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, m.Len())
}

func TestMemory_ZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, c := newTestMemory(0)

	require.NoError(t, m.Set(ctx, "wf:plan:a", []byte("a")))
	c.Advance(24 * time.Hour)

	removed, err := m.Purge(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	_, ok, err := m.Get(ctx, "wf:plan:a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemory_Invalidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, _ := newTestMemory(time.Minute)

	keys := map[string]string{}
	for _, wf := range []string{"wf", "wf:child", "wf2"} {
		key, err := Key(wf, "validate", wf)
		require.NoError(t, err)
		require.NoError(t, m.Set(ctx, key, []byte(wf)))

		keys[wf] = key
	}

	require.NoError(t, m.Invalidate(ctx, "wf"))

	_, ok, _ := m.Get(ctx, keys["wf"])
	assert.False(t, ok)

	_, ok, _ = m.Get(ctx, keys["wf:child"])
	assert.True(t, ok)

	_, ok, _ = m.Get(ctx, keys["wf2"])
	assert.True(t, ok)
}

func TestMemory_Concurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory(time.Minute)

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			key, _ := Key("wf", "validate", i)
			_ = m.Set(ctx, key, []byte("v"))
			_, _, _ = m.Get(ctx, key)
			_, _ = m.Purge(ctx)
		}()
	}

	wg.Wait()
	require.NoError(t, m.Invalidate(ctx, "wf"))
	assert.Zero(t, m.Len())
}
