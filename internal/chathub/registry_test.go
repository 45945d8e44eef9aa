package chathub_test

import (
	"fmt"
	"sync"
	"testing"

	"eventchat/backend/internal/chathub"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := chathub.NewRegistry()
	a := newMockClient("user_A")

	replaced := r.Register(a)
	assert.Nil(t, replaced)
	assert.True(t, r.IsOnline("user_A"))
	assert.False(t, r.IsOnline("user_B"))

	got, ok := r.Get("user_A")
	assert.True(t, ok)
	assert.Same(t, a, got)
}

func TestRegistry_LastConnectWins(t *testing.T) {
	r := chathub.NewRegistry()
	old := newMockClient("user_A")
	fresh := newMockClient("user_A")

	r.Register(old)
	replaced := r.Register(fresh)

	assert.Same(t, old, replaced)
	got, _ := r.Get("user_A")
	assert.Same(t, fresh, got)
}

func TestRegistry_StaleUnregisterIsIgnored(t *testing.T) {
	r := chathub.NewRegistry()
	old := newMockClient("user_A")
	fresh := newMockClient("user_A")

	r.Register(old)
	r.Register(fresh)

	// The stale handle's disconnect must not evict the newer session.
	assert.False(t, r.Unregister(old))
	assert.True(t, r.IsOnline("user_A"))

	assert.True(t, r.Unregister(fresh))
	assert.False(t, r.IsOnline("user_A"))
}

func TestRegistry_SnapshotAndCount(t *testing.T) {
	r := chathub.NewRegistry()
	for _, id := range []string{"a", "b", "c"} {
		r.Register(newMockClient(id))
	}
	assert.Equal(t, 3, r.Count())
	assert.Len(t, r.Snapshot(), 3)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, r.OnlineUsers())
}

func TestRegistry_ConcurrentChurn(t *testing.T) {
	r := chathub.NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("user_%d", i%8)
			c := newMockClient(id)
			r.Register(c)
			r.IsOnline(id)
			r.Unregister(c)
		}(i)
	}
	wg.Wait()

	// No lost updates and no panics: every remaining entry is consistent.
	assert.LessOrEqual(t, r.Count(), 8)
}
