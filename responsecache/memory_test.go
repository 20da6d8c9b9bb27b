package responsecache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	m, err := NewMemory(0)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestMemoryExpiry(t *testing.T) {
	m, err := NewMemory(4)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "short", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err = m.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, 0, m.Len(), "expired entry should be evicted on read")
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	m, err := NewMemory(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", []byte("a"), 0))
	require.NoError(t, m.Set(ctx, "b", []byte("b"), 0))
	_, err = m.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, m.Set(ctx, "c", []byte("c"), 0))

	_, err = m.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = m.Get(ctx, "a")
	assert.NoError(t, err)
}

func TestMemoryPurge(t *testing.T) {
	m, err := NewMemory(8)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", []byte("a"), 0))
	require.NoError(t, m.Purge(ctx))
	assert.Equal(t, 0, m.Len())
}

func TestKeyIsStable(t *testing.T) {
	a := Key([]byte(`{"query":"q","variables":{"first":10}}`))
	b := Key([]byte(`{"query":"q","variables":{"first":10}}`))
	c := Key([]byte(`{"query":"q","variables":{"first":20}}`))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "gql:")
}

func TestOpen(t *testing.T) {
	b, err := Open(Config{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, b)

	b, err = Open(Config{Kind: "none"})
	require.NoError(t, err)
	assert.Nil(t, b)

	_, err = Open(Config{Kind: "redis"})
	assert.Error(t, err)

	_, err = Open(Config{Kind: "memcached"})
	assert.ErrorContains(t, err, "unknown backend")
}
