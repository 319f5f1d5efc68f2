package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/backoffice-ui/internal/listing"
	"github.com/target/backoffice-ui/internal/testutil"
)

func TestKeyspace(t *testing.T) {
	k := keyspace{prefix: "bo:"}
	key := listing.Key{SessionID: "abc", Resource: "suppliers"}
	assert.Equal(t, "bo:liststate:{abc}:suppliers", k.snapshot(key))
	assert.Equal(t, "bo:listseq:{abc}:suppliers", k.sequence(key))
	assert.Equal(t, "bo:listkeys:{abc}", k.index("abc"))
}

func TestListStateStore_SaveIfNewer(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	store := NewListStateStore(client, ListStateOptions{TTL: time.Minute})
	ctx := context.Background()
	key := listing.Key{SessionID: "s1", Resource: "suppliers"}

	_, err := store.Load(ctx, key)
	require.ErrorIs(t, err, listing.ErrNoSnapshot)

	saved, err := store.SaveIfNewer(ctx, key, 5, []byte(`{"seq":5}`))
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = store.SaveIfNewer(ctx, key, 4, []byte(`{"seq":4}`))
	require.NoError(t, err)
	assert.False(t, saved)

	saved, err = store.SaveIfNewer(ctx, key, 5, []byte(`{"seq":5,"page":2}`))
	require.NoError(t, err)
	assert.True(t, saved)

	data, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"seq":5,"page":2}`, string(data))
	assert.LessOrEqual(t, client.PTTL(ctx, store.keys.snapshot(key)).Val(), time.Minute)
}

func TestListStateStore_DeleteSession(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	opts := ListStateOptions{Prefix: "test:"}
	store := NewListStateStore(client, opts)
	seq := NewSequencer(client, opts)
	ctx := context.Background()

	for _, res := range []string{"suppliers", "customers"} {
		key := listing.Key{SessionID: "s1", Resource: res}
		n, err := seq.Next(ctx, key)
		require.NoError(t, err)
		_, err = store.SaveIfNewer(ctx, key, n, []byte("{}"))
		require.NoError(t, err)
	}
	other := listing.Key{SessionID: "s2", Resource: "suppliers"}
	_, err := store.SaveIfNewer(ctx, other, 1, []byte("{}"))
	require.NoError(t, err)

	require.NoError(t, store.DeleteSession(ctx, "s1"))

	_, err = store.Load(ctx, listing.Key{SessionID: "s1", Resource: "suppliers"})
	assert.ErrorIs(t, err, listing.ErrNoSnapshot)
	latest, err := seq.Latest(ctx, listing.Key{SessionID: "s1", Resource: "customers"})
	require.NoError(t, err)
	assert.Zero(t, latest)

	_, err = store.Load(ctx, other)
	assert.NoError(t, err)
}

func TestSequencer_Monotonic(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	seq := NewSequencer(client, ListStateOptions{})
	ctx := context.Background()
	key := listing.Key{SessionID: "s1", Resource: "tax-rates"}

	latest, err := seq.Latest(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, latest)

	var last uint64
	for i := 0; i < 5; i++ {
		n, err := seq.Next(ctx, key)
		require.NoError(t, err)
		assert.Greater(t, n, last)
		last = n
	}
	latest, err = seq.Latest(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, last, latest)
}

func TestListStateStore_WithController(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	opts := ListStateOptions{}
	ctrl, err := listing.NewController(listing.ControllerOptions[string]{
		Resource:     "cost-centers",
		Fetch:        func(context.Context) ([]string, error) { return []string{"a", "b", "c"}, nil },
		Store:        NewListStateStore(client, opts),
		Sequencer:    NewSequencer(client, opts),
		DefaultLimit: 2,
	})
	require.NoError(t, err)

	ctx := context.Background()
	view, err := ctrl.ChangePage(ctx, "s1", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, view.Items)

	view, err = ctrl.Mount(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Info.Page)
}
