package listing_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	apperrors "github.com/target/backoffice-ui/internal/errors"
	"github.com/target/backoffice-ui/internal/listing"
	"github.com/target/backoffice-ui/internal/mocks"
	"github.com/target/backoffice-ui/internal/pagination"
)

const sess = "sess-1"

func numbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

type countingFetcher struct {
	calls atomic.Int32
	items []int
	err   error
}

func (f *countingFetcher) Fetch(context.Context) ([]int, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type recordingObserver struct {
	outcomes []string
}

func (o *recordingObserver) ObserveFetch(_ string, outcome string, _ time.Duration) {
	o.outcomes = append(o.outcomes, outcome)
}

func newController(t *testing.T, fetch listing.Fetcher[int], store listing.StateStore, opts ...func(*listing.ControllerOptions[int])) *listing.Controller[int] {
	t.Helper()
	o := listing.ControllerOptions[int]{
		Resource:  "suppliers",
		Title:     "Suppliers",
		Fetch:     fetch,
		Store:     store,
		Sequencer: listing.NewMemorySequencer(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	c, err := listing.NewController(o)
	require.NoError(t, err)
	return c
}

func TestNewController_Validation(t *testing.T) {
	_, err := listing.NewController(listing.ControllerOptions[int]{Resource: "suppliers"})
	require.Error(t, err)

	_, err = listing.NewController(listing.ControllerOptions[int]{
		Resource: "suppliers",
		Fetch:    func(context.Context) ([]int, error) { return nil, nil },
	})
	require.Error(t, err, "store is required")
}

func TestController_MountFetchesOnceThenRestores(t *testing.T) {
	f := &countingFetcher{items: numbers(25)}
	c := newController(t, f.Fetch, listing.NewMemoryStore())
	ctx := context.Background()

	view, err := c.Mount(ctx, sess)
	require.NoError(t, err)
	assert.True(t, view.Loaded)
	assert.Equal(t, numbers(10), view.Items)
	assert.Equal(t, pagination.Info{Page: 1, Limit: 10, TotalCount: 25, TotalPages: 3, HasNextPage: true}, view.Info)

	_, err = c.ChangePage(ctx, sess, 3)
	require.NoError(t, err)

	view, err = c.Mount(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.calls.Load(), "second mount must not refetch")
	assert.Equal(t, 3, view.Info.Page)
	assert.Equal(t, []int{20, 21, 22, 23, 24}, view.Items)
}

func TestController_SessionsAreIndependent(t *testing.T) {
	f := &countingFetcher{items: numbers(25)}
	c := newController(t, f.Fetch, listing.NewMemoryStore())
	ctx := context.Background()

	_, err := c.ChangePage(ctx, "a", 2)
	require.NoError(t, err)

	view, err := c.Mount(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Info.Page)
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestController_PagingDoesNotFetch(t *testing.T) {
	f := &countingFetcher{items: numbers(25)}
	c := newController(t, f.Fetch, listing.NewMemoryStore())
	ctx := context.Background()

	_, err := c.Mount(ctx, sess)
	require.NoError(t, err)

	view, err := c.ChangePage(ctx, sess, 3)
	require.NoError(t, err)
	assert.Len(t, view.Items, 5)
	assert.False(t, view.Info.HasNextPage)
	assert.True(t, view.Info.HasPreviousPage)

	view, err = c.ChangeLimit(ctx, sess, 25)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Info.Page)
	assert.Len(t, view.Items, 25)
	assert.Equal(t, 1, view.Info.TotalPages)

	assert.Equal(t, int32(1), f.calls.Load())
}

func TestController_RefetchResetsPageKeepsLimit(t *testing.T) {
	f := &countingFetcher{items: numbers(40)}
	c := newController(t, f.Fetch, listing.NewMemoryStore())
	ctx := context.Background()

	_, err := c.ChangeLimit(ctx, sess, 5)
	require.NoError(t, err)
	_, err = c.ChangePage(ctx, sess, 4)
	require.NoError(t, err)

	f.items = numbers(12)
	view, err := c.Refetch(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Info.Page)
	assert.Equal(t, 5, view.Info.Limit)
	assert.Equal(t, 12, view.Info.TotalCount)
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestController_EmptyCollection(t *testing.T) {
	f := &countingFetcher{items: []int{}}
	c := newController(t, f.Fetch, listing.NewMemoryStore())

	view, err := c.Mount(context.Background(), sess)
	require.NoError(t, err)
	assert.True(t, view.Loaded)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0, view.Info.TotalPages)
	assert.False(t, view.Info.HasNextPage)
	assert.False(t, view.Info.HasPreviousPage)
}

func TestController_FailureKeepsHeldView(t *testing.T) {
	f := &countingFetcher{items: numbers(25)}
	obs := &recordingObserver{}
	c := newController(t, f.Fetch, listing.NewMemoryStore(), func(o *listing.ControllerOptions[int]) {
		o.Observer = obs
	})
	ctx := context.Background()

	_, err := c.ChangePage(ctx, sess, 2)
	require.NoError(t, err)

	f.err = apperrors.MapStatus(http.StatusInternalServerError, "Ledger service is down", errors.New("status 500"))
	view, err := c.Refetch(ctx, sess)

	var fe *listing.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Ledger service is down", fe.Notice)
	assert.Equal(t, "suppliers", fe.Resource)
	assert.True(t, view.Loaded)
	assert.Equal(t, 2, view.Info.Page, "held page survives a failed refetch")
	assert.Equal(t, numbers(20)[10:], view.Items)
	assert.Equal(t, []string{listing.OutcomeOK, listing.OutcomeError}, obs.outcomes)
}

func TestController_FailureWithoutMessageUsesTitle(t *testing.T) {
	f := &countingFetcher{err: errors.New("boom")}
	c := newController(t, f.Fetch, listing.NewMemoryStore())

	view, err := c.Mount(context.Background(), sess)
	var fe *listing.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Unable to load suppliers.", fe.Notice)
	assert.False(t, view.Loaded)
	assert.Equal(t, pagination.Default(), view.Info)
}

func TestController_UnauthorizedInvalidatesSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := listing.NewMemoryStore()
	ctx := context.Background()

	// Another list already holds state for the session.
	_, err := store.SaveIfNewer(ctx, listing.Key{SessionID: sess, Resource: "customers"}, 1, []byte(`{"items":[1]}`))
	require.NoError(t, err)

	sessions := mocks.NewMockSessionInvalidator(ctrl)
	sessions.EXPECT().Invalidate(gomock.Any(), sess).DoAndReturn(func(ctx context.Context, id string) error {
		return store.DeleteSession(ctx, id)
	})

	f := &countingFetcher{err: apperrors.MapStatus(http.StatusUnauthorized, "", errors.New("status 401"))}
	c := newController(t, f.Fetch, store, func(o *listing.ControllerOptions[int]) {
		o.Sessions = sessions
	})

	view, err := c.Mount(ctx, sess)
	require.ErrorIs(t, err, listing.ErrSignInRequired)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.False(t, view.Loaded)
	assert.Equal(t, 0, store.Len(sess), "all list state for the session is dropped")
}

func TestController_UnauthorizedWithoutInvalidatorDropsState(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStateStore(ctrl)
	store.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, listing.ErrNoSnapshot).AnyTimes()
	store.EXPECT().DeleteSession(gomock.Any(), sess).Return(nil)

	f := &countingFetcher{err: apperrors.Unauthorized("expired")}
	c := newController(t, f.Fetch, store)

	_, err := c.Refetch(context.Background(), sess)
	require.ErrorIs(t, err, listing.ErrSignInRequired)
}

func TestController_StaleResponseDiscarded(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(context.Context) ([]int, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return []int{1, 1, 1}, nil
		}
		return []int{2, 2}, nil
	}
	obs := &recordingObserver{}
	c := newController(t, fetch, listing.NewMemoryStore(), func(o *listing.ControllerOptions[int]) {
		o.Observer = obs
	})
	ctx := context.Background()

	type result struct {
		view listing.View[int]
		err  error
	}
	older := make(chan result, 1)
	go func() {
		v, err := c.Refetch(ctx, sess)
		older <- result{v, err}
	}()

	<-started
	assert.Equal(t, listing.StateLoading, c.State(sess))

	newer, err := c.Refetch(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, newer.Items)

	close(release)
	res := <-older
	require.ErrorIs(t, res.err, listing.ErrStaleResponse)
	assert.Equal(t, []int{2, 2}, res.view.Items, "older response returns the newer held view")

	view, err := c.Mount(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, view.Items)
	assert.Equal(t, listing.StateIdle, c.State(sess))
	assert.Equal(t, []string{listing.OutcomeOK, listing.OutcomeStale}, obs.outcomes)
}

func TestController_StaleWhenStoreRejectsOlderSequence(t *testing.T) {
	ctrl := gomock.NewController(t)
	seq := mocks.NewMockSequencer(ctrl)
	seq.EXPECT().Next(gomock.Any(), gomock.Any()).Return(uint64(3), nil)
	seq.EXPECT().Latest(gomock.Any(), gomock.Any()).Return(uint64(3), nil)

	store := listing.NewMemoryStore()
	ctx := context.Background()
	held := `{"items":[9],"page":1,"limit":10,"seq":4}`
	_, err := store.SaveIfNewer(ctx, listing.Key{SessionID: sess, Resource: "suppliers"}, 4, []byte(held))
	require.NoError(t, err)

	f := &countingFetcher{items: numbers(3)}
	c := newController(t, f.Fetch, store, func(o *listing.ControllerOptions[int]) {
		o.Sequencer = seq
	})

	view, err := c.Refetch(ctx, sess)
	require.ErrorIs(t, err, listing.ErrStaleResponse)
	assert.Equal(t, []int{9}, view.Items)
}

func TestController_Navigate(t *testing.T) {
	f := &countingFetcher{items: numbers(25)}
	c := newController(t, f.Fetch, listing.NewMemoryStore())
	ctx := context.Background()

	view, err := c.Navigate(ctx, sess, listing.Navigation{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, view.Info.Page)
	assert.Equal(t, numbers(20)[10:], view.Items)

	view, err = c.Navigate(ctx, sess, listing.Navigation{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Info.Page)
	assert.Len(t, view.Items, 20)

	view, err = c.Navigate(ctx, sess, listing.Navigation{Page: 2, Refresh: true})
	require.NoError(t, err)
	assert.Equal(t, 2, view.Info.Page)
	assert.Equal(t, 20, view.Info.Limit)
	assert.Len(t, view.Items, 5)
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestController_ChangePageBeforeMountFetches(t *testing.T) {
	f := &countingFetcher{items: numbers(25)}
	c := newController(t, f.Fetch, listing.NewMemoryStore())

	view, err := c.ChangePage(context.Background(), sess, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Info.Page)
	assert.Len(t, view.Items, 5)
	assert.Equal(t, int32(1), f.calls.Load())
}
