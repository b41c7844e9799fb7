package bookmarks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// fakeAPI — controllable APIClient
// ---------------------------------------------------------------------------

type fakeAPI struct {
	listFunc   func(ctx context.Context) ([]string, error)
	addFunc    func(ctx context.Context, hobbyID string) error
	removeFunc func(ctx context.Context, hobbyID string) error

	listCalls   int32
	addCalls    int32
	removeCalls int32
}

func (f *fakeAPI) ListBookmarks(ctx context.Context) ([]string, error) {
	atomic.AddInt32(&f.listCalls, 1)
	if f.listFunc != nil {
		return f.listFunc(ctx)
	}
	return []string{}, nil
}

func (f *fakeAPI) AddBookmark(ctx context.Context, hobbyID string) error {
	atomic.AddInt32(&f.addCalls, 1)
	if f.addFunc != nil {
		return f.addFunc(ctx, hobbyID)
	}
	return nil
}

func (f *fakeAPI) RemoveBookmark(ctx context.Context, hobbyID string) error {
	atomic.AddInt32(&f.removeCalls, 1)
	if f.removeFunc != nil {
		return f.removeFunc(ctx, hobbyID)
	}
	return nil
}

func (f *fakeAPI) calls() int32 {
	return atomic.LoadInt32(&f.listCalls) + atomic.LoadInt32(&f.addCalls) + atomic.LoadInt32(&f.removeCalls)
}

// serverAPI is a fakeAPI backed by a real set, so list reflects mutations
// the way the service does.
type serverAPI struct {
	fakeAPI
	mu  sync.Mutex
	ids map[string]struct{}
}

func newServerAPI(initial ...string) *serverAPI {
	s := &serverAPI{ids: make(map[string]struct{})}
	for _, id := range initial {
		s.ids[id] = struct{}{}
	}
	s.listFunc = func(ctx context.Context) ([]string, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		list := make([]string, 0, len(s.ids))
		for id := range s.ids {
			list = append(list, id)
		}
		return list, nil
	}
	s.addFunc = func(ctx context.Context, hobbyID string) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.ids[hobbyID] = struct{}{}
		return nil
	}
	s.removeFunc = func(ctx context.Context, hobbyID string) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.ids, hobbyID)
		return nil
	}
	return s
}

type recordingNotifier struct {
	mu       sync.Mutex
	titles   []string
	messages []string
}

func (n *recordingNotifier) Notify(title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, title)
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.titles)
}

// ---------------------------------------------------------------------------
// session lifecycle
// ---------------------------------------------------------------------------

func TestStartSessionLoadsBookmarkSet(t *testing.T) {
	api := &fakeAPI{
		listFunc: func(ctx context.Context) ([]string, error) {
			return []string{"yoga", "chess"}, nil
		},
	}
	s := NewSyncer(api, &recordingNotifier{})

	s.StartSession(context.Background())

	assert.False(t, s.Loading())
	assert.True(t, s.IsBookmarked("yoga"))
	assert.True(t, s.IsBookmarked("chess"))
	assert.Equal(t, []string{"chess", "yoga"}, s.BookmarkedIDs())
}

func TestStartSessionFailsOpenToEmptySet(t *testing.T) {
	notifier := &recordingNotifier{}
	api := &fakeAPI{
		listFunc: func(ctx context.Context) ([]string, error) {
			return nil, errors.New("connection refused")
		},
	}
	s := NewSyncer(api, notifier)

	s.StartSession(context.Background())

	assert.False(t, s.Loading())
	assert.Empty(t, s.BookmarkedIDs())
	// Load failures are logged, not surfaced.
	assert.Equal(t, 0, notifier.count())
}

func TestEndSessionClearsState(t *testing.T) {
	api := newServerAPI("yoga")
	s := NewSyncer(api, &recordingNotifier{})
	s.StartSession(context.Background())
	require.True(t, s.IsBookmarked("yoga"))

	s.EndSession()

	assert.Empty(t, s.BookmarkedIDs())
	assert.False(t, s.IsBookmarked("yoga"))
}

// ---------------------------------------------------------------------------
// toggle
// ---------------------------------------------------------------------------

func TestToggleUnauthenticatedPromptsWithoutServerCall(t *testing.T) {
	api := &fakeAPI{}
	notifier := &recordingNotifier{}
	s := NewSyncer(api, notifier)

	s.Toggle(context.Background(), "yoga")

	assert.False(t, s.IsBookmarked("yoga"))
	assert.Equal(t, int32(0), api.calls())
	require.Equal(t, 1, notifier.count())
	assert.Equal(t, "Sign in required", notifier.titles[0])
}

func TestToggleAppliesOptimisticUpdateBeforeServerResolves(t *testing.T) {
	inAdd := make(chan struct{})
	release := make(chan struct{})
	var listCalls int32
	api := &fakeAPI{
		addFunc: func(ctx context.Context, hobbyID string) error {
			close(inAdd)
			<-release
			return nil
		},
		listFunc: func(ctx context.Context) ([]string, error) {
			if atomic.AddInt32(&listCalls, 1) == 1 {
				return []string{}, nil // initial load
			}
			return []string{"yoga"}, nil
		},
	}
	s := NewSyncer(api, &recordingNotifier{})
	s.StartSession(context.Background())

	done := make(chan struct{})
	go func() {
		s.Toggle(context.Background(), "yoga")
		close(done)
	}()

	<-inAdd
	// The mutation call has not resolved, yet the set already changed.
	assert.True(t, s.IsBookmarked("yoga"))
	assert.Equal(t, StatePending, s.State("yoga"))

	close(release)
	<-done

	assert.True(t, s.IsBookmarked("yoga"))
	assert.Equal(t, StateIdle, s.State("yoga"))
}

func TestToggleRollsBackOnAPIFailure(t *testing.T) {
	notifier := &recordingNotifier{}
	api := &fakeAPI{
		addFunc: func(ctx context.Context, hobbyID string) error {
			return &APIError{StatusCode: 500, Message: "Failed to add bookmark"}
		},
	}
	s := NewSyncer(api, notifier)
	s.StartSession(context.Background())

	s.Toggle(context.Background(), "yoga")

	assert.False(t, s.IsBookmarked("yoga"))
	assert.Equal(t, StateIdle, s.State("yoga"))
	require.Equal(t, 1, notifier.count())
	assert.Equal(t, "Bookmark update failed", notifier.titles[0])
	assert.Equal(t, "Failed to add bookmark", notifier.messages[0])
}

func TestToggleRollsBackOnNetworkFailureWithGenericMessage(t *testing.T) {
	notifier := &recordingNotifier{}
	api := &fakeAPI{
		addFunc: func(ctx context.Context, hobbyID string) error {
			return errors.New("dial tcp: connection refused")
		},
	}
	s := NewSyncer(api, notifier)
	s.StartSession(context.Background())

	s.Toggle(context.Background(), "yoga")

	assert.False(t, s.IsBookmarked("yoga"))
	require.Equal(t, 1, notifier.count())
	assert.Equal(t, "Network error", notifier.titles[0])
}

func TestToggleRemovesExistingBookmark(t *testing.T) {
	api := newServerAPI("yoga")
	s := NewSyncer(api, &recordingNotifier{})
	s.StartSession(context.Background())
	require.True(t, s.IsBookmarked("yoga"))

	s.Toggle(context.Background(), "yoga")

	assert.False(t, s.IsBookmarked("yoga"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.removeCalls))
	assert.Equal(t, int32(0), atomic.LoadInt32(&api.addCalls))
}

func TestToggleSequentialBookmarkUnbookmarkLeavesNothing(t *testing.T) {
	api := newServerAPI()
	s := NewSyncer(api, &recordingNotifier{})
	s.StartSession(context.Background())

	s.Toggle(context.Background(), "pottery")
	require.True(t, s.IsBookmarked("pottery"))

	s.Toggle(context.Background(), "pottery")

	assert.False(t, s.IsBookmarked("pottery"))
	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Empty(t, api.ids)
}

func TestToggleReconciliationPicksUpConcurrentServerChanges(t *testing.T) {
	// Another tab bookmarked "chess"; the post-toggle refresh must bring
	// it in rather than trusting the optimistic value alone.
	api := &fakeAPI{
		listFunc: func(ctx context.Context) ([]string, error) {
			return []string{"yoga", "chess"}, nil
		},
	}
	s := NewSyncer(api, &recordingNotifier{})
	s.StartSession(context.Background())
	// Initial load already returned chess; reset to make the assertion
	// about the toggle's reconciliation, not the initial fetch.
	s.EndSession()
	s.mu.Lock()
	s.authenticated = true
	s.mu.Unlock()

	s.Toggle(context.Background(), "yoga")

	assert.True(t, s.IsBookmarked("yoga"))
	assert.True(t, s.IsBookmarked("chess"))
}

// ---------------------------------------------------------------------------
// racing toggles
// ---------------------------------------------------------------------------

func TestStaleReconciliationDoesNotOverwriteNewerOne(t *testing.T) {
	firstListEntered := make(chan struct{})
	releaseFirstList := make(chan struct{})
	var listCalls int32
	api := &fakeAPI{
		listFunc: func(ctx context.Context) ([]string, error) {
			if atomic.AddInt32(&listCalls, 1) == 1 {
				close(firstListEntered)
				<-releaseFirstList
				// Stale snapshot: taken before "pottery" was added.
				return []string{"yoga"}, nil
			}
			return []string{"yoga", "pottery"}, nil
		},
	}
	s := NewSyncer(api, &recordingNotifier{})
	s.mu.Lock()
	s.authenticated = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.Toggle(context.Background(), "yoga")
		close(done)
	}()
	<-firstListEntered

	// Second toggle completes fully while the first reconciliation fetch
	// is still in flight.
	s.Toggle(context.Background(), "pottery")
	require.True(t, s.IsBookmarked("pottery"))

	close(releaseFirstList)
	<-done

	// The older fetch result must not clobber the newer reconciliation.
	assert.True(t, s.IsBookmarked("pottery"))
	assert.True(t, s.IsBookmarked("yoga"))
}

func TestRollbackIsScopedToTheFailedKey(t *testing.T) {
	inYogaAdd := make(chan struct{})
	releaseYogaAdd := make(chan struct{})
	api := &fakeAPI{
		addFunc: func(ctx context.Context, hobbyID string) error {
			if hobbyID == "yoga" {
				close(inYogaAdd)
				<-releaseYogaAdd
				return &APIError{StatusCode: 500, Message: "Failed to add bookmark"}
			}
			return nil
		},
		listFunc: func(ctx context.Context) ([]string, error) {
			return []string{"pottery"}, nil
		},
	}
	notifier := &recordingNotifier{}
	s := NewSyncer(api, notifier)
	s.mu.Lock()
	s.authenticated = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.Toggle(context.Background(), "yoga")
		close(done)
	}()
	<-inYogaAdd

	// An unrelated toggle succeeds while yoga's mutation is in flight.
	s.Toggle(context.Background(), "pottery")
	require.True(t, s.IsBookmarked("pottery"))
	// The in-flight optimistic yoga value survives pottery's reconciliation.
	require.True(t, s.IsBookmarked("yoga"))

	close(releaseYogaAdd)
	<-done

	// Only yoga rolls back; the snapshot-style whole-set rollback would
	// have dropped pottery too.
	assert.False(t, s.IsBookmarked("yoga"))
	assert.True(t, s.IsBookmarked("pottery"))
	assert.Equal(t, 1, notifier.count())
}

func TestInFlightToggleAcrossSignOutDoesNotTouchNewSession(t *testing.T) {
	inAdd := make(chan struct{})
	releaseAdd := make(chan struct{})
	var listCalls int32
	api := &fakeAPI{
		addFunc: func(ctx context.Context, hobbyID string) error {
			close(inAdd)
			<-releaseAdd
			return nil
		},
		listFunc: func(ctx context.Context) ([]string, error) {
			switch atomic.AddInt32(&listCalls, 1) {
			case 1:
				return []string{}, nil // first account's initial load
			case 2:
				return []string{"chess"}, nil // second account's initial load
			default:
				// Reconciliation fetch of the first account's toggle,
				// resolving only after that account signed out.
				return []string{"yoga"}, nil
			}
		},
	}
	s := NewSyncer(api, &recordingNotifier{})
	s.StartSession(context.Background())

	done := make(chan struct{})
	go func() {
		s.Toggle(context.Background(), "yoga")
		close(done)
	}()
	<-inAdd

	// Sign out and back in as another account while the toggle is pending.
	s.EndSession()
	s.StartSession(context.Background())
	require.Equal(t, []string{"chess"}, s.BookmarkedIDs())

	close(releaseAdd)
	<-done

	// The old toggle's reconciliation must not replace the new account's
	// set, and its hobby must not leak across the session boundary.
	assert.Equal(t, []string{"chess"}, s.BookmarkedIDs())
	assert.False(t, s.IsBookmarked("yoga"))
	assert.Equal(t, StateIdle, s.State("yoga"))
}

func TestFailedToggleAcrossSignOutDoesNotRollBackNewSession(t *testing.T) {
	inAdd := make(chan struct{})
	releaseAdd := make(chan struct{})
	var listCalls int32
	api := &fakeAPI{
		addFunc: func(ctx context.Context, hobbyID string) error {
			close(inAdd)
			<-releaseAdd
			return errors.New("timeout")
		},
		listFunc: func(ctx context.Context) ([]string, error) {
			if atomic.AddInt32(&listCalls, 1) == 1 {
				return []string{}, nil
			}
			// The second account already has the hobby the first account's
			// failed toggle would roll back.
			return []string{"yoga"}, nil
		},
	}
	s := NewSyncer(api, &recordingNotifier{})
	s.StartSession(context.Background())

	done := make(chan struct{})
	go func() {
		s.Toggle(context.Background(), "yoga")
		close(done)
	}()
	<-inAdd

	s.EndSession()
	s.StartSession(context.Background())
	require.True(t, s.IsBookmarked("yoga"))

	close(releaseAdd)
	<-done

	// The rollback belongs to the previous session; yoga stays.
	assert.True(t, s.IsBookmarked("yoga"))
}

func TestFailedRollbackSkippedWhenNewerToggleIssued(t *testing.T) {
	inFirstAdd := make(chan struct{})
	releaseFirstAdd := make(chan struct{})
	var addCalls int32
	api := &fakeAPI{
		addFunc: func(ctx context.Context, hobbyID string) error {
			if atomic.AddInt32(&addCalls, 1) == 1 {
				close(inFirstAdd)
				<-releaseFirstAdd
				return errors.New("timeout")
			}
			return nil
		},
		removeFunc: func(ctx context.Context, hobbyID string) error {
			return nil
		},
		listFunc: func(ctx context.Context) ([]string, error) {
			return []string{}, nil
		},
	}
	s := NewSyncer(api, &recordingNotifier{})
	s.mu.Lock()
	s.authenticated = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.Toggle(context.Background(), "yoga")
		close(done)
	}()
	<-inFirstAdd

	// User toggles yoga again (off) while the first add is still pending.
	// The second toggle resolves: yoga removed, reconciled to empty.
	s.Toggle(context.Background(), "yoga")
	require.False(t, s.IsBookmarked("yoga"))

	close(releaseFirstAdd)
	<-done

	// The first toggle's failure must not resurrect its own rollback value
	// over the newer toggle's outcome.
	assert.False(t, s.IsBookmarked("yoga"))
}
