package bookmarks

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
)

// ToggleState tags the synchronization state of a single hobby key
type ToggleState int

const (
	// StateIdle means no toggle for the key is in flight
	StateIdle ToggleState = iota
	// StatePending means the optimistic value is applied and the mutation
	// call has not resolved yet
	StatePending
	// StateReconciling means the mutation succeeded and the authoritative
	// re-fetch is in flight
	StateReconciling
)

// Notifier receives user-facing messages (the toast analog)
type Notifier interface {
	Notify(title, message string)
}

// LogNotifier writes notifications to the standard logger
type LogNotifier struct{}

func (LogNotifier) Notify(title, message string) {
	log.Printf("%s: %s", title, message)
}

type keyState struct {
	state   ToggleState
	lastSeq uint64 // newest toggle issued for this key
}

// Syncer keeps the client-side bookmark set in sync with the service. Every
// toggle applies its change optimistically before the network call; on
// failure the rollback touches only the affected key, and on success an
// authoritative list fetch replaces the set. Reconciliations are ordered by
// toggle sequence: a stale fetch result can never overwrite a newer one, and
// keys with a newer toggle still in flight keep their optimistic value.
// Work started under a previous session can never touch the current one; the
// epoch ties every in-flight call to the session that issued it.
type Syncer struct {
	mu       sync.Mutex
	api      APIClient
	notifier Notifier

	authenticated bool
	loading       bool
	ids           map[string]struct{}
	keys          map[string]*keyState
	epoch         uint64 // bumped on every session transition
	seq           uint64 // global toggle sequence, tags reconciliations
	lastReconcile uint64 // sequence of the newest applied reconciliation
}

// NewSyncer creates a Syncer in the unauthenticated state
func NewSyncer(api APIClient, notifier Notifier) *Syncer {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Syncer{
		api:      api,
		notifier: notifier,
		ids:      make(map[string]struct{}),
		keys:     make(map[string]*keyState),
	}
}

// StartSession enters the authenticated state and loads the bookmark set.
// A failed load is logged and leaves the set empty; it is not surfaced.
func (s *Syncer) StartSession(ctx context.Context) {
	s.mu.Lock()
	s.epoch++
	myEpoch := s.epoch
	s.authenticated = true
	s.loading = true
	s.ids = make(map[string]struct{})
	s.keys = make(map[string]*keyState)
	s.seq = 0
	s.lastReconcile = 0
	s.mu.Unlock()

	list, err := s.api.ListBookmarks(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != myEpoch {
		return // session changed while the fetch was in flight
	}
	s.loading = false
	if err != nil {
		log.Printf("Failed to fetch bookmarks, starting empty: %v", err)
		return
	}
	s.applyAuthoritative(list, 0)
}

// EndSession clears all state and returns to the unauthenticated state
func (s *Syncer) EndSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.authenticated = false
	s.loading = false
	s.ids = make(map[string]struct{})
	s.keys = make(map[string]*keyState)
	s.seq = 0
	s.lastReconcile = 0
}

// IsBookmarked reports membership of the hobby in the current set
func (s *Syncer) IsBookmarked(hobbyID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[hobbyID]
	return ok
}

// BookmarkedIDs returns a sorted copy of the current set
func (s *Syncer) BookmarkedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Loading reports whether the initial fetch is still in flight
func (s *Syncer) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// State returns the toggle state of a single hobby key
func (s *Syncer) State(hobbyID string) ToggleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ks, ok := s.keys[hobbyID]; ok {
		return ks.state
	}
	return StateIdle
}

// Toggle flips the bookmark for the hobby: optimistic update first, then the
// service call, then reconciliation against a fresh list. Blocks until the
// exchange resolves; safe to call from concurrent goroutines.
func (s *Syncer) Toggle(ctx context.Context, hobbyID string) {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		s.notifier.Notify("Sign in required", "Bookmarking is available after you sign in.")
		return
	}

	myEpoch := s.epoch
	s.seq++
	mySeq := s.seq
	ks := s.key(hobbyID)
	ks.lastSeq = mySeq
	ks.state = StatePending

	_, wasBookmarked := s.ids[hobbyID]
	if wasBookmarked {
		delete(s.ids, hobbyID)
	} else {
		s.ids[hobbyID] = struct{}{}
	}
	s.mu.Unlock()

	var err error
	if wasBookmarked {
		err = s.api.RemoveBookmark(ctx, hobbyID)
	} else {
		err = s.api.AddBookmark(ctx, hobbyID)
	}

	if err != nil {
		s.mu.Lock()
		// Roll back this key only, only within the session that issued the
		// toggle, and only if no newer toggle for it has been issued since.
		if s.epoch == myEpoch && ks.lastSeq == mySeq {
			ks.state = StateIdle
			if wasBookmarked {
				s.ids[hobbyID] = struct{}{}
			} else {
				delete(s.ids, hobbyID)
			}
		}
		s.mu.Unlock()
		s.notifyFailure(err)
		return
	}

	s.mu.Lock()
	if s.epoch == myEpoch && ks.lastSeq == mySeq {
		ks.state = StateReconciling
	}
	s.mu.Unlock()

	list, listErr := s.api.ListBookmarks(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != myEpoch {
		return // the session this toggle belonged to is gone
	}
	if ks.lastSeq == mySeq {
		ks.state = StateIdle
	}
	if listErr != nil {
		// The optimistic value stands; the mutation itself succeeded.
		return
	}
	s.applyAuthoritative(list, mySeq)
}

// key returns the state record for a hobby, creating it if needed. Caller
// must hold the lock.
func (s *Syncer) key(hobbyID string) *keyState {
	ks, ok := s.keys[hobbyID]
	if !ok {
		ks = &keyState{}
		s.keys[hobbyID] = ks
	}
	return ks
}

// applyAuthoritative replaces the set with a server result tagged by the
// toggle sequence that produced it. Caller must hold the lock. Results older
// than one already applied are dropped, and keys with an unresolved toggle
// keep their optimistic value until their own reconciliation settles them.
func (s *Syncer) applyAuthoritative(list []string, tag uint64) {
	if tag < s.lastReconcile {
		return
	}
	s.lastReconcile = tag

	next := make(map[string]struct{}, len(list))
	for _, id := range list {
		next[id] = struct{}{}
	}
	for id, ks := range s.keys {
		if ks.state != StateIdle {
			if _, ok := s.ids[id]; ok {
				next[id] = struct{}{}
			} else {
				delete(next, id)
			}
		}
	}
	s.ids = next
}

// notifyFailure surfaces a toggle failure with the server's reason when one
// is available
func (s *Syncer) notifyFailure(err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		s.notifier.Notify("Bookmark update failed", apiErr.Message)
		return
	}
	s.notifier.Notify("Network error", "Please try again in a moment.")
}
