package state

import (
	"sync"
	"time"

	"github.com/yotip/homestead/internal/profile"
)

// Snapshot is the engine state the UI renders.
type Snapshot struct {
	UserID        string
	Profile       profile.Profile
	DataLoaded    bool
	NeedsUsername bool
	IsSaving      bool
	SaveFailed    bool
	Notice        string
	NoticeAt      time.Time
	LastUpdated   time.Time
}

// HasNotice reports whether the notice is younger than ttl.
func (s Snapshot) HasNotice(now time.Time, ttl time.Duration) bool {
	return s.Notice != "" && now.Sub(s.NoticeAt) < ttl
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	subs     map[int]chan struct{}
	nextSub  int
}

// Update applies fn to the stored snapshot and wakes subscribers.
func (s *Store) Update(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.snapshot)
	s.snapshot.LastUpdated = time.Now()
	s.notifyLocked()
}

// Notify records a user-facing notice.
func (s *Store) Notify(msg string) {
	s.Update(func(snap *Snapshot) {
		snap.Notice = msg
		snap.NoticeAt = time.Now()
	})
}

// Reset replaces the snapshot with an empty one for userID.
func (s *Store) Reset(userID string) {
	s.Update(func(snap *Snapshot) {
		*snap = Snapshot{UserID: userID}
	})
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Profile = s.snapshot.Profile.Clone()
	return snap
}

// Subscribe returns a channel that receives a value after every update.
// Notifications coalesce: a slow reader sees one pending signal, not a
// backlog. The returned func unsubscribes and closes the channel.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs == nil {
		s.subs = make(map[int]chan struct{})
	}
	id := s.nextSub
	s.nextSub++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// notifyLocked sends without blocking; callers hold s.mu.
func (s *Store) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
