package usage

import "sync"

// Serializer hands out one lock per user so that an admission check and the
// matching ledger append can run without interleaving for the same user.
type Serializer struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewSerializer constructs a Serializer.
func NewSerializer() *Serializer {
	return &Serializer{locks: make(map[string]*userLock)}
}

// Lock blocks until the user's lock is held and returns its release func.
// Locks are dropped once no caller holds or waits on them.
func (s *Serializer) Lock(userID string) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, userID)
		}
		s.mu.Unlock()
	}
}

func (s *Serializer) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}
