// Package session owns the single live editing State. Every edit runs as one
// transaction under a write lock; readers take snapshots under the read lock
// and subscribers receive the snapshot produced by each transaction.
package session

import (
	"sync"

	"github.com/goliatone/go-formcraft/pkg/model"
)

const defaultBuffer = 16

// Event is published after every transaction.
type Event struct {
	// Seq increases by one per transaction, starting at 1.
	Seq uint64 `json:"seq"`
	// Action names the transaction for subscribers that log or filter.
	Action string      `json:"action"`
	State  model.State `json:"state"`
}

// Option customises a Session.
type Option func(*Session)

// WithReducer supplies the reducer used by transactions.
func WithReducer(r *model.Reducer) Option {
	return func(s *Session) {
		if r != nil {
			s.reducer = r
		}
	}
}

// WithState seeds the session with an existing state.
func WithState(state model.State) Option {
	return func(s *Session) {
		s.state = state.Clone()
		s.seeded = true
	}
}

// WithBuffer sets the per-subscriber channel capacity.
func WithBuffer(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.buffer = n
		}
	}
}

// Session guards the live State.
type Session struct {
	mu      sync.RWMutex
	state   model.State
	seq     uint64
	reducer *model.Reducer
	seeded  bool

	subMu  sync.Mutex
	subs   map[uint64]chan Event
	nextID uint64
	buffer int
	closed bool
}

// New constructs a session holding a fresh state unless WithState is given.
func New(options ...Option) *Session {
	s := &Session{
		buffer: defaultBuffer,
		subs:   make(map[uint64]chan Event),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.reducer == nil {
		s.reducer = model.NewReducer()
	}
	if !s.seeded {
		s.state = s.reducer.NewState()
	}
	return s
}

// Reducer returns the reducer transactions should use.
func (s *Session) Reducer() *model.Reducer {
	return s.reducer
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() model.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Seq reports the number of committed transactions.
func (s *Session) Seq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq
}

// Apply runs fn as one transaction and returns the committed state. fn must
// not call back into the session.
func (s *Session) Apply(action string, fn func(r *model.Reducer, state model.State) model.State) model.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = fn(s.reducer, s.state)
	s.seq++
	s.publish(Event{Seq: s.seq, Action: action, State: s.state.Clone()})
	return s.state.Clone()
}

// Subscribe registers a subscriber. The returned cancel func unregisters it
// and closes the channel. A subscriber that falls behind loses the oldest
// pending snapshots; edits never block on it.
func (s *Session) Subscribe() (<-chan Event, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	ch := make(chan Event, s.buffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			if sub, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(sub)
			}
		})
	}
}

// Subscribers reports the number of active subscribers.
func (s *Session) Subscribers() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}

// Close unregisters every subscriber. Later subscriptions receive a closed
// channel; transactions keep working.
func (s *Session) Close() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.closed = true
}

func (s *Session) publish(evt Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- evt:
			continue
		default:
		}
		// Full: drop the oldest pending snapshot to make room.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- evt:
		default:
		}
	}
}
