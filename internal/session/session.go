// Package session owns the presentation state of one client: the last
// result, whether a request is in flight and the last failure.
//
// Every submission gets a sequence number. Only the resolution carrying the
// latest issued number is applied; older ones are dropped with ErrStale, so a
// slow request can never overwrite a newer result. Starting a submission also
// cancels the context of the one it replaces.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"smc-analyzer/internal/interpreter"
)

var (
	ErrStale  = errors.New("stale resolution discarded")
	ErrClosed = errors.New("session closed")
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{StatusIdle, StatusLoading, StatusSucceeded, StatusFailed} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown session status %q", text)
}

// State is an immutable snapshot. View is set only when Succeeded, Reason
// only when Failed.
type State struct {
	Status Status                 `json:"status"`
	Seq    uint64                 `json:"seq"`
	Symbol string                 `json:"symbol,omitempty"`
	View   *interpreter.ViewModel `json:"view,omitempty"`
	Reason string                 `json:"reason,omitempty"`
}

// Ticket identifies one submission. Ctx is cancelled when a newer
// submission replaces it or the session closes.
type Ticket struct {
	Seq    uint64
	Symbol string
	Ctx    context.Context
}

type Session struct {
	mu          sync.Mutex
	seq         uint64
	state       State
	cancel      context.CancelFunc
	closed      bool
	subscribers map[int]chan State
	nextSubID   int
}

func New() *Session {
	return &Session{subscribers: make(map[int]chan State)}
}

func (s *Session) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Begin moves to Loading under a fresh sequence number.
func (s *Session) Begin(parent context.Context, symbol string) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Ticket{}, ErrClosed
	}
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.seq++

	s.transition(State{Status: StatusLoading, Seq: s.seq, Symbol: symbol})
	return Ticket{Seq: s.seq, Symbol: symbol, Ctx: ctx}, nil
}

func (s *Session) Succeed(t Ticket, view interpreter.ViewModel) error {
	return s.resolve(t, State{Status: StatusSucceeded, Seq: t.Seq, Symbol: t.Symbol, View: &view})
}

func (s *Session) Fail(t Ticket, reason string) error {
	return s.resolve(t, State{Status: StatusFailed, Seq: t.Seq, Symbol: t.Symbol, Reason: reason})
}

func (s *Session) resolve(t Ticket, next State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if t.Seq != s.seq || s.state.Status != StatusLoading {
		return ErrStale
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	s.transition(next)
	return nil
}

// Subscribe streams every applied transition, starting with the current
// state. A subscriber that falls behind misses intermediate states, never
// the ordering. The returned func unsubscribes.
func (s *Session) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan State, 8)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	ch <- s.state

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(sub)
			}
		})
	}
}

// Close cancels any in-flight submission and ends all subscriptions.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}

// transition must be called with mu held.
func (s *Session) transition(next State) {
	s.state = next
	for _, ch := range s.subscribers {
		select {
		case ch <- next:
		default:
			// drop the oldest buffered state to make room
			select {
			case <-ch:
			default:
			}
			ch <- next
		}
	}
}
