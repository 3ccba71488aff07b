package quiz

import "errors"

var (
	// ErrEmptyItemSet is returned when a session is started without items
	ErrEmptyItemSet = errors.New("quiz: cannot start a session with no items")
	// ErrSessionComplete is returned for any call made after the last pass finished
	ErrSessionComplete = errors.New("quiz: session is complete")
	// ErrJudgmentPending is returned while a deferred incorrect judgment is held
	ErrJudgmentPending = errors.New("quiz: deferred judgment pending")
	// ErrNothingDeferred is returned when there is no held judgment to resolve
	ErrNothingDeferred = errors.New("quiz: no deferred judgment")
)

// Event is a discrete notification produced by a transition
type Event int

const (
	EventNone Event = iota
	EventRetryPassStarted
	EventCompleted
	EventDeferred
)

// String returns the wire name of the event
func (e Event) String() string {
	switch e {
	case EventRetryPassStarted:
		return "retry_pass_started"
	case EventCompleted:
		return "completed"
	case EventDeferred:
		return "deferred"
	default:
		return "none"
	}
}

// Session holds the two pass queues of a test run. Items are opaque
// identities; the session never looks at what they refer to.
type Session struct {
	current  []int
	retry    []int
	revealed bool
	deferred bool
	pass     int
}

// Start creates a session over items in their given order
func Start(items []int) (*Session, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItemSet
	}

	current := make([]int, len(items))
	copy(current, items)

	return &Session{
		current: current,
		pass:    1,
	}, nil
}

// Current returns the item at the head of the current pass
func (s *Session) Current() (int, error) {
	if len(s.current) == 0 {
		return 0, ErrSessionComplete
	}
	return s.current[0], nil
}

// Reveal shows the definition of the current item
func (s *Session) Reveal() {
	s.revealed = true
}

// Hide hides the definition again. Ignored while a deferred judgment
// keeps the definition on screen.
func (s *Session) Hide() {
	if s.deferred {
		return
	}
	s.revealed = false
}

// Judge applies a correct or incorrect answer to the current item.
//
// An incorrect answer on the only item left in the final pass is held
// instead of applied: the definition is forced visible and EventDeferred
// is returned. ResolveDeferred applies it later.
func (s *Session) Judge(correct bool) (Event, error) {
	if len(s.current) == 0 {
		return EventNone, ErrSessionComplete
	}
	if s.deferred {
		return EventNone, ErrJudgmentPending
	}

	if correct {
		s.current = s.current[1:]
		if len(s.current) == 0 {
			if len(s.retry) == 0 {
				return EventCompleted, nil
			}
			s.rollOver()
			s.revealed = false
			return EventRetryPassStarted, nil
		}
		s.revealed = false
		return EventNone, nil
	}

	if len(s.current) == 1 && len(s.retry) == 0 {
		s.revealed = true
		s.deferred = true
		return EventDeferred, nil
	}

	s.requeueHead()
	s.revealed = false
	if len(s.current) == 0 {
		s.rollOver()
		return EventRetryPassStarted, nil
	}
	return EventNone, nil
}

// ResolveDeferred applies the held incorrect judgment. The item starts a
// fresh pass on its own; the session never completes here.
func (s *Session) ResolveDeferred() (Event, error) {
	if !s.deferred {
		return EventNone, ErrNothingDeferred
	}

	s.deferred = false
	s.requeueHead()
	s.rollOver()
	s.revealed = false
	return EventRetryPassStarted, nil
}

func (s *Session) requeueHead() {
	head := s.current[0]
	s.current = s.current[1:]
	s.retry = append(s.retry, head)
}

func (s *Session) rollOver() {
	s.current = s.retry
	s.retry = nil
	s.pass++
}

// Revealed reports whether the current definition is visible
func (s *Session) Revealed() bool {
	return s.revealed
}

// Deferred reports whether an incorrect judgment is being held
func (s *Session) Deferred() bool {
	return s.deferred
}

// Completed reports whether every item was answered correctly in its pass
func (s *Session) Completed() bool {
	return len(s.current) == 0
}

// Remaining returns the number of items left in the current pass
func (s *Session) Remaining() int {
	return len(s.current)
}

// Retrying returns the number of items queued for the next pass
func (s *Session) Retrying() int {
	return len(s.retry)
}

// Pass returns the 1-based number of the current pass
func (s *Session) Pass() int {
	return s.pass
}

// CurrentPass returns a copy of the items left in the current pass
func (s *Session) CurrentPass() []int {
	return append([]int(nil), s.current...)
}

// RetryPass returns a copy of the items queued for the next pass
func (s *Session) RetryPass() []int {
	return append([]int(nil), s.retry...)
}
