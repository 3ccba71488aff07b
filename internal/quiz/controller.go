package quiz

import (
	"errors"
	"sync"
	"time"

	"flashcards/internal/domain"
)

// ErrSessionClosed is returned for calls made after the controller was torn down
var ErrSessionClosed = errors.New("quiz: session closed")

// Snapshot is what a display layer needs to render the current state
type Snapshot struct {
	Word       string `json:"word,omitempty"`
	Definition string `json:"definition,omitempty"`
	Revealed   bool   `json:"revealed"`
	Remaining  int    `json:"remaining"`
	Retrying   int    `json:"retrying"`
	Pass       int    `json:"pass"`
	Total      int    `json:"total"`
	Blocked    bool   `json:"blocked"`
	Completed  bool   `json:"completed"`
}

// Notification is delivered to a Listener after every transition
type Notification struct {
	Event    Event
	Snapshot Snapshot
	Deferred bool // produced by the delayed requeue, not by a direct call
}

// Listener receives notifications. It is called without the controller
// lock held, so it may call back into the controller.
type Listener func(Notification)

// Controller drives one test session over a word list. It owns the
// delayed requeue that follows a wrong answer on the final item and the
// blocked flag that gates input while that definition is on screen.
type Controller struct {
	mu       sync.Mutex
	words    []domain.Word
	session  *Session
	delay    time.Duration
	listener Listener

	blocked    bool
	closed     bool
	timer      *time.Timer
	generation uint64
	touched    time.Time
}

// NewController starts a session over words in their given order
func NewController(words []domain.Word, delay time.Duration, listener Listener) (*Controller, error) {
	c := &Controller{
		words:    append([]domain.Word(nil), words...),
		delay:    delay,
		listener: listener,
	}
	if err := c.start(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Controller) start() error {
	items := make([]int, len(c.words))
	for i := range items {
		items[i] = i
	}

	session, err := Start(items)
	if err != nil {
		return err
	}

	c.session = session
	c.blocked = false
	c.touched = time.Now()
	return nil
}

// Restart discards the running session and any pending requeue, then
// starts over from the full word list
func (c *Controller) Restart() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Snapshot{}, ErrSessionClosed
	}

	c.cancelPendingLocked()
	if err := c.start(); err != nil {
		return Snapshot{}, err
	}
	return c.snapshotLocked(), nil
}

// Snapshot returns the current display state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Reveal shows the definition of the current word
func (c *Controller) Reveal() (Snapshot, error) {
	return c.toggle(true)
}

// Hide hides the definition of the current word
func (c *Controller) Hide() (Snapshot, error) {
	return c.toggle(false)
}

func (c *Controller) toggle(show bool) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Snapshot{}, ErrSessionClosed
	}
	if c.session.Completed() {
		return c.snapshotLocked(), ErrSessionComplete
	}

	c.touched = time.Now()
	if !c.blocked {
		if show {
			c.session.Reveal()
		} else {
			c.session.Hide()
		}
	}
	return c.snapshotLocked(), nil
}

// Judge applies an answer to the current word. While blocked the call is
// ignored and the unchanged snapshot is returned with EventNone.
func (c *Controller) Judge(correct bool) (Snapshot, Event, error) {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return Snapshot{}, EventNone, ErrSessionClosed
	}

	c.touched = time.Now()
	if c.blocked {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, EventNone, nil
	}

	event, err := c.session.Judge(correct)
	if err != nil {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, EventNone, err
	}

	if event == EventDeferred {
		c.blocked = true
		generation := c.generation
		c.timer = time.AfterFunc(c.delay, func() {
			c.resolve(generation)
		})
	}

	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(Notification{Event: event, Snapshot: snap})
	return snap, event, nil
}

// resolve runs on the timer goroutine. A stale generation means the
// session was restarted or closed in the meantime and the requeue is dropped.
func (c *Controller) resolve(generation uint64) {
	c.mu.Lock()

	if c.closed || generation != c.generation || !c.blocked {
		c.mu.Unlock()
		return
	}

	event, err := c.session.ResolveDeferred()
	c.blocked = false
	c.timer = nil
	if err != nil {
		c.mu.Unlock()
		return
	}

	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(Notification{Event: event, Snapshot: snap, Deferred: true})
}

// Close tears the session down. A pending requeue is discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.cancelPendingLocked()
	c.closed = true
}

func (c *Controller) cancelPendingLocked() {
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.blocked = false
}

// Blocked reports whether input is currently being ignored
func (c *Controller) Blocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blocked
}

// LastActivity returns the time of the last delivered event
func (c *Controller) LastActivity() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touched
}

// Words returns the word list the session runs over
func (c *Controller) Words() []domain.Word {
	return append([]domain.Word(nil), c.words...)
}

func (c *Controller) notify(n Notification) {
	if c.listener != nil && n.Event != EventNone {
		c.listener(n)
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Revealed:  c.session.Revealed(),
		Remaining: c.session.Remaining(),
		Retrying:  c.session.Retrying(),
		Pass:      c.session.Pass(),
		Total:     len(c.words),
		Blocked:   c.blocked,
		Completed: c.session.Completed(),
	}

	item, err := c.session.Current()
	if err != nil {
		return snap
	}

	word := c.words[item]
	snap.Word = word.Word
	if snap.Revealed {
		snap.Definition = word.Definition
	}
	return snap
}
