package service

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"flashcards/internal/domain"
	"flashcards/internal/metrics"
	"flashcards/internal/quiz"
	"flashcards/internal/repository"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown or expired session IDs
var ErrSessionNotFound = errors.New("quiz session not found")

// QuizSession is a running test over one unit
type QuizSession struct {
	ID         string
	Unit       string
	StartedAt  time.Time
	controller *quiz.Controller
}

// QuizService keeps test sessions in memory and reaps idle ones
type QuizService struct {
	repo        repository.DictionaryRepository
	metrics     *metrics.Metrics
	logger      *zap.Logger
	revealDelay time.Duration
	ttl         time.Duration
	shuffle     func([]domain.Word)

	mu        sync.RWMutex
	sessions  map[string]*QuizSession
	scheduler *gocron.Scheduler
}

// NewQuizService creates a new quiz service
func NewQuizService(
	repo repository.DictionaryRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
	revealDelay time.Duration,
	ttl time.Duration,
) *QuizService {
	return &QuizService{
		repo:        repo,
		metrics:     m,
		logger:      logger,
		revealDelay: revealDelay,
		ttl:         ttl,
		shuffle:     shuffleWords,
		sessions:    make(map[string]*QuizSession),
	}
}

func shuffleWords(words []domain.Word) {
	rand.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
}

// Start loads a unit and begins a test over it. With shuffle set the
// whole word list is shuffled once before the first pass.
func (s *QuizService) Start(unit string, shuffle bool, listener quiz.Listener) (*QuizSession, quiz.Snapshot, error) {
	words, err := s.repo.GetUnit(unit)
	if err != nil {
		return nil, quiz.Snapshot{}, err
	}

	if shuffle {
		words = append([]domain.Word(nil), words...)
		s.shuffle(words)
	}

	id := uuid.NewString()
	controller, err := quiz.NewController(words, s.revealDelay, s.listenerFor(id, listener))
	if err != nil {
		return nil, quiz.Snapshot{}, err
	}

	session := &QuizSession{
		ID:         id,
		Unit:       unit,
		StartedAt:  time.Now(),
		controller: controller,
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	s.metrics.SessionsStarted.Inc()
	s.metrics.ActiveSessions.Inc()
	s.logger.Info("Quiz session started",
		zap.String("session_id", id),
		zap.String("unit", unit),
		zap.Int("words", len(words)),
		zap.Bool("shuffle", shuffle),
	)

	return session, controller.Snapshot(), nil
}

func (s *QuizService) listenerFor(id string, next quiz.Listener) quiz.Listener {
	return func(n quiz.Notification) {
		switch n.Event {
		case quiz.EventRetryPassStarted:
			s.metrics.RetryPasses.Inc()
			s.logger.Info("Retry pass started",
				zap.String("session_id", id),
				zap.Int("pass", n.Snapshot.Pass),
				zap.Int("words", n.Snapshot.Remaining),
				zap.Bool("deferred", n.Deferred),
			)
		case quiz.EventCompleted:
			s.metrics.SessionsCompleted.Inc()
			s.logger.Info("Quiz session completed",
				zap.String("session_id", id),
				zap.Int("passes", n.Snapshot.Pass),
			)
		}

		if next != nil {
			next(n)
		}
	}
}

// Get returns a running session
func (s *QuizService) Get(id string) (*QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Snapshot returns the current display state of a session
func (s *QuizService) Snapshot(id string) (quiz.Snapshot, error) {
	session, err := s.Get(id)
	if err != nil {
		return quiz.Snapshot{}, err
	}
	return session.controller.Snapshot(), nil
}

// Reveal shows the definition of the current word
func (s *QuizService) Reveal(id string) (quiz.Snapshot, error) {
	session, err := s.Get(id)
	if err != nil {
		return quiz.Snapshot{}, err
	}
	return session.controller.Reveal()
}

// Hide hides the definition of the current word
func (s *QuizService) Hide(id string) (quiz.Snapshot, error) {
	session, err := s.Get(id)
	if err != nil {
		return quiz.Snapshot{}, err
	}
	return session.controller.Hide()
}

// Judge applies an answer to the current word
func (s *QuizService) Judge(id string, correct bool) (quiz.Snapshot, quiz.Event, error) {
	session, err := s.Get(id)
	if err != nil {
		return quiz.Snapshot{}, quiz.EventNone, err
	}

	snap, event, err := session.controller.Judge(correct)
	if err != nil {
		return snap, event, err
	}

	// A blocked snapshot without an event means the answer was ignored
	if event != quiz.EventNone || !snap.Blocked {
		s.metrics.ObserveJudgment(correct)
	}
	return snap, event, nil
}

// Restart begins the same session again from the full word list
func (s *QuizService) Restart(id string) (quiz.Snapshot, error) {
	session, err := s.Get(id)
	if err != nil {
		return quiz.Snapshot{}, err
	}
	return session.controller.Restart()
}

// Stop tears a session down; a pending requeue is discarded
func (s *QuizService) Stop(id string) error {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	session.controller.Close()
	s.metrics.ActiveSessions.Dec()
	s.logger.Info("Quiz session stopped", zap.String("session_id", id))
	return nil
}

// ReapIdle stops sessions that saw no input for longer than the TTL
func (s *QuizService) ReapIdle(now time.Time) int {
	s.mu.Lock()
	var expired []*QuizSession
	for id, session := range s.sessions {
		if now.Sub(session.controller.LastActivity()) > s.ttl {
			expired = append(expired, session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, session := range expired {
		session.controller.Close()
		s.metrics.ActiveSessions.Dec()
	}

	if len(expired) > 0 {
		s.logger.Info("Reaped idle quiz sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// StartReaper runs ReapIdle every interval in the background
func (s *QuizService) StartReaper(interval time.Duration) error {
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	_, err := scheduler.Every(interval).Do(func() {
		s.ReapIdle(time.Now())
	})
	if err != nil {
		return err
	}

	scheduler.StartAsync()
	s.scheduler = scheduler
	return nil
}

// Close stops the reaper and tears down every session
func (s *QuizService) Close() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}

	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*QuizSession)
	s.mu.Unlock()

	for _, session := range sessions {
		session.controller.Close()
		s.metrics.ActiveSessions.Dec()
	}
}
