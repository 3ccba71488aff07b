package service

import (
	"sync"
	"testing"
	"time"

	"flashcards/internal/domain"
	"flashcards/internal/metrics"
	"flashcards/internal/quiz"
	"flashcards/internal/repository"
	"flashcards/internal/testutil"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuizService(repo repository.DictionaryRepository) (*QuizService, *metrics.Metrics) {
	m := metrics.NewNop()
	return NewQuizService(repo, m, testutil.NewTestLogger(), 20*time.Millisecond, time.Hour), m
}

func TestQuizService_Start(t *testing.T) {
	tests := []struct {
		name          string
		mockWords     []domain.Word
		mockError     error
		expectedError error
	}{
		{
			name:      "unit with words",
			mockWords: testutil.NewTestWords(3),
		},
		{
			name:          "empty unit",
			mockWords:     []domain.Word{},
			expectedError: quiz.ErrEmptyItemSet,
		},
		{
			name:          "missing unit",
			mockError:     repository.ErrUnitNotFound,
			expectedError: repository.ErrUnitNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockDictionaryRepository)
			mockRepo.On("GetUnit", "unit_1").Return(tt.mockWords, tt.mockError)

			service, m := newQuizService(mockRepo)

			session, snap, err := service.Start("unit_1", false, nil)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, session)
				assert.Zero(t, promtest.ToFloat64(m.SessionsStarted))
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, session.ID)
				assert.Equal(t, "unit_1", session.Unit)
				assert.Equal(t, "word1", snap.Word)
				assert.Equal(t, 3, snap.Remaining)
				assert.Equal(t, 1.0, promtest.ToFloat64(m.SessionsStarted))
				assert.Equal(t, 1.0, promtest.ToFloat64(m.ActiveSessions))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestQuizService_StartShuffled(t *testing.T) {
	words := testutil.NewTestWords(3)
	mockRepo := new(testutil.MockDictionaryRepository)
	mockRepo.On("GetUnit", "unit_1").Return(words, nil)

	service, _ := newQuizService(mockRepo)
	service.shuffle = func(w []domain.Word) {
		w[0], w[2] = w[2], w[0]
	}

	_, snap, err := service.Start("unit_1", true, nil)
	require.NoError(t, err)
	assert.Equal(t, "word3", snap.Word)
	assert.Equal(t, "word1", words[0].Word, "the stored list is not reordered")
}

func TestQuizService_FullSession(t *testing.T) {
	mockRepo := new(testutil.MockDictionaryRepository)
	mockRepo.On("GetUnit", "unit_1").Return(testutil.NewTestWords(2), nil)

	service, m := newQuizService(mockRepo)

	var mu sync.Mutex
	var events []quiz.Event
	listener := func(n quiz.Notification) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, n.Event)
	}

	session, _, err := service.Start("unit_1", false, listener)
	require.NoError(t, err)

	snap, err := service.Reveal(session.ID)
	require.NoError(t, err)
	assert.Equal(t, "definition 1", snap.Definition)

	_, event, err := service.Judge(session.ID, false)
	require.NoError(t, err)
	assert.Equal(t, quiz.EventNone, event)

	snap, event, err = service.Judge(session.ID, true)
	require.NoError(t, err)
	assert.Equal(t, quiz.EventRetryPassStarted, event)
	assert.Equal(t, "word1", snap.Word)

	snap, event, err = service.Judge(session.ID, true)
	require.NoError(t, err)
	assert.Equal(t, quiz.EventCompleted, event)
	assert.True(t, snap.Completed)

	_, _, err = service.Judge(session.ID, true)
	assert.ErrorIs(t, err, quiz.ErrSessionComplete)

	mu.Lock()
	assert.Equal(t, []quiz.Event{quiz.EventRetryPassStarted, quiz.EventCompleted}, events)
	mu.Unlock()

	assert.Equal(t, 1.0, promtest.ToFloat64(m.SessionsCompleted))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.RetryPasses))
	assert.Equal(t, 2.0, promtest.ToFloat64(m.Judgments.WithLabelValues("correct")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.Judgments.WithLabelValues("incorrect")))
}

func TestQuizService_IgnoredJudgmentNotCounted(t *testing.T) {
	mockRepo := new(testutil.MockDictionaryRepository)
	mockRepo.On("GetUnit", "unit_1").Return(testutil.NewTestWords(1), nil)

	service, m := newQuizService(mockRepo)
	session, _, err := service.Start("unit_1", false, nil)
	require.NoError(t, err)

	snap, event, err := service.Judge(session.ID, false)
	require.NoError(t, err)
	assert.Equal(t, quiz.EventDeferred, event)
	assert.True(t, snap.Blocked)

	_, event, err = service.Judge(session.ID, true)
	require.NoError(t, err)
	assert.Equal(t, quiz.EventNone, event)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.Judgments.WithLabelValues("incorrect")))
	assert.Zero(t, promtest.ToFloat64(m.Judgments.WithLabelValues("correct")))

	assert.Eventually(t, func() bool {
		snap, err := service.Snapshot(session.ID)
		return err == nil && !snap.Blocked && snap.Pass == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.RetryPasses))
}

func TestQuizService_Stop(t *testing.T) {
	mockRepo := new(testutil.MockDictionaryRepository)
	mockRepo.On("GetUnit", "unit_1").Return(testutil.NewTestWords(2), nil)

	service, m := newQuizService(mockRepo)
	session, _, err := service.Start("unit_1", false, nil)
	require.NoError(t, err)

	require.NoError(t, service.Stop(session.ID))
	assert.Zero(t, promtest.ToFloat64(m.ActiveSessions))

	_, err = service.Snapshot(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, service.Stop(session.ID), ErrSessionNotFound)
}

func TestQuizService_UnknownSession(t *testing.T) {
	service, _ := newQuizService(new(testutil.MockDictionaryRepository))

	_, err := service.Reveal("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = service.Hide("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, _, err = service.Judge("missing", true)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = service.Restart("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestQuizService_ReapIdle(t *testing.T) {
	mockRepo := new(testutil.MockDictionaryRepository)
	mockRepo.On("GetUnit", "unit_1").Return(testutil.NewTestWords(2), nil)

	service, m := newQuizService(mockRepo)
	session, _, err := service.Start("unit_1", false, nil)
	require.NoError(t, err)

	assert.Zero(t, service.ReapIdle(time.Now()))
	assert.Equal(t, 1, service.ReapIdle(time.Now().Add(2*time.Hour)))
	assert.Zero(t, promtest.ToFloat64(m.ActiveSessions))

	_, err = service.Get(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestQuizService_ReaperAndClose(t *testing.T) {
	mockRepo := new(testutil.MockDictionaryRepository)
	mockRepo.On("GetUnit", "unit_1").Return(testutil.NewTestWords(2), nil)

	service, m := newQuizService(mockRepo)
	require.NoError(t, service.StartReaper(time.Minute))

	_, _, err := service.Start("unit_1", false, nil)
	require.NoError(t, err)
	_, _, err = service.Start("unit_1", false, nil)
	require.NoError(t, err)

	service.Close()
	assert.Zero(t, promtest.ToFloat64(m.ActiveSessions))
}
