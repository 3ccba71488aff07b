package testutil

import (
	"fmt"

	"flashcards/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestWord creates a test word
func NewTestWord(word, definition string) domain.Word {
	return domain.Word{
		Word:       word,
		Definition: definition,
	}
}

// NewTestWords creates n numbered test words
func NewTestWords(n int) []domain.Word {
	words := make([]domain.Word, n)
	for i := range words {
		words[i] = NewTestWord(fmt.Sprintf("word%d", i+1), fmt.Sprintf("definition %d", i+1))
	}
	return words
}
