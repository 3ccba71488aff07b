package service

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"flashcards/internal/domain"
	"flashcards/internal/importer"
	"flashcards/internal/metrics"
	"flashcards/internal/repository"
	"flashcards/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDictionaryService(t *testing.T, repo *testutil.MockDictionaryRepository, unitSize int) (*DictionaryService, string) {
	t.Helper()
	uploadDir := t.TempDir()
	return NewDictionaryService(repo, metrics.NewNop(), testutil.NewTestLogger(), uploadDir, unitSize), uploadDir
}

func TestDictionaryService_ListUnits(t *testing.T) {
	tests := []struct {
		name          string
		mockUnits     []string
		mockError     error
		expectedError bool
	}{
		{
			name:      "units found",
			mockUnits: []string{"unit_1", "unit_2"},
		},
		{
			name:          "read error",
			mockError:     fmt.Errorf("disk error"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockDictionaryRepository)
			mockRepo.On("ListUnits").Return(tt.mockUnits, tt.mockError)

			service, _ := newDictionaryService(t, mockRepo, 40)

			units, err := service.ListUnits()

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.mockUnits, units)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestDictionaryService_DeleteWord(t *testing.T) {
	tests := []struct {
		name      string
		mockError error
	}{
		{name: "successful delete", mockError: nil},
		{name: "invalid index", mockError: repository.ErrInvalidIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockDictionaryRepository)
			mockRepo.On("DeleteWord", "unit_1", 3).Return(tt.mockError)

			service, _ := newDictionaryService(t, mockRepo, 40)

			err := service.DeleteWord("unit_1", 3)
			if tt.mockError != nil {
				assert.ErrorIs(t, err, tt.mockError)
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestDictionaryService_ImportCSV(t *testing.T) {
	mockRepo := new(testutil.MockDictionaryRepository)
	expected := [][]domain.Word{
		{testutil.NewTestWord("abate", "to lessen"), testutil.NewTestWord("banal", "trite")},
		{testutil.NewTestWord("cogent", "convincing")},
	}
	mockRepo.On("ReplaceUnits", expected).Return(nil)

	service, uploadDir := newDictionaryService(t, mockRepo, 2)

	csv := "word,definition\nabate,to lessen\nbanal,trite\ncogent,convincing\n"
	result, err := service.Import("words.csv", strings.NewReader(csv))

	require.NoError(t, err)
	assert.Equal(t, 3, result.Words)
	assert.Equal(t, 2, result.Units)
	mockRepo.AssertExpectations(t)

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "spool file must be removed")
}

func TestDictionaryService_ImportErrors(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		content    string
		replaceErr error
		expected   error
	}{
		{name: "unsupported format", filename: "words.pdf", content: "x", expected: importer.ErrUnsupportedFormat},
		{name: "no words", filename: "words.csv", content: "word,definition\n", expected: importer.ErrNoWords},
		{name: "write failure", filename: "words.csv", content: "w,d\nabate,to lessen\n", replaceErr: fmt.Errorf("disk full")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockDictionaryRepository)
			if tt.replaceErr != nil {
				mockRepo.On("ReplaceUnits", mock.Anything).Return(tt.replaceErr)
			}

			service, uploadDir := newDictionaryService(t, mockRepo, 40)

			result, err := service.Import(tt.filename, strings.NewReader(tt.content))
			assert.Error(t, err)
			assert.Nil(t, result)
			if tt.expected != nil {
				assert.ErrorIs(t, err, tt.expected)
			}

			entries, err := os.ReadDir(uploadDir)
			require.NoError(t, err)
			assert.Empty(t, entries)

			mockRepo.AssertExpectations(t)
		})
	}
}
