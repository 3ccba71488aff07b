package testutil

import (
	"flashcards/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockDictionaryRepository is a mock for DictionaryRepository
type MockDictionaryRepository struct {
	mock.Mock
}

func (m *MockDictionaryRepository) ListUnits() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDictionaryRepository) GetUnit(name string) ([]domain.Word, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Word), args.Error(1)
}

func (m *MockDictionaryRepository) DeleteWord(name string, index int) error {
	args := m.Called(name, index)
	return args.Error(0)
}

func (m *MockDictionaryRepository) ReplaceUnits(units [][]domain.Word) error {
	args := m.Called(units)
	return args.Error(0)
}

// MockPreferenceRepository is a mock for PreferenceRepository
type MockPreferenceRepository struct {
	mock.Mock
}

func (m *MockPreferenceRepository) GetLastUnit(userID int64) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockPreferenceRepository) SetLastUnit(userID int64, unit string) error {
	args := m.Called(userID, unit)
	return args.Error(0)
}
