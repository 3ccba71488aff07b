package repository

import (
	"errors"

	"flashcards/internal/domain"
)

var (
	// ErrUnitNotFound is returned when a unit file does not exist
	ErrUnitNotFound = errors.New("unit not found")
	// ErrInvalidUnit is returned for unit names that are not safe file names
	ErrInvalidUnit = errors.New("invalid unit name")
	// ErrInvalidIndex is returned when a word index is out of range
	ErrInvalidIndex = errors.New("invalid word index")
)

// DictionaryRepository defines unit storage operations
type DictionaryRepository interface {
	ListUnits() ([]string, error)
	GetUnit(name string) ([]domain.Word, error)
	DeleteWord(name string, index int) error
	ReplaceUnits(units [][]domain.Word) error
}

// PreferenceRepository remembers the last unit a user selected
type PreferenceRepository interface {
	GetLastUnit(userID int64) (string, error)
	SetLastUnit(userID int64, unit string) error
}
