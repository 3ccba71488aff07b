package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"flashcards/internal/domain"
	"flashcards/internal/repository"

	"github.com/gofrs/flock"
)

const (
	unitExt      = ".json"
	unitPrefix   = "unit_"
	lockFileName = ".dictionary.lock"
)

var unitNameRx = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Store implements repository.DictionaryRepository on top of a directory
// of JSON files, one per unit
type Store struct {
	dir  string
	mu   sync.RWMutex
	lock *flock.Flock
}

// New creates the directory if needed and returns a store rooted at it
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create dictionary directory: %w", err)
	}

	return &Store{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, lockFileName)),
	}, nil
}

// UnitName returns the generated name of the i-th unit (0-based)
func UnitName(i int) string {
	return unitPrefix + strconv.Itoa(i+1)
}

// ListUnits returns unit names in natural order (unit_2 before unit_10)
func (s *Store) ListUnits() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary directory: %w", err)
	}

	units := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != unitExt {
			continue
		}
		units = append(units, strings.TrimSuffix(name, unitExt))
	}

	sort.Slice(units, func(i, j int) bool {
		return naturalLess(units[i], units[j])
	})
	return units, nil
}

// GetUnit reads all words of a unit
func (s *Store) GetUnit(name string) ([]domain.Word, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	// flock keeps one lock state per handle, so readers are serialized too
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.RLock(); err != nil {
		return nil, fmt.Errorf("failed to lock dictionary: %w", err)
	}
	defer s.lock.Unlock()

	return s.readUnit(name)
}

// DeleteWord removes the word at index from a unit and rewrites the file
func (s *Store) DeleteWord(name string, index int) error {
	if err := validateName(name); err != nil {
		return err
	}

	return s.withWriteLock(func() error {
		words, err := s.readUnit(name)
		if err != nil {
			return err
		}

		if index < 0 || index >= len(words) {
			return repository.ErrInvalidIndex
		}

		words = append(words[:index], words[index+1:]...)
		return s.writeUnit(name, words)
	})
}

// ReplaceUnits writes unit_1..unit_N and removes generated units left
// over from a previous, larger import
func (s *Store) ReplaceUnits(units [][]domain.Word) error {
	return s.withWriteLock(func() error {
		for i, words := range units {
			if err := s.writeUnit(UnitName(i), words); err != nil {
				return err
			}
		}

		entries, err := os.ReadDir(s.dir)
		if err != nil {
			return fmt.Errorf("failed to read dictionary directory: %w", err)
		}

		for _, entry := range entries {
			name := strings.TrimSuffix(entry.Name(), unitExt)
			if entry.IsDir() || name == entry.Name() || !strings.HasPrefix(name, unitPrefix) {
				continue
			}
			n, err := strconv.Atoi(strings.TrimPrefix(name, unitPrefix))
			if err != nil || n <= len(units) {
				continue
			}
			if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
				return fmt.Errorf("failed to remove stale unit %s: %w", name, err)
			}
		}

		return nil
	})
}

func (s *Store) withWriteLock(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock dictionary: %w", err)
	}
	defer s.lock.Unlock()

	return fn()
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+unitExt)
}

func (s *Store) readUnit(name string) ([]domain.Word, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, repository.ErrUnitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read unit %s: %w", name, err)
	}

	var words []domain.Word
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("failed to decode unit %s: %w", name, err)
	}
	if words == nil {
		words = []domain.Word{}
	}
	return words, nil
}

// writeUnit writes through a temp file so readers never see a partial unit
func (s *Store) writeUnit(name string, words []domain.Word) error {
	if words == nil {
		words = []domain.Word{}
	}

	data, err := json.MarshalIndent(words, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode unit %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write unit %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write unit %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("failed to replace unit %s: %w", name, err)
	}
	return nil
}

func validateName(name string) error {
	if !unitNameRx.MatchString(name) {
		return repository.ErrInvalidUnit
	}
	return nil
}

// naturalLess compares names by their non-numeric prefix, then by the
// value of a trailing number
func naturalLess(a, b string) bool {
	pa, na, okA := splitTrailingNumber(a)
	pb, nb, okB := splitTrailingNumber(b)
	if pa != pb || !okA || !okB {
		return a < b
	}
	if na != nb {
		return na < nb
	}
	return a < b
}

func splitTrailingNumber(s string) (string, int, bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, 0, false
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s, 0, false
	}
	return s[:i], n, true
}
