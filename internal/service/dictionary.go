package service

import (
	"fmt"
	"io"
	"os"

	"flashcards/internal/domain"
	"flashcards/internal/importer"
	"flashcards/internal/metrics"
	"flashcards/internal/repository"

	"go.uber.org/zap"
)

// ImportResult summarizes an upload
type ImportResult struct {
	Words int
	Units int
}

// DictionaryService handles unit browsing, deletion and uploads
type DictionaryService struct {
	repo      repository.DictionaryRepository
	metrics   *metrics.Metrics
	logger    *zap.Logger
	uploadDir string
	unitSize  int
}

// NewDictionaryService creates a new dictionary service
func NewDictionaryService(
	repo repository.DictionaryRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
	uploadDir string,
	unitSize int,
) *DictionaryService {
	return &DictionaryService{
		repo:      repo,
		metrics:   m,
		logger:    logger,
		uploadDir: uploadDir,
		unitSize:  unitSize,
	}
}

// ListUnits returns all unit names
func (s *DictionaryService) ListUnits() ([]string, error) {
	return s.repo.ListUnits()
}

// GetUnit returns the words of a unit
func (s *DictionaryService) GetUnit(name string) ([]domain.Word, error) {
	return s.repo.GetUnit(name)
}

// DeleteWord removes a single word from a unit
func (s *DictionaryService) DeleteWord(name string, index int) error {
	if err := s.repo.DeleteWord(name, index); err != nil {
		return err
	}

	s.metrics.WordsDeleted.Inc()
	s.logger.Info("Word deleted", zap.String("unit", name), zap.Int("index", index))
	return nil
}

// Import spools an uploaded file, parses it and replaces the dictionary
// with units of unitSize words
func (s *DictionaryService) Import(filename string, r io.Reader) (*ImportResult, error) {
	if !importer.Supported(filename) {
		return nil, importer.ErrUnsupportedFormat
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	spool, err := os.CreateTemp(s.uploadDir, "upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create spool file: %w", err)
	}
	// The spool file is deleted once parsed, successful or not
	defer os.Remove(spool.Name())

	if _, err := io.Copy(spool, r); err != nil {
		spool.Close()
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	if err := spool.Close(); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	words, err := importer.ParseFile(spool.Name(), filename)
	if err != nil {
		s.logger.Warn("Failed to parse upload", zap.String("filename", filename), zap.Error(err))
		return nil, err
	}

	units := importer.Chunk(words, s.unitSize)
	if err := s.repo.ReplaceUnits(units); err != nil {
		return nil, fmt.Errorf("failed to write units: %w", err)
	}

	s.metrics.WordsImported.Add(float64(len(words)))
	s.logger.Info("Upload processed",
		zap.String("filename", filename),
		zap.Int("words", len(words)),
		zap.Int("units", len(units)),
	)

	return &ImportResult{Words: len(words), Units: len(units)}, nil
}
