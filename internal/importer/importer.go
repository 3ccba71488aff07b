package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"flashcards/internal/domain"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrNoWords is returned when a file holds no usable rows
	ErrNoWords = errors.New("no words found in file")
)

// Supported reports whether a file name has an importable extension
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

// ParseFile reads words from a CSV or XLSX file, picked by extension.
// The first row of either format is a header and is skipped.
func ParseFile(path, filename string) ([]domain.Word, error) {
	var (
		words []domain.Word
		err   error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", openErr)
		}
		defer f.Close()
		words, err = ParseCSV(f)
	case ".xlsx":
		words, err = ParseXLSX(path)
	default:
		return nil, ErrUnsupportedFormat
	}

	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ErrNoWords
	}
	return words, nil
}

// ParseCSV reads comma-separated word,definition rows
func ParseCSV(r io.Reader) ([]domain.Word, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		rows = append(rows, record)
	}

	return rowsToWords(rows), nil
}

// ParseXLSX reads column A (word) and B (definition) of the first sheet
func ParseXLSX(path string) ([]domain.Word, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoWords
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	return rowsToWords(rows), nil
}

func rowsToWords(rows [][]string) []domain.Word {
	words := make([]domain.Word, 0, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}

		word := strings.TrimSpace(strings.TrimPrefix(row[0], "\ufeff"))
		if word == "" {
			continue
		}

		var definition string
		if len(row) > 1 {
			definition = strings.TrimSpace(row[1])
		}

		words = append(words, domain.Word{Word: word, Definition: definition})
	}
	return words
}

// Chunk splits words into units of at most size words
func Chunk(words []domain.Word, size int) [][]domain.Word {
	if size <= 0 || len(words) == 0 {
		return nil
	}

	units := make([][]domain.Word, 0, (len(words)+size-1)/size)
	for start := 0; start < len(words); start += size {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		units = append(units, words[start:end])
	}
	return units
}
