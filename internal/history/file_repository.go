package history

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/at-ishikawa/chat2dutch/internal/flatfile"
)

// FileRepository keeps the history as a single-column CSV file, one word per row.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Load returns an empty list when the file does not exist yet.
func (r *FileRepository) Load(ctx context.Context) ([]string, error) {
	words := make([]string, 0)
	err := flatfile.Read(r.path, func(reader io.Reader) error {
		csvReader := csv.NewReader(reader)
		csvReader.FieldsPerRecord = -1
		for {
			row, err := csvReader.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("csvReader.Read > %w", err)
			}
			if len(row) == 0 {
				continue
			}
			word := strings.TrimSpace(row[0])
			if word == "" {
				continue
			}
			words = append(words, word)
		}
	})
	if errors.Is(err, os.ErrNotExist) {
		return words, nil
	}
	if err != nil {
		return nil, fmt.Errorf("flatfile.Read(%s) > %w", r.path, err)
	}
	return words, nil
}

func (r *FileRepository) Save(ctx context.Context, words []string) error {
	if err := flatfile.Write(r.path, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		csvWriter.UseCRLF = true
		for _, word := range words {
			if err := csvWriter.Write([]string{word}); err != nil {
				return fmt.Errorf("csvWriter.Write(%s) > %w", word, err)
			}
		}
		csvWriter.Flush()
		return csvWriter.Error()
	}); err != nil {
		return fmt.Errorf("flatfile.Write(%s) > %w", r.path, err)
	}
	return nil
}
