// Package history keeps the recency-ordered list of words the learner looked up or
// failed to recall. The front of the list is the most recent struggle.
package history

import (
	"context"
	"fmt"
)

type Repository interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, words []string) error
}

// Reorder returns words after touching word. A known word is removed; an unknown word
// moves to the front. The input slice is not modified.
func Reorder(words []string, word string, known bool) []string {
	result := make([]string, 0, len(words)+1)
	if !known {
		result = append(result, word)
	}
	for _, w := range words {
		if w == word {
			continue
		}
		result = append(result, w)
	}
	return result
}

// Store applies touches to a Repository and persists after each one.
type Store struct {
	repository Repository
}

func NewStore(repository Repository) *Store {
	return &Store{repository: repository}
}

func (s *Store) Load(ctx context.Context) ([]string, error) {
	return s.repository.Load(ctx)
}

func (s *Store) Touch(ctx context.Context, word string, known bool) error {
	words, err := s.repository.Load(ctx)
	if err != nil {
		return fmt.Errorf("repository.Load > %w", err)
	}
	if err := s.repository.Save(ctx, Reorder(words, word, known)); err != nil {
		return fmt.Errorf("repository.Save > %w", err)
	}
	return nil
}
