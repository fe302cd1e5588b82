package vocabulary

import "context"

// Repository persists a dictionary. Every mutation is written through immediately.
type Repository interface {
	// Load returns all entries in storage order, which is frequency-descending.
	Load(ctx context.Context) ([]Entry, error)
	// Save replaces the whole dictionary with entries.
	Save(ctx context.Context, entries []Entry) error
	// UpdateStatus sets the status of word and refreshes its timestamp.
	// It returns ErrNotFound if the word is absent.
	UpdateStatus(ctx context.Context, word string, known bool) error
}
