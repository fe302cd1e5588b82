// Package vocabulary stores the learner's word dictionary: every word with its corpus
// frequency, whether the learner knows it, and when that status last changed.
package vocabulary

import (
	"errors"
	"fmt"
	"time"
)

// TimestampLayout is the layout of the Last Updated column.
const TimestampLayout = "2006-01-02 15:04:05"

// Header is the first row of a dictionary file.
var Header = []string{"Word", "Frequency", "Status", "Last Updated"}

type Status int

const (
	StatusUnknown Status = 0
	StatusKnown   Status = 1
)

func StatusOf(known bool) Status {
	if known {
		return StatusKnown
	}
	return StatusUnknown
}

func (s Status) String() string {
	if s == StatusKnown {
		return "known"
	}
	return "unknown"
}

// Entry is one dictionary row. Word is unique across a dictionary.
type Entry struct {
	Word        string    `db:"word"`
	Frequency   int       `db:"frequency"`
	Status      Status    `db:"status"`
	LastUpdated time.Time `db:"last_updated"`
}

// Format renders the entry for display.
func (e Entry) Format() string {
	return fmt.Sprintf("Word: %s\nFrequency: %d\nStatus: %s\nLast Updated: %s",
		e.Word, e.Frequency, e.Status, e.LastUpdated.Format(TimestampLayout))
}

// ErrNotFound is returned when a word is not in the dictionary.
var ErrNotFound = errors.New("word not found in dictionary")

// MalformedRecordError reports a dictionary row that cannot be read at all.
type MalformedRecordError struct {
	Path   string
	Line   int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at %s:%d: %s", e.Path, e.Line, e.Reason)
}

// Find returns the entry for word, or false if it is absent.
func Find(entries []Entry, word string) (Entry, bool) {
	for _, entry := range entries {
		if entry.Word == word {
			return entry, true
		}
	}
	return Entry{}, false
}
