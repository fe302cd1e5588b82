package quiz

import (
	"github.com/at-ishikawa/chat2dutch/internal/vocabulary"
)

// SelectWords builds the candidate list of a session.
// Every history word still in the dictionary comes first, in history order. Unknown
// dictionary words follow in dictionary order until the list holds target words.
// The list is shorter than target when the dictionary runs out of unknown words.
func SelectWords(entries []vocabulary.Entry, historyWords []string, target int) []string {
	inDictionary := make(map[string]bool, len(entries))
	for _, entry := range entries {
		inDictionary[entry.Word] = true
	}

	selected := make([]string, 0, max(target, 0))
	seen := make(map[string]bool)
	for _, word := range historyWords {
		if !inDictionary[word] || seen[word] {
			continue
		}
		seen[word] = true
		selected = append(selected, word)
	}

	for _, entry := range entries {
		if len(selected) >= target {
			break
		}
		if entry.Status != vocabulary.StatusUnknown || seen[entry.Word] {
			continue
		}
		seen[entry.Word] = true
		selected = append(selected, entry.Word)
	}
	return selected
}
