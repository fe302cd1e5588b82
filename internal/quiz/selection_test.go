package quiz

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/chat2dutch/internal/testutil"
	"github.com/at-ishikawa/chat2dutch/internal/vocabulary"
)

func TestSelectWords(t *testing.T) {
	tests := []struct {
		name    string
		entries []vocabulary.Entry
		history []string
		target  int
		want    []string
	}{
		{
			name: "highest frequency unknown words without history",
			entries: []vocabulary.Entry{
				testutil.Entry("w50", 50, false),
				testutil.Entry("w40", 40, false),
				testutil.Entry("w30", 30, false),
				testutil.Entry("w20", 20, false),
				testutil.Entry("w10", 10, false),
			},
			target: 3,
			want:   []string{"w50", "w40", "w30"},
		},
		{
			name: "history first then unknown words",
			entries: []vocabulary.Entry{
				testutil.Entry("de", 50, false),
				testutil.Entry("het", 40, true),
				testutil.Entry("een", 30, false),
				testutil.Entry("kat", 20, false),
			},
			history: []string{"kat", "het"},
			target:  3,
			want:    []string{"kat", "het", "de"},
		},
		{
			name: "history words missing from the dictionary are skipped",
			entries: []vocabulary.Entry{
				testutil.Entry("de", 50, false),
				testutil.Entry("een", 30, false),
			},
			history: []string{"fietz", "een"},
			target:  2,
			want:    []string{"een", "de"},
		},
		{
			name:    "duplicated history word appears once",
			entries: testutil.UnknownEntries("de", "het", "een"),
			history: []string{"het", "het"},
			target:  2,
			want:    []string{"het", "de"},
		},
		{
			name:    "history longer than target is kept whole",
			entries: testutil.UnknownEntries("de", "het", "een", "kat"),
			history: []string{"kat", "een", "het"},
			target:  2,
			want:    []string{"kat", "een", "het"},
		},
		{
			name:    "history equal to target adds nothing",
			entries: testutil.UnknownEntries("de", "het", "een"),
			history: []string{"een", "het"},
			target:  2,
			want:    []string{"een", "het"},
		},
		{
			name: "fewer unknown words than target",
			entries: []vocabulary.Entry{
				testutil.Entry("de", 50, true),
				testutil.Entry("het", 40, false),
			},
			target: 5,
			want:   []string{"het"},
		},
		{
			name:   "empty dictionary",
			target: 5,
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectWords(tt.entries, tt.history, tt.target))
		})
	}
}

func TestSelectWords_HistoryPrefixProperty(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		words := make([]string, 0, 12)
		entries := make([]vocabulary.Entry, 0, 12)
		dictionarySize := random.Intn(12)
		for j := 0; j < dictionarySize; j++ {
			word := fmt.Sprintf("w%d", j)
			words = append(words, word)
			entries = append(entries, testutil.Entry(word, 100-j, random.Intn(3) == 0))
		}
		historyWords := make([]string, 0, 6)
		historySize := random.Intn(6)
		for j := 0; j < historySize; j++ {
			historyWords = append(historyWords, fmt.Sprintf("w%d", random.Intn(15)))
		}
		target := 1 + random.Intn(8)

		got := SelectWords(entries, historyWords, target)

		eligible := make([]string, 0)
		seen := make(map[string]bool)
		inDictionary := make(map[string]bool)
		for _, word := range words {
			inDictionary[word] = true
		}
		for _, word := range historyWords {
			if inDictionary[word] && !seen[word] {
				seen[word] = true
				eligible = append(eligible, word)
			}
		}

		prefix := min(len(eligible), target)
		require.GreaterOrEqual(t, len(got), prefix)
		assert.Equal(t, eligible[:prefix], got[:prefix], "history %v, target %d", historyWords, target)

		unique := make(map[string]bool)
		for _, word := range got {
			assert.False(t, unique[word], "duplicate %s in %v", word, got)
			unique[word] = true
		}
		if len(eligible) < target {
			assert.LessOrEqual(t, len(got), target)
		}
	}
}
