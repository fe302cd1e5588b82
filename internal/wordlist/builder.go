package wordlist

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/at-ishikawa/chat2dutch/internal/flatfile"
	"github.com/at-ishikawa/chat2dutch/internal/vocabulary"
)

const (
	wordsFileName     = "dutch_words.txt"
	frequencyFileName = "dutch_word_frequency.txt"
)

// ParseWords reads one word per line. Empty lines, duplicates and words containing
// digits are dropped.
func ParseWords(r io.Reader) ([]string, error) {
	words := make([]string, 0)
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || seen[word] || strings.IndexFunc(word, unicode.IsDigit) >= 0 {
			continue
		}
		seen[word] = true
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner.Scan > %w", err)
	}
	return words, nil
}

// ParseFrequencies reads "word count" lines separated by whitespace.
// A count that is not a number becomes 0.
func ParseFrequencies(r io.Reader) (map[string]int, error) {
	frequencies := make(map[string]int)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			slog.Default().Debug("skipping frequency row", "line", line, "fields", fields)
			continue
		}
		frequency, err := strconv.Atoi(fields[1])
		if err != nil {
			slog.Default().Warn("invalid frequency value", "line", line, "word", fields[0], "value", fields[1])
			frequency = 0
		}
		frequencies[fields[0]] = frequency
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner.Scan > %w", err)
	}
	return frequencies, nil
}

// Entries gives every word its frequency (0 when unknown), the unknown status and
// the build time, sorted by frequency in descending order. Ties keep word list order.
func Entries(words []string, frequencies map[string]int, now time.Time) []vocabulary.Entry {
	updated := now.Truncate(time.Second)
	entries := make([]vocabulary.Entry, 0, len(words))
	for _, word := range words {
		entries = append(entries, vocabulary.Entry{
			Word:        word,
			Frequency:   frequencies[word],
			Status:      vocabulary.StatusUnknown,
			LastUpdated: updated,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Frequency > entries[j].Frequency
	})
	return entries
}

type Builder struct {
	downloader   *Downloader
	wordsURL     string
	frequencyURL string
	now          func() time.Time
}

func NewBuilder(downloader *Downloader, wordsURL, frequencyURL string) *Builder {
	return &Builder{
		downloader:   downloader,
		wordsURL:     wordsURL,
		frequencyURL: frequencyURL,
		now:          time.Now,
	}
}

// Build downloads both lists and replaces the dictionary in repository.
func (b *Builder) Build(ctx context.Context, repository vocabulary.Repository, refresh bool) ([]vocabulary.Entry, error) {
	wordsPath, err := b.downloader.Fetch(ctx, b.wordsURL, wordsFileName, refresh)
	if err != nil {
		return nil, fmt.Errorf("downloader.Fetch(words) > %w", err)
	}
	frequencyPath, err := b.downloader.Fetch(ctx, b.frequencyURL, frequencyFileName, refresh)
	if err != nil {
		return nil, fmt.Errorf("downloader.Fetch(frequency) > %w", err)
	}

	var words []string
	if err := flatfile.Read(wordsPath, func(r io.Reader) error {
		words, err = ParseWords(r)
		return err
	}); err != nil {
		return nil, fmt.Errorf("flatfile.Read > %w", err)
	}
	var frequencies map[string]int
	if err := flatfile.Read(frequencyPath, func(r io.Reader) error {
		frequencies, err = ParseFrequencies(r)
		return err
	}); err != nil {
		return nil, fmt.Errorf("flatfile.Read > %w", err)
	}

	entries := Entries(words, frequencies, b.now())
	if err := repository.Save(ctx, entries); err != nil {
		return nil, fmt.Errorf("repository.Save > %w", err)
	}
	slog.Default().Info("built dictionary", "words", len(entries), "frequencies", len(frequencies))
	return entries, nil
}
