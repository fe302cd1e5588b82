package wordlist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/chat2dutch/internal/vocabulary"
)

func TestParseWords(t *testing.T) {
	got, err := ParseWords(strings.NewReader("fiets\n  kat \n\n2e\nCO2\nfiets\nhuis\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"fiets", "kat", "huis"}, got)
}

func TestParseFrequencies(t *testing.T) {
	got, err := ParseFrequencies(strings.NewReader("de 1000\nhet\t900\nraar veel\nalleen\n\nkat 12 extra\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"de":   1000,
		"het":  900,
		"raar": 0,
		"kat":  12,
	}, got)
}

func TestEntries(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 500, time.Local)
	got := Entries(
		[]string{"kat", "zeldzaam", "de", "hond", "het"},
		map[string]int{"de": 100, "het": 90, "kat": 5, "hond": 5},
		now,
	)

	updated := now.Truncate(time.Second)
	assert.Equal(t, []vocabulary.Entry{
		{Word: "de", Frequency: 100, Status: vocabulary.StatusUnknown, LastUpdated: updated},
		{Word: "het", Frequency: 90, Status: vocabulary.StatusUnknown, LastUpdated: updated},
		{Word: "kat", Frequency: 5, Status: vocabulary.StatusUnknown, LastUpdated: updated},
		{Word: "hond", Frequency: 5, Status: vocabulary.StatusUnknown, LastUpdated: updated},
		{Word: "zeldzaam", Frequency: 0, Status: vocabulary.StatusUnknown, LastUpdated: updated},
	}, got)
}

func TestBuilder_Build(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		switch r.URL.Path {
		case "/wordlist.txt":
			_, _ = w.Write([]byte("fiets\nkat\nA4\nde\n"))
		case "/nl_50k.txt":
			_, _ = w.Write([]byte("de 500\nkat 20\nonbekend 3\n"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	dir := t.TempDir()
	downloads := filepath.Join(dir, "downloads")
	dictionaryPath := filepath.Join(dir, "dutch_dictionary.csv")
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local)

	builder := NewBuilder(NewDownloader(downloads), server.URL+"/wordlist.txt", server.URL+"/nl_50k.txt")
	builder.now = func() time.Time { return now }
	repository := vocabulary.NewCSVRepository(dictionaryPath)

	entries, err := builder.Build(context.Background(), repository, false)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, int32(2), requests.Load())

	content, err := os.ReadFile(dictionaryPath)
	require.NoError(t, err)
	assert.Equal(t, "Word,Frequency,Status,Last Updated\r\n"+
		"de,500,0,2024-06-01 10:00:00\r\n"+
		"kat,20,0,2024-06-01 10:00:00\r\n"+
		"fiets,0,0,2024-06-01 10:00:00\r\n", string(content))

	// Cached lists are reused unless a refresh is requested.
	_, err = builder.Build(context.Background(), repository, false)
	require.NoError(t, err)
	assert.Equal(t, int32(2), requests.Load())

	_, err = builder.Build(context.Background(), repository, true)
	require.NoError(t, err)
	assert.Equal(t, int32(4), requests.Load())
}

func TestDownloader_Fetch_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	dir := t.TempDir()
	_, err := NewDownloader(dir).Fetch(context.Background(), server.URL+"/wordlist.txt", "words.txt", false)
	assert.ErrorContains(t, err, "status code: 500")

	_, statErr := os.Stat(filepath.Join(dir, "words.txt"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}
