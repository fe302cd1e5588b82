package vocabulary

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDictionary(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dutch_dictionary.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func localTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation(TimestampLayout, value, time.Local)
	require.NoError(t, err)
	return parsed
}

func TestCSVRepository_Load(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    func(t *testing.T) []Entry
		wantErr func(t *testing.T, err error)
	}{
		{
			name: "rows in file order",
			content: "Word,Frequency,Status,Last Updated\r\n" +
				"de,100,0,2024-01-01 00:00:00\r\n" +
				"het,90,1,2024-02-03 10:11:12\r\n",
			want: func(t *testing.T) []Entry {
				return []Entry{
					{Word: "de", Frequency: 100, Status: StatusUnknown, LastUpdated: localTime(t, "2024-01-01 00:00:00")},
					{Word: "het", Frequency: 90, Status: StatusKnown, LastUpdated: localTime(t, "2024-02-03 10:11:12")},
				}
			},
		},
		{
			name:    "header only",
			content: "Word,Frequency,Status,Last Updated\n",
			want: func(t *testing.T) []Entry {
				return []Entry{}
			},
		},
		{
			name: "unparsable cells fall back to defaults",
			content: "Word,Frequency,Status,Last Updated\n" +
				"kat,veel,7,yesterday\n",
			want: func(t *testing.T) []Entry {
				return []Entry{{Word: "kat", Frequency: 0, Status: StatusUnknown}}
			},
		},
		{
			name: "duplicate words keep the first row",
			content: "Word,Frequency,Status,Last Updated\n" +
				"hond,5,1,2024-01-01 00:00:00\n" +
				"hond,9,0,2024-01-02 00:00:00\n",
			want: func(t *testing.T) []Entry {
				return []Entry{{Word: "hond", Frequency: 5, Status: StatusKnown, LastUpdated: localTime(t, "2024-01-01 00:00:00")}}
			},
		},
		{
			name: "wrong number of columns",
			content: "Word,Frequency,Status,Last Updated\n" +
				"de,100,0,2024-01-01 00:00:00\n" +
				"het,90\n",
			wantErr: func(t *testing.T, err error) {
				var malformed *MalformedRecordError
				require.ErrorAs(t, err, &malformed)
				assert.Equal(t, 3, malformed.Line)
				assert.Contains(t, malformed.Reason, "expected 4 columns, got 2")
			},
		},
		{
			name: "broken quoting",
			content: "Word,Frequency,Status,Last Updated\n" +
				"\"de,100,0,2024-01-01 00:00:00\n",
			wantErr: func(t *testing.T, err error) {
				var malformed *MalformedRecordError
				require.ErrorAs(t, err, &malformed)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewCSVRepository(writeDictionary(t, tt.content))
			got, err := repo.Load(context.Background())
			if tt.wantErr != nil {
				require.Error(t, err)
				tt.wantErr(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want(t), got)
		})
	}
}

func TestCSVRepository_Load_MissingFile(t *testing.T) {
	repo := NewCSVRepository(filepath.Join(t.TempDir(), "missing.csv"))
	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCSVRepository_SaveLoadIsFixedPoint(t *testing.T) {
	content := "Word,Frequency,Status,Last Updated\r\n" +
		"de,100,0,2024-01-01 00:00:00\r\n" +
		"\"komma,woord\",50,1,2024-03-04 05:06:07\r\n" +
		"een,1,0,2023-12-31 23:59:59\r\n"
	path := writeDictionary(t, content)
	repo := NewCSVRepository(path)

	entries, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), entries))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))

	reloaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entries, reloaded)
}

func TestCSVRepository_UpdateStatus(t *testing.T) {
	now := localTime(t, "2024-05-06 07:08:09")

	tests := []struct {
		name      string
		word      string
		known     bool
		want      func(t *testing.T) []Entry
		wantErrIs error
	}{
		{
			name:  "mark word known",
			word:  "het",
			known: true,
			want: func(t *testing.T) []Entry {
				return []Entry{
					{Word: "de", Frequency: 100, Status: StatusUnknown, LastUpdated: localTime(t, "2024-01-01 00:00:00")},
					{Word: "het", Frequency: 90, Status: StatusKnown, LastUpdated: now},
				}
			},
		},
		{
			name:  "mark word unknown",
			word:  "de",
			known: false,
			want: func(t *testing.T) []Entry {
				return []Entry{
					{Word: "de", Frequency: 100, Status: StatusUnknown, LastUpdated: now},
					{Word: "het", Frequency: 90, Status: StatusUnknown, LastUpdated: localTime(t, "2024-01-01 00:00:00")},
				}
			},
		},
		{
			name:      "absent word leaves the file untouched",
			word:      "fiets",
			known:     true,
			wantErrIs: ErrNotFound,
			want: func(t *testing.T) []Entry {
				return []Entry{
					{Word: "de", Frequency: 100, Status: StatusUnknown, LastUpdated: localTime(t, "2024-01-01 00:00:00")},
					{Word: "het", Frequency: 90, Status: StatusUnknown, LastUpdated: localTime(t, "2024-01-01 00:00:00")},
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewCSVRepository(writeDictionary(t, "Word,Frequency,Status,Last Updated\n"+
				"de,100,0,2024-01-01 00:00:00\n"+
				"het,90,0,2024-01-01 00:00:00\n"))
			repo.now = func() time.Time { return now.Add(300 * time.Millisecond) }

			err := repo.UpdateStatus(context.Background(), tt.word, tt.known)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
			} else {
				require.NoError(t, err)
			}

			got, err := repo.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want(t), got)
		})
	}
}
