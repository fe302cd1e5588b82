package flatfile

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

func TestWrite(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		encode   func(w io.Writer) error
		want     string
		wantErr  bool
	}{
		{
			name: "creates a new file",
			encode: func(w io.Writer) error {
				_, err := io.WriteString(w, "hello\n")
				return err
			},
			want: "hello\n",
		},
		{
			name:     "replaces an existing file",
			existing: "old contents that are longer\n",
			encode: func(w io.Writer) error {
				_, err := io.WriteString(w, "new\n")
				return err
			},
			want: "new\n",
		},
		{
			name:     "keeps the old file when encoding fails",
			existing: "old\n",
			encode: func(w io.Writer) error {
				_, _ = io.WriteString(w, "partial")
				return errors.New("boom")
			},
			want:    "old\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "data.txt")
			if tt.existing != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.existing), 0o644))
			}

			err := Write(path, tt.encode)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temporary files must not be left behind")
		})
	}
}

func TestWrite_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "data.txt")
	require.NoError(t, Write(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "x")
		return err
	}))

	ok, err := Exists(path)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	ok, err := Exists(path)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	require.NoError(t, WriteJSON(path, record{Name: "woord", Count: 3}))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"woord\",\n  \"count\": 3\n}\n", string(contents))

	got, err := ReadJSON[record](path)
	require.NoError(t, err)
	assert.Equal(t, record{Name: "woord", Count: 3}, got)
}

func TestYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.yml")
	require.NoError(t, WriteYAML(path, record{Name: "woord", Count: 3}))

	got, err := ReadYAML[record](path)
	require.NoError(t, err)
	assert.Equal(t, record{Name: "woord", Count: 3}, got)
}

func TestReadJSON_MissingFile(t *testing.T) {
	_, err := ReadJSON[record](filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
