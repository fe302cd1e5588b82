package history

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReorder(t *testing.T) {
	tests := []struct {
		name  string
		words []string
		word  string
		known bool
		want  []string
	}{
		{
			name:  "unknown word goes to the front",
			words: []string{"de", "het", "een"},
			word:  "een",
			want:  []string{"een", "de", "het"},
		},
		{
			name:  "new unknown word is inserted",
			words: []string{"de"},
			word:  "fiets",
			want:  []string{"fiets", "de"},
		},
		{
			name:  "known word is removed from any position",
			words: []string{"de", "het", "een"},
			word:  "het",
			known: true,
			want:  []string{"de", "een"},
		},
		{
			name:  "known absent word is a no-op",
			words: []string{"de", "het"},
			word:  "fiets",
			known: true,
			want:  []string{"de", "het"},
		},
		{
			name:  "empty history",
			words: nil,
			word:  "kat",
			want:  []string{"kat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := append([]string(nil), tt.words...)
			assert.Equal(t, tt.want, Reorder(tt.words, tt.word, tt.known))
			assert.Equal(t, original, tt.words)
		})
	}
}

func TestReorder_UnknownTouchIsIdempotent(t *testing.T) {
	histories := [][]string{
		{},
		{"a"},
		{"a", "b", "c"},
		{"c", "b", "a"},
		{"x", "a", "y"},
	}
	for _, words := range histories {
		for _, word := range []string{"a", "b", "z"} {
			once := Reorder(words, word, false)
			twice := Reorder(once, word, false)
			assert.Equal(t, once, twice)
			assert.Equal(t, word, twice[0])

			removed := Reorder(twice, word, true)
			assert.NotContains(t, removed, word)
			assert.Len(t, removed, len(twice)-1)
		}
	}
}

type memoryRepository struct {
	words   []string
	saves   int
	loadErr error
}

func (r *memoryRepository) Load(ctx context.Context) ([]string, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return append([]string(nil), r.words...), nil
}

func (r *memoryRepository) Save(ctx context.Context, words []string) error {
	r.words = words
	r.saves++
	return nil
}

func TestStore_Touch(t *testing.T) {
	repo := &memoryRepository{words: []string{"de", "het"}}
	store := NewStore(repo)

	require.NoError(t, store.Touch(context.Background(), "een", false))
	require.NoError(t, store.Touch(context.Background(), "de", true))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"een", "het"}, got)
	assert.Equal(t, 2, repo.saves)
}

func TestStore_Touch_LoadError(t *testing.T) {
	store := NewStore(&memoryRepository{loadErr: errors.New("disk gone")})
	err := store.Touch(context.Background(), "de", false)
	assert.ErrorContains(t, err, "disk gone")
}
