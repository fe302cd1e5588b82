package progress

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRepository_Load_Missing(t *testing.T) {
	for _, name := range []string{"profile_settings.json", "profile.yml"} {
		t.Run(name, func(t *testing.T) {
			_, err := NewFileRepository(filepath.Join(t.TempDir(), name)).Load(context.Background())
			assert.ErrorIs(t, err, ErrNoProfile)
		})
	}
}

func TestFileRepository_JSONIsFixedPoint(t *testing.T) {
	content := `{
  "daily_target": 15,
  "milestones_rewards": [
    {
      "milestone": 100,
      "reward": "stroopwafels & koffie"
    }
  ],
  "total_words_learned": 7
}
`
	path := filepath.Join(t.TempDir(), "profile_settings.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	repo := NewFileRepository(path)

	profile, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Profile{
		DailyTarget:       intPtr(15),
		Milestones:        []Milestone{{Threshold: 100, Reward: "stroopwafels & koffie"}},
		TotalWordsLearned: 7,
	}, profile)

	require.NoError(t, repo.Save(context.Background(), profile))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestFileRepository_SaveDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile_settings.json")
	repo := NewFileRepository(path)
	require.NoError(t, repo.Save(context.Background(), Profile{}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"daily_target\": null,\n  \"milestones_rewards\": [],\n  \"total_words_learned\": 0\n}\n", string(got))
}

func TestFileRepository_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	repo := NewFileRepository(path)
	want := Profile{
		DailyTarget:       intPtr(5),
		Milestones:        []Milestone{{Threshold: 3, Reward: "ijsje"}},
		TotalWordsLearned: 2,
	}

	require.NoError(t, repo.Save(context.Background(), want))
	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "milestones_rewards:\n  - milestone: 3\n    reward: ijsje\n")
}
