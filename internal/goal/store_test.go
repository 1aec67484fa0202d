package goal

import (
	"commitblock/internal/models"
	"commitblock/internal/structures"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, path string) *Store {
	t.Helper()
	conf := &structures.Config{Threshold: structures.ThresholdConfig{GoalFile: path}}
	return NewStore(conf).(*Store)
}

func writeGoalFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestStore_LoadMissingReturnsDefaults(t *testing.T) {
	store := newTestStore(t, filepath.Join(t.TempDir(), "config.toml"))

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, models.GoalConfig{GithubUsername: "", ContributionGoal: 1}, cfg)
}

func TestStore_Load(t *testing.T) {
	store := newTestStore(t, writeGoalFile(t, "github_username = \"octocat\"\ncontribution_goal = 5\n"))

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "octocat", cfg.GithubUsername)
	assert.Equal(t, uint32(5), cfg.ContributionGoal)
}

func TestStore_LoadPartialUsesDefaults(t *testing.T) {
	store := newTestStore(t, writeGoalFile(t, "github_username = \"octocat\"\n"))

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), cfg.ContributionGoal)
}

func TestStore_LoadMalformed(t *testing.T) {
	store := newTestStore(t, writeGoalFile(t, "github_username = \n[[["))

	_, err := store.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, store.path, perr.Path)
}

func TestStore_LoadRejectsZeroGoal(t *testing.T) {
	store := newTestStore(t, writeGoalFile(t, "contribution_goal = 0\n"))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrParse)
}

func TestStore_LoadRejectsNegativeGoal(t *testing.T) {
	store := newTestStore(t, writeGoalFile(t, "contribution_goal = -3\n"))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrParse)
}

func TestStore_SaveThenLoad(t *testing.T) {
	store := newTestStore(t, filepath.Join(t.TempDir(), "nested", "config.toml"))

	want := models.GoalConfig{GithubUsername: "octocat", ContributionGoal: 7}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_SaveRejectsZeroGoal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	store := newTestStore(t, path)

	assert.Error(t, store.Save(models.GoalConfig{GithubUsername: "octocat"}))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_LoadRejectsNonNumericGoal(t *testing.T) {
	store := newTestStore(t, writeGoalFile(t, "contribution_goal = \"lots\"\n"))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrParse)
}
