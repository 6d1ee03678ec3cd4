package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/poiesic/skillmatch/core"
	"github.com/poiesic/skillmatch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func withSkills(t *testing.T, id string, skills ...string) *core.CandidateRecord {
	t.Helper()
	record := &core.CandidateRecord{Id: id, Name: "Candidate " + id}
	if skills != nil {
		require.NoError(t, record.SetKeySkills(skills))
	}
	return record
}

func TestResumes(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.AddResume(ctx, &core.Resume{Id: "zz", Content: "first resume"})
	require.NoError(t, err)
	assert.Equal(t, core.ContentHash("first resume"), first.ContentHash)

	_, err = store.AddResume(ctx, &core.Resume{Id: "aa", Content: "second resume"})
	require.NoError(t, err)

	dup, err := store.AddResume(ctx, &core.Resume{Id: "other", Content: "first resume"})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	require.NotNil(t, dup)
	assert.Equal(t, "zz", dup.Id)

	got, err := store.GetResume(ctx, "aa")
	require.NoError(t, err)
	assert.Equal(t, "second resume", got.Content)

	_, err = store.GetResume(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	list, err := store.ListResumes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "zz", list[0].Id)
	assert.Equal(t, "aa", list[1].Id)
}

func TestCandidates_UpsertKeepsOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.SaveCandidates(ctx, withSkills(t, "b", "Go"), withSkills(t, "a", "Rust"))
	require.NoError(t, err)
	original, err := store.GetCandidate(ctx, "b")
	require.NoError(t, err)

	_, err = store.SaveCandidates(ctx, withSkills(t, "b", "Go", "SQL"))
	require.NoError(t, err)

	got, err := store.GetCandidate(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "Go, SQL", got.SkillText)
	assert.Equal(t, original.InsertedAt, got.InsertedAt)

	list, err := store.ListCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Id)
	assert.Equal(t, "a", list[1].Id)
}

func TestCandidates_Eligibility(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	tabbed := withSkills(t, "tabbed")
	tabbed.SkillText = "\t\n"
	_, err := store.SaveCandidates(ctx,
		withSkills(t, "python", "Python"),
		withSkills(t, "none"),
		tabbed,
		withSkills(t, "java", "Java"),
	)
	require.NoError(t, err)

	eligible, err := store.ListEligibleCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, eligible, 2)
	assert.Equal(t, "python", eligible[0].Id)
	assert.Equal(t, "java", eligible[1].Id)
}

func TestCandidates_FlatSkills(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	bad := withSkills(t, "bad")
	bad.SkillText = "python"
	bad.KeySkills = "[python"
	_, err := store.SaveCandidates(ctx, withSkills(t, "good", "Python", "Excel"), bad)
	require.NoError(t, err)

	skills, err := store.GetFlatSkills(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "Excel"}, skills)

	skills, err = store.GetFlatSkills(ctx, "bad")
	require.NoError(t, err)
	assert.Empty(t, skills)

	skills, err = store.GetFlatSkills(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, skills)
}

func TestCandidates_Delete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.SaveCandidates(ctx, withSkills(t, "c1", "Go"))
	require.NoError(t, err)

	require.NoError(t, store.DeleteCandidates(ctx, "c1"))
	_, err = store.GetCandidate(ctx, "c1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, store.DeleteCandidates(ctx, "c1"), storage.ErrNotFound)
}

func TestOpen_FileReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "skillmatch.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	_, err = store.SaveCandidates(ctx, withSkills(t, "c1", "Go"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.GetCandidate(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Go", got.SkillText)
}
