package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/skillmatch/core"
	"github.com/poiesic/skillmatch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(t *testing.T, id string, skills ...string) *core.CandidateRecord {
	t.Helper()
	record := &core.CandidateRecord{Id: id, Name: "Candidate " + id, Email: id + "@example.com"}
	if skills != nil {
		require.NoError(t, record.SetKeySkills(skills))
	}
	return record
}

func TestSaveCandidates_InsertAndGet(t *testing.T) {
	_, repo := setupRepositories(t)
	ctx := context.Background()

	saved, err := repo.SaveCandidates(ctx, candidate(t, "c1", "Python", "SQL"))
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.False(t, saved[0].InsertedAt.IsZero())

	got, err := repo.GetCandidate(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Candidate c1", got.Name)
	assert.Equal(t, "Python, SQL", got.SkillText)
}

func TestSaveCandidates_ReplaceKeepsPositionAndInsertedAt(t *testing.T) {
	_, repo := setupRepositories(t)
	ctx := context.Background()

	_, err := repo.SaveCandidates(ctx, candidate(t, "b", "Go"), candidate(t, "a", "Rust"))
	require.NoError(t, err)
	original, err := repo.GetCandidate(ctx, "b")
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	updated := candidate(t, "b", "Go", "Kubernetes")
	_, err = repo.SaveCandidates(ctx, updated)
	require.NoError(t, err)

	got, err := repo.GetCandidate(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, original.InsertedAt, got.InsertedAt)
	assert.True(t, got.UpdatedAt.After(original.UpdatedAt))
	assert.Equal(t, "Go, Kubernetes", got.SkillText)

	list, err := repo.ListCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Id)
	assert.Equal(t, "a", list[1].Id)
}

func TestSaveCandidates_Invalid(t *testing.T) {
	_, repo := setupRepositories(t)

	_, err := repo.SaveCandidates(context.Background(), &core.CandidateRecord{Name: "no id"})
	assert.ErrorIs(t, err, core.ErrEmptyID)
}

func TestGetCandidate_NotFound(t *testing.T) {
	_, repo := setupRepositories(t)

	_, err := repo.GetCandidate(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListEligibleCandidates(t *testing.T) {
	_, repo := setupRepositories(t)
	ctx := context.Background()

	blank := candidate(t, "blank")
	blank.SkillText = "   "
	_, err := repo.SaveCandidates(ctx,
		candidate(t, "z-python", "Python"),
		candidate(t, "no-skills"),
		blank,
		candidate(t, "a-java", "Java"),
	)
	require.NoError(t, err)

	eligible, err := repo.ListEligibleCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, eligible, 2)
	assert.Equal(t, "z-python", eligible[0].Id)
	assert.Equal(t, "a-java", eligible[1].Id)

	all, err := repo.ListCandidates(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestGetFlatSkills(t *testing.T) {
	_, repo := setupRepositories(t)
	ctx := context.Background()

	malformed := candidate(t, "bad")
	malformed.SkillText = "python"
	malformed.KeySkills = `{"python": true}`
	_, err := repo.SaveCandidates(ctx, candidate(t, "good", "Python", "Excel"), malformed)
	require.NoError(t, err)

	skills, err := repo.GetFlatSkills(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "Excel"}, skills)

	skills, err = repo.GetFlatSkills(ctx, "bad")
	require.NoError(t, err)
	assert.Empty(t, skills)

	skills, err = repo.GetFlatSkills(ctx, "unknown")
	require.NoError(t, err)
	assert.NotNil(t, skills)
	assert.Empty(t, skills)
}

func TestDeleteCandidates(t *testing.T) {
	_, repo := setupRepositories(t)
	ctx := context.Background()

	_, err := repo.SaveCandidates(ctx, candidate(t, "c1", "Go"), candidate(t, "c2", "Go"))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteCandidates(ctx, "c1"))

	_, err = repo.GetCandidate(ctx, "c1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	list, err := repo.ListCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c2", list[0].Id)

	err = repo.DeleteCandidates(ctx, "c1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRepositoriesPersistAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	resumes, candidates, backend, err := OpenRepositories(dir)
	require.NoError(t, err)
	_, err = candidates.SaveCandidates(ctx, candidate(t, "c1", "Go"))
	require.NoError(t, err)
	_, err = resumes.AddResume(ctx, &core.Resume{Id: "c1", Content: "Go developer"})
	require.NoError(t, err)
	resumes.Close()
	candidates.Close()
	require.NoError(t, backend.Close())

	resumes, candidates, backend, err = OpenRepositories(dir)
	require.NoError(t, err)
	defer func() {
		resumes.Close()
		candidates.Close()
		backend.Close()
	}()

	got, err := candidates.GetCandidate(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Go", got.SkillText)

	_, err = candidates.SaveCandidates(ctx, candidate(t, "c2", "Rust"))
	require.NoError(t, err)
	list, err := candidates.ListCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c1", list[0].Id)
	assert.Equal(t, "c2", list[1].Id)
}
