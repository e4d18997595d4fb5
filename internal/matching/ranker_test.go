package matching

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-matcher/internal/models"
)

func rankFixture() (*models.CandidateProfile, []*models.JobPosting) {
	profile := &models.CandidateProfile{
		Keywords: []string{"python", "docker"},
		Skills:   []string{"testing"},
	}
	jobs := []*models.JobPosting{
		{ID: "none", Keywords: []string{"java"}},
		{ID: "half", Keywords: []string{"python", "java"}},
		{ID: "full", Keywords: []string{"python", "docker"}, RequiredSkills: []string{"testing"}},
		{ID: "half-again", Keywords: []string{"docker", "rust"}},
	}
	return profile, jobs
}

func ids(results []*models.MatchResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.JobID())
	}
	return out
}

func TestRankOrdersByScore(t *testing.T) {
	t.Parallel()

	profile, jobs := rankFixture()
	ranker := NewRanker(NewScorer(nil), 2, nil)

	results, err := ranker.Rank(context.Background(), profile, jobs, 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"full", "half", "half-again", "none"}, ids(results))
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestRankRespectsLimit(t *testing.T) {
	t.Parallel()

	profile, jobs := rankFixture()
	ranker := NewRanker(nil, 0, nil)

	for limit := 1; limit <= len(jobs)+1; limit++ {
		t.Run(fmt.Sprintf("limit %d", limit), func(t *testing.T) {
			t.Parallel()
			results, err := ranker.Rank(context.Background(), profile, jobs, limit)
			require.NoError(t, err)
			assert.Len(t, results, min(limit, len(jobs)))
		})
	}
}

func TestRankKeepsInputOrderOnTies(t *testing.T) {
	t.Parallel()

	profile := &models.CandidateProfile{}
	jobs := make([]*models.JobPosting, 0, 20)
	want := make([]string, 0, 20)
	for i := range 20 {
		id := fmt.Sprintf("job-%02d", i)
		jobs = append(jobs, &models.JobPosting{ID: id})
		want = append(want, id)
	}

	results, err := NewRanker(nil, 4, nil).Rank(context.Background(), profile, jobs, 20)
	require.NoError(t, err)
	assert.Equal(t, want, ids(results))
}

func TestRankEmptyJobs(t *testing.T) {
	t.Parallel()

	results, err := NewRanker(nil, 1, nil).Rank(context.Background(), &models.CandidateProfile{}, nil, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRankRejectsInvalidLimit(t *testing.T) {
	t.Parallel()

	profile, jobs := rankFixture()
	for _, limit := range []int{0, -1} {
		_, err := NewRanker(nil, 1, nil).Rank(context.Background(), profile, jobs, limit)
		require.ErrorIs(t, err, ErrInvalidLimit)
	}
}

func TestRankCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	profile, jobs := rankFixture()
	_, err := NewRanker(nil, 1, nil).Rank(ctx, profile, jobs, 2)
	require.ErrorIs(t, err, context.Canceled)
}
