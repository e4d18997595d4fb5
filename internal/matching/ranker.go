package matching

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-matcher/internal/models"
)

// DefaultCandidateLimit is the size of the job set the surrounding system
// hands to Rank: the most recently posted active jobs.
const DefaultCandidateLimit = 50

var ErrInvalidLimit = errors.New("limit must be at least 1")

// Ranker scores a bounded set of jobs in parallel and orders them by score.
type Ranker struct {
	scorer  *Scorer
	workers int
	logger  *zap.Logger
}

// NewRanker creates a ranker. workers <= 0 means one worker per CPU.
func NewRanker(scorer *Scorer, workers int, logger *zap.Logger) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if scorer == nil {
		scorer = NewScorer(logger)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Ranker{scorer: scorer, workers: workers, logger: logger}
}

// Rank scores every job, sorts by descending score and keeps the first limit
// results. Jobs with equal scores keep their input order.
func (r *Ranker) Rank(ctx context.Context, profile *models.CandidateProfile, jobs []*models.JobPosting, limit int) ([]*models.MatchResult, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidLimit, limit)
	}

	results := make([]*models.MatchResult, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.scorer.Score(profile, job)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scoring jobs: %w", err)
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}

	r.logger.Debug("jobs ranked",
		zap.Int("candidates", len(jobs)),
		zap.Int("limit", limit),
		zap.Int("returned", len(results)),
	)

	return results, nil
}
