package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/models"
)

// DefaultRecentLimit is the number of most recently posted jobs kept for ranking.
const DefaultRecentLimit = 50

type recentFilter struct {
	toggle
	limit int
}

// NewRecent creates a filter that orders jobs by posting time, newest first,
// and keeps only the most recent ones.
func NewRecent() Filter {
	return &recentFilter{}
}

func (f *recentFilter) Name() string { return "recent" }

func (f *recentFilter) Validate(cfg *Config) error {
	if cfg.RecentLimit < 0 {
		return fmt.Errorf("recent limit must not be negative, got %d", cfg.RecentLimit)
	}
	f.limit = cfg.RecentLimit
	if f.limit == 0 {
		f.limit = DefaultRecentLimit
	}
	return nil
}

func (f *recentFilter) Apply(_ context.Context, deps Deps, jobs *models.Jobs) (*models.Jobs, Step, error) {
	initial := jobs.Len()
	jobs.SortByPostedDesc()
	dropped := jobs.Truncate(f.limit)
	if len(dropped) > 0 {
		deps.Logger.Debug("excluding older jobs",
			zap.Int("limit", f.limit),
			zap.Strings("excluded_jobs", dropped),
		)
	}
	return jobs, Step{Initial: initial, Dropped: len(dropped), Left: jobs.Len()}, nil
}

func (f *recentFilter) Status() Status {
	details := map[string]string{}
	if f.limit > 0 {
		details["limit"] = strconv.Itoa(f.limit)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
