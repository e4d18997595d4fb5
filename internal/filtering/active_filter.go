package filtering

import (
	"context"

	"github.com/spigell/resume-matcher/internal/models"
)

type activeFilter struct {
	toggle
}

// NewActive creates a filter that removes deactivated job postings.
func NewActive() Filter {
	return &activeFilter{}
}

func (f *activeFilter) Name() string { return "active" }

func (f *activeFilter) Validate(*Config) error { return nil }

func (f *activeFilter) Apply(_ context.Context, deps Deps, jobs *models.Jobs) (*models.Jobs, Step, error) {
	next, step := keep(deps, f.Name(), jobs, func(j *models.JobPosting) bool { return j.Active })
	return next, step, nil
}

func (f *activeFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
