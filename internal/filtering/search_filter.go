package filtering

import (
	"context"
	"strings"

	"github.com/spigell/resume-matcher/internal/models"
)

type searchFilter struct {
	toggle
	query string
}

// NewSearch creates a filter that keeps jobs mentioning the configured text in
// the title, description or requirements.
func NewSearch() Filter {
	return &searchFilter{}
}

func (f *searchFilter) Name() string { return "search" }

func (f *searchFilter) Validate(cfg *Config) error {
	f.query = strings.ToLower(strings.TrimSpace(cfg.Search))
	return nil
}

func (f *searchFilter) Apply(_ context.Context, deps Deps, jobs *models.Jobs) (*models.Jobs, Step, error) {
	if f.query == "" {
		next, step := passThrough(jobs)
		return next, step, nil
	}
	next, step := keep(deps, f.Name(), jobs, func(j *models.JobPosting) bool {
		for _, text := range []string{j.Title, j.Description, j.Requirements} {
			if strings.Contains(strings.ToLower(text), f.query) {
				return true
			}
		}
		return false
	})
	return next, step, nil
}

func (f *searchFilter) Status() Status {
	details := map[string]string{}
	if f.query != "" {
		details["query"] = f.query
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
