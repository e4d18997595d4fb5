package filtering

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/spigell/resume-matcher/internal/models"
)

// patternFilter keeps jobs whose field matches a case-insensitive regular expression.
type patternFilter struct {
	toggle
	name    string
	source  func(*Config) string
	field   func(*models.JobPosting) string
	pattern *regexp.Regexp
}

// NewLocation creates a filter on the job location.
func NewLocation() Filter {
	return &patternFilter{
		name:   "location",
		source: func(c *Config) string { return c.Location },
		field:  func(j *models.JobPosting) string { return j.Location },
	}
}

// NewCompany creates a filter on the company name.
func NewCompany() Filter {
	return &patternFilter{
		name:   "company",
		source: func(c *Config) string { return c.Company },
		field:  func(j *models.JobPosting) string { return j.Company },
	}
}

func (f *patternFilter) Name() string { return f.name }

func (f *patternFilter) Validate(cfg *Config) error {
	f.pattern = nil
	expr := strings.TrimSpace(f.source(cfg))
	if expr == "" {
		return nil
	}
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return fmt.Errorf("compiling %s pattern: %w", f.name, err)
	}
	f.pattern = re
	return nil
}

func (f *patternFilter) Apply(_ context.Context, deps Deps, jobs *models.Jobs) (*models.Jobs, Step, error) {
	if f.pattern == nil {
		next, step := passThrough(jobs)
		return next, step, nil
	}
	next, step := keep(deps, f.name, jobs, func(j *models.JobPosting) bool {
		return f.pattern.MatchString(f.field(j))
	})
	return next, step, nil
}

func (f *patternFilter) Status() Status {
	details := map[string]string{}
	if f.pattern != nil {
		details["pattern"] = f.pattern.String()
	}
	return Status{Name: f.name, Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
