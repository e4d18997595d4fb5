package filtering

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/resume-matcher/internal/models"
)

type jobTypeFilter struct {
	toggle
	jobType models.JobType
}

// NewJobType creates a filter that keeps only jobs of the configured type.
func NewJobType() Filter {
	return &jobTypeFilter{}
}

func (f *jobTypeFilter) Name() string { return "job_type" }

func (f *jobTypeFilter) Validate(cfg *Config) error {
	f.jobType = ""
	if strings.TrimSpace(cfg.JobType) == "" {
		return nil
	}
	t, err := models.ParseJobType(cfg.JobType)
	if err != nil {
		return err
	}
	f.jobType = t
	return nil
}

func (f *jobTypeFilter) Apply(_ context.Context, deps Deps, jobs *models.Jobs) (*models.Jobs, Step, error) {
	if f.jobType == "" {
		next, step := passThrough(jobs)
		return next, step, nil
	}
	next, step := keep(deps, f.Name(), jobs, func(j *models.JobPosting) bool { return j.JobType == f.jobType })
	return next, step, nil
}

func (f *jobTypeFilter) Status() Status {
	details := map[string]string{}
	if f.jobType != "" {
		details["job_type"] = string(f.jobType)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

type experienceLevelFilter struct {
	toggle
	level models.ExperienceLevel
}

// NewExperienceLevel creates a filter that keeps only jobs of the configured level.
func NewExperienceLevel() Filter {
	return &experienceLevelFilter{}
}

func (f *experienceLevelFilter) Name() string { return "experience_level" }

func (f *experienceLevelFilter) Validate(cfg *Config) error {
	f.level = ""
	if strings.TrimSpace(cfg.ExperienceLevel) == "" {
		return nil
	}
	l, err := models.ParseExperienceLevel(cfg.ExperienceLevel)
	if err != nil {
		return fmt.Errorf("validating experience level: %w", err)
	}
	f.level = l
	return nil
}

func (f *experienceLevelFilter) Apply(_ context.Context, deps Deps, jobs *models.Jobs) (*models.Jobs, Step, error) {
	if f.level == "" {
		next, step := passThrough(jobs)
		return next, step, nil
	}
	next, step := keep(deps, f.Name(), jobs, func(j *models.JobPosting) bool { return j.ExperienceLevel == f.level })
	return next, step, nil
}

func (f *experienceLevelFilter) Status() Status {
	details := map[string]string{}
	if f.level != "" {
		details["experience_level"] = string(f.level)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
