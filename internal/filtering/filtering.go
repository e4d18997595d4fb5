// Package filtering narrows the stored job postings down to the candidate set
// handed to the ranker.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/models"
)

// Filter represents a single filtering step applied to job postings.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, jobs *models.Jobs) (*models.Jobs, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger *zap.Logger
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the filters.
// Empty values leave the corresponding filter as a pass-through.
type Config struct {
	JobType         string `mapstructure:"job-type"`
	ExperienceLevel string `mapstructure:"experience-level"`
	// Location and Company are case-insensitive regular expressions.
	Location string `mapstructure:"location"`
	Company  string `mapstructure:"company"`
	Search   string `mapstructure:"search"`
	// RecentLimit caps the candidate set. Zero means DefaultRecentLimit.
	RecentLimit int `mapstructure:"-"`
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// Default returns the standard pipeline in execution order.
func Default() []Filter {
	return []Filter{
		NewActive(),
		NewJobType(),
		NewExperienceLevel(),
		NewLocation(),
		NewCompany(),
		NewSearch(),
		NewRecent(),
	}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run validates every enabled filter and then applies them sequentially.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, jobs *models.Jobs) (*models.Jobs, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = &Config{}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			deps.Logger.Info("filter disabled", zap.String("name", step.Name()))
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next, info, err := step.Apply(ctx, deps, jobs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		deps.Logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		jobs = next
	}

	return jobs, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// toggle carries the enabled state shared by every filter.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

// keep applies predicate to jobs and reports the step.
func keep(deps Deps, name string, jobs *models.Jobs, predicate func(*models.JobPosting) bool) (*models.Jobs, Step) {
	initial := jobs.Len()
	dropped := jobs.Keep(predicate)
	if len(dropped) > 0 {
		deps.Logger.Debug("excluding jobs",
			zap.String("filter", name),
			zap.Strings("excluded_jobs", dropped),
			zap.Int("jobs_left", jobs.Len()),
		)
	}
	return jobs, Step{Initial: initial, Dropped: len(dropped), Left: jobs.Len()}
}

func passThrough(jobs *models.Jobs) (*models.Jobs, Step) {
	return jobs, Step{Initial: jobs.Len(), Dropped: 0, Left: jobs.Len()}
}
