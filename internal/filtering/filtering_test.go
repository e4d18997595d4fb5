package filtering

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-matcher/internal/models"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func fixtureJobs() *models.Jobs {
	return &models.Jobs{Items: []*models.JobPosting{
		{ID: "go-remote", Title: "Go Developer", Company: "Acme Corp", Location: "Remote",
			JobType: models.JobTypeFullTime, ExperienceLevel: models.LevelSenior, Active: true, PostedAt: base.Add(3 * time.Hour)},
		{ID: "py-berlin", Title: "Data Engineer", Company: "Beta GmbH", Location: "Berlin",
			Description: "Python pipelines", JobType: models.JobTypeContract, ExperienceLevel: models.LevelMid,
			Active: true, PostedAt: base.Add(2 * time.Hour)},
		{ID: "closed", Title: "Go Developer", Company: "Acme Corp", Location: "Remote",
			JobType: models.JobTypeFullTime, ExperienceLevel: models.LevelSenior, Active: false, PostedAt: base.Add(4 * time.Hour)},
		{ID: "java-remote", Title: "Backend Engineer", Company: "acme labs", Location: "remote (EU)",
			Requirements: "Java and GO experience", JobType: models.JobTypeFullTime, ExperienceLevel: models.LevelMid,
			Active: true, PostedAt: base.Add(time.Hour)},
	}}
}

func TestRunDefaultPipeline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cfg    *Config
		expect []string
	}{
		{name: "no config keeps active jobs newest first", cfg: nil, expect: []string{"go-remote", "py-berlin", "java-remote"}},
		{name: "job type", cfg: &Config{JobType: "Contract"}, expect: []string{"py-berlin"}},
		{name: "experience level", cfg: &Config{ExperienceLevel: "mid"}, expect: []string{"py-berlin", "java-remote"}},
		{name: "location regex", cfg: &Config{Location: "^remote"}, expect: []string{"go-remote", "java-remote"}},
		{name: "company regex", cfg: &Config{Company: "acme"}, expect: []string{"go-remote", "java-remote"}},
		{name: "search over requirements", cfg: &Config{Search: "go"}, expect: []string{"go-remote", "java-remote"}},
		{name: "search over description", cfg: &Config{Search: "PYTHON"}, expect: []string{"py-berlin"}},
		{name: "recent limit", cfg: &Config{RecentLimit: 2}, expect: []string{"go-remote", "py-berlin"}},
		{name: "combined", cfg: &Config{Location: "remote", ExperienceLevel: "senior"}, expect: []string{"go-remote"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			jobs, err := Run(context.Background(), tt.cfg, Deps{}, Default(), fixtureJobs())
			require.NoError(t, err)
			assert.Equal(t, tt.expect, jobs.IDs())
		})
	}
}

func TestRunValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  *Config
		step string
	}{
		{name: "unknown job type", cfg: &Config{JobType: "gig"}, step: "job_type"},
		{name: "unknown level", cfg: &Config{ExperienceLevel: "guru"}, step: "experience_level"},
		{name: "bad location regex", cfg: &Config{Location: "("}, step: "location"},
		{name: "bad company regex", cfg: &Config{Company: "[a"}, step: "company"},
		{name: "negative recent limit", cfg: &Config{RecentLimit: -1}, step: "recent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Run(context.Background(), tt.cfg, Deps{}, Default(), fixtureJobs())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.step+":")
		})
	}
}

func TestRecentKeepsFiftyMostRecent(t *testing.T) {
	t.Parallel()

	jobs := &models.Jobs{}
	for i := range 60 {
		jobs.Items = append(jobs.Items, &models.JobPosting{
			ID:       fmt.Sprintf("job-%02d", i),
			Active:   true,
			PostedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	got, err := Run(context.Background(), &Config{}, Deps{}, Default(), jobs)
	require.NoError(t, err)
	require.Equal(t, DefaultRecentLimit, got.Len())
	assert.Equal(t, "job-59", got.Items[0].ID)
	assert.Equal(t, "job-10", got.Items[DefaultRecentLimit-1].ID)
}

func TestDisableByName(t *testing.T) {
	t.Parallel()

	steps := Default()
	DisableByName(steps, "active", "include archived jobs")

	jobs, err := Run(context.Background(), nil, Deps{}, steps, fixtureJobs())
	require.NoError(t, err)
	assert.Equal(t, []string{"closed", "go-remote", "py-berlin", "java-remote"}, jobs.IDs())

	statuses := Describe(steps)
	require.Len(t, statuses, len(steps))
	assert.Equal(t, Status{Name: "active", Enabled: false, Reason: "include archived jobs"}, statuses[0])
}

func TestDisabledFilterSkipsValidation(t *testing.T) {
	t.Parallel()

	steps := Default()
	DisableByName(steps, "location", "manual override")

	_, err := Run(context.Background(), &Config{Location: "("}, Deps{}, steps, fixtureJobs())
	require.NoError(t, err)
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	steps := Default()
	_, err := Run(context.Background(), &Config{JobType: "full-time", Company: "acme", Search: " Go "}, Deps{}, steps, fixtureJobs())
	require.NoError(t, err)

	byName := map[string]Status{}
	for _, s := range Describe(steps) {
		byName[s.Name] = s
	}

	assert.Equal(t, "full-time", byName["job_type"].Details["job_type"])
	assert.Equal(t, "(?i)acme", byName["company"].Details["pattern"])
	assert.Equal(t, "go", byName["search"].Details["query"])
	assert.Equal(t, "50", byName["recent"].Details["limit"])
	assert.Empty(t, byName["location"].Details)
	assert.True(t, byName["active"].Enabled)
}

func TestRunLogsSteps(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	deps := Deps{Logger: zap.New(core)}

	steps := Default()
	DisableByName(steps, "search", "not needed")

	_, err := Run(context.Background(), nil, deps, steps, fixtureJobs())
	require.NoError(t, err)

	stepsLogged := observed.FilterMessage("filter step").All()
	require.Len(t, stepsLogged, len(steps)-1)

	first := stepsLogged[0].ContextMap()
	assert.Equal(t, "active", first["name"])
	assert.Equal(t, int64(4), first["initial"])
	assert.Equal(t, int64(1), first["dropped"])
	assert.Equal(t, int64(3), first["left"])

	disabled := observed.FilterMessage("filter disabled").All()
	require.Len(t, disabled, 1)
	assert.Equal(t, "search", disabled[0].ContextMap()["name"])

	excluded := observed.FilterMessage("excluding jobs").All()
	require.Len(t, excluded, 1)
	assert.Equal(t, []interface{}{"closed"}, excluded[0].ContextMap()["excluded_jobs"])
}

func TestRunCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, nil, Deps{}, Default(), fixtureJobs())
	require.ErrorIs(t, err, context.Canceled)
}
