package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-matcher/internal/models"
)

const jobsYAML = `jobs:
  - id: older
    title: "  Backend Engineer "
    company: Acme
    keywords: [" Python ", "DOCKER"]
    requiredSkills: [Testing]
    experienceLevel: Senior
    postedAt: "2024-01-01T10:00:00Z"
    salaryRange:
      min: 100000
      max: 150000
    team: platform
  - id: newer
    title: Data Engineer
    company: Beta
    jobType: contract
    postedAt: "2024-02-01T10:00:00Z"
    expiresAt: "2024-06-01T00:00:00Z"
  - id: closed
    title: Old Role
    company: Gamma
    isActive: false
    postedAt: "2024-03-01T10:00:00Z"
  - id: 42
    title: Numeric Id
    company: Delta
    postedAt: "2023-12-01T10:00:00Z"
`

func writeJobsFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileStoreListActive(t *testing.T) {
	t.Parallel()

	store := NewFileStore(writeJobsFile(t, "jobs.yaml", jobsYAML), nil)

	jobs, err := store.ListActive(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"newer", "older", "42"}, jobs.IDs())

	older := jobs.FindByID("older")
	require.NotNil(t, older)
	assert.Equal(t, "Backend Engineer", older.Title)
	assert.Equal(t, []string{"python", "docker"}, older.Keywords)
	assert.Equal(t, []string{"testing"}, older.RequiredSkills)
	assert.Equal(t, models.LevelSenior, older.ExperienceLevel)
	assert.Equal(t, models.JobTypeFullTime, older.JobType)
	assert.True(t, older.Active)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), older.PostedAt.UTC())
	require.NotNil(t, older.SalaryRange)
	assert.Equal(t, 100000, *older.SalaryRange.Min)
	assert.Equal(t, "USD", older.SalaryRange.Currency)

	newer := jobs.FindByID("newer")
	require.NotNil(t, newer)
	assert.Equal(t, models.JobTypeContract, newer.JobType)
	require.NotNil(t, newer.ExpiresAt)
	assert.Equal(t, 2024, newer.ExpiresAt.Year())
}

func TestFileStoreListActiveLimit(t *testing.T) {
	t.Parallel()

	store := NewFileStore(writeJobsFile(t, "jobs.yaml", jobsYAML), nil)

	jobs, err := store.ListActive(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"newer"}, jobs.IDs())
}

func TestFileStoreGetAndCount(t *testing.T) {
	t.Parallel()

	store := NewFileStore(writeJobsFile(t, "jobs.yaml", jobsYAML), nil)
	ctx := context.Background()

	job, err := store.Get(ctx, "closed")
	require.NoError(t, err)
	assert.False(t, job.Active)

	_, err = store.Get(ctx, "missing")
	require.ErrorIs(t, err, models.ErrNotFound)

	count, err := store.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestFileStoreDeactivate(t *testing.T) {
	t.Parallel()

	path := writeJobsFile(t, "jobs.yaml", jobsYAML)
	store := NewFileStore(path, nil)
	ctx := context.Background()

	require.NoError(t, store.Deactivate(ctx, "older"))
	require.NoError(t, store.Deactivate(ctx, "42"))
	require.ErrorIs(t, store.Deactivate(ctx, "missing"), models.ErrNotFound)

	jobs, err := store.ListActive(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"newer"}, jobs.IDs())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "team: platform")

	job, err := store.Get(ctx, "older")
	require.NoError(t, err)
	assert.False(t, job.Active)
	assert.Equal(t, "Backend Engineer", job.Title)
}

func TestFileStoreAll(t *testing.T) {
	t.Parallel()

	jobs, err := NewFileStore(writeJobsFile(t, "jobs.yaml", jobsYAML), nil).All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"older", "newer", "closed", "42"}, jobs.IDs())
	assert.False(t, jobs.FindByID("closed").Active)
	assert.Equal(t, []string{"python", "docker"}, jobs.FindByID("older").Keywords)
}

func TestFileStoreDeactivateLogsTitle(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	store := NewFileStore(writeJobsFile(t, "jobs.yaml", jobsYAML), zap.New(core))

	require.NoError(t, store.Deactivate(context.Background(), "newer"))

	entries := observed.FilterMessage("job deactivated").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "newer", entries[0].ContextMap()["job_id"])
	assert.Equal(t, "Data Engineer", entries[0].ContextMap()["title"])
}

func TestFileStoreJSON(t *testing.T) {
	t.Parallel()

	path := writeJobsFile(t, "jobs.json", `{"jobs": [`+
		`{"id": "j1", "title": "Go Developer", "company": "Acme", "postedAt": "2024-05-01T00:00:00Z"},`+
		`{"id": "j2", "title": "Rust Developer", "company": "Acme", "postedAt": "2024-05-02T00:00:00Z"}`+
		`]}`)
	store := NewFileStore(path, nil)
	ctx := context.Background()

	require.NoError(t, store.Deactivate(ctx, "j2"))

	jobs, err := store.ListActive(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"j1"}, jobs.IDs())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"isActive": false`)
}

func TestFileStoreErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid yaml", content: "jobs: [\n"},
		{name: "jobs is not a list", content: "jobs: nope\n"},
		{name: "missing id", content: "jobs:\n  - title: x\n"},
		{name: "duplicate id", content: "jobs:\n  - id: a\n  - id: a\n"},
		{name: "negative salary", content: "jobs:\n  - id: a\n    salaryRange:\n      min: -1\n"},
		{name: "bad timestamp", content: "jobs:\n  - id: a\n    postedAt: yesterday\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := NewFileStore(writeJobsFile(t, "jobs.yaml", tt.content), nil)
			_, err := store.ListActive(context.Background(), 0)
			require.Error(t, err)
		})
	}

	_, err := NewFileStore(filepath.Join(t.TempDir(), "absent.yaml"), nil).ListActive(context.Background(), 0)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileStoreEmptyDocument(t *testing.T) {
	t.Parallel()

	store := NewFileStore(writeJobsFile(t, "jobs.yaml", ""), nil)
	jobs, err := store.ListActive(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, jobs.Len())
}
