package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-matcher/internal/models"
)

var columns = []string{
	"id", "title", "company", "description", "requirements", "location", "job_type",
	"experience_level", "required_skills", "preferred_skills", "keywords", "salary_min",
	"salary_max", "salary_currency", "is_active", "posted_at", "expires_at",
	"application_url", "contact_email",
}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db, nil), mock
}

func TestPostgresListActive(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	posted := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM jobs WHERE is_active = true ORDER BY posted_at DESC LIMIT \$1`).
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("j1", "Go Developer", "Acme", "build services", "", "Remote", "full-time",
				"senior", []byte("{go,testing}"), []byte("{}"), []byte("{go,docker}"), 90000,
				nil, nil, true, posted, nil, "https://acme.example/jobs/1", "").
			AddRow("j2", "Analyst", "Beta", "", "", "", "contract",
				"entry", []byte("{}"), []byte("{sql}"), []byte("{}"), nil,
				nil, nil, true, posted.Add(-time.Hour), posted.Add(24*time.Hour), "", "hr@beta.example"))

	jobs, err := store.ListActive(context.Background(), 50)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, []string{"j1", "j2"}, jobs.IDs())

	j1 := jobs.Items[0]
	assert.Equal(t, []string{"go", "testing"}, j1.RequiredSkills)
	assert.Equal(t, []string{"go", "docker"}, j1.Keywords)
	assert.Equal(t, models.LevelSenior, j1.ExperienceLevel)
	require.NotNil(t, j1.SalaryRange)
	assert.Equal(t, 90000, *j1.SalaryRange.Min)
	assert.Nil(t, j1.SalaryRange.Max)
	assert.Equal(t, "USD", j1.SalaryRange.Currency)
	assert.Nil(t, j1.ExpiresAt)

	j2 := jobs.Items[1]
	assert.Nil(t, j2.SalaryRange)
	assert.Equal(t, []string{"sql"}, j2.PreferredSkills)
	require.NotNil(t, j2.ExpiresAt)
	assert.Equal(t, models.JobTypeContract, j2.JobType)
}

func TestPostgresListActiveWithoutLimit(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery(`ORDER BY posted_at DESC$`).
		WillReturnRows(sqlmock.NewRows(columns))

	jobs, err := store.ListActive(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, jobs.Len())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGet(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery(`FROM jobs WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := store.Get(context.Background(), "missing")
	require.ErrorIs(t, err, models.ErrNotFound)

	mock.ExpectQuery(`FROM jobs WHERE id = \$1`).
		WithArgs("boom").
		WillReturnError(errors.New("connection reset"))

	_, err = store.Get(context.Background(), "boom")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCountActive(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM jobs WHERE is_active = true`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := store.CountActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeactivate(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectExec(`UPDATE jobs SET is_active = false WHERE id = \$1`).
		WithArgs("j1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE jobs SET is_active = false WHERE id = \$1`).
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Deactivate(context.Background(), "j1"))
	require.ErrorIs(t, store.Deactivate(context.Background(), "nope"), models.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInsert(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	minSalary := 50000

	job := models.NewJobPosting()
	job.ID = "j9"
	job.Title = " Go Developer "
	job.Company = "Acme"
	job.Keywords = []string{" GO "}
	job.SalaryRange = &models.SalaryRange{Min: &minSalary}

	mock.ExpectExec(`INSERT INTO jobs`).
		WithArgs("j9", "Go Developer", "Acme", "", "", "", "full-time", "mid",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			true, sqlmock.AnyArg(), sqlmock.AnyArg(), "", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Insert(context.Background(), job))
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{"go"}, job.Keywords)
}

func TestPostgresInsertRejectsInvalidSalary(t *testing.T) {
	t.Parallel()

	store, _ := newMockStore(t)
	minSalary, maxSalary := 10, 5
	job := &models.JobPosting{ID: "bad", SalaryRange: &models.SalaryRange{Min: &minSalary, Max: &maxSalary}}

	require.Error(t, store.Insert(context.Background(), job))
}

func TestPostgresMigrate(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS jobs`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
