package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/models"
)

// Schema creates the jobs table used by PostgresStore.
const Schema = `CREATE TABLE IF NOT EXISTS jobs (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	company          TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	requirements     TEXT NOT NULL DEFAULT '',
	location         TEXT NOT NULL DEFAULT '',
	job_type         TEXT NOT NULL DEFAULT 'full-time',
	experience_level TEXT NOT NULL DEFAULT 'mid',
	required_skills  TEXT[] NOT NULL DEFAULT '{}',
	preferred_skills TEXT[] NOT NULL DEFAULT '{}',
	keywords         TEXT[] NOT NULL DEFAULT '{}',
	salary_min       INTEGER,
	salary_max       INTEGER,
	salary_currency  TEXT,
	is_active        BOOLEAN NOT NULL DEFAULT TRUE,
	posted_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at       TIMESTAMPTZ,
	application_url  TEXT NOT NULL DEFAULT '',
	contact_email    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS jobs_active_posted_idx ON jobs (is_active, posted_at DESC);`

const jobColumns = `id, title, company, description, requirements, location, job_type,
	experience_level, required_skills, preferred_skills, keywords, salary_min,
	salary_max, salary_currency, is_active, posted_at, expires_at,
	application_url, contact_email`

// PostgresStore reads job postings from the jobs table.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenPostgres connects to dsn through lib/pq and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	return NewPostgresStore(db, logger), nil
}

func NewPostgresStore(db *sql.DB, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, logger: logger}
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Migrate creates the jobs table when it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("creating jobs schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListActive(ctx context.Context, limit int) (*models.Jobs, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE is_active = true ORDER BY posted_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying active jobs: %w", err)
	}
	defer rows.Close()

	jobs := &models.Jobs{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		jobs.Items = append(jobs.Items, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}

	s.logger.Debug("active jobs loaded", zap.Int("count", jobs.Len()), zap.Int("limit", limit))
	return jobs, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.JobPosting, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %q: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting job %q: %w", id, err)
	}
	return job, nil
}

func (s *PostgresStore) CountActive(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs WHERE is_active = true`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting active jobs: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) Deactivate(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE jobs SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivating job %q: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivating job %q: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("job %q: %w", id, models.ErrNotFound)
	}

	s.logger.Info("job deactivated", zap.String("job_id", id))
	return nil
}

// Insert stores a new job posting after normalizing it.
func (s *PostgresStore) Insert(ctx context.Context, job *models.JobPosting) error {
	job.Normalize()
	if err := job.SalaryRange.Validate(); err != nil {
		return fmt.Errorf("job %q: %w", job.ID, err)
	}

	var (
		salaryMin, salaryMax sql.NullInt64
		currency             sql.NullString
	)
	if sr := job.SalaryRange; sr != nil {
		if sr.Min != nil {
			salaryMin = sql.NullInt64{Int64: int64(*sr.Min), Valid: true}
		}
		if sr.Max != nil {
			salaryMax = sql.NullInt64{Int64: int64(*sr.Max), Valid: true}
		}
		currency = sql.NullString{String: sr.Currency, Valid: true}
	}

	var expires sql.NullTime
	if job.ExpiresAt != nil {
		expires = sql.NullTime{Time: *job.ExpiresAt, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO jobs (`+jobColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		job.ID, job.Title, job.Company, job.Description, job.Requirements, job.Location,
		string(job.JobType), string(job.ExperienceLevel),
		pq.Array(nonNil(job.RequiredSkills)), pq.Array(nonNil(job.PreferredSkills)), pq.Array(nonNil(job.Keywords)),
		salaryMin, salaryMax, currency, job.Active, job.PostedAt, expires,
		job.ApplicationURL, job.ContactEmail,
	)
	if err != nil {
		return fmt.Errorf("inserting job %q: %w", job.ID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*models.JobPosting, error) {
	var (
		job                  models.JobPosting
		jobType, level       string
		salaryMin, salaryMax sql.NullInt64
		currency             sql.NullString
		expires              sql.NullTime
	)

	err := row.Scan(
		&job.ID, &job.Title, &job.Company, &job.Description, &job.Requirements, &job.Location,
		&jobType, &level,
		pq.Array(&job.RequiredSkills), pq.Array(&job.PreferredSkills), pq.Array(&job.Keywords),
		&salaryMin, &salaryMax, &currency, &job.Active, &job.PostedAt, &expires,
		&job.ApplicationURL, &job.ContactEmail,
	)
	if err != nil {
		return nil, err
	}

	job.JobType = models.JobType(jobType)
	job.ExperienceLevel = models.ExperienceLevel(level)

	if salaryMin.Valid || salaryMax.Valid || currency.Valid {
		job.SalaryRange = &models.SalaryRange{Currency: currency.String}
		if salaryMin.Valid {
			v := int(salaryMin.Int64)
			job.SalaryRange.Min = &v
		}
		if salaryMax.Valid {
			v := int(salaryMax.Int64)
			job.SalaryRange.Max = &v
		}
	}
	if expires.Valid {
		t := expires.Time
		job.ExpiresAt = &t
	}

	job.Normalize()
	return &job, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
