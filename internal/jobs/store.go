// Package jobs loads job postings from a file or a PostgreSQL database.
package jobs

import (
	"context"

	"github.com/spigell/resume-matcher/internal/models"
)

// Store is the job posting source the matcher reads from.
type Store interface {
	// ListActive returns up to limit active jobs, most recently posted first.
	// A limit below 1 returns every active job.
	ListActive(ctx context.Context, limit int) (*models.Jobs, error)
	Get(ctx context.Context, id string) (*models.JobPosting, error)
	CountActive(ctx context.Context) (int, error)
	// Deactivate soft-deletes the job. Unknown IDs yield models.ErrNotFound.
	Deactivate(ctx context.Context, id string) error
}
