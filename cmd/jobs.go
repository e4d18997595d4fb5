package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/jobs"
	"github.com/spigell/resume-matcher/internal/models"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect and manage the job postings",
}

var jobsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print job type, experience level and salary statistics of the active jobs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		log := newLogger()
		defer log.Sync()

		config, err := getConfig()
		if err != nil {
			log.Fatal("getting a config", zap.Error(err))
		}

		store, closeStore, err := openStore(ctx, config.Jobs, log)
		if err != nil {
			log.Fatal("opening job store", zap.Error(err))
		}
		defer closeStore()

		sample, err := store.ListActive(ctx, jobs.StatsSampleSize)
		if err != nil {
			log.Fatal("loading jobs", zap.Error(err))
		}
		total, err := store.CountActive(ctx)
		if err != nil {
			log.Fatal("counting jobs", zap.Error(err))
		}

		if err := printJSON(cmd, jobs.ComputeStats(total, sample)); err != nil {
			log.Fatal("printing stats", zap.Error(err))
		}
	},
}

var jobsDeactivateCmd = &cobra.Command{
	Use:   "deactivate <job-id>",
	Short: "Soft-delete a job posting so it is no longer matched",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ctx := context.Background()
		log := newLogger()
		defer log.Sync()

		config, err := getConfig()
		if err != nil {
			log.Fatal("getting a config", zap.Error(err))
		}

		store, closeStore, err := openStore(ctx, config.Jobs, log)
		if err != nil {
			log.Fatal("opening job store", zap.Error(err))
		}
		defer closeStore()

		if err := store.Deactivate(ctx, args[0]); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				log.Fatal("job not found", zap.String("job_id", args[0]))
			}
			log.Fatal("deactivating job", zap.Error(err))
		}
		log.Info("job deactivated", zap.String("job_id", args[0]))
	},
}

var jobsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the jobs table in PostgreSQL",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		ctx := context.Background()
		log := newLogger()
		defer log.Sync()

		config, err := getConfig()
		if err != nil {
			log.Fatal("getting a config", zap.Error(err))
		}

		store, err := openPostgres(ctx, config.Jobs, log)
		if err != nil {
			log.Fatal("opening postgres job store", zap.Error(err))
		}
		defer store.Close()

		if err := store.Migrate(ctx); err != nil {
			log.Fatal("migrating", zap.Error(err))
		}
		log.Info("jobs schema is up to date")
	},
}

var jobsAddCmd = &cobra.Command{
	Use:   "add <jobs-file>",
	Short: "Insert the postings of a YAML or JSON jobs file into PostgreSQL",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ctx := context.Background()
		log := newLogger()
		defer log.Sync()

		config, err := getConfig()
		if err != nil {
			log.Fatal("getting a config", zap.Error(err))
		}

		postings, err := jobs.NewFileStore(args[0], log).All(ctx)
		if err != nil {
			log.Fatal("reading jobs file", zap.Error(err))
		}

		store, err := openPostgres(ctx, config.Jobs, log)
		if err != nil {
			log.Fatal("opening postgres job store", zap.Error(err))
		}
		defer store.Close()

		added, err := addJobs(ctx, store, postings, log)
		if err != nil {
			log.Fatal("adding jobs", zap.Error(err), zap.Int("added", added))
		}
		log.Info("jobs added", zap.Int("count", added), zap.String("file", args[0]))
	},
}

type jobInserter interface {
	Insert(ctx context.Context, job *models.JobPosting) error
}

// addJobs inserts postings in file order and stops at the first failure.
// It returns how many were inserted.
func addJobs(ctx context.Context, dst jobInserter, postings *models.Jobs, log *zap.Logger) (int, error) {
	for i, job := range postings.Items {
		if err := dst.Insert(ctx, job); err != nil {
			return i, err
		}
		log.Debug("job added", zap.String("job_id", job.ID), zap.String("title", job.Title))
	}
	return postings.Len(), nil
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsStatsCmd, jobsDeactivateCmd, jobsMigrateCmd, jobsAddCmd)
}
