package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/filtering"
	"github.com/spigell/resume-matcher/internal/history"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/models"
)

const (
	PromptShow            = "Show ranked jobs"
	PromptInspect         = "Inspect a match"
	PromptReportByCompany = "Report by company"
	PromptResultsToFile   = "Dump results to file"
	PromptExit            = "Exit"
	PromptBack            = "back"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShow, PromptInspect, PromptReportByCompany, PromptResultsToFile, PromptExit},
}

var matchCmd = &cobra.Command{
	Use:   "match <resume-file>",
	Short: "Rank the active job postings against a resume",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runMatch(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
	addResumeFlags(matchCmd)

	matchCmd.Flags().IntP("limit", "l", 10, "maximum number of ranked jobs to return")
	matchCmd.Flags().BoolP("interactive", "i", false, "browse the results in an interactive prompt")

	viper.BindPFlag("match.limit", matchCmd.Flags().Lookup("limit"))
}

func runMatch(cmd *cobra.Command, path string) {
	ctx := context.Background()

	log := newLogger()
	defer log.Sync()

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	log.Info("starting the resume-matcher", zap.String("version", version))

	profile, err := parseResume(cmd, path, log)
	if err != nil {
		log.Fatal("parsing resume", zap.Error(err))
	}

	runID := history.NewRunID()
	log = logger.WithMatchFields(log, profile.ID, runID)

	results, err := rank(ctx, config, profile, log)
	if err != nil {
		log.Fatal("ranking jobs", zap.Error(err))
	}

	if config.History.Enabled {
		if err := recordHistory(ctx, config.History, profile.ID, runID, results, log); err != nil {
			log.Warn("recording match history failed", zap.Error(err))
		}
	}

	interactive, _ := cmd.Flags().GetBool("interactive")
	if !interactive {
		if err := printJSON(cmd, results); err != nil {
			log.Fatal("printing results", zap.Error(err))
		}
		return
	}

	if len(results) == 0 {
		log.Info("exiting", zap.String("reason", "no jobs matched"))
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			log.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(cmd, action, log, results); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			log.Fatal("exiting", zap.Error(err))
		}
	}
}

// rank loads the active jobs, narrows them with the configured filters and
// ranks what is left.
func rank(ctx context.Context, config *Config, profile *models.CandidateProfile, log *zap.Logger) ([]*models.MatchResult, error) {
	store, closeStore, err := openStore(ctx, config.Jobs, log)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	all, err := store.ListActive(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("loading jobs: %w", err)
	}
	log.Info("getting jobs", zap.Int("count", all.Len()))

	steps := filtering.Default()
	candidates, err := filtering.Run(ctx, config.Filters, filtering.Deps{Logger: log}, steps, all)
	if err != nil {
		return nil, fmt.Errorf("filtering jobs: %w", err)
	}
	for _, status := range filtering.Describe(steps) {
		log.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.Any("details", status.Details),
		)
	}

	ranker := matching.NewRanker(matching.NewScorer(log), config.Match.Workers, log)
	results, err := ranker.Rank(ctx, profile, candidates.Items, config.Match.Limit)
	if err != nil {
		return nil, err
	}

	log.Info("jobs ranked", zap.Int("candidates", candidates.Len()), zap.Int("returned", len(results)))
	return results, nil
}

func recordHistory(ctx context.Context, cfg *HistoryConfig, candidateID, runID string, results []*models.MatchResult, log *zap.Logger) error {
	store, closeStore, err := openHistory(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	entries := history.EntriesFromResults(runID, results, time.Now())
	if err := store.Record(ctx, candidateID, entries); err != nil {
		return err
	}
	log.Info("match history recorded", zap.Int("entries", len(entries)))
	return nil
}

func handleAction(cmd *cobra.Command, action string, log *zap.Logger, results []*models.MatchResult) error {
	switch action {
	case PromptShow:
		for i, r := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d. %6.2f  %s\n", i+1, r.Score, label(r))
		}
		return nil
	case PromptInspect:
		return inspect(cmd, results)
	case PromptReportByCompany:
		return printJSON(cmd, matching.ReportByCompany(results))
	case PromptResultsToFile:
		filename, err := matching.DumpToTmpFile(results)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		log.Info("dumping results to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		log.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func inspect(cmd *cobra.Command, results []*models.MatchResult) error {
	for {
		items := make([]string, 0, len(results)+1)
		for _, r := range results {
			items = append(items, label(r))
		}

		jobPrompt := promptui.Select{
			Label: "Choose a job and press ENTER",
			Items: append(items, PromptBack),
			Size:  10,
		}

		_, selected, err := jobPrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptBack {
			return nil
		}

		jobID := strings.Split(selected, " ")[0]
		result := findResult(results, jobID)
		if result == nil {
			return fmt.Errorf("there is no such job id %s", jobID)
		}
		fmt.Fprint(cmd.OutOrStdout(), matching.Explain(result))
	}
}

func label(r *models.MatchResult) string {
	return fmt.Sprintf("%s %s / %s / %s", r.JobID(), r.Job.Title, r.Job.Company, r.Job.Location)
}

func findResult(results []*models.MatchResult, jobID string) *models.MatchResult {
	for _, r := range results {
		if r.JobID() == jobID {
			return r
		}
	}
	return nil
}
