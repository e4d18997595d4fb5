package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/filtering"
	"github.com/spigell/resume-matcher/internal/history"
	"github.com/spigell/resume-matcher/internal/jobs"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/secrets"
)

const (
	app = "resume-matcher"
)

type Config struct {
	Jobs    *JobsConfig       `mapstructure:"jobs"`
	Filters *filtering.Config `mapstructure:"filters"`
	Match   *MatchConfig      `mapstructure:"match"`
	History *HistoryConfig    `mapstructure:"history"`
}

type JobsConfig struct {
	File            string `mapstructure:"file"`
	DatabaseURLFile string `mapstructure:"database-url-file"`
	CandidateLimit  int    `mapstructure:"candidate-limit"`
}

type MatchConfig struct {
	Limit   int `mapstructure:"limit"`
	Workers int `mapstructure:"workers"`
}

type HistoryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	RedisURL     string `mapstructure:"redis-url"`
	PasswordFile string `mapstructure:"password-file"`
	KeyPrefix    string `mapstructure:"key-prefix"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-matcher scores a resume against job postings and ranks the best matches",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("jobs.database-url-file", "RM_DATABASE_URL_FILE"); err != nil {
		log.Fatalf("binding RM_DATABASE_URL_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("history.redis-url", "RM_REDIS_URL"); err != nil {
		log.Fatalf("binding RM_REDIS_URL environment variable: %v", err)
	}

	viper.SetDefault("jobs.file", "jobs.yaml")
	viper.SetDefault("jobs.candidate-limit", matching.DefaultCandidateLimit)
	viper.SetDefault("match.limit", 10)
	viper.SetDefault("history.redis-url", "redis://localhost:6379/0")
	viper.SetDefault("history.key-prefix", history.DefaultKeyPrefix)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// .env is optional; variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// A missing default config is fine, defaults and flags cover every key.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Jobs == nil {
		config.Jobs = &JobsConfig{}
	}
	if config.Filters == nil {
		config.Filters = &filtering.Config{}
	}
	if config.Match == nil {
		config.Match = &MatchConfig{}
	}
	if config.History == nil {
		config.History = &HistoryConfig{}
	}
	config.Filters.RecentLimit = config.Jobs.CandidateLimit

	return config, nil
}

func newLogger() *zap.Logger {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return logger
}

// openStore returns the PostgreSQL store when a database URL file is
// configured and the file store otherwise.
func openStore(ctx context.Context, cfg *JobsConfig, logger *zap.Logger) (jobs.Store, func(), error) {
	if strings.TrimSpace(cfg.DatabaseURLFile) != "" {
		store, err := openPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("using postgres job store")
		return store, func() { store.Close() }, nil
	}

	if strings.TrimSpace(cfg.File) == "" {
		return nil, nil, errors.New("no job source configured: set jobs.file or jobs.database-url-file")
	}

	logger.Debug("using file job store", zap.String("file", cfg.File))
	return jobs.NewFileStore(cfg.File, logger), func() {}, nil
}

func openPostgres(ctx context.Context, cfg *JobsConfig, logger *zap.Logger) (*jobs.PostgresStore, error) {
	dsn, err := secrets.Load(secrets.Source{
		Name: "database url",
		File: cfg.DatabaseURLFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set jobs.database-url-file or RM_DATABASE_URL_FILE)", err)
	}

	return jobs.OpenPostgres(ctx, dsn, logger)
}

// openHistory connects to Redis using the history settings.
func openHistory(ctx context.Context, cfg *HistoryConfig, logger *zap.Logger) (*history.RedisStore, func(), error) {
	password, err := secrets.Load(secrets.Source{
		Name:     "redis password",
		File:     cfg.PasswordFile,
		Optional: true,
	})
	if err != nil {
		return nil, nil, err
	}

	client, err := history.Connect(ctx, cfg.RedisURL, password)
	if err != nil {
		return nil, nil, err
	}

	return history.NewRedisStore(client, cfg.KeyPrefix, logger), func() { client.Close() }, nil
}
