package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/logger"
)

var historyCmd = &cobra.Command{
	Use:   "history <candidate-id>",
	Short: "Print the latest match results recorded for a candidate",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		log := newLogger()
		defer log.Sync()

		config, err := getConfig()
		if err != nil {
			log.Fatal("getting a config", zap.Error(err))
		}
		log = logger.WithMatchFields(log, args[0], "")

		store, closeStore, err := openHistory(ctx, config.History, log)
		if err != nil {
			log.Fatal("connecting to history store", zap.Error(err))
		}
		defer closeStore()

		if wipe, _ := cmd.Flags().GetBool("clear"); wipe {
			if err := store.Clear(ctx, args[0]); err != nil {
				log.Fatal("clearing history", zap.Error(err))
			}
			log.Info("history cleared")
			return
		}

		entries, err := store.List(ctx, args[0])
		if err != nil {
			log.Fatal("reading history", zap.Error(err))
		}
		if err := printJSON(cmd, entries); err != nil {
			log.Fatal("printing history", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Bool("clear", false, "remove the recorded history instead of printing it")
}
