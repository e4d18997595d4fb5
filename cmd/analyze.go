package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/document"
	"github.com/spigell/resume-matcher/internal/models"
	"github.com/spigell/resume-matcher/internal/resume"
	"github.com/spigell/resume-matcher/internal/utils"
)

const previewLength = 120

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume-file>",
	Short: "Extract text and features from a resume and print the candidate profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger()
		defer logger.Sync()

		profile, err := parseResume(cmd, args[0], logger)
		if err != nil {
			logger.Fatal("parsing resume", zap.Error(err))
		}

		if err := printJSON(cmd, profile); err != nil {
			logger.Fatal("printing profile", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addResumeFlags(analyzeCmd)
}

func addResumeFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "", "declared document format: pdf, word-doc, plain-text, a MIME type or an extension (default: from file name)")
	cmd.Flags().String("candidate-id", "", "candidate id to use instead of the content hash")
}

// parseResume reads path and builds the candidate profile using the resume flags of cmd.
func parseResume(cmd *cobra.Command, path string, logger *zap.Logger) (*models.CandidateProfile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading resume: %w", err)
	}

	declared, _ := cmd.Flags().GetString("format")
	var format document.Format
	if strings.TrimSpace(declared) != "" {
		format, err = document.ParseFormat(declared)
	} else {
		format, err = document.FormatFromFilename(path)
	}
	if err != nil {
		return nil, err
	}

	parser := resume.NewParser(document.NewExtractor(logger), logger)
	name := filepath.Base(path)

	var profile *models.CandidateProfile
	if id, _ := cmd.Flags().GetString("candidate-id"); strings.TrimSpace(id) != "" {
		profile, err = parser.ParseWithID(strings.TrimSpace(id), name, content, format)
	} else {
		profile, err = parser.Parse(name, content, format)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("extracted text", zap.String("preview", utils.Preview(profile.ExtractedText, previewLength)))
	return profile, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
