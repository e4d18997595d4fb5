package matching

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spigell/resume-matcher/internal/models"
)

// ReportByCompany groups ranked results by company, keeping rank order within
// each group.
func ReportByCompany(results []*models.MatchResult) map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, r := range results {
		if r == nil || r.Job == nil {
			continue
		}
		job := r.Job
		report[job.Company] = append(report[job.Company], map[string]string{
			"id":       job.ID,
			"title":    job.Title,
			"location": job.Location,
			"score":    fmt.Sprintf("%.2f", r.Score),
			"matched":  strings.Join(r.MatchedKeywords, ", "),
			"url":      job.ApplicationURL,
		})
	}
	return report
}

// Explain renders the breakdown of a single result for terminal output.
func Explain(r *models.MatchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s / %s: %.2f\n", r.JobID(), r.Job.Title, r.Job.Company, r.Score)
	fmt.Fprintf(&b, "  keywords:         %6.2f x %.1f\n", r.Breakdown.Keywords, WeightKeywords)
	fmt.Fprintf(&b, "  skills:           %6.2f x %.1f\n", r.Breakdown.Skills, WeightSkills)
	fmt.Fprintf(&b, "  text similarity:  %6.2f x %.1f\n", r.Breakdown.TextSimilarity, WeightTextSimilarity)
	fmt.Fprintf(&b, "  experience level: %6.2f x %.1f\n", r.Breakdown.ExperienceLevel, WeightExperienceLevel)
	if len(r.MatchedKeywords) > 0 {
		fmt.Fprintf(&b, "  matched: %s\n", strings.Join(r.MatchedKeywords, ", "))
	}
	return b.String()
}

// DumpToTmpFile writes results as indented JSON to a new temporary file and
// returns its name.
func DumpToTmpFile(results []*models.MatchResult) (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return "", err
	}
	return file.Name(), nil
}
