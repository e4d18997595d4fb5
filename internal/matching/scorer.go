// Package matching scores candidate profiles against job postings and ranks the results.
package matching

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/models"
)

// Factor weights. They sum to 1.
const (
	WeightKeywords        = 0.4
	WeightSkills          = 0.3
	WeightTextSimilarity  = 0.2
	WeightExperienceLevel = 0.1
)

const (
	// neutralExperienceScore is used when the résumé states no years of experience.
	neutralExperienceScore = 50
	underQualifiedPenalty  = 20
	overQualifiedPenalty   = 10
	minTokenLength         = 4
)

// Band is the expected years-of-experience range for a job level.
type Band struct {
	Min int
	Max int
}

var (
	experienceBands = map[models.ExperienceLevel]Band{
		models.LevelEntry:     {Min: 0, Max: 2},
		models.LevelMid:       {Min: 2, Max: 5},
		models.LevelSenior:    {Min: 5, Max: 10},
		models.LevelLead:      {Min: 8, Max: 15},
		models.LevelExecutive: {Min: 10, Max: 30},
	}
	fallbackBand = Band{Min: 0, Max: 30}

	yearsPattern    = regexp.MustCompile(`(\d+)\s*years?`)
	nonWordsPattern = regexp.MustCompile(`\W+`)
)

// BandFor returns the experience band for level. Unrecognized levels get [0, 30].
func BandFor(level models.ExperienceLevel) Band {
	if level == "" {
		level = models.DefaultExperienceLevel
	}
	if band, ok := experienceBands[level]; ok {
		return band
	}
	return fallbackBand
}

// Scorer computes the weighted match score of one profile against one job.
// It is safe for concurrent use.
type Scorer struct {
	logger *zap.Logger
}

func NewScorer(logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{logger: logger}
}

// Score returns the match of profile against job with its breakdown.
// Missing data never fails: empty sets score 0 and unknown experience scores 50.
func (s *Scorer) Score(profile *models.CandidateProfile, job *models.JobPosting) *models.MatchResult {
	if profile == nil {
		profile = &models.CandidateProfile{}
	}
	if job == nil {
		job = &models.JobPosting{}
	}

	var matched []string

	keywordScore, hits := containmentScore(profile.Keywords, job.Keywords)
	matched = append(matched, hits...)

	skillsScore, hits := containmentScore(profile.Skills, job.SkillTerms())
	matched = append(matched, hits...)

	textScore := TextSimilarity(profile.ExtractedText, job.Text())
	expScore := ExperienceScore(profile.Experience, job.ExperienceLevel)

	final := keywordScore*WeightKeywords +
		skillsScore*WeightSkills +
		textScore*WeightTextSimilarity +
		expScore*WeightExperienceLevel

	result := &models.MatchResult{
		Job:             job,
		Score:           Round(final),
		MatchedKeywords: dedupe(matched),
		Breakdown: models.ScoreBreakdown{
			Keywords:        Round(keywordScore),
			Skills:          Round(skillsScore),
			TextSimilarity:  Round(textScore),
			ExperienceLevel: Round(expScore),
		},
	}

	s.logger.Debug("job scored",
		zap.String("job_id", job.ID),
		zap.Float64("score", result.Score),
		zap.Float64("keywords", result.Breakdown.Keywords),
		zap.Float64("skills", result.Breakdown.Skills),
		zap.Float64("text_similarity", result.Breakdown.TextSimilarity),
		zap.Float64("experience_level", result.Breakdown.ExperienceLevel),
		zap.Strings("matched", result.MatchedKeywords),
	)

	return result
}

// containmentScore returns the percentage of job terms matched by at least one
// candidate term, where two terms match when either contains the other
// (case-insensitive). The comparison is O(len(candidate)*len(job)).
func containmentScore(candidate, job []string) (float64, []string) {
	if len(job) == 0 {
		return 0, nil
	}

	lowered := make([]string, len(candidate))
	for i, c := range candidate {
		lowered[i] = strings.ToLower(c)
	}

	var hits []string
	for _, term := range job {
		lowerTerm := strings.ToLower(term)
		for _, c := range lowered {
			if strings.Contains(c, lowerTerm) || strings.Contains(lowerTerm, c) {
				hits = append(hits, term)
				break
			}
		}
	}

	return float64(len(hits)) / float64(len(job)) * 100, hits
}

// TextSimilarity is the Jaccard similarity, as a percentage, of the word sets
// of a and b. Words of up to three characters are ignored.
func TextSimilarity(a, b string) float64 {
	left := tokenize(a)
	right := tokenize(b)

	union := len(left)
	intersection := 0
	for word := range right {
		if _, ok := left[word]; ok {
			intersection++
			continue
		}
		union++
	}

	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union) * 100
}

func tokenize(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range nonWordsPattern.Split(strings.ToLower(text), -1) {
		if len(w) >= minTokenLength {
			words[w] = struct{}{}
		}
	}
	return words
}

// ExperienceScore rates the first "N year(s)" statement in the experience
// snippet against the band of level.
func ExperienceScore(experience string, level models.ExperienceLevel) float64 {
	m := yearsPattern.FindStringSubmatch(strings.ToLower(experience))
	if m == nil {
		return neutralExperienceScore
	}

	years, err := strconv.Atoi(m[1])
	if err != nil {
		// Only overflow gets here; such a value is far above any band.
		years = math.MaxInt32
	}

	band := BandFor(level)
	switch {
	case years < band.Min:
		return float64(max(0, 100-(band.Min-years)*underQualifiedPenalty))
	case years > band.Max:
		over := years - band.Max
		if over > 100/overQualifiedPenalty {
			return 0
		}
		return float64(max(0, 100-over*overQualifiedPenalty))
	default:
		return 100
	}
}

// Round rounds half up to two decimal places.
func Round(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

func dedupe(terms []string) []string {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
