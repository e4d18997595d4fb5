package models

// ScoreBreakdown holds the four weighted sub-scores, each in [0, 100].
type ScoreBreakdown struct {
	Keywords        float64 `json:"keywords"`
	Skills          float64 `json:"skills"`
	TextSimilarity  float64 `json:"textSimilarity"`
	ExperienceLevel float64 `json:"experienceLevel"`
}

type MatchResult struct {
	Job             *JobPosting    `json:"job"`
	Score           float64        `json:"score"`
	MatchedKeywords []string       `json:"matchedKeywords"`
	Breakdown       ScoreBreakdown `json:"breakdown"`
}

func (m *MatchResult) JobID() string {
	if m == nil || m.Job == nil {
		return ""
	}
	return m.Job.ID
}
