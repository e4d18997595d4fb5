package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned by stores when a requested record does not exist.
var ErrNotFound = errors.New("not found")

type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeFreelance  JobType = "freelance"

	DefaultJobType = JobTypeFullTime
)

// ParseJobType returns the job type for s, ignoring case and surrounding spaces.
func ParseJobType(s string) (JobType, error) {
	t := JobType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeFreelance:
		return t, nil
	default:
		return "", fmt.Errorf("unknown job type %q", s)
	}
}

type ExperienceLevel string

const (
	LevelEntry     ExperienceLevel = "entry"
	LevelMid       ExperienceLevel = "mid"
	LevelSenior    ExperienceLevel = "senior"
	LevelLead      ExperienceLevel = "lead"
	LevelExecutive ExperienceLevel = "executive"

	DefaultExperienceLevel = LevelMid
)

// ParseExperienceLevel returns the level for s, ignoring case and surrounding spaces.
func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	l := ExperienceLevel(strings.ToLower(strings.TrimSpace(s)))
	switch l {
	case LevelEntry, LevelMid, LevelSenior, LevelLead, LevelExecutive:
		return l, nil
	default:
		return "", fmt.Errorf("unknown experience level %q", s)
	}
}

type SalaryRange struct {
	Min      *int   `json:"min,omitempty" yaml:"min,omitempty" mapstructure:"min"`
	Max      *int   `json:"max,omitempty" yaml:"max,omitempty" mapstructure:"max"`
	Currency string `json:"currency,omitempty" yaml:"currency,omitempty" mapstructure:"currency"`
}

// Validate checks that present bounds are non-negative and ordered.
func (s *SalaryRange) Validate() error {
	if s == nil {
		return nil
	}
	if s.Min != nil && *s.Min < 0 {
		return fmt.Errorf("salary min must be non-negative, got %d", *s.Min)
	}
	if s.Max != nil && *s.Max < 0 {
		return fmt.Errorf("salary max must be non-negative, got %d", *s.Max)
	}
	if s.Min != nil && s.Max != nil && *s.Min > *s.Max {
		return fmt.Errorf("salary min %d is greater than max %d", *s.Min, *s.Max)
	}
	return nil
}

type JobPosting struct {
	ID              string          `json:"id" yaml:"id" mapstructure:"id"`
	Title           string          `json:"title" yaml:"title" mapstructure:"title"`
	Company         string          `json:"company" yaml:"company" mapstructure:"company"`
	Description     string          `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Requirements    string          `json:"requirements,omitempty" yaml:"requirements,omitempty" mapstructure:"requirements"`
	Location        string          `json:"location,omitempty" yaml:"location,omitempty" mapstructure:"location"`
	JobType         JobType         `json:"jobType" yaml:"jobType" mapstructure:"jobType"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel" yaml:"experienceLevel" mapstructure:"experienceLevel"`
	RequiredSkills  []string        `json:"requiredSkills,omitempty" yaml:"requiredSkills,omitempty" mapstructure:"requiredSkills"`
	PreferredSkills []string        `json:"preferredSkills,omitempty" yaml:"preferredSkills,omitempty" mapstructure:"preferredSkills"`
	Keywords        []string        `json:"keywords,omitempty" yaml:"keywords,omitempty" mapstructure:"keywords"`
	SalaryRange     *SalaryRange    `json:"salaryRange,omitempty" yaml:"salaryRange,omitempty" mapstructure:"salaryRange"`
	Active          bool            `json:"isActive" yaml:"isActive" mapstructure:"isActive"`
	PostedAt        time.Time       `json:"postedAt" yaml:"postedAt" mapstructure:"postedAt"`
	ExpiresAt       *time.Time      `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty" mapstructure:"expiresAt"`
	ApplicationURL  string          `json:"applicationUrl,omitempty" yaml:"applicationUrl,omitempty" mapstructure:"applicationUrl"`
	ContactEmail    string          `json:"contactEmail,omitempty" yaml:"contactEmail,omitempty" mapstructure:"contactEmail"`
}

// NewJobPosting returns a posting with the defaults of a freshly created job.
func NewJobPosting() *JobPosting {
	return &JobPosting{
		JobType:         DefaultJobType,
		ExperienceLevel: DefaultExperienceLevel,
		Active:          true,
		PostedAt:        time.Now().UTC(),
	}
}

// Normalize lowercases and trims keyword and skill lists, dropping terms that
// end up empty, and trims the free-form identity fields. Empty level and type fall back to defaults.
func (j *JobPosting) Normalize() {
	j.Title = strings.TrimSpace(j.Title)
	j.Company = strings.TrimSpace(j.Company)
	j.Location = strings.TrimSpace(j.Location)

	j.Keywords = normalizeTerms(j.Keywords)
	j.RequiredSkills = normalizeTerms(j.RequiredSkills)
	j.PreferredSkills = normalizeTerms(j.PreferredSkills)

	if strings.TrimSpace(string(j.JobType)) == "" {
		j.JobType = DefaultJobType
	} else {
		j.JobType = JobType(strings.ToLower(strings.TrimSpace(string(j.JobType))))
	}
	if strings.TrimSpace(string(j.ExperienceLevel)) == "" {
		j.ExperienceLevel = DefaultExperienceLevel
	} else {
		j.ExperienceLevel = ExperienceLevel(strings.ToLower(strings.TrimSpace(string(j.ExperienceLevel))))
	}
	if j.SalaryRange != nil && j.SalaryRange.Currency == "" {
		j.SalaryRange.Currency = "USD"
	}
}

// Deactivate soft-deletes the posting.
func (j *JobPosting) Deactivate() {
	j.Active = false
}

// SkillTerms returns required skills followed by preferred skills. Duplicates are kept.
func (j *JobPosting) SkillTerms() []string {
	terms := make([]string, 0, len(j.RequiredSkills)+len(j.PreferredSkills))
	terms = append(terms, j.RequiredSkills...)
	return append(terms, j.PreferredSkills...)
}

// Text returns the description and requirements joined by a space.
func (j *JobPosting) Text() string {
	return j.Description + " " + j.Requirements
}

func normalizeTerms(terms []string) []string {
	if terms == nil {
		return nil
	}
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(strings.ToLower(t))
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

type Jobs struct {
	Items []*JobPosting
}

func (j *Jobs) Len() int {
	return len(j.Items)
}

func (j *Jobs) FindByID(id string) *JobPosting {
	for _, job := range j.Items {
		if job.ID == id {
			return job
		}
	}
	return nil
}

func (j *Jobs) IDs() []string {
	ids := make([]string, 0, len(j.Items))
	for _, job := range j.Items {
		ids = append(ids, job.ID)
	}
	return ids
}

// Keep retains the jobs accepted by keep, preserving order, and returns the IDs
// of the dropped ones.
func (j *Jobs) Keep(keep func(*JobPosting) bool) []string {
	var dropped []string
	kept := j.Items[:0]
	for _, job := range j.Items {
		if keep(job) {
			kept = append(kept, job)
			continue
		}
		dropped = append(dropped, job.ID)
	}
	for i := len(kept); i < len(j.Items); i++ {
		j.Items[i] = nil
	}
	j.Items = kept
	return dropped
}

// SortByPostedDesc orders jobs most recently posted first. Equal timestamps keep their order.
func (j *Jobs) SortByPostedDesc() {
	sort.SliceStable(j.Items, func(a, b int) bool {
		return j.Items[a].PostedAt.After(j.Items[b].PostedAt)
	})
}

// Truncate drops everything after the first n jobs and returns the dropped IDs.
func (j *Jobs) Truncate(n int) []string {
	if n < 0 || n >= len(j.Items) {
		return nil
	}
	dropped := make([]string, 0, len(j.Items)-n)
	for _, job := range j.Items[n:] {
		dropped = append(dropped, job.ID)
	}
	j.Items = j.Items[:n]
	return dropped
}
