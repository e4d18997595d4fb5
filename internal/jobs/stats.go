package jobs

import (
	"math"

	"github.com/spigell/resume-matcher/internal/models"
)

// StatsSampleSize is the number of most recently posted active jobs the
// distribution figures are computed over.
const StatsSampleSize = 50

type AverageSalary struct {
	Min int64 `json:"min" yaml:"min"`
	Max int64 `json:"max" yaml:"max"`
}

type Stats struct {
	TotalJobs        int            `json:"totalJobs" yaml:"totalJobs"`
	JobTypes         map[string]int `json:"jobTypes" yaml:"jobTypes"`
	ExperienceLevels map[string]int `json:"experienceLevels" yaml:"experienceLevels"`
	AverageSalary    AverageSalary  `json:"averageSalary" yaml:"averageSalary"`
}

// ComputeStats summarizes sample. total is the count of all active jobs and is
// reported as zero when sample is empty.
func ComputeStats(total int, sample *models.Jobs) *Stats {
	stats := &Stats{
		JobTypes:         map[string]int{},
		ExperienceLevels: map[string]int{},
	}
	if sample == nil || sample.Len() == 0 {
		return stats
	}

	stats.TotalJobs = total

	var (
		minSum, maxSum     int64
		minCount, maxCount int
	)
	for _, job := range sample.Items {
		if job.JobType != "" {
			stats.JobTypes[string(job.JobType)]++
		}
		if job.ExperienceLevel != "" {
			stats.ExperienceLevels[string(job.ExperienceLevel)]++
		}
		if sr := job.SalaryRange; sr != nil {
			if sr.Min != nil {
				minSum += int64(*sr.Min)
				minCount++
			}
			if sr.Max != nil {
				maxSum += int64(*sr.Max)
				maxCount++
			}
		}
	}

	stats.AverageSalary = AverageSalary{
		Min: roundedAverage(minSum, minCount),
		Max: roundedAverage(maxSum, maxCount),
	}
	return stats
}

func roundedAverage(sum int64, count int) int64 {
	if count == 0 {
		return 0
	}
	return int64(math.Floor(float64(sum)/float64(count) + 0.5))
}
