// Package analytics contain handler logic and pure aggregation helpers for
// employer engagement analytics
package analytics

import (
	"math"
	"time"

	"joblink-backend/internal/model"
)

// JobsStats summarizes an employer's job listings
type JobsStats struct {
	TotalJobs      int `json:"totalJobs"`
	ActiveJobs     int `json:"activeJobs"`
	ClosedJobs     int `json:"closedJobs"`
	JobsLast30Days int `json:"jobsLast30Days"`
}

// ApplicationsStats summarizes the applications received across an
// employer's job listings
type ApplicationsStats struct {
	TotalApplications      int            `json:"totalApplications"`
	ByStatus               map[string]int `json:"byStatus"`
	ApplicationsLast30Days int            `json:"applicationsLast30Days"`
}

// ComputeJobsStats aggregates job listings relative to now
func ComputeJobsStats(jobs []model.Job, now time.Time) JobsStats {
	cutoff := now.AddDate(0, 0, -30)

	stats := JobsStats{TotalJobs: len(jobs)}
	for _, job := range jobs {
		if job.IsClosed {
			stats.ClosedJobs++
		} else {
			stats.ActiveJobs++
		}
		if job.CreatedAt.After(cutoff) {
			stats.JobsLast30Days++
		}
	}
	return stats
}

// ComputeApplicationsStats aggregates applications relative to now. Every
// status key is present in ByStatus even when its count is zero.
func ComputeApplicationsStats(applications []model.Application, now time.Time) ApplicationsStats {
	cutoff := now.AddDate(0, 0, -30)

	byStatus := make(map[string]int, len(model.ApplicationStatuses))
	for _, status := range model.ApplicationStatuses {
		byStatus[status] = 0
	}

	stats := ApplicationsStats{
		TotalApplications: len(applications),
		ByStatus:          byStatus,
	}
	for _, app := range applications {
		byStatus[app.Status]++
		if app.CreatedAt.After(cutoff) {
			stats.ApplicationsLast30Days++
		}
	}
	return stats
}

// round1 rounds to one decimal place
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Percent returns numerator/denominator as a percentage rounded to one
// decimal. A zero denominator yields 0, never NaN.
func Percent(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return round1(float64(numerator) / float64(denominator) * 100)
}

// Ratio returns numerator/denominator rounded to one decimal, with the same
// zero-denominator guard as Percent.
func Ratio(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return round1(float64(numerator) / float64(denominator))
}

// MonthBucket formats a timestamp as its year-month timeline bucket
func MonthBucket(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// PeriodDays maps a trends period name to a day count, defaulting to 30
func PeriodDays(period string) int {
	switch period {
	case "7days":
		return 7
	case "30days":
		return 30
	case "90days":
		return 90
	default:
		return 30
	}
}
