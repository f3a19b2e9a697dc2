package analytics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"joblink-backend/internal/database"
	"joblink-backend/internal/model"
	"joblink-backend/internal/utilities"
)

// AnalyticsController provide handler with access to database
type AnalyticsController struct {
	DB *database.DBinstanceStruct
}

// NewAnalyticsController create new controller instance with database
func NewAnalyticsController(db *database.DBinstanceStruct) *AnalyticsController {
	return &AnalyticsController{DB: db}
}

func (ac *AnalyticsController) employerJobs(employerID uuid.UUID) ([]model.Job, error) {
	var jobs []model.Job
	err := ac.DB.Where("company_id = ?", employerID).Find(&jobs).Error
	return jobs, err
}

func (ac *AnalyticsController) employerApplications(employerID uuid.UUID) ([]model.Application, error) {
	var applications []model.Application
	err := ac.DB.Preload("Job").
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.company_id = ?", employerID).
		Find(&applications).Error
	return applications, err
}

// Overview return the employer's counters plus live job and application
// stats in one payload
func (ac *AnalyticsController) Overview(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	analytics, err := ac.DB.GetOrCreateAnalytics(user.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve analytics: %s", err.Error()),
		})
		return
	}

	jobs, err := ac.employerJobs(user.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve jobs: %s", err.Error()),
		})
		return
	}

	applications, err := ac.employerApplications(user.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve applications: %s", err.Error()),
		})
		return
	}

	now := time.Now()
	jobsStats := ComputeJobsStats(jobs, now)
	applicationsStats := ComputeApplicationsStats(applications, now)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Analytics fetched successfully",
		"analytics": gin.H{
			"basic":        analytics,
			"jobs":         jobsStats,
			"applications": applicationsStats,
			"summary": gin.H{
				"averageApplicationsPerJob": Ratio(applicationsStats.TotalApplications, jobsStats.TotalJobs),
				"hireRate":                  Percent(analytics.TotalHired, applicationsStats.TotalApplications),
			},
		},
	})
}

// Stats return the employer's counters plus live stats and summary ratios
func (ac *AnalyticsController) Stats(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	analytics, err := ac.DB.GetOrCreateAnalytics(user.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve analytics: %s", err.Error()),
		})
		return
	}

	jobs, err := ac.employerJobs(user.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve jobs: %s", err.Error()),
		})
		return
	}

	applications, err := ac.employerApplications(user.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve applications: %s", err.Error()),
		})
		return
	}

	now := time.Now()
	jobsStats := ComputeJobsStats(jobs, now)
	applicationsStats := ComputeApplicationsStats(applications, now)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Stats fetched successfully",
		"stats": gin.H{
			"basic": gin.H{
				"totalJobsPosted":           analytics.TotalJobsPosted,
				"totalApplicationsReceived": analytics.TotalApplicationsReceived,
				"totalHired":                analytics.TotalHired,
			},
			"jobs":         jobsStats,
			"applications": applicationsStats,
			"summary": gin.H{
				"averageApplicationsPerJob": Ratio(applicationsStats.TotalApplications, jobsStats.TotalJobs),
				"hireRate":                  Percent(analytics.TotalHired, applicationsStats.TotalApplications),
			},
		},
	})
}

// Trends return growth indicators over a recent period
// (7days, 30days or 90days)
func (ac *AnalyticsController) Trends(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	days := PeriodDays(ctx.DefaultQuery("period", "30days"))
	cutoff := time.Now().AddDate(0, 0, -days)

	analytics, err := ac.DB.GetOrCreateAnalytics(user.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve analytics: %s", err.Error()),
		})
		return
	}

	var jobsGrowth int64
	err = ac.DB.Model(&model.Job{}).
		Where("company_id = ? AND created_at > ?", user.ID, cutoff).
		Count(&jobsGrowth).Error
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to count jobs: %s", err.Error()),
		})
		return
	}

	var applicationsGrowth int64
	err = ac.DB.Model(&model.Application{}).
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.company_id = ? AND applications.created_at > ?", user.ID, cutoff).
		Count(&applicationsGrowth).Error
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to count applications: %s", err.Error()),
		})
		return
	}

	var totalApplications int64
	err = ac.DB.Model(&model.Application{}).
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.company_id = ?", user.ID).
		Count(&totalApplications).Error
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to count applications: %s", err.Error()),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Trends fetched successfully",
		"trends": gin.H{
			"period":             fmt.Sprintf("%d days", days),
			"jobsGrowth":         jobsGrowth,
			"applicationsGrowth": applicationsGrowth,
			"hireRateTrend":      Percent(analytics.TotalHired, int(totalApplications)),
		},
	})
}

// JobsStats return job listing stats plus category and type histograms
func (ac *AnalyticsController) JobsStats(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobs, err := ac.employerJobs(user.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve jobs: %s", err.Error()),
		})
		return
	}

	jobsStats := ComputeJobsStats(jobs, time.Now())

	popularCategories := map[string]int{}
	popularTypes := map[string]int{}
	for _, job := range jobs {
		if job.Category != "" {
			popularCategories[job.Category]++
		}
		popularTypes[job.Type]++
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Jobs stats fetched successfully",
		"stats": gin.H{
			"totalJobs":         jobsStats.TotalJobs,
			"activeJobs":        jobsStats.ActiveJobs,
			"closedJobs":        jobsStats.ClosedJobs,
			"jobsLast30Days":    jobsStats.JobsLast30Days,
			"popularCategories": popularCategories,
			"popularTypes":      popularTypes,
		},
	})
}

// ApplicationsStats return application stats plus per-job and per-month
// breakdowns
func (ac *AnalyticsController) ApplicationsStats(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	applications, err := ac.employerApplications(user.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve applications: %s", err.Error()),
		})
		return
	}

	applicationsStats := ComputeApplicationsStats(applications, time.Now())

	applicationsByJob := map[string]int{}
	applicationsTimeline := map[string]int{}
	for _, app := range applications {
		jobTitle := app.Job.Title
		if jobTitle == "" {
			jobTitle = "Unknown Job"
		}
		applicationsByJob[jobTitle]++
		applicationsTimeline[MonthBucket(app.CreatedAt)]++
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Applications stats fetched successfully",
		"stats": gin.H{
			"totalApplications":      applicationsStats.TotalApplications,
			"byStatus":               applicationsStats.ByStatus,
			"applicationsLast30Days": applicationsStats.ApplicationsLast30Days,
			"applicationsByJob":      applicationsByJob,
			"applicationsTimeline":   applicationsTimeline,
		},
	})
}

// HiringAnalytics return hire rate and conversion metrics
func (ac *AnalyticsController) HiringAnalytics(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	analytics, err := ac.DB.GetOrCreateAnalytics(user.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve analytics: %s", err.Error()),
		})
		return
	}

	applications, err := ac.employerApplications(user.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve applications: %s", err.Error()),
		})
		return
	}

	applicationsStats := ComputeApplicationsStats(applications, time.Now())
	inReview := applicationsStats.ByStatus[model.ApplicationStatusInReview]
	accepted := applicationsStats.ByStatus[model.ApplicationStatusAccepted]

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Hiring analytics fetched successfully",
		"hiringMetrics": gin.H{
			"totalHired":        analytics.TotalHired,
			"totalApplications": applicationsStats.TotalApplications,
			"hireRate":          Percent(analytics.TotalHired, applicationsStats.TotalApplications),
			// TODO: compute from Accepted transition timestamps once status
			// history is recorded
			"averageTimeToHire": "7 days",
			"conversionRate": gin.H{
				"appliedToReview":  Percent(inReview, applicationsStats.TotalApplications),
				"reviewToAccepted": Percent(accepted, inReview),
			},
		},
	})
}
