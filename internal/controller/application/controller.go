// Package application contain handler logic for job application resources
package application

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"joblink-backend/internal/database"
	"joblink-backend/internal/logger"
	"joblink-backend/internal/model"
	"joblink-backend/internal/utilities"
)

var log = logger.New()

// ApplicationController provide handler with access to database
type ApplicationController struct {
	DB *database.DBinstanceStruct
}

// NewApplicationController create new controller instance with database
func NewApplicationController(db *database.DBinstanceStruct) *ApplicationController {
	return &ApplicationController{DB: db}
}

type createApplicationRequest struct {
	JobID  uint   `json:"jobId" binding:"required"`
	Resume string `json:"resume"`
}

// CreateApplication submit an application to a job for the requesting
// jobseeker. A user can apply to a given job at most once.
func (ac *ApplicationController) CreateApplication(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req createApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	var job model.Job
	if err := ac.DB.First(&job, "id = ?", req.JobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job: %s", err.Error()),
		})
		return
	}

	if job.IsClosed {
		ctx.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "This job is no longer accepting applications",
		})
		return
	}

	var existing model.Application
	err = ac.DB.Where("job_id = ? AND applicant_id = ?", job.ID, user.ID).
		First(&existing).Error
	if err == nil {
		ctx.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Already applied to this job",
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to check application: %s", err.Error()),
		})
		return
	}

	resume := req.Resume
	if resume == "" {
		resume = user.Resume
	}

	application := model.Application{
		JobID:       job.ID,
		ApplicantID: user.ID,
		Status:      model.ApplicationStatusApplied,
		Resume:      resume,
	}

	if err := ac.DB.Create(&application).Error; err != nil {
		// The unique index catches races the check above cannot
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			ctx.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: "Already applied to this job",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create application: %s", err.Error()),
		})
		return
	}

	if err := ac.DB.BumpAnalyticsCounter(job.CompanyID, database.CounterApplicationsReceived, 1); err != nil {
		log.WithError(err).WithField("employer_id", job.CompanyID).
			Warn("failed to bump applications received counter")
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":     "Application submitted successfully",
		"application": application,
	})
}

// GetApplicationByID return one application. Only the applicant and the
// owner of the job being applied to may view it.
func (ac *ApplicationController) GetApplicationByID(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	applicationID := ctx.Param("application_id")

	var application model.Application
	err = ac.DB.Preload("Job").Preload("Applicant").
		First(&application, "id = ?", applicationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return
	}

	if application.ApplicantID != user.ID && application.Job.CompanyID != user.ID {
		ctx.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Not authorized to view this application",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"application": application})
}

// GetMyApplications list the requesting jobseeker's applications with an
// optional status filter
func (ac *ApplicationController) GetMyApplications(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	pagination := utilities.ParsePagination(ctx)

	query := ac.DB.Model(&model.Application{}).Where("applicant_id = ?", user.ID)

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to count applications: %s", err.Error()),
		})
		return
	}

	var applications []model.Application
	err = query.Preload("Job").Preload("Job.Company").
		Order("created_at desc").
		Limit(pagination.Limit).
		Offset(pagination.Offset()).
		Find(&applications).Error
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve applications: %s", err.Error()),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"applications":      applications,
		"totalApplications": count,
		"totalPages":        pagination.TotalPages(count),
		"currentPage":       pagination.Page,
	})
}

// GetApplicationsByJob list the applications submitted to one of the
// requesting employer's jobs
func (ac *ApplicationController) GetApplicationsByJob(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobID := ctx.Param("job_id")

	var job model.Job
	if err := ac.DB.First(&job, "id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job: %s", err.Error()),
		})
		return
	}

	if job.CompanyID != user.ID {
		ctx.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Not authorized to view applications for this job",
		})
		return
	}

	pagination := utilities.ParsePagination(ctx)

	query := ac.DB.Model(&model.Application{}).Where("job_id = ?", job.ID)

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to count applications: %s", err.Error()),
		})
		return
	}

	var applications []model.Application
	err = query.Preload("Applicant").
		Order("created_at desc").
		Limit(pagination.Limit).
		Offset(pagination.Offset()).
		Find(&applications).Error
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve applications: %s", err.Error()),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"applications":      applications,
		"totalApplications": count,
		"totalPages":        pagination.TotalPages(count),
		"currentPage":       pagination.Page,
	})
}

// GetCompanyApplications list every application across all of the requesting
// employer's jobs, with optional status and job filters
func (ac *ApplicationController) GetCompanyApplications(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	pagination := utilities.ParsePagination(ctx)

	query := ac.DB.Model(&model.Application{}).
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.company_id = ?", user.ID)

	if status := ctx.Query("status"); status != "" {
		query = query.Where("applications.status = ?", status)
	}
	if jobID := ctx.Query("jobId"); jobID != "" {
		query = query.Where("applications.job_id = ?", jobID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to count applications: %s", err.Error()),
		})
		return
	}

	var applications []model.Application
	err = query.Preload("Job").Preload("Applicant").
		Order("applications.created_at desc").
		Limit(pagination.Limit).
		Offset(pagination.Offset()).
		Find(&applications).Error
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve applications: %s", err.Error()),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"applications":      applications,
		"totalApplications": count,
		"totalPages":        pagination.TotalPages(count),
		"currentPage":       pagination.Page,
	})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateApplicationStatus move an application to a new status. Only the
// owner of the job being applied to may do this.
func (ac *ApplicationController) UpdateApplicationStatus(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	applicationID := ctx.Param("application_id")

	var req updateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if !utilities.Contains(model.ApplicationStatuses, req.Status) {
		ctx.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid status"})
		return
	}

	var application model.Application
	err = ac.DB.Preload("Job").First(&application, "id = ?", applicationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return
	}

	if application.Job.CompanyID != user.ID {
		ctx.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Not authorized to update this application",
		})
		return
	}

	previousStatus := application.Status

	if err := ac.DB.Model(&application).Update("status", req.Status).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update application: %s", err.Error()),
		})
		return
	}

	if req.Status == model.ApplicationStatusAccepted && previousStatus != model.ApplicationStatusAccepted {
		if err := ac.DB.BumpAnalyticsCounter(application.Job.CompanyID, database.CounterHired, 1); err != nil {
			log.WithError(err).WithField("employer_id", application.Job.CompanyID).
				Warn("failed to bump hired counter")
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":     "Application status updated successfully",
		"application": application,
	})
}

// DeleteApplication withdraw an application. Only the applicant may do this.
func (ac *ApplicationController) DeleteApplication(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	applicationID := ctx.Param("application_id")

	var application model.Application
	if err := ac.DB.First(&application, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return
	}

	if application.ApplicantID != user.ID {
		ctx.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Not authorized to delete this application",
		})
		return
	}

	if err := ac.DB.Delete(&application).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete application: %s", err.Error()),
		})
		return
	}

	ctx.JSON(http.StatusOK, utilities.MessageResponse{Message: "Application withdrawn successfully"})
}

// CheckApplication tell the requesting jobseeker whether they already
// applied to a job
func (ac *ApplicationController) CheckApplication(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobID := ctx.Param("job_id")

	var application model.Application
	err = ac.DB.Where("job_id = ? AND applicant_id = ?", jobID, user.ID).
		First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusOK, gin.H{"hasApplied": false})
			return
		}
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to check application: %s", err.Error()),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"hasApplied":  true,
		"application": application,
	})
}

// GetApplicationStats return a status histogram over the requesting
// employer's applications, optionally scoped to one job
func (ac *ApplicationController) GetApplicationStats(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	query := ac.DB.Model(&model.Application{}).
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.company_id = ?", user.ID)

	if jobID := ctx.Query("jobId"); jobID != "" {
		query = query.Where("applications.job_id = ?", jobID)
	}

	var rows []struct {
		Status string
		Count  int64
	}
	err = query.Select("applications.status AS status, COUNT(*) AS count").
		Group("applications.status").
		Scan(&rows).Error
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to compute stats: %s", err.Error()),
		})
		return
	}

	stats := gin.H{}
	for _, status := range model.ApplicationStatuses {
		stats[status] = int64(0)
	}

	var total int64
	for _, row := range rows {
		stats[row.Status] = row.Count
		total += row.Count
	}
	stats["Total"] = total

	ctx.JSON(http.StatusOK, gin.H{"stats": stats})
}
