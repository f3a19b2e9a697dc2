// Package job contain handler logic for job listing resources
package job

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"joblink-backend/internal/database"
	"joblink-backend/internal/logger"
	"joblink-backend/internal/model"
	"joblink-backend/internal/utilities"
)

var log = logger.New()

// JobController provide handler with access to database
type JobController struct {
	DB *database.DBinstanceStruct
}

// NewJobController create new controller instance with database
func NewJobController(db *database.DBinstanceStruct) *JobController {
	return &JobController{DB: db}
}

type createJobRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description" binding:"required"`
	Requirements string `json:"requirements" binding:"required"`
	Location     string `json:"location"`
	Category     string `json:"category"`
	Type         string `json:"type" binding:"required"`
	SalaryMin    *int   `json:"salary_min"`
	SalaryMax    *int   `json:"salary_max"`
}

// CreateJob create a job listing owned by the requesting employer
func (jc *JobController) CreateJob(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req createJobRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	job := model.Job{
		CompanyID: user.ID,
		EditableJobInfo: model.EditableJobInfo{
			Title:        req.Title,
			Description:  req.Description,
			Requirements: req.Requirements,
			Location:     req.Location,
			Category:     req.Category,
			Type:         req.Type,
			SalaryMin:    req.SalaryMin,
			SalaryMax:    req.SalaryMax,
		},
	}

	if err := jc.DB.Create(&job).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create job: %s", err.Error()),
		})
		return
	}

	if err := jc.DB.BumpAnalyticsCounter(user.ID, database.CounterJobsPosted, 1); err != nil {
		log.WithError(err).WithField("employer_id", user.ID).
			Warn("failed to bump jobs posted counter")
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Job created successfully",
		"job":     job,
	})
}

// GetJobs list open job listings with optional filters and pagination.
// Closed jobs never appear here.
func (jc *JobController) GetJobs(ctx *gin.Context) {
	pagination := utilities.ParsePagination(ctx)

	query := jc.DB.Model(&model.Job{}).Where("is_closed = ?", false)

	if category := ctx.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if jobType := ctx.Query("type"); jobType != "" {
		query = query.Where("type = ?", jobType)
	}
	if location := ctx.Query("location"); location != "" {
		query = query.Where("location ILIKE ?", "%"+location+"%")
	}
	if search := ctx.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to count jobs: %s", err.Error()),
		})
		return
	}

	var jobs []model.Job
	err := query.Preload("Company").
		Order("created_at desc").
		Limit(pagination.Limit).
		Offset(pagination.Offset()).
		Find(&jobs).Error
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve jobs: %s", err.Error()),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"jobs":        jobs,
		"totalJobs":   count,
		"totalPages":  pagination.TotalPages(count),
		"currentPage": pagination.Page,
	})
}

// GetJobByID return a single job listing with its company
func (jc *JobController) GetJobByID(ctx *gin.Context) {
	jobID := ctx.Param("job_id")

	var job model.Job
	if err := jc.DB.Preload("Company").First(&job, "id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job: %s", err.Error()),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"job": job})
}

// UpdateJob update an owned job listing with the editable fields only
func (jc *JobController) UpdateJob(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobID := ctx.Param("job_id")

	var job model.Job
	if err := jc.DB.First(&job, "id = ?", jobID).Error; err != nil {
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
			Error: "Not authorized to update this job",
		})
		return
	}

	var updated model.EditableJobInfo
	decoder := json.NewDecoder(ctx.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&updated); err != nil {
		ctx.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	utilities.MergeNonEmpty(&job.EditableJobInfo, &updated)

	if err := jc.DB.Save(&job).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update job: %s", err.Error()),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Job updated successfully",
		"job":     job,
	})
}

// DeleteJob remove an owned job listing along with its applications and saves
func (jc *JobController) DeleteJob(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobID := ctx.Param("job_id")

	var job model.Job
	if err := jc.DB.First(&job, "id = ?", jobID).Error; err != nil {
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
			Error: "Not authorized to delete this job",
		})
		return
	}

	err = jc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", job.ID).Delete(&model.Application{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", job.ID).Delete(&model.SavedJob{}).Error; err != nil {
			return err
		}
		return tx.Delete(&job).Error
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete job: %s", err.Error()),
		})
		return
	}

	ctx.JSON(http.StatusOK, utilities.MessageResponse{Message: "Job deleted successfully"})
}

type toggleCloseRequest struct {
	IsClosed *bool `json:"isClosed"`
}

// ToggleCloseJob close or reopen an owned job listing. Without an explicit
// isClosed value the current state is flipped.
func (jc *JobController) ToggleCloseJob(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobID := ctx.Param("job_id")

	var job model.Job
	if err := jc.DB.First(&job, "id = ?", jobID).Error; err != nil {
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
			Error: "Not authorized to update this job",
		})
		return
	}

	var req toggleCloseRequest
	// Body is optional here; ignore bind errors and fall back to a flip
	_ = ctx.ShouldBindJSON(&req)

	newState := !job.IsClosed
	if req.IsClosed != nil {
		newState = *req.IsClosed
	}

	if err := jc.DB.Model(&job).Update("is_closed", newState).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update job: %s", err.Error()),
		})
		return
	}

	message := "Job opened successfully"
	if newState {
		message = "Job closed successfully"
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
		"job":     job,
	})
}

// GetMyJobs list the requesting employer's own job listings. Closed jobs are
// included only when showClosed=true.
func (jc *JobController) GetMyJobs(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	pagination := utilities.ParsePagination(ctx)

	query := jc.DB.Model(&model.Job{}).Where("company_id = ?", user.ID)

	if ctx.Query("showClosed") != "true" {
		query = query.Where("is_closed = ?", false)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to count jobs: %s", err.Error()),
		})
		return
	}

	var jobs []model.Job
	err = query.Order("created_at desc").
		Limit(pagination.Limit).
		Offset(pagination.Offset()).
		Find(&jobs).Error
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve jobs: %s", err.Error()),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"jobs":        jobs,
		"totalJobs":   count,
		"totalPages":  pagination.TotalPages(count),
		"currentPage": pagination.Page,
	})
}

// GetJobsByCompany list a company's open job listings for public viewing
func (jc *JobController) GetJobsByCompany(ctx *gin.Context) {
	companyID := ctx.Param("company_id")

	if _, err := uuid.Parse(companyID); err != nil {
		ctx.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid company id"})
		return
	}

	pagination := utilities.ParsePagination(ctx)

	query := jc.DB.Model(&model.Job{}).
		Where("company_id = ?", companyID).
		Where("is_closed = ?", false)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to count jobs: %s", err.Error()),
		})
		return
	}

	var jobs []model.Job
	err := query.Order("created_at desc").
		Limit(pagination.Limit).
		Offset(pagination.Offset()).
		Find(&jobs).Error
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve jobs: %s", err.Error()),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"jobs":        jobs,
		"totalJobs":   count,
		"totalPages":  pagination.TotalPages(count),
		"currentPage": pagination.Page,
	})
}
