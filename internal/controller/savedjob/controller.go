// Package savedjob contain handler logic for bookmarked job listings
package savedjob

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"joblink-backend/internal/database"
	"joblink-backend/internal/model"
	"joblink-backend/internal/utilities"
)

// SavedJobController provide handler with access to database
type SavedJobController struct {
	DB *database.DBinstanceStruct
}

// NewSavedJobController create new controller instance with database
func NewSavedJobController(db *database.DBinstanceStruct) *SavedJobController {
	return &SavedJobController{DB: db}
}

type saveJobRequest struct {
	JobID uint `json:"jobId" binding:"required"`
}

// SaveJob bookmark a job for the requesting jobseeker. A job can be saved
// at most once per user.
func (sc *SavedJobController) SaveJob(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req saveJobRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	var job model.Job
	if err := sc.DB.First(&job, "id = ?", req.JobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job: %s", err.Error()),
		})
		return
	}

	var existing model.SavedJob
	err = sc.DB.Where("jobseeker_id = ? AND job_id = ?", user.ID, job.ID).
		First(&existing).Error
	if err == nil {
		ctx.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Job already saved"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to check saved job: %s", err.Error()),
		})
		return
	}

	savedJob := model.SavedJob{
		JobseekerID: user.ID,
		JobID:       job.ID,
	}

	if err := sc.DB.Create(&savedJob).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			ctx.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Job already saved"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to save job: %s", err.Error()),
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":  "Job saved successfully",
		"savedJob": savedJob,
	})
}

// UnsaveJob remove a bookmark on a job for the requesting jobseeker
func (sc *SavedJobController) UnsaveJob(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobID := ctx.Param("job_id")

	var savedJob model.SavedJob
	err = sc.DB.Where("jobseeker_id = ? AND job_id = ?", user.ID, jobID).
		First(&savedJob).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Saved job not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve saved job: %s", err.Error()),
		})
		return
	}

	if err := sc.DB.Delete(&savedJob).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to unsave job: %s", err.Error()),
		})
		return
	}

	ctx.JSON(http.StatusOK, utilities.MessageResponse{Message: "Job unsaved successfully"})
}

// GetSavedJobs list the requesting jobseeker's bookmarked jobs
func (sc *SavedJobController) GetSavedJobs(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	pagination := utilities.ParsePagination(ctx)

	query := sc.DB.Model(&model.SavedJob{}).Where("jobseeker_id = ?", user.ID)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to count saved jobs: %s", err.Error()),
		})
		return
	}

	var savedJobs []model.SavedJob
	err = query.Preload("Job").Preload("Job.Company").
		Order("created_at desc").
		Limit(pagination.Limit).
		Offset(pagination.Offset()).
		Find(&savedJobs).Error
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve saved jobs: %s", err.Error()),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"savedJobs":   savedJobs,
		"totalSaved":  count,
		"totalPages":  pagination.TotalPages(count),
		"currentPage": pagination.Page,
	})
}

// CheckSavedJob tell the requesting jobseeker whether they bookmarked a job
func (sc *SavedJobController) CheckSavedJob(ctx *gin.Context) {
	user, err := utilities.ExtractUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobID := ctx.Param("job_id")

	var savedJob model.SavedJob
	err = sc.DB.Where("jobseeker_id = ? AND job_id = ?", user.ID, jobID).
		First(&savedJob).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusOK, gin.H{"isSaved": false})
			return
		}
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to check saved job: %s", err.Error()),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"isSaved":  true,
		"savedJob": savedJob,
	})
}

// GetSavedJobCount return how many users bookmarked a job
func (sc *SavedJobController) GetSavedJobCount(ctx *gin.Context) {
	jobID := ctx.Param("job_id")

	var count int64
	err := sc.DB.Model(&model.SavedJob{}).
		Where("job_id = ?", jobID).
		Count(&count).Error
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to count saves: %s", err.Error()),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"jobId":     jobID,
		"saveCount": count,
	})
}
