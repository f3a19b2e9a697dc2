package model

import (
	"time"

	"github.com/google/uuid"
)

// SavedJob links a jobseeker to a job they bookmarked. At most one row may
// exist per (jobseeker, job) pair.
type SavedJob struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	JobseekerID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_saved_jobs_seeker_job" json:"jobseeker_id"`
	Jobseeker   User      `gorm:"foreignKey:JobseekerID;references:ID" json:"-"`

	JobID uint `gorm:"not null;index;uniqueIndex:idx_saved_jobs_seeker_job" json:"job_id"`
	Job   Job  `gorm:"foreignKey:JobID;references:ID;constraint:OnDelete:CASCADE" json:"job"`

	CreatedAt time.Time `json:"created_at"`
}
