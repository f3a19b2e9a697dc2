package model

import (
	"time"

	"github.com/google/uuid"
)

var (
	// ApplicationStatusApplied indicates that the application was just submitted
	ApplicationStatusApplied = "Applied"
	// ApplicationStatusInReview indicates that the employer is reviewing the application
	ApplicationStatusInReview = "In Review"
	// ApplicationStatusRejected indicates that the application has been rejected
	ApplicationStatusRejected = "Rejected"
	// ApplicationStatusAccepted indicates that the applicant has been hired
	ApplicationStatusAccepted = "Accepted"

	// ApplicationStatuses lists every valid application status
	ApplicationStatuses = []string{
		ApplicationStatusApplied,
		ApplicationStatusInReview,
		ApplicationStatusRejected,
		ApplicationStatusAccepted,
	}
)

// Application represents a job application record linking one job and one
// jobseeker. The composite unique index backs the one-application-per-pair
// invariant in addition to the check performed before insert.
type Application struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	JobID uint `gorm:"not null;index;uniqueIndex:idx_applications_job_applicant" json:"job_id"`
	Job   Job  `gorm:"foreignKey:JobID;references:ID;constraint:OnDelete:CASCADE" json:"job"`

	ApplicantID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_applications_job_applicant" json:"applicant_id"`
	Applicant   User      `gorm:"foreignKey:ApplicantID;references:ID" json:"applicant"`

	Status string `gorm:"type:text;default:'Applied'" json:"status"`
	Resume string `gorm:"type:text" json:"resume"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
