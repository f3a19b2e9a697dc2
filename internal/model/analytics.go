package model

import (
	"time"

	"github.com/google/uuid"
)

// Analytics holds per-employer engagement counters. The row is created lazily
// on first access. Counters are bumped at the originating event (job created,
// application received, hire recorded) and are independent from live counts
// over the jobs/applications tables.
type Analytics struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	EmployerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"employer_id"`
	Employer   User      `gorm:"foreignKey:EmployerID;references:ID" json:"-"`

	TotalJobsPosted           int `gorm:"default:0" json:"total_jobs_posted"`
	TotalApplicationsReceived int `gorm:"default:0" json:"total_applications_received"`
	TotalHired                int `gorm:"default:0" json:"total_hired"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
