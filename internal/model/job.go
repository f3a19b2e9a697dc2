package model

import (
	"time"

	"github.com/google/uuid"
)

// EditableJobInfo is the part of a job listing that can be edited by its owner
type EditableJobInfo struct {
	Title        string `gorm:"type:text" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	Requirements string `gorm:"type:text" json:"requirements"`
	Location     string `gorm:"type:text" json:"location"`
	Category     string `gorm:"type:text" json:"category"`
	Type         string `gorm:"type:text" json:"type"`
	SalaryMin    *int   `json:"salary_min"`
	SalaryMax    *int   `json:"salary_max"`
}

// Job is gorm model for store job listing data in DB.
// Every job is owned by exactly one employer user via CompanyID.
type Job struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"company_id"`
	Company   User      `gorm:"foreignKey:CompanyID;references:ID" json:"company"`
	EditableJobInfo
	IsClosed  bool      `gorm:"type:boolean;default:false" json:"is_closed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
