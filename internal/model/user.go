package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	// RoleJobseeker is the role of users who browse, save and apply to jobs
	RoleJobseeker = "jobseeker"
	// RoleEmployer is the role of users who post and manage job listings
	RoleEmployer = "employer"
)

// EditableUserInfo is the part of a user profile that can be edited by the user
type EditableUserInfo struct {
	Name     string         `gorm:"type:text" json:"name"`
	Phone    string         `gorm:"type:text" json:"phone"`
	Location string         `gorm:"type:text" json:"location"`
	Website  string         `gorm:"type:text" json:"website"`
	Bio      string         `gorm:"type:text" json:"bio"`
	Avatar   string         `gorm:"type:text" json:"avatar"`
	Resume   string         `gorm:"type:text" json:"resume"`
	Skills   pq.StringArray `gorm:"type:text[]" json:"skills"`
}

// EditableCompanyInfo holds company details, only meaningful when Role is employer
type EditableCompanyInfo struct {
	CompanyName        string `gorm:"type:text" json:"company_name"`
	CompanyDescription string `gorm:"type:text" json:"company_description"`
	CompanyWebsite     string `gorm:"type:text" json:"company_website"`
	CompanyLogo        string `gorm:"type:text" json:"company_logo"`
}

// User is gorm model for store user account data in DB
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Email    string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	Password string    `gorm:"type:text" json:"-"`
	Role     string    `gorm:"type:text;not null" json:"role"`
	EditableUserInfo
	EditableCompanyInfo
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicProfile returns the subset of user fields visible to anyone,
// excluding contact and credential data. Company fields are included only
// for employers, skills only for jobseekers.
func (u *User) PublicProfile() map[string]interface{} {
	profile := map[string]interface{}{
		"id":         u.ID,
		"name":       u.Name,
		"avatar":     u.Avatar,
		"bio":        u.Bio,
		"website":    u.Website,
		"location":   u.Location,
		"role":       u.Role,
		"created_at": u.CreatedAt,
	}

	switch u.Role {
	case RoleEmployer:
		profile["company_name"] = u.CompanyName
		profile["company_description"] = u.CompanyDescription
		profile["company_website"] = u.CompanyWebsite
		profile["company_logo"] = u.CompanyLogo
	case RoleJobseeker:
		profile["skills"] = u.Skills
	}

	return profile
}
