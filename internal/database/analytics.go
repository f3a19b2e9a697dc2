package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"joblink-backend/internal/model"
)

// Analytics counter columns. Counters are bumped at the originating event
// and are independent from live counts over the jobs/applications tables.
const (
	CounterJobsPosted           = "total_jobs_posted"
	CounterApplicationsReceived = "total_applications_received"
	CounterHired                = "total_hired"
)

// GetOrCreateAnalytics returns the analytics row for an employer, creating
// it on first access.
func (d *DBinstanceStruct) GetOrCreateAnalytics(employerID uuid.UUID) (model.Analytics, error) {
	var analytics model.Analytics
	err := d.Where("employer_id = ?", employerID).First(&analytics).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		analytics = model.Analytics{EmployerID: employerID}
		err = d.Create(&analytics).Error
	}
	return analytics, err
}

// BumpAnalyticsCounter increments one counter column on an employer's
// analytics row. The counter update and the event that triggered it are two
// independent store calls, so a failure here leaves them inconsistent;
// callers treat it as best-effort and log instead of failing the request.
func (d *DBinstanceStruct) BumpAnalyticsCounter(employerID uuid.UUID, counter string, delta int) error {
	if _, err := d.GetOrCreateAnalytics(employerID); err != nil {
		return err
	}

	return d.Model(&model.Analytics{}).
		Where("employer_id = ?", employerID).
		Update(counter, gorm.Expr(counter+" + ?", delta)).Error
}
