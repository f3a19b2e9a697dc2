package application

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"

	"joblink-backend/internal/auth"
	"joblink-backend/internal/database"
	"joblink-backend/internal/middleware"
	"joblink-backend/internal/model"
	"joblink-backend/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var midTeardown func(context.Context, ...testcontainers.TerminateOption) error
	midTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if midTeardown != nil {
		_ = midTeardown(ctx)
	}
}

func newApplicationRouter() *gin.Engine {
	r := gin.Default()
	ac := NewApplicationController(testDB)

	needAuth := r.Group("")
	needAuth.Use(middleware.RequireAuth(testDB))

	needJobseeker := needAuth.Group("")
	needJobseeker.Use(middleware.CheckRole(model.RoleJobseeker))
	needJobseeker.POST("/applications", ac.CreateApplication)
	needJobseeker.GET("/applications/user/my-applications", ac.GetMyApplications)
	needJobseeker.GET("/applications/check/:job_id", ac.CheckApplication)
	needJobseeker.DELETE("/applications/:application_id", ac.DeleteApplication)

	needEmployer := needAuth.Group("")
	needEmployer.Use(middleware.CheckRole(model.RoleEmployer))
	needEmployer.GET("/applications/job/:job_id", ac.GetApplicationsByJob)
	needEmployer.GET("/applications/company/my-applications", ac.GetCompanyApplications)
	needEmployer.GET("/applications/stats/company", ac.GetApplicationStats)
	needEmployer.PUT("/applications/:application_id/status", ac.UpdateApplicationStatus)

	needAuth.GET("/applications/:application_id", ac.GetApplicationByID)

	return r
}

func TestApplicationLifecycle(t *testing.T) {
	seekerToken, err := auth.GetAccessToken(t, testDB, database.TestJobseeker1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	employerToken, err := auth.GetAccessToken(t, testDB, database.TestEmployer1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newApplicationRouter()

	checkEndpoint := fmt.Sprintf("/applications/check/%d", database.TestJob1.ID)

	// Nothing submitted yet
	rec, resp := testutil.MakeJSONRequest(nil, seekerToken, r, checkEndpoint, http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, resp["hasApplied"])

	before, err := testDB.GetOrCreateAnalytics(database.TestEmployer1.ID)
	assert.NoError(t, err)

	// Apply without a resume: snapshot falls back to the stored one
	rec, resp = testutil.MakeJSONRequest(gin.H{"jobId": database.TestJob1.ID}, seekerToken, r, "/applications", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	appObj := resp["application"].(map[string]interface{})
	assert.Equal(t, model.ApplicationStatusApplied, appObj["status"])
	assert.Equal(t, database.TestJobseeker1.Resume, appObj["resume"])
	applicationID := appObj["id"].(float64)

	after, err := testDB.GetOrCreateAnalytics(database.TestEmployer1.ID)
	assert.NoError(t, err)
	assert.Equal(t, before.TotalApplicationsReceived+1, after.TotalApplicationsReceived)

	// Duplicate rejected with the fixed message
	rec, resp = testutil.MakeJSONRequest(gin.H{"jobId": database.TestJob1.ID}, seekerToken, r, "/applications", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Already applied to this job", resp["error"])

	// Check now reports the application
	rec, resp = testutil.MakeJSONRequest(nil, seekerToken, r, checkEndpoint, http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp["hasApplied"])

	// Employer moves it to Accepted and the hired counter moves with it
	beforeHired, err := testDB.GetOrCreateAnalytics(database.TestEmployer1.ID)
	assert.NoError(t, err)

	statusEndpoint := fmt.Sprintf("/applications/%.0f/status", applicationID)
	rec, resp = testutil.MakeJSONRequest(gin.H{"status": model.ApplicationStatusAccepted}, employerToken, r, statusEndpoint, http.MethodPut)
	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	afterHired, err := testDB.GetOrCreateAnalytics(database.TestEmployer1.ID)
	assert.NoError(t, err)
	assert.Equal(t, beforeHired.TotalHired+1, afterHired.TotalHired)

	// Stats histogram scoped to the job
	statsEndpoint := fmt.Sprintf("/applications/stats/company?jobId=%d", database.TestJob1.ID)
	rec, resp = testutil.MakeJSONRequest(nil, employerToken, r, statsEndpoint, http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	stats := resp["stats"].(map[string]interface{})
	assert.Equal(t, float64(1), stats[model.ApplicationStatusAccepted])
	assert.Equal(t, float64(0), stats[model.ApplicationStatusApplied])
	assert.Equal(t, float64(1), stats["Total"])
}

func TestCreateApplicationJobNotFound(t *testing.T) {
	seekerToken, err := auth.GetAccessToken(t, testDB, database.TestJobseeker2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newApplicationRouter()

	rec, resp := testutil.MakeJSONRequest(gin.H{"jobId": 999999}, seekerToken, r, "/applications", http.MethodPost)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Job not found", resp["error"])
}

func TestCreateApplicationClosedJob(t *testing.T) {
	seekerToken, err := auth.GetAccessToken(t, testDB, database.TestJobseeker2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newApplicationRouter()

	rec, resp := testutil.MakeJSONRequest(gin.H{"jobId": database.TestClosedJob.ID}, seekerToken, r, "/applications", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "This job is no longer accepting applications", resp["error"])
}

func TestGetApplicationByIDAccessControl(t *testing.T) {
	seekerToken, err := auth.GetAccessToken(t, testDB, database.TestJobseeker2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	ownerToken, err := auth.GetAccessToken(t, testDB, database.TestEmployer1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	otherEmployerToken, err := auth.GetAccessToken(t, testDB, database.TestEmployer2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newApplicationRouter()

	// Jobseeker2 applies to employer1's job
	rec, resp := testutil.MakeJSONRequest(gin.H{"jobId": database.TestJob2.ID, "resume": "/resumes/bob.pdf"}, seekerToken, r, "/applications", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	applicationID := resp["application"].(map[string]interface{})["id"].(float64)

	endpoint := fmt.Sprintf("/applications/%.0f", applicationID)

	// Applicant can view
	rec, _ = testutil.MakeJSONRequest(nil, seekerToken, r, endpoint, http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Job owner can view
	rec, _ = testutil.MakeJSONRequest(nil, ownerToken, r, endpoint, http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Unrelated employer cannot
	rec, resp = testutil.MakeJSONRequest(nil, otherEmployerToken, r, endpoint, http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not authorized to view this application", resp["error"])

	// Missing resource reports 404 even for unrelated users
	rec, _ = testutil.MakeJSONRequest(nil, otherEmployerToken, r, "/applications/999999", http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStatusValidation(t *testing.T) {
	ownerToken, err := auth.GetAccessToken(t, testDB, database.TestEmployer1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newApplicationRouter()

	var application model.Application
	err = testDB.Where("job_id = ?", database.TestJob2.ID).First(&application).Error
	assert.NoError(t, err)

	endpoint := fmt.Sprintf("/applications/%d/status", application.ID)
	rec, resp := testutil.MakeJSONRequest(gin.H{"status": "Hired!!"}, ownerToken, r, endpoint, http.MethodPut)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid status", resp["error"])
}

func TestUpdateStatusOwnershipEnforced(t *testing.T) {
	otherEmployerToken, err := auth.GetAccessToken(t, testDB, database.TestEmployer2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newApplicationRouter()

	var application model.Application
	err = testDB.Where("job_id = ?", database.TestJob2.ID).First(&application).Error
	assert.NoError(t, err)

	endpoint := fmt.Sprintf("/applications/%d/status", application.ID)
	rec, resp := testutil.MakeJSONRequest(gin.H{"status": model.ApplicationStatusInReview}, otherEmployerToken, r, endpoint, http.MethodPut)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not authorized to update this application", resp["error"])
}

func TestGetMyApplicationsStatusFilter(t *testing.T) {
	seekerToken, err := auth.GetAccessToken(t, testDB, database.TestJobseeker1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newApplicationRouter()

	rec, resp := testutil.MakeJSONRequest(nil, seekerToken, r,
		"/applications/user/my-applications?status=Accepted", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)

	applications := resp["applications"].([]interface{})
	assert.NotEmpty(t, applications)
	for _, a := range applications {
		assert.Equal(t, model.ApplicationStatusAccepted, a.(map[string]interface{})["status"])
	}
	assert.Contains(t, resp, "totalApplications")
	assert.Contains(t, resp, "totalPages")
	assert.Contains(t, resp, "currentPage")
}

func TestGetCompanyApplicationsJoinsThroughJobs(t *testing.T) {
	employerToken, err := auth.GetAccessToken(t, testDB, database.TestEmployer1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newApplicationRouter()

	rec, resp := testutil.MakeJSONRequest(nil, employerToken, r,
		"/applications/company/my-applications?limit=100", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)

	applications := resp["applications"].([]interface{})
	assert.NotEmpty(t, applications)
	for _, a := range applications {
		jobObj := a.(map[string]interface{})["job"].(map[string]interface{})
		assert.Equal(t, database.TestEmployer1.ID.String(), jobObj["company_id"])
	}
}

func TestGetApplicationsByJobOwnershipEnforced(t *testing.T) {
	otherEmployerToken, err := auth.GetAccessToken(t, testDB, database.TestEmployer2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newApplicationRouter()

	endpoint := fmt.Sprintf("/applications/job/%d", database.TestJob1.ID)
	rec, resp := testutil.MakeJSONRequest(nil, otherEmployerToken, r, endpoint, http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not authorized to view applications for this job", resp["error"])

	rec, _ = testutil.MakeJSONRequest(nil, otherEmployerToken, r, "/applications/job/999999", http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteApplicationApplicantOnly(t *testing.T) {
	seekerToken, err := auth.GetAccessToken(t, testDB, database.TestJobseeker2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	otherSeekerToken, err := auth.GetAccessToken(t, testDB, database.TestJobseeker1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newApplicationRouter()

	var application model.Application
	err = testDB.Where("applicant_id = ?", database.TestJobseeker2.ID).First(&application).Error
	assert.NoError(t, err)

	endpoint := fmt.Sprintf("/applications/%d", application.ID)

	rec, resp := testutil.MakeJSONRequest(nil, otherSeekerToken, r, endpoint, http.MethodDelete)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not authorized to delete this application", resp["error"])

	rec, resp = testutil.MakeJSONRequest(nil, seekerToken, r, endpoint, http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Application withdrawn successfully", resp["message"])

	err = testDB.First(&model.Application{}, "id = ?", application.ID).Error
	assert.Error(t, err)
}
