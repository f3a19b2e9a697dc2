package savedjob

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

func newSavedJobRouter() *gin.Engine {
	r := gin.Default()
	sc := NewSavedJobController(testDB)

	r.GET("/saved-jobs/count/:job_id", sc.GetSavedJobCount)

	needJobseeker := r.Group("")
	needJobseeker.Use(middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleJobseeker))
	needJobseeker.POST("/saved-jobs", sc.SaveJob)
	needJobseeker.DELETE("/saved-jobs/:job_id", sc.UnsaveJob)
	needJobseeker.GET("/saved-jobs/my-saved-jobs", sc.GetSavedJobs)
	needJobseeker.GET("/saved-jobs/check/:job_id", sc.CheckSavedJob)

	return r
}

func TestSavedJobLifecycle(t *testing.T) {
	seekerToken, err := auth.GetAccessToken(t, testDB, database.TestJobseeker1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newSavedJobRouter()

	checkEndpoint := fmt.Sprintf("/saved-jobs/check/%d", database.TestJob1.ID)
	countEndpoint := fmt.Sprintf("/saved-jobs/count/%d", database.TestJob1.ID)

	rec, resp := testutil.MakeJSONRequest(nil, seekerToken, r, checkEndpoint, http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, resp["isSaved"])

	rec, resp = testutil.MakeJSONRequest(gin.H{"jobId": database.TestJob1.ID}, seekerToken, r, "/saved-jobs", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, "Job saved successfully", resp["message"])

	// Saving twice is rejected with the fixed message
	rec, resp = testutil.MakeJSONRequest(gin.H{"jobId": database.TestJob1.ID}, seekerToken, r, "/saved-jobs", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Job already saved", resp["error"])

	rec, resp = testutil.MakeJSONRequest(nil, seekerToken, r, checkEndpoint, http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp["isSaved"])

	// Public save count reflects the bookmark
	rec, resp = testutil.MakeJSONRequest(nil, "", r, countEndpoint, http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), resp["saveCount"])

	// The saved list carries the job with its company
	rec, resp = testutil.MakeJSONRequest(nil, seekerToken, r, "/saved-jobs/my-saved-jobs", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	savedJobs := resp["savedJobs"].([]interface{})
	assert.Len(t, savedJobs, 1)
	jobObj := savedJobs[0].(map[string]interface{})["job"].(map[string]interface{})
	assert.Equal(t, database.TestJob1.Title, jobObj["title"])
	assert.Equal(t, float64(1), resp["totalSaved"])

	// Unsave and verify it is gone
	unsaveEndpoint := fmt.Sprintf("/saved-jobs/%d", database.TestJob1.ID)
	rec, resp = testutil.MakeJSONRequest(nil, seekerToken, r, unsaveEndpoint, http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Job unsaved successfully", resp["message"])

	rec, resp = testutil.MakeJSONRequest(nil, seekerToken, r, checkEndpoint, http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, resp["isSaved"])

	rec, resp = testutil.MakeJSONRequest(nil, "", r, countEndpoint, http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), resp["saveCount"])
}

func TestSaveJobNotFound(t *testing.T) {
	seekerToken, err := auth.GetAccessToken(t, testDB, database.TestJobseeker2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newSavedJobRouter()

	rec, resp := testutil.MakeJSONRequest(gin.H{"jobId": 999999}, seekerToken, r, "/saved-jobs", http.MethodPost)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Job not found", resp["error"])
}

func TestUnsaveJobNotSaved(t *testing.T) {
	seekerToken, err := auth.GetAccessToken(t, testDB, database.TestJobseeker2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newSavedJobRouter()

	endpoint := fmt.Sprintf("/saved-jobs/%d", database.TestJob2.ID)
	rec, resp := testutil.MakeJSONRequest(nil, seekerToken, r, endpoint, http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Saved job not found", resp["error"])
}

func TestSaveJobRequiresJobseeker(t *testing.T) {
	employerToken, err := auth.GetAccessToken(t, testDB, database.TestEmployer1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newSavedJobRouter()

	rec, _ := testutil.MakeJSONRequest(gin.H{"jobId": database.TestJob1.ID}, employerToken, r, "/saved-jobs", http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
