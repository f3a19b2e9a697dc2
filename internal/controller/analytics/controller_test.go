package analytics

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

func newAnalyticsRouter() *gin.Engine {
	r := gin.Default()
	ac := NewAnalyticsController(testDB)

	needEmployer := r.Group("/analytics")
	needEmployer.Use(middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleEmployer))
	needEmployer.GET("/overview", ac.Overview)
	needEmployer.GET("/stats", ac.Stats)
	needEmployer.GET("/trends", ac.Trends)
	needEmployer.GET("/jobs-stats", ac.JobsStats)
	needEmployer.GET("/applications-stats", ac.ApplicationsStats)
	needEmployer.GET("/hiring-analytics", ac.HiringAnalytics)

	return r
}

func TestAnalyticsRequiresEmployer(t *testing.T) {
	seekerToken, err := auth.GetAccessToken(t, testDB, database.TestJobseeker1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newAnalyticsRouter()

	rec, _ := testutil.MakeJSONRequest(nil, seekerToken, r, "/analytics/overview", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOverview(t *testing.T) {
	employerToken, err := auth.GetAccessToken(t, testDB, database.TestEmployer1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newAnalyticsRouter()

	rec, resp := testutil.MakeJSONRequest(nil, employerToken, r, "/analytics/overview", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, "Analytics fetched successfully", resp["message"])

	analytics := resp["analytics"].(map[string]interface{})
	jobsStats := analytics["jobs"].(map[string]interface{})
	// Employer1 owns the two seeded open jobs
	assert.Equal(t, float64(2), jobsStats["totalJobs"])
	assert.Equal(t, float64(2), jobsStats["activeJobs"])

	summary := analytics["summary"].(map[string]interface{})
	// No applications seeded here, so every ratio must be the guarded zero
	assert.Equal(t, float64(0), summary["hireRate"])
	assert.Equal(t, float64(0), summary["averageApplicationsPerJob"])
}

func TestJobsStatsHistograms(t *testing.T) {
	employerToken, err := auth.GetAccessToken(t, testDB, database.TestEmployer1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newAnalyticsRouter()

	rec, resp := testutil.MakeJSONRequest(nil, employerToken, r, "/analytics/jobs-stats", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)

	stats := resp["stats"].(map[string]interface{})
	categories := stats["popularCategories"].(map[string]interface{})
	types := stats["popularTypes"].(map[string]interface{})

	assert.Equal(t, float64(1), categories["Engineering"])
	assert.Equal(t, float64(1), categories["Design"])
	assert.Equal(t, float64(1), types["Full-time"])
	assert.Equal(t, float64(1), types["Contract"])
}

func TestApplicationsStatsEmpty(t *testing.T) {
	employerToken, err := auth.GetAccessToken(t, testDB, database.TestEmployer2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newAnalyticsRouter()

	rec, resp := testutil.MakeJSONRequest(nil, employerToken, r, "/analytics/applications-stats", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)

	stats := resp["stats"].(map[string]interface{})
	assert.Equal(t, float64(0), stats["totalApplications"])

	byStatus := stats["byStatus"].(map[string]interface{})
	for _, status := range model.ApplicationStatuses {
		assert.Equal(t, float64(0), byStatus[status])
	}
}

func TestTrendsPeriods(t *testing.T) {
	employerToken, err := auth.GetAccessToken(t, testDB, database.TestEmployer1.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newAnalyticsRouter()

	rec, resp := testutil.MakeJSONRequest(nil, employerToken, r, "/analytics/trends?period=7days", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	trends := resp["trends"].(map[string]interface{})
	assert.Equal(t, "7 days", trends["period"])
	// Seeded jobs were just created, so they count as recent growth
	assert.Equal(t, float64(2), trends["jobsGrowth"])

	// Unknown period falls back to 30 days
	rec, resp = testutil.MakeJSONRequest(nil, employerToken, r, "/analytics/trends?period=nonsense", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	trends = resp["trends"].(map[string]interface{})
	assert.Equal(t, "30 days", trends["period"])
}

func TestHiringAnalyticsZeroGuards(t *testing.T) {
	employerToken, err := auth.GetAccessToken(t, testDB, database.TestEmployer2.Email, database.TestSeedPassword)
	assert.NoError(t, err)
	r := newAnalyticsRouter()

	rec, resp := testutil.MakeJSONRequest(nil, employerToken, r, "/analytics/hiring-analytics", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)

	metrics := resp["hiringMetrics"].(map[string]interface{})
	assert.Equal(t, float64(0), metrics["hireRate"])

	conversion := metrics["conversionRate"].(map[string]interface{})
	assert.Equal(t, float64(0), conversion["appliedToReview"])
	assert.Equal(t, float64(0), conversion["reviewToAccepted"])
}
