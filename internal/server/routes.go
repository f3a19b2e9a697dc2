// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	"joblink-backend/internal/auth"
	"joblink-backend/internal/controller/analytics"
	"joblink-backend/internal/controller/application"
	"joblink-backend/internal/controller/job"
	"joblink-backend/internal/controller/savedjob"
	"joblink-backend/internal/controller/user"
	"joblink-backend/internal/middleware"
	"joblink-backend/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	allowOriginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrigins := strings.Split(allowOriginsStr, ",")

	lAuth := auth.NewLocalAuthHandler(s.DB)
	userCtrl := user.NewUserController(s.DB)
	jobCtrl := job.NewJobController(s.DB)
	applicationCtrl := application.NewApplicationController(s.DB)
	savedJobCtrl := savedjob.NewSavedJobController(s.DB)
	analyticsCtrl := analytics.NewAnalyticsController(s.DB)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RequestLogger(s.Log))
	r.Use(middleware.SafeHeader())
	r.Use(middleware.SizeLimit(1 << 20))
	r.Use(middleware.EnvRateLimitMiddleware())

	r.GET("/", s.HelloWorldHandler)
	r.GET("/health", s.healthHandler)

	api := r.Group("/api")
	{
		authRoute := api.Group("/auth")
		{
			authRoute.POST("register", lAuth.LocalRegisterHandler)
			authRoute.POST("login", lAuth.LocalLoginHandler)
			authRoute.GET("check-email/:email", lAuth.CheckEmailHandler)

			authRoute.Use(middleware.RequireAuth(s.DB))
			authRoute.GET("me", lAuth.MeHandler)
			authRoute.PUT("profile", lAuth.UpdateProfileHandler)
			authRoute.PUT("change-password", lAuth.ChangePasswordHandler)
		}

		usersRoute := api.Group("/users")
		{
			usersRoute.GET(":user_id", userCtrl.GetPublicProfile)
		}

		jobsRoute := api.Group("/jobs")
		{
			jobsRoute.GET("", jobCtrl.GetJobs)
			jobsRoute.GET(":job_id", jobCtrl.GetJobByID)
			jobsRoute.GET("company/:company_id", jobCtrl.GetJobsByCompany)

			needEmployer := jobsRoute.Group("")
			{
				needEmployer.Use(middleware.RequireAuth(s.DB), middleware.CheckRole(model.RoleEmployer))
				needEmployer.POST("", jobCtrl.CreateJob)
				needEmployer.PUT(":job_id", jobCtrl.UpdateJob)
				needEmployer.DELETE(":job_id", jobCtrl.DeleteJob)
				needEmployer.PUT(":job_id/toggle-close", jobCtrl.ToggleCloseJob)
				needEmployer.GET("employer/my-jobs", jobCtrl.GetMyJobs)
			}
		}

		applicationsRoute := api.Group("/applications")
		{
			applicationsRoute.Use(middleware.RequireAuth(s.DB))

			needJobseeker := applicationsRoute.Group("")
			{
				needJobseeker.Use(middleware.CheckRole(model.RoleJobseeker))
				needJobseeker.POST("", applicationCtrl.CreateApplication)
				needJobseeker.GET("user/my-applications", applicationCtrl.GetMyApplications)
				needJobseeker.GET("check/:job_id", applicationCtrl.CheckApplication)
				needJobseeker.DELETE(":application_id", applicationCtrl.DeleteApplication)
			}

			needEmployer := applicationsRoute.Group("")
			{
				needEmployer.Use(middleware.CheckRole(model.RoleEmployer))
				needEmployer.GET("job/:job_id", applicationCtrl.GetApplicationsByJob)
				needEmployer.GET("company/my-applications", applicationCtrl.GetCompanyApplications)
				needEmployer.GET("stats/company", applicationCtrl.GetApplicationStats)
				needEmployer.PUT(":application_id/status", applicationCtrl.UpdateApplicationStatus)
			}

			applicationsRoute.GET(":application_id", applicationCtrl.GetApplicationByID)
		}

		savedJobsRoute := api.Group("/saved-jobs")
		{
			savedJobsRoute.GET("count/:job_id", savedJobCtrl.GetSavedJobCount)

			needJobseeker := savedJobsRoute.Group("")
			{
				needJobseeker.Use(middleware.RequireAuth(s.DB), middleware.CheckRole(model.RoleJobseeker))
				needJobseeker.POST("", savedJobCtrl.SaveJob)
				needJobseeker.DELETE(":job_id", savedJobCtrl.UnsaveJob)
				needJobseeker.GET("my-saved-jobs", savedJobCtrl.GetSavedJobs)
				needJobseeker.GET("check/:job_id", savedJobCtrl.CheckSavedJob)
			}
		}

		analyticsRoute := api.Group("/analytics")
		{
			analyticsRoute.Use(middleware.RequireAuth(s.DB), middleware.CheckRole(model.RoleEmployer))
			analyticsRoute.GET("overview", analyticsCtrl.Overview)
			analyticsRoute.GET("stats", analyticsCtrl.Stats)
			analyticsRoute.GET("trends", analyticsCtrl.Trends)
			analyticsRoute.GET("jobs-stats", analyticsCtrl.JobsStats)
			analyticsRoute.GET("applications-stats", analyticsCtrl.ApplicationsStats)
			analyticsRoute.GET("hiring-analytics", analyticsCtrl.HiringAnalytics)
		}
	}

	return r
}

// HelloWorldHandler handle request by return message "Hello World"
func (s *Server) HelloWorldHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "Hello World"

	c.JSON(http.StatusOK, resp)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
