package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hakwonlab/center-schedule-api/internal/middleware"
	"github.com/hakwonlab/center-schedule-api/internal/models"
	"github.com/hakwonlab/center-schedule-api/internal/service"
	"github.com/hakwonlab/center-schedule-api/pkg/config"
	"github.com/hakwonlab/center-schedule-api/pkg/logger"
	corsmiddleware "github.com/hakwonlab/center-schedule-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hakwonlab/center-schedule-api/pkg/middleware/requestid"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Config  *config.Config
	Logger  *zap.Logger
	Auth    *service.AuthService
	Metrics *service.MetricsService
	Student *StudentHandler
	Admin   *AdminHandler
}

// NewRouter builds the gin engine with all middleware and routes attached.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	api := r.Group(deps.Config.APIPrefix)

	student := api.Group("/student")
	{
		student.POST("/login", deps.Student.Login)
		student.GET("/settings", deps.Student.Settings)
		student.POST("/schedules", deps.Student.SaveWeek)
		student.GET("/schedules/:id", deps.Student.GetWeek)
		student.GET("/saves/:id", deps.Student.RecentSaves)
		student.POST("/schedules/copy-from-previous", deps.Student.CopyFromPrevious)
		student.POST("/schedules/draft", deps.Student.SaveDraft)
		student.GET("/schedules/draft", deps.Student.GetDraft)
	}

	api.POST("/admin/login", deps.Admin.Login)
	// The download token is self-authenticating.
	api.GET("/exports/download", deps.Admin.DownloadExport)

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(deps.Auth))
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/me", deps.Admin.Me)
		admin.GET("/auth-check", deps.Admin.AuthCheck)
		admin.GET("/settings", deps.Admin.GetSettings)
		admin.PUT("/settings", deps.Admin.UpdateSettings)
		admin.GET("/students", deps.Admin.ListStudents)
		admin.POST("/students", deps.Admin.CreateStudent)
		admin.PUT("/students/:id", deps.Admin.UpdateStudent)
		admin.DELETE("/students/:id", deps.Admin.DeleteStudent)
		admin.GET("/schedules", deps.Admin.WeekSchedules)
		admin.POST("/schedules/copy-week", deps.Admin.CopyWeek)
		admin.GET("/schedules/export", deps.Admin.ExportWeek)
		admin.POST("/send-sms", deps.Admin.SendSummary)
	}

	return r
}
