package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/greatson79/test1-lms-sub000/config"
	"github.com/greatson79/test1-lms-sub000/internal/api/handler"
	"github.com/greatson79/test1-lms-sub000/internal/api/middleware"
	"github.com/greatson79/test1-lms-sub000/internal/model"
	"github.com/greatson79/test1-lms-sub000/pkg/jwt"
	"github.com/greatson79/test1-lms-sub000/pkg/redis"
)

// 写操作限流：每个主体每分钟
const (
	authRateLimit   = 10
	reportRateLimit = 20
	rateLimitWindow = time.Minute
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, accounts middleware.AccountChecker, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	handler.RegisterValidatorTagNames()

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	requireAuth := middleware.JWTAuth(jwtMgr, rdb, accounts, logger)

	// 认证模块
	auth := api.Group("/auth")
	{
		authLimit := middleware.RateLimit(rdb, authRateLimit, rateLimitWindow)
		auth.POST("/register", authLimit, h.Auth.Register)
		auth.POST("/login", authLimit, h.Auth.Login)
		auth.POST("/refresh", authLimit, h.Auth.RefreshToken)
		auth.POST("/logout", requireAuth, h.Auth.Logout)
		auth.GET("/me", requireAuth, h.Auth.Me)
	}

	// 公开接口
	api.GET("/courses", h.Course.ListCourses)
	api.GET("/courses/:id", middleware.OptionalAuth(jwtMgr), h.Course.GetCourse)
	api.GET("/categories", h.Category.ListActive)
	api.GET("/difficulties", h.Difficulty.ListActive)

	// 任意登录用户
	authorized := api.Group("")
	authorized.Use(requireAuth)
	{
		authorized.POST("/reports", middleware.RateLimit(rdb, reportRateLimit, rateLimitWindow), h.Report.CreateReport)
	}

	// 学员
	learner := api.Group("")
	learner.Use(requireAuth, middleware.RoleAuth(model.RoleLearner))
	{
		learner.POST("/enrollments", h.Enrollment.Enroll)
		learner.DELETE("/enrollments/:courseId", h.Enrollment.Cancel)

		my := learner.Group("/my/courses")
		{
			my.GET("", h.Enrollment.ListMyCourses)
			my.GET("/:courseId/assignments", h.Assignment.ListMyAssignments)
			my.GET("/:courseId/assignments/calendar.ics", h.Assignment.MyAssignmentCalendar)
			my.GET("/:courseId/assignments/:id", h.Assignment.GetMyAssignment)
			my.POST("/:courseId/assignments/:id/submissions", h.Submission.Submit)
			my.PUT("/:courseId/assignments/:id/submissions", h.Submission.Resubmit)
			my.GET("/:courseId/grades", h.Grade.MyCourseGrade)
		}
	}

	// 讲师
	instructor := api.Group("/instructor")
	instructor.Use(requireAuth, middleware.RoleAuth(model.RoleInstructor))
	{
		instructor.GET("/dashboard", h.Dashboard.Instructor)

		courses := instructor.Group("/courses")
		{
			courses.GET("", h.Course.ListInstructorCourses)
			courses.POST("", h.Course.CreateCourse)
			courses.GET("/:id", h.Course.GetInstructorCourse)
			courses.PUT("/:id", h.Course.UpdateCourse)
			courses.PATCH("/:id/status", h.Course.ChangeCourseStatus)
			courses.GET("/:id/assignments", h.Assignment.ListCourseAssignments)
			courses.POST("/:id/assignments", h.Assignment.CreateAssignment)
			courses.GET("/:id/grades", h.Grade.CourseRoster)
			courses.GET("/:id/grades/export", h.Export.ExportGradeRoster)
		}

		assignments := instructor.Group("/assignments")
		{
			assignments.GET("/:id", h.Assignment.GetAssignment)
			assignments.PUT("/:id", h.Assignment.UpdateAssignment)
			assignments.PATCH("/:id/status", h.Assignment.ChangeAssignmentStatus)
			assignments.GET("/:id/submissions", h.Submission.ListAssignmentSubmissions)
		}

		submissions := instructor.Group("/submissions")
		{
			submissions.PATCH("/:id/grade", h.Submission.Grade)
			submissions.PATCH("/:id/request-resubmission", h.Submission.RequestResubmission)
		}
	}

	// 运营
	operator := api.Group("/operator")
	operator.Use(requireAuth, middleware.RoleAuth(model.RoleOperator))
	{
		operator.GET("/reports", h.Report.ListReports)
		operator.GET("/reports/:id", h.Report.GetReport)
		operator.PATCH("/reports/:id", h.Report.UpdateReportStatus)

		operator.GET("/categories", h.Category.List)
		operator.POST("/categories", h.Category.Create)
		operator.PATCH("/categories/:id", h.Category.Update)

		operator.GET("/difficulties", h.Difficulty.List)
		operator.POST("/difficulties", h.Difficulty.Create)
		operator.PATCH("/difficulties/:id", h.Difficulty.Update)
	}

	return r
}
