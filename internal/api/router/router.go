package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/drcvmx/school-system/config"
	"github.com/drcvmx/school-system/internal/api/handler"
	"github.com/drcvmx/school-system/internal/api/middleware"
	"github.com/drcvmx/school-system/pkg/jwt"
	"github.com/drcvmx/school-system/pkg/redis"
)

// maxBodyBytes 请求体上限（1 MiB）
const maxBodyBytes = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录接口限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 校历订阅（ICS 为只读公共数据，供日历客户端轮询）
		v1.GET("/calendar/ics", h.Calendar.ICSFeed)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			authorized.POST("/users/:id/reset-password", middleware.RoleAuth("admin"), h.Auth.ResetPassword)

			// 学生模块（Get/List 按身份范围过滤，Service 层裁决）
			students := authorized.Group("/students")
			{
				students.GET("", middleware.RoleAuth("admin", "teacher"), h.Student.List)
				students.GET("/:id", h.Student.Get)
				students.POST("", middleware.RoleAuth("admin"), h.Student.Create)
				students.PUT("/:id", middleware.RoleAuth("admin"), h.Student.Update)
				students.DELETE("/:id", middleware.RoleAuth("admin"), h.Student.Delete)
			}

			// 教师模块
			teachers := authorized.Group("/teachers")
			teachers.Use(middleware.RoleAuth("admin", "teacher"))
			{
				teachers.GET("", h.Teacher.List)
				teachers.GET("/:id", h.Teacher.Get)
				teachers.POST("", middleware.RoleAuth("admin"), h.Teacher.Create)
				teachers.PUT("/:id", middleware.RoleAuth("admin"), h.Teacher.Update)
				teachers.DELETE("/:id", middleware.RoleAuth("admin"), h.Teacher.Delete)
			}

			// 科目模块
			subjects := authorized.Group("/subjects")
			{
				subjects.GET("", h.Academic.ListSubjects)
				subjects.POST("", middleware.RoleAuth("admin"), h.Academic.CreateSubject)
				subjects.PUT("/:id", middleware.RoleAuth("admin"), h.Academic.UpdateSubject)
				subjects.DELETE("/:id", middleware.RoleAuth("admin"), h.Academic.DeleteSubject)
			}

			// 班级模块
			groups := authorized.Group("/groups")
			{
				groups.GET("", h.Academic.ListGroups)
				groups.POST("", middleware.RoleAuth("admin"), h.Academic.CreateGroup)
				groups.PUT("/:id", middleware.RoleAuth("admin"), h.Academic.UpdateGroup)
				groups.DELETE("/:id", middleware.RoleAuth("admin"), h.Academic.DeleteGroup)
			}

			// 学年周期模块
			cycles := authorized.Group("/school-cycles")
			{
				cycles.GET("", h.Academic.ListCycles)
				cycles.GET("/active", h.Academic.GetActiveCycle)
				cycles.POST("", middleware.RoleAuth("admin"), h.Academic.CreateCycle)
				cycles.PUT("/:id/activate", middleware.RoleAuth("admin"), h.Academic.ActivateCycle)
			}

			// 评估阶段模块
			periods := authorized.Group("/evaluation-periods")
			{
				periods.GET("", h.Academic.ListPeriods)
				periods.POST("", middleware.RoleAuth("admin"), h.Academic.CreatePeriod)
				periods.DELETE("/:id", middleware.RoleAuth("admin"), h.Academic.DeletePeriod)
			}

			// 授课分配模块
			assignments := authorized.Group("/assignments")
			{
				assignments.GET("", middleware.RoleAuth("admin", "teacher"), h.Academic.ListAssignments)
				assignments.POST("", middleware.RoleAuth("admin"), h.Academic.CreateAssignment)
				assignments.DELETE("/:id", middleware.RoleAuth("admin"), h.Academic.DeleteAssignment)
			}

			// 成绩模块（录入/修改仅限管理员和任课教师，教师范围由 Service 层裁决）
			grades := authorized.Group("/grades")
			{
				grades.GET("", h.Grade.List)
				grades.GET("/averages/subject", h.Grade.SubjectAverage)
				grades.GET("/averages/overall", h.Grade.OverallAverage)
				grades.POST("", middleware.RoleAuth("admin", "teacher"), h.Grade.Create)
				grades.PUT("/:id", middleware.RoleAuth("admin", "teacher"), h.Grade.Update)
				grades.DELETE("/:id", middleware.RoleAuth("admin", "teacher"), h.Grade.Delete)
			}

			// 成绩单与看板模块
			authorized.GET("/report-cards", h.Report.ReportCards)
			authorized.GET("/report-cards/export/xlsx", h.Report.ExportXLSX)
			authorized.GET("/report-cards/export/pdf", h.Report.ExportPDF)
			authorized.GET("/dashboard", h.Report.Dashboard)

			// 初始化演示账号（幂等）
			authorized.POST("/admin/setup-users", middleware.RoleAuth("admin"), h.Setup.ProvisionSeedAccounts)
		}
	}

	return r
}
