package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gis-erp/backend/config"
	"gis-erp/backend/internal/api/handler"
	"gis-erp/backend/internal/api/middleware"
	"gis-erp/backend/pkg/jwt"
	"gis-erp/backend/pkg/redis"
)

const maxBodyBytes = 1 << 20 // 1MB

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，带速率限制防爆破）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 10, time.Minute))
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 资源模块
			resources := authorized.Group("/resources")
			{
				resources.GET("", h.Resource.ListResources)
				resources.GET("/:id", h.Resource.GetResource)
				resources.POST("", middleware.RoleAuth("admin"), h.Resource.CreateResource)
				resources.PUT("/:id", middleware.RoleAuth("admin"), h.Resource.UpdateResource)
				resources.DELETE("/:id", middleware.RoleAuth("admin"), h.Resource.DeactivateResource)
				resources.GET("/:id/calendar.ics", h.Resource.ResourceCalendar)
				resources.GET("/:id/unavailability", h.Availability.ListUnavailability)
				resources.DELETE("/:id/unavailability/:date", middleware.RoleAuth("admin", "scheduler"), h.Availability.DeleteUnavailability)
			}

			// 技能模块
			skills := authorized.Group("/skills")
			{
				skills.GET("", h.Skill.ListSkills)
				skills.POST("", middleware.RoleAuth("admin"), h.Skill.CreateSkill)
				skills.PUT("/:id", middleware.RoleAuth("admin"), h.Skill.UpdateSkill)
				skills.DELETE("/:id", middleware.RoleAuth("admin"), h.Skill.DeleteSkill)
			}

			// 分配模块
			assignments := authorized.Group("/assignments")
			{
				assignments.GET("", h.Assignment.ListAssignments)
				assignments.GET("/:id", h.Assignment.GetAssignment)
				assignments.POST("", middleware.RoleAuth("admin", "scheduler"), h.Assignment.CreateAssignment)
				assignments.PUT("/:id/actual-hours", middleware.RoleAuth("admin", "scheduler"), h.Assignment.LogActualHours)
				assignments.PUT("/:id/status", middleware.RoleAuth("admin", "scheduler"), h.Assignment.UpdateAssignmentStatus)
			}

			// 可用性模块
			authorized.POST("/unavailability", middleware.RoleAuth("admin", "scheduler"), h.Availability.SetUnavailability)

			// 报表模块
			reports := authorized.Group("/reports")
			{
				reports.GET("/utilization", h.Utilization.GetReport)
				reports.GET("/utilization/export", h.Utilization.ExportReport)
			}
		}
	}

	return r
}
