package router

import (
	"net/http"

	"codefest/internal/handlers"
	"codefest/internal/middleware"
	"codefest/internal/models"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	userHandler := handlers.NewUserHandler()
	projectHandler := handlers.NewProjectHandler()
	prHandler := handlers.NewPullRequestHandler()
	cardHandler := handlers.NewCardHandler()
	adminHandler := handlers.NewAdminHandler()

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 公共路由 (Public Routes)
	r.GET("/api/leaderboard", userHandler.Leaderboard)       // 排行榜
	r.GET("/api/users/:id", userHandler.Profile)             // 用户主页
	r.GET("/api/projects", projectHandler.List)              // 项目列表
	r.GET("/api/projects/:id", projectHandler.Detail)        // 项目详情
	r.GET("/api/projects/:id/activity", projectHandler.Activity) // 项目提交动态
	r.GET("/api/projects/:id/prs", prHandler.ListByProject)  // 项目下的 PR
	r.GET("/api/cards/verify/:key", cardHandler.Verify)      // ID 卡校验

	r.GET("/api/captcha", authHandler.Captcha)  // 注册验证码
	r.POST("/api/signup", authHandler.Register) // 密码注册
	r.POST("/api/login", authHandler.Login)     // 密码登录
	r.POST("/api/logout", authHandler.Logout)   // 退出登录

	r.GET("/auth/github", authHandler.GithubLogin)             // 发起 GitHub 登录
	r.GET("/auth/github/callback", authHandler.GithubCallback) // OAuth 回调

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/api")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/me", userHandler.Me)
		authorized.PUT("/me/settings", userHandler.UpdateSettings)
		authorized.GET("/me/points", userHandler.PointLogs)
		authorized.POST("/me/avatar", userHandler.UploadAvatar)
		authorized.POST("/me/card", cardHandler.Issue)

		authorized.POST("/prs", prHandler.Submit) // 手动补录 PR
	}

	// 导师路由（管理员隐含导师权限）
	mentor := r.Group("/api")
	mentor.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleMentor))
	{
		mentor.POST("/prs/:id/validate", prHandler.Validate) // 审核 PR
	}

	// 管理员路由
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.POST("/projects", projectHandler.Create)
		admin.PUT("/projects/:id", projectHandler.Update)
		admin.POST("/projects/:id/sync", projectHandler.Sync)
		admin.POST("/sync", projectHandler.SyncAll)

		admin.POST("/recalculate", adminHandler.RecalculateStats)
		admin.POST("/leaderboard/recalculate", adminHandler.RecalculateLeaderboard)

		admin.POST("/users/:id/points", adminHandler.AdjustPoints)
		admin.POST("/users/:id/badges", adminHandler.GrantBadge)
		admin.POST("/users/:id/role", adminHandler.SetRole)
		admin.POST("/users/:id/active", adminHandler.SetActive)

		admin.GET("/badges", adminHandler.ListBadges)
	}
}
