package router

import (
	"time"

	"github.com/amspokrm578/Tooling-application/internal/config"
	"github.com/amspokrm578/Tooling-application/internal/handler"
	"github.com/amspokrm578/Tooling-application/internal/middleware"
	"github.com/amspokrm578/Tooling-application/internal/service"
	"github.com/amspokrm578/Tooling-application/internal/store"
	"github.com/amspokrm578/Tooling-application/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and the API route table.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// 组装存储和服务，数据库句柄从这里一路注入下去
	users := store.NewUserStore(db)
	sessions := store.NewSessionStore(db, cfg.JWT.Secret,
		time.Duration(cfg.JWT.ExpireDays)*24*time.Hour)
	auth := service.NewAuthService(users, sessions)

	// 根路由：API 欢迎信息
	r.GET("/", func(c *gin.Context) {
		util.Success(c, util.Response{
			"message": "Welcome to the Tooling Application API",
			"version": "1.0.0",
			"endpoints": gin.H{
				"health": "/api/health",
				"hello":  "/api/hello",
				"users":  "/api/users",
			},
		})
	})

	// ====== API ======
	api := r.Group("/api")

	// 健康检查
	api.GET("/health", func(c *gin.Context) {
		util.Success(c, util.Response{
			"message":   "Server is running",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})
	api.GET("/hello", func(c *gin.Context) {
		util.Success(c, util.Response{
			"message":  "Hello from the API!",
			"greeting": "Welcome to the Tooling Application API",
		})
	})

	// 注册/登录接口（不需要鉴权）
	authHandler := handler.NewAuthHandler(auth)
	api.POST("/users/register", authHandler.Register)
	api.POST("/users/login", authHandler.Login)
	// 登出是幂等的：没带 token 也算成功，所以不挂鉴权中间件
	api.POST("/users/logout", authHandler.Logout)

	// 需要登录才能访问的接口
	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(auth),
		middleware.AuditMiddleware(db, cfg.Security.EncryptionKey),
	)

	protected.GET("/users/me", authHandler.Me)
	protected.POST("/users/refresh", authHandler.Refresh)

	userHandler := handler.NewUserHandler(users)
	protected.GET("/users", userHandler.ListUsers)
	protected.GET("/users/:id", userHandler.GetUser)
	protected.POST("/users", userHandler.CreateUser)
	protected.PUT("/users/:id", userHandler.UpdateUser)
	protected.DELETE("/users/:id", userHandler.DeleteUser)

	toolHandler := handler.NewToolHandler(db)
	protected.POST("/tools", toolHandler.CreateTool)
	protected.GET("/tools", toolHandler.ListTools)
	protected.GET("/tools/:id", toolHandler.GetTool)
	protected.PUT("/tools/:id", toolHandler.UpdateTool)
	protected.DELETE("/tools/:id", toolHandler.DeleteTool)

	borrowingHandler := handler.NewBorrowingHandler(db)
	protected.POST("/borrowings", borrowingHandler.CreateBorrowing)
	protected.GET("/borrowings", borrowingHandler.ListBorrowings)
	protected.PUT("/borrowings/:id/return", borrowingHandler.ReturnBorrowing)
	protected.DELETE("/borrowings/:id", borrowingHandler.DeleteBorrowing)

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/export/borrowings/csv", exportHandler.ExportCSV)
	protected.GET("/export/borrowings/xlsx", exportHandler.ExportXLSX)

	logHandler := handler.NewLogHandler(db, cfg.Security.EncryptionKey, cfg.App.PageSize)
	protected.GET("/logs", logHandler.ListLogs)

	return r
}
