// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"

	"accountd/internal/cache"
	"accountd/internal/database"
	"accountd/internal/handler"
	"accountd/internal/handler/auth"
	"accountd/internal/handler/users"
	"accountd/internal/middleware"
	"accountd/internal/worker"
)

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, db database.DB, c cache.Cache, wp worker.Pool) {
	api := e.Group("/api")

	// 健康檢查（需登入）
	api.GET("/ping", handler.PingHandler(db, c), middleware.RequireAuth)

	// 註冊、登入與令牌生命週期
	api.POST("/auth/register", auth.RegisterHandler(db, c, wp))
	api.POST("/auth/login", auth.LoginHandler(db, c, wp))
	api.POST("/auth/refresh", auth.RefreshHandler(db, c))
	api.POST("/auth/logout", auth.LogoutHandler(c), middleware.RequireAuth)

	// 取得與更新當前使用者個人資料
	apiUsersMe := api.Group("/users/me", middleware.RequireAuth)
	apiUsersMe.GET("", users.GetMeHandler(db))
	apiUsersMe.PUT("", users.UpdateMeHandler(db))

	// 管理員專屬
	apiUsers := api.Group("/users", middleware.RequireAdmin)
	apiUsers.GET("/:user_id", users.GetUserHandler(db))
	apiUsers.PATCH("/:user_id/active", users.SetActiveHandler(db))
}
