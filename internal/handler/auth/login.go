// File: internal/handler/auth/login.go
package auth

import (
	"context"
	"errors"
	"net/http"

	"accountd/internal/api"
	"accountd/internal/cache"
	"accountd/internal/database"
	"accountd/internal/model"
	"accountd/internal/worker"

	"github.com/labstack/echo/v4"
)

// LoginHandler 使用 Email/Password 驗證並回傳令牌
// @Summary     登入使用者
// @Description 使用 Email 與 Password 進行驗證，回傳使用者視圖與存取、更新令牌
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body api.LoginRequest true "登入資料"
// @Success     200 {object} api.AuthResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/login [post]
func LoginHandler(db database.DB, c cache.Cache, wp worker.Pool) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var req api.LoginRequest
		if err := ctx.Bind(&req); err != nil {
			return ctx.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request payload"})
		}
		if err := ctx.Validate(&req); err != nil {
			return ctx.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		user, pair, err := loginUser(ctx.Request().Context(), db, c, req.Email, req.Password)
		if err != nil {
			// 查無帳號、停用、密碼錯誤皆回同一訊息，避免帳號列舉
			if errors.Is(err, model.ErrInvalidCredentials) {
				return ctx.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid credentials"})
			}
			return ctx.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "login failed"})
		}

		wp.Submit(func() { _ = trimRefreshTokens(context.Background(), c, user.ID) })

		return ctx.JSON(http.StatusOK, api.AuthResponse{
			User:         api.NewUserResponse(user),
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		})
	}
}
