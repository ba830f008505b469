// File: internal/handler/auth/refresh.go
package auth

import (
	"errors"
	"net/http"

	"accountd/internal/api"
	"accountd/internal/cache"
	"accountd/internal/database"
	"accountd/internal/model"

	"github.com/labstack/echo/v4"
)

// RefreshHandler 輪替更新令牌，舊令牌立即失效
// @Summary     Refresh token pair
// @Description 以有效的 refresh token 換取新的存取與更新令牌（一次性使用）
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body api.RefreshRequest true "更新令牌"
// @Success     200 {object} api.TokenResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/refresh [post]
func RefreshHandler(db database.DB, c cache.Cache) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var req api.RefreshRequest
		if err := ctx.Bind(&req); err != nil {
			return ctx.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request payload"})
		}
		if err := ctx.Validate(&req); err != nil {
			return ctx.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		pair, err := rotateRefreshPair(ctx.Request().Context(), db, c, req.RefreshToken)
		if err != nil {
			switch {
			case errors.Is(err, model.ErrInvalidToken):
				return ctx.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid refresh token"})
			case errors.Is(err, model.ErrTokenRevoked):
				return ctx.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "refresh token revoked"})
			case errors.Is(err, model.ErrUserNotFound), errors.Is(err, model.ErrInvalidCredentials):
				return ctx.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid refresh token"})
			}
			return ctx.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "refresh failed"})
		}

		return ctx.JSON(http.StatusOK, api.TokenResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		})
	}
}
