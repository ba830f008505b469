// File: internal/handler/auth/logout.go
package auth

import (
	"errors"
	"net/http"

	"accountd/internal/api"
	"accountd/internal/cache"
	"accountd/internal/middleware"
	"accountd/internal/model"
	"accountd/internal/service"

	"github.com/labstack/echo/v4"
)

// LogoutHandler 撤銷當前使用者的更新令牌
// @Summary     Logout
// @Description 撤銷指定的 refresh token；未指定時撤銷該使用者全部 refresh token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body api.LogoutRequest false "要撤銷的更新令牌"
// @Success     204 "No Content"
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /auth/logout [post]
func LogoutHandler(c cache.Cache) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claimsRaw := ctx.Get(middleware.ContextUserKey)
		claims, ok := claimsRaw.(*service.CustomClaims)
		if !ok || claimsRaw == nil {
			return ctx.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		var req api.LogoutRequest
		if err := ctx.Bind(&req); err != nil {
			return ctx.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request payload"})
		}

		if err := logoutUser(ctx.Request().Context(), c, claims.UserID, req.RefreshToken); err != nil {
			if errors.Is(err, model.ErrInvalidToken) {
				return ctx.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid refresh token"})
			}
			return ctx.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "logout failed"})
		}
		return ctx.NoContent(http.StatusNoContent)
	}
}
