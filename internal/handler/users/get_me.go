// File: internal/handler/users/get_me.go
package users

import (
	"errors"
	"net/http"

	"accountd/internal/api"
	"accountd/internal/database"
	"accountd/internal/middleware"
	"accountd/internal/model"
	"accountd/internal/service"
	"accountd/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	getUserByID   = store.GetUserByID
	setUserActive = store.SetUserActive
	updateProfile = service.UpdateProfile
)

// GetMeHandler 取得當前使用者資訊
// @Summary     Get current user info
// @Description 透過 JWT Token 取得當前使用者詳細資訊
// @Tags        users
// @Produce     json
// @Success     200 {object} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [get]
func GetMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claimsRaw := c.Get(middleware.ContextUserKey)
		claims, ok := claimsRaw.(*service.CustomClaims)
		if !ok || claimsRaw == nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		user, err := getUserByID(c.Request().Context(), db, claims.UserID)
		if err != nil {
			if errors.Is(err, model.ErrUserNotFound) {
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "lookup failed"})
		}

		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}
