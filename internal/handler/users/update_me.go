// File: internal/handler/users/update_me.go
package users

import (
	"errors"
	"net/http"

	"accountd/internal/api"
	"accountd/internal/database"
	"accountd/internal/middleware"
	"accountd/internal/model"
	"accountd/internal/service"

	"github.com/labstack/echo/v4"
)

// UpdateMeHandler 更新當前使用者資料
// @Summary     Update current user info
// @Description 更新當前使用者姓名與 Email；role 與密碼不可經此路徑變更
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body api.UpdateMeRequest true "更新欄位"
// @Success     200 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     409 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [put]
func UpdateMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claimsRaw := c.Get(middleware.ContextUserKey)
		claims, ok := claimsRaw.(*service.CustomClaims)
		if !ok || claimsRaw == nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		var req api.UpdateMeRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		user, err := updateProfile(c.Request().Context(), db, claims.UserID, service.UpdateProfileParams{
			Name:  req.Name,
			Email: req.Email,
		})
		if err != nil {
			var ve *service.ValidationError
			switch {
			case errors.As(err, &ve):
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: ve.Reason})
			case errors.Is(err, model.ErrEmailTaken):
				return c.JSON(http.StatusConflict, api.ErrorResponse{Message: err.Error()})
			case errors.Is(err, model.ErrUserNotFound):
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "update failed"})
		}

		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}
