// File: internal/handler/users/set_active.go
package users

import (
	"errors"
	"net/http"

	"accountd/internal/api"
	"accountd/internal/database"
	"accountd/internal/model"

	"github.com/labstack/echo/v4"
)

// SetActiveHandler 啟用或停用帳號（管理員專用）
// @Summary     Activate or deactivate a user
// @Description 軟停用：is_active=false 的帳號無法登入，既有令牌到期後即失效
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       user_id path string true "使用者 ID"
// @Param       body body api.SetActiveRequest true "啟用狀態"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/{user_id}/active [patch]
func SetActiveHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.SetActiveRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		err := setUserActive(c.Request().Context(), db, c.Param("user_id"), *req.IsActive)
		if err != nil {
			if errors.Is(err, model.ErrUserNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "update failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}
}
