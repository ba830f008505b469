// File: internal/handler/users/get_user.go
package users

import (
	"errors"
	"net/http"

	"accountd/internal/api"
	"accountd/internal/database"
	"accountd/internal/model"

	"github.com/labstack/echo/v4"
)

// GetUserHandler 以 ID 查詢使用者（管理員專用）
// @Summary     Get a user by ID
// @Description 透過 ID 查詢並回傳使用者詳細資料
// @Tags        users
// @Produce     json
// @Param       user_id path string true "使用者 ID"
// @Success     200 {object} api.UserResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/{user_id} [get]
func GetUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := getUserByID(c.Request().Context(), db, c.Param("user_id"))
		if err != nil {
			if errors.Is(err, model.ErrUserNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "lookup failed"})
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}
