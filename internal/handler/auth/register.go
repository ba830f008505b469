// File: internal/handler/auth/register.go
package auth

import (
	"context"
	"errors"
	"net/http"

	"accountd/internal/api"
	"accountd/internal/cache"
	"accountd/internal/database"
	"accountd/internal/model"
	"accountd/internal/service"
	"accountd/internal/worker"

	"github.com/labstack/echo/v4"
)

var (
	registerUser      = service.RegisterUser
	loginUser         = service.LoginUser
	rotateRefreshPair = service.RotateRefreshPair
	logoutUser        = service.Logout
	trimRefreshTokens = service.TrimRefreshTokens
)

// RegisterHandler 註冊新使用者並回傳使用者視圖與一組令牌
// @Summary     Register a new user
// @Description 建立新帳號，username 未提供時取 email local-part
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body api.RegisterRequest true "註冊資料"
// @Success     201 {object} api.AuthResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     409 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/register [post]
func RegisterHandler(db database.DB, c cache.Cache, wp worker.Pool) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var req api.RegisterRequest
		if err := ctx.Bind(&req); err != nil {
			return ctx.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request payload"})
		}
		if err := ctx.Validate(&req); err != nil {
			return ctx.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		user, pair, err := registerUser(ctx.Request().Context(), db, c, service.RegisterParams{
			Name:            req.Name,
			Email:           req.Email,
			Password:        req.Password,
			ConfirmPassword: req.ConfirmPassword,
			Username:        req.Username,
		})
		if err != nil {
			var ve *service.ValidationError
			switch {
			case errors.As(err, &ve):
				return ctx.JSON(http.StatusBadRequest, api.ErrorResponse{Message: ve.Reason})
			case errors.Is(err, model.ErrEmailTaken), errors.Is(err, model.ErrUsernameTaken):
				return ctx.JSON(http.StatusConflict, api.ErrorResponse{Message: err.Error()})
			}
			return ctx.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "registration failed"})
		}

		// 請求結束後 context 即失效，裁剪作業使用獨立 context
		wp.Submit(func() { _ = trimRefreshTokens(context.Background(), c, user.ID) })

		return ctx.JSON(http.StatusCreated, api.AuthResponse{
			User:         api.NewUserResponse(user),
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		})
	}
}
