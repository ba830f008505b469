package api

import (
	"time"

	"accountd/internal/model"
)

// swagger:model api.UserResponse
// 不包含 password hash 與 refresh token 集合
type UserResponse struct {
	ID        string     `json:"id" example:"0d9bd05a-6a62-4b06-9a3f-1d5efabfa4da"`
	Name      string     `json:"name" example:"Jane Doe"`
	Email     string     `json:"email" example:"jane@example.com"`
	Username  string     `json:"username" example:"jane"`
	Role      string     `json:"role" example:"user"`
	IsActive  bool       `json:"is_active" example:"true"`
	LastLogin *time.Time `json:"last_login,omitempty" example:"2025-05-09T15:04:05Z"`
	CreatedAt time.Time  `json:"created_at" example:"2025-05-01T15:04:05Z"`
	UpdatedAt time.Time  `json:"updated_at" example:"2025-05-01T15:04:05Z"`
}

// NewUserResponse 由使用者紀錄組裝對外視圖
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.DisplayName(),
		Email:     u.Email,
		Username:  u.Username,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
