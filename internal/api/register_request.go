package api

// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Name            string `json:"name" validate:"required" example:"Jane Doe"`
	Email           string `json:"email" validate:"required,email" example:"jane@example.com"`
	Password        string `json:"password" validate:"required,min=6" example:"Secret123!"`
	ConfirmPassword string `json:"confirm_password,omitempty" example:"Secret123!"`
	Username        string `json:"username,omitempty" example:"jane"`
}
