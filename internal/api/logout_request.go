package api

// swagger:model api.LogoutRequest
// RefreshToken 為空時代表撤銷該使用者所有 refresh token
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty" example:"eyJhbGciOi..."`
}
