package api

// swagger:model api.UpdateMeRequest
// 僅允許更新姓名與 Email，role 與密碼不經過此路徑
type UpdateMeRequest struct {
	Name  string `json:"name,omitempty" example:"Jane Doe"`
	Email string `json:"email,omitempty" validate:"omitempty,email" example:"jane@example.com"`
}
