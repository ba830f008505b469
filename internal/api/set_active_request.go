package api

// swagger:model api.SetActiveRequest
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required" example:"false"`
}
