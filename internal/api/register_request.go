package api

// swagger:model api.RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name" form:"name" validate:"required" example:"John Doe"`
	Email    string `json:"email" form:"email" validate:"required,email" example:"john@gmail.com"`
	Password string `json:"password" form:"password" validate:"required,min=6" example:"123456"`
	// admin 不可自行註冊
	Role string `json:"role" form:"role" validate:"omitempty,oneof=user publisher" example:"publisher"`
}
