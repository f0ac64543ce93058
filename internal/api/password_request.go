package api

// swagger:model api.ForgotPasswordRequest
type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required,email" example:"john@gmail.com"`
}

// swagger:model api.ResetPasswordRequest
type ResetPasswordRequest struct {
	Password string `json:"password" form:"password" validate:"required,min=6" example:"654321"`
}
