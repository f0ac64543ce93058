package api

import "go.mongodb.org/mongo-driver/bson"

// CreateUserRequest 管理員建立使用者，可指定 admin
// swagger:model api.CreateUserRequest
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required" example:"Jane Doe"`
	Email    string `json:"email" validate:"required,email" example:"jane@gmail.com"`
	Password string `json:"password" validate:"required,min=6" example:"123456"`
	Role     string `json:"role" validate:"omitempty,oneof=user publisher admin" example:"user"`
}

// UpdateUserRequest 管理員更新使用者；未帶的欄位保持不變
// swagger:model api.UpdateUserRequest
type UpdateUserRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
	Role  *string `json:"role" validate:"omitempty,oneof=user publisher admin"`
}

func (r *UpdateUserRequest) Set() bson.M {
	set := bson.M{}
	putString(set, "name", r.Name)
	putString(set, "email", r.Email)
	putString(set, "role", r.Role)
	return set
}

// UpdateDetailsRequest 使用者更新自己的姓名與 Email
// swagger:model api.UpdateDetailsRequest
type UpdateDetailsRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1" example:"John Doe"`
	Email *string `json:"email" validate:"omitempty,email" example:"john@gmail.com"`
}

func (r *UpdateDetailsRequest) Set() bson.M {
	set := bson.M{}
	putString(set, "name", r.Name)
	putString(set, "email", r.Email)
	return set
}

// UpdatePasswordRequest 驗證舊密碼後設定新密碼
// swagger:model api.UpdatePasswordRequest
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required" example:"123456"`
	NewPassword     string `json:"newPassword" validate:"required,min=6" example:"654321"`
}
