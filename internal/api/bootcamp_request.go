package api

import (
	"devcamper/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// swagger:model api.CreateBootcampRequest
type CreateBootcampRequest struct {
	Name          string   `json:"name" validate:"required,max=50" example:"Devworks Bootcamp"`
	Description   string   `json:"description" validate:"required,max=500" example:"Devworks is a full stack JavaScript Bootcamp"`
	Website       string   `json:"website" validate:"omitempty,url" example:"https://devworks.com"`
	Phone         string   `json:"phone" validate:"omitempty,max=20" example:"(111) 111-1111"`
	Email         string   `json:"email" validate:"omitempty,email" example:"enroll@devworks.com"`
	Address       string   `json:"address" validate:"required" example:"233 Bay State Rd Boston MA 02215"`
	Careers       []string `json:"careers" validate:"required,min=1,dive,career" example:"Web Development"`
	Housing       bool     `json:"housing"`
	JobAssistance bool     `json:"jobAssistance"`
	JobGuarantee  bool     `json:"jobGuarantee"`
	AcceptGi      bool     `json:"acceptGi"`
}

// Bootcamp 轉成 model；location 由 handler 地理編碼後補上
func (r *CreateBootcampRequest) Bootcamp(owner primitive.ObjectID) *model.Bootcamp {
	return &model.Bootcamp{
		User:          owner,
		Name:          r.Name,
		Description:   r.Description,
		Website:       r.Website,
		Phone:         r.Phone,
		Email:         r.Email,
		Address:       r.Address,
		Careers:       r.Careers,
		Housing:       r.Housing,
		JobAssistance: r.JobAssistance,
		JobGuarantee:  r.JobGuarantee,
		AcceptGi:      r.AcceptGi,
	}
}

// UpdateBootcampRequest 只更新有帶的欄位
// swagger:model api.UpdateBootcampRequest
type UpdateBootcampRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=1,max=50"`
	Description   *string  `json:"description" validate:"omitempty,min=1,max=500"`
	Website       *string  `json:"website" validate:"omitempty,url"`
	Phone         *string  `json:"phone" validate:"omitempty,max=20"`
	Email         *string  `json:"email" validate:"omitempty,email"`
	Address       *string  `json:"address" validate:"omitempty,min=1"`
	Careers       []string `json:"careers" validate:"omitempty,min=1,dive,career"`
	Housing       *bool    `json:"housing"`
	JobAssistance *bool    `json:"jobAssistance"`
	JobGuarantee  *bool    `json:"jobGuarantee"`
	AcceptGi      *bool    `json:"acceptGi"`
}

// Set builds the $set document from the fields present in the request.
func (r *UpdateBootcampRequest) Set() bson.M {
	set := bson.M{}
	putString(set, "name", r.Name)
	putString(set, "description", r.Description)
	putString(set, "website", r.Website)
	putString(set, "phone", r.Phone)
	putString(set, "email", r.Email)
	putString(set, "address", r.Address)
	if r.Careers != nil {
		set["careers"] = r.Careers
	}
	putBool(set, "housing", r.Housing)
	putBool(set, "jobAssistance", r.JobAssistance)
	putBool(set, "jobGuarantee", r.JobGuarantee)
	putBool(set, "acceptGi", r.AcceptGi)
	return set
}

func putString(m bson.M, key string, v *string) {
	if v != nil {
		m[key] = *v
	}
}

func putBool(m bson.M, key string, v *bool) {
	if v != nil {
		m[key] = *v
	}
}
