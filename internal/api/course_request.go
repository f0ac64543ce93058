package api

import (
	"devcamper/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CourseRequest 新增課程；POST /courses 時 bootcamp 由 body 帶入
// swagger:model api.CourseRequest
type CourseRequest struct {
	Bootcamp             string  `json:"bootcamp" example:"5d725a1b7b292f5f8ceff788"`
	Title                string  `json:"title" validate:"required" example:"Front End Web Development"`
	Description          string  `json:"description" validate:"required" example:"HTML, CSS and JavaScript"`
	Weeks                string  `json:"weeks" validate:"required" example:"8"`
	Tuition              float64 `json:"tuition" validate:"required,gt=0" example:"8000"`
	MinimumSkill         string  `json:"minimumSkill" validate:"required,oneof=beginner intermediate advanced" example:"beginner"`
	ScholarshipAvailable bool    `json:"scholarshipAvailable"`
}

func (r *CourseRequest) Course(bootcamp, owner primitive.ObjectID) *model.Course {
	return &model.Course{
		Bootcamp:             bootcamp,
		User:                 owner,
		Title:                r.Title,
		Description:          r.Description,
		Weeks:                r.Weeks,
		Tuition:              r.Tuition,
		MinimumSkill:         r.MinimumSkill,
		ScholarshipAvailable: r.ScholarshipAvailable,
	}
}

// swagger:model api.UpdateCourseRequest
type UpdateCourseRequest struct {
	Title                *string  `json:"title" validate:"omitempty,min=1"`
	Description          *string  `json:"description" validate:"omitempty,min=1"`
	Weeks                *string  `json:"weeks" validate:"omitempty,min=1"`
	Tuition              *float64 `json:"tuition" validate:"omitempty,gt=0"`
	MinimumSkill         *string  `json:"minimumSkill" validate:"omitempty,oneof=beginner intermediate advanced"`
	ScholarshipAvailable *bool    `json:"scholarshipAvailable"`
}

func (r *UpdateCourseRequest) Set() bson.M {
	set := bson.M{}
	putString(set, "title", r.Title)
	putString(set, "description", r.Description)
	putString(set, "weeks", r.Weeks)
	if r.Tuition != nil {
		set["tuition"] = *r.Tuition
	}
	putString(set, "minimumSkill", r.MinimumSkill)
	putBool(set, "scholarshipAvailable", r.ScholarshipAvailable)
	return set
}
