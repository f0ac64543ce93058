// File: internal/model/course.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var MinimumSkills = []string{"beginner", "intermediate", "advanced"}

type Course struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Bootcamp             primitive.ObjectID `bson:"bootcamp" json:"bootcamp"`
	User                 primitive.ObjectID `bson:"user" json:"user"`
	Title                string             `bson:"title" json:"title"`
	Description          string             `bson:"description" json:"description"`
	Weeks                string             `bson:"weeks" json:"weeks"`
	Tuition              float64            `bson:"tuition" json:"tuition"`
	MinimumSkill         string             `bson:"minimumSkill" json:"minimumSkill"`
	ScholarshipAvailable bool               `bson:"scholarshipAvailable" json:"scholarshipAvailable"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
}

// CourseView is a course with its bootcamp joined in place of the bare id.
type CourseView struct {
	Course   `bson:",inline"`
	Bootcamp any `bson:"-" json:"bootcamp"`
}
