// File: internal/service/ownership.go
package service

import (
	"devcamper/internal/apperr"
	"devcamper/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Principal 已驗證的呼叫者
type Principal struct {
	ID   primitive.ObjectID
	Role string
}

func (p Principal) IsAdmin() bool { return p.Role == model.RoleAdmin }

// Authorize 擁有者本人或 admin 才能修改資源
func Authorize(owner primitive.ObjectID, p Principal, resourceID primitive.ObjectID) error {
	if p.IsAdmin() || (!p.ID.IsZero() && owner == p.ID) {
		return nil
	}
	return apperr.Forbidden("User %s is not authorized to modify resource %s", p.ID.Hex(), resourceID.Hex())
}

// CheckBootcampQuota rejects a non-admin principal who already owns a bootcamp.
func CheckBootcampQuota(p Principal, owned int64) error {
	if p.IsAdmin() || owned == 0 {
		return nil
	}
	return apperr.BadRequest("The user with ID %s has already published a bootcamp", p.ID.Hex())
}
