package handler

import (
	"devcamper/internal/apperr"
	"devcamper/internal/middleware"
	"devcamper/internal/service"
	"devcamper/internal/store"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectIDParam 解析路徑參數；格式錯誤與不存在一律回 NotFound
func ObjectIDParam(c echo.Context, name, resource string) (primitive.ObjectID, error) {
	raw := c.Param(name)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound("%s not found with id of %s", resource, raw)
	}
	return id, nil
}

// StoreError maps a lookup miss to NotFound and passes everything else
// through to the error handler.
func StoreError(err error, resource string, id primitive.ObjectID) error {
	if store.IsNotFound(err) {
		return apperr.NotFound("%s not found with id of %s", resource, id.Hex())
	}
	return err
}

// Principal 取出已驗證的呼叫者，缺少時視為未登入
func Principal(c echo.Context) (service.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return service.Principal{}, apperr.Unauthenticated("Not authorized to access this route")
	}
	return p, nil
}

// BindValid 先 Bind 再驗證
func BindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	return c.Validate(req)
}
