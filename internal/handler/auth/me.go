package auth

import (
	"net/http"

	"devcamper/internal/api"
	"devcamper/internal/apperr"
	"devcamper/internal/database"
	"devcamper/internal/dto"
	"devcamper/internal/handler"
	"devcamper/internal/store"

	"github.com/labstack/echo/v4"
)

var updateUser = store.UpdateUser

// UpdateDetailsHandler 更新自己的姓名與 Email
// @Summary     Update own details
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.UpdateDetailsRequest true "欄位"
// @Success     200  {object} dto.Response{data=model.User}
// @Failure     400  {object} dto.HTTPError
// @Failure     401  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /auth/updatedetails [put]
func UpdateDetailsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := handler.Principal(c)
		if err != nil {
			return err
		}
		var req api.UpdateDetailsRequest
		if err := handler.BindValid(c, &req); err != nil {
			return err
		}
		ctx := c.Request().Context()

		set := req.Set()
		if len(set) == 0 {
			u, err := getUserByID(ctx, db, p.ID)
			if err != nil {
				return handler.StoreError(err, "User", p.ID)
			}
			return c.JSON(http.StatusOK, dto.OK(u))
		}
		u, err := updateUser(ctx, db, p.ID, set)
		if err != nil {
			return handler.StoreError(err, "User", p.ID)
		}
		return c.JSON(http.StatusOK, dto.OK(u))
	}
}

// UpdatePasswordHandler 驗證目前密碼後更新，並重新簽發 token
// @Summary     Update own password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.UpdatePasswordRequest true "密碼"
// @Success     200  {object} dto.TokenResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     401  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /auth/updatepassword [put]
func UpdatePasswordHandler(db database.DB, o Options) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := handler.Principal(c)
		if err != nil {
			return err
		}
		var req api.UpdatePasswordRequest
		if err := handler.BindValid(c, &req); err != nil {
			return err
		}
		ctx := c.Request().Context()

		u, err := getUserByID(ctx, db, p.ID)
		if err != nil {
			return handler.StoreError(err, "User", p.ID)
		}
		if err := authenticate(u, req.CurrentPassword); err != nil {
			return apperr.Unauthenticated("Password is incorrect")
		}
		hash, err := hashPassword(req.NewPassword)
		if err != nil {
			return apperr.Internal(err)
		}
		if err := updatePassword(ctx, db, u.ID, hash); err != nil {
			return err
		}
		return sendToken(c, o, u)
	}
}
