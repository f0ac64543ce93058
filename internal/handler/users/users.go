package users

import (
	"net/http"

	"devcamper/internal/api"
	"devcamper/internal/apperr"
	"devcamper/internal/database"
	"devcamper/internal/dto"
	"devcamper/internal/handler"
	"devcamper/internal/model"
	"devcamper/internal/query"
	"devcamper/internal/service"
	"devcamper/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	hashPassword = service.HashPassword
	listUsers    = store.ListUsers
	createUser   = store.CreateUser
	getUserByID  = store.GetUserByID
	updateUser   = store.UpdateUser
	deleteUser   = store.DeleteUser
)

// @Summary     List users
// @Description 僅限 admin；支援與 bootcamp 清單相同的查詢參數
// @Tags        users
// @Produce     json
// @Param       select query string  false "欄位，以逗號分隔"
// @Param       sort   query string  false "排序，- 為遞減"
// @Param       page   query integer false "頁碼" default(1)
// @Param       limit  query integer false "每頁筆數" default(25)
// @Success     200    {object} dto.ListResponse
// @Failure     400    {object} dto.HTTPError
// @Failure     403    {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /users [get]
func ListUsersHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		q, err := query.Parse(c.QueryParams(), store.UserFields)
		if err != nil {
			return err
		}
		docs, total, err := listUsers(c.Request().Context(), db, q)
		if err != nil {
			return err
		}
		_, pagination := query.Paginate(q.Page, q.Limit, total)
		return c.JSON(http.StatusOK, dto.ListResponse{
			Success:    true,
			Count:      len(docs),
			Total:      total,
			Pagination: pagination,
			Data:       docs,
		})
	}
}

// @Summary     Get a user
// @Tags        users
// @Produce     json
// @Param       id  path     string true "User ID"
// @Success     200 {object} dto.Response{data=model.User}
// @Failure     404 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /users/{id} [get]
func GetUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ObjectIDParam(c, "id", "User")
		if err != nil {
			return err
		}
		u, err := getUserByID(c.Request().Context(), db, id)
		if err != nil {
			return handler.StoreError(err, "User", id)
		}
		return c.JSON(http.StatusOK, dto.OK(u))
	}
}

// @Summary     Create a user
// @Description 管理員建立帳號，可指定任何角色
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     api.CreateUserRequest true "使用者"
// @Success     201  {object} dto.Response{data=model.User}
// @Failure     400  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /users [post]
func CreateUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateUserRequest
		if err := handler.BindValid(c, &req); err != nil {
			return err
		}
		hash, err := hashPassword(req.Password)
		if err != nil {
			return apperr.Internal(err)
		}
		role := req.Role
		if role == "" {
			role = model.RoleUser
		}
		u, err := createUser(c.Request().Context(), db, &model.User{
			Name:         req.Name,
			Email:        req.Email,
			Role:         role,
			PasswordHash: hash,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, dto.OK(u))
	}
}

// @Summary     Update a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       id   path     string                true "User ID"
// @Param       body body     api.UpdateUserRequest true "欄位"
// @Success     200  {object} dto.Response{data=model.User}
// @Failure     400  {object} dto.HTTPError
// @Failure     404  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /users/{id} [put]
func UpdateUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ObjectIDParam(c, "id", "User")
		if err != nil {
			return err
		}
		var req api.UpdateUserRequest
		if err := handler.BindValid(c, &req); err != nil {
			return err
		}
		ctx := c.Request().Context()

		set := req.Set()
		if len(set) == 0 {
			u, err := getUserByID(ctx, db, id)
			if err != nil {
				return handler.StoreError(err, "User", id)
			}
			return c.JSON(http.StatusOK, dto.OK(u))
		}
		u, err := updateUser(ctx, db, id, set)
		if err != nil {
			return handler.StoreError(err, "User", id)
		}
		return c.JSON(http.StatusOK, dto.OK(u))
	}
}

// @Summary     Delete a user
// @Tags        users
// @Produce     json
// @Param       id  path     string true "User ID"
// @Success     200 {object} dto.Response
// @Failure     404 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /users/{id} [delete]
func DeleteUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ObjectIDParam(c, "id", "User")
		if err != nil {
			return err
		}
		if err := deleteUser(c.Request().Context(), db, id); err != nil {
			return handler.StoreError(err, "User", id)
		}
		return c.JSON(http.StatusOK, dto.OK(struct{}{}))
	}
}
