package auth

import (
	"net/http"
	"time"

	"devcamper/internal/api"
	"devcamper/internal/apperr"
	"devcamper/internal/database"
	"devcamper/internal/dto"
	"devcamper/internal/handler"
	"devcamper/internal/middleware"
	"devcamper/internal/model"
	"devcamper/internal/service"
	"devcamper/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	createUser      = store.CreateUser
	getUserByID     = store.GetUserByID
	getUserByEmail  = store.GetUserByEmail
	hashPassword    = service.HashPassword
	authenticate    = service.AuthenticateUser
	logoutCookieAge = 10 * time.Second
)

// Options 簽發 token 與 cookie 的設定
type Options struct {
	Tokens       service.TokenIssuer
	CookieMaxAge time.Duration
	SecureCookie bool
}

// sendToken 簽發 JWT，寫入 cookie 並回傳 {success, token}
func sendToken(c echo.Context, o Options, u *model.User) error {
	token, err := o.Tokens.Issue(u.ID.Hex(), u.Role)
	if err != nil {
		return apperr.Internal(err)
	}
	middleware.SetTokenCookie(c, token, int(o.CookieMaxAge.Seconds()), o.SecureCookie)
	return c.JSON(http.StatusOK, dto.TokenResponse{Success: true, Token: token})
}

// RegisterHandler 建立使用者並直接登入
// @Summary     Register user
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.RegisterRequest true "使用者"
// @Success     200  {object} dto.TokenResponse
// @Failure     400  {object} dto.HTTPError
// @Router      /auth/register [post]
func RegisterHandler(db database.DB, o Options) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
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
		return sendToken(c, o, u)
	}
}

// LoginHandler 以 email/password 登入
// @Summary     Login user
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.LoginRequest true "帳號密碼"
// @Success     200  {object} dto.TokenResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     401  {object} dto.HTTPError
// @Router      /auth/login [post]
func LoginHandler(db database.DB, o Options) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := handler.BindValid(c, &req); err != nil {
			return err
		}
		u, err := getUserByEmail(c.Request().Context(), db, req.Email)
		if err != nil {
			if store.IsNotFound(err) {
				return apperr.Unauthenticated("Invalid credentials")
			}
			return err
		}
		if err := authenticate(u, req.Password); err != nil {
			return err
		}
		return sendToken(c, o, u)
	}
}

// GetMeHandler 回傳目前登入的使用者
// @Summary     Get current user
// @Tags        auth
// @Produce     json
// @Success     200 {object} dto.Response{data=model.User}
// @Failure     401 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /auth/me [get]
func GetMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := handler.Principal(c)
		if err != nil {
			return err
		}
		u, err := getUserByID(c.Request().Context(), db, p.ID)
		if err != nil {
			if store.IsNotFound(err) {
				// token 有效但帳號已不存在
				return apperr.Unauthenticated("Not authorized to access this route")
			}
			return err
		}
		return c.JSON(http.StatusOK, dto.OK(u))
	}
}

// LogoutHandler 以短效 cookie 覆蓋 token
// @Summary     Logout user
// @Tags        auth
// @Produce     json
// @Success     200 {object} dto.Response
// @Router      /auth/logout [get]
func LogoutHandler(o Options) echo.HandlerFunc {
	return func(c echo.Context) error {
		middleware.SetTokenCookie(c, "none", int(logoutCookieAge.Seconds()), o.SecureCookie)
		return c.JSON(http.StatusOK, dto.OK(struct{}{}))
	}
}
