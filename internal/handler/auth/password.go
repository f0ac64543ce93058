package auth

import (
	"fmt"
	"net/http"

	"devcamper/internal/api"
	"devcamper/internal/apperr"
	"devcamper/internal/database"
	"devcamper/internal/dto"
	"devcamper/internal/handler"
	"devcamper/internal/mail"
	"devcamper/internal/service"
	"devcamper/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	newResetToken       = service.NewResetToken
	setResetToken       = store.SetResetToken
	clearResetToken     = store.ClearResetToken
	getUserByResetToken = store.GetUserByResetToken
	updatePassword      = store.UpdatePassword
)

// resetURL 信件中的重設連結，指向 PUT /api/v1/auth/resetpassword/:resettoken
func resetURL(c echo.Context, plain string) string {
	return fmt.Sprintf("%s://%s/api/v1/auth/resetpassword/%s", c.Scheme(), c.Request().Host, plain)
}

// ForgotPasswordHandler 產生 reset token 並寄出重設連結
// @Summary     Forgot password
// @Description 寄送失敗時清除 token 並回 502
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.ForgotPasswordRequest true "Email"
// @Success     200  {object} dto.Response{data=string}
// @Failure     400  {object} dto.HTTPError
// @Failure     404  {object} dto.HTTPError
// @Failure     502  {object} dto.HTTPError
// @Router      /auth/forgetpassword [post]
func ForgotPasswordHandler(db database.DB, mailer mail.Mailer) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.ForgotPasswordRequest
		if err := handler.BindValid(c, &req); err != nil {
			return err
		}
		ctx := c.Request().Context()

		u, err := getUserByEmail(ctx, db, req.Email)
		if err != nil {
			if store.IsNotFound(err) {
				return apperr.NotFound("There is no user with that email")
			}
			return err
		}

		tok, err := newResetToken()
		if err != nil {
			return apperr.Internal(err)
		}
		if err := setResetToken(ctx, db, u.ID, tok.Hash, tok.Expires); err != nil {
			return err
		}

		msg := mail.Message{
			To:      u.Email,
			Subject: "Password reset token",
			Text: "You are receiving this email because you (or someone else) has requested the reset of a password. " +
				"Please make a PUT request to: \n\n" + resetURL(c, tok.Plain),
		}
		if err := mailer.Send(ctx, msg); err != nil {
			if cerr := clearResetToken(ctx, db, u.ID); cerr != nil {
				c.Logger().Errorf("clear reset token of %s: %v", u.ID.Hex(), cerr)
			}
			return apperr.Upstream(err, "Email could not be sent")
		}
		return c.JSON(http.StatusOK, dto.OK("Email sent"))
	}
}

// ResetPasswordHandler 以信件中的 token 設定新密碼並登入
// @Summary     Reset password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       resettoken path     string                   true "Reset token"
// @Param       body       body     api.ResetPasswordRequest true "新密碼"
// @Success     200        {object} dto.TokenResponse
// @Failure     400        {object} dto.HTTPError
// @Router      /auth/resetpassword/{resettoken} [put]
func ResetPasswordHandler(db database.DB, o Options) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.ResetPasswordRequest
		if err := handler.BindValid(c, &req); err != nil {
			return err
		}
		ctx := c.Request().Context()

		u, err := getUserByResetToken(ctx, db, service.HashResetToken(c.Param("resettoken")))
		if err != nil {
			if store.IsNotFound(err) {
				return apperr.BadRequest("Invalid token")
			}
			return err
		}
		hash, err := hashPassword(req.Password)
		if err != nil {
			return apperr.Internal(err)
		}
		if err := updatePassword(ctx, db, u.ID, hash); err != nil {
			return err
		}
		return sendToken(c, o, u)
	}
}
