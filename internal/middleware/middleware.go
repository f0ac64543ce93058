package middleware

import (
	"net/http"
	"slices"
	"strings"

	"devcamper/internal/apperr"
	"devcamper/internal/service"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ContextUserKey = "user"
	// TokenCookie 登入後設定的 httpOnly cookie 名稱
	TokenCookie = "token"
)

// extractToken 優先使用 Authorization: Bearer，其次 token cookie
func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if ck, err := c.Cookie(TokenCookie); err == nil && ck.Value != "none" {
		return ck.Value
	}
	return ""
}

func extractPrincipal(c echo.Context, tokens service.TokenIssuer) (service.Principal, error) {
	raw := extractToken(c)
	if raw == "" {
		return service.Principal{}, apperr.Unauthenticated("Not authorized to access this route")
	}
	claims, err := tokens.Verify(raw)
	if err != nil {
		return service.Principal{}, apperr.Unauthenticated("Not authorized to access this route")
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return service.Principal{}, apperr.Unauthenticated("Not authorized to access this route")
	}
	return service.Principal{ID: id, Role: claims.Role}, nil
}

// RequireAuth 驗證 JWT 並把 service.Principal 放入 context
func RequireAuth(tokens service.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := extractPrincipal(c, tokens)
			if err != nil {
				return err
			}
			c.Set(ContextUserKey, p)
			return next(c)
		}
	}
}

// RequireRoles must run after RequireAuth.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return apperr.Unauthenticated("Not authorized to access this route")
			}
			if !slices.Contains(roles, p.Role) {
				return apperr.Forbidden("User role %s is not authorized to access this route", p.Role)
			}
			return next(c)
		}
	}
}

// PrincipalFrom 取出 RequireAuth 設定的呼叫者
func PrincipalFrom(c echo.Context) (service.Principal, bool) {
	p, ok := c.Get(ContextUserKey).(service.Principal)
	return p, ok
}

// SetTokenCookie 寫入登入 cookie；production 時加上 Secure
func SetTokenCookie(c echo.Context, token string, maxAge int, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
