package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"devcamper/internal/api"
	"devcamper/internal/apperr"
	"devcamper/internal/database"
	"devcamper/internal/middleware"
	"devcamper/internal/model"
	"devcamper/internal/service"
	"devcamper/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func restoreGlobals() {
	createUser = store.CreateUser
	getUserByID = store.GetUserByID
	getUserByEmail = store.GetUserByEmail
	hashPassword = service.HashPassword
	authenticate = service.AuthenticateUser
	newResetToken = service.NewResetToken
	setResetToken = store.SetResetToken
	clearResetToken = store.ClearResetToken
	getUserByResetToken = store.GetUserByResetToken
	updatePassword = store.UpdatePassword
	updateUser = store.UpdateUser
}

func newCtx(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = api.NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func options() Options {
	return Options{
		Tokens: &service.FakeTokenIssuer{IssueFn: func(id, role string) (string, error) {
			return "tok-" + role, nil
		}},
		CookieMaxAge: 30 * 24 * time.Hour,
		SecureCookie: true,
	}
}

func tokenCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.TokenCookie {
			return ck
		}
	}
	t.Fatal("token cookie not set")
	return nil
}

func notFound(op string) error { return fmt.Errorf("%s: %w", op, mongo.ErrNoDocuments) }

func TestRegisterHandler(t *testing.T) {
	t.Cleanup(restoreGlobals)
	hashPassword = func(p string) (string, error) { return "hashed-" + p, nil }
	var saved *model.User
	createUser = func(_ context.Context, _ database.DB, u *model.User) (*model.User, error) {
		saved = u
		u.ID = primitive.NewObjectID()
		return u, nil
	}

	c, rec := newCtx(http.MethodPost, "/", `{"name":"John","email":"john@gmail.com","password":"123456"}`)
	require.NoError(t, RegisterHandler(&database.FakeDB{}, options())(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true,"token":"tok-user"}`, rec.Body.String())
	require.Equal(t, model.RoleUser, saved.Role)
	require.Equal(t, "hashed-123456", saved.PasswordHash)

	ck := tokenCookie(t, rec)
	require.Equal(t, "tok-user", ck.Value)
	require.True(t, ck.HttpOnly)
	require.True(t, ck.Secure)
	require.Equal(t, 30*24*3600, ck.MaxAge)

	c, rec = newCtx(http.MethodPost, "/", `{"name":"P","email":"p@gmail.com","password":"123456","role":"publisher"}`)
	require.NoError(t, RegisterHandler(&database.FakeDB{}, options())(c))
	require.Contains(t, rec.Body.String(), "tok-publisher")
}

func TestRegisterHandlerRejects(t *testing.T) {
	t.Cleanup(restoreGlobals)
	createUser = func(context.Context, database.DB, *model.User) (*model.User, error) {
		t.Fatal("unexpected create")
		return nil, nil
	}
	for _, body := range []string{
		`{"name":"A","email":"a@gmail.com","password":"123456","role":"admin"}`,
		`{"name":"A","email":"nope","password":"123456"}`,
		`{"name":"A","email":"a@gmail.com","password":"123"}`,
		`{"email":"a@gmail.com","password":"123456"}`,
		`{`,
	} {
		c, _ := newCtx(http.MethodPost, "/", body)
		require.Error(t, RegisterHandler(&database.FakeDB{}, options())(c), body)
	}

	hashPassword = func(string) (string, error) { return "", errors.New("bcrypt") }
	c, _ := newCtx(http.MethodPost, "/", `{"name":"A","email":"a@gmail.com","password":"123456"}`)
	require.True(t, apperr.Is(RegisterHandler(&database.FakeDB{}, options())(c), apperr.KindInternal))
}

func TestLoginHandler(t *testing.T) {
	t.Cleanup(restoreGlobals)
	u := &model.User{ID: primitive.NewObjectID(), Email: "john@gmail.com", Role: model.RolePublisher, PasswordHash: "h"}
	getUserByEmail = func(_ context.Context, _ database.DB, email string) (*model.User, error) {
		if email == u.Email {
			return u, nil
		}
		return nil, notFound("GetUserByEmail")
	}
	authenticate = func(got *model.User, password string) error {
		if password != "123456" {
			return apperr.Unauthenticated("Invalid credentials")
		}
		return nil
	}
	body := func(email, pw string) string {
		return fmt.Sprintf(`{"email":%q,"password":%q}`, email, pw)
	}

	c, rec := newCtx(http.MethodPost, "/", body("john@gmail.com", "123456"))
	require.NoError(t, LoginHandler(&database.FakeDB{}, options())(c))
	require.Contains(t, rec.Body.String(), "tok-publisher")
	require.Equal(t, "tok-publisher", tokenCookie(t, rec).Value)

	c, _ = newCtx(http.MethodPost, "/", body("john@gmail.com", "bad"))
	require.True(t, apperr.Is(LoginHandler(&database.FakeDB{}, options())(c), apperr.KindUnauthenticated))

	c, _ = newCtx(http.MethodPost, "/", body("who@gmail.com", "123456"))
	require.True(t, apperr.Is(LoginHandler(&database.FakeDB{}, options())(c), apperr.KindUnauthenticated))

	c, _ = newCtx(http.MethodPost, "/", `{"email":"john@gmail.com"}`)
	require.Error(t, LoginHandler(&database.FakeDB{}, options())(c))

	o := options()
	o.Tokens = &service.FakeTokenIssuer{IssueFn: func(string, string) (string, error) { return "", errors.New("sign") }}
	c, _ = newCtx(http.MethodPost, "/", body("john@gmail.com", "123456"))
	require.True(t, apperr.Is(LoginHandler(&database.FakeDB{}, o)(c), apperr.KindInternal))
}

func TestGetMeHandler(t *testing.T) {
	t.Cleanup(restoreGlobals)
	id := primitive.NewObjectID()
	getUserByID = func(_ context.Context, _ database.DB, got primitive.ObjectID) (*model.User, error) {
		if got != id {
			return nil, notFound("GetUserByID")
		}
		return &model.User{ID: id, Name: "John", PasswordHash: "secret", ResetPasswordToken: "r"}, nil
	}

	c, rec := newCtx(http.MethodGet, "/", "")
	c.Set(middleware.ContextUserKey, service.Principal{ID: id, Role: model.RoleUser})
	require.NoError(t, GetMeHandler(&database.FakeDB{})(c))
	require.Contains(t, rec.Body.String(), `"name":"John"`)
	require.NotContains(t, rec.Body.String(), "secret")
	require.NotContains(t, rec.Body.String(), "resetPasswordToken")

	c, _ = newCtx(http.MethodGet, "/", "")
	c.Set(middleware.ContextUserKey, service.Principal{ID: primitive.NewObjectID()})
	require.True(t, apperr.Is(GetMeHandler(&database.FakeDB{})(c), apperr.KindUnauthenticated))

	c, _ = newCtx(http.MethodGet, "/", "")
	require.True(t, apperr.Is(GetMeHandler(&database.FakeDB{})(c), apperr.KindUnauthenticated))
}

func TestLogoutHandler(t *testing.T) {
	c, rec := newCtx(http.MethodGet, "/", "")
	require.NoError(t, LogoutHandler(options())(c))
	require.JSONEq(t, `{"success":true,"data":{}}`, rec.Body.String())
	ck := tokenCookie(t, rec)
	require.Equal(t, "none", ck.Value)
	require.Equal(t, 10, ck.MaxAge)
}
