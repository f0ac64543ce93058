package service

import (
	"crypto/rand"
	"errors"
	"testing"
	"time"

	"devcamper/internal/apperr"
	"devcamper/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func restoreGlobals() {
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
	randRead = rand.Read
	timeNow = time.Now
	parseWithClaims = jwt.ParseWithClaims
}

func TestHashPassword(t *testing.T) {
	t.Cleanup(restoreGlobals)
	pwd := "secret"
	hash, err := HashPassword(pwd)
	require.NoError(t, err)
	require.NotEqual(t, pwd, hash)
	require.NoError(t, ComparePassword(hash, pwd))
	require.Error(t, ComparePassword(hash, "other"))

	bcryptGenerateFromPassword = func(_ []byte, _ int) ([]byte, error) {
		return nil, errors.New("gen")
	}
	_, err = HashPassword(pwd)
	require.Error(t, err)
}

func TestAuthenticateUser(t *testing.T) {
	t.Cleanup(restoreGlobals)
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	u := &model.User{PasswordHash: hash}

	require.NoError(t, AuthenticateUser(u, "pw"))
	require.True(t, apperr.Is(AuthenticateUser(u, "bad"), apperr.KindUnauthenticated))
	require.True(t, apperr.Is(AuthenticateUser(nil, "pw"), apperr.KindUnauthenticated))
	require.True(t, apperr.Is(AuthenticateUser(&model.User{}, ""), apperr.KindUnauthenticated))
}

func TestNewTokenSigner(t *testing.T) {
	_, err := NewTokenSigner("", time.Hour)
	require.Error(t, err)
	_, err = NewTokenSigner("s", 0)
	require.Error(t, err)
	s, err := NewTokenSigner("s", time.Hour)
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestTokenSigner(t *testing.T) {
	t.Cleanup(restoreGlobals)
	s, err := NewTokenSigner("s", time.Minute)
	require.NoError(t, err)

	tok, err := s.Issue("64b000000000000000000001", model.RolePublisher)
	require.NoError(t, err)

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (any, error) { return []byte("s"), nil })
	require.NoError(t, err)
	require.Equal(t, "64b000000000000000000001", claims.UserID)
	require.Equal(t, model.RolePublisher, claims.Role)

	got, err := s.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, claims.UserID, got.UserID)

	other, _ := NewTokenSigner("other", time.Minute)
	_, err = other.Verify(tok)
	require.Error(t, err)

	_, err = s.Verify("invalid")
	require.Error(t, err)

	tokNone, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": "x"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	_, err = s.Verify(tokNone)
	require.Error(t, err)

	timeNow = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = s.Verify(tok)
	require.Error(t, err)
	timeNow = time.Now

	parseWithClaims = func(string, jwt.Claims, jwt.Keyfunc, ...jwt.ParserOption) (*jwt.Token, error) {
		return &jwt.Token{Claims: jwt.MapClaims{}, Valid: false}, nil
	}
	_, err = s.Verify("whatever")
	require.Error(t, err)
}

func TestFakeTokenIssuer(t *testing.T) {
	f := &FakeTokenIssuer{}
	require.Panics(t, func() { f.Issue("a", "b") })
	require.Panics(t, func() { f.Verify("t") })
}

func TestAuthorize(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()
	res := primitive.NewObjectID()

	cases := []struct {
		name string
		p    Principal
		ok   bool
	}{
		{"owner user", Principal{ID: owner, Role: model.RoleUser}, true},
		{"owner publisher", Principal{ID: owner, Role: model.RolePublisher}, true},
		{"owner admin", Principal{ID: owner, Role: model.RoleAdmin}, true},
		{"other user", Principal{ID: other, Role: model.RoleUser}, false},
		{"other publisher", Principal{ID: other, Role: model.RolePublisher}, false},
		{"other admin", Principal{ID: other, Role: model.RoleAdmin}, true},
		{"anonymous", Principal{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(owner, tc.p, res)
			if tc.ok {
				require.NoError(t, err)
				return
			}
			e, ok := apperr.As(err)
			require.True(t, ok)
			require.Equal(t, apperr.KindForbidden, e.Kind)
			require.Contains(t, e.Message, tc.p.ID.Hex())
			require.Contains(t, e.Message, res.Hex())
		})
	}
}

func TestCheckBootcampQuota(t *testing.T) {
	p := Principal{ID: primitive.NewObjectID(), Role: model.RolePublisher}
	require.NoError(t, CheckBootcampQuota(p, 0))
	err := CheckBootcampQuota(p, 1)
	require.True(t, apperr.Is(err, apperr.KindBadRequest))
	require.Contains(t, err.Error(), p.ID.Hex())

	admin := Principal{ID: primitive.NewObjectID(), Role: model.RoleAdmin}
	require.NoError(t, CheckBootcampQuota(admin, 3))
}

func TestNewResetToken(t *testing.T) {
	t.Cleanup(restoreGlobals)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return now }

	tok, err := NewResetToken()
	require.NoError(t, err)
	require.Len(t, tok.Plain, 40)
	require.Len(t, tok.Hash, 64)
	require.Equal(t, HashResetToken(tok.Plain), tok.Hash)
	require.Equal(t, now.Add(10*time.Minute), tok.Expires)

	randRead = func([]byte) (int, error) { return 0, errors.New("rand") }
	_, err = NewResetToken()
	require.Error(t, err)
}
