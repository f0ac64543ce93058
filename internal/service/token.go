// File: internal/service/token.go
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims 定義 JWT 負載內容
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer 簽發與驗證存取權杖
type TokenIssuer interface {
	Issue(userID, role string) (string, error)
	Verify(token string) (*Claims, error)
}

var (
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
)

// TokenSigner signs HS256 tokens with a fixed secret and lifetime.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenSigner(secret string, ttl time.Duration) (*TokenSigner, error) {
	if secret == "" {
		return nil, errors.New("JWT secret not set")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid token lifetime %s", ttl)
	}
	return &TokenSigner{secret: []byte(secret), ttl: ttl}, nil
}

// Issue 依使用者 id 與角色產生 JWT
func (s *TokenSigner) Issue(userID, role string) (string, error) {
	now := timeNow()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify 驗證並解析 JWT
func (s *TokenSigner) Verify(tokenString string) (*Claims, error) {
	token, err := parseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(timeNow))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// FakeTokenIssuer 測試用
type FakeTokenIssuer struct {
	IssueFn  func(userID, role string) (string, error)
	VerifyFn func(token string) (*Claims, error)
}

func (f *FakeTokenIssuer) Issue(userID, role string) (string, error) {
	if f.IssueFn != nil {
		return f.IssueFn(userID, role)
	}
	panic("unexpected Issue")
}

func (f *FakeTokenIssuer) Verify(token string) (*Claims, error) {
	if f.VerifyFn != nil {
		return f.VerifyFn(token)
	}
	panic("unexpected Verify")
}
