// File: internal/service/password.go
package service

import (
	"devcamper/internal/apperr"
	"devcamper/internal/model"

	"golang.org/x/crypto/bcrypt"
)

var (
	bcryptGenerateFromPassword   = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
)

// HashPassword 接收明文密碼，回傳 bcrypt 哈希字串
func HashPassword(password string) (string, error) {
	hashBytes, err := bcryptGenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// ComparePassword 比對明文密碼與 bcrypt 哈希，成功回傳 nil
func ComparePassword(hash, password string) error {
	return bcryptCompareHashAndPassword([]byte(hash), []byte(password))
}

// AuthenticateUser 驗證密碼；不論帳號不存在或密碼錯誤都回傳相同訊息
func AuthenticateUser(user *model.User, password string) error {
	if user == nil || user.PasswordHash == "" {
		return apperr.Unauthenticated("Invalid credentials")
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return apperr.Unauthenticated("Invalid credentials")
	}
	return nil
}
