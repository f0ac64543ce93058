// File: internal/service/reset.go
package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ResetTokenTTL 重設密碼連結有效時間
const ResetTokenTTL = 10 * time.Minute

var randRead = rand.Read

// ResetToken 明文寄給使用者，資料庫只存 Hash
type ResetToken struct {
	Plain   string
	Hash    string
	Expires time.Time
}

// NewResetToken 產生 20 bytes 隨機 token
func NewResetToken() (*ResetToken, error) {
	buf := make([]byte, 20)
	if _, err := randRead(buf); err != nil {
		return nil, err
	}
	plain := hex.EncodeToString(buf)
	return &ResetToken{
		Plain:   plain,
		Hash:    HashResetToken(plain),
		Expires: timeNow().Add(ResetTokenTTL),
	}, nil
}

// HashResetToken returns the hex sha256 stored alongside the user.
func HashResetToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
