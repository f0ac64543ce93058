package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 啟動時載入一次，之後明確傳遞給各元件
type Config struct {
	Port   string
	AppEnv string

	MongoURI string
	MongoDB  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret       string
	JWTExpire       time.Duration
	JWTCookieExpire time.Duration

	MaxFileUpload int64

	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3PublicURL       string

	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	FromEmail string
	FromName  string

	GeocoderAPIKey string
	GeocoderURL    string

	WorkerCount int
}

// Production reports whether cookies must be marked secure.
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

var (
	loadDotenv = func() error { return godotenv.Load() }
	lookupEnv  = os.LookupEnv
)

// Load 讀取 .env（不存在時略過）與環境變數
func Load() (*Config, error) {
	if err := loadDotenv(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("讀取 .env 失敗: %w", err)
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		AppEnv:            getEnv("APP_ENV", "development"),
		MongoURI:          getEnv("MONGO_URI", ""),
		MongoDB:           getEnv("MONGO_DB", "devcamper"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Region:          getEnv("S3_REGION", "auto"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3PublicURL:       getEnv("S3_PUBLIC_URL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPUser:          getEnv("SMTP_USER", ""),
		SMTPPass:          getEnv("SMTP_PASS", ""),
		FromEmail:         getEnv("FROM_EMAIL", ""),
		FromName:          getEnv("FROM_NAME", "DevCamper"),
		GeocoderAPIKey:    getEnv("GEOCODER_API_KEY", ""),
		GeocoderURL:       getEnv("GEOCODER_URL", "https://www.mapquestapi.com/geocoding/v1/address"),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = getInt("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if cfg.WorkerCount, err = getInt("WORKER_COUNT", 1); err != nil {
		return nil, err
	}
	if cfg.WorkerCount <= 0 {
		return nil, fmt.Errorf("無效的 WORKER_COUNT: %d", cfg.WorkerCount)
	}
	days, err := getInt("JWT_COOKIE_EXPIRE", 30)
	if err != nil {
		return nil, err
	}
	cfg.JWTCookieExpire = time.Duration(days) * 24 * time.Hour

	if cfg.JWTExpire, err = time.ParseDuration(getEnv("JWT_EXPIRE", "720h")); err != nil {
		return nil, fmt.Errorf("無效的 JWT_EXPIRE: %w", err)
	}
	upload, err := getInt("MAX_FILE_UPLOAD", 1000000)
	if err != nil {
		return nil, err
	}
	cfg.MaxFileUpload = int64(upload)

	for name, v := range map[string]string{
		"MONGO_URI":  cfg.MongoURI,
		"REDIS_ADDR": cfg.RedisAddr,
		"JWT_SECRET": cfg.JWTSecret,
	} {
		if v == "" {
			return nil, fmt.Errorf("環境變數 %s 未設定", name)
		}
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := lookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("無效的 %s: %w", key, err)
	}
	return n, nil
}
