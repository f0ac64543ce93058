package main

import (
	"context"
	"fmt"
	"time"

	"devcamper/internal/api"
	"devcamper/internal/cache"
	"devcamper/internal/config"
	"devcamper/internal/database"
	"devcamper/internal/geocode"
	"devcamper/internal/handler/auth"
	"devcamper/internal/mail"
	"devcamper/internal/middleware"
	"devcamper/internal/router"
	"devcamper/internal/service"
	"devcamper/internal/storage"
	"devcamper/internal/worker"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	_ "devcamper/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

var (
	loadConfig      = config.Load
	newMongoDB      = database.NewMongoDB
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	newS3Store      = func(ctx context.Context, o storage.Options) (storage.FileStore, error) { return storage.NewS3Store(ctx, o) }
	newMailer       = func(o mail.Options) (mail.Mailer, error) { return mail.NewSMTPMailer(o) }
	newGeocoder     = func(url, key string) (geocode.Geocoder, error) { return geocode.NewMapQuest(url, key) }
	newWorkerPool   = worker.NewPool
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
)

const connectTimeout = 10 * time.Second

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := newMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return fmt.Errorf("MongoDB 連線失敗: %v", err)
	}
	defer db.Close(context.Background())

	rdb, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %v", err)
	}
	defer rdb.Close()

	if err := runMigrationsFn(cfg.MongoURI, cfg.MongoDB); err != nil {
		return fmt.Errorf("Migration 執行失敗: %v", err)
	}

	files, err := newS3Store(ctx, storage.Options{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		PublicURL:       cfg.S3PublicURL,
	})
	if err != nil {
		return fmt.Errorf("S3 設定失敗: %v", err)
	}

	mailer, err := newMailer(mail.Options{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		User:      cfg.SMTPUser,
		Pass:      cfg.SMTPPass,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
	})
	if err != nil {
		return fmt.Errorf("SMTP 設定失敗: %v", err)
	}

	tokens, err := service.NewTokenSigner(cfg.JWTSecret, cfg.JWTExpire)
	if err != nil {
		return err
	}

	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = middleware.HTTPErrorHandler
	e.Debug = !cfg.Production()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	logErr := func(err error) { e.Logger.Error(err) }

	mq, err := newGeocoder(cfg.GeocoderURL, cfg.GeocoderAPIKey)
	if err != nil {
		return fmt.Errorf("Geocoder 設定失敗: %v", err)
	}

	wp := newWorkerPool(cfg.WorkerCount, logErr)
	defer wp.Stop()

	router.Setup(e, router.Deps{
		DB:       db,
		Cache:    rdb,
		Files:    files,
		Mailer:   mailer,
		Geocoder: geocode.NewCached(mq, rdb, logErr),
		Tokens:   tokens,
		Pool:     wp,
		Auth: auth.Options{
			Tokens:       tokens,
			CookieMaxAge: cfg.JWTCookieExpire,
			SecureCookie: cfg.Production(),
		},
		MaxFileUpload: cfg.MaxFileUpload,
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	return startServer(e, ":"+cfg.Port)
}
