package app

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/cradoe/finlap/internal/cache"
	"github.com/cradoe/finlap/internal/config"
	"github.com/cradoe/finlap/internal/env"
	"github.com/cradoe/finlap/internal/errHandler"
	"github.com/cradoe/finlap/internal/file"
	"github.com/cradoe/finlap/internal/flutterwave"
	"github.com/cradoe/finlap/internal/helper"
	"github.com/cradoe/finlap/internal/repository"
	"github.com/cradoe/finlap/internal/session"
	"github.com/cradoe/finlap/internal/smtp"
	"github.com/cradoe/finlap/internal/stream"

	"github.com/joho/godotenv"
)

// Essential services and resources are exposed to the application
// this makes it possible for methods to have access to these items as and when they need them
type Application struct {
	Config       config.Config
	DB           repository.Database
	Logger       *slog.Logger
	Mailer       *smtp.Mailer
	Cache        *cache.Cache
	Sessions     *session.Manager
	Kafka        *stream.KafkaStream
	Flutterwave  flutterwave.Service
	FileUploader *file.FileUploader
	WG           *sync.WaitGroup
	errorHandler *errHandler.ErrorHandler
	Helper       *helper.HelperRepository
}

func NewApplication(logger *slog.Logger) (*Application, error) {
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", "error", err)
	}

	var cfg config.Config

	// config values are loaded from the .env file
	// Default values are provided for these items and these should strictly be values for development mode only
	// make sure no production-level value is exposed as default value here
	cfg.BaseURL = env.GetString("BASE_URL", "http://localhost:4444")
	cfg.FrontendURL = env.GetString("FRONTEND_URL", "http://localhost:3000")
	cfg.HttpPort = env.GetInt("HTTP_PORT", 4444)
	cfg.Environment = env.GetString("ENVIRONMENT", "development")

	cfg.Db.Dsn = env.GetString("DB_DSN", "user:pass@localhost:5432/db")
	cfg.Db.Automigrate = env.GetBool("DB_AUTOMIGRATE", true)

	cfg.RedisServer = env.GetString("REDIS_SERVER", "localhost:6379")
	cfg.Session.CookieName = env.GetString("SESSION_COOKIE_NAME", session.DefaultCookieName)

	// server errors won't be sent via email if the NOTIFICATIONS_EMAIL wasn't set in the .env file
	cfg.Notifications.Email = env.GetString("NOTIFICATIONS_EMAIL", "")

	cfg.Smtp.Host = env.GetString("SMTP_HOST", "example.smtp.host")
	cfg.Smtp.Port = env.GetInt("SMTP_PORT", 25)
	cfg.Smtp.Username = env.GetString("SMTP_USERNAME", "example_username")
	cfg.Smtp.Password = env.GetString("SMTP_PASSWORD", "pa55word")
	cfg.Smtp.From = env.GetString("SMTP_FROM", "Finlap <no_reply@finlap.com>")

	cfg.Flutterwave.SecretKey = env.GetString("FLUTTERWAVE_SECRET_KEY", "")
	cfg.Flutterwave.WebhookSecretHash = env.GetString("FLUTTERWAVE_WEBHOOK_SECRET_HASH", "")

	cfg.FileUploader.CloudName = env.GetString("CLOUDINARY_CLOUD_NAME", "")
	cfg.FileUploader.ApiKey = env.GetString("CLOUDINARY_API_KEY", "")
	cfg.FileUploader.ApiSecret = env.GetString("CLOUDINARY_API_SECRET", "")

	cfg.KafkaServers = env.GetString("KAFKA_SERVERS", "localhost:9092")

	db, err := repository.New(cfg.Db.Dsn, cfg.Db.Automigrate)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	mailer, err := smtp.NewMailer(cfg.Smtp.Host, cfg.Smtp.Port, cfg.Smtp.Username, cfg.Smtp.Password, cfg.Smtp.From)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}

	redisCache := cache.New(cfg.RedisServer, 0)

	sessions := session.New(redisCache, cfg.Session.CookieName, cfg.Environment == "production")

	wg := &sync.WaitGroup{}
	helper := helper.New(&cfg.BaseURL, wg, logger)

	errorHandler := errHandler.New(cfg.Notifications.Email, mailer, logger, helper)

	kafkaStream := stream.New(cfg.KafkaServers)

	flwClient := flutterwave.New(cfg.Flutterwave.SecretKey)

	fileUploader := file.New(cfg.FileUploader.CloudName, cfg.FileUploader.ApiKey, cfg.FileUploader.ApiSecret)

	app := &Application{
		Config:       cfg,
		DB:           db,
		Logger:       logger,
		Mailer:       mailer,
		Cache:        redisCache,
		Sessions:     sessions,
		Kafka:        kafkaStream,
		Flutterwave:  flwClient,
		FileUploader: fileUploader,
		WG:           wg,
		errorHandler: errorHandler,
		Helper:       helper,
	}

	return app, nil
}
