package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	application "github.com/freitasmatheusrn/pricelist-importer/application"
	configs "github.com/freitasmatheusrn/pricelist-importer/configs"
	"github.com/freitasmatheusrn/pricelist-importer/internal/database/postgres"
	redisdb "github.com/freitasmatheusrn/pricelist-importer/internal/database/redis"
	"github.com/freitasmatheusrn/pricelist-importer/internal/email"
	"github.com/freitasmatheusrn/pricelist-importer/internal/email/mailjet"
	"github.com/freitasmatheusrn/pricelist-importer/internal/email/smtp"
	"github.com/freitasmatheusrn/pricelist-importer/pkg/auth"
	"github.com/freitasmatheusrn/pricelist-importer/pkg/notification"
	"github.com/freitasmatheusrn/pricelist-importer/pkg/notification/twilio"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	tokenFor := flag.String("token", "", "print an API token for the given operator and exit")
	tokenTTL := flag.Duration("token-ttl", 30*24*time.Hour, "lifetime of the token printed by -token")
	flag.Parse()

	config, err := configs.LoadConfig(".")
	if err != nil {
		panic(err)
	}

	if *tokenFor != "" {
		if config.JWTSecret == "" {
			fmt.Fprintln(os.Stderr, "JWT_SECRET is not set")
			os.Exit(1)
		}
		token, err := auth.GenerateJWT(auth.NewClaims(*tokenFor, *tokenTTL), config.JWTSecret)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to sign token:", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	logger := newLogger(config.LogPath)
	defer logger.Sync()

	dsn, err := config.DSN()
	if err != nil {
		logger.Fatal("invalid database configuration", zap.Error(err))
	}

	db, err := postgres.Init(dsn, config.DBMaxConns)
	if err != nil {
		logger.Fatal("error starting db", zap.Error(err))
	}
	defer db.Close()

	// Use REDIS_URL if available (Dokku), otherwise build from individual params
	var redisClient *redisdb.Client
	if config.RedisURL != "" {
		redisClient, err = redisdb.NewClientFromURL(config.RedisURL)
	} else {
		redisClient, err = redisdb.NewClient(redisdb.Config{
			Host:     config.RedisHost,
			Port:     config.RedisPort,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
	}
	if err != nil {
		logger.Fatal("error starting redis", zap.Error(err))
	}
	defer redisClient.Close()

	app := application.Application{
		Config: *config,
		Logger: logger,
		DB:     db,
		Redis:  redisClient,
		Email:  newEmail(config, logger),
		SMS:    newSMS(config, logger),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, app.Mount()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(logPath string) *zap.Logger {
	// Configure encoder
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	// Console core: Info+ to stdout
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		zap.InfoLevel,
	)

	if logPath == "" {
		return zap.New(consoleCore)
	}

	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		panic("failed to open log file: " + err.Error())
	}

	fileEncoderConfig := encoderConfig
	fileEncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder // No colors for file

	// File core: only Warn and Error levels
	fileCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(fileEncoderConfig),
		zapcore.AddSync(logFile),
		zap.WarnLevel,
	)

	return zap.New(zapcore.NewTee(consoleCore, fileCore))
}

func newEmail(config *configs.Configs, logger *zap.Logger) email.Email {
	switch config.EmailProvider {
	case "mailjet":
		if config.MAILJET_API_KEY == "" || config.MAILJET_API_SECRET == "" || config.SMTP_FROM == "" {
			logger.Warn("mailjet is not configured, alert emails are disabled")
			return nil
		}
		return mailjet.New(config.MAILJET_API_KEY, config.MAILJET_API_SECRET, config.SMTP_FROM, config.MailjetFromName)
	case "smtp":
		if config.SMTP_HOST == "" {
			logger.Warn("SMTP_HOST is not set, alert emails are disabled")
			return nil
		}
		from := config.SMTP_FROM
		if from == "" {
			from = config.SMTP_USER
		}
		return smtp.New(from, config.SMTP_HOST, config.SMTP_USER, config.SMTP_PASS, config.SMTP_PORT)
	default:
		logger.Warn("unknown EMAIL_PROVIDER, alert emails are disabled", zap.String("provider", config.EmailProvider))
		return nil
	}
}

func newSMS(config *configs.Configs, logger *zap.Logger) notification.Notification {
	if config.TwilioAccountSID == "" || config.TwilioAuthToken == "" || config.TwilioNumber == "" {
		if len(config.AlertPhones) > 0 {
			logger.Warn("twilio is not configured, alert sms are disabled")
		}
		return nil
	}
	client := twilio.InitClient(config.TwilioAccountSID, config.TwilioAuthToken)
	return twilio.NewSMS(config.TwilioNumber, config.TwilioCountryPrefix, client)
}
