package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Configs struct {
	DatabaseURL         string   `mapstructure:"DATABASE_URL"`
	DBDriver            string   `mapstructure:"DB_DRIVER"`
	DBHost              string   `mapstructure:"DB_HOST"`
	DBName              string   `mapstructure:"DB_NAME"`
	DBPort              string   `mapstructure:"DB_PORT"`
	DBUser              string   `mapstructure:"DB_USER"`
	DBPassword          string   `mapstructure:"DB_PASSWORD"`
	DBMaxConns          int32    `mapstructure:"DB_MAX_CONNS"`
	RedisURL            string   `mapstructure:"REDIS_URL"`
	RedisHost           string   `mapstructure:"REDIS_HOST"`
	RedisPort           string   `mapstructure:"REDIS_PORT"`
	RedisPassword       string   `mapstructure:"REDIS_PASSWORD"`
	RedisDB             int      `mapstructure:"REDIS_DB"`
	WebServerPort       string   `mapstructure:"WEB_SERVER_PORT"`
	TLSCertFile         string   `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile          string   `mapstructure:"TLS_KEY_FILE"`
	JWTSecret           string   `mapstructure:"JWT_SECRET"` // empty disables the guard
	ImportBatchSize     int      `mapstructure:"IMPORT_BATCH_SIZE"`
	ImportWorkers       int      `mapstructure:"IMPORT_WORKERS"`
	StoreTimeoutSeconds int      `mapstructure:"STORE_TIMEOUT_SECONDS"`
	MaxUploadSize       string   `mapstructure:"MAX_UPLOAD_SIZE"` // echo BodyLimit format, e.g. "20M"
	RunStatusTTLHours   int      `mapstructure:"RUN_STATUS_TTL_HOURS"`
	CronExpression      string   `mapstructure:"CRON_EXPRESSION"`    // 6 fields with seconds
	ImportSourcePath    string   `mapstructure:"IMPORT_SOURCE_PATH"` // empty disables the scheduler
	EmailProvider       string   `mapstructure:"EMAIL_PROVIDER"`     // smtp or mailjet
	SMTP_HOST           string   `mapstructure:"SMTP_HOST"`
	SMTP_PORT           int      `mapstructure:"SMTP_PORT"`
	SMTP_USER           string   `mapstructure:"SMTP_USER"`
	SMTP_PASS           string   `mapstructure:"SMTP_PASS"`
	SMTP_FROM           string   `mapstructure:"SMTP_FROM"`
	MAILJET_API_KEY     string   `mapstructure:"MAILJET_API_KEY"`
	MAILJET_API_SECRET  string   `mapstructure:"MAILJET_API_SECRET"`
	MailjetFromName     string   `mapstructure:"MAILJET_FROM_NAME"`
	AlertRecipients     []string `mapstructure:"ALERT_RECIPIENTS"` // Email recipients for error alerts
	TwilioAccountSID    string   `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken     string   `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioNumber        string   `mapstructure:"TWILIO_NUMBER"`
	TwilioCountryPrefix string   `mapstructure:"TWILIO_COUNTRY_PREFIX"` // for numbers given without "+"
	AlertPhones         []string `mapstructure:"ALERT_PHONES"`
	LogPath             string   `mapstructure:"LOG_PATH"` // Path to log file (e.g., "/var/log/importer.log")
}

var defaults = map[string]any{
	"DATABASE_URL":          "",
	"DB_DRIVER":             "postgres",
	"DB_HOST":               "",
	"DB_NAME":               "",
	"DB_PORT":               "5432",
	"DB_USER":               "",
	"DB_PASSWORD":           "",
	"DB_MAX_CONNS":          10,
	"REDIS_URL":             "",
	"REDIS_HOST":            "localhost",
	"REDIS_PORT":            "6379",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"WEB_SERVER_PORT":       ":8080",
	"TLS_CERT_FILE":         "",
	"TLS_KEY_FILE":          "",
	"JWT_SECRET":            "",
	"IMPORT_BATCH_SIZE":     50,
	"IMPORT_WORKERS":        1,
	"STORE_TIMEOUT_SECONDS": 10,
	"MAX_UPLOAD_SIZE":       "20M",
	"RUN_STATUS_TTL_HOURS":  24,
	"CRON_EXPRESSION":       "0 0 3 * * *", // 3:00 AM every day
	"IMPORT_SOURCE_PATH":    "",
	"EMAIL_PROVIDER":        "smtp",
	"SMTP_HOST":             "",
	"SMTP_PORT":             587,
	"SMTP_USER":             "",
	"SMTP_PASS":             "",
	"SMTP_FROM":             "",
	"MAILJET_API_KEY":       "",
	"MAILJET_API_SECRET":    "",
	"MAILJET_FROM_NAME":     "Price list importer",
	"ALERT_RECIPIENTS":      []string{},
	"TWILIO_ACCOUNT_SID":    "",
	"TWILIO_AUTH_TOKEN":     "",
	"TWILIO_NUMBER":         "",
	"TWILIO_COUNTRY_PREFIX": "7",
	"ALERT_PHONES":          []string{},
	"LOG_PATH":              "",
}

// LoadConfig reads path/.env when present, then the environment.
// Environment values win over the file.
func LoadConfig(path string) (*Configs, error) {
	v := viper.New()
	v.SetConfigType("env")
	v.SetConfigFile(filepath.Join(path, ".env"))
	v.AutomaticEnv()

	// every key needs a default so Unmarshal sees env-only values
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Configs
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.AlertRecipients = compact(cfg.AlertRecipients)
	cfg.AlertPhones = compact(cfg.AlertPhones)

	return &cfg, nil
}

// DSN returns DATABASE_URL when set, otherwise builds one from the DB_* keys.
func (c *Configs) DSN() (string, error) {
	if c.DatabaseURL != "" {
		return c.DatabaseURL, nil
	}

	var missing []string
	for key, value := range map[string]string{
		"DB_HOST": c.DBHost,
		"DB_NAME": c.DBName,
		"DB_USER": c.DBUser,
	} {
		if value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return "", fmt.Errorf("missing database configuration: %s", strings.Join(missing, ", "))
	}

	return fmt.Sprintf("%s://%s:%s@%s:%s/%s",
		c.DBDriver, c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName), nil
}

func (c *Configs) StoreTimeout() time.Duration {
	return time.Duration(c.StoreTimeoutSeconds) * time.Second
}

func (c *Configs) RunStatusTTL() time.Duration {
	return time.Duration(c.RunStatusTTLHours) * time.Hour
}

// compact trims entries and drops empty ones from comma separated lists.
func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
