package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/pkg/errs"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaHost       string
	KafkaAuditTopic string
	RabbitMQURL     string

	LicensingBaseURL string
	TaxSignerBaseURL string
	TaxSignerSecret  string
	WebhookSecret    string

	PaymentTimeout   time.Duration
	DriverRetryDelay time.Duration
	DriverRetryLimit int

	PaymentTimeoutSpec  string
	TaskDispatchSpec    string
	LicenseReverifySpec string

	SeedReferenceData bool
	SettingsFile      string
}

// DSN is the libpq connection string of the database.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// LoadConfig reads envFile into the environment, without overriding variables that are
// already set, and builds the Config. A missing envFile is not an error.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var parseErrs []error
	config := Config{
		HTTPPort:   envOr("HTTP_PORT", "8080"),
		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),

		KafkaHost:       os.Getenv("KAFKA_HOST"),
		KafkaAuditTopic: envOr("KAFKA_AUDIT_TOPIC", "shipment-events"),
		RabbitMQURL:     os.Getenv("RABBITMQ_URL"),

		LicensingBaseURL: os.Getenv("LICENSING_BASE_URL"),
		TaxSignerBaseURL: os.Getenv("TAX_SIGNER_BASE_URL"),
		TaxSignerSecret:  os.Getenv("TAX_SIGNER_SECRET"),
		WebhookSecret:    os.Getenv("PAYMENT_WEBHOOK_SECRET"),

		PaymentTimeout:   durationEnv("PAYMENT_TIMEOUT", commands.DefaultPaymentTimeout, &parseErrs),
		DriverRetryDelay: durationEnv("DRIVER_RETRY_DELAY", commands.DefaultAssignmentPolicy().RetryDelay, &parseErrs),
		DriverRetryLimit: intEnv("DRIVER_RETRY_LIMIT", commands.DefaultAssignmentPolicy().MaxRetries, &parseErrs),

		PaymentTimeoutSpec:  os.Getenv("PAYMENT_TIMEOUT_CRON"),
		TaskDispatchSpec:    os.Getenv("TASK_DISPATCH_CRON"),
		LicenseReverifySpec: os.Getenv("LICENSE_REVERIFY_CRON"),

		SeedReferenceData: boolEnv("SEED_REFERENCE_DATA", false, &parseErrs),
		SettingsFile:      os.Getenv("SETTINGS_FILE"),
	}

	for key, value := range map[string]string{
		"DB_USER":                config.DBUser,
		"DB_NAME":                config.DBName,
		"KAFKA_HOST":             config.KafkaHost,
		"RABBITMQ_URL":           config.RabbitMQURL,
		"LICENSING_BASE_URL":     config.LicensingBaseURL,
		"TAX_SIGNER_BASE_URL":    config.TaxSignerBaseURL,
		"TAX_SIGNER_SECRET":      config.TaxSignerSecret,
		"PAYMENT_WEBHOOK_SECRET": config.WebhookSecret,
	} {
		if value == "" {
			parseErrs = append(parseErrs, errs.NewValueIsRequiredError(key))
		}
	}

	if err := errors.Join(parseErrs...); err != nil {
		return Config{}, err
	}
	return config, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration, parseErrs *[]error) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		*parseErrs = append(*parseErrs, errs.NewValueIsInvalidErrorWithCause(key, fmt.Errorf("%q is not a positive duration", raw)))
		return fallback
	}
	return d
}

func intEnv(key string, fallback int, parseErrs *[]error) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		*parseErrs = append(*parseErrs, errs.NewValueIsInvalidErrorWithCause(key, fmt.Errorf("%q is not a non-negative integer", raw)))
		return fallback
	}
	return n
}

func boolEnv(key string, fallback bool, parseErrs *[]error) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		*parseErrs = append(*parseErrs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return b
}
