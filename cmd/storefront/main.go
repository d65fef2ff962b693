package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/app"
	"github.com/vladislavdragonenkov/storefront/internal/version"
)

const (
	envGRPCAddr            = "STOREFRONT_GRPC_ADDR"
	envMetricsAddr         = "STOREFRONT_METRICS_ADDR"
	envStorageDriver       = "STOREFRONT_STORAGE_DRIVER"
	envPostgresDSN         = "STOREFRONT_POSTGRES_DSN"
	envPostgresAutoMigrate = "STOREFRONT_POSTGRES_AUTO_MIGRATE"
	envKafkaBrokers        = "STOREFRONT_KAFKA_BROKERS"
	envKafkaTopic          = "STOREFRONT_KAFKA_TOPIC"
	envPricingFile         = "STOREFRONT_PRICING_FILE"
	envDefaultCurrency     = "STOREFRONT_DEFAULT_CURRENCY"
	envPaymentLatency      = "STOREFRONT_PAYMENT_LATENCY"
	envCheckoutTimeout     = "STOREFRONT_CHECKOUT_TIMEOUT"
	envSessionIdleTTL      = "STOREFRONT_SESSION_IDLE_TTL"
	envLogLevel            = "STOREFRONT_LOG_LEVEL"
	envLogFormat           = "STOREFRONT_LOG_FORMAT"
)

type envLookup func(string) (string, bool)

// logSettings — настройки логгера, которые не относятся к app.Config.
type logSettings struct {
	Level  log.Level
	Format string
}

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger(settings logSettings) {
	if settings.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	log.SetLevel(settings.Level)
}

func readLogSettings(lookup envLookup) (logSettings, []string) {
	settings := logSettings{Level: log.InfoLevel, Format: "text"}
	var warnings []string

	if raw, ok := lookupTrimmed(lookup, envLogLevel); ok {
		level, err := log.ParseLevel(raw)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s=%q is invalid: %v; using %s", envLogLevel, raw, err, settings.Level))
		} else {
			settings.Level = level
		}
	}
	if raw, ok := lookupTrimmed(lookup, envLogFormat); ok {
		switch format := strings.ToLower(raw); format {
		case "text", "json":
			settings.Format = format
		default:
			warnings = append(warnings, fmt.Sprintf("%s=%q is invalid: use text or json; using text", envLogFormat, raw))
		}
	}
	return settings, warnings
}

// readConfigFromEnv собирает app.Config из переменных окружения. Некорректные
// значения не останавливают запуск: остаётся значение по умолчанию и пишется warning.
func readConfigFromEnv(lookup envLookup) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string

	if v, ok := lookupTrimmed(lookup, envGRPCAddr); ok {
		cfg.GRPCAddr = v
	}
	if v, ok := lookupTrimmed(lookup, envMetricsAddr); ok {
		cfg.MetricsAddr = v
	}
	if v, ok := lookupTrimmed(lookup, envStorageDriver); ok {
		cfg.StorageDriver = strings.ToLower(v)
	}
	if v, ok := lookupTrimmed(lookup, envPostgresDSN); ok {
		cfg.PostgresDSN = v
	}
	if raw, ok := lookupTrimmed(lookup, envPostgresAutoMigrate); ok {
		value, err := parseBool(raw)
		if err != nil {
			warnings = append(warnings, invalidWarning(envPostgresAutoMigrate, raw, err, cfg.PostgresAutoMigrate))
		} else {
			cfg.PostgresAutoMigrate = value
		}
	}
	if v, ok := lookupTrimmed(lookup, envKafkaBrokers); ok {
		cfg.KafkaBrokers = v
	}
	if v, ok := lookupTrimmed(lookup, envKafkaTopic); ok {
		cfg.KafkaTopic = v
	}
	if v, ok := lookupTrimmed(lookup, envPricingFile); ok {
		cfg.PricingFile = v
	}
	if v, ok := lookupTrimmed(lookup, envDefaultCurrency); ok {
		cfg.DefaultCurrency = strings.ToUpper(v)
	}
	if raw, ok := lookupTrimmed(lookup, envPaymentLatency); ok {
		value, err := parseDuration(raw, func(v time.Duration) bool { return v >= 0 }, "must be >= 0")
		if err != nil {
			warnings = append(warnings, invalidWarning(envPaymentLatency, raw, err, cfg.PaymentLatency))
		} else {
			cfg.PaymentLatency = value
		}
	}
	if raw, ok := lookupTrimmed(lookup, envCheckoutTimeout); ok {
		value, err := parseDuration(raw, func(v time.Duration) bool { return v > 0 }, "must be > 0")
		if err != nil {
			warnings = append(warnings, invalidWarning(envCheckoutTimeout, raw, err, cfg.CheckoutTimeout))
		} else {
			cfg.CheckoutTimeout = value
		}
	}
	if raw, ok := lookupTrimmed(lookup, envSessionIdleTTL); ok {
		value, err := parseDuration(raw, func(v time.Duration) bool { return v > 0 }, "must be > 0")
		if err != nil {
			warnings = append(warnings, invalidWarning(envSessionIdleTTL, raw, err, cfg.SessionIdleTTL))
		} else {
			cfg.SessionIdleTTL = value
		}
	}

	return cfg, warnings
}

func lookupTrimmed(lookup envLookup, key string) (string, bool) {
	raw, ok := lookup(key)
	if !ok {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func invalidWarning(key, raw string, err error, fallback any) string {
	return fmt.Sprintf("%s=%q is invalid: %v; using %v", key, raw, err, fallback)
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean")
	}
}

func parseDuration(raw string, validate func(time.Duration) bool, rule string) (time.Duration, error) {
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if validate != nil && !validate(value) {
		return 0, errors.New(rule)
	}
	return value, nil
}

// loadDotEnv подхватывает .env, если он есть. Уже заданные переменные не перезаписываются.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func main() {
	if err := loadDotEnv(".env"); err != nil {
		log.WithError(err).Warn("failed to load .env")
	}

	settings, logWarnings := readLogSettings(os.LookupEnv)
	setupLogger(settings)

	cfg, warnings := readConfigFromEnv(os.LookupEnv)
	for _, w := range append(logWarnings, warnings...) {
		log.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"version":        version.GetVersion(),
		"grpc_addr":      cfg.GRPCAddr,
		"metrics_addr":   cfg.MetricsAddr,
		"storage_driver": cfg.StorageDriver,
		"kafka_enabled":  cfg.KafkaBrokers != "",
	}).Info("запускаем витрину")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("витрина остановлена")
}
