package app

import (
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
	"github.com/vladislavdragonenkov/storefront/internal/service/payment"
	"github.com/vladislavdragonenkov/storefront/internal/service/session"
)

// Поддерживаемые драйверы хранилища.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// Config описывает настройки запуска витрины.
type Config struct {
	GRPCAddr    string
	MetricsAddr string

	StorageDriver       string
	PostgresDSN         string
	PostgresAutoMigrate bool

	// KafkaBrokers — список брокеров через запятую; пустая строка отключает публикацию.
	KafkaBrokers string
	KafkaTopic   string

	// PricingFile — YAML с таблицей валют и политикой доставки; пустой путь означает встроенные значения.
	PricingFile     string
	DefaultCurrency string

	PaymentLatency  time.Duration
	CheckoutTimeout time.Duration
	// SessionIdleTTL — через сколько без обращений сессия с корзиной удаляется из памяти.
	SessionIdleTTL time.Duration
}

// DefaultConfig возвращает конфигурацию для локального запуска без внешних зависимостей.
func DefaultConfig() Config {
	return Config{
		GRPCAddr:            ":50051",
		MetricsAddr:         ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		KafkaTopic:          kafka.TopicCheckoutEvents,
		DefaultCurrency:     session.DefaultCurrency,
		PaymentLatency:      payment.DefaultLatency,
		CheckoutTimeout:     checkout.DefaultSubmitTimeout,
		SessionIdleTTL:      session.DefaultIdleTTL,
	}
}
