package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
	"github.com/vladislavdragonenkov/storefront/internal/pricing"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
	"github.com/vladislavdragonenkov/storefront/internal/service/payment"
	"github.com/vladislavdragonenkov/storefront/internal/service/session"
	"github.com/vladislavdragonenkov/storefront/internal/shipping"
)

// createRegistry собирает реестр сессий. События оформления публикуются,
// только если producer создан.
func createRegistry(
	cfg Config,
	deps *runtimeDependencies,
	rates *pricing.Table,
	policy shipping.Policy,
	producer *kafka.Producer,
	checkoutMetrics *metrics.CheckoutMetrics,
	logger *log.Entry,
) (*session.Registry, error) {
	var publisher domain.EventPublisher
	if producer != nil {
		publisher = producer
	}

	return session.NewRegistry(session.Dependencies{
		Rates:     rates,
		Shipping:  policy,
		Addresses: deps.addresses,
		Payments:  payment.NewMockServiceWithLatency(cfg.PaymentLatency),
		Timeline:  deps.timeline,
		Publisher: publisher,
		Metrics:   checkoutMetrics,
		Logger:    logger.WithField("layer", "session"),
	}, session.Config{
		DefaultCurrency: cfg.DefaultCurrency,
		Checkout:        checkout.Config{SubmitTimeout: cfg.CheckoutTimeout},
	})
}
