package payment

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// DefaultLatency имитирует ответ платёжного провайдера.
const DefaultLatency = 2 * time.Second

// MockService — конфигурируемая заглушка PaymentService. Реальный провайдер не вызывается.
type MockService struct {
	mu sync.Mutex

	Status  domain.PaymentStatus
	Err     error
	Latency time.Duration

	calls int
}

// NewMockService возвращает mock с успешной авторизацией и задержкой по умолчанию.
func NewMockService() *MockService {
	return NewMockServiceWithLatency(DefaultLatency)
}

// NewMockServiceWithLatency возвращает успешный mock с заданной задержкой.
func NewMockServiceWithLatency(latency time.Duration) *MockService {
	return &MockService{
		Status:  domain.PaymentStatusAuthorized,
		Latency: latency,
	}
}

// Authorize ждёт Latency (или отмену ctx) и возвращает настроенный результат.
func (m *MockService) Authorize(ctx context.Context, orderID string, amount decimal.Decimal, currency string) (domain.PaymentStatus, error) {
	m.mu.Lock()
	m.calls++
	latency, status, err := m.Latency, m.Status, m.Err
	m.mu.Unlock()

	if latency > 0 {
		timer := time.NewTimer(latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	if err != nil {
		return status, err
	}
	if status == domain.PaymentStatusDeclined {
		return status, domain.ErrPaymentDeclined
	}
	return status, nil
}

// Calls возвращает количество вызовов Authorize.
func (m *MockService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var _ domain.PaymentService = (*MockService)(nil)
