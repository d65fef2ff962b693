package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/cart"
	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
	"github.com/vladislavdragonenkov/storefront/internal/pricing"
	"github.com/vladislavdragonenkov/storefront/internal/shipping"
)

// Шаги оформления для метрик и логов.
const (
	StepAddress = "address"
	StepPayment = "payment"
	StepClear   = "clear"
)

const (
	// DefaultSubmitTimeout ограничивает одну попытку оформления целиком.
	DefaultSubmitTimeout = 10 * time.Second
	// bookkeepingTimeout ограничивает запись timeline и публикацию событий
	// после того, как контекст попытки уже мог истечь.
	bookkeepingTimeout = 3 * time.Second
)

// Config задаёт параметры оркестратора.
type Config struct {
	SubmitTimeout time.Duration
}

// DefaultConfig возвращает настройки по умолчанию.
func DefaultConfig() Config {
	return Config{SubmitTimeout: DefaultSubmitTimeout}
}

// Dependencies — коллабораторы оркестратора. Timeline, Publisher и Metrics опциональны.
type Dependencies struct {
	Cart      *cart.Store
	Rates     *pricing.Table
	Shipping  shipping.Policy
	Addresses domain.AddressRepository
	Payments  domain.PaymentService
	Timeline  domain.TimelineRepository
	Publisher domain.EventPublisher
	Metrics   *metrics.CheckoutMetrics
	Logger    *log.Entry
}

// Orchestrator ведёт одну сессию через Idle → Submitting → {Success, Failed}.
// Неудачная попытка логируется и возвращает оркестратор в Idle с нетронутой корзиной.
type Orchestrator struct {
	cart      *cart.Store
	rates     *pricing.Table
	shipping  shipping.Policy
	addresses domain.AddressRepository
	payments  domain.PaymentService
	timeline  domain.TimelineRepository
	publisher domain.EventPublisher
	metrics   *metrics.CheckoutMetrics
	logger    *log.Entry
	cfg       Config

	submitting atomic.Bool

	mu      sync.RWMutex
	state   domain.CheckoutState
	address domain.ShippingAddress
}

// NewOrchestrator создаёт оркестратор. Cart, Addresses и Payments обязательны.
func NewOrchestrator(deps Dependencies, cfg Config) (*Orchestrator, error) {
	if deps.Cart == nil {
		return nil, errors.New("checkout: cart store is required")
	}
	if deps.Addresses == nil {
		return nil, errors.New("checkout: address repository is required")
	}
	if deps.Payments == nil {
		return nil, errors.New("checkout: payment service is required")
	}
	if deps.Rates == nil {
		deps.Rates = pricing.DefaultTable()
	}
	if deps.Shipping == (shipping.Policy{}) {
		deps.Shipping = shipping.DefaultPolicy()
	}
	if deps.Logger == nil {
		deps.Logger = log.New().WithField("component", "checkout")
	}
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = DefaultSubmitTimeout
	}

	return &Orchestrator{
		cart:      deps.Cart,
		rates:     deps.Rates,
		shipping:  deps.Shipping,
		addresses: deps.Addresses,
		payments:  deps.Payments,
		timeline:  deps.Timeline,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		cfg:       cfg,
		state:     domain.CheckoutStateIdle,
	}, nil
}

// State возвращает текущее состояние оркестратора.
func (o *Orchestrator) State() domain.CheckoutState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Submitting сообщает, что попытка оформления ещё выполняется.
func (o *Orchestrator) Submitting() bool {
	return o.submitting.Load()
}

// Submit оформляет заказ: сохраняет адрес в профиль (если user не nil), авторизует
// платёж и очищает корзину. Пока попытка выполняется, повторный вызов получает
// ErrCheckoutInProgress. currency — валюта отображения, в ней идёт авторизация.
func (o *Orchestrator) Submit(ctx context.Context, user *domain.User, currency string) (domain.CheckoutResult, error) {
	if !o.submitting.CompareAndSwap(false, true) {
		o.reject("in_progress")
		return domain.CheckoutResult{State: domain.CheckoutStateSubmitting}, domain.ErrCheckoutInProgress
	}
	defer o.submitting.Store(false)

	if o.cart.Len() == 0 {
		o.reject("empty_cart")
		return domain.CheckoutResult{State: o.State()}, domain.ErrCartEmpty
	}
	address := o.Address()
	if !address.Complete() {
		o.reject("address_incomplete")
		return domain.CheckoutResult{State: o.State()}, domain.ErrAddressIncomplete
	}

	orderID := uuid.NewString()
	a := &attempt{
		orderID:  orderID,
		user:     user,
		address:  address,
		total:    o.Quote(currency),
		items:    o.cart.Count(),
		started:  time.Now(),
		parent:   ctx,
		logEntry: o.logger.WithField("order_id", orderID),
	}

	o.setState(domain.CheckoutStateSubmitting)
	if o.metrics != nil {
		o.metrics.RecordCheckoutStarted()
	}
	o.appendTimeline(ctx, a.orderID, domain.TimelineCheckoutStarted, "")

	runCtx, cancel := context.WithTimeout(ctx, o.cfg.SubmitTimeout)
	defer cancel()

	result := domain.CheckoutResult{
		OrderID: a.orderID,
		Total:   a.total,
	}

	if user != nil {
		if err := o.saveAddress(runCtx, a); err != nil {
			return o.fail(a, result, StepAddress, o.classify(runCtx, err))
		}
		result.AddressSaved = true
	}

	if err := o.authorize(runCtx, a); err != nil {
		return o.fail(a, result, StepPayment, o.classify(runCtx, err))
	}

	stepStart := time.Now()
	o.cart.Clear()
	o.observeStep(StepClear, stepStart)
	o.appendTimeline(ctx, a.orderID, domain.TimelineCartCleared, "")

	return o.complete(a, result), nil
}

type attempt struct {
	orderID  string
	user     *domain.User
	address  domain.ShippingAddress
	total    domain.OrderTotal
	items    int
	started  time.Time
	parent   context.Context
	logEntry *log.Entry
}

func (a *attempt) userID() string {
	if a.user == nil {
		return ""
	}
	return a.user.ID
}

func (o *Orchestrator) saveAddress(ctx context.Context, a *attempt) error {
	stepStart := time.Now()
	defer o.observeStep(StepAddress, stepStart)

	saved, err := o.addresses.Add(ctx, a.user.ID, domain.SavedAddress{
		Type:            domain.AddressTypeShipping,
		ShippingAddress: a.address,
	})
	if err != nil {
		return fmt.Errorf("save address: %w", err)
	}
	a.logEntry.WithFields(log.Fields{
		"user_id":    a.user.ID,
		"address_id": saved.ID,
	}).Debug("shipping address saved to profile")
	o.appendTimeline(a.parent, a.orderID, domain.TimelineAddressSaved, "")
	return nil
}

func (o *Orchestrator) authorize(ctx context.Context, a *attempt) error {
	stepStart := time.Now()
	defer o.observeStep(StepPayment, stepStart)

	status, err := o.payments.Authorize(ctx, a.orderID, a.total.Total, a.total.Currency)
	if err != nil {
		return fmt.Errorf("authorize payment: %w", err)
	}
	if status != domain.PaymentStatusAuthorized {
		return fmt.Errorf("authorize payment: status %s: %w", status, domain.ErrPaymentDeclined)
	}
	o.appendTimeline(a.parent, a.orderID, domain.TimelinePaymentAuthorized, "")
	return nil
}

// classify превращает истечение таймаута попытки в ErrCheckoutTimeout.
// Отмена родительского контекста возвращается как есть.
func (o *Orchestrator) classify(runCtx context.Context, err error) error {
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %w", domain.ErrCheckoutTimeout, o.cfg.SubmitTimeout, err)
	}
	return err
}

func (o *Orchestrator) complete(a *attempt, result domain.CheckoutResult) domain.CheckoutResult {
	elapsed := time.Since(a.started)
	o.setState(domain.CheckoutStateSuccess)
	if o.metrics != nil {
		o.metrics.RecordCheckoutCompleted(elapsed)
	}
	o.appendTimeline(a.parent, a.orderID, domain.TimelineCheckoutCompleted, "")
	o.publish(a, domain.TimelineCheckoutCompleted, "")

	a.logEntry.WithFields(log.Fields{
		"user_id":  a.userID(),
		"total":    a.total.TotalFormatted,
		"duration": elapsed,
	}).Info("checkout completed")

	result.State = domain.CheckoutStateSuccess
	result.Completed = time.Now().UTC()
	return result
}

func (o *Orchestrator) fail(a *attempt, result domain.CheckoutResult, step string, err error) (domain.CheckoutResult, error) {
	elapsed := time.Since(a.started)
	a.logEntry.WithError(err).WithFields(log.Fields{
		"user_id": a.userID(),
		"step":    step,
	}).Error("checkout failed, cart kept for retry")

	if o.metrics != nil {
		o.metrics.RecordCheckoutFailed(step, elapsed)
	}
	o.appendTimeline(a.parent, a.orderID, domain.TimelineCheckoutFailed, err.Error())
	o.publish(a, domain.TimelineCheckoutFailed, err.Error())

	// Failed не задерживается: оркестратор сразу готов к повторной попытке.
	o.setState(domain.CheckoutStateIdle)

	result.State = domain.CheckoutStateFailed
	return result, fmt.Errorf("checkout %s: %w", a.orderID, err)
}

func (o *Orchestrator) reject(reason string) {
	if o.metrics != nil {
		o.metrics.RecordCheckoutRejected(reason)
	}
	o.logger.WithField("reason", reason).Debug("checkout submit rejected")
}

func (o *Orchestrator) setState(state domain.CheckoutState) {
	o.mu.Lock()
	o.state = state
	o.mu.Unlock()
}

func (o *Orchestrator) observeStep(step string, start time.Time) {
	if o.metrics != nil {
		o.metrics.RecordStepDuration(step, time.Since(start))
	}
}

// appendTimeline пишет событие попытки. Ошибка записи не влияет на исход оформления.
func (o *Orchestrator) appendTimeline(ctx context.Context, orderID, eventType, reason string) {
	if o.timeline == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), bookkeepingTimeout)
	defer cancel()

	event := domain.TimelineEvent{
		OrderID:  orderID,
		Type:     eventType,
		Reason:   reason,
		Occurred: time.Now().UTC(),
	}
	if err := o.timeline.Append(ctx, event); err != nil {
		o.logger.WithError(err).WithFields(log.Fields{
			"order_id": orderID,
			"event":    eventType,
		}).Warn("append timeline event failed")
		return
	}
	if o.metrics != nil {
		o.metrics.RecordTimelineEvent()
	}
}

// publish отправляет событие во внешнюю шину, если она настроена.
func (o *Orchestrator) publish(a *attempt, eventType, reason string) {
	if o.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(a.parent), bookkeepingTimeout)
	defer cancel()

	event := domain.CheckoutEvent{
		Type:     eventType,
		OrderID:  a.orderID,
		UserID:   a.userID(),
		Currency: a.total.Currency,
		TotalUSD: a.total.TotalUSD,
		Items:    a.items,
		Reason:   reason,
		Occurred: time.Now().UTC(),
	}
	if err := o.publisher.Publish(ctx, event); err != nil {
		a.logEntry.WithError(err).WithField("event_type", eventType).Warn("failed to publish checkout event")
		return
	}
	if o.metrics != nil {
		o.metrics.RecordPublishedEvent()
	}
}
