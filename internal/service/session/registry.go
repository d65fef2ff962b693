// Package session связывает корзину, избранное и оркестратор оформления с одной сессией покупателя.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/cart"
	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
	"github.com/vladislavdragonenkov/storefront/internal/pricing"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
	"github.com/vladislavdragonenkov/storefront/internal/shipping"
)

// DefaultCurrency — валюта отображения новой сессии.
const DefaultCurrency = "INR"

// Session — состояние одного покупателя. Живёт до рестарта процесса.
type Session struct {
	ID       string
	Cart     *cart.Store
	Wishlist *cart.Wishlist
	Checkout *checkout.Orchestrator

	rates *pricing.Table

	mu       sync.RWMutex
	currency string

	lastSeen atomic.Int64
}

// LastSeen возвращает время последнего обращения к сессии.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// busy сообщает, что по сессии идёт оформление заказа.
func (s *Session) busy() bool {
	return s.Checkout.Submitting()
}

// Currency возвращает валюту отображения.
func (s *Session) Currency() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currency
}

// SetCurrency меняет валюту отображения. Неизвестный код отклоняется.
func (s *Session) SetCurrency(code string) error {
	c, ok := s.rates.Lookup(code)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrCurrencyUnknown, code)
	}
	s.mu.Lock()
	s.currency = c.Code
	s.mu.Unlock()
	return nil
}

// Config задаёт общие параметры сессий.
type Config struct {
	DefaultCurrency string
	Checkout        checkout.Config
}

// Dependencies — общие для всех сессий коллабораторы.
type Dependencies struct {
	Rates     *pricing.Table
	Shipping  shipping.Policy
	Addresses domain.AddressRepository
	Payments  domain.PaymentService
	Timeline  domain.TimelineRepository
	Publisher domain.EventPublisher
	Metrics   *metrics.CheckoutMetrics
	Logger    *log.Entry
}

// Registry лениво создаёт сессии по идентификатору.
type Registry struct {
	deps   Dependencies
	cfg    Config
	logger *log.Entry
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry проверяет зависимости и возвращает пустой реестр.
func NewRegistry(deps Dependencies, cfg Config) (*Registry, error) {
	if deps.Addresses == nil || deps.Payments == nil {
		return nil, errors.New("session: addresses and payments are required")
	}
	if deps.Rates == nil {
		deps.Rates = pricing.DefaultTable()
	}
	if deps.Logger == nil {
		deps.Logger = log.New().WithField("component", "session")
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = DefaultCurrency
	}
	if _, ok := deps.Rates.Lookup(cfg.DefaultCurrency); !ok {
		return nil, fmt.Errorf("%w: default currency %q", domain.ErrCurrencyUnknown, cfg.DefaultCurrency)
	}

	return &Registry{
		deps:     deps,
		cfg:      cfg,
		logger:   deps.Logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}, nil
}

// Get возвращает сессию, создавая её при первом обращении.
func (r *Registry) Get(id string) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrSessionRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if s, ok := r.sessions[id]; ok {
		s.touch(now)
		return s, nil
	}

	s, err := r.newSession(id)
	if err != nil {
		return nil, err
	}
	s.touch(now)
	r.sessions[id] = s
	r.logger.WithField("session_id", id).Debug("session created")
	return s, nil
}

// Len возвращает количество активных сессий.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// EvictIdle удаляет не больше limit сессий, к которым не обращались с before.
// Сессии с идущим оформлением не трогаются. limit <= 0 снимает ограничение.
func (r *Registry) EvictIdle(before time.Time, limit int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, s := range r.sessions {
		if limit > 0 && evicted >= limit {
			break
		}
		if !s.LastSeen().Before(before) || s.busy() {
			continue
		}
		delete(r.sessions, id)
		evicted++
		r.logger.WithField("session_id", id).Debug("idle session evicted")
	}
	return evicted
}

func (r *Registry) newSession(id string) (*Session, error) {
	var store *cart.Store
	if r.deps.Metrics != nil {
		store = cart.NewStoreWithMetrics(r.deps.Rates, r.deps.Metrics)
	} else {
		store = cart.NewStore(r.deps.Rates)
	}

	orch, err := checkout.NewOrchestrator(checkout.Dependencies{
		Cart:      store,
		Rates:     r.deps.Rates,
		Shipping:  r.deps.Shipping,
		Addresses: r.deps.Addresses,
		Payments:  r.deps.Payments,
		Timeline:  r.deps.Timeline,
		Publisher: r.deps.Publisher,
		Metrics:   r.deps.Metrics,
		Logger:    r.logger.WithField("session_id", id),
	}, r.cfg.Checkout)
	if err != nil {
		return nil, fmt.Errorf("create checkout for session %s: %w", id, err)
	}

	c, _ := r.deps.Rates.Lookup(r.cfg.DefaultCurrency)
	return &Session{
		ID:       id,
		Cart:     store,
		Wishlist: cart.NewWishlist(),
		Checkout: orch,
		rates:    r.deps.Rates,
		currency: c.Code,
	}, nil
}
