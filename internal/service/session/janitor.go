package session

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

const (
	defaultSweepInterval  = time.Minute
	defaultSweepBatchSize = 500
	// DefaultIdleTTL — сколько сессия живёт без обращений.
	DefaultIdleTTL = 30 * time.Minute
)

var (
	sessionSweepRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_session_sweep_runs_total",
		Help: "Total number of idle session sweeps grouped by result.",
	}, []string{"result"})
	sessionEvictedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_session_evicted_total",
		Help: "Total number of evicted idle sessions.",
	})
	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_sessions_active",
		Help: "Number of sessions held in memory after the last sweep.",
	})
)

// JanitorOptions задает параметры очистки простаивающих сессий.
type JanitorOptions struct {
	Logger    *log.Entry
	Interval  time.Duration
	BatchSize int
	IdleTTL   time.Duration
}

// JanitorOption настраивает Janitor.
type JanitorOption func(*JanitorOptions)

// WithLogger задает logger.
func WithLogger(logger *log.Entry) JanitorOption {
	return func(opts *JanitorOptions) {
		opts.Logger = logger
	}
}

// WithInterval задает интервал между проходами.
func WithInterval(interval time.Duration) JanitorOption {
	return func(opts *JanitorOptions) {
		opts.Interval = interval
	}
}

// WithBatchSize задает сколько сессий удаляется за одну блокировку реестра.
func WithBatchSize(batchSize int) JanitorOption {
	return func(opts *JanitorOptions) {
		opts.BatchSize = batchSize
	}
}

// WithIdleTTL задает время простоя, после которого сессия удаляется.
func WithIdleTTL(ttl time.Duration) JanitorOption {
	return func(opts *JanitorOptions) {
		opts.IdleTTL = ttl
	}
}

// Janitor периодически убирает из реестра сессии без обращений дольше IdleTTL.
// Корзина такой сессии теряется, как и при рестарте процесса.
type Janitor struct {
	registry  *Registry
	logger    *log.Entry
	interval  time.Duration
	batchSize int
	idleTTL   time.Duration
}

// NewJanitor создает janitor для registry.
func NewJanitor(registry *Registry, options ...JanitorOption) *Janitor {
	opts := JanitorOptions{
		Interval:  defaultSweepInterval,
		BatchSize: defaultSweepBatchSize,
		IdleTTL:   DefaultIdleTTL,
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "session-janitor")
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultSweepInterval
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultSweepBatchSize
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = DefaultIdleTTL
	}

	return &Janitor{
		registry:  registry,
		logger:    logger,
		interval:  opts.Interval,
		batchSize: opts.BatchSize,
		idleTTL:   opts.IdleTTL,
	}
}

// Run чистит реестр каждые interval до отмены ctx.
func (j *Janitor) Run(ctx context.Context) {
	if j.registry == nil {
		j.logger.Warn("session janitor is disabled: registry is nil")
		return
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep(ctx, time.Now())
		}
	}
}

func (j *Janitor) sweep(ctx context.Context, now time.Time) {
	evicted, err := j.Sweep(ctx, now)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		sessionSweepRunsTotal.WithLabelValues("error").Inc()
		j.logger.WithError(err).Warn("session sweep failed")
		return
	}

	sessionSweepRunsTotal.WithLabelValues("ok").Inc()
	sessionsActive.Set(float64(j.registry.Len()))
	if evicted > 0 {
		j.logger.WithFields(log.Fields{
			"evicted": evicted,
			"active":  j.registry.Len(),
		}).Info("idle sessions evicted")
	}
}

// Sweep удаляет сессии, простаивающие на момент now дольше idleTTL, порциями batchSize.
func (j *Janitor) Sweep(ctx context.Context, now time.Time) (int, error) {
	if now.IsZero() {
		now = time.Now()
	}
	before := now.Add(-j.idleTTL)

	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		evicted := j.registry.EvictIdle(before, j.batchSize)
		total += evicted
		if evicted > 0 {
			sessionEvictedTotal.Add(float64(evicted))
		}
		if evicted < j.batchSize {
			return total, nil
		}
	}
}
